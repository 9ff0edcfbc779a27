package catalog

import (
	"context"
	"fmt"

	apperrors "github.com/rajasatyajit/roadside/internal/errors"
	"github.com/rajasatyajit/roadside/internal/logger"
	"github.com/rajasatyajit/roadside/internal/models"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS service_centers (
		id         TEXT PRIMARY KEY,
		lat        DOUBLE PRECISION NOT NULL,
		lon        DOUBLE PRECISION NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS mechanics (
		id         TEXT PRIMARY KEY,
		center_id  TEXT NOT NULL REFERENCES service_centers(id),
		lat        DOUBLE PRECISION NOT NULL,
		lon        DOUBLE PRECISION NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	);
`

// PostgresSource loads the catalog from the service_centers and mechanics tables.
// Rows are returned in sort_order so tie-breaking stays stable.
type PostgresSource struct {
	db Database
}

// NewPostgresSource creates a new PostgreSQL catalog source
func NewPostgresSource(db Database) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

// EnsureSchema creates the catalog tables when missing
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if err := s.db.Exec(ctx, schemaSQL); err != nil {
		return apperrors.DatabaseError{Operation: "ensure catalog schema", Err: err}
	}
	return nil
}

// Seed upserts a catalog, preserving slice order as sort_order
func (s *PostgresSource) Seed(ctx context.Context, c models.Catalog) error {
	const centerSQL = `
		INSERT INTO service_centers (id, lat, lon, sort_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			sort_order = EXCLUDED.sort_order
	`
	const mechanicSQL = `
		INSERT INTO mechanics (id, center_id, lat, lon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			center_id = EXCLUDED.center_id,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			sort_order = EXCLUDED.sort_order
	`

	for i, center := range c.Centers {
		if err := s.db.Exec(ctx, centerSQL, center.ID, center.Location.Lat, center.Location.Lon, i); err != nil {
			return apperrors.DatabaseError{Operation: fmt.Sprintf("seed center %s", center.ID), Err: err}
		}
	}
	for i, m := range c.Mechanics {
		if err := s.db.Exec(ctx, mechanicSQL, m.ID, m.CenterID, m.Location.Lat, m.Location.Lon, i); err != nil {
			return apperrors.DatabaseError{Operation: fmt.Sprintf("seed mechanic %s", m.ID), Err: err}
		}
	}
	return nil
}

// Load reads both tables
func (s *PostgresSource) Load(ctx context.Context) (models.Catalog, error) {
	centers, err := s.loadCenters(ctx)
	if err != nil {
		return models.Catalog{}, err
	}
	mechanics, err := s.loadMechanics(ctx)
	if err != nil {
		return models.Catalog{}, err
	}

	logger.Info("Catalog loaded from database",
		"centers", len(centers),
		"mechanics", len(mechanics),
	)
	return models.Catalog{Centers: centers, Mechanics: mechanics}, nil
}

func (s *PostgresSource) loadCenters(ctx context.Context) ([]models.ServiceCenter, error) {
	rows, err := s.db.Query(ctx, `SELECT id, lat, lon FROM service_centers ORDER BY sort_order, id`)
	if err != nil {
		return nil, apperrors.DatabaseError{Operation: "query centers", Err: err}
	}
	defer rows.Close()

	var centers []models.ServiceCenter
	for rows.Next() {
		var c models.ServiceCenter
		if err := rows.Scan(&c.ID, &c.Location.Lat, &c.Location.Lon); err != nil {
			return nil, apperrors.DatabaseError{Operation: "scan center", Err: err}
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError{Operation: "iterate centers", Err: err}
	}
	return centers, nil
}

func (s *PostgresSource) loadMechanics(ctx context.Context) ([]models.Mechanic, error) {
	rows, err := s.db.Query(ctx, `SELECT id, center_id, lat, lon FROM mechanics ORDER BY sort_order, id`)
	if err != nil {
		return nil, apperrors.DatabaseError{Operation: "query mechanics", Err: err}
	}
	defer rows.Close()

	var mechanics []models.Mechanic
	for rows.Next() {
		var m models.Mechanic
		if err := rows.Scan(&m.ID, &m.CenterID, &m.Location.Lat, &m.Location.Lon); err != nil {
			return nil, apperrors.DatabaseError{Operation: "scan mechanic", Err: err}
		}
		mechanics = append(mechanics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError{Operation: "iterate mechanics", Err: err}
	}
	return mechanics, nil
}
