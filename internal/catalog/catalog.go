package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	pgx "github.com/jackc/pgx/v5"

	"github.com/rajasatyajit/roadside/internal/logger"
	"github.com/rajasatyajit/roadside/internal/models"
)

//go:embed default_catalog.json
var defaultCatalogJSON []byte

// Source loads service centers and mechanics
type Source interface {
	Name() string
	Load(ctx context.Context) (models.Catalog, error)
}

// Database interface for dependency injection
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Health(ctx context.Context) error
	IsConfigured() bool
}

// New picks a source: Postgres when configured, then a JSON file, then the embedded default
func New(db Database, path string) Source {
	switch {
	case db != nil && db.IsConfigured():
		return NewPostgresSource(db)
	case path != "":
		return NewFileSource(path)
	default:
		return NewStaticSource(Default())
	}
}

// Default returns the embedded catalog
func Default() models.Catalog {
	c, err := Decode(defaultCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Decode parses a JSON catalog, rejecting unknown fields
func Decode(data []byte) (models.Catalog, error) {
	var c models.Catalog
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return models.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// StaticSource serves a fixed catalog
type StaticSource struct {
	catalog models.Catalog
}

// NewStaticSource wraps an in-memory catalog
func NewStaticSource(c models.Catalog) *StaticSource {
	return &StaticSource{catalog: c}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load(ctx context.Context) (models.Catalog, error) {
	return models.Catalog{
		Centers:   append([]models.ServiceCenter(nil), s.catalog.Centers...),
		Mechanics: append([]models.Mechanic(nil), s.catalog.Mechanics...),
	}, nil
}

// FileSource reads a JSON catalog from disk
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(ctx context.Context) (models.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	c, err := Decode(data)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%s: %w", s.path, err)
	}
	logger.Info("Catalog loaded from file",
		"path", s.path,
		"centers", len(c.Centers),
		"mechanics", len(c.Mechanics),
	)
	return c, nil
}
