package locator

import (
	"fmt"
	"math"

	apperrors "github.com/rajasatyajit/roadside/internal/errors"
	"github.com/rajasatyajit/roadside/internal/geo"
	"github.com/rajasatyajit/roadside/internal/models"
)

// minutesPerDegree converts planar degrees into the placeholder ETA
const minutesPerDegree = 10

// Locator picks the nearest service center and mechanic from a read-only catalog.
// It is safe for concurrent use.
type Locator struct {
	centers   []models.ServiceCenter
	mechanics []models.Mechanic
}

// New validates and copies the catalog
func New(catalog models.Catalog) (*Locator, error) {
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	return &Locator{
		centers:   append([]models.ServiceCenter(nil), catalog.Centers...),
		mechanics: append([]models.Mechanic(nil), catalog.Mechanics...),
	}, nil
}

// Validate rejects empty catalogs and entries without usable identifiers
func Validate(catalog models.Catalog) error {
	if len(catalog.Centers) == 0 {
		return apperrors.CatalogError{Kind: "centers", Err: apperrors.ErrCatalogEmpty}
	}
	if len(catalog.Mechanics) == 0 {
		return apperrors.CatalogError{Kind: "mechanics", Err: apperrors.ErrCatalogEmpty}
	}

	var errs apperrors.MultiError
	seen := make(map[string]struct{}, len(catalog.Centers))
	for _, c := range catalog.Centers {
		if c.ID == "" {
			errs.Add(apperrors.CatalogError{Kind: "center", Err: fmt.Errorf("missing id")})
			continue
		}
		if _, dup := seen[c.ID]; dup {
			errs.Add(apperrors.CatalogError{Kind: "center", ID: c.ID, Err: fmt.Errorf("duplicate id")})
		}
		seen[c.ID] = struct{}{}
	}
	mechanics := make(map[string]struct{}, len(catalog.Mechanics))
	for _, m := range catalog.Mechanics {
		if m.ID == "" {
			errs.Add(apperrors.CatalogError{Kind: "mechanic", Err: fmt.Errorf("missing id")})
			continue
		}
		if _, dup := mechanics[m.ID]; dup {
			errs.Add(apperrors.CatalogError{Kind: "mechanic", ID: m.ID, Err: fmt.Errorf("duplicate id")})
		}
		mechanics[m.ID] = struct{}{}
	}
	return errs.ErrOrNil()
}

// NearestCenter returns the closest center, or the first one when loc is unknown.
// Ties keep the earlier catalog entry.
func (l *Locator) NearestCenter(loc *models.Coordinate) models.ServiceCenter {
	best := l.centers[0]
	if loc == nil {
		return best
	}
	bestDist := math.Inf(1)
	for _, c := range l.centers {
		c := c
		if d := geo.Distance(loc, &c.Location); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// NearestMechanic returns the closest mechanic of centerID. When the center has
// no mechanics every mechanic in the catalog is a candidate.
func (l *Locator) NearestMechanic(centerID string, loc *models.Coordinate) models.Mechanic {
	candidates := l.mechanicsOf(centerID)
	if len(candidates) == 0 {
		candidates = l.mechanics
	}

	best := candidates[0]
	if loc == nil {
		return best
	}
	bestDist := math.Inf(1)
	for _, m := range candidates {
		m := m
		if d := geo.Distance(loc, &m.Location); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

func (l *Locator) mechanicsOf(centerID string) []models.Mechanic {
	var out []models.Mechanic
	for _, m := range l.mechanics {
		if m.CenterID == centerID {
			out = append(out, m)
		}
	}
	return out
}

// Stats reports catalog sizes
func (l *Locator) Stats() (centers, mechanics int) {
	return len(l.centers), len(l.mechanics)
}

// EstimateETA implements the dispatch locator contract
func (l *Locator) EstimateETA(from, to *models.Coordinate) (int, bool) {
	return EstimateETA(from, to)
}

// EstimateETA converts planar distance into whole minutes.
// It reports false when either endpoint is unknown.
func EstimateETA(from, to *models.Coordinate) (int, bool) {
	if from == nil || to == nil {
		return 0, false
	}
	return int(math.Floor(geo.Distance(from, to) * minutesPerDegree)), true
}
