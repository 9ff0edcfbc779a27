// Package geo holds the planar distance helper shared by every selection step.
package geo

import (
	"math"

	"github.com/rajasatyajit/roadside/internal/models"
)

// Distance returns the Euclidean distance between a and b in raw degrees.
// This is a planar approximation, not a great-circle distance. When either
// point is unknown the result is +Inf so any known candidate compares closer.
func Distance(a, b *models.Coordinate) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}
