package geo

import (
	"math"
	"testing"

	"github.com/rajasatyajit/roadside/internal/models"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        *models.Coordinate
		b        *models.Coordinate
		expected float64
	}{
		{
			name:     "Same point",
			a:        &models.Coordinate{Lat: 10, Lon: 10},
			b:        &models.Coordinate{Lat: 10, Lon: 10},
			expected: 0,
		},
		{
			name:     "Three four five",
			a:        &models.Coordinate{Lat: 0, Lon: 0},
			b:        &models.Coordinate{Lat: 3, Lon: 4},
			expected: 5,
		},
		{
			name:     "Symmetric",
			a:        &models.Coordinate{Lat: 3, Lon: 4},
			b:        &models.Coordinate{Lat: 0, Lon: 0},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestDistance_UnknownLocation(t *testing.T) {
	known := &models.Coordinate{Lat: 1, Lon: 1}

	if d := Distance(nil, known); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for nil origin, got %f", d)
	}
	if d := Distance(known, nil); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for nil destination, got %f", d)
	}
	if d := Distance(nil, nil); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for both nil, got %f", d)
	}
}
