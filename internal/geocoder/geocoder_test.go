package geocoder

import (
	"testing"
)

func TestGeocoder_ExtractHint(t *testing.T) {
	geocoder := New()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "At marker",
			text:     "Battery died at the Shell station on MG Road",
			expected: "the shell station on mg road",
		},
		{
			name:     "Near marker",
			text:     "engine smoke near city mall",
			expected: "city mall",
		},
		{
			name:     "At wins over near",
			text:     "stuck near the bridge at exit 4",
			expected: "exit 4",
		},
		{
			name:     "At inside another word is ignored",
			text:     "I have a flat tire",
			expected: "",
		},
		{
			name:     "Near inside another word is ignored",
			text:     "nearly out of fuel",
			expected: "",
		},
		{
			name:     "Marker at the end",
			text:     "broke down at",
			expected: "",
		},
		{
			name:     "No marker",
			text:     "help",
			expected: "",
		},
		{
			name:     "Empty text",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := geocoder.ExtractHint(tt.text)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestExtractHint_Default(t *testing.T) {
	if got := ExtractHint("Flat tyre AT Airport Road"); got != "airport road" {
		t.Errorf("Expected 'airport road', got %q", got)
	}
}

func TestNew(t *testing.T) {
	geocoder := New()

	if geocoder == nil {
		t.Fatal("Expected geocoder instance, got nil")
	}

	if len(geocoder.markers) != 2 {
		t.Errorf("Expected 2 markers, got %d", len(geocoder.markers))
	}
}
