package geocoder

import (
	"regexp"
	"strings"
)

// Geocoder pulls free-text location hints out of assistance requests.
// It does not resolve hints to coordinates.
type Geocoder struct {
	markers []*regexp.Regexp
}

// New creates a geocoder that looks for "at" first and then "near"
func New() *Geocoder {
	return &Geocoder{
		markers: []*regexp.Regexp{
			regexp.MustCompile(`\bat\b`),
			regexp.MustCompile(`\bnear\b`),
		},
	}
}

var defaultGeocoder = New()

// ExtractHint returns the lower-cased, trimmed text that follows the first
// location marker word, or "" when none is present.
func ExtractHint(text string) string {
	return defaultGeocoder.ExtractHint(text)
}

// ExtractHint returns the remainder after the first marker that matches
func (g *Geocoder) ExtractHint(text string) string {
	text = strings.ToLower(text)
	for _, marker := range g.markers {
		loc := marker.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return strings.TrimSpace(text[loc[1]:])
	}
	return ""
}
