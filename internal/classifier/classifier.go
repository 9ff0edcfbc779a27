package classifier

import (
	"context"
	"strings"

	"github.com/rajasatyajit/roadside/internal/geocoder"
	"github.com/rajasatyajit/roadside/internal/models"
	"github.com/rajasatyajit/roadside/pkg/utils"
)

// Classifier turns free-text requests into a Classification
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Classification, error)
}

// Strategy is a classifier that can be switched off, such as one backed by a remote model
type Strategy interface {
	Classifier
	Enabled() bool
}

const (
	accidentScore     = 60
	keywordScore      = 15
	maxEmergencyScore = 100
	emergencyCutoff   = 70
)

// EmergencyKeywords are matched as case-insensitive substrings
var EmergencyKeywords = []string{
	"help", "emergency", "danger", "crash", "fire",
	"injury", "blood", "critical", "trap", "stuck",
}

// RuleClassifier is the deterministic keyword classifier.
// It needs no network access and is always available.
type RuleClassifier struct {
	geocoder *geocoder.Geocoder
}

// New creates a new rule classifier instance
func New() *RuleClassifier {
	return &RuleClassifier{geocoder: geocoder.New()}
}

// Classify implements Classifier. It never fails.
func (c *RuleClassifier) Classify(_ context.Context, text string) (models.Classification, error) {
	return c.ClassifyText(text), nil
}

// ClassifyText analyzes text without a context
func (c *RuleClassifier) ClassifyText(text string) models.Classification {
	text = utils.Normalize(text)

	category := c.classifyCategory(text)
	keywords := utils.MatchedKeywords(text, EmergencyKeywords)

	score := len(keywords) * keywordScore
	if category == models.IssueAccident {
		score += accidentScore
	}
	if score > maxEmergencyScore {
		score = maxEmergencyScore
	}

	return models.Classification{
		Category:       category,
		Emergency:      score >= emergencyCutoff,
		EmergencyScore: &score,
		Keywords:       keywords,
		LocationHint:   c.geocoder.ExtractHint(text),
		Source:         models.SourceFallback,
	}
}

// classifyCategory applies the category precedence: accident, battery, tyre, engine
func (c *RuleClassifier) classifyCategory(text string) models.IssueCategory {
	switch {
	case strings.Contains(text, "accident"):
		return models.IssueAccident
	case strings.Contains(text, "battery"):
		return models.IssueBattery
	case utils.ContainsAny(text, []string{"tyre", "tire"}):
		return models.IssueTyre
	case utils.ContainsAny(text, []string{"engine", "motor"}):
		return models.IssueEngine
	default:
		return models.IssueGeneral
	}
}
