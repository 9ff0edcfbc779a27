package classifier

import (
	"context"
	"strings"

	apperrors "github.com/rajasatyajit/roadside/internal/errors"
	"github.com/rajasatyajit/roadside/internal/geocoder"
	"github.com/rajasatyajit/roadside/internal/models"
)

// LLMClassifier maps an external Analysis onto a Classification.
// Severity High or Critical marks an emergency; no score is produced.
type LLMClassifier struct {
	analyzer Analyzer
	geocoder *geocoder.Geocoder
}

// NewLLM wraps an analyzer
func NewLLM(analyzer Analyzer) *LLMClassifier {
	return &LLMClassifier{analyzer: analyzer, geocoder: geocoder.New()}
}

// Enabled reports whether the underlying analyzer can be called
func (c *LLMClassifier) Enabled() bool {
	return c.analyzer != nil && c.analyzer.Enabled()
}

// Classify implements Classifier
func (c *LLMClassifier) Classify(ctx context.Context, text string) (models.Classification, error) {
	if !c.Enabled() {
		return models.Classification{}, apperrors.ClassifierError{Stage: "config", Err: apperrors.ErrClassifierUnavailable}
	}

	analysis, err := c.analyzer.Analyze(ctx, text)
	if err != nil {
		return models.Classification{}, err
	}
	if analysis == nil {
		return models.Classification{}, apperrors.ClassifierError{Stage: "parse", Err: apperrors.ErrClassifierUnavailable}
	}

	return models.Classification{
		Category:        models.ParseIssueCategory(analysis.IssueType),
		Emergency:       isEmergencySeverity(analysis.Severity),
		SuggestedAction: strings.TrimSpace(analysis.SuggestedAction),
		LocationHint:    c.geocoder.ExtractHint(text),
		Source:          models.SourcePrimary,
	}, nil
}

// isEmergencySeverity accepts High or Critical in any letter case.
// A missing severity counts as Medium.
func isEmergencySeverity(severity string) bool {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "high", "critical":
		return true
	default:
		return false
	}
}
