package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	apperrors "github.com/rajasatyajit/roadside/internal/errors"
	"github.com/rajasatyajit/roadside/internal/logger"
	"github.com/rajasatyajit/roadside/internal/metrics"
	"github.com/rajasatyajit/roadside/internal/models"
	"github.com/rajasatyajit/roadside/internal/triage"
)

// geohashPrecision keeps requester positions coarse (about 1 km) in logs
const geohashPrecision = 6

// Classifier interface for issue classification
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Classification, error)
}

// Locator interface for nearest-resource selection
type Locator interface {
	NearestCenter(loc *models.Coordinate) models.ServiceCenter
	NearestMechanic(centerID string, loc *models.Coordinate) models.Mechanic
	EstimateETA(from, to *models.Coordinate) (int, bool)
}

// Tracker interface for server-side behavior counters
type Tracker interface {
	RecordRequest(ctx context.Context, userID string) (models.BehaviorCounters, error)
}

// Service runs the decision pipeline for one assistance request:
// classify, evaluate, decide, then locate and estimate when a location is known.
type Service struct {
	classifier Classifier
	locator    Locator
	tracker    Tracker
}

// New creates a dispatch service. tracker may be nil.
func New(classifier Classifier, locator Locator, tracker Tracker) *Service {
	return &Service{
		classifier: classifier,
		locator:    locator,
		tracker:    tracker,
	}
}

// Handle decides how to respond to a request
func (s *Service) Handle(ctx context.Context, req models.AssistanceRequest) (models.DispatchResult, error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := logger.WithContext(ctx).With("dispatch_id", requestID)

	if s.locator == nil {
		return models.DispatchResult{}, apperrors.CatalogError{Kind: "locator", Err: apperrors.ErrCatalogEmpty}
	}
	if err := ctx.Err(); err != nil {
		return models.DispatchResult{}, err
	}

	counters := s.counters(ctx, req)

	classification, err := s.classifier.Classify(ctx, req.Text)
	if err != nil {
		return models.DispatchResult{}, fmt.Errorf("classify request: %w", err)
	}

	assessment := triage.Evaluate(classification, counters)
	decision := triage.Decide(assessment.Emergency, assessment.Suspicious, req.Location != nil)

	result := models.DispatchResult{RequestID: requestID}
	if decision.ResponseType == models.ResponseRequestLocation {
		result.Status = models.StatusWaitingForLocation
		result.Message = models.MessageShareLocation

		log.Info("Dispatch waiting for location",
			"issue_type", classification.Category,
			"source", classification.Source,
			"emergency", assessment.Emergency,
		)
		metrics.RecordDispatch(string(result.Status), "", time.Since(start))
		return result, nil
	}

	center := s.locator.NearestCenter(req.Location)
	mechanic := s.locator.NearestMechanic(center.ID, req.Location)
	eta, ok := s.locator.EstimateETA(req.Location, &mechanic.Location)
	if !ok {
		// an assigned result always carries an ETA
		return models.DispatchResult{}, fmt.Errorf("estimate eta for mechanic %s: %w", mechanic.ID, apperrors.ErrServiceUnavailable)
	}

	priority := decision.Priority
	issueType := string(classification.Category)
	result.Status = models.StatusAssigned
	result.Priority = &priority
	result.MechanicID = &mechanic.ID
	result.ETAMinutes = &eta
	result.IssueType = &issueType
	result.Message = message(classification, assessment)

	log.Info("Mechanic assigned",
		"issue_type", issueType,
		"source", classification.Source,
		"priority", priority,
		"suspicious", assessment.Suspicious,
		"center_id", center.ID,
		"mechanic_id", mechanic.ID,
		"eta_minutes", eta,
		"geohash", geohash.EncodeWithPrecision(req.Location.Lat, req.Location.Lon, geohashPrecision),
	)
	metrics.RecordDispatch(string(result.Status), string(priority), time.Since(start))

	return result, nil
}

// counters combines caller-supplied counters with tracked ones, keeping the larger.
// Tracker failures are logged and ignored.
func (s *Service) counters(ctx context.Context, req models.AssistanceRequest) models.BehaviorCounters {
	counters := req.Counters.Normalized()
	if s.tracker == nil || req.UserID == "" {
		return counters
	}
	tracked, err := s.tracker.RecordRequest(ctx, req.UserID)
	if err != nil {
		logger.WithContext(ctx).Warn("Behavior tracking failed, using supplied counters", "error", err)
		return counters
	}
	return counters.Max(tracked)
}

// message picks the assignment message; a suggested action from the primary classifier wins
func message(c models.Classification, a triage.Assessment) string {
	switch {
	case c.SuggestedAction != "":
		return c.SuggestedAction
	case a.Emergency:
		return models.MessageEmergency
	default:
		return models.MessageHelpOnTheWay
	}
}
