package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rajasatyajit/roadside/internal/dispatch"
	apperrors "github.com/rajasatyajit/roadside/internal/errors"
	"github.com/rajasatyajit/roadside/internal/logger"
	"github.com/rajasatyajit/roadside/internal/models"
)

const maxRequestBodyBytes = 64 << 10

// Dispatcher runs the assistance pipeline
type Dispatcher interface {
	Handle(ctx context.Context, req models.AssistanceRequest) (models.DispatchResult, error)
}

// BehaviorTracker stores user cancellations and reports recent behavior
type BehaviorTracker interface {
	RecordCancellation(ctx context.Context, userID string) (int, error)
	Counters(ctx context.Context, userID string) (models.BehaviorCounters, error)
}

// HealthCheck reports whether a dependency can serve traffic
type HealthCheck func(ctx context.Context) error

// Handler handles HTTP requests for the API
type Handler struct {
	dispatcher Dispatcher
	tracker    BehaviorTracker
	checks     map[string]HealthCheck
	version    string
	buildTime  string
	gitCommit  string
	startTime  time.Time
}

// NewHandler creates a new API handler. tracker may be nil when
// behavior tracking is disabled.
func NewHandler(dispatcher Dispatcher, tracker BehaviorTracker, checks map[string]HealthCheck, version, buildTime, gitCommit string) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		tracker:    tracker,
		checks:     checks,
		version:    version,
		buildTime:  buildTime,
		gitCommit:  gitCommit,
		startTime:  time.Now(),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.rootHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthHandler)
		r.Get("/health/ready", h.readinessHandler)
		r.Get("/health/live", h.livenessHandler)
		r.Get("/version", h.versionHandler)

		r.Post("/request-assistance", h.requestAssistanceHandler)
		r.Get("/status/{distance_meters}", h.statusHandler)
		r.Post("/users/{user_id}/cancellations", h.cancellationHandler)
		r.Get("/users/{user_id}/behavior", h.behaviorHandler)
	})
}

func (h *Handler) rootHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status": "Smart Roadside Assistance API is running",
	})
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "connected",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// readinessHandler runs every registered dependency check
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	status := "ready"
	statusCode := http.StatusOK

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = "error: " + err.Error()
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}

	h.writeJSONResponse(w, statusCode, response)
}

// livenessHandler checks if the application is alive
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// versionHandler returns version information
func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// AssistanceRequest is the wire form of POST /api/request-assistance
type AssistanceRequest struct {
	UserText              *string          `json:"user_text"`
	UserLocation          *LocationPayload `json:"user_location,omitempty"`
	RequestCountLast10Min int              `json:"request_count_last_10_min,omitempty"`
	CancelCountToday      int              `json:"cancel_count_today,omitempty"`
	UserID                string           `json:"user_id,omitempty"`
}

// LocationPayload is treated as unknown when lat is unset
type LocationPayload struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (p AssistanceRequest) toModel() (models.AssistanceRequest, error) {
	if p.UserText == nil {
		return models.AssistanceRequest{}, apperrors.ValidationError{Field: "user_text", Message: "is required"}
	}

	req := models.AssistanceRequest{
		UserID: strings.TrimSpace(p.UserID),
		Text:   *p.UserText,
		Counters: models.BehaviorCounters{
			RequestsLast10Min: p.RequestCountLast10Min,
			CancelsToday:      p.CancelCountToday,
		},
	}

	if loc := p.UserLocation; loc != nil && loc.Lat != nil {
		if loc.Lon == nil {
			return models.AssistanceRequest{}, apperrors.ValidationError{Field: "user_location", Message: "lon is required when lat is set"}
		}
		req.Location = &models.Coordinate{Lat: *loc.Lat, Lon: *loc.Lon}
	}

	return req, nil
}

// requestAssistanceHandler handles POST /api/request-assistance
func (h *Handler) requestAssistanceHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload AssistanceRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := payload.toModel()
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.dispatcher.Handle(ctx, req)
	if err != nil {
		statusCode, message := dispatchErrorStatus(err)
		logger.WithContext(ctx).Error("Failed to handle assistance request", "error", err, "status", statusCode)
		h.writeErrorResponse(w, r, statusCode, message)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func dispatchErrorStatus(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrCatalogEmpty):
		return http.StatusServiceUnavailable, "no service centers available"
	case apperrors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "dispatch temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// statusHandler handles GET /api/status/{distance_meters}
func (h *Handler) statusHandler(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "distance_meters")

	distance, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(distance) || math.IsInf(distance, 0) {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "distance_meters must be a number")
		return
	}
	if distance < 0 {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "distance_meters must not be negative")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":          dispatch.LiveStatus(distance),
		"distance_meters": distance,
	})
}

// cancellationHandler handles POST /api/users/{user_id}/cancellations
func (h *Handler) cancellationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.trackedUser(w, r)
	if !ok {
		return
	}

	count, err := h.tracker.RecordCancellation(ctx, userID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to record cancellation", "error", err)
		h.writeErrorResponse(w, r, http.StatusServiceUnavailable, "cancellation could not be recorded")
		return
	}

	logger.WithContext(ctx).Debug("Cancellation recorded", "cancel_count_today", count)
	w.WriteHeader(http.StatusNoContent)
}

// behaviorHandler handles GET /api/users/{user_id}/behavior
func (h *Handler) behaviorHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.trackedUser(w, r)
	if !ok {
		return
	}

	counters, err := h.tracker.Counters(ctx, userID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to read behavior counters", "error", err)
		h.writeErrorResponse(w, r, http.StatusServiceUnavailable, "behavior counters unavailable")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, counters)
}

// trackedUser writes the error response itself when it returns false
func (h *Handler) trackedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.tracker == nil {
		h.writeErrorResponse(w, r, http.StatusServiceUnavailable, apperrors.ErrTrackingDisabled.Error())
		return "", false
	}

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "user ID is required")
		return "", false
	}
	return userID, true
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetReqID(r.Context()),
	}

	h.writeJSONResponse(w, statusCode, response)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
