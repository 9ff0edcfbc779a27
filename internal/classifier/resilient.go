package classifier

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/rajasatyajit/roadside/config"
	"github.com/rajasatyajit/roadside/internal/logger"
	"github.com/rajasatyajit/roadside/internal/metrics"
	"github.com/rajasatyajit/roadside/internal/models"
)

// Fallback reasons reported to metrics and logs
const (
	ReasonDisabled    = "disabled"
	ReasonRateLimited = "rate_limited"
	ReasonSaturated   = "saturated"
	ReasonTimeout     = "timeout"
	ReasonError       = "error"
)

// Resilient selects between a primary strategy and an always-available fallback.
// The primary is only attempted when it is enabled, the limiter admits the call
// and a concurrency slot is free; every primary failure degrades to the fallback.
type Resilient struct {
	primary  Strategy
	fallback Classifier
	limiter  *rate.Limiter
	sem      *semaphore.Weighted
	timeout  time.Duration
}

// NewResilient creates a strategy selector
func NewResilient(primary Strategy, fallback Classifier, cfg config.ClassifierConfig) *Resilient {
	r := &Resilient{
		primary:  primary,
		fallback: fallback,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		timeout:  cfg.Timeout,
	}

	logger.Info("Classifier initialized",
		"primary_enabled", primary != nil && primary.Enabled(),
		"rate_limit", cfg.RateLimit,
		"max_concurrent", cfg.MaxConcurrent,
		"timeout", cfg.Timeout,
	)

	return r
}

// Classify implements Classifier
func (r *Resilient) Classify(ctx context.Context, text string) (models.Classification, error) {
	if reason, ok := r.admit(); !ok {
		return r.useFallback(ctx, text, reason, nil)
	}
	defer r.sem.Release(1)

	pctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c, err := r.primary.Classify(pctx, text)
	if err != nil {
		reason := ReasonError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(pctx.Err(), context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return r.useFallback(ctx, text, reason, err)
	}

	metrics.RecordClassification(string(c.Source), string(c.Category))
	return c, nil
}

// admit acquires a concurrency slot when the primary may be used
func (r *Resilient) admit() (string, bool) {
	if r.primary == nil || !r.primary.Enabled() {
		return ReasonDisabled, false
	}
	if !r.limiter.Allow() {
		return ReasonRateLimited, false
	}
	if !r.sem.TryAcquire(1) {
		return ReasonSaturated, false
	}
	return "", true
}

func (r *Resilient) useFallback(ctx context.Context, text, reason string, cause error) (models.Classification, error) {
	log := logger.WithContext(ctx)
	if reason == ReasonDisabled {
		log.Debug("Primary classifier disabled, using fallback")
	} else {
		log.Warn("Primary classifier unavailable, using fallback", "reason", reason, "error", cause)
	}
	metrics.RecordClassifierFallback(reason)

	c, err := r.fallback.Classify(ctx, text)
	if err != nil {
		return models.Classification{}, err
	}
	metrics.RecordClassification(string(c.Source), string(c.Category))
	return c, nil
}
