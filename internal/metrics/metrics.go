package metrics

import (
	"net/http"
	"sync"
	"time"
)

// Metrics interface for dependency injection
type Metrics interface {
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)
	RecordDispatch(status, priority string, duration time.Duration)
	RecordClassification(source, category string)
	RecordClassifierFallback(reason string)
	SetDBConnectionsActive(count float64)
	RecordDBQuery(operation, status string)
	Handler() http.Handler
}

// NoOpMetrics provides a no-op implementation
type NoOpMetrics struct{}

func (m *NoOpMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (m *NoOpMetrics) RecordDispatch(status, priority string, duration time.Duration) {}
func (m *NoOpMetrics) RecordClassification(source, category string)                   {}
func (m *NoOpMetrics) RecordClassifierFallback(reason string)                         {}
func (m *NoOpMetrics) SetDBConnectionsActive(count float64)                           {}
func (m *NoOpMetrics) RecordDBQuery(operation, status string)                         {}
func (m *NoOpMetrics) Handler() http.Handler                                          { return http.NotFoundHandler() }

var (
	mu            sync.RWMutex
	globalMetrics Metrics = &NoOpMetrics{}
)

// Init installs the Prometheus implementation as the global metrics sink.
// When disabled the no-op implementation stays in place.
func Init(enabled bool) Metrics {
	if !enabled {
		return Global()
	}
	m := NewPrometheus()
	SetGlobal(m)
	return m
}

// SetGlobal replaces the global metrics sink
func SetGlobal(m Metrics) {
	mu.Lock()
	defer mu.Unlock()
	if m == nil {
		m = &NoOpMetrics{}
	}
	globalMetrics = m
}

// Global returns the current global metrics sink
func Global() Metrics {
	mu.RLock()
	defer mu.RUnlock()
	return globalMetrics
}

// Handler returns the metrics handler
func Handler() http.Handler {
	return Global().Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	Global().RecordHTTPRequest(method, endpoint, statusCode, duration)
}

// RecordDispatch records the outcome of one assistance request
func RecordDispatch(status, priority string, duration time.Duration) {
	Global().RecordDispatch(status, priority, duration)
}

// RecordClassification records which classifier strategy answered
func RecordClassification(source, category string) {
	Global().RecordClassification(source, category)
}

// RecordClassifierFallback records why the primary classifier was skipped or failed
func RecordClassifierFallback(reason string) {
	Global().RecordClassifierFallback(reason)
}

// SetDBConnectionsActive sets the number of active database connections
func SetDBConnectionsActive(count float64) {
	Global().SetDBConnectionsActive(count)
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation, status string) {
	Global().RecordDBQuery(operation, status)
}
