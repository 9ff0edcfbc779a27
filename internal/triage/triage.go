package triage

import "github.com/rajasatyajit/roadside/internal/models"

// Misuse thresholds
const (
	MaxRequestsLast10Min = 5
	MaxCancelsToday      = 3
)

// Assessment is the risk and misuse verdict for one request
type Assessment struct {
	Emergency  bool
	Suspicious bool
}

// Evaluate marks non-emergency requests from high-frequency requesters as suspicious.
// Emergencies are never suspicious.
func Evaluate(c models.Classification, counters models.BehaviorCounters) Assessment {
	if c.Emergency {
		return Assessment{Emergency: true}
	}
	counters = counters.Normalized()
	return Assessment{
		Suspicious: counters.RequestsLast10Min >= MaxRequestsLast10Min ||
			counters.CancelsToday >= MaxCancelsToday,
	}
}

// Decision is the priority and response tier chosen for a request
type Decision struct {
	Priority     models.Priority
	ResponseType models.ResponseType
}

// Decide maps an assessment onto a response tier. Without a location the
// response type is always a request for one.
func Decide(emergency, suspicious, hasLocation bool) Decision {
	var d Decision
	switch {
	case emergency:
		d = Decision{Priority: models.PriorityEmergency, ResponseType: models.ResponseEmergencyAndMechanic}
	case suspicious:
		d = Decision{Priority: models.PriorityLow, ResponseType: models.ResponseMechanic}
	default:
		d = Decision{Priority: models.PriorityNormal, ResponseType: models.ResponseMechanic}
	}
	if !hasLocation {
		d.ResponseType = models.ResponseRequestLocation
	}
	return d
}
