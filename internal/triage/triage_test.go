package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rajasatyajit/roadside/internal/models"
)

func TestEvaluate(t *testing.T) {
	emergency := models.Classification{Emergency: true}
	routine := models.Classification{}

	tests := []struct {
		name       string
		c          models.Classification
		counters   models.BehaviorCounters
		suspicious bool
	}{
		{"quiet requester", routine, models.BehaviorCounters{}, false},
		{"four requests", routine, models.BehaviorCounters{RequestsLast10Min: 4}, false},
		{"five requests", routine, models.BehaviorCounters{RequestsLast10Min: 5}, true},
		{"two cancels", routine, models.BehaviorCounters{CancelsToday: 2}, false},
		{"three cancels", routine, models.BehaviorCounters{CancelsToday: 3}, true},
		{"negative counters", routine, models.BehaviorCounters{RequestsLast10Min: -10, CancelsToday: -1}, false},
		{"emergency bypasses misuse", emergency, models.BehaviorCounters{RequestsLast10Min: 100, CancelsToday: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Evaluate(tt.c, tt.counters)
			assert.Equal(t, tt.suspicious, a.Suspicious)
			assert.Equal(t, tt.c.Emergency, a.Emergency)
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name                          string
		emergency, suspicious, hasLoc bool
		priority                      models.Priority
		response                      models.ResponseType
	}{
		{"emergency", true, false, true, models.PriorityEmergency, models.ResponseEmergencyAndMechanic},
		{"emergency wins over suspicious", true, true, true, models.PriorityEmergency, models.ResponseEmergencyAndMechanic},
		{"suspicious", false, true, true, models.PriorityLow, models.ResponseMechanic},
		{"normal", false, false, true, models.PriorityNormal, models.ResponseMechanic},
		{"no location", false, false, false, models.PriorityNormal, models.ResponseRequestLocation},
		{"emergency without location", true, false, false, models.PriorityEmergency, models.ResponseRequestLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.emergency, tt.suspicious, tt.hasLoc)
			assert.Equal(t, tt.priority, d.Priority)
			assert.Equal(t, tt.response, d.ResponseType)
		})
	}
}
