package models

import (
	"encoding/json"
	"testing"
)

func TestParseIssueCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected IssueCategory
	}{
		{"Tyre", IssueTyre},
		{"tire", IssueTyre},
		{" BATTERY ", IssueBattery},
		{"Engine", IssueEngine},
		{"Accident", IssueAccident},
		{"General", IssueGeneral},
		{"fuel", IssueGeneral},
		{"", IssueGeneral},
	}

	for _, tt := range tests {
		if got := ParseIssueCategory(tt.input); got != tt.expected {
			t.Errorf("ParseIssueCategory(%q): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestBehaviorCounters_Normalized(t *testing.T) {
	c := BehaviorCounters{RequestsLast10Min: -3, CancelsToday: 2}.Normalized()
	if c.RequestsLast10Min != 0 {
		t.Errorf("Expected 0 requests, got %d", c.RequestsLast10Min)
	}
	if c.CancelsToday != 2 {
		t.Errorf("Expected 2 cancels, got %d", c.CancelsToday)
	}
}

func TestBehaviorCounters_Max(t *testing.T) {
	a := BehaviorCounters{RequestsLast10Min: 7, CancelsToday: -1}
	b := BehaviorCounters{RequestsLast10Min: 2, CancelsToday: 4}

	got := a.Max(b)
	if got.RequestsLast10Min != 7 || got.CancelsToday != 4 {
		t.Errorf("Expected {7 4}, got %+v", got)
	}
}

func TestDispatchResult_JSON(t *testing.T) {
	waiting := DispatchResult{RequestID: "r1", Message: MessageShareLocation, Status: StatusWaitingForLocation}
	data, err := json.Marshal(waiting)
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"priority", "mechanic_id", "eta_minutes", "issue_type"} {
		if _, ok := fields[k]; ok {
			t.Errorf("Expected %s to be omitted for waiting result", k)
		}
	}
	if fields["status"] != "waiting_for_location" {
		t.Errorf("Expected waiting_for_location, got %v", fields["status"])
	}

	// zero ETA must still be present on assigned results
	eta := 0
	p := PriorityNormal
	mech := "mech_1"
	data, _ = json.Marshal(DispatchResult{Status: StatusAssigned, Priority: &p, MechanicID: &mech, ETAMinutes: &eta})
	fields = nil
	json.Unmarshal(data, &fields)
	if v, ok := fields["eta_minutes"]; !ok || v != float64(0) {
		t.Errorf("Expected eta_minutes 0, got %v", v)
	}
}
