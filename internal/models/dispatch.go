package models

import "strings"

// Priority is the response tier of an assigned request
type Priority string

const (
	PriorityEmergency Priority = "emergency"
	PriorityLow       Priority = "low"
	PriorityNormal    Priority = "normal"
)

// ResponseType describes what gets sent to the requester
type ResponseType string

const (
	ResponseEmergencyAndMechanic ResponseType = "emergency_services_and_mechanic"
	ResponseMechanic             ResponseType = "mechanic"
	ResponseRequestLocation      ResponseType = "request_location"
)

// DispatchStatus is the terminal state of a dispatch decision
type DispatchStatus string

const (
	StatusWaitingForLocation DispatchStatus = "waiting_for_location"
	StatusAssigned           DispatchStatus = "assigned"
)

// Result messages
const (
	MessageShareLocation = "Please share a nearby landmark so we can send help"
	MessageHelpOnTheWay  = "Help is on the way"
	MessageEmergency     = "Emergency services have been notified"
)

// DispatchResult is returned for every assistance request.
// Priority, MechanicID and ETAMinutes are set iff Status is StatusAssigned.
type DispatchResult struct {
	RequestID  string         `json:"request_id,omitempty"`
	Message    string         `json:"message"`
	Status     DispatchStatus `json:"status"`
	Priority   *Priority      `json:"priority,omitempty"`
	MechanicID *string        `json:"mechanic_id,omitempty"`
	ETAMinutes *int           `json:"eta_minutes,omitempty"`
	IssueType  *string        `json:"issue_type,omitempty"`
}

// LiveStatus is the coarse progress label of an assigned mechanic
type LiveStatus string

const (
	LiveAssigned LiveStatus = "assigned"
	LiveOnTheWay LiveStatus = "on_the_way"
	LiveArriving LiveStatus = "arriving"
	LiveArrived  LiveStatus = "arrived"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
