package models

// Coordinate is a requester or catalog position in raw lat/lon degrees.
// An unknown location is represented by a nil *Coordinate, never by a zero value.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IssueCategory is the normalized problem classification
type IssueCategory string

const (
	IssueTyre     IssueCategory = "tyre"
	IssueBattery  IssueCategory = "battery"
	IssueEngine   IssueCategory = "engine"
	IssueAccident IssueCategory = "accident"
	IssueGeneral  IssueCategory = "general"
)

// ParseIssueCategory maps free-form category labels onto the known set.
// Anything unrecognized becomes IssueGeneral.
func ParseIssueCategory(s string) IssueCategory {
	switch IssueCategory(normalize(s)) {
	case IssueTyre, "tire":
		return IssueTyre
	case IssueBattery:
		return IssueBattery
	case IssueEngine:
		return IssueEngine
	case IssueAccident:
		return IssueAccident
	default:
		return IssueGeneral
	}
}

// ClassificationSource records which strategy produced a classification
type ClassificationSource string

const (
	SourcePrimary  ClassificationSource = "primary"
	SourceFallback ClassificationSource = "fallback"
)

// Classification is the output of an issue classifier. It is produced fresh
// per request and never mutated afterwards.
type Classification struct {
	Category        IssueCategory        `json:"issue_type"`
	Emergency       bool                 `json:"emergency"`
	EmergencyScore  *int                 `json:"emergency_score,omitempty"`
	Keywords        []string             `json:"keywords,omitempty"`
	SuggestedAction string               `json:"suggested_action,omitempty"`
	LocationHint    string               `json:"location_hint,omitempty"`
	Source          ClassificationSource `json:"source"`
}

// BehaviorCounters describes recent requester behavior
type BehaviorCounters struct {
	RequestsLast10Min int `json:"request_count_last_10_min"`
	CancelsToday      int `json:"cancel_count_today"`
}

// Normalized clamps negative counters to zero
func (c BehaviorCounters) Normalized() BehaviorCounters {
	if c.RequestsLast10Min < 0 {
		c.RequestsLast10Min = 0
	}
	if c.CancelsToday < 0 {
		c.CancelsToday = 0
	}
	return c
}

// Max returns the element-wise maximum of two counter sets
func (c BehaviorCounters) Max(o BehaviorCounters) BehaviorCounters {
	c, o = c.Normalized(), o.Normalized()
	if o.RequestsLast10Min > c.RequestsLast10Min {
		c.RequestsLast10Min = o.RequestsLast10Min
	}
	if o.CancelsToday > c.CancelsToday {
		c.CancelsToday = o.CancelsToday
	}
	return c
}

// AssistanceRequest is the request boundary of the dispatch service
type AssistanceRequest struct {
	UserID   string
	Text     string
	Location *Coordinate
	Counters BehaviorCounters
}
