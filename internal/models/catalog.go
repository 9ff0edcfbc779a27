package models

// ServiceCenter is a static catalog entry mechanics belong to
type ServiceCenter struct {
	ID       string     `json:"id" db:"id"`
	Location Coordinate `json:"location"`
}

// Mechanic is a dispatchable resource belonging to exactly one service center
type Mechanic struct {
	ID       string     `json:"id" db:"id"`
	CenterID string     `json:"center_id" db:"center_id"`
	Location Coordinate `json:"location"`
}

// Catalog holds the read-only reference data loaded at startup
type Catalog struct {
	Centers   []ServiceCenter `json:"centers"`
	Mechanics []Mechanic      `json:"mechanics"`
}
