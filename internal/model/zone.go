package model

import "time"

// Severity classifies how serious a fire zone incident is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid checks whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ZoneStatus represents the current state of a fire zone.
type ZoneStatus string

const (
	ZoneActive       ZoneStatus = "active"
	ZoneContained    ZoneStatus = "contained"
	ZoneExtinguished ZoneStatus = "extinguished"
	ZoneMonitoring   ZoneStatus = "monitoring"
)

// String returns the string representation of the zone status.
func (s ZoneStatus) String() string {
	return string(s)
}

// IsValid checks whether the zone status is a known value.
func (s ZoneStatus) IsValid() bool {
	switch s {
	case ZoneActive, ZoneContained, ZoneExtinguished, ZoneMonitoring:
		return true
	}
	return false
}

// FireZone is a geographic area with an active or historical fire incident.
type FireZone struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Severity     Severity   `json:"severity"`
	Status       ZoneStatus `json:"status"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	RadiusMeters float64    `json:"radius_meters,omitempty"`
	ReportedBy   string     `json:"reported_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Key returns the record's unique identifier.
func (z FireZone) Key() string { return z.ID }

// ZoneFilter restricts fire zone listings.
type ZoneFilter struct {
	Status   []ZoneStatus
	Severity []Severity
	Limit    int
}
