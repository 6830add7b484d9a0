package model

import "time"

// PointType categorizes a security point.
// Well-known constants are provided below, but point types are extensible;
// custom types (e.g. "drone_dock", "water_tank") are valid.
type PointType string

const (
	PointGate   PointType = "gate"
	PointCamera PointType = "camera"
	PointSensor PointType = "sensor"
	PointPatrol PointType = "patrol"
)

// String returns the string representation of the point type.
func (t PointType) String() string {
	return string(t)
}

// IsValid reports whether the point type is a non-empty string.
// Point types are extensible, so any non-empty value is accepted.
func (t PointType) IsValid() bool {
	return t != ""
}

// PointStatus represents the current state of a security point.
type PointStatus string

const (
	PointSecure   PointStatus = "secure"
	PointAlert    PointStatus = "alert"
	PointBreached PointStatus = "breached"
	PointOffline  PointStatus = "offline"
)

// String returns the string representation of the point status.
func (s PointStatus) String() string {
	return string(s)
}

// IsValid checks whether the point status is a known value.
func (s PointStatus) IsValid() bool {
	switch s {
	case PointSecure, PointAlert, PointBreached, PointOffline:
		return true
	}
	return false
}

// SecurityPoint is a monitored location on the farm perimeter or interior.
type SecurityPoint struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        PointType   `json:"type"`
	Status      PointStatus `json:"status"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Key returns the record's unique identifier.
func (p SecurityPoint) Key() string { return p.ID }
