package model

import "time"

// MemberStatus represents a team member's availability.
type MemberStatus string

const (
	MemberAvailable   MemberStatus = "available"
	MemberResponding  MemberStatus = "responding"
	MemberOnBreak     MemberStatus = "on_break"
	MemberUnavailable MemberStatus = "unavailable"
)

// String returns the string representation of the member status.
func (s MemberStatus) String() string {
	return string(s)
}

// IsValid checks whether the member status is a known value.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberAvailable, MemberResponding, MemberOnBreak, MemberUnavailable:
		return true
	}
	return false
}

// TeamMember is a member of the farm response team.
type TeamMember struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Role         string       `json:"role,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Status       MemberStatus `json:"status"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
	VisibleOnMap bool         `json:"visible_on_map"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Key returns the record's unique identifier.
func (m TeamMember) Key() string { return m.ID }
