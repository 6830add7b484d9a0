package model

import "time"

// NotificationLevel classifies notification urgency.
type NotificationLevel string

const (
	NotifyInfo     NotificationLevel = "info"
	NotifyWarning  NotificationLevel = "warning"
	NotifyCritical NotificationLevel = "critical"
)

// String returns the string representation of the notification level.
func (l NotificationLevel) String() string {
	return string(l)
}

// IsValid checks whether the notification level is a known value.
func (l NotificationLevel) IsValid() bool {
	switch l {
	case NotifyInfo, NotifyWarning, NotifyCritical:
		return true
	}
	return false
}

// Notification is a stored alert shown in the dashboard inbox.
// Delivery (SMS, push) is out of scope; records are stored, not sent.
type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message,omitempty"`
	Level     NotificationLevel `json:"level"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Key returns the record's unique identifier.
func (n Notification) Key() string { return n.ID }
