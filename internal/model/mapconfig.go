package model

import "time"

// MapConfig is a saved map view: center, zoom level, and base layer.
type MapConfig struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CenterLat float64   `json:"center_lat"`
	CenterLng float64   `json:"center_lng"`
	Zoom      int       `json:"zoom"`
	Layer     string    `json:"layer,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the record's unique identifier.
func (m MapConfig) Key() string { return m.ID }

// FeedStatus represents whether a live feed is currently reporting.
type FeedStatus string

const (
	FeedOnline  FeedStatus = "online"
	FeedOffline FeedStatus = "offline"
)

// String returns the string representation of the feed status.
func (s FeedStatus) String() string {
	return string(s)
}

// IsValid checks whether the feed status is a known value.
func (s FeedStatus) IsValid() bool {
	return s == FeedOnline || s == FeedOffline
}

// LiveFeedSetting configures one camera or sensor live feed.
// Status flips to offline when the feed watchdog stops seeing heartbeats.
type LiveFeedSetting struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Enabled    bool       `json:"enabled"`
	Status     FeedStatus `json:"status"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Key returns the record's unique identifier.
func (f LiveFeedSetting) Key() string { return f.ID }
