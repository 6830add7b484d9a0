// Package client provides a transport-agnostic interface for the farms service
// and an HTTP/JSON implementation that talks to the farms REST API.
package client

import (
	"context"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/feedwatch"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// FarmClient is the interface that all farms CLI commands use to communicate
// with the farms server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type FarmClient interface {
	// Fire zones
	CreateFireZone(ctx context.Context, req *CreateFireZoneRequest) (*model.FireZone, error)
	GetFireZone(ctx context.Context, id string) (*model.FireZone, error)
	ListFireZones(ctx context.Context, filter model.ZoneFilter) ([]model.FireZone, error)
	UpdateFireZone(ctx context.Context, id string, req *UpdateFireZoneRequest) (*model.FireZone, error)
	DeleteFireZone(ctx context.Context, id string) error

	// Security points
	CreateSecurityPoint(ctx context.Context, req *CreateSecurityPointRequest) (*model.SecurityPoint, error)
	GetSecurityPoint(ctx context.Context, id string) (*model.SecurityPoint, error)
	ListSecurityPoints(ctx context.Context) ([]model.SecurityPoint, error)
	UpdateSecurityPoint(ctx context.Context, id string, req *UpdateSecurityPointRequest) (*model.SecurityPoint, error)
	DeleteSecurityPoint(ctx context.Context, id string) error

	// Team members
	CreateTeamMember(ctx context.Context, req *CreateTeamMemberRequest) (*model.TeamMember, error)
	GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error)
	ListTeamMembers(ctx context.Context) ([]model.TeamMember, error)
	UpdateTeamMember(ctx context.Context, id string, req *UpdateTeamMemberRequest) (*model.TeamMember, error)
	UpdateTeamMemberStatus(ctx context.Context, id string, status model.MemberStatus) (*model.TeamMember, error)
	UpdateTeamMemberLocation(ctx context.Context, id string, lat, lng float64, visibleOnMap bool) (*model.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) error

	// Notifications
	CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*model.Notification, error)
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id string) error

	// Map configs
	CreateMapConfig(ctx context.Context, req *CreateMapConfigRequest) (*model.MapConfig, error)
	GetMapConfig(ctx context.Context, id string) (*model.MapConfig, error)
	ListMapConfigs(ctx context.Context) ([]model.MapConfig, error)
	UpdateMapConfig(ctx context.Context, id string, req *UpdateMapConfigRequest) (*model.MapConfig, error)
	DeleteMapConfig(ctx context.Context, id string) error

	// Live feeds
	CreateLiveFeed(ctx context.Context, req *CreateLiveFeedRequest) (*model.LiveFeedSetting, error)
	GetLiveFeed(ctx context.Context, id string) (*model.LiveFeedSetting, error)
	ListLiveFeeds(ctx context.Context) ([]model.LiveFeedSetting, error)
	UpdateLiveFeed(ctx context.Context, id string, req *UpdateLiveFeedRequest) (*model.LiveFeedSetting, error)
	DeleteLiveFeed(ctx context.Context, id string) error
	FeedHeartbeat(ctx context.Context, feedID string) error
	GetFeedRoster(ctx context.Context, staleThreshold time.Duration) ([]feedwatch.Entry, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateFireZoneRequest holds parameters for reporting a fire zone.
type CreateFireZoneRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Severity     string  `json:"severity"`
	Status       string  `json:"status,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters,omitempty"`
	ReportedBy   string  `json:"reported_by,omitempty"`
}

// UpdateFireZoneRequest holds optional parameters for updating a fire zone.
// Nil pointer fields mean "don't change".
type UpdateFireZoneRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Severity     *string  `json:"severity,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *float64 `json:"radius_meters,omitempty"`
}

// CreateSecurityPointRequest holds parameters for registering a security point.
type CreateSecurityPointRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Status      string  `json:"status,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// UpdateSecurityPointRequest holds optional parameters for updating a security point.
type UpdateSecurityPointRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// CreateTeamMemberRequest holds parameters for adding a team member.
type CreateTeamMemberRequest struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Status       string   `json:"status,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	VisibleOnMap bool     `json:"visible_on_map"`
}

// UpdateTeamMemberRequest holds optional parameters for updating a team member.
type UpdateTeamMemberRequest struct {
	Name         *string  `json:"name,omitempty"`
	Role         *string  `json:"role,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	VisibleOnMap *bool    `json:"visible_on_map,omitempty"`
}

// CreateNotificationRequest holds parameters for posting a notification.
type CreateNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	Level   string `json:"level,omitempty"`
}

// CreateMapConfigRequest holds parameters for saving a map view.
type CreateMapConfigRequest struct {
	Name      string  `json:"name"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	Zoom      int     `json:"zoom"`
	Layer     string  `json:"layer,omitempty"`
	IsDefault bool    `json:"is_default"`
}

// UpdateMapConfigRequest holds optional parameters for updating a map view.
type UpdateMapConfigRequest struct {
	Name      *string  `json:"name,omitempty"`
	CenterLat *float64 `json:"center_lat,omitempty"`
	CenterLng *float64 `json:"center_lng,omitempty"`
	Zoom      *int     `json:"zoom,omitempty"`
	Layer     *string  `json:"layer,omitempty"`
	IsDefault *bool    `json:"is_default,omitempty"`
}

// CreateLiveFeedRequest holds parameters for registering a live feed.
type CreateLiveFeedRequest struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// UpdateLiveFeedRequest holds optional parameters for updating a live feed.
type UpdateLiveFeedRequest struct {
	Name    *string `json:"name,omitempty"`
	URL     *string `json:"url,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
	Status  *string `json:"status,omitempty"`
}
