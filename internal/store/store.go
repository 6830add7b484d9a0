package store

import (
	"context"
	"errors"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// ErrNotFound is returned when a record id does not exist.
// Transport layers map it to 404.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence interface for the FarmSecure collections.
type Store interface {
	// Fire zones
	CreateFireZone(ctx context.Context, zone *model.FireZone) error
	GetFireZone(ctx context.Context, id string) (*model.FireZone, error)
	ListFireZones(ctx context.Context, filter model.ZoneFilter) ([]*model.FireZone, error)
	UpdateFireZone(ctx context.Context, zone *model.FireZone) error
	DeleteFireZone(ctx context.Context, id string) error

	// Security points
	CreateSecurityPoint(ctx context.Context, point *model.SecurityPoint) error
	GetSecurityPoint(ctx context.Context, id string) (*model.SecurityPoint, error)
	ListSecurityPoints(ctx context.Context) ([]*model.SecurityPoint, error)
	UpdateSecurityPoint(ctx context.Context, point *model.SecurityPoint) error
	DeleteSecurityPoint(ctx context.Context, id string) error

	// Team members
	CreateTeamMember(ctx context.Context, member *model.TeamMember) error
	GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error)
	ListTeamMembers(ctx context.Context) ([]*model.TeamMember, error)
	UpdateTeamMember(ctx context.Context, member *model.TeamMember) error
	DeleteTeamMember(ctx context.Context, id string) error

	// Notifications
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id string) (*model.Notification, error)
	ListNotifications(ctx context.Context) ([]*model.Notification, error)
	UpdateNotification(ctx context.Context, n *model.Notification) error
	DeleteNotification(ctx context.Context, id string) error

	// Map configs
	CreateMapConfig(ctx context.Context, mc *model.MapConfig) error
	GetMapConfig(ctx context.Context, id string) (*model.MapConfig, error)
	ListMapConfigs(ctx context.Context) ([]*model.MapConfig, error)
	UpdateMapConfig(ctx context.Context, mc *model.MapConfig) error
	DeleteMapConfig(ctx context.Context, id string) error

	// Live feed settings
	CreateLiveFeed(ctx context.Context, feed *model.LiveFeedSetting) error
	GetLiveFeed(ctx context.Context, id string) (*model.LiveFeedSetting, error)
	ListLiveFeeds(ctx context.Context) ([]*model.LiveFeedSetting, error)
	UpdateLiveFeed(ctx context.Context, feed *model.LiveFeedSetting) error
	DeleteLiveFeed(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}
