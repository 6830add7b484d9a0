// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Fire zones

func (s *PostgresStore) CreateFireZone(ctx context.Context, zone *model.FireZone) error {
	return queryCreateFireZone(ctx, s.db, zone)
}

func (s *PostgresStore) GetFireZone(ctx context.Context, id string) (*model.FireZone, error) {
	return queryGetFireZone(ctx, s.db, id)
}

func (s *PostgresStore) ListFireZones(ctx context.Context, filter model.ZoneFilter) ([]*model.FireZone, error) {
	return queryListFireZones(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateFireZone(ctx context.Context, zone *model.FireZone) error {
	return queryUpdateFireZone(ctx, s.db, zone)
}

func (s *PostgresStore) DeleteFireZone(ctx context.Context, id string) error {
	return queryDeleteFireZone(ctx, s.db, id)
}

// Security points

func (s *PostgresStore) CreateSecurityPoint(ctx context.Context, point *model.SecurityPoint) error {
	return queryCreateSecurityPoint(ctx, s.db, point)
}

func (s *PostgresStore) GetSecurityPoint(ctx context.Context, id string) (*model.SecurityPoint, error) {
	return queryGetSecurityPoint(ctx, s.db, id)
}

func (s *PostgresStore) ListSecurityPoints(ctx context.Context) ([]*model.SecurityPoint, error) {
	return queryListSecurityPoints(ctx, s.db)
}

func (s *PostgresStore) UpdateSecurityPoint(ctx context.Context, point *model.SecurityPoint) error {
	return queryUpdateSecurityPoint(ctx, s.db, point)
}

func (s *PostgresStore) DeleteSecurityPoint(ctx context.Context, id string) error {
	return queryDeleteSecurityPoint(ctx, s.db, id)
}

// Team members

func (s *PostgresStore) CreateTeamMember(ctx context.Context, member *model.TeamMember) error {
	return queryCreateTeamMember(ctx, s.db, member)
}

func (s *PostgresStore) GetTeamMember(ctx context.Context, id string) (*model.TeamMember, error) {
	return queryGetTeamMember(ctx, s.db, id)
}

func (s *PostgresStore) ListTeamMembers(ctx context.Context) ([]*model.TeamMember, error) {
	return queryListTeamMembers(ctx, s.db)
}

func (s *PostgresStore) UpdateTeamMember(ctx context.Context, member *model.TeamMember) error {
	return queryUpdateTeamMember(ctx, s.db, member)
}

func (s *PostgresStore) DeleteTeamMember(ctx context.Context, id string) error {
	return queryDeleteTeamMember(ctx, s.db, id)
}

// Notifications

func (s *PostgresStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return queryCreateNotification(ctx, s.db, n)
}

func (s *PostgresStore) GetNotification(ctx context.Context, id string) (*model.Notification, error) {
	return queryGetNotification(ctx, s.db, id)
}

func (s *PostgresStore) ListNotifications(ctx context.Context) ([]*model.Notification, error) {
	return queryListNotifications(ctx, s.db)
}

func (s *PostgresStore) UpdateNotification(ctx context.Context, n *model.Notification) error {
	return queryUpdateNotification(ctx, s.db, n)
}

func (s *PostgresStore) DeleteNotification(ctx context.Context, id string) error {
	return queryDeleteNotification(ctx, s.db, id)
}

// Map configs

func (s *PostgresStore) CreateMapConfig(ctx context.Context, mc *model.MapConfig) error {
	return queryCreateMapConfig(ctx, s.db, mc)
}

func (s *PostgresStore) GetMapConfig(ctx context.Context, id string) (*model.MapConfig, error) {
	return queryGetMapConfig(ctx, s.db, id)
}

func (s *PostgresStore) ListMapConfigs(ctx context.Context) ([]*model.MapConfig, error) {
	return queryListMapConfigs(ctx, s.db)
}

func (s *PostgresStore) UpdateMapConfig(ctx context.Context, mc *model.MapConfig) error {
	return queryUpdateMapConfig(ctx, s.db, mc)
}

func (s *PostgresStore) DeleteMapConfig(ctx context.Context, id string) error {
	return queryDeleteMapConfig(ctx, s.db, id)
}

// Live feed settings

func (s *PostgresStore) CreateLiveFeed(ctx context.Context, feed *model.LiveFeedSetting) error {
	return queryCreateLiveFeed(ctx, s.db, feed)
}

func (s *PostgresStore) GetLiveFeed(ctx context.Context, id string) (*model.LiveFeedSetting, error) {
	return queryGetLiveFeed(ctx, s.db, id)
}

func (s *PostgresStore) ListLiveFeeds(ctx context.Context) ([]*model.LiveFeedSetting, error) {
	return queryListLiveFeeds(ctx, s.db)
}

func (s *PostgresStore) UpdateLiveFeed(ctx context.Context, feed *model.LiveFeedSetting) error {
	return queryUpdateLiveFeed(ctx, s.db, feed)
}

func (s *PostgresStore) DeleteLiveFeed(ctx context.Context, id string) error {
	return queryDeleteLiveFeed(ctx, s.db, id)
}
