package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var zoneRowColumns = []string{
	"id", "name", "description", "severity", "status",
	"latitude", "longitude", "radius_meters", "reported_by", "created_at", "updated_at",
}

var memberRowColumns = []string{
	"id", "name", "role", "phone", "status",
	"latitude", "longitude", "visible_on_map", "created_at", "updated_at",
}

func addZoneRow(rows *sqlmock.Rows, id, name, severity, status string, now time.Time) *sqlmock.Rows {
	return rows.AddRow(id, name, "", severity, status, -29.1, 26.2, 500.0, "", now, now)
}

func TestQueryCreateFireZone(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	zone := &model.FireZone{
		ID: "fz-test1", Name: "North paddock", Severity: model.SeverityHigh,
		Status: model.ZoneActive, Latitude: -29.1, Longitude: 26.2,
		RadiusMeters: 500, CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectExec("INSERT INTO fire_zones").
		WithArgs("fz-test1", "North paddock", "", "high", "active",
			-29.1, 26.2, 500.0, "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryCreateFireZone(context.Background(), db, zone); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryGetFireZone(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := addZoneRow(sqlmock.NewRows(zoneRowColumns), "fz-test1", "North paddock", "high", "active", now)
	mock.ExpectQuery("SELECT .+ FROM fire_zones WHERE id = \\$1").WithArgs("fz-test1").WillReturnRows(rows)

	zone, err := queryGetFireZone(context.Background(), db, "fz-test1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone.ID != "fz-test1" || zone.Severity != model.SeverityHigh || zone.Status != model.ZoneActive {
		t.Fatalf("got id=%q severity=%q status=%q", zone.ID, zone.Severity, zone.Status)
	}
}

func TestQueryGetFireZone_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM fire_zones WHERE id = \\$1").WithArgs("nonexistent").WillReturnError(sql.ErrNoRows)

	_, err := queryGetFireZone(context.Background(), db, "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestQueryListFireZones_NoFilter(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(zoneRowColumns)
	addZoneRow(rows, "fz-1", "North paddock", "high", "active", now)
	addZoneRow(rows, "fz-2", "South fence", "low", "contained", now)
	mock.ExpectQuery("SELECT .+ FROM fire_zones ORDER BY created_at DESC").WillReturnRows(rows)

	zones, err := queryListFireZones(context.Background(), db, model.ZoneFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 2 || zones[0].ID != "fz-1" || zones[1].ID != "fz-2" {
		t.Fatalf("unexpected zones: %+v", zones)
	}
}

func TestQueryListFireZones_Filtered(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := addZoneRow(sqlmock.NewRows(zoneRowColumns), "fz-1", "North paddock", "high", "active", now)
	mock.ExpectQuery(`SELECT .+ FROM fire_zones WHERE status IN \(\$1\) AND severity IN \(\$2, \$3\) ORDER BY created_at DESC LIMIT \$4`).
		WithArgs("active", "high", "critical", 10).
		WillReturnRows(rows)

	zones, err := queryListFireZones(context.Background(), db, model.ZoneFilter{
		Status:   []model.ZoneStatus{model.ZoneActive},
		Severity: []model.Severity{model.SeverityHigh, model.SeverityCritical},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 1 || zones[0].ID != "fz-1" {
		t.Fatalf("unexpected zones: %+v", zones)
	}
}

func TestQueryUpdateFireZone_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	zone := &model.FireZone{
		ID: "nonexistent", Name: "Gone", Severity: model.SeverityLow,
		Status: model.ZoneExtinguished, UpdatedAt: now,
	}
	mock.ExpectExec("UPDATE fire_zones SET").
		WithArgs("nonexistent", "Gone", "", "low", "extinguished",
			0.0, 0.0, 0.0, "", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := queryUpdateFireZone(context.Background(), db, zone); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestQueryDeleteFireZone(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM fire_zones WHERE id = \\$1").WithArgs("fz-del1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryDeleteFireZone(context.Background(), db, "fz-del1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryDeleteFireZone_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM fire_zones WHERE id = \\$1").WithArgs("nonexistent").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := queryDeleteFireZone(context.Background(), db, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestQueryGetTeamMember_NullCoordinates(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(memberRowColumns).
		AddRow("tm-1", "Alice", "ranger", "", "available", nil, nil, true, now, now)
	mock.ExpectQuery("SELECT .+ FROM team_members WHERE id = \\$1").WithArgs("tm-1").WillReturnRows(rows)

	member, err := queryGetTeamMember(context.Background(), db, "tm-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member.Latitude != nil || member.Longitude != nil {
		t.Fatalf("expected nil coordinates, got lat=%v lng=%v", member.Latitude, member.Longitude)
	}
	if member.Status != model.MemberAvailable || !member.VisibleOnMap {
		t.Fatalf("got status=%q visible=%v", member.Status, member.VisibleOnMap)
	}
}

func TestQueryListTeamMembers_ScansCoordinates(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(memberRowColumns).
		AddRow("tm-1", "Alice", "ranger", "+27 82 000 0000", "responding", -29.5, 26.8, true, now, now).
		AddRow("tm-2", "Bob", "", "", "unavailable", nil, nil, false, now, now)
	mock.ExpectQuery("SELECT .+ FROM team_members ORDER BY name ASC").WillReturnRows(rows)

	members, err := queryListTeamMembers(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Latitude == nil || *members[0].Latitude != -29.5 {
		t.Fatalf("expected lat -29.5, got %v", members[0].Latitude)
	}
	if members[1].Latitude != nil {
		t.Fatalf("expected nil lat for tm-2, got %v", members[1].Latitude)
	}
}

func TestQueryCreateLiveFeed_NullLastSeen(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	feed := &model.LiveFeedSetting{
		ID: "lf-1", Name: "Gate camera", URL: "rtsp://gate.local/stream",
		Enabled: true, Status: model.FeedOnline, CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectExec("INSERT INTO live_feed_settings").
		WithArgs("lf-1", "Gate camera", "rtsp://gate.local/stream", true, "online", nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryCreateLiveFeed(context.Background(), db, feed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryGetLiveFeed_LastSeen(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	seen := now.Add(-time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "name", "url", "enabled", "status", "last_seen_at", "created_at", "updated_at",
	}).AddRow("lf-1", "Gate camera", "rtsp://gate.local/stream", true, "online", seen, now, now)
	mock.ExpectQuery("SELECT .+ FROM live_feed_settings WHERE id = \\$1").WithArgs("lf-1").WillReturnRows(rows)

	feed, err := queryGetLiveFeed(context.Background(), db, "lf-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.LastSeenAt == nil || !feed.LastSeenAt.Equal(seen) {
		t.Fatalf("expected last_seen_at %v, got %v", seen, feed.LastSeenAt)
	}
}

func TestQueryUpdateNotification(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	n := &model.Notification{
		ID: "nt-1", Title: "Fire contained", Level: model.NotifyInfo, Read: true, UpdatedAt: now,
	}
	mock.ExpectExec("UPDATE notifications SET").
		WithArgs("nt-1", "Fire contained", "", "info", true, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryUpdateNotification(context.Background(), db, n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueryGetMapConfig(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "center_lat", "center_lng", "zoom", "layer", "is_default", "created_at", "updated_at",
	}).AddRow("mc-1", "Overview", -29.0, 26.0, 12, "satellite", true, now, now)
	mock.ExpectQuery("SELECT .+ FROM map_configs WHERE id = \\$1").WithArgs("mc-1").WillReturnRows(rows)

	mc, err := queryGetMapConfig(context.Background(), db, "mc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mc.Zoom != 12 || !mc.IsDefault || mc.Layer != "satellite" {
		t.Fatalf("unexpected config: %+v", mc)
	}
}
