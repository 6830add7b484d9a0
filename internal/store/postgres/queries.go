package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireRow maps an exec result to ErrNotFound when nothing was touched.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Fire zones

const zoneColumns = `id, name, description, severity, status,
	latitude, longitude, radius_meters, reported_by, created_at, updated_at`

func queryCreateFireZone(ctx context.Context, db executor, z *model.FireZone) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO fire_zones (
			id, name, description, severity, status,
			latitude, longitude, radius_meters, reported_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		z.ID, z.Name, z.Description, string(z.Severity), string(z.Status),
		z.Latitude, z.Longitude, z.RadiusMeters, z.ReportedBy, z.CreatedAt, z.UpdatedAt,
	)
	return err
}

func queryGetFireZone(ctx context.Context, db executor, id string) (*model.FireZone, error) {
	row := db.QueryRowContext(ctx, `SELECT `+zoneColumns+` FROM fire_zones WHERE id = $1`, id)
	return scanFireZone(row)
}

func queryListFireZones(ctx context.Context, db executor, filter model.ZoneFilter) ([]*model.FireZone, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			args = append(args, string(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(filter.Severity) > 0 {
		placeholders := make([]string, len(filter.Severity))
		for i, s := range filter.Severity {
			args = append(args, string(s))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, "severity IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := `SELECT ` + zoneColumns + ` FROM fire_zones`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*model.FireZone
	for rows.Next() {
		z, err := scanFireZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func queryUpdateFireZone(ctx context.Context, db executor, z *model.FireZone) error {
	return requireRow(db.ExecContext(ctx, `
		UPDATE fire_zones SET
			name = $2, description = $3, severity = $4, status = $5,
			latitude = $6, longitude = $7, radius_meters = $8, reported_by = $9, updated_at = $10
		WHERE id = $1`,
		z.ID, z.Name, z.Description, string(z.Severity), string(z.Status),
		z.Latitude, z.Longitude, z.RadiusMeters, z.ReportedBy, z.UpdatedAt,
	))
}

func queryDeleteFireZone(ctx context.Context, db executor, id string) error {
	return requireRow(db.ExecContext(ctx, `DELETE FROM fire_zones WHERE id = $1`, id))
}

// Security points

const pointColumns = `id, name, description, type, status,
	latitude, longitude, created_at, updated_at`

func queryCreateSecurityPoint(ctx context.Context, db executor, p *model.SecurityPoint) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO security_points (
			id, name, description, type, status,
			latitude, longitude, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, string(p.Type), string(p.Status),
		p.Latitude, p.Longitude, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func queryGetSecurityPoint(ctx context.Context, db executor, id string) (*model.SecurityPoint, error) {
	row := db.QueryRowContext(ctx, `SELECT `+pointColumns+` FROM security_points WHERE id = $1`, id)
	return scanSecurityPoint(row)
}

func queryListSecurityPoints(ctx context.Context, db executor) ([]*model.SecurityPoint, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+pointColumns+` FROM security_points ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*model.SecurityPoint
	for rows.Next() {
		p, err := scanSecurityPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func queryUpdateSecurityPoint(ctx context.Context, db executor, p *model.SecurityPoint) error {
	return requireRow(db.ExecContext(ctx, `
		UPDATE security_points SET
			name = $2, description = $3, type = $4, status = $5,
			latitude = $6, longitude = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Description, string(p.Type), string(p.Status),
		p.Latitude, p.Longitude, p.UpdatedAt,
	))
}

func queryDeleteSecurityPoint(ctx context.Context, db executor, id string) error {
	return requireRow(db.ExecContext(ctx, `DELETE FROM security_points WHERE id = $1`, id))
}

// Team members

const memberColumns = `id, name, role, phone, status,
	latitude, longitude, visible_on_map, created_at, updated_at`

func queryCreateTeamMember(ctx context.Context, db executor, m *model.TeamMember) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO team_members (
			id, name, role, phone, status,
			latitude, longitude, visible_on_map, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Name, m.Role, m.Phone, string(m.Status),
		m.Latitude, m.Longitude, m.VisibleOnMap, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func queryGetTeamMember(ctx context.Context, db executor, id string) (*model.TeamMember, error) {
	row := db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM team_members WHERE id = $1`, id)
	return scanTeamMember(row)
}

func queryListTeamMembers(ctx context.Context, db executor) ([]*model.TeamMember, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+memberColumns+` FROM team_members ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*model.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func queryUpdateTeamMember(ctx context.Context, db executor, m *model.TeamMember) error {
	return requireRow(db.ExecContext(ctx, `
		UPDATE team_members SET
			name = $2, role = $3, phone = $4, status = $5,
			latitude = $6, longitude = $7, visible_on_map = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.Name, m.Role, m.Phone, string(m.Status),
		m.Latitude, m.Longitude, m.VisibleOnMap, m.UpdatedAt,
	))
}

func queryDeleteTeamMember(ctx context.Context, db executor, id string) error {
	return requireRow(db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id))
}

// Notifications

const notificationColumns = `id, title, message, level, read, created_at, updated_at`

func queryCreateNotification(ctx context.Context, db executor, n *model.Notification) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, level, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.Title, n.Message, string(n.Level), n.Read, n.CreatedAt, n.UpdatedAt,
	)
	return err
}

func queryGetNotification(ctx context.Context, db executor, id string) (*model.Notification, error) {
	row := db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	return scanNotification(row)
}

func queryListNotifications(ctx context.Context, db executor) ([]*model.Notification, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func queryUpdateNotification(ctx context.Context, db executor, n *model.Notification) error {
	return requireRow(db.ExecContext(ctx, `
		UPDATE notifications SET title = $2, message = $3, level = $4, read = $5, updated_at = $6
		WHERE id = $1`,
		n.ID, n.Title, n.Message, string(n.Level), n.Read, n.UpdatedAt,
	))
}

func queryDeleteNotification(ctx context.Context, db executor, id string) error {
	return requireRow(db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id))
}

// Map configs

const mapConfigColumns = `id, name, center_lat, center_lng, zoom, layer, is_default, created_at, updated_at`

func queryCreateMapConfig(ctx context.Context, db executor, mc *model.MapConfig) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO map_configs (id, name, center_lat, center_lng, zoom, layer, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		mc.ID, mc.Name, mc.CenterLat, mc.CenterLng, mc.Zoom, mc.Layer, mc.IsDefault, mc.CreatedAt, mc.UpdatedAt,
	)
	return err
}

func queryGetMapConfig(ctx context.Context, db executor, id string) (*model.MapConfig, error) {
	row := db.QueryRowContext(ctx, `SELECT `+mapConfigColumns+` FROM map_configs WHERE id = $1`, id)
	return scanMapConfig(row)
}

func queryListMapConfigs(ctx context.Context, db executor) ([]*model.MapConfig, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+mapConfigColumns+` FROM map_configs ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*model.MapConfig
	for rows.Next() {
		mc, err := scanMapConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, mc)
	}
	return configs, rows.Err()
}

func queryUpdateMapConfig(ctx context.Context, db executor, mc *model.MapConfig) error {
	return requireRow(db.ExecContext(ctx, `
		UPDATE map_configs SET name = $2, center_lat = $3, center_lng = $4, zoom = $5, layer = $6, is_default = $7, updated_at = $8
		WHERE id = $1`,
		mc.ID, mc.Name, mc.CenterLat, mc.CenterLng, mc.Zoom, mc.Layer, mc.IsDefault, mc.UpdatedAt,
	))
}

func queryDeleteMapConfig(ctx context.Context, db executor, id string) error {
	return requireRow(db.ExecContext(ctx, `DELETE FROM map_configs WHERE id = $1`, id))
}

// Live feed settings

const liveFeedColumns = `id, name, url, enabled, status, last_seen_at, created_at, updated_at`

func queryCreateLiveFeed(ctx context.Context, db executor, f *model.LiveFeedSetting) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO live_feed_settings (id, name, url, enabled, status, last_seen_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.Name, f.URL, f.Enabled, string(f.Status), f.LastSeenAt, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func queryGetLiveFeed(ctx context.Context, db executor, id string) (*model.LiveFeedSetting, error) {
	row := db.QueryRowContext(ctx, `SELECT `+liveFeedColumns+` FROM live_feed_settings WHERE id = $1`, id)
	return scanLiveFeed(row)
}

func queryListLiveFeeds(ctx context.Context, db executor) ([]*model.LiveFeedSetting, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+liveFeedColumns+` FROM live_feed_settings ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []*model.LiveFeedSetting
	for rows.Next() {
		f, err := scanLiveFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func queryUpdateLiveFeed(ctx context.Context, db executor, f *model.LiveFeedSetting) error {
	return requireRow(db.ExecContext(ctx, `
		UPDATE live_feed_settings SET name = $2, url = $3, enabled = $4, status = $5, last_seen_at = $6, updated_at = $7
		WHERE id = $1`,
		f.ID, f.Name, f.URL, f.Enabled, string(f.Status), f.LastSeenAt, f.UpdatedAt,
	))
}

func queryDeleteLiveFeed(ctx context.Context, db executor, id string) error {
	return requireRow(db.ExecContext(ctx, `DELETE FROM live_feed_settings WHERE id = $1`, id))
}
