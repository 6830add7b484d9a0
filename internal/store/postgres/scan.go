package postgres

import (
	"database/sql"
	"errors"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// scannable covers both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func scanFireZone(row scannable) (*model.FireZone, error) {
	var (
		z        model.FireZone
		severity string
		status   string
	)
	err := row.Scan(
		&z.ID, &z.Name, &z.Description, &severity, &status,
		&z.Latitude, &z.Longitude, &z.RadiusMeters, &z.ReportedBy,
		&z.CreatedAt, &z.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err)
	}
	z.Severity = model.Severity(severity)
	z.Status = model.ZoneStatus(status)
	return &z, nil
}

func scanSecurityPoint(row scannable) (*model.SecurityPoint, error) {
	var (
		p      model.SecurityPoint
		ptype  string
		status string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &ptype, &status,
		&p.Latitude, &p.Longitude, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err)
	}
	p.Type = model.PointType(ptype)
	p.Status = model.PointStatus(status)
	return &p, nil
}

func scanTeamMember(row scannable) (*model.TeamMember, error) {
	var (
		m      model.TeamMember
		status string
		lat    sql.NullFloat64
		lng    sql.NullFloat64
	)
	err := row.Scan(
		&m.ID, &m.Name, &m.Role, &m.Phone, &status,
		&lat, &lng, &m.VisibleOnMap, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err)
	}
	m.Status = model.MemberStatus(status)
	if lat.Valid {
		m.Latitude = &lat.Float64
	}
	if lng.Valid {
		m.Longitude = &lng.Float64
	}
	return &m, nil
}

func scanNotification(row scannable) (*model.Notification, error) {
	var (
		n     model.Notification
		level string
	)
	err := row.Scan(
		&n.ID, &n.Title, &n.Message, &level, &n.Read,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err)
	}
	n.Level = model.NotificationLevel(level)
	return &n, nil
}

func scanMapConfig(row scannable) (*model.MapConfig, error) {
	var mc model.MapConfig
	err := row.Scan(
		&mc.ID, &mc.Name, &mc.CenterLat, &mc.CenterLng, &mc.Zoom,
		&mc.Layer, &mc.IsDefault, &mc.CreatedAt, &mc.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err)
	}
	return &mc, nil
}

func scanLiveFeed(row scannable) (*model.LiveFeedSetting, error) {
	var (
		f        model.LiveFeedSetting
		status   string
		lastSeen sql.NullTime
	)
	err := row.Scan(
		&f.ID, &f.Name, &f.URL, &f.Enabled, &status, &lastSeen,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, scanErr(err)
	}
	f.Status = model.FeedStatus(status)
	if lastSeen.Valid {
		t := lastSeen.Time
		f.LastSeenAt = &t
	}
	return &f, nil
}
