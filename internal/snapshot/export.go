// Package snapshot exports the full farm state as JSONL and ships it to
// configured destinations (S3, a git-backed archive) on a schedule. The
// export is the offline counterpart of the live dashboard: a portable dump
// of every collection for reporting and disaster recovery.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Counts    counts    `json:"counts"`
}

type counts struct {
	FireZones      int `json:"fire_zones"`
	SecurityPoints int `json:"security_points"`
	TeamMembers    int `json:"team_members"`
	Notifications  int `json:"notifications"`
	MapConfigs     int `json:"map_configs"`
	LiveFeeds      int `json:"live_feeds"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every collection from the store as JSONL to w.
// Records within each collection are sorted by ID for stable diffs
// between consecutive exports.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	zones, err := s.ListFireZones(ctx, model.ZoneFilter{})
	if err != nil {
		return fmt.Errorf("list fire zones: %w", err)
	}
	points, err := s.ListSecurityPoints(ctx)
	if err != nil {
		return fmt.Errorf("list security points: %w", err)
	}
	members, err := s.ListTeamMembers(ctx)
	if err != nil {
		return fmt.Errorf("list team members: %w", err)
	}
	notifications, err := s.ListNotifications(ctx)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	configs, err := s.ListMapConfigs(ctx)
	if err != nil {
		return fmt.Errorf("list map configs: %w", err)
	}
	feeds, err := s.ListLiveFeeds(ctx)
	if err != nil {
		return fmt.Errorf("list live feeds: %w", err)
	}

	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID < notifications[j].ID })
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].ID < feeds[j].ID })

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		Counts: counts{
			FireZones:      len(zones),
			SecurityPoints: len(points),
			TeamMembers:    len(members),
			Notifications:  len(notifications),
			MapConfigs:     len(configs),
			LiveFeeds:      len(feeds),
		},
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, z := range zones {
		if err := enc.Encode(record{Type: "fire_zone", Data: z}); err != nil {
			return fmt.Errorf("encode fire zone %s: %w", z.ID, err)
		}
	}
	for _, p := range points {
		if err := enc.Encode(record{Type: "security_point", Data: p}); err != nil {
			return fmt.Errorf("encode security point %s: %w", p.ID, err)
		}
	}
	for _, m := range members {
		if err := enc.Encode(record{Type: "team_member", Data: m}); err != nil {
			return fmt.Errorf("encode team member %s: %w", m.ID, err)
		}
	}
	for _, n := range notifications {
		if err := enc.Encode(record{Type: "notification", Data: n}); err != nil {
			return fmt.Errorf("encode notification %s: %w", n.ID, err)
		}
	}
	for _, c := range configs {
		if err := enc.Encode(record{Type: "map_config", Data: c}); err != nil {
			return fmt.Errorf("encode map config %s: %w", c.ID, err)
		}
	}
	for _, f := range feeds {
		if err := enc.Encode(record{Type: "live_feed", Data: f}); err != nil {
			return fmt.Errorf("encode live feed %s: %w", f.ID, err)
		}
	}

	return nil
}
