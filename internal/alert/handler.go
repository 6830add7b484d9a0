package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/events"
	"github.com/IvubaServices/FarmSecure-sub000/internal/idgen"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// Rule runs a shell command when a matching change event arrives.
// Empty Collections or Kinds match everything.
type Rule struct {
	Name        string
	Collections []model.Collection
	Kinds       []model.ChangeKind
	Command     string
	TimeoutSecs int
}

func (r Rule) matches(e model.ChangeEvent) bool {
	if len(r.Collections) > 0 && !containsCollection(r.Collections, e.Collection) {
		return false
	}
	if len(r.Kinds) > 0 && !containsKind(r.Kinds, e.Kind) {
		return false
	}
	return true
}

func containsCollection(cs []model.Collection, c model.Collection) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}

func containsKind(ks []model.ChangeKind, k model.ChangeKind) bool {
	for _, v := range ks {
		if v == k {
			return true
		}
	}
	return false
}

// Handler watches the change stream, files notifications for incidents
// that warrant attention, and runs any matching alert commands.
type Handler struct {
	store  store.Store
	logger *slog.Logger
	rules  []Rule
}

// NewHandler creates an alert handler backed by the given store.
func NewHandler(s store.Store, logger *slog.Logger, rules []Rule) *Handler {
	return &Handler{store: s, logger: logger, rules: rules}
}

// HandleChangeEvent inspects a single change event. Notification-collection
// events are ignored so a filed notification never triggers another one.
func (h *Handler) HandleChangeEvent(ctx context.Context, event model.ChangeEvent) {
	if event.Collection == model.CollectionNotifications {
		return
	}

	if n := notificationFor(event); n != nil {
		h.fileNotification(ctx, n)
	}

	recordID, _ := event.RecordID()
	for _, rule := range h.rules {
		if rule.Command == "" || !rule.matches(event) {
			continue
		}
		env := map[string]string{
			"FARMS_COLLECTION": string(event.Collection),
			"FARMS_KIND":       string(event.Kind),
			"FARMS_RECORD_ID":  recordID,
		}
		result := Execute(ctx, rule.Command, rule.TimeoutSecs, env)
		if result.Err != nil {
			h.logger.Warn("alert: command failed",
				"rule", rule.Name, "err", result.Err, "output", result.Output)
			continue
		}
		h.logger.Info("alert: command ran", "rule", rule.Name, "topic", events.ChangeTopic(event.Collection, event.Kind))
	}
}

func (h *Handler) fileNotification(ctx context.Context, n *model.Notification) {
	id, err := idgen.Generate(model.CollectionNotifications)
	if err != nil {
		h.logger.Error("alert: failed to generate notification id", "title", n.Title, "err", err)
		return
	}
	n.ID = id
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if err := h.store.CreateNotification(ctx, n); err != nil {
		h.logger.Error("alert: failed to file notification", "title", n.Title, "err", err)
		return
	}
	h.logger.Info("alert: filed notification", "id", n.ID, "level", n.Level, "title", n.Title)
}

// notificationFor decides whether an event deserves a notification.
// New fire zones at high or critical severity, security points flipping
// to breached, and live feeds dropping offline all do. Returns nil for
// everything else.
func notificationFor(event model.ChangeEvent) *model.Notification {
	switch event.Collection {
	case model.CollectionFireZones:
		if event.Kind != model.ChangeInsert {
			return nil
		}
		var zone model.FireZone
		if err := json.Unmarshal(event.New, &zone); err != nil {
			return nil
		}
		switch zone.Severity {
		case model.SeverityCritical:
			return &model.Notification{
				Title:   fmt.Sprintf("Critical fire zone reported: %s", zone.Name),
				Message: fmt.Sprintf("Fire zone %s reported at %.5f, %.5f", zone.Name, zone.Latitude, zone.Longitude),
				Level:   model.NotifyCritical,
			}
		case model.SeverityHigh:
			return &model.Notification{
				Title:   fmt.Sprintf("Fire zone reported: %s", zone.Name),
				Message: fmt.Sprintf("High severity fire zone %s reported at %.5f, %.5f", zone.Name, zone.Latitude, zone.Longitude),
				Level:   model.NotifyWarning,
			}
		}
		return nil

	case model.CollectionSecurityPoints:
		var point model.SecurityPoint
		if err := json.Unmarshal(event.New, &point); err != nil {
			return nil
		}
		if point.Status != model.PointBreached {
			return nil
		}
		// Only alert on the transition, not on every later edit.
		if event.Kind == model.ChangeUpdate && len(event.Old) > 0 {
			var old model.SecurityPoint
			if err := json.Unmarshal(event.Old, &old); err == nil && old.Status == model.PointBreached {
				return nil
			}
		}
		return &model.Notification{
			Title:   fmt.Sprintf("Security point breached: %s", point.Name),
			Message: fmt.Sprintf("%s (%s) reports a breach", point.Name, point.Type),
			Level:   model.NotifyCritical,
		}

	case model.CollectionLiveFeedSettings:
		if event.Kind != model.ChangeUpdate {
			return nil
		}
		var feed model.LiveFeedSetting
		if err := json.Unmarshal(event.New, &feed); err != nil {
			return nil
		}
		if feed.Status != model.FeedOffline {
			return nil
		}
		if len(event.Old) > 0 {
			var old model.LiveFeedSetting
			if err := json.Unmarshal(event.Old, &old); err == nil && old.Status == model.FeedOffline {
				return nil
			}
		}
		return &model.Notification{
			Title:   fmt.Sprintf("Live feed offline: %s", feed.Name),
			Message: fmt.Sprintf("Feed %s stopped sending heartbeats", feed.Name),
			Level:   model.NotifyWarning,
		}
	}
	return nil
}

// StartSubscriber listens for change events on the event bus and handles
// them until ctx is cancelled. Malformed payloads never reach the handler;
// the subscriber drops them during decode.
func (h *Handler) StartSubscriber(ctx context.Context, sub events.ChangeSubscriber) error {
	ch, cancel, err := sub.SubscribeChanges(events.TopicAll)
	if err != nil {
		return fmt.Errorf("alert: subscribe: %w", err)
	}
	defer cancel()

	h.logger.Info("alert: subscriber started")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("alert: subscriber stopping")
			return nil
		case event, ok := <-ch:
			if !ok {
				h.logger.Info("alert: subscription channel closed")
				return nil
			}
			h.HandleChangeEvent(ctx, event)
		}
	}
}
