// Package server implements the farms HTTP/JSON API: CRUD over the six
// record collections, change-event publication to NATS and SSE, and the
// live feed heartbeat endpoint.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/events"
	"github.com/IvubaServices/FarmSecure-sub000/internal/feedwatch"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// FarmServer serves the farms REST API backed by the given store.
type FarmServer struct {
	store     store.Store
	publisher events.Publisher
	sseHub    *sseHub
	Feeds     *feedwatch.Tracker
}

// NewFarmServer returns a new FarmServer backed by the given store and publisher.
func NewFarmServer(s store.Store, p events.Publisher) *FarmServer {
	return &FarmServer{
		store:     s,
		publisher: p,
		sseHub:    newSSEHub(),
		Feeds:     feedwatch.New(),
	}
}

// publishChange emits a change event to NATS and connected SSE clients.
// Publication is best-effort; failures are logged but do not fail the
// mutation that triggered them, since the row is already persisted and
// clients recover divergence through manual refresh.
func (s *FarmServer) publishChange(ctx context.Context, collection model.Collection, kind model.ChangeKind, newRecord, oldRecord any) {
	ev, err := model.NewChangeEvent(collection, kind, newRecord, oldRecord)
	if err != nil {
		slog.Warn("failed to build change event", "collection", collection, "kind", kind, "error", err)
		return
	}

	topic := events.ChangeTopic(collection, kind)
	if err := s.publisher.Publish(ctx, topic, ev); err != nil {
		slog.Warn("failed to publish change event", "topic", topic, "error", err)
	}
	if s.sseHub != nil {
		s.sseHub.broadcast(ev)
	}
}

// MarkFeedOffline flips a live feed's status to offline and publishes the
// resulting change event. Wired as the feedwatch watchdog's OnOffline
// callback in cmd/farms.
func (s *FarmServer) MarkFeedOffline(ctx context.Context, feedID string) {
	s.setFeedStatus(ctx, feedID, model.FeedOffline, nil)
}

// MarkFeedOnline flips a live feed's status to online, stamps last_seen_at,
// and publishes the resulting change event.
func (s *FarmServer) MarkFeedOnline(ctx context.Context, feedID string, seenAt time.Time) {
	s.setFeedStatus(ctx, feedID, model.FeedOnline, &seenAt)
}

func (s *FarmServer) setFeedStatus(ctx context.Context, feedID string, status model.FeedStatus, seenAt *time.Time) {
	feed, err := s.store.GetLiveFeed(ctx, feedID)
	if err != nil {
		slog.Warn("failed to load live feed for status change", "feed_id", feedID, "error", err)
		return
	}
	if feed.Status == status && seenAt == nil {
		return
	}

	old := *feed
	feed.Status = status
	if seenAt != nil {
		t := seenAt.UTC()
		feed.LastSeenAt = &t
	}
	feed.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateLiveFeed(ctx, feed); err != nil {
		slog.Warn("failed to update live feed status", "feed_id", feedID, "status", status, "error", err)
		return
	}
	s.publishChange(ctx, model.CollectionLiveFeedSettings, model.ChangeUpdate, feed, &old)
}

// inputError indicates invalid user input.
// The HTTP layer maps this to a 400 response.
type inputError string

func (e inputError) Error() string { return string(e) }
