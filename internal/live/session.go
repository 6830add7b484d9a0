package live

import (
	"log/slog"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/realtime"
)

// Session wires one Store to a subscription registry over a change-stream
// transport. It is the session-scoped entry point a UI holds: constructed
// once with a seeded snapshot, torn down at session end.
type Session struct {
	store    *Store
	registry *realtime.Registry
	refresh  *Refresher
	logger   *slog.Logger
}

// SessionConfig configures NewSession.
type SessionConfig struct {
	Remote Remote
	Stream realtime.Stream
	Seed   Snapshot

	// ResyncInterval enables periodic full resyncs when > 0.
	ResyncInterval time.Duration

	// OnDegraded (optional) is invoked once per collection whose
	// subscription gave up reconnecting.
	OnDegraded func(model.Collection, error)

	Logger *slog.Logger
}

// NewSession builds the store and registry. Call Start to open the
// subscriptions.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := NewStore(cfg.Remote, cfg.Seed, logger)
	registry := realtime.NewRegistry(cfg.Stream, logger)
	if cfg.OnDegraded != nil {
		registry.OnDegraded(cfg.OnDegraded)
	}

	s := &Session{
		store:    store,
		registry: registry,
		logger:   logger,
	}
	if cfg.ResyncInterval > 0 {
		s.refresh = NewRefresher(store, cfg.ResyncInterval, logger)
	}
	return s
}

// Store exposes the session's live state.
func (s *Session) Store() *Store {
	return s.store
}

// Start opens one subscription per watched collection, feeding delivered
// events into the store, and starts the periodic resync if configured.
func (s *Session) Start() {
	for _, collection := range model.WatchedCollections {
		s.registry.Watch(collection, func(ev model.ChangeEvent) {
			if err := s.store.Apply(ev); err != nil {
				s.logger.Warn("live: dropping change event", "collection", ev.Collection, "kind", ev.Kind, "err", err)
			}
		})
	}
	if s.refresh != nil {
		s.refresh.Start()
	}
}

// Connected reports the AND-aggregate connectivity across the watched
// collections.
func (s *Session) Connected() bool {
	return s.registry.Connected()
}

// SubscriptionStatus returns per-collection connection state for
// diagnostics.
func (s *Session) SubscriptionStatus(collection model.Collection) (realtime.State, bool) {
	return s.registry.Status(collection)
}

// OnConnectivityChange registers a callback fired after any subscription
// state transition. Set before Start.
func (s *Session) OnConnectivityChange(fn func()) {
	s.registry.OnChange(fn)
}

// Close tears down the subscriptions and the periodic resync.
func (s *Session) Close() {
	if s.refresh != nil {
		s.refresh.Stop()
	}
	s.registry.Close()
}
