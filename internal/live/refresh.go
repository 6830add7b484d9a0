package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Refresh re-fetches the three watched collections and replaces each one
// wholesale, bypassing the change stream entirely. The fetches are
// independent: a failure in one is reported but the others still land, so
// data visibility recovers even when part of the backend is unhappy.
// The joined error (nil on full success) is also kept as LastError.
func (s *Store) Refresh(ctx context.Context) error {
	var errs []error

	zones, zErr := s.remote.FetchFireZones(ctx)
	if zErr != nil {
		errs = append(errs, fmt.Errorf("fire zones: %w", zErr))
	}
	points, pErr := s.remote.FetchSecurityPoints(ctx)
	if pErr != nil {
		errs = append(errs, fmt.Errorf("security points: %w", pErr))
	}
	members, mErr := s.remote.FetchTeamMembers(ctx)
	if mErr != nil {
		errs = append(errs, fmt.Errorf("team members: %w", mErr))
	}

	applied := false
	s.mu.Lock()
	if zErr == nil {
		s.fireZones = append([]model.FireZone(nil), zones...)
		applied = true
	}
	if pErr == nil {
		s.securityPoints = append([]model.SecurityPoint(nil), points...)
		applied = true
	}
	if mErr == nil {
		sorted := append([]model.TeamMember(nil), members...)
		sortMembers(sorted)
		s.teamMembers = sorted
		applied = true
	}
	err := errors.Join(errs...)
	s.lastErr = err
	if applied {
		s.lastUpdated = s.now()
	}
	s.mu.Unlock()

	if applied {
		s.notify()
	}
	if err != nil {
		s.logger.Warn("live: refresh incomplete", "err", err)
	}
	return err
}

// Refresher runs periodic full resyncs against the store, independent of
// the streaming path. It exists to recover the events lost across stream
// gaps (nothing is replayed after a reconnect).
type Refresher struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a refresher that resyncs the store every interval.
func NewRefresher(store *Store, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{store: store, interval: interval, logger: logger}
}

// Start begins the periodic resync. The store was just seeded, so the
// first resync happens one interval in, not immediately.
func (r *Refresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
}

// Stop cancels the refresher and waits for any in-flight resync to finish.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Refresher) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.store.Refresh(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("live: periodic refresh failed", "err", err)
			}
		}
	}
}
