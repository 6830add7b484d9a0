// Package feedwatch tracks live camera and sensor feed heartbeats.
//
// The Tracker maintains an in-memory map of feeds that have reported in,
// updated directly by the server when heartbeats arrive via
// POST /v1/live-feeds/{id}/heartbeat. A background watchdog goroutine
// marks silent feeds offline after a configurable threshold so the
// dashboard can flag dead cameras without polling each device.
package feedwatch

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Entry represents a single feed's heartbeat state.
type Entry struct {
	FeedID    string    `json:"feed_id"`
	LastSeen  time.Time `json:"last_seen"`
	FirstSeen time.Time `json:"first_seen"`
	IdleSecs  float64   `json:"idle_secs"`
	BeatCount int64     `json:"beat_count"`
	Offline   bool      `json:"offline,omitempty"`
	OfflineAt time.Time `json:"offline_at,omitempty"`
}

// WatchdogConfig configures the background offline-feed watchdog.
type WatchdogConfig struct {
	// OfflineThreshold is how long a feed must be silent before being
	// marked offline. Default: 2 minutes.
	OfflineThreshold time.Duration

	// EvictAfter is how long after going offline before a feed is removed
	// from the in-memory map. Prevents unbounded growth from feeds that
	// were deleted server-side. Default: 30 minutes.
	EvictAfter time.Duration

	// SweepInterval is how often the watchdog scans for silent feeds.
	// Default: 30 seconds.
	SweepInterval time.Duration

	// OnOffline is called for each feed newly marked offline.
	// Called outside the lock, safe to make blocking calls.
	OnOffline func(feedID string)

	// OnRecovered is called when an offline feed reports in again.
	OnRecovered func(feedID string)
}

// Tracker maintains an in-memory heartbeat roster for live feeds.
type Tracker struct {
	mu      sync.RWMutex
	feeds   map[string]*feedState
	started time.Time

	onRecovered func(feedID string)

	watchStop chan struct{}
	watchDone chan struct{}
}

type feedState struct {
	firstSeen time.Time
	lastSeen  time.Time
	beatCount int64
	offline   bool
	offlineAt time.Time
}

// New creates a new feed tracker.
func New() *Tracker {
	return &Tracker{
		feeds:   make(map[string]*feedState),
		started: time.Now(),
	}
}

// Heartbeat records a heartbeat for a feed. Called by the server when
// POST /v1/live-feeds/{id}/heartbeat is received.
func (t *Tracker) Heartbeat(feedID string) {
	if feedID == "" {
		return
	}

	now := time.Now()
	var recovered bool

	t.mu.Lock()
	state, ok := t.feeds[feedID]
	if !ok {
		state = &feedState{firstSeen: now}
		t.feeds[feedID] = state
	}
	if state.offline {
		recovered = true
		state.offline = false
		state.offlineAt = time.Time{}
	}
	state.lastSeen = now
	state.beatCount++
	onRecovered := t.onRecovered
	t.mu.Unlock()

	if recovered {
		slog.Info("feedwatch: feed recovered", "feed_id", feedID)
		if onRecovered != nil {
			onRecovered(feedID)
		}
	}
}

// Roster returns a snapshot of all tracked feeds, most recently active first.
// staleThreshold excludes feeds silent for longer than the given duration.
// Pass 0 to include every feed ever seen.
func (t *Tracker) Roster(staleThreshold time.Duration) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := time.Now()
	entries := make([]Entry, 0, len(t.feeds))

	for feedID, state := range t.feeds {
		idle := now.Sub(state.lastSeen)
		if staleThreshold > 0 && idle > staleThreshold {
			continue
		}

		firstSeen := state.firstSeen
		if firstSeen.IsZero() {
			firstSeen = t.started
		}

		entries = append(entries, Entry{
			FeedID:    feedID,
			LastSeen:  state.lastSeen,
			FirstSeen: firstSeen,
			IdleSecs:  idle.Seconds(),
			BeatCount: state.beatCount,
			Offline:   state.offline,
			OfflineAt: state.offlineAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})

	return entries
}

// StartWatchdog launches a background goroutine that periodically marks
// silent feeds offline. Call Stop() to shut it down.
func (t *Tracker) StartWatchdog(cfg *WatchdogConfig) {
	if cfg == nil {
		cfg = &WatchdogConfig{}
	}
	if cfg.OfflineThreshold == 0 {
		cfg.OfflineThreshold = 2 * time.Minute
	}
	if cfg.EvictAfter == 0 {
		cfg.EvictAfter = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 30 * time.Second
	}

	t.mu.Lock()
	t.onRecovered = cfg.OnRecovered
	t.mu.Unlock()

	t.watchStop = make(chan struct{})
	t.watchDone = make(chan struct{})

	go t.watchLoop(cfg)
	slog.Info("feedwatch: watchdog started",
		"offline_threshold", cfg.OfflineThreshold,
		"sweep_interval", cfg.SweepInterval)
}

// Stop shuts down the watchdog goroutine.
func (t *Tracker) Stop() {
	if t.watchStop != nil {
		close(t.watchStop)
		<-t.watchDone
		t.watchStop = nil
		t.watchDone = nil
	}
}

func (t *Tracker) watchLoop(cfg *WatchdogConfig) {
	defer close(t.watchDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.watchStop:
			return
		case <-ticker.C:
			t.sweep(cfg)
		}
	}
}

func (t *Tracker) sweep(cfg *WatchdogConfig) {
	now := time.Now()

	var newlyOffline []string

	t.mu.Lock()
	for feedID, state := range t.feeds {
		if state.offline {
			if !state.offlineAt.IsZero() && now.Sub(state.offlineAt) > cfg.EvictAfter {
				delete(t.feeds, feedID)
			}
			continue
		}
		if now.Sub(state.lastSeen) > cfg.OfflineThreshold {
			state.offline = true
			state.offlineAt = now
			newlyOffline = append(newlyOffline, feedID)
		}
	}
	t.mu.Unlock()

	for _, feedID := range newlyOffline {
		slog.Info("feedwatch: watchdog marked feed offline",
			"feed_id", feedID,
			"threshold", cfg.OfflineThreshold)
		if cfg.OnOffline != nil {
			cfg.OnOffline(feedID)
		}
	}
}
