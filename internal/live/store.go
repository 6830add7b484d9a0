package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Store holds the live collections for one session. All mutation goes
// through Apply (change events), Refresh (wholesale replacement), or the
// write-through helpers; every mutation installs a freshly-built slice so
// accessor snapshots never observe a half-applied update.
type Store struct {
	remote Remote
	logger *slog.Logger

	mu             sync.RWMutex
	fireZones      []model.FireZone      // most-recent-first
	securityPoints []model.SecurityPoint // most-recent-first
	teamMembers    []model.TeamMember    // name-sorted
	lastUpdated    time.Time
	lastErr        error

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int

	now func() time.Time
}

// NewStore creates a session store seeded from the snapshot. The seed's
// team members are re-sorted by name; zones and points keep the order the
// snapshot provider returned (most-recent-first from the server).
func NewStore(remote Remote, seed Snapshot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	members := append([]model.TeamMember(nil), seed.TeamMembers...)
	sortMembers(members)
	return &Store{
		remote:         remote,
		logger:         logger,
		fireZones:      append([]model.FireZone(nil), seed.FireZones...),
		securityPoints: append([]model.SecurityPoint(nil), seed.SecurityPoints...),
		teamMembers:    members,
		observers:      make(map[int]func()),
		now:            time.Now,
	}
}

// FireZones returns a snapshot copy of the fire zone collection.
func (s *Store) FireZones() []model.FireZone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.FireZone(nil), s.fireZones...)
}

// SecurityPoints returns a snapshot copy of the security point collection.
func (s *Store) SecurityPoints() []model.SecurityPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SecurityPoint(nil), s.securityPoints...)
}

// TeamMembers returns a snapshot copy of the team member roster.
func (s *Store) TeamMembers() []model.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TeamMember(nil), s.teamMembers...)
}

// LastUpdated returns when a mutation last landed, zero if never.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// LastError returns the most recent refresh error, nil after a clean refresh.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// OnChange registers fn to run after every successful mutation. The
// returned cancel removes the registration. UI layers adapt this to their
// own reactivity model.
func (s *Store) OnChange(fn func()) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()
	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Apply merges one change event into the matching collection, keyed by
// record id. Duplicate inserts and deletes of absent ids are no-ops.
// A change that lands advances LastUpdated and notifies observers.
func (s *Store) Apply(ev model.ChangeEvent) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("applying change event: %w", err)
	}

	changed := false
	s.mu.Lock()
	switch ev.Collection {
	case model.CollectionFireZones:
		var zone model.FireZone
		var err error
		s.fireZones, changed, err = applyEvent(s.fireZones, ev, &zone)
		if err != nil {
			s.mu.Unlock()
			return err
		}
	case model.CollectionSecurityPoints:
		var point model.SecurityPoint
		var err error
		s.securityPoints, changed, err = applyEvent(s.securityPoints, ev, &point)
		if err != nil {
			s.mu.Unlock()
			return err
		}
	case model.CollectionTeamMembers:
		var member model.TeamMember
		var err error
		s.teamMembers, changed, err = applyEvent(s.teamMembers, ev, &member)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if changed {
			sortMembers(s.teamMembers)
		}
	default:
		s.mu.Unlock()
		return fmt.Errorf("collection %s is not held live", ev.Collection)
	}
	if changed {
		s.lastUpdated = s.now()
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return nil
}

// applyEvent decodes the event's record into rec and applies the mutation
// to list, returning the (possibly new) list and whether anything changed.
func applyEvent[T keyed](list []T, ev model.ChangeEvent, rec *T) ([]T, bool, error) {
	switch ev.Kind {
	case model.ChangeInsert, model.ChangeUpdate:
		if err := json.Unmarshal(ev.New, rec); err != nil {
			return list, false, fmt.Errorf("decoding %s record: %w", ev.Collection, err)
		}
		if ev.Kind == model.ChangeInsert {
			out, changed := insertRecord(list, *rec)
			return out, changed, nil
		}
		out, changed := updateRecord(list, *rec)
		return out, changed, nil
	case model.ChangeDelete:
		id, err := ev.RecordID()
		if err != nil {
			return list, false, err
		}
		out, changed := deleteRecord(list, id)
		return out, changed, nil
	default:
		return list, false, fmt.Errorf("unknown change kind %q", ev.Kind)
	}
}

// UpdateTeamMemberStatus writes a member's status through to the remote
// store. Local state is not touched: the resulting update event (or a
// manual refresh when the stream is down) converges it.
func (s *Store) UpdateTeamMemberStatus(ctx context.Context, id string, status model.MemberStatus) error {
	if _, err := s.remote.UpdateTeamMemberStatus(ctx, id, status); err != nil {
		return fmt.Errorf("updating team member status: %w", err)
	}
	return nil
}

// UpdateTeamMemberLocation writes a member's position and map visibility
// through to the remote store, with the same convergence contract as
// UpdateTeamMemberStatus.
func (s *Store) UpdateTeamMemberLocation(ctx context.Context, id string, lat, lng float64, visibleOnMap bool) error {
	if _, err := s.remote.UpdateTeamMemberLocation(ctx, id, lat, lng, visibleOnMap); err != nil {
		return fmt.Errorf("updating team member location: %w", err)
	}
	return nil
}
