package live

import (
	"sync"
	"testing"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/realtime"
)

// stubStream hands out controllable channels per collection.
type stubStream struct {
	mu    sync.Mutex
	calls map[model.Collection]*stubCall
}

type stubCall struct {
	onEvent  realtime.ChangeHandler
	onStatus realtime.StatusHandler
}

type stubChannel struct{}

func (stubChannel) Close() {}

func newStubStream() *stubStream {
	return &stubStream{calls: make(map[model.Collection]*stubCall)}
}

func (s *stubStream) Open(collection model.Collection, kinds []model.ChangeKind, onEvent realtime.ChangeHandler, onStatus realtime.StatusHandler) realtime.Channel {
	s.mu.Lock()
	s.calls[collection] = &stubCall{onEvent: onEvent, onStatus: onStatus}
	s.mu.Unlock()
	return stubChannel{}
}

func (s *stubStream) call(collection model.Collection) *stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[collection]
}

func TestSession_StreamsEventsIntoStore(t *testing.T) {
	stream := newStubStream()
	session := NewSession(SessionConfig{
		Remote: newFakeRemote(),
		Stream: stream,
		Seed: Snapshot{
			FireZones: []model.FireZone{{ID: "fz-1", Status: model.ZoneActive}},
		},
	})
	defer session.Close()

	session.Start()
	for _, c := range model.WatchedCollections {
		if stream.call(c) == nil {
			t.Fatalf("no subscription opened for %s", c)
		}
		stream.call(c).onStatus(realtime.StatusSubscribed, nil)
	}
	if !session.Connected() {
		t.Error("session not connected with all channels subscribed")
	}

	ev, err := model.NewChangeEvent(model.CollectionFireZones, model.ChangeUpdate,
		model.FireZone{ID: "fz-1", Status: model.ZoneContained}, nil)
	if err != nil {
		t.Fatalf("building event: %v", err)
	}
	stream.call(model.CollectionFireZones).onEvent(ev)

	zones := session.Store().FireZones()
	if len(zones) != 1 || zones[0].Status != model.ZoneContained {
		t.Errorf("zones = %+v", zones)
	}

	st, ok := session.SubscriptionStatus(model.CollectionFireZones)
	if !ok || !st.Connected {
		t.Errorf("subscription status = %+v, ok=%v", st, ok)
	}
	if _, ok := session.SubscriptionStatus(model.CollectionNotifications); ok {
		t.Error("status reported for unwatched collection")
	}
}
