package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// fakeChannel records whether it has been closed.
type fakeChannel struct {
	mu     sync.Mutex
	closed bool
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// openCall captures one Stream.Open invocation so tests can drive the
// status and event callbacks by hand.
type openCall struct {
	collection model.Collection
	kinds      []model.ChangeKind
	onEvent    ChangeHandler
	onStatus   StatusHandler
	ch         *fakeChannel
}

// fakeStream hands out fakeChannels and records every open.
type fakeStream struct {
	mu    sync.Mutex
	opens []*openCall
}

func (s *fakeStream) Open(collection model.Collection, kinds []model.ChangeKind, onEvent ChangeHandler, onStatus StatusHandler) Channel {
	call := &openCall{
		collection: collection,
		kinds:      kinds,
		onEvent:    onEvent,
		onStatus:   onStatus,
		ch:         &fakeChannel{},
	}
	s.mu.Lock()
	s.opens = append(s.opens, call)
	s.mu.Unlock()
	return call.ch
}

func (s *fakeStream) openCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.opens)
}

func (s *fakeStream) lastOpen() *openCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.opens) == 0 {
		return nil
	}
	return s.opens[len(s.opens)-1]
}

func (s *fakeStream) liveChannels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, call := range s.opens {
		if !call.ch.isClosed() {
			n++
		}
	}
	return n
}

// retryRecorder replaces the subscription's timer scheduling so tests can
// observe delays and fire retries deterministically.
type retryRecorder struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending func()
}

func (r *retryRecorder) afterFunc(d time.Duration, fn func()) *time.Timer {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.pending = fn
	r.mu.Unlock()
	return time.NewTimer(time.Hour)
}

func (r *retryRecorder) fire(t *testing.T) {
	t.Helper()
	r.mu.Lock()
	fn := r.pending
	r.pending = nil
	r.mu.Unlock()
	if fn == nil {
		t.Fatal("no pending retry to fire")
	}
	fn()
}

func (r *retryRecorder) scheduled() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delays)
}

func newTestSubscription(stream Stream, onEvent ChangeHandler, rec *retryRecorder) *Subscription {
	sub := NewSubscription(stream, model.CollectionFireZones, nil, onEvent, nil, nil)
	if rec != nil {
		sub.afterFunc = rec.afterFunc
	}
	return sub
}

func TestRetryDelay(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want time.Duration
	}{
		{0, 5 * time.Second},
		{1, 10 * time.Second},
		{2, 20 * time.Second},
		{3, 30 * time.Second}, // capped
		{4, 30 * time.Second},
		{40, 30 * time.Second}, // shift overflow still capped
	} {
		if got := RetryDelay(tc.n); got != tc.want {
			t.Errorf("RetryDelay(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestSubscription_SubscribedClearsErrorAndRetries(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	sub := newTestSubscription(stream, nil, rec)
	defer sub.Close()

	sub.Start()
	call := stream.lastOpen()

	call.onStatus(StatusError, errors.New("boom"))
	if st := sub.State(); st.Connected || st.Err == nil || st.RetryCount != 1 {
		t.Fatalf("after failure: %+v", st)
	}

	rec.fire(t)
	stream.lastOpen().onStatus(StatusSubscribed, nil)

	st := sub.State()
	if !st.Connected || st.Err != nil || st.RetryCount != 0 {
		t.Fatalf("after subscribe: %+v", st)
	}
}

func TestSubscription_BackoffScheduleAndRetryCeiling(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	sub := newTestSubscription(stream, nil, rec)
	defer sub.Close()

	sub.Start()

	// Three consecutive failures schedule retries at 5s, 10s, 20s.
	for i := 0; i < 3; i++ {
		stream.lastOpen().onStatus(StatusError, errors.New("channel error"))
		rec.fire(t)
	}
	wantDelays := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}
	rec.mu.Lock()
	gotDelays := append([]time.Duration(nil), rec.delays...)
	rec.mu.Unlock()
	if len(gotDelays) != len(wantDelays) {
		t.Fatalf("scheduled %d retries, want %d", len(gotDelays), len(wantDelays))
	}
	for i, want := range wantDelays {
		if gotDelays[i] != want {
			t.Errorf("retry %d delay = %v, want %v", i, gotDelays[i], want)
		}
	}

	// The fourth failure is terminal: no further retry, persistent error.
	stream.lastOpen().onStatus(StatusTimedOut, errors.New("timeout"))
	if rec.scheduled() != 3 {
		t.Fatalf("scheduled %d retries after terminal failure, want 3", rec.scheduled())
	}
	st := sub.State()
	if st.Connected {
		t.Error("expected disconnected after exhaustion")
	}
	if !errors.Is(st.Err, ErrRetriesExhausted) {
		t.Errorf("expected ErrRetriesExhausted, got %v", st.Err)
	}
	if st.RetryCount != MaxRetries {
		t.Errorf("retryCount = %d, want %d", st.RetryCount, MaxRetries)
	}
	if stream.openCount() != 4 {
		t.Errorf("open count = %d, want 4 (initial + 3 retries)", stream.openCount())
	}
}

func TestSubscription_ConnectingReportedToStateCallback(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}

	var mu sync.Mutex
	var statuses []Status
	sub := NewSubscription(stream, model.CollectionFireZones, nil, nil, func(st State) {
		mu.Lock()
		statuses = append(statuses, st.Status)
		mu.Unlock()
	}, nil)
	sub.afterFunc = rec.afterFunc
	defer sub.Close()

	sub.Start()
	stream.lastOpen().onStatus(StatusError, errors.New("channel error"))
	rec.fire(t)
	stream.lastOpen().onStatus(StatusSubscribed, nil)

	mu.Lock()
	got := append([]Status(nil), statuses...)
	mu.Unlock()

	// Every dial announces CONNECTING before its outcome arrives.
	want := []Status{StatusConnecting, StatusError, StatusConnecting, StatusSubscribed}
	if len(got) != len(want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", got, want)
		}
	}
}

func TestSubscription_AtMostOneLiveChannel(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	sub := newTestSubscription(stream, nil, rec)
	defer sub.Close()

	sub.Start()
	for i := 0; i < 3; i++ {
		stream.lastOpen().onStatus(StatusError, errors.New("churn"))
		if live := stream.liveChannels(); live > 1 {
			t.Fatalf("after failure %d: %d live channels", i, live)
		}
		rec.fire(t)
		if live := stream.liveChannels(); live > 1 {
			t.Fatalf("after retry %d: %d live channels", i, live)
		}
	}
}

func TestSubscription_ClosedStatusDoesNotRetry(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	sub := newTestSubscription(stream, nil, rec)
	defer sub.Close()

	sub.Start()
	stream.lastOpen().onStatus(StatusSubscribed, nil)
	stream.lastOpen().onStatus(StatusClosed, nil)

	if rec.scheduled() != 0 {
		t.Errorf("closed status scheduled %d retries", rec.scheduled())
	}
	if st := sub.State(); st.Connected || st.Status != StatusClosed {
		t.Errorf("state after close: %+v", st)
	}
}

func TestSubscription_CloseCancelsPendingRetry(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	sub := newTestSubscription(stream, nil, rec)

	sub.Start()
	stream.lastOpen().onStatus(StatusError, errors.New("boom"))

	sub.Close()

	// Even if the timer callback fires after teardown, no channel opens.
	rec.fire(t)
	if stream.openCount() != 1 {
		t.Errorf("open count = %d after close, want 1", stream.openCount())
	}
	if live := stream.liveChannels(); live != 0 {
		t.Errorf("%d live channels after close", live)
	}
}

func TestSubscription_StaleStatusIgnored(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	sub := newTestSubscription(stream, nil, rec)
	defer sub.Close()

	sub.Start()
	first := stream.lastOpen()
	first.onStatus(StatusError, errors.New("boom"))
	rec.fire(t)

	stream.lastOpen().onStatus(StatusSubscribed, nil)
	// A late error from the superseded channel must not disturb state.
	first.onStatus(StatusError, errors.New("stale"))

	if st := sub.State(); !st.Connected || st.Err != nil {
		t.Errorf("stale status applied: %+v", st)
	}
}

func TestSubscription_ForwardsEventsVerbatim(t *testing.T) {
	stream := &fakeStream{}
	var got []model.ChangeEvent
	var mu sync.Mutex
	sub := newTestSubscription(stream, func(ev model.ChangeEvent) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}, &retryRecorder{})
	defer sub.Close()

	sub.Start()
	call := stream.lastOpen()
	call.onStatus(StatusSubscribed, nil)

	ev := model.ChangeEvent{
		Collection: model.CollectionFireZones,
		Kind:       model.ChangeUpdate,
		New:        json.RawMessage(`{"id":"fz-1","status":"contained"}`),
	}
	call.onEvent(ev)
	// Same event twice: the subscription does not dedupe, that is the
	// live store's job.
	call.onEvent(ev)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("forwarded %d events, want 2", len(got))
	}
	if string(got[0].New) != string(ev.New) {
		t.Errorf("event altered in transit: %s", got[0].New)
	}
}

func TestSubscription_DropsEventsFromSupersededChannel(t *testing.T) {
	stream := &fakeStream{}
	rec := &retryRecorder{}
	var count int
	var mu sync.Mutex
	sub := newTestSubscription(stream, func(model.ChangeEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	}, rec)
	defer sub.Close()

	sub.Start()
	first := stream.lastOpen()
	first.onStatus(StatusError, errors.New("boom"))
	rec.fire(t)

	first.onEvent(model.ChangeEvent{Collection: model.CollectionFireZones, Kind: model.ChangeInsert, New: json.RawMessage(`{"id":"fz-9"}`)})

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("delivered %d events from a superseded channel", count)
	}
}
