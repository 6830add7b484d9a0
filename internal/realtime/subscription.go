package realtime

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// State is a snapshot of one subscription's connection state, handed to
// the state callback on every transition.
type State struct {
	Status     Status
	Connected  bool
	Err        error
	RetryCount int
}

// Subscription keeps one collection's change feed alive. It owns at most
// one live transport channel at a time; failed channels are retried with
// exponential backoff up to MaxRetries, after which the subscription stays
// disconnected for the rest of the session.
//
// Failures never surface as return values. They are delivered to the state
// callback, so callers need no error handling around setup itself.
type Subscription struct {
	stream  Stream
	coll    model.Collection
	kinds   []model.ChangeKind
	onEvent ChangeHandler
	onState func(State)
	logger  *slog.Logger

	mu         sync.Mutex
	ch         Channel
	gen        uint64 // bumped on every attempt; stale callbacks are dropped
	status     Status
	lastErr    error
	retryCount int
	retryTimer *time.Timer
	closed     bool

	// afterFunc schedules retries; replaced in tests.
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewSubscription creates a subscription for one collection. onEvent
// receives every delivered change event verbatim; dedupe and ordering
// concerns belong to the consumer. onState (optional) is invoked after
// every status transition. Call Start to open the first channel.
func NewSubscription(stream Stream, collection model.Collection, kinds []model.ChangeKind, onEvent ChangeHandler, onState func(State), logger *slog.Logger) *Subscription {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscription{
		stream:    stream,
		coll:      collection,
		kinds:     kinds,
		onEvent:   onEvent,
		onState:   onState,
		logger:    logger,
		status:    StatusConnecting,
		afterFunc: time.AfterFunc,
	}
}

// Collection returns the collection this subscription watches.
func (s *Subscription) Collection() model.Collection {
	return s.coll
}

// Start opens the first channel. It does not block.
func (s *Subscription) Start() {
	s.attempt()
}

// State returns a snapshot of the current connection state.
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Close tears the subscription down: any pending retry is cancelled and
// the current channel, if any, is closed. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	s.stopRetryLocked()
	ch := s.ch
	s.ch = nil
	s.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
}

// attempt supersedes any previous channel and opens a new one. The old
// channel is closed first so at most one live channel exists per collection.
func (s *Subscription) attempt() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopRetryLocked()
	prev := s.ch
	s.ch = nil
	s.gen++
	gen := s.gen
	s.status = StatusConnecting
	state := s.stateLocked()
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
	}

	// Surface the connecting transition before the transport opens, so
	// observers see every dial and redial, not just their outcomes.
	if s.onState != nil {
		s.onState(state)
	}

	// Open outside the lock: transports may invoke callbacks synchronously.
	ch := s.stream.Open(s.coll, s.kinds,
		func(ev model.ChangeEvent) { s.deliver(gen, ev) },
		func(st Status, err error) { s.handleStatus(gen, st, err) },
	)

	s.mu.Lock()
	if s.closed || s.gen != gen {
		// Superseded or torn down while opening.
		s.mu.Unlock()
		ch.Close()
		return
	}
	s.ch = ch
	s.mu.Unlock()
}

// deliver forwards an event unless it arrived on a superseded channel.
func (s *Subscription) deliver(gen uint64, ev model.ChangeEvent) {
	s.mu.Lock()
	live := !s.closed && s.gen == gen
	s.mu.Unlock()
	if live && s.onEvent != nil {
		s.onEvent(ev)
	}
}

func (s *Subscription) handleStatus(gen uint64, st Status, cause error) {
	s.mu.Lock()
	if s.closed || s.gen != gen {
		s.mu.Unlock()
		return
	}

	switch st {
	case StatusSubscribed:
		s.status = StatusSubscribed
		s.lastErr = nil
		s.retryCount = 0

	case StatusTimedOut, StatusError:
		s.status = st
		serr := &StreamError{Collection: s.coll, Status: st, Err: cause}
		if s.retryCount < MaxRetries {
			delay := RetryDelay(s.retryCount)
			s.retryCount++
			s.lastErr = serr
			s.retryTimer = s.afterFunc(delay, s.attempt)
			s.logger.Warn("realtime: channel failed, retry scheduled",
				"collection", s.coll, "status", st, "attempt", s.retryCount, "delay", delay, "err", cause)
		} else {
			s.lastErr = fmt.Errorf("%w: %v", ErrRetriesExhausted, serr)
			s.logger.Error("realtime: subscription degraded",
				"collection", s.coll, "status", st, "retries", s.retryCount, "err", cause)
		}

	case StatusClosed:
		// Either intentional teardown of the transport side or a terminal
		// state already reported above. No implicit retry.
		s.status = StatusClosed

	default:
		s.status = st
	}

	state := s.stateLocked()
	s.mu.Unlock()

	if s.onState != nil {
		s.onState(state)
	}
}

func (s *Subscription) stateLocked() State {
	return State{
		Status:     s.status,
		Connected:  s.status == StatusSubscribed,
		Err:        s.lastErr,
		RetryCount: s.retryCount,
	}
}

func (s *Subscription) stopRetryLocked() {
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
}
