package realtime

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Registry owns one Subscription per watched collection and folds their
// individual connectivity into a single AND-aggregate signal.
type Registry struct {
	stream Stream
	logger *slog.Logger

	// onChange (optional) fires after any subscription's state changes.
	onChange func()
	// onDegraded (optional) fires once per collection when its retries
	// are exhausted, with the final error.
	onDegraded func(model.Collection, error)

	mu     sync.Mutex
	subs   map[model.Collection]*Subscription
	warned map[model.Collection]bool
	closed bool
}

// NewRegistry creates an empty registry over the given transport.
func NewRegistry(stream Stream, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		stream: stream,
		logger: logger,
		subs:   make(map[model.Collection]*Subscription),
		warned: make(map[model.Collection]bool),
	}
}

// OnChange registers a callback invoked after every subscription state
// transition. Set it before calling Watch.
func (r *Registry) OnChange(fn func()) {
	r.onChange = fn
}

// OnDegraded registers a callback invoked exactly once per collection when
// that collection's subscription exhausts its retries. Set it before Watch.
func (r *Registry) OnDegraded(fn func(model.Collection, error)) {
	r.onDegraded = fn
}

// Watch starts a subscription for the collection, delivering its events to
// onEvent. Watching a collection that is already watched replaces the old
// subscription, resetting its retry counter.
func (r *Registry) Watch(collection model.Collection, onEvent ChangeHandler) {
	sub := NewSubscription(r.stream, collection, nil, onEvent, func(st State) {
		r.handleState(collection, st)
	}, r.logger)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	prev := r.subs[collection]
	r.subs[collection] = sub
	r.warned[collection] = false
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	sub.Start()
}

// Connected reports whether every watched collection currently has a live
// channel. It is false until at least one collection is watched.
func (r *Registry) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.subs) == 0 {
		return false
	}
	for _, sub := range r.subs {
		if !sub.State().Connected {
			return false
		}
	}
	return true
}

// Status returns the connection state for one collection, and whether that
// collection is being watched at all.
func (r *Registry) Status(collection model.Collection) (State, bool) {
	r.mu.Lock()
	sub, ok := r.subs[collection]
	r.mu.Unlock()
	if !ok {
		return State{}, false
	}
	return sub.State(), true
}

// Close tears down every subscription.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	subs := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.subs = make(map[model.Collection]*Subscription)
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (r *Registry) handleState(collection model.Collection, st State) {
	if !st.Connected && errors.Is(st.Err, ErrRetriesExhausted) {
		r.mu.Lock()
		first := !r.warned[collection]
		r.warned[collection] = true
		r.mu.Unlock()

		if first {
			r.logger.Warn("realtime degraded: live updates stopped for collection",
				"collection", collection, "err", st.Err)
			if r.onDegraded != nil {
				r.onDegraded(collection, st.Err)
			}
		}
	}

	if r.onChange != nil {
		r.onChange()
	}
}
