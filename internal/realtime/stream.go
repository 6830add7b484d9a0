// Package realtime maintains live change-stream subscriptions for the
// dashboard: one self-healing subscription per watched collection, with
// exponential-backoff reconnects and an aggregate connectivity signal.
package realtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Status is the transport-level state of one subscription channel.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusSubscribed Status = "subscribed"
	StatusTimedOut   Status = "timed_out"
	StatusError      Status = "channel_error"
	StatusClosed     Status = "closed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ChangeHandler receives change events delivered on a channel.
type ChangeHandler func(model.ChangeEvent)

// StatusHandler receives channel status transitions. The error is non-nil
// only for failure statuses, and carries the transport-level cause.
type StatusHandler func(Status, error)

// Channel is one live transport-level subscription. Close is idempotent.
type Channel interface {
	Close()
}

// Stream opens transport channels onto a collection's change feed.
//
// Open must not block and must never report failures synchronously: every
// outcome, including a failed connect, arrives through onStatus. kinds
// restricts delivery to the given change kinds; empty means all.
type Stream interface {
	Open(collection model.Collection, kinds []model.ChangeKind, onEvent ChangeHandler, onStatus StatusHandler) Channel
}

// Retry policy: delays grow as min(initialRetryDelay * 2^n, maxRetryDelay),
// i.e. 5s, 10s, 20s, capped at 30s.
const (
	// MaxRetries is the number of automatic reconnect attempts per
	// subscription before it is declared degraded.
	MaxRetries = 3

	initialRetryDelay = 5 * time.Second
	maxRetryDelay     = 30 * time.Second
)

// RetryDelay returns the backoff delay before reconnect attempt n (0-based).
func RetryDelay(n int) time.Duration {
	d := initialRetryDelay << n
	if d > maxRetryDelay || d <= 0 {
		return maxRetryDelay
	}
	return d
}

// ErrRetriesExhausted marks a subscription that gave up reconnecting for
// the rest of the session. Only re-initializing the registry restarts the
// attempt counter.
var ErrRetriesExhausted = errors.New("realtime: reconnect attempts exhausted")

// StreamError is a typed transport failure on one collection's channel.
type StreamError struct {
	Collection model.Collection
	Status     Status
	Err        error
}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("realtime %s: %s: %v", e.Collection, e.Status, e.Err)
	}
	return fmt.Sprintf("realtime %s: %s", e.Collection, e.Status)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
