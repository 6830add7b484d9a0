package realtime

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/IvubaServices/FarmSecure-sub000/internal/events"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// NATSStream implements Stream over NATS change-event subjects.
//
// Each Open dials a dedicated connection with client-side reconnection
// disabled: the Subscription owns the reconnect policy, so a dropped
// connection surfaces as a channel_error/timed_out status instead of being
// silently repaired underneath it. One connection per channel also makes
// the at-most-one-live-channel invariant a transport-level fact.
type NATSStream struct {
	url     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewNATSStream creates a stream transport that dials the given NATS URL.
func NewNATSStream(url string, logger *slog.Logger) *NATSStream {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSStream{
		url:     url,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Open dials NATS and subscribes to the collection's change subjects in the
// background. It returns immediately; connect results arrive via onStatus.
func (s *NATSStream) Open(collection model.Collection, kinds []model.ChangeKind, onEvent ChangeHandler, onStatus StatusHandler) Channel {
	ch := &natsChannel{}
	go ch.run(s, collection, kinds, onEvent, onStatus)
	return ch
}

type natsChannel struct {
	mu     sync.Mutex
	conn   *nats.Conn
	closed bool
}

// Close tears the channel down. The transport reports a closed status via
// the connection's closed handler; no error status is emitted for an
// intentional teardown.
func (c *natsChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil && !conn.IsClosed() {
		conn.Close()
	}
}

func (c *natsChannel) closedByUser() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *natsChannel) run(s *NATSStream, collection model.Collection, kinds []model.ChangeKind, onEvent ChangeHandler, onStatus StatusHandler) {
	conn, err := nats.Connect(s.url,
		nats.Timeout(s.timeout),
		nats.MaxReconnects(0),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn("realtime: nats disconnected", "collection", collection, "err", err)
			}
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			if c.closedByUser() {
				onStatus(StatusClosed, nil)
				return
			}
			// With reconnection disabled, any transport drop lands here.
			err := nc.LastError()
			onStatus(failureStatus(err), err)
		}),
	)
	if err != nil {
		onStatus(failureStatus(err), err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	topics := changeTopics(collection, kinds)
	for _, topic := range topics {
		if _, err := conn.Subscribe(topic, func(msg *nats.Msg) {
			ev, err := model.DecodeChangeEvent(msg.Data)
			if err != nil {
				s.logger.Warn("realtime: dropping malformed change event", "subject", msg.Subject, "err", err)
				return
			}
			if err := ev.Validate(); err != nil {
				s.logger.Warn("realtime: dropping invalid change event", "subject", msg.Subject, "err", err)
				return
			}
			onEvent(ev)
		}); err != nil {
			conn.Close()
			onStatus(StatusError, err)
			return
		}
	}
	if err := conn.Flush(); err != nil {
		conn.Close()
		onStatus(failureStatus(err), err)
		return
	}

	onStatus(StatusSubscribed, nil)
}

// changeTopics maps a kind filter to the NATS subjects to subscribe.
func changeTopics(collection model.Collection, kinds []model.ChangeKind) []string {
	if len(kinds) == 0 {
		return []string{events.CollectionTopic(collection)}
	}
	topics := make([]string, 0, len(kinds))
	for _, k := range kinds {
		topics = append(topics, events.ChangeTopic(collection, k))
	}
	return topics
}

// failureStatus maps a transport error to timed_out or channel_error.
func failureStatus(err error) Status {
	if err == nil {
		return StatusError
	}
	if errors.Is(err, nats.ErrTimeout) || errors.Is(err, nats.ErrStaleConnection) {
		return StatusTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimedOut
	}
	return StatusError
}
