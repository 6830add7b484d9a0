package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/events"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

const (
	// sseRingBufferSize is the number of recent change events kept in memory
	// for Last-Event-ID reconnection support.
	sseRingBufferSize = 1000

	// sseKeepaliveInterval is how often keepalive comments are sent to
	// prevent connection timeouts.
	sseKeepaliveInterval = 15 * time.Second
)

// sseEvent is one change event as seen by SSE consumers: a monotonically
// increasing sequence number plus the typed coordinates of the change.
type sseEvent struct {
	Seq        uint64
	Collection model.Collection
	Kind       model.ChangeKind
	RecordID   string // empty when the payload carries no record id
	Data       []byte // JSON-encoded ChangeEvent
}

// topic returns the NATS subject this event was published on, so SSE
// filters and NATS subscriptions share one syntax.
func (e *sseEvent) topic() string {
	return events.ChangeTopic(e.Collection, e.Kind)
}

// sseHub fans out change events from publishChange to connected SSE clients.
// It maintains an in-memory ring buffer for Last-Event-ID reconnection, so a
// dashboard that drops its stream briefly can catch up without a full refresh.
type sseHub struct {
	mu      sync.RWMutex
	clients map[*sseClient]struct{}
	nextSeq atomic.Uint64

	// Ring buffer for replay on reconnection.
	ringMu  sync.RWMutex
	ring    [sseRingBufferSize]sseEvent
	ringPos int // next write position (wraps around)
	ringLen int // number of valid entries (up to sseRingBufferSize)
}

// sseClient represents a single connected SSE consumer.
type sseClient struct {
	topics []string       // subject patterns to match (empty = all)
	ch     chan *sseEvent // buffered channel for event delivery
}

func newSSEHub() *sseHub {
	return &sseHub{
		clients: make(map[*sseClient]struct{}),
	}
}

// broadcast delivers a change event to every connected client whose topic
// filters match, and records it in the ring buffer for replay.
func (h *sseHub) broadcast(ev model.ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("failed to marshal change event for SSE broadcast",
			"collection", ev.Collection, "kind", ev.Kind, "error", err)
		return
	}
	recordID, _ := ev.RecordID()

	evt := &sseEvent{
		Seq:        h.nextSeq.Add(1),
		Collection: ev.Collection,
		Kind:       ev.Kind,
		RecordID:   recordID,
		Data:       payload,
	}

	h.ringMu.Lock()
	h.ring[h.ringPos] = *evt
	h.ringPos = (h.ringPos + 1) % sseRingBufferSize
	if h.ringLen < sseRingBufferSize {
		h.ringLen++
	}
	h.ringMu.Unlock()

	topic := evt.topic()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.matchesTopic(topic) {
			select {
			case c.ch <- evt:
			default:
				// Drop rather than block the publisher on a slow client.
			}
		}
	}
}

// subscribe registers a new SSE client and returns it. Call unsubscribe when done.
func (h *sseHub) subscribe(topics []string) *sseClient {
	c := &sseClient{
		topics: topics,
		ch:     make(chan *sseEvent, 64),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// unsubscribe removes a client from the hub.
func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// eventsSince returns buffered events with sequence > lastSeq, in order.
func (h *sseHub) eventsSince(lastSeq uint64) []*sseEvent {
	h.ringMu.RLock()
	defer h.ringMu.RUnlock()

	if h.ringLen == 0 {
		return nil
	}

	var result []*sseEvent

	// Walk the ring buffer from oldest to newest.
	start := h.ringPos - h.ringLen
	if start < 0 {
		start += sseRingBufferSize
	}
	for i := range h.ringLen {
		idx := (start + i) % sseRingBufferSize
		evt := &h.ring[idx]
		if evt.Seq > lastSeq {
			result = append(result, evt)
		}
	}

	return result
}

// matchesTopic checks whether the client's topic filters match the given
// subject. An empty filter list matches all subjects.
func (c *sseClient) matchesTopic(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, pattern := range c.topics {
		if matchTopicPattern(pattern, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated subject against a pattern.
// Supports "*" as a single-segment wildcard and ">" as a multi-segment
// suffix wildcard (NATS-style), so SSE filters and NATS subscriptions
// take the same syntax.
func matchTopicPattern(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patParts := strings.Split(pattern, ".")
	topParts := strings.Split(topic, ".")

	for i, pp := range patParts {
		if pp == ">" {
			// ">" matches one or more remaining segments.
			return i < len(topParts)
		}
		if i >= len(topParts) {
			return false
		}
		if pp != "*" && pp != topParts[i] {
			return false
		}
	}

	return len(patParts) == len(topParts)
}

// handleEventStream handles GET /v1/events/stream (SSE endpoint).
func (s *FarmServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Two filter forms: raw subject patterns (?topics=farms.fire_zones.>)
	// and the collection shorthand (?collections=fire_zones,team_members).
	var topics []string
	if q := r.URL.Query().Get("topics"); q != "" {
		for _, t := range strings.Split(q, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				topics = append(topics, t)
			}
		}
	}
	if q := r.URL.Query().Get("collections"); q != "" {
		for _, c := range strings.Split(q, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				topics = append(topics, events.CollectionTopic(model.Collection(c)))
			}
		}
	}

	client := s.sseHub.subscribe(topics)
	defer s.sseHub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// If the client sent Last-Event-ID, replay buffered events.
	if lastIDStr := r.Header.Get("Last-Event-ID"); lastIDStr != "" {
		if lastSeq, ok := parseSSEEventID(lastIDStr); ok {
			for _, evt := range s.sseHub.eventsSince(lastSeq) {
				if client.matchesTopic(evt.topic()) {
					writeSSEEvent(w, evt)
				}
			}
			flusher.Flush()
		}
	}

	ctx := r.Context()
	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a single SSE event. The event name is the bare
// "<collection>.<kind>" pair so an EventSource can listen per change type,
// and the id carries the record id after the sequence number, e.g.
// "42.fz-abc", so clients can tell which record a replayed id refers to.
func writeSSEEvent(w http.ResponseWriter, evt *sseEvent) {
	if evt.RecordID != "" {
		fmt.Fprintf(w, "id:%d.%s\n", evt.Seq, evt.RecordID)
	} else {
		fmt.Fprintf(w, "id:%d\n", evt.Seq)
	}
	fmt.Fprintf(w, "event:%s.%s\n", evt.Collection, evt.Kind)
	fmt.Fprintf(w, "data:%s\n\n", evt.Data)
}

// parseSSEEventID extracts the sequence number from a Last-Event-ID value,
// tolerating the ".record-id" suffix writeSSEEvent appends.
func parseSSEEventID(id string) (uint64, bool) {
	seqPart, _, _ := strings.Cut(id, ".")
	seq, err := strconv.ParseUint(seqPart, 10, 64)
	return seq, err == nil
}
