package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"

	"github.com/IvubaServices/FarmSecure-sub000/internal/events"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

func startTestNATS(t *testing.T) (*natsserver.Server, string) {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv, srv.ClientURL()
}

// statusCollector gathers status transitions for assertions.
type statusCollector struct {
	mu       sync.Mutex
	statuses []Status
	ch       chan Status
}

func newStatusCollector() *statusCollector {
	return &statusCollector{ch: make(chan Status, 16)}
}

func (c *statusCollector) handler(st Status, err error) {
	c.mu.Lock()
	c.statuses = append(c.statuses, st)
	c.mu.Unlock()
	select {
	case c.ch <- st:
	default:
	}
}

func (c *statusCollector) wait(t *testing.T, want Status) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-c.ch:
			if st == want {
				return
			}
		case <-deadline:
			c.mu.Lock()
			got := append([]Status(nil), c.statuses...)
			c.mu.Unlock()
			t.Fatalf("timed out waiting for status %s; saw %v", want, got)
		}
	}
}

func TestNATSStream_SubscribeAndDeliver(t *testing.T) {
	_, url := startTestNATS(t)
	stream := NewNATSStream(url, nil)

	evCh := make(chan model.ChangeEvent, 1)
	col := newStatusCollector()
	ch := stream.Open(model.CollectionFireZones, nil,
		func(ev model.ChangeEvent) { evCh <- ev },
		col.handler,
	)
	defer ch.Close()

	col.wait(t, StatusSubscribed)

	pub, err := events.NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	zone := model.FireZone{ID: "fz-1", Name: "North paddock", Status: model.ZoneActive}
	ev, err := model.NewChangeEvent(model.CollectionFireZones, model.ChangeInsert, zone, nil)
	if err != nil {
		t.Fatalf("building event: %v", err)
	}
	topic := events.ChangeTopic(model.CollectionFireZones, model.ChangeInsert)
	if err := pub.Publish(context.Background(), topic, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-evCh:
		if got.Kind != model.ChangeInsert {
			t.Errorf("kind = %s", got.Kind)
		}
		var decoded model.FireZone
		if err := json.Unmarshal(got.New, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.ID != "fz-1" {
			t.Errorf("id = %q", decoded.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNATSStream_KindFilter(t *testing.T) {
	_, url := startTestNATS(t)
	stream := NewNATSStream(url, nil)

	evCh := make(chan model.ChangeEvent, 4)
	col := newStatusCollector()
	ch := stream.Open(model.CollectionTeamMembers, []model.ChangeKind{model.ChangeUpdate},
		func(ev model.ChangeEvent) { evCh <- ev },
		col.handler,
	)
	defer ch.Close()

	col.wait(t, StatusSubscribed)

	pub, err := events.NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	member := model.TeamMember{ID: "tm-1", Name: "A. Dube", Status: model.MemberAvailable}
	insert, _ := model.NewChangeEvent(model.CollectionTeamMembers, model.ChangeInsert, member, nil)
	update, _ := model.NewChangeEvent(model.CollectionTeamMembers, model.ChangeUpdate, member, nil)

	ctx := context.Background()
	pub.Publish(ctx, events.ChangeTopic(model.CollectionTeamMembers, model.ChangeInsert), insert)
	pub.Publish(ctx, events.ChangeTopic(model.CollectionTeamMembers, model.ChangeUpdate), update)

	select {
	case got := <-evCh:
		if got.Kind != model.ChangeUpdate {
			t.Errorf("kind = %s, want update (insert should be filtered)", got.Kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update event")
	}
	select {
	case got := <-evCh:
		t.Fatalf("unexpected extra event: %s", got.Kind)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNATSStream_CloseReportsClosed(t *testing.T) {
	_, url := startTestNATS(t)
	stream := NewNATSStream(url, nil)

	col := newStatusCollector()
	ch := stream.Open(model.CollectionFireZones, nil, nil, col.handler)
	col.wait(t, StatusSubscribed)

	ch.Close()
	col.wait(t, StatusClosed)
}

func TestNATSStream_ServerLossReportsFailure(t *testing.T) {
	srv, url := startTestNATS(t)
	stream := NewNATSStream(url, nil)

	col := newStatusCollector()
	ch := stream.Open(model.CollectionFireZones, nil, nil, col.handler)
	defer ch.Close()
	col.wait(t, StatusSubscribed)

	srv.Shutdown()

	// With reconnection disabled the drop surfaces as a failure status.
	deadline := time.After(10 * time.Second)
	for {
		select {
		case st := <-col.ch:
			if st == StatusError || st == StatusTimedOut {
				return
			}
		case <-deadline:
			t.Fatal("no failure status after server shutdown")
		}
	}
}

func TestNATSStream_UnreachableServerReportsFailureAsync(t *testing.T) {
	stream := NewNATSStream("nats://127.0.0.1:1", nil)
	stream.timeout = 500 * time.Millisecond

	col := newStatusCollector()
	ch := stream.Open(model.CollectionFireZones, nil, nil, col.handler)
	defer ch.Close()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-col.ch:
			if st == StatusError || st == StatusTimedOut {
				return
			}
		case <-deadline:
			t.Fatal("no failure status for unreachable server")
		}
	}
}
