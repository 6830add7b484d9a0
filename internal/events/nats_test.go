package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
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
	return srv.ClientURL()
}

func TestNATSPubSub_ChangeEventRoundTrip(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(CollectionTopic(model.CollectionFireZones))
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	zone := model.FireZone{ID: "fz-1", Name: "North paddock", Status: model.ZoneActive}
	ev, err := model.NewChangeEvent(model.CollectionFireZones, model.ChangeInsert, zone, nil)
	if err != nil {
		t.Fatalf("building event: %v", err)
	}
	topic := ChangeTopic(model.CollectionFireZones, model.ChangeInsert)
	if err := pub.Publish(context.Background(), topic, ev); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	pub.conn.Flush()

	select {
	case payload := <-ch:
		decoded, err := model.DecodeChangeEvent(payload)
		if err != nil {
			t.Fatalf("decoding: %v", err)
		}
		var got model.FireZone
		if err := json.Unmarshal(decoded.New, &got); err != nil {
			t.Fatalf("unmarshal record: %v", err)
		}
		if got.ID != "fz-1" {
			t.Errorf("got id %q, want fz-1", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNATSSubscriber_CollectionIsolation(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(CollectionTopic(model.CollectionTeamMembers))
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	// Publish to a different collection's subject; nothing should arrive.
	if err := pub.conn.Publish(ChangeTopic(model.CollectionFireZones, model.ChangeInsert), []byte(`{}`)); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	pub.conn.Flush()

	select {
	case payload := <-ch:
		t.Fatalf("unexpected delivery: %s", payload)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNATSSubscriber_SubscribeChanges(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.SubscribeChanges(TopicAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	// A payload that is not a change event must be swallowed by the decode
	// layer, not delivered.
	topic := ChangeTopic(model.CollectionFireZones, model.ChangeInsert)
	if err := pub.conn.Publish(topic, []byte(`not json`)); err != nil {
		t.Fatalf("publishing garbage: %v", err)
	}

	zone := model.FireZone{ID: "fz-1", Name: "North paddock", Status: model.ZoneActive}
	ev, err := model.NewChangeEvent(model.CollectionFireZones, model.ChangeInsert, zone, nil)
	if err != nil {
		t.Fatalf("building event: %v", err)
	}
	if err := pub.Publish(context.Background(), topic, ev); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	pub.conn.Flush()

	select {
	case got := <-ch:
		if got.Collection != model.CollectionFireZones || got.Kind != model.ChangeInsert {
			t.Errorf("got %s/%s event", got.Collection, got.Kind)
		}
		id, err := got.RecordID()
		if err != nil || id != "fz-1" {
			t.Errorf("record id = %q (err %v), want fz-1", id, err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for decoded event")
	}

	if len(ch) != 0 {
		t.Errorf("garbage payload was delivered")
	}
}

func TestNATSSubscriber_Cancel(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(TopicAll)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}
