package events

import "context"

// NoopPublisher discards every event. The server falls back to it when
// FARMS_NATS_URL is unset, so mutations still succeed without a broker;
// dashboards then rely on manual refresh instead of live updates.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
