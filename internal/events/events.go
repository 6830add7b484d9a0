package events

import (
	"context"
	"fmt"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Change-stream subjects follow "farms.<collection>.<kind>", e.g.
// "farms.fire_zones.update". Wildcards work the NATS way:
// "farms.fire_zones.>" is one collection's stream, "farms.>" is everything.
const (
	TopicPrefix = "farms"

	// TopicAll matches every change event.
	TopicAll = "farms.>"
)

// ChangeTopic returns the subject a specific change event is published on.
func ChangeTopic(collection model.Collection, kind model.ChangeKind) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, collection, kind)
}

// CollectionTopic returns the wildcard subject covering all change kinds
// for one collection.
func CollectionTopic(collection model.Collection) string {
	return fmt.Sprintf("%s.%s.>", TopicPrefix, collection)
}

// Publisher is the interface for emitting change events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// ChangeSubscriber delivers decoded change events instead of raw payloads.
// Payloads that fail to decode as a ChangeEvent are dropped, so consumers
// like the alert handler only ever see well-formed events.
type ChangeSubscriber interface {
	SubscribeChanges(topic string) (<-chan model.ChangeEvent, func(), error)
	Close() error
}
