// Package eventbus carries run and node status events between the runner and its observers.
package eventbus

import (
	"context"

	"github.com/dukex/flowgraph/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

// EventPublisher publishes one event; key groups events of the same run.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	// Handle routes events of one type to handler
	Handle(eventType events.EventType, handler EventHandler) error

	// HandleAll receives every event that has no type-specific handler
	HandleAll(handler EventHandler) error

	// Subscribe starts delivery until ctx is done
	Subscribe(ctx context.Context) error
}

// EventHandler receives the decoded event as a pointer to its concrete type.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
