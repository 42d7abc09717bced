package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dukex/flowgraph/pkg/events"
)

// Option configures a WatermillEventBus.
type Option func(*WatermillEventBus)

// WithTopic overrides the topic events are published to and consumed from.
func WithTopic(topic string) Option {
	return func(eb *WatermillEventBus) {
		eb.topic = topic
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(eb *WatermillEventBus) {
		eb.logger = logger
	}
}

// WatermillEventBus publishes events as JSON messages on one Watermill topic. The event type and
// run key travel in message metadata.
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	topic      string
	logger     *slog.Logger

	mu            sync.RWMutex
	subscriptions map[events.EventType]EventHandler
	fallback      EventHandler
}

//nolint:ireturn
func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber, opts ...Option) EventBus {
	eb := &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		topic:         events.Topic,
		logger:        slog.Default(),
		subscriptions: make(map[events.EventType]EventHandler),
	}

	for _, opt := range opts {
		opt(eb)
	}

	eb.logger = eb.logger.With("module", "eventbus", "topic", eb.topic)

	return eb
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(eb.GenerateID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(eb.topic, msg)
}

// Subscribe starts delivering messages to the registered handlers until ctx is done.
// Messages nobody handles are acked; undecodable messages and handler errors are nacked.
func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, eb.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eb.deliver(ctx, msg)
		}
	}()

	return nil
}

func (eb *WatermillEventBus) deliver(ctx context.Context, msg *message.Message) {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	eb.mu.RLock()
	handler, exists := eb.subscriptions[eventType]
	if !exists {
		handler = eb.fallback
	}
	eb.mu.RUnlock()

	if handler == nil {
		msg.Ack()

		return
	}

	event, ok := events.Decode(eventType)
	if !ok {
		eb.logger.Warn("Dropping event of unknown type", "event_type", eventType, "message_id", msg.UUID)
		msg.Nack()

		return
	}

	if err := json.Unmarshal(msg.Payload, event); err != nil {
		eb.logger.Warn("Dropping undecodable event", "event_type", eventType, "message_id", msg.UUID, "error", err)
		msg.Nack()

		return
	}

	if err := handler(ctx, event); err != nil {
		eb.logger.Warn("Event handler failed", "event_type", eventType, "message_id", msg.UUID, "error", err)
		msg.Nack()

		return
	}

	msg.Ack()
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscriptions[eventType] = handler

	return nil
}

func (eb *WatermillEventBus) HandleAll(handler EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.fallback = handler

	return nil
}

func (eb *WatermillEventBus) Close() error {
	err := eb.publisher.Close()
	if err != nil {
		return err
	}

	return eb.subscriber.Close()
}
