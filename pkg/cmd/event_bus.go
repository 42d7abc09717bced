package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/flowgraph/pkg/channels/gochannel"
	"github.com/dukex/flowgraph/pkg/channels/kafka"
	"github.com/dukex/flowgraph/pkg/eventbus"
)

// Event bus providers.
const (
	EventBusNone      = "none"
	EventBusGoChannel = "gochannel"
	EventBusKafka     = "kafka"
)

// NewEventBus creates the event bus for provider. The none provider returns nil, nil.
//
//nolint:ireturn
func NewEventBus(provider string, brokers []string, logger *slog.Logger) (eventbus.EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "", EventBusNone:
		return nil, nil //nolint:nilnil
	case EventBusGoChannel:
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, eventbus.WithLogger(logger)), nil
	case EventBusKafka:
		pub, sub, err := kafka.CreateChannel(wmLogger, brokers, "flowgraph")
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub, eventbus.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
