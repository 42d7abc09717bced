package delay

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// DelayNodeFactory creates DelayNode instances.
type DelayNodeFactory struct{}

// Create creates a new DelayNode instance.
func (f *DelayNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewDelayNode(id, config)
}

// ID returns the factory ID.
func (f *DelayNodeFactory) ID() string {
	return models.NodeTypeDelay
}

// Name returns the factory name.
func (f *DelayNodeFactory) Name() string {
	return "Delay"
}

// Description returns the factory description.
func (f *DelayNodeFactory) Description() string {
	return "Waits for a number of seconds, then passes its input through"
}

// Schema returns the JSON schema for Delay node configuration.
func (f *DelayNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration": map[string]any{
				"type":        "number",
				"minimum":     0,
				"description": "Seconds to wait",
			},
		},
		"required": []string{"duration"},
	}
}

// NewDelayNodeFactory creates a new factory instance.
func NewDelayNodeFactory() protocol.NodeFactory {
	return &DelayNodeFactory{}
}
