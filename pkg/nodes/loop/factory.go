package loop

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// LoopNodeFactory creates LoopNode instances.
type LoopNodeFactory struct{}

// Create creates a new LoopNode instance.
func (f *LoopNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewLoopNode(id, config)
}

// ID returns the factory ID.
func (f *LoopNodeFactory) ID() string {
	return models.NodeTypeLoop
}

// Name returns the factory name.
func (f *LoopNodeFactory) Name() string {
	return "Loop"
}

// Description returns the factory description.
func (f *LoopNodeFactory) Description() string {
	return "Resolves an array from the input and outputs its items and count"
}

// Schema returns the JSON schema for Loop node configuration.
func (f *LoopNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"arrayField": map[string]any{
				"type":        "string",
				"description": "Dotted path to the array, rooted at 'data'",
				"examples":    []string{"data.items"},
			},
		},
		"required": []string{"arrayField"},
	}
}

// NewLoopNodeFactory creates a new factory instance.
func NewLoopNodeFactory() protocol.NodeFactory {
	return &LoopNodeFactory{}
}
