// Package switchnode provides switch node factory for registry integration.
package switchnode

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// SwitchNodeFactory creates SwitchNode instances.
type SwitchNodeFactory struct{}

// Create creates a new SwitchNode instance.
func (f *SwitchNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewSwitchNode(id, config)
}

// ID returns the factory ID.
func (f *SwitchNodeFactory) ID() string {
	return models.NodeTypeSwitch
}

// Name returns the factory name.
func (f *SwitchNodeFactory) Name() string {
	return "Switch"
}

// Description returns the factory description.
func (f *SwitchNodeFactory) Description() string {
	return "Routes execution to one of several ports based on a value. Ports are named after the case index, with 'default' for no match."
}

// Schema returns the JSON schema for Switch node configuration.
func (f *SwitchNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Dotted path resolved against the node input, which is under 'data'",
				"examples":    []string{"data.status", "data.order.priority"},
			},
			"cases": map[string]any{
				"type":        "array",
				"description": "Values compared in order; the first match selects the port named after its index",
				"items": map[string]any{
					"anyOf": []any{
						map[string]any{"type": []any{"string", "number", "boolean", "null"}},
						map[string]any{
							"type":     "object",
							"required": []any{"value"},
						},
					},
				},
			},
		},
		"required": []string{"field"},
	}
}

// NewSwitchNodeFactory creates a new factory instance.
func NewSwitchNodeFactory() protocol.NodeFactory {
	return &SwitchNodeFactory{}
}
