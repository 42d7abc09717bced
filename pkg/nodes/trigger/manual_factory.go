package trigger

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// ManualTriggerNodeFactory creates manual trigger nodes.
type ManualTriggerNodeFactory struct{}

// Create creates a new manual trigger instance.
func (f *ManualTriggerNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewTriggerNode(id, models.NodeTypeManualTrigger), nil
}

// ID returns the factory ID.
func (f *ManualTriggerNodeFactory) ID() string {
	return models.NodeTypeManualTrigger
}

// Name returns the factory name.
func (f *ManualTriggerNodeFactory) Name() string {
	return "Manual Trigger"
}

// Description returns the factory description.
func (f *ManualTriggerNodeFactory) Description() string {
	return "Starts the workflow on demand and forwards the supplied payload."
}

// Schema returns the JSON schema for the manual trigger configuration.
func (f *ManualTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// NewManualTriggerNodeFactory creates a new factory instance.
func NewManualTriggerNodeFactory() protocol.NodeFactory {
	return &ManualTriggerNodeFactory{}
}
