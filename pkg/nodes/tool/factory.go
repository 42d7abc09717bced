package tool

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// ToolActionNodeFactory creates ToolActionNode instances bound to a ToolInvoker.
type ToolActionNodeFactory struct {
	tools protocol.ToolInvoker
}

// Create creates a new ToolActionNode instance.
func (f *ToolActionNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewToolActionNode(id, config, f.tools)
}

// ID returns the factory ID.
func (f *ToolActionNodeFactory) ID() string {
	return models.NodeTypeToolAction
}

// Name returns the factory name.
func (f *ToolActionNodeFactory) Name() string {
	return "Tool Action"
}

// Description returns the factory description.
func (f *ToolActionNodeFactory) Description() string {
	return "Invokes an external tool by name and outputs its parsed JSON response"
}

// Schema returns the JSON schema for Tool Action node configuration.
func (f *ToolActionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"toolName": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Name of the tool to invoke",
				"examples":    []string{"web_search", "send_email"},
			},
			"input": map[string]any{
				"description": "Payload sent to the tool; the node input is sent when omitted",
			},
		},
		"required": []string{"toolName"},
	}
}

// NewToolActionNodeFactory creates a new factory instance.
func NewToolActionNodeFactory(tools protocol.ToolInvoker) protocol.NodeFactory {
	return &ToolActionNodeFactory{tools: tools}
}
