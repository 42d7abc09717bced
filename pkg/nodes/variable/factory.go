package variable

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// SetVariableNodeFactory creates SetVariableNode instances.
type SetVariableNodeFactory struct{}

// Create creates a new SetVariableNode instance.
func (f *SetVariableNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewSetVariableNode(id, config)
}

// ID returns the factory ID.
func (f *SetVariableNodeFactory) ID() string {
	return models.NodeTypeSetVariable
}

// Name returns the factory name.
func (f *SetVariableNodeFactory) Name() string {
	return "Set Variable"
}

// Description returns the factory description.
func (f *SetVariableNodeFactory) Description() string {
	return "Stores a value from the input in the run variables, readable by later nodes"
}

// Schema returns the JSON schema for Set Variable node configuration.
func (f *SetVariableNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Variable name",
			},
			"value": map[string]any{
				"description": "Dotted path rooted at 'data' when a string, otherwise a literal value",
				"examples":    []any{"data.user.id", 10},
			},
		},
		"required": []string{"name", "value"},
	}
}

// NewSetVariableNodeFactory creates a new factory instance.
func NewSetVariableNodeFactory() protocol.NodeFactory {
	return &SetVariableNodeFactory{}
}
