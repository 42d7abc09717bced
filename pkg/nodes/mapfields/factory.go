package mapfields

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// MapFieldsNodeFactory creates MapFieldsNode instances.
type MapFieldsNodeFactory struct{}

// Create creates a new MapFieldsNode instance.
func (f *MapFieldsNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewMapFieldsNode(id, config)
}

// ID returns the factory ID.
func (f *MapFieldsNodeFactory) ID() string {
	return models.NodeTypeMapFields
}

// Name returns the factory name.
func (f *MapFieldsNodeFactory) Name() string {
	return "Map Fields"
}

// Description returns the factory description.
func (f *MapFieldsNodeFactory) Description() string {
	return "Renames top-level fields of the input object"
}

// Schema returns the JSON schema for Map Fields node configuration.
func (f *MapFieldsNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mapping": map[string]any{
				"type":                 "object",
				"description":          "Input field name to output field name",
				"additionalProperties": map[string]any{"type": "string", "minLength": 1},
				"examples":             []any{map[string]any{"first_name": "firstName"}},
			},
		},
		"required": []string{"mapping"},
	}
}

// NewMapFieldsNodeFactory creates a new factory instance.
func NewMapFieldsNodeFactory() protocol.NodeFactory {
	return &MapFieldsNodeFactory{}
}
