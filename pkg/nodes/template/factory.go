package templatenode

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// TemplateNodeFactory creates TemplateNode instances.
type TemplateNodeFactory struct{}

// Create creates a new TemplateNode instance.
func (f *TemplateNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewTemplateNode(id, config)
}

// ID returns the factory ID.
func (f *TemplateNodeFactory) ID() string {
	return models.NodeTypeTemplate
}

// Name returns the factory name.
func (f *TemplateNodeFactory) Name() string {
	return "Template"
}

// Description returns the factory description.
func (f *TemplateNodeFactory) Description() string {
	return "Builds a string by replacing {{field}} tokens with top-level input fields"
}

// Schema returns the JSON schema for Template node configuration.
func (f *TemplateNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{
				"type":        "string",
				"description": "Text with {{field}} tokens",
				"examples":    []string{"Hello {{name}}, you have {{count}} items"},
			},
		},
		"required": []string{"template"},
	}
}

// NewTemplateNodeFactory creates a new factory instance.
func NewTemplateNodeFactory() protocol.NodeFactory {
	return &TemplateNodeFactory{}
}
