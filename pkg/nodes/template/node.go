// Package templatenode provides the template node, which interpolates input fields into text.
package templatenode

import (
	"context"
	"errors"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/template"
)

// TemplateNode renders its template against the input and outputs the resulting string.
type TemplateNode struct {
	id       string
	template string
}

// NewTemplateNode creates a new template node.
func NewTemplateNode(id string, config map[string]any) (*TemplateNode, error) {
	text, ok := config["template"].(string)
	if !ok {
		return nil, errors.New("missing required field 'template'")
	}

	return &TemplateNode{
		id:       id,
		template: text,
	}, nil
}

// ID returns the node ID.
func (n *TemplateNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TemplateNode) Type() string {
	return models.NodeTypeTemplate
}

// Execute outputs the rendered string.
func (n *TemplateNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	return models.Succeeded(template.Render(n.template, input))
}
