// Package conditional provides conditional branching node factory for registry integration.
package conditional

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// IfElseNodeFactory creates IfElseNode instances.
type IfElseNodeFactory struct{}

// Create creates a new IfElseNode instance.
func (f *IfElseNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewIfElseNode(id, config)
}

// ID returns the factory ID.
func (f *IfElseNodeFactory) ID() string {
	return models.NodeTypeIfElse
}

// Name returns the factory name.
func (f *IfElseNodeFactory) Name() string {
	return "If / Else"
}

// Description returns the factory description.
func (f *IfElseNodeFactory) Description() string {
	return "Evaluates a condition and routes execution to the true or false port. Essential for workflow branching logic."
}

// Schema returns the JSON schema for If/Else node configuration.
func (f *IfElseNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type":        "string",
				"description": "A dotted path compared with one literal, or a bare path checked for truthiness. The node input is under 'data', run variables under 'variables'.",
				"examples": []string{
					`data.status === "active"`,
					`data.total >= 100`,
					`variables.retries < 3`,
					`data.verified`,
				},
			},
		},
		"required": []string{"condition"},
	}
}

// NewIfElseNodeFactory creates a new factory instance.
func NewIfElseNodeFactory() protocol.NodeFactory {
	return &IfElseNodeFactory{}
}
