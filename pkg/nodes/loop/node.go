// Package loop provides the loop node, which exposes an array from its input for iteration.
package loop

import (
	"context"
	"errors"

	"github.com/dukex/flowgraph/pkg/expression"
	"github.com/dukex/flowgraph/pkg/models"
)

// LoopNode resolves an array from its input and outputs the items with their count.
type LoopNode struct {
	id         string
	arrayField string
}

// NewLoopNode creates a new loop node.
func NewLoopNode(id string, config map[string]any) (*LoopNode, error) {
	arrayField, ok := config["arrayField"].(string)
	if !ok || arrayField == "" {
		return nil, errors.New("missing required field 'arrayField'")
	}

	return &LoopNode{
		id:         id,
		arrayField: arrayField,
	}, nil
}

// ID returns the node ID.
func (n *LoopNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *LoopNode) Type() string {
	return models.NodeTypeLoop
}

// Execute resolves arrayField against {data: input}.
func (n *LoopNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	value, _ := expression.Evaluate(n.arrayField, map[string]any{"data": input})

	items, ok := expression.AsSlice(value)
	if !ok {
		return models.Failed("%s is not an array", n.arrayField)
	}

	return models.Succeeded(map[string]any{
		"items": items,
		"count": len(items),
	})
}
