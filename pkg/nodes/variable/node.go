// Package variable provides the set_variable node, which writes into the run's variables.
package variable

import (
	"context"
	"errors"

	"github.com/dukex/flowgraph/pkg/expression"
	"github.com/dukex/flowgraph/pkg/models"
)

// SetVariableNode stores a value resolved from its input under a run variable name.
type SetVariableNode struct {
	id    string
	name  string
	value any
}

// NewSetVariableNode creates a new set_variable node. A string value is a dotted path rooted at
// 'data'; any other value is stored as given.
func NewSetVariableNode(id string, config map[string]any) (*SetVariableNode, error) {
	name, ok := config["name"].(string)
	if !ok || name == "" {
		return nil, errors.New("missing required field 'name'")
	}

	value, exists := config["value"]
	if !exists {
		return nil, errors.New("missing required field 'value'")
	}

	return &SetVariableNode{
		id:    id,
		name:  name,
		value: value,
	}, nil
}

// ID returns the node ID.
func (n *SetVariableNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *SetVariableNode) Type() string {
	return models.NodeTypeSetVariable
}

// Execute resolves the value and writes it to the execution context.
// Unresolved paths store nil.
func (n *SetVariableNode) Execute(_ context.Context, input any, execCtx *models.ExecutionContext) models.NodeResult {
	value := n.value
	if path, ok := n.value.(string); ok {
		value = expression.Lookup(path, map[string]any{"data": input})
	}

	if execCtx != nil {
		execCtx.SetVariable(n.name, value)
	}

	return models.Succeeded(map[string]any{
		"name":  n.name,
		"value": value,
	})
}
