// Package conditional provides the if/else branching node for workflow graph execution.
package conditional

import (
	"context"
	"errors"

	"github.com/dukex/flowgraph/pkg/expression"
	"github.com/dukex/flowgraph/pkg/models"
)

// IfElseNode evaluates a condition and reports which branch to follow.
// The orchestrator activates only the connections leaving the matching port.
type IfElseNode struct {
	id        string
	condition string
}

// NewIfElseNode creates a new if/else branching node.
func NewIfElseNode(id string, config map[string]any) (*IfElseNode, error) {
	condition, ok := config["condition"].(string)
	if !ok {
		return nil, errors.New("missing required field 'condition'")
	}

	return &IfElseNode{
		id:        id,
		condition: condition,
	}, nil
}

// ID returns the node ID.
func (n *IfElseNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *IfElseNode) Type() string {
	return models.NodeTypeIfElse
}

// Execute evaluates the condition over {data, variables}. A condition that cannot be
// parsed evaluates to false rather than failing the node.
func (n *IfElseNode) Execute(_ context.Context, input any, execCtx *models.ExecutionContext) models.NodeResult {
	scope := map[string]any{
		"data":      input,
		"variables": map[string]any{},
	}

	if execCtx != nil {
		scope["variables"] = execCtx.Variables()
	}

	branch := models.PortFalse
	if expression.EvaluateCondition(n.condition, scope) {
		branch = models.PortTrue
	}

	return models.Succeeded(map[string]any{"branch": branch})
}
