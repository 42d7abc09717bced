// Package tool provides the tool_action node, which calls an external tool through a ToolInvoker.
package tool

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// ToolActionNode invokes a named tool and parses its JSON response.
type ToolActionNode struct {
	id       string
	toolName string
	input    any
	hasInput bool
	tools    protocol.ToolInvoker
}

// NewToolActionNode creates a new tool_action node.
func NewToolActionNode(id string, config map[string]any, tools protocol.ToolInvoker) (*ToolActionNode, error) {
	toolName, ok := config["toolName"].(string)
	if !ok || toolName == "" {
		return nil, errors.New("missing required field 'toolName'")
	}

	input, hasInput := config["input"]

	return &ToolActionNode{
		id:       id,
		toolName: toolName,
		input:    input,
		hasInput: hasInput,
		tools:    tools,
	}, nil
}

// ID returns the node ID.
func (n *ToolActionNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ToolActionNode) Type() string {
	return models.NodeTypeToolAction
}

// Execute calls the tool with the configured input, or with the node input when none is configured.
func (n *ToolActionNode) Execute(ctx context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	if n.tools == nil {
		return models.Failed("no tool invoker configured for tool '%s'", n.toolName)
	}

	payload := input
	if n.hasInput {
		payload = n.input
	}

	response, err := n.tools.ExecuteTool(ctx, n.toolName, payload)
	if err != nil {
		return models.Failed("tool '%s' failed: %v", n.toolName, err)
	}

	var result any
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return models.Failed("tool '%s' returned invalid JSON: %v", n.toolName, err)
	}

	return models.Succeeded(map[string]any{
		"success": true,
		"result":  result,
	})
}
