// Package connector provides the connector_action node, which runs an action on an external connector.
package connector

import (
	"context"
	"errors"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// ConnectorActionNode invokes one action of a connector.
type ConnectorActionNode struct {
	id          string
	connectorID string
	actionID    string
	input       any
	hasInput    bool
	connectors  protocol.ConnectorInvoker
}

// NewConnectorActionNode creates a new connector_action node.
func NewConnectorActionNode(id string, config map[string]any, connectors protocol.ConnectorInvoker) (*ConnectorActionNode, error) {
	connectorID, ok := config["connectorId"].(string)
	if !ok || connectorID == "" {
		return nil, errors.New("missing required field 'connectorId'")
	}

	actionID, ok := config["actionId"].(string)
	if !ok || actionID == "" {
		return nil, errors.New("missing required field 'actionId'")
	}

	input, hasInput := config["input"]

	return &ConnectorActionNode{
		id:          id,
		connectorID: connectorID,
		actionID:    actionID,
		input:       input,
		hasInput:    hasInput,
		connectors:  connectors,
	}, nil
}

// ID returns the node ID.
func (n *ConnectorActionNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ConnectorActionNode) Type() string {
	return models.NodeTypeConnectorAction
}

// Execute runs the action. The output carries the connector and action ids merged with the
// action result; result keys take precedence.
func (n *ConnectorActionNode) Execute(ctx context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	if n.connectors == nil {
		return models.Failed("no connector invoker configured for connector '%s'", n.connectorID)
	}

	payload := input
	if n.hasInput {
		payload = n.input
	}

	result, err := n.connectors.InvokeConnector(ctx, n.connectorID, n.actionID, payload)
	if err != nil {
		return models.Failed("connector '%s' action '%s' failed: %v", n.connectorID, n.actionID, err)
	}

	output := map[string]any{
		"connector": n.connectorID,
		"action":    n.actionID,
	}

	for k, v := range result {
		output[k] = v
	}

	return models.Succeeded(output)
}
