package connector

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// ConnectorActionNodeFactory creates ConnectorActionNode instances bound to a ConnectorInvoker.
type ConnectorActionNodeFactory struct {
	connectors protocol.ConnectorInvoker
}

// Create creates a new ConnectorActionNode instance.
func (f *ConnectorActionNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewConnectorActionNode(id, config, f.connectors)
}

// ID returns the factory ID.
func (f *ConnectorActionNodeFactory) ID() string {
	return models.NodeTypeConnectorAction
}

// Name returns the factory name.
func (f *ConnectorActionNodeFactory) Name() string {
	return "Connector Action"
}

// Description returns the factory description.
func (f *ConnectorActionNodeFactory) Description() string {
	return "Runs an action on a connected service such as Slack or GitHub"
}

// Schema returns the JSON schema for Connector Action node configuration.
func (f *ConnectorActionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"connectorId": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Connector identifier",
				"examples":    []string{"slack", "github"},
			},
			"actionId": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Action to run on the connector",
				"examples":    []string{"send_message", "create_issue"},
			},
			"input": map[string]any{
				"description": "Payload sent to the action; the node input is sent when omitted",
			},
		},
		"required": []string{"connectorId", "actionId"},
	}
}

// NewConnectorActionNodeFactory creates a new factory instance.
func NewConnectorActionNodeFactory(connectors protocol.ConnectorInvoker) protocol.NodeFactory {
	return &ConnectorActionNodeFactory{connectors: connectors}
}
