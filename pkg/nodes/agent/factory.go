package agent

import (
	"context"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// AgentNodeFactory creates AgentNode instances.
type AgentNodeFactory struct {
	logger *slog.Logger
}

// Create creates a new AgentNode instance.
func (f *AgentNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewAgentNode(id, config, f.logger)
}

// ID returns the factory ID.
func (f *AgentNodeFactory) ID() string {
	return models.NodeTypeAgentAutonomous
}

// Name returns the factory name.
func (f *AgentNodeFactory) Name() string {
	return "Autonomous Agent"
}

// Description returns the factory description.
func (f *AgentNodeFactory) Description() string {
	return "Deploys an autonomous agent for a task and reports its id"
}

// Schema returns the JSON schema for Autonomous Agent node configuration.
func (f *AgentNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agentId": map[string]any{
				"type":        "string",
				"description": "Agent to deploy; a new id is generated when omitted",
			},
			"task": map[string]any{
				"type":        "string",
				"description": "Task handed to the agent",
			},
		},
	}
}

// NewAgentNodeFactory creates a new factory instance.
func NewAgentNodeFactory(logger *slog.Logger) protocol.NodeFactory {
	return &AgentNodeFactory{logger: logger}
}
