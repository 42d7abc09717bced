// Package agent provides the agent_autonomous node. It only records the deployment request;
// the agent runtime itself lives outside the engine.
package agent

import (
	"context"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/google/uuid"
)

// AgentNode reports an autonomous agent as deployed for a task.
type AgentNode struct {
	id      string
	agentID string
	task    string
	logger  *slog.Logger
}

// NewAgentNode creates a new agent_autonomous node.
func NewAgentNode(id string, config map[string]any, logger *slog.Logger) (*AgentNode, error) {
	agentID, _ := config["agentId"].(string)
	task, _ := config["task"].(string)

	if logger == nil {
		logger = slog.Default()
	}

	return &AgentNode{
		id:      id,
		agentID: agentID,
		task:    task,
		logger:  logger.With("module", "agent_node", "node_id", id),
	}, nil
}

// ID returns the node ID.
func (n *AgentNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *AgentNode) Type() string {
	return models.NodeTypeAgentAutonomous
}

// Execute returns the deployment record. A fresh agent id is generated per execution when none
// is configured.
func (n *AgentNode) Execute(ctx context.Context, _ any, _ *models.ExecutionContext) models.NodeResult {
	agentID := n.agentID
	if agentID == "" {
		agentID = uuid.NewString()
	}

	n.logger.InfoContext(ctx, "agent deployed", "agent_id", agentID, "task", n.task)

	return models.Succeeded(map[string]any{
		"status":  "deployed",
		"agentId": agentID,
		"task":    n.task,
	})
}
