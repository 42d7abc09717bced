package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/registry"
)

// Executor runs a single workflow node through the node registry.
type Executor struct {
	registry *registry.Registry
	logger   *slog.Logger
}

func NewExecutor(registry *registry.Registry, logger *slog.Logger) *Executor {
	return &Executor{
		registry: registry,
		logger:   logger.With("module", "node_executor"),
	}
}

// ExecuteNode creates the node from its type and data and runs it against input.
// Every failure, including an unknown type, a bad configuration or a panic inside the
// node, is reported through the returned result.
func (e *Executor) ExecuteNode(
	ctx context.Context,
	node *models.WorkflowNode,
	input any,
	execCtx *models.ExecutionContext,
) (result models.NodeResult) {
	if node == nil {
		return models.Failed("node is nil")
	}

	logger := e.logger.With("node_id", node.ID, "node_type", node.Type)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Node panicked", "panic", r)

			result = models.Failed("node %s panicked: %v", node.ID, r)
		}
	}()

	instance, err := e.registry.CreateNode(ctx, node.Type, node.ID, node.Data)
	if errors.Is(err, registry.ErrNodeNotRegistered) {
		return models.Failed("Unknown node type: %s", node.Type)
	}

	if err != nil {
		logger.Warn("Invalid node configuration", "error", err)

		return models.Failed("invalid configuration for node %s: %v", node.ID, err)
	}

	logger.Debug("Executing node")

	result = instance.Execute(ctx, input, execCtx)
	if !result.Success {
		logger.Info("Node failed", "error", result.Error)
	}

	return result
}
