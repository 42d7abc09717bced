// Package protocol defines the interfaces and contracts for pluggable nodes.
package protocol

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
)

// Node is a configured node instance ready to execute.
type Node interface {
	// ID returns the workflow node id this instance was created for
	ID() string

	// Type returns the node type key
	Type() string

	// Execute runs the node against its resolved input. Expected failures are reported
	// through the result, never as a panic or Go error.
	Execute(ctx context.Context, input any, execCtx *models.ExecutionContext) models.NodeResult
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create parses config into the node's typed configuration and returns the instance
	Create(ctx context.Context, id string, config map[string]any) (Node, error)

	// ID returns the unique identifier for this node type
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}
