// Package merge provides merge node implementation for joining multiple execution paths.
package merge

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
)

// MergeNode joins execution paths. Waiting for every upstream path is done by the runner,
// which hands the node the already combined input; the node itself passes it through.
type MergeNode struct {
	id string
}

// NewMergeNode creates a new merge node.
func NewMergeNode(id string, _ map[string]any) (*MergeNode, error) {
	return &MergeNode{id: id}, nil
}

// ID returns the node ID.
func (n *MergeNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *MergeNode) Type() string {
	return models.NodeTypeMerge
}

// Execute returns the combined input unchanged.
func (n *MergeNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	return models.Succeeded(input)
}
