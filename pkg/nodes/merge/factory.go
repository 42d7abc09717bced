// Package merge provides merge node factory for registry integration.
package merge

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// MergeNodeFactory creates MergeNode instances.
type MergeNodeFactory struct{}

// Create creates a new MergeNode instance.
func (f *MergeNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewMergeNode(id, config)
}

// ID returns the factory ID.
func (f *MergeNodeFactory) ID() string {
	return models.NodeTypeMerge
}

// Name returns the factory name.
func (f *MergeNodeFactory) Name() string {
	return "Merge"
}

// Description returns the factory description.
func (f *MergeNodeFactory) Description() string {
	return "Waits for every active upstream path and forwards their combined outputs"
}

// Schema returns the JSON schema for Merge node configuration.
func (f *MergeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// NewMergeNodeFactory creates a new factory instance.
func NewMergeNodeFactory() protocol.NodeFactory {
	return &MergeNodeFactory{}
}
