package aggregate

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// AggregateNodeFactory creates AggregateNode instances.
type AggregateNodeFactory struct{}

// Create creates a new AggregateNode instance.
func (f *AggregateNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewAggregateNode(id, config)
}

// ID returns the factory ID.
func (f *AggregateNodeFactory) ID() string {
	return models.NodeTypeAggregate
}

// Name returns the factory name.
func (f *AggregateNodeFactory) Name() string {
	return "Aggregate"
}

// Description returns the factory description.
func (f *AggregateNodeFactory) Description() string {
	return "Computes sum, count, average, minimum or maximum over an array"
}

// Schema returns the JSON schema for Aggregate node configuration.
func (f *AggregateNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"arrayField": map[string]any{
				"type":        "string",
				"description": "Dotted path to the array, rooted at 'data'",
				"examples":    []string{"data.orders"},
			},
			"operation": map[string]any{
				"type": "string",
				"enum": []any{OperationSum, OperationCount, OperationAvg, OperationMin, OperationMax},
			},
			"valueField": map[string]any{
				"type":        "string",
				"description": "Dotted path applied to each item to pick the number, for arrays of objects",
				"examples":    []string{"amount", "price.total"},
			},
		},
		"required": []string{"arrayField", "operation"},
	}
}

// NewAggregateNodeFactory creates a new factory instance.
func NewAggregateNodeFactory() protocol.NodeFactory {
	return &AggregateNodeFactory{}
}
