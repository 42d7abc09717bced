// Package aggregate provides the aggregate node, which reduces an array to a single value.
package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/flowgraph/pkg/expression"
	"github.com/dukex/flowgraph/pkg/models"
)

const (
	OperationSum   = "sum"
	OperationCount = "count"
	OperationAvg   = "avg"
	OperationMin   = "min"
	OperationMax   = "max"
)

// Operations lists the supported reductions.
var Operations = []string{OperationSum, OperationCount, OperationAvg, OperationMin, OperationMax}

// AggregateNode applies a reduction over an array resolved from its input.
type AggregateNode struct {
	id         string
	arrayField string
	valueField string
	operation  string
}

// NewAggregateNode creates a new aggregate node.
func NewAggregateNode(id string, config map[string]any) (*AggregateNode, error) {
	arrayField, ok := config["arrayField"].(string)
	if !ok || arrayField == "" {
		return nil, errors.New("missing required field 'arrayField'")
	}

	operation, ok := config["operation"].(string)
	if !ok || operation == "" {
		return nil, errors.New("missing required field 'operation'")
	}

	if !isOperation(operation) {
		return nil, fmt.Errorf("unsupported operation '%s'", operation)
	}

	valueField, _ := config["valueField"].(string)

	return &AggregateNode{
		id:         id,
		arrayField: arrayField,
		valueField: valueField,
		operation:  operation,
	}, nil
}

// ID returns the node ID.
func (n *AggregateNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *AggregateNode) Type() string {
	return models.NodeTypeAggregate
}

// Execute reduces the array. Items that are not numbers are ignored by every operation
// except count; an average over no numbers is 0 and min/max over no numbers is nil.
func (n *AggregateNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	value, _ := expression.Evaluate(n.arrayField, map[string]any{"data": input})

	items, ok := expression.AsSlice(value)
	if !ok {
		return models.Failed("%s is not an array", n.arrayField)
	}

	if n.operation == OperationCount {
		return models.Succeeded(map[string]any{"result": len(items)})
	}

	numbers := make([]float64, 0, len(items))

	for _, item := range items {
		if n.valueField != "" {
			item = expression.Lookup(n.valueField, item)
		}

		if f, ok := expression.ToFloat(item); ok {
			numbers = append(numbers, f)
		}
	}

	return models.Succeeded(map[string]any{"result": reduce(n.operation, numbers)})
}

func reduce(operation string, numbers []float64) any {
	var sum float64
	for _, f := range numbers {
		sum += f
	}

	switch operation {
	case OperationSum:
		return sum
	case OperationAvg:
		if len(numbers) == 0 {
			return 0.0
		}

		return sum / float64(len(numbers))
	case OperationMin, OperationMax:
		if len(numbers) == 0 {
			return nil
		}

		best := numbers[0]
		for _, f := range numbers[1:] {
			if (operation == OperationMin && f < best) || (operation == OperationMax && f > best) {
				best = f
			}
		}

		return best
	}

	return nil
}

func isOperation(operation string) bool {
	for _, op := range Operations {
		if op == operation {
			return true
		}
	}

	return false
}
