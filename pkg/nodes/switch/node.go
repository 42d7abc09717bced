// Package switchnode provides multi-way switch node implementation for workflow graph execution.
package switchnode

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dukex/flowgraph/pkg/expression"
	"github.com/dukex/flowgraph/pkg/models"
)

// SwitchNode routes execution to the port named after the index of the first matching
// case, or to "default" when nothing matches.
type SwitchNode struct {
	id    string
	field string
	cases []any
}

// NewSwitchNode creates a new switch node. Cases may be plain values or objects with a
// "value" key.
func NewSwitchNode(id string, config map[string]any) (*SwitchNode, error) {
	field, ok := config["field"].(string)
	if !ok || field == "" {
		return nil, errors.New("missing required field 'field'")
	}

	var cases []any

	if raw, exists := config["cases"]; exists && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, errors.New("field 'cases' must be an array")
		}

		for i, c := range list {
			if obj, ok := c.(map[string]any); ok {
				value, ok := obj["value"]
				if !ok {
					return nil, fmt.Errorf("case %d missing 'value'", i)
				}

				c = value
			}

			cases = append(cases, c)
		}
	}

	return &SwitchNode{
		id:    id,
		field: field,
		cases: cases,
	}, nil
}

// ID returns the node ID.
func (n *SwitchNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *SwitchNode) Type() string {
	return models.NodeTypeSwitch
}

// Execute resolves the field against {data} and picks the first matching case.
func (n *SwitchNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	value, _ := expression.Evaluate(n.field, map[string]any{"data": input})

	for i, c := range n.cases {
		if matches(value, c) {
			return models.Succeeded(map[string]any{
				"branch": strconv.Itoa(i),
				"value":  value,
			})
		}
	}

	return models.Succeeded(map[string]any{
		"branch": models.PortDefault,
		"value":  value,
	})
}

// matches compares numbers numerically and everything else by its string form.
func matches(value, caseValue any) bool {
	if expression.StrictEqual(value, caseValue) {
		return true
	}

	if value == nil || caseValue == nil {
		return false
	}

	return fmt.Sprint(value) == fmt.Sprint(caseValue)
}
