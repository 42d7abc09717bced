// Package mapfields provides the map_fields node, which renames top-level input fields.
package mapfields

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dukex/flowgraph/pkg/models"
)

// MapFieldsNode copies input[old] to output[new] for each mapping entry.
type MapFieldsNode struct {
	id      string
	mapping map[string]string
}

// NewMapFieldsNode creates a new map_fields node.
func NewMapFieldsNode(id string, config map[string]any) (*MapFieldsNode, error) {
	raw, ok := config["mapping"].(map[string]any)
	if !ok {
		return nil, errors.New("missing required field 'mapping'")
	}

	mapping := make(map[string]string, len(raw))

	for oldKey, newKey := range raw {
		name, ok := newKey.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("mapping for '%s' must be a non-empty string", oldKey)
		}

		mapping[oldKey] = name
	}

	return &MapFieldsNode{
		id:      id,
		mapping: mapping,
	}, nil
}

// ID returns the node ID.
func (n *MapFieldsNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *MapFieldsNode) Type() string {
	return models.NodeTypeMapFields
}

// Execute builds the renamed object. Keys missing from the input are left out.
// When two old keys map to the same new key the lexically last old key wins.
func (n *MapFieldsNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	output := make(map[string]any, len(n.mapping))

	data, ok := input.(map[string]any)
	if !ok {
		return models.Succeeded(output)
	}

	oldKeys := make([]string, 0, len(n.mapping))
	for oldKey := range n.mapping {
		oldKeys = append(oldKeys, oldKey)
	}

	sort.Strings(oldKeys)

	for _, oldKey := range oldKeys {
		if value, exists := data[oldKey]; exists {
			output[n.mapping[oldKey]] = value
		}
	}

	return models.Succeeded(output)
}
