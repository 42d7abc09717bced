package loop

import (
	"context"
	"testing"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoopNode_MissingField(t *testing.T) {
	_, err := NewLoopNode("loop", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "missing required field 'arrayField'", err.Error())
}

func TestLoopNode_Execute(t *testing.T) {
	node, err := NewLoopNode("loop", map[string]any{"arrayField": "data.items"})
	require.NoError(t, err)
	assert.Equal(t, models.NodeTypeLoop, node.Type())

	result := node.Execute(context.Background(), map[string]any{"items": []any{1, 2, 3}}, nil)

	require.True(t, result.Success)
	assert.Equal(t, map[string]any{"items": []any{1, 2, 3}, "count": 3}, result.Output)
}

func TestLoopNode_Execute_EmptyArray(t *testing.T) {
	node, err := NewLoopNode("loop", map[string]any{"arrayField": "data.items"})
	require.NoError(t, err)

	result := node.Execute(context.Background(), map[string]any{"items": []any{}}, nil)

	require.True(t, result.Success)
	assert.Equal(t, map[string]any{"items": []any{}, "count": 0}, result.Output)
}

func TestLoopNode_Execute_NotAnArray(t *testing.T) {
	node, err := NewLoopNode("loop", map[string]any{"arrayField": "data.items"})
	require.NoError(t, err)

	inputs := []any{
		map[string]any{"items": "abc"},
		map[string]any{"items": map[string]any{"0": 1}},
		map[string]any{},
		nil,
	}

	for _, input := range inputs {
		result := node.Execute(context.Background(), input, nil)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "not an array")
		assert.Contains(t, result.Error, "data.items")
	}
}
