package conditional

import (
	"context"
	"testing"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIfElseNode(t *testing.T) {
	node, err := NewIfElseNode("check", map[string]any{"condition": "data.value > 10"})
	require.NoError(t, err)

	assert.Equal(t, "check", node.ID())
	assert.Equal(t, models.NodeTypeIfElse, node.Type())
	assert.Equal(t, "data.value > 10", node.condition)
}

func TestNewIfElseNode_MissingCondition(t *testing.T) {
	_, err := NewIfElseNode("check", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "missing required field 'condition'", err.Error())
}

func TestIfElseNode_Execute(t *testing.T) {
	node, err := NewIfElseNode("check", map[string]any{"condition": "data.value > 10"})
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec", "wf", nil)

	result := node.Execute(context.Background(), map[string]any{"value": 20}, execCtx)
	require.True(t, result.Success)
	assert.Equal(t, map[string]any{"branch": "true"}, result.Output)

	result = node.Execute(context.Background(), map[string]any{"value": 5}, execCtx)
	require.True(t, result.Success)
	assert.Equal(t, map[string]any{"branch": "false"}, result.Output)
}

func TestIfElseNode_Execute_Variables(t *testing.T) {
	node, err := NewIfElseNode("check", map[string]any{"condition": `variables.mode === "live"`})
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec", "wf", map[string]any{"mode": "live"})

	result := node.Execute(context.Background(), nil, execCtx)
	assert.Equal(t, map[string]any{"branch": "true"}, result.Output)

	execCtx.SetVariable("mode", "test")

	result = node.Execute(context.Background(), nil, execCtx)
	assert.Equal(t, map[string]any{"branch": "false"}, result.Output)
}

func TestIfElseNode_Execute_MalformedCondition(t *testing.T) {
	node, err := NewIfElseNode("check", map[string]any{"condition": ">= >= ==="})
	require.NoError(t, err)

	result := node.Execute(context.Background(), map[string]any{"value": 1}, nil)
	assert.True(t, result.Success)
	assert.Equal(t, map[string]any{"branch": "false"}, result.Output)
}
