package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAggregateNode_Errors(t *testing.T) {
	testCases := []struct {
		config map[string]any
		errMsg string
	}{
		{config: map[string]any{"operation": "sum"}, errMsg: "missing required field 'arrayField'"},
		{config: map[string]any{"arrayField": "data.items"}, errMsg: "missing required field 'operation'"},
		{config: map[string]any{"arrayField": "data.items", "operation": "median"}, errMsg: "unsupported operation 'median'"},
	}

	for _, tc := range testCases {
		_, err := NewAggregateNode("agg", tc.config)
		require.Error(t, err)
		assert.Equal(t, tc.errMsg, err.Error())
	}
}

func TestAggregateNode_Execute(t *testing.T) {
	input := map[string]any{"values": []any{4.0, 1, "skip", 7.0}}

	testCases := []struct {
		operation string
		expected  any
	}{
		{operation: OperationSum, expected: 12.0},
		{operation: OperationCount, expected: 4},
		{operation: OperationAvg, expected: 4.0},
		{operation: OperationMin, expected: 1.0},
		{operation: OperationMax, expected: 7.0},
	}

	for _, tc := range testCases {
		t.Run(tc.operation, func(t *testing.T) {
			node, err := NewAggregateNode("agg", map[string]any{"arrayField": "data.values", "operation": tc.operation})
			require.NoError(t, err)

			result := node.Execute(context.Background(), input, nil)
			require.True(t, result.Success)
			assert.Equal(t, map[string]any{"result": tc.expected}, result.Output)
		})
	}
}

func TestAggregateNode_Execute_ValueField(t *testing.T) {
	node, err := NewAggregateNode("agg", map[string]any{
		"arrayField": "data.orders",
		"operation":  "sum",
		"valueField": "amount",
	})
	require.NoError(t, err)

	result := node.Execute(context.Background(), map[string]any{
		"orders": []any{
			map[string]any{"amount": 10.5},
			map[string]any{"amount": 4.5},
			map[string]any{"other": 100.0},
		},
	}, nil)

	require.True(t, result.Success)
	assert.Equal(t, map[string]any{"result": 15.0}, result.Output)
}

func TestAggregateNode_Execute_Empty(t *testing.T) {
	input := map[string]any{"values": []any{}}

	avg, err := NewAggregateNode("agg", map[string]any{"arrayField": "data.values", "operation": "avg"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": 0.0}, avg.Execute(context.Background(), input, nil).Output)

	maxNode, err := NewAggregateNode("agg", map[string]any{"arrayField": "data.values", "operation": "max"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": nil}, maxNode.Execute(context.Background(), input, nil).Output)
}

func TestAggregateNode_Execute_NotAnArray(t *testing.T) {
	node, err := NewAggregateNode("agg", map[string]any{"arrayField": "data.values", "operation": "sum"})
	require.NoError(t, err)

	result := node.Execute(context.Background(), map[string]any{"values": 3}, nil)

	assert.False(t, result.Success)
	assert.Equal(t, "data.values is not an array", result.Error)
}
