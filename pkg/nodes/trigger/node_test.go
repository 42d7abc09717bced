package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerNode_Passthrough(t *testing.T) {
	payload := map[string]any{"order_id": "A-1"}

	manual, err := NewManualTriggerNodeFactory().Create(context.Background(), "start", nil)
	require.NoError(t, err)
	assert.Equal(t, models.NodeTypeManualTrigger, manual.Type())
	assert.Equal(t, "start", manual.ID())

	result := manual.Execute(context.Background(), payload, models.NewExecutionContext("e", "w", nil))
	assert.True(t, result.Success)
	assert.Equal(t, payload, result.Output)

	webhook, err := NewWebhookTriggerNodeFactory().Create(context.Background(), "hook", map[string]any{"path": "/orders"})
	require.NoError(t, err)
	assert.Equal(t, models.NodeTypeWebhookTrigger, webhook.Type())

	result = webhook.Execute(context.Background(), nil, nil)
	assert.True(t, result.Success)
	assert.Nil(t, result.Output)
}

func TestNewScheduleTriggerNode(t *testing.T) {
	node, err := NewScheduleTriggerNode("nightly", map[string]any{
		"cron_expression": "0 2 * * *",
		"timezone":        "UTC",
	})
	require.NoError(t, err)

	assert.Equal(t, models.NodeTypeScheduleTrigger, node.Type())
	assert.Equal(t, "0 2 * * *", node.CronExpression)

	from := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC), node.Next(from).UTC())

	result := node.Execute(context.Background(), "tick", nil)
	assert.True(t, result.Success)
	assert.Equal(t, "tick", result.Output)
}

func TestNewScheduleTriggerNode_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		config map[string]any
		errMsg string
	}{
		{name: "missing cron", config: map[string]any{}, errMsg: "missing required field 'cron_expression'"},
		{name: "bad cron", config: map[string]any{"cron_expression": "every minute"}, errMsg: "invalid cron_expression"},
		{name: "bad timezone", config: map[string]any{"cron_expression": "* * * * *", "timezone": "Mars/Base"}, errMsg: "invalid timezone"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScheduleTriggerNodeFactory().Create(context.Background(), "s", tc.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
