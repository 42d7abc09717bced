package trigger

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// ScheduleTriggerNodeFactory creates schedule trigger nodes.
type ScheduleTriggerNodeFactory struct{}

// Create creates a new schedule trigger instance.
func (f *ScheduleTriggerNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewScheduleTriggerNode(id, config)
}

// ID returns the factory ID.
func (f *ScheduleTriggerNodeFactory) ID() string {
	return models.NodeTypeScheduleTrigger
}

// Name returns the factory name.
func (f *ScheduleTriggerNodeFactory) Name() string {
	return "Schedule Trigger"
}

// Description returns the factory description.
func (f *ScheduleTriggerNodeFactory) Description() string {
	return "Starts the workflow on a cron schedule."
}

// Schema returns the JSON schema for the schedule trigger configuration.
func (f *ScheduleTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cron_expression": map[string]any{
				"type":        "string",
				"description": "Standard five-field cron expression",
				"examples":    []string{"*/5 * * * *", "0 9 * * MON-FRI"},
			},
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA timezone the expression is evaluated in",
				"default":     "UTC",
			},
		},
		"required": []string{"cron_expression"},
	}
}

// NewScheduleTriggerNodeFactory creates a new factory instance.
func NewScheduleTriggerNodeFactory() protocol.NodeFactory {
	return &ScheduleTriggerNodeFactory{}
}
