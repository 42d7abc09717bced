// Package trigger provides trigger node implementations. Trigger nodes start a run and
// hand the external payload through unchanged.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/robfig/cron/v3"
)

// TriggerNode passes its input through as output.
type TriggerNode struct {
	id       string
	nodeType string
}

// NewTriggerNode creates a passthrough trigger node of the given type.
func NewTriggerNode(id, nodeType string) *TriggerNode {
	return &TriggerNode{id: id, nodeType: nodeType}
}

// ID returns the node ID.
func (n *TriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TriggerNode) Type() string {
	return n.nodeType
}

// Execute returns the trigger payload unchanged.
func (n *TriggerNode) Execute(_ context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	return models.Succeeded(input)
}

// ScheduleTriggerNode is a trigger fired by a cron schedule.
type ScheduleTriggerNode struct {
	TriggerNode

	CronExpression string
	Timezone       string
	schedule       cron.Schedule
}

// NewScheduleTriggerNode creates a schedule trigger, rejecting invalid cron expressions
// and unknown timezones.
func NewScheduleTriggerNode(id string, config map[string]any) (*ScheduleTriggerNode, error) {
	cronExpr, ok := config["cron_expression"].(string)
	if !ok || cronExpr == "" {
		return nil, errors.New("missing required field 'cron_expression'")
	}

	timezone := "UTC"
	if tz, ok := config["timezone"].(string); ok && tz != "" {
		timezone = tz
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	schedule, err := cron.ParseStandard("CRON_TZ=" + timezone + " " + cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron_expression %q: %w", cronExpr, err)
	}

	return &ScheduleTriggerNode{
		TriggerNode:    TriggerNode{id: id, nodeType: models.NodeTypeScheduleTrigger},
		CronExpression: cronExpr,
		Timezone:       timezone,
		schedule:       schedule,
	}, nil
}

// Next returns the next activation time after t.
func (n *ScheduleTriggerNode) Next(t time.Time) time.Time {
	return n.schedule.Next(t)
}
