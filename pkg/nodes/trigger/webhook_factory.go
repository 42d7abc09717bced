package trigger

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// WebhookTriggerNodeFactory creates webhook trigger nodes.
type WebhookTriggerNodeFactory struct{}

// Create creates a new webhook trigger instance.
func (f *WebhookTriggerNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewTriggerNode(id, models.NodeTypeWebhookTrigger), nil
}

// ID returns the factory ID.
func (f *WebhookTriggerNodeFactory) ID() string {
	return models.NodeTypeWebhookTrigger
}

// Name returns the factory name.
func (f *WebhookTriggerNodeFactory) Name() string {
	return "Webhook Trigger"
}

// Description returns the factory description.
func (f *WebhookTriggerNodeFactory) Description() string {
	return "Starts the workflow from an incoming HTTP request; the request body becomes the payload."
}

// Schema returns the JSON schema for the webhook trigger configuration.
func (f *WebhookTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Path the webhook is exposed on",
			},
			"method": map[string]any{
				"type":    "string",
				"enum":    []any{"GET", "POST", "PUT", "PATCH", "DELETE"},
				"default": "POST",
			},
			"schema": map[string]any{
				"type":        "object",
				"description": "JSON schema the request body must satisfy",
			},
		},
	}
}

// NewWebhookTriggerNodeFactory creates a new factory instance.
func NewWebhookTriggerNodeFactory() protocol.NodeFactory {
	return &WebhookTriggerNodeFactory{}
}
