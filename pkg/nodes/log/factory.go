package log

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// LogNodeFactory creates LogNode instances.
type LogNodeFactory struct{}

// Create creates a new LogNode instance.
func (f *LogNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewLogNode(id, config)
}

// ID returns the factory ID.
func (f *LogNodeFactory) ID() string {
	return models.NodeTypeLog
}

// Name returns the factory name.
func (f *LogNodeFactory) Name() string {
	return "Log"
}

// Description returns the factory description.
func (f *LogNodeFactory) Description() string {
	return "Writes a message rendered from the input to the run log and passes the input through"
}

// Schema returns the JSON schema for log node configuration.
func (f *LogNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to log. {{field}} tokens are replaced from the input",
				"examples":    []string{"Order {{id}} received"},
			},
			"level": map[string]any{
				"type":    "string",
				"enum":    []string{"debug", "info", "warn", "error"},
				"default": "info",
			},
		},
		"required": []string{"message"},
	}
}

// NewLogNodeFactory creates a new factory instance.
func NewLogNodeFactory() protocol.NodeFactory {
	return &LogNodeFactory{}
}
