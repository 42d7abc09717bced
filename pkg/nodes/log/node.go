// Package log provides the log node, which writes a rendered message to the run logger.
package log

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	flowlog "github.com/dukex/flowgraph/pkg/log"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/template"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogNode logs a message rendered from its input and passes the input through.
type LogNode struct {
	id      string
	message string
	level   string
}

// NewLogNode creates a new logging node.
func NewLogNode(id string, config map[string]any) (*LogNode, error) {
	message, ok := config["message"].(string)
	if !ok {
		return nil, errors.New("missing required field 'message'")
	}

	level := "info"
	if lvl, ok := config["level"].(string); ok && lvl != "" {
		level = lvl
	}

	if _, ok := levels[level]; !ok {
		return nil, fmt.Errorf("unsupported level '%s'", level)
	}

	return &LogNode{
		id:      id,
		message: message,
		level:   level,
	}, nil
}

// ID returns the node ID.
func (n *LogNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *LogNode) Type() string {
	return models.NodeTypeLog
}

// Execute logs through the logger carried by ctx.
func (n *LogNode) Execute(ctx context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	logger := flowlog.FromContext(ctx).With("node_id", n.id, "node_type", models.NodeTypeLog)
	logger.Log(ctx, levels[n.level], template.Render(n.message, input))

	return models.Succeeded(input)
}
