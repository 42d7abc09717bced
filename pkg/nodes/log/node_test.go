package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	flowlog "github.com/dukex/flowgraph/pkg/log"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogNode(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		level   string
		wantErr string
	}{
		{name: "default level", config: map[string]any{"message": "hi"}, level: "info"},
		{name: "explicit level", config: map[string]any{"message": "hi", "level": "warn"}, level: "warn"},
		{name: "missing message", config: map[string]any{}, wantErr: "missing required field 'message'"},
		{name: "bad level", config: map[string]any{"message": "hi", "level": "loud"}, wantErr: "unsupported level 'loud'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewLogNode("log-1", tt.config)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.level, node.level)
			assert.Equal(t, models.NodeTypeLog, node.Type())
		})
	}
}

func TestLogNode_Execute(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := flowlog.WithLogger(context.Background(), logger)

	node, err := NewLogNode("log-1", map[string]any{"message": "order {{id}} received", "level": "warn"})
	require.NoError(t, err)

	input := map[string]any{"id": 42}
	result := node.Execute(ctx, input, models.NewExecutionContext("e", "w", nil))

	require.True(t, result.Success)
	assert.Equal(t, input, result.Output)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="order 42 received"`)
	assert.Contains(t, buf.String(), "node_id=log-1")
}
