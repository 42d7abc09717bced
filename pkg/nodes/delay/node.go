// Package delay provides the delay node, which waits for a fixed duration before passing its input on.
package delay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dukex/flowgraph/pkg/expression"
	"github.com/dukex/flowgraph/pkg/models"
)

// maxSeconds bounds the waits a time.Duration can hold.
const maxSeconds = math.MaxInt64 / float64(time.Second)

// DelayNode waits for duration and then passes its input through.
type DelayNode struct {
	id       string
	duration time.Duration
}

// NewDelayNode creates a new delay node. Duration is given in seconds and may be fractional.
func NewDelayNode(id string, config map[string]any) (*DelayNode, error) {
	raw, exists := config["duration"]
	if !exists {
		return nil, errors.New("missing required field 'duration'")
	}

	seconds, ok := expression.ToFloat(raw)
	if !ok {
		return nil, errors.New("field 'duration' must be a number of seconds")
	}

	if seconds < 0 {
		return nil, errors.New("field 'duration' must not be negative")
	}

	if seconds >= maxSeconds || math.IsNaN(seconds) {
		return nil, fmt.Errorf("field 'duration' must be less than %.0f seconds", maxSeconds)
	}

	return &DelayNode{
		id:       id,
		duration: time.Duration(seconds * float64(time.Second)),
	}, nil
}

// ID returns the node ID.
func (n *DelayNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *DelayNode) Type() string {
	return models.NodeTypeDelay
}

// Duration returns the configured wait.
func (n *DelayNode) Duration() time.Duration {
	return n.duration
}

// Execute blocks for the configured duration or until ctx is done.
func (n *DelayNode) Execute(ctx context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	timer := time.NewTimer(n.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return models.Succeeded(input)
	case <-ctx.Done():
		return models.Failed("delay cancelled: %v", ctx.Err())
	}
}
