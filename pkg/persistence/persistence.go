// Package persistence stores workflow runs and their node states.
package persistence

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
)

// RunRepository stores run records. SaveRun upserts the run header without touching node states
// already saved; SaveNodeState upserts one node of an existing run.
type RunRepository interface {
	SaveRun(ctx context.Context, run *models.Run) error
	SaveNodeState(ctx context.Context, runID string, state *models.NodeState) error
	RunByID(ctx context.Context, id string) (*models.Run, error)
	// Runs lists runs newest first; an empty workflowID lists every run.
	Runs(ctx context.Context, workflowID string) ([]*models.Run, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
