// Package persistencetest holds the behaviour every RunRepository implementation must share.
package persistencetest

import (
	"context"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRun builds a run with JSON-friendly values so it round-trips through every backend.
func NewRun(id, workflowID string, startedAt time.Time) *models.Run {
	return &models.Run{
		ID:           id,
		WorkflowID:   workflowID,
		WorkflowName: "Order pipeline",
		Status:       models.RunStatusRunning,
		Trigger:      map[string]any{"order": "o-1"},
		Variables:    map[string]any{"limit": 10.0},
		Stages:       [][]string{{"start"}, {"check", "notify"}},
		Nodes:        map[string]*models.NodeState{},
		StartedAt:    startedAt.UTC().Truncate(time.Millisecond),
	}
}

// RunRepository exercises repo. newRepo must return an empty repository.
func RunRepository(t *testing.T, newRepo func(t *testing.T) persistence.RunRepository) {
	t.Helper()

	ctx := context.Background()

	t.Run("save and fetch", func(t *testing.T) {
		repo := newRepo(t)
		run := NewRun("run-1", "wf-1", time.Now())

		require.NoError(t, repo.SaveRun(ctx, run))

		got, err := repo.RunByID(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, run.WorkflowID, got.WorkflowID)
		assert.Equal(t, run.WorkflowName, got.WorkflowName)
		assert.Equal(t, run.Status, got.Status)
		assert.Equal(t, run.Trigger, got.Trigger)
		assert.Equal(t, run.Variables, got.Variables)
		assert.Equal(t, run.Stages, got.Stages)
		assert.NotNil(t, got.Nodes)
		assert.Empty(t, got.Nodes)
		assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Millisecond)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("node states", func(t *testing.T) {
		repo := newRepo(t)
		run := NewRun("run-2", "wf-1", time.Now())
		require.NoError(t, repo.SaveRun(ctx, run))

		started := time.Now().UTC().Truncate(time.Millisecond)

		require.NoError(t, repo.SaveNodeState(ctx, "run-2", &models.NodeState{
			NodeID:    "start",
			Type:      models.NodeTypeManualTrigger,
			Stage:     0,
			Status:    models.NodeStatusRunning,
			StartedAt: &started,
		}))
		require.NoError(t, repo.SaveNodeState(ctx, "run-2", &models.NodeState{
			NodeID:    "start",
			Type:      models.NodeTypeManualTrigger,
			Stage:     0,
			Status:    models.NodeStatusCompleted,
			Output:    map[string]any{"order": "o-1"},
			StartedAt: &started,
		}))
		require.NoError(t, repo.SaveNodeState(ctx, "run-2", &models.NodeState{
			NodeID: "notify",
			Type:   models.NodeTypeConnectorAction,
			Stage:  1,
			Status: models.NodeStatusSkipped,
			Reason: "branch not taken",
		}))

		// saving the header again keeps node states
		completed := time.Now().UTC().Truncate(time.Millisecond)
		run.Status = models.RunStatusCompleted
		run.CompletedAt = &completed
		require.NoError(t, repo.SaveRun(ctx, run))

		got, err := repo.RunByID(ctx, "run-2")
		require.NoError(t, err)
		assert.Equal(t, models.RunStatusCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
		assert.WithinDuration(t, completed, *got.CompletedAt, time.Millisecond)

		require.Len(t, got.Nodes, 2)
		assert.Equal(t, models.NodeStatusCompleted, got.Nodes["start"].Status)
		assert.Equal(t, map[string]any{"order": "o-1"}, got.Nodes["start"].Output)
		require.NotNil(t, got.Nodes["start"].StartedAt)
		assert.Equal(t, models.NodeStatusSkipped, got.Nodes["notify"].Status)
		assert.Equal(t, "branch not taken", got.Nodes["notify"].Reason)
		assert.Equal(t, 1, got.Nodes["notify"].Stage)
	})

	t.Run("node state for unknown run", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.SaveNodeState(ctx, "missing", &models.NodeState{NodeID: "a", Status: models.NodeStatusRunning})
		assert.True(t, persistence.IsRunNotFound(err))
	})

	t.Run("unknown run", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.RunByID(ctx, "missing")
		assert.True(t, persistence.IsRunNotFound(err))
	})

	t.Run("list runs", func(t *testing.T) {
		repo := newRepo(t)
		base := time.Now()

		require.NoError(t, repo.SaveRun(ctx, NewRun("old", "wf-a", base.Add(-2*time.Hour))))
		require.NoError(t, repo.SaveRun(ctx, NewRun("new", "wf-a", base)))
		require.NoError(t, repo.SaveRun(ctx, NewRun("other", "wf-b", base.Add(-time.Hour))))

		runs, err := repo.Runs(ctx, "wf-a")
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "new", runs[0].ID)
		assert.Equal(t, "old", runs[1].ID)

		all, err := repo.Runs(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"new", "other", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})

		none, err := repo.Runs(ctx, "wf-none")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("health", func(t *testing.T) {
		repo := newRepo(t)

		assert.NoError(t, repo.HealthCheck(ctx))
	})
}
