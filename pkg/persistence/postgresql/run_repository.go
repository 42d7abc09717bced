package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/lib/pq"
)

// foreign_key_violation
const pqForeignKeyViolation = "23503"

// RunRepository handles run-related database operations.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

// Save upserts the run header.
func (r *RunRepository) Save(ctx context.Context, run *models.Run) error {
	triggerJSON, err := json.Marshal(run.Trigger)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, fmt.Errorf("failed to marshal trigger data: %w", err))
	}

	variablesJSON, err := json.Marshal(run.Variables)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, fmt.Errorf("failed to marshal variables: %w", err))
	}

	stages := run.Stages
	if stages == nil {
		stages = [][]string{}
	}

	stagesJSON, err := json.Marshal(stages)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, fmt.Errorf("failed to marshal stages: %w", err))
	}

	query := `
		INSERT INTO workflow_runs (
			id, workflow_id, workflow_name, status, trigger_data, variables,
			stages, error_message, started_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			workflow_id = EXCLUDED.workflow_id,
			workflow_name = EXCLUDED.workflow_name,
			status = EXCLUDED.status,
			trigger_data = EXCLUDED.trigger_data,
			variables = EXCLUDED.variables,
			stages = EXCLUDED.stages,
			error_message = EXCLUDED.error_message,
			completed_at = EXCLUDED.completed_at
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID,
		run.WorkflowID,
		run.WorkflowName,
		string(run.Status),
		triggerJSON,
		variablesJSON,
		stagesJSON,
		run.Error,
		run.StartedAt,
		run.CompletedAt,
	)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, fmt.Errorf("failed to save run: %w", err))
	}

	return nil
}

// SaveNodeState upserts one node state of an existing run.
func (r *RunRepository) SaveNodeState(ctx context.Context, runID string, state *models.NodeState) error {
	outputJSON, err := json.Marshal(state.Output)
	if err != nil {
		return persistence.NewRunError("SaveNodeState", runID, fmt.Errorf("failed to marshal output: %w", err))
	}

	query := `
		INSERT INTO run_node_states (
			run_id, node_id, node_type, stage, status, output,
			error_message, reason, started_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (run_id, node_id) DO UPDATE SET
			node_type = EXCLUDED.node_type,
			stage = EXCLUDED.stage,
			status = EXCLUDED.status,
			output = EXCLUDED.output,
			error_message = EXCLUDED.error_message,
			reason = EXCLUDED.reason,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at
	`

	_, err = r.db.ExecContext(ctx, query,
		runID,
		state.NodeID,
		state.Type,
		state.Stage,
		string(state.Status),
		outputJSON,
		state.Error,
		state.Reason,
		state.StartedAt,
		state.CompletedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return persistence.NewRunError("SaveNodeState", runID, persistence.ErrRunNotFound)
		}

		return persistence.NewRunError("SaveNodeState", runID, fmt.Errorf("failed to save node state: %w", err))
	}

	return nil
}

// GetByID loads a run with its node states.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	query := `
		SELECT id, workflow_id, workflow_name, status, trigger_data, variables,
			   stages, error_message, started_at, completed_at
		FROM workflow_runs
		WHERE id = $1
	`

	run, err := r.scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, fmt.Errorf("failed to scan run: %w", err))
	}

	run.Nodes, err = r.nodeStates(ctx, id)
	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	return run, nil
}

// GetAll lists runs newest first, optionally for one workflow.
func (r *RunRepository) GetAll(ctx context.Context, workflowID string) ([]*models.Run, error) {
	query := `
		SELECT id, workflow_id, workflow_name, status, trigger_data, variables,
			   stages, error_message, started_at, completed_at
		FROM workflow_runs
		WHERE $1 = '' OR workflow_id = $1
		ORDER BY started_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*models.Run, 0)

	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for _, run := range runs {
		run.Nodes, err = r.nodeStates(ctx, run.ID)
		if err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (r *RunRepository) nodeStates(ctx context.Context, runID string) (map[string]*models.NodeState, error) {
	query := `
		SELECT node_id, node_type, stage, status, output, error_message, reason,
			   started_at, completed_at
		FROM run_node_states
		WHERE run_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query node states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	states := make(map[string]*models.NodeState)

	for rows.Next() {
		var (
			state       models.NodeState
			status      string
			outputJSON  []byte
			startedAt   sql.NullTime
			completedAt sql.NullTime
		)

		err := rows.Scan(&state.NodeID, &state.Type, &state.Stage, &status, &outputJSON,
			&state.Error, &state.Reason, &startedAt, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node state: %w", err)
		}

		state.Status = models.NodeStatus(status)

		if len(outputJSON) > 0 {
			if err := json.Unmarshal(outputJSON, &state.Output); err != nil {
				return nil, fmt.Errorf("failed to unmarshal output of node %s: %w", state.NodeID, err)
			}
		}

		if startedAt.Valid {
			state.StartedAt = &startedAt.Time
		}

		if completedAt.Valid {
			state.CompletedAt = &completedAt.Time
		}

		states[state.NodeID] = &state
	}

	return states, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanRun(row scanner) (*models.Run, error) {
	var (
		run           models.Run
		status        string
		triggerJSON   []byte
		variablesJSON []byte
		stagesJSON    []byte
		completedAt   sql.NullTime
	)

	err := row.Scan(&run.ID, &run.WorkflowID, &run.WorkflowName, &status, &triggerJSON,
		&variablesJSON, &stagesJSON, &run.Error, &run.StartedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	run.Status = models.RunStatus(status)

	if len(triggerJSON) > 0 {
		if err := json.Unmarshal(triggerJSON, &run.Trigger); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger data: %w", err)
		}
	}

	if len(variablesJSON) > 0 {
		if err := json.Unmarshal(variablesJSON, &run.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	if err := json.Unmarshal(stagesJSON, &run.Stages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stages: %w", err)
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	run.Nodes = make(map[string]*models.NodeState)

	return &run, nil
}
