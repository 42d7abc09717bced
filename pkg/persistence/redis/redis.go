// Package redis provides a Redis-backed RunRepository. Run headers are JSON strings, node states
// live in a hash per run and sorted sets index runs by start time.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "flowgraph:"

// Persistence implements persistence.RunRepository on Redis.
type Persistence struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewPersistence connects to the Redis server at redisURL (redis://[:password@]host:port/db).
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", opts.Addr, "db", opts.DB)

	return NewPersistenceWithClient(client, logger), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(client redis.UniversalClient, logger *slog.Logger) *Persistence {
	return &Persistence{client: client, logger: logger}
}

func runKey(id string) string {
	return keyPrefix + "run:" + id
}

func nodesKey(id string) string {
	return keyPrefix + "run:" + id + ":nodes"
}

func allRunsKey() string {
	return keyPrefix + "runs"
}

func workflowRunsKey(workflowID string) string {
	return keyPrefix + "workflow:" + workflowID + ":runs"
}

func (p *Persistence) SaveRun(ctx context.Context, run *models.Run) error {
	header := run.Clone()
	header.Nodes = nil

	data, err := json.Marshal(header)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, fmt.Errorf("failed to marshal run: %w", err))
	}

	score := float64(run.StartedAt.UnixMilli())

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, runKey(run.ID), data, 0)
		pipe.ZAdd(ctx, allRunsKey(), redis.Z{Score: score, Member: run.ID})
		pipe.ZAdd(ctx, workflowRunsKey(run.WorkflowID), redis.Z{Score: score, Member: run.ID})

		return nil
	})
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	return nil
}

func (p *Persistence) SaveNodeState(ctx context.Context, runID string, state *models.NodeState) error {
	exists, err := p.client.Exists(ctx, runKey(runID)).Result()
	if err != nil {
		return persistence.NewRunError("SaveNodeState", runID, err)
	}

	if exists == 0 {
		return persistence.NewRunError("SaveNodeState", runID, persistence.ErrRunNotFound)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return persistence.NewRunError("SaveNodeState", runID, fmt.Errorf("failed to marshal node state: %w", err))
	}

	if err := p.client.HSet(ctx, nodesKey(runID), state.NodeID, data).Err(); err != nil {
		return persistence.NewRunError("SaveNodeState", runID, err)
	}

	return nil
}

func (p *Persistence) RunByID(ctx context.Context, id string) (*models.Run, error) {
	data, err := p.client.Get(ctx, runKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	var run models.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, persistence.NewRunError("RunByID", id, fmt.Errorf("failed to unmarshal run: %w", err))
	}

	fields, err := p.client.HGetAll(ctx, nodesKey(id)).Result()
	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	run.Nodes = make(map[string]*models.NodeState, len(fields))

	for nodeID, raw := range fields {
		var state models.NodeState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, persistence.NewRunError("RunByID", id, fmt.Errorf("failed to unmarshal node %s: %w", nodeID, err))
		}

		run.Nodes[nodeID] = &state
	}

	return &run, nil
}

func (p *Persistence) Runs(ctx context.Context, workflowID string) ([]*models.Run, error) {
	key := allRunsKey()
	if workflowID != "" {
		key = workflowRunsKey(workflowID)
	}

	ids, err := p.client.ZRevRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*models.Run, 0, len(ids))

	for _, id := range ids {
		run, err := p.RunByID(ctx, id)
		if persistence.IsRunNotFound(err) {
			p.logger.WarnContext(ctx, "Run indexed but missing", "run_id", id)

			continue
		}

		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
