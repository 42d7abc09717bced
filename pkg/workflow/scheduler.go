package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/nodes/trigger"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/robfig/cron/v3"
)

var ErrNoScheduleTrigger = errors.New("workflow has no schedule_trigger node")

// Scheduler runs workflows on the cron schedules of their schedule_trigger nodes.
type Scheduler struct {
	registry *registry.Registry
	runner   *Runner
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	entries map[string][]cron.EntryID
}

func NewScheduler(registry *registry.Registry, runner *Runner, logger *slog.Logger) *Scheduler {
	logger = logger.With("module", "workflow_scheduler")

	return &Scheduler{
		registry: registry,
		runner:   runner,
		logger:   logger,
		ctx:      context.Background(),
		cron: cron.New(cron.WithLogger(
			cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug)),
		)),
		entries: make(map[string][]cron.EntryID),
	}
}

// Add registers a cron entry for every schedule_trigger node of wf.
func (s *Scheduler) Add(ctx context.Context, wf *models.Workflow) error {
	var ids []cron.EntryID

	for _, node := range wf.Nodes {
		if node == nil || node.Type != models.NodeTypeScheduleTrigger {
			continue
		}

		instance, err := s.registry.CreateNode(ctx, node.Type, node.ID, node.Data)
		if err != nil {
			return fmt.Errorf("invalid schedule trigger %s: %w", node.ID, err)
		}

		schedule, ok := instance.(*trigger.ScheduleTriggerNode)
		if !ok {
			return fmt.Errorf("node %s is not a schedule trigger", node.ID)
		}

		id := s.cron.Schedule(schedule, cron.FuncJob(s.job(wf, schedule)))
		ids = append(ids, id)

		s.logger.Info("Scheduled workflow",
			"workflow_id", wf.ID,
			"trigger_id", node.ID,
			"cron_expression", schedule.CronExpression,
			"timezone", schedule.Timezone,
			"next", schedule.Next(time.Now()),
		)
	}

	if len(ids) == 0 {
		return fmt.Errorf("%w: %s", ErrNoScheduleTrigger, wf.ID)
	}

	s.mu.Lock()
	s.entries[wf.ID] = append(s.entries[wf.ID], ids...)
	s.mu.Unlock()

	return nil
}

// Remove drops all cron entries of a workflow.
func (s *Scheduler) Remove(workflowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries[workflowID] {
		s.cron.Remove(id)
	}

	delete(s.entries, workflowID)
}

// Entries returns the number of scheduled triggers.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler until ctx is done, then waits for running jobs to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info("Starting scheduler", "entries", s.Entries())
	s.cron.Start()

	<-ctx.Done()

	s.logger.Info("Shutting down scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")

	return nil
}

func (s *Scheduler) job(wf *models.Workflow, schedule *trigger.ScheduleTriggerNode) func() {
	return func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		payload := map[string]any{
			"trigger_id":   schedule.ID(),
			"scheduled_at": time.Now().UTC().Format(time.RFC3339),
		}

		result, err := s.runner.Run(ctx, wf, payload)
		if err != nil {
			s.logger.Error("Scheduled run failed", "workflow_id", wf.ID, "trigger_id", schedule.ID(), "error", err)

			return
		}

		s.logger.Info("Scheduled run finished",
			"workflow_id", wf.ID,
			"execution_id", result.ExecutionID,
			"status", result.Status,
		)
	}
}
