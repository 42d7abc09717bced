package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/dukex/flowgraph/pkg/eventbus"
	"github.com/dukex/flowgraph/pkg/events"
	flowlog "github.com/dukex/flowgraph/pkg/log"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/otelhelper"
	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Skip reasons recorded on node states.
const (
	ReasonUpstreamFailed = "upstream failed"
	ReasonBranchNotTaken = "branch not taken"
)

// Option configures a Runner.
type Option func(*Runner)

// WithPublisher publishes run and node events through publisher.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(r *Runner) {
		r.publisher = publisher
	}
}

// WithRepository stores runs and node states in repository.
func WithRepository(repository persistence.RunRepository) Option {
	return func(r *Runner) {
		r.repository = repository
	}
}

// WithTracer records a span per run and per node.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// WithMaxConcurrency limits how many nodes of one stage run at the same time.
// Zero or less means no limit.
func WithMaxConcurrency(n int) Option {
	return func(r *Runner) {
		r.maxConcurrency = n
	}
}

// Runner drives a workflow run stage by stage.
type Runner struct {
	executor       *Executor
	logger         *slog.Logger
	publisher      eventbus.EventPublisher
	repository     persistence.RunRepository
	tracer         trace.Tracer
	maxConcurrency int
}

func NewRunner(executor *Executor, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		executor: executor,
		logger:   logger.With("module", "workflow_runner"),
		tracer:   otelhelper.NoopTracer(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunResult is the settled state of one run.
type RunResult struct {
	ExecutionID string                      `json:"execution_id"`
	Plan        *ExecutionPlan              `json:"plan"`
	Nodes       map[string]models.NodeState `json:"nodes"`
	Variables   map[string]any              `json:"variables"`
	Status      models.RunStatus            `json:"status"`
}

// Output returns the output a node committed during the run.
func (r *RunResult) Output(nodeID string) (any, bool) {
	state, ok := r.Nodes[nodeID]
	if !ok || state.Status != models.NodeStatusCompleted {
		return nil, false
	}

	return state.Output, true
}

type runState struct {
	mu       sync.Mutex
	workflow *models.Workflow
	nodes    map[string]*models.WorkflowNode
	run      *models.Run
	execCtx  *models.ExecutionContext
	logger   *slog.Logger
}

// Run executes wf with trigger as the input of its root nodes.
// Only planning problems and cancellation are returned as errors; node failures are
// recorded on the result. On cancellation the partial result is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, wf *models.Workflow, trigger any) (*RunResult, error) {
	return r.RunWithID(ctx, uuid.NewString(), wf, trigger)
}

// RunWithID is Run with a caller-chosen execution id.
func (r *Runner) RunWithID(ctx context.Context, executionID string, wf *models.Workflow, trigger any) (*RunResult, error) {
	plan, err := BuildExecutionPlan(wf.Nodes, wf.Connections)
	if err != nil {
		return nil, fmt.Errorf("failed to plan workflow %s: %w", wf.ID, err)
	}

	execCtx := models.NewExecutionContext(executionID, wf.ID, wf.Variables)

	state := &runState{
		workflow: wf,
		nodes:    make(map[string]*models.WorkflowNode, len(wf.Nodes)),
		execCtx:  execCtx,
		logger:   r.logger.With("workflow_id", wf.ID, "execution_id", executionID),
		run: &models.Run{
			ID:           executionID,
			WorkflowID:   wf.ID,
			WorkflowName: wf.Name,
			Status:       models.RunStatusRunning,
			Trigger:      trigger,
			Variables:    execCtx.Variables(),
			Stages:       plan.Stages,
			Nodes:        make(map[string]*models.NodeState, len(wf.Nodes)),
			StartedAt:    time.Now().UTC(),
		},
	}

	for _, node := range wf.Nodes {
		if node == nil {
			continue
		}

		state.nodes[node.ID] = node
		state.run.Nodes[node.ID] = &models.NodeState{
			NodeID: node.ID,
			Type:   node.Type,
			Stage:  plan.StageOf(node.ID),
			Status: models.NodeStatusIdle,
		}
	}

	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "workflow.run",
		attribute.String(otelhelper.WorkflowIDKey, wf.ID),
		attribute.String(otelhelper.WorkflowNameKey, wf.Name),
		attribute.String(otelhelper.ExecutionIDKey, executionID),
		attribute.Int(otelhelper.StageCountKey, plan.Len()),
	)
	defer span.End()

	ctx = flowlog.WithLogger(ctx, state.logger)

	state.logger.Info("Starting workflow run", "stages", plan.Len())

	r.saveRun(ctx, state)
	r.publish(ctx, state, events.WorkflowExecutionStarted{
		BaseEvent:    events.NewBaseEvent(events.WorkflowExecutionStartedEvent, wf.ID),
		ExecutionID:  executionID,
		WorkflowName: wf.Name,
		TriggerData:  trigger,
		Variables:    state.run.Variables,
		Stages:       plan.Stages,
	})

	for idx, stage := range plan.Stages {
		if ctx.Err() != nil {
			break
		}

		r.runStage(ctx, state, idx, stage)
	}

	if err := ctx.Err(); err != nil {
		otelhelper.SetError(span, err)

		result := r.cancel(ctx, state, plan, err)
		otelhelper.RecordRunStatus(span, string(result.Status), err.Error())

		return result, err
	}

	result := r.finish(ctx, state, plan)
	otelhelper.RecordRunStatus(span, string(result.Status), state.runError())

	return result, nil
}

func (r *Runner) runStage(ctx context.Context, state *runState, stageIdx int, stage []string) {
	var group errgroup.Group
	if r.maxConcurrency > 0 {
		group.SetLimit(r.maxConcurrency)
	}

	state.logger.Debug("Running stage", "stage", stageIdx, "nodes", stage)

	for _, nodeID := range stage {
		node := state.nodes[nodeID]

		input, reason := state.gatherInput(nodeID)
		if reason != "" {
			r.transition(ctx, state, nodeID, func(ns *models.NodeState) {
				ns.Status = models.NodeStatusSkipped
				ns.Reason = reason
			})

			continue
		}

		group.Go(func() error {
			r.runNode(ctx, state, node, stageIdx, input)

			return nil
		})
	}

	_ = group.Wait()
}

func (r *Runner) runNode(ctx context.Context, state *runState, node *models.WorkflowNode, stageIdx int, input any) {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "workflow.node",
		attribute.String(otelhelper.ExecutionIDKey, state.run.ID),
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
		attribute.Int(otelhelper.StageKey, stageIdx),
	)
	defer span.End()

	startedAt := time.Now().UTC()
	r.transition(ctx, state, node.ID, func(ns *models.NodeState) {
		ns.Status = models.NodeStatusRunning
		ns.StartedAt = &startedAt
	})

	result := r.executor.ExecuteNode(ctx, node, input, state.execCtx)

	if ctx.Err() != nil {
		state.logger.Info("Discarding node result after cancellation", "node_id", node.ID)

		return
	}

	if result.Success {
		state.execCtx.SetNodeOutput(node.ID, result.Output)
	}

	otelhelper.RecordNodeResult(span, string(result.Status()), result.Error)

	completedAt := time.Now().UTC()
	r.transition(ctx, state, node.ID, func(ns *models.NodeState) {
		ns.Status = result.Status()
		ns.Output = result.Output
		ns.Error = result.Error
		ns.CompletedAt = &completedAt
	})
}

// gatherInput returns the input for nodeID, or the reason it must be skipped.
// Root nodes receive the trigger payload. Other nodes receive the outputs of their
// active incoming connections: a single source as-is, several sources merged.
func (s *runState) gatherInput(nodeID string) (any, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incoming := s.workflow.IncomingConnections(nodeID)
	if len(incoming) == 0 {
		return s.run.Trigger, ""
	}

	sources := make([]string, 0, len(incoming))
	seen := make(map[string]bool, len(incoming))

	for _, conn := range incoming {
		source := s.run.Nodes[conn.SourceNodeID]

		switch {
		case source.Status == models.NodeStatusError,
			source.Status == models.NodeStatusSkipped && source.Reason == ReasonUpstreamFailed:
			return nil, ReasonUpstreamFailed
		case source.Status != models.NodeStatusCompleted:
			continue
		}

		if seen[conn.SourceNodeID] || !s.connectionActive(conn, source.Output) {
			continue
		}

		seen[conn.SourceNodeID] = true
		sources = append(sources, conn.SourceNodeID)
	}

	if len(sources) == 0 {
		return nil, ReasonBranchNotTaken
	}

	if len(sources) == 1 {
		output, _ := s.execCtx.NodeOutput(sources[0])

		return output, ""
	}

	return mergeInputs(sources, s.execCtx.NodeOutputs()), ""
}

// connectionActive reports whether conn carries the output of its source. For branching
// nodes an output object with a string "branch" only activates connections leaving that
// port. Any other node passes its output on every outgoing connection.
func (s *runState) connectionActive(conn *models.Connection, output any) bool {
	source, ok := s.nodes[conn.SourceNodeID]
	if !ok || !source.Branches() {
		return true
	}

	obj, ok := output.(map[string]any)
	if !ok {
		return true
	}

	branch, ok := obj["branch"].(string)
	if !ok {
		return true
	}

	return conn.SourcePortID == branch
}

// mergeInputs unions object outputs with later sources winning on key collisions.
// If any output is not an object, the outputs are keyed by source node id instead.
func mergeInputs(sources []string, outputs map[string]any) map[string]any {
	merged := make(map[string]any)

	for _, id := range sources {
		obj, ok := outputs[id].(map[string]any)
		if !ok {
			keyed := make(map[string]any, len(sources))
			for _, sourceID := range sources {
				keyed[sourceID] = outputs[sourceID]
			}

			return keyed
		}

		maps.Copy(merged, obj)
	}

	return merged
}

func (r *Runner) transition(ctx context.Context, state *runState, nodeID string, update func(*models.NodeState)) {
	state.mu.Lock()
	ns := state.run.Nodes[nodeID]
	update(ns)
	snapshot := *ns
	state.mu.Unlock()

	event := events.NodeStatusChanged{
		BaseEvent:   events.NewBaseEvent(events.NodeStatusChangedEvent, state.run.WorkflowID),
		ExecutionID: state.run.ID,
		NodeID:      snapshot.NodeID,
		NodeType:    snapshot.Type,
		Stage:       snapshot.Stage,
		Status:      snapshot.Status,
		Output:      snapshot.Output,
		Error:       snapshot.Error,
	}

	if snapshot.StartedAt != nil && snapshot.CompletedAt != nil {
		event.DurationMs = snapshot.CompletedAt.Sub(*snapshot.StartedAt).Milliseconds()
	}

	state.logger.Debug("Node status changed", "node_id", nodeID, "status", snapshot.Status, "reason", snapshot.Reason)

	r.publish(ctx, state, event)

	if r.repository != nil {
		err := r.repository.SaveNodeState(context.WithoutCancel(ctx), state.run.ID, &snapshot)
		if err != nil {
			state.logger.Warn("Failed to save node state", "node_id", nodeID, "error", err)
		}
	}
}

func (r *Runner) finish(ctx context.Context, state *runState, plan *ExecutionPlan) *RunResult {
	state.mu.Lock()

	run := state.run
	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt
	run.Variables = state.execCtx.Variables()

	var failures []events.WorkflowError

	executed := 0

	for _, stage := range plan.Stages {
		for _, id := range stage {
			ns := run.Nodes[id]

			switch ns.Status {
			case models.NodeStatusError:
				executed++

				failures = append(failures, events.WorkflowError{NodeID: id, Message: ns.Error})
			case models.NodeStatusCompleted:
				executed++
			}
		}
	}

	run.Status = models.RunStatusCompleted
	if len(failures) > 0 {
		run.Status = models.RunStatusFailed
		run.Error = fmt.Sprintf("%d node(s) failed", len(failures))
	}

	durationMs := completedAt.Sub(run.StartedAt).Milliseconds()
	result := state.result(plan)
	state.mu.Unlock()

	r.saveRun(ctx, state)

	if len(failures) > 0 {
		state.logger.Warn("Workflow run failed", "failed_nodes", len(failures), "duration_ms", durationMs)

		r.publish(ctx, state, events.WorkflowExecutionFailed{
			BaseEvent:      events.NewBaseEvent(events.WorkflowExecutionFailedEvent, run.WorkflowID),
			ExecutionID:    run.ID,
			Status:         string(run.Status),
			DurationMs:     durationMs,
			Errors:         failures,
			NodesExecuted:  executed,
			PartialResults: state.execCtx.NodeOutputs(),
		})

		return result
	}

	state.logger.Info("Workflow run completed", "nodes_executed", executed, "duration_ms", durationMs)

	r.publish(ctx, state, events.WorkflowExecutionCompleted{
		BaseEvent:     events.NewBaseEvent(events.WorkflowExecutionCompletedEvent, run.WorkflowID),
		ExecutionID:   run.ID,
		Status:        string(run.Status),
		DurationMs:    durationMs,
		NodesExecuted: executed,
		FinalResults:  state.execCtx.NodeOutputs(),
	})

	return result
}

func (r *Runner) cancel(ctx context.Context, state *runState, plan *ExecutionPlan, cause error) *RunResult {
	state.mu.Lock()

	run := state.run
	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt
	run.Variables = state.execCtx.Variables()
	run.Status = models.RunStatusCancelled
	run.Error = cause.Error()

	executed := 0

	for _, ns := range run.Nodes {
		if ns.Status == models.NodeStatusCompleted || ns.Status == models.NodeStatusError {
			executed++
		}
	}

	durationMs := completedAt.Sub(run.StartedAt).Milliseconds()
	result := state.result(plan)
	state.mu.Unlock()

	state.logger.Info("Workflow run cancelled", "reason", cause, "nodes_executed", executed)

	r.saveRun(ctx, state)
	r.publish(ctx, state, events.WorkflowExecutionCancelled{
		BaseEvent:     events.NewBaseEvent(events.WorkflowExecutionCancelledEvent, run.WorkflowID),
		ExecutionID:   run.ID,
		Status:        string(run.Status),
		DurationMs:    durationMs,
		Reason:        cause.Error(),
		NodesExecuted: executed,
	})

	return result
}

func (s *runState) runError() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run.Error
}

// result snapshots the run. Callers hold s.mu.
func (s *runState) result(plan *ExecutionPlan) *RunResult {
	nodes := make(map[string]models.NodeState, len(s.run.Nodes))
	for id, ns := range s.run.Nodes {
		nodes[id] = *ns
	}

	return &RunResult{
		ExecutionID: s.run.ID,
		Plan:        plan,
		Nodes:       nodes,
		Variables:   s.execCtx.Variables(),
		Status:      s.run.Status,
	}
}

func (r *Runner) saveRun(ctx context.Context, state *runState) {
	if r.repository == nil {
		return
	}

	state.mu.Lock()
	run := state.run.Clone()
	state.mu.Unlock()

	if err := r.repository.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		state.logger.Warn("Failed to save run", "error", err)
	}
}

func (r *Runner) publish(ctx context.Context, state *runState, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(context.WithoutCancel(ctx), state.run.ID, event); err != nil {
		state.logger.Warn("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
