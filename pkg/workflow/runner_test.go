package workflow

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/eventbus"
	"github.com/dukex/flowgraph/pkg/events"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence/memory"
	"github.com/dukex/flowgraph/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.GetType())
	}

	return types
}

func (p *recordingPublisher) nodeStatuses(nodeID string) []models.NodeStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	var statuses []models.NodeStatus

	for _, e := range p.events {
		if changed, ok := e.(events.NodeStatusChanged); ok && changed.NodeID == nodeID {
			statuses = append(statuses, changed.Status)
		}
	}

	return statuses
}

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()

	return NewRunner(newTestExecutor(t), slog.Default(), opts...)
}

func node(id, nodeType string, data map[string]any) *models.WorkflowNode {
	return &models.WorkflowNode{ID: id, Type: nodeType, Name: id, Data: data}
}

func port(from, sourcePort, to string) *models.Connection {
	return &models.Connection{
		ID:           from + ":" + sourcePort + "->" + to,
		SourceNodeID: from,
		SourcePortID: sourcePort,
		TargetNodeID: to,
		TargetPortID: models.PortMain,
	}
}

func TestRunner_LinearChain(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-linear",
		Name: "Linear",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("rename", models.NodeTypeMapFields, map[string]any{
				"mapping": map[string]any{"name": "customer"},
			}),
			node("greet", models.NodeTypeTemplate, map[string]any{"template": "Hi {{customer}}"}),
		},
		Connections: []*models.Connection{edge("trigger", "rename"), edge("rename", "greet")},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"name": "Ada"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, result.Status)
	assert.NotEmpty(t, result.ExecutionID)
	assert.Equal(t, [][]string{{"trigger"}, {"rename"}, {"greet"}}, result.Plan.Stages)

	output, ok := result.Output("greet")
	require.True(t, ok)
	assert.Equal(t, "Hi Ada", output)

	for _, id := range []string{"trigger", "rename", "greet"} {
		state := result.Nodes[id]
		assert.Equal(t, models.NodeStatusCompleted, state.Status, id)
		assert.NotNil(t, state.StartedAt, id)
		assert.NotNil(t, state.CompletedAt, id)
	}

	assert.Equal(t, 2, result.Nodes["greet"].Stage)
}

func TestRunner_BranchRouting(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-branch",
		Name: "Branch",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("check", models.NodeTypeIfElse, map[string]any{"condition": "data.amount > 100"}),
			node("big", models.NodeTypeTemplate, map[string]any{"template": "big order"}),
			node("small", models.NodeTypeTemplate, map[string]any{"template": "small order"}),
			node("after-small", models.NodeTypeMerge, nil),
		},
		Connections: []*models.Connection{
			edge("trigger", "check"),
			port("check", models.PortTrue, "big"),
			port("check", models.PortFalse, "small"),
			edge("small", "after-small"),
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"amount": 250})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, result.Status)
	assert.Equal(t, map[string]any{"branch": "true"}, result.Nodes["check"].Output)
	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["big"].Status)
	assert.Equal(t, "big order", result.Nodes["big"].Output)

	assert.Equal(t, models.NodeStatusSkipped, result.Nodes["small"].Status)
	assert.Equal(t, ReasonBranchNotTaken, result.Nodes["small"].Reason)
	assert.Equal(t, models.NodeStatusSkipped, result.Nodes["after-small"].Status)
	assert.Equal(t, ReasonBranchNotTaken, result.Nodes["after-small"].Reason)
}

func TestRunner_BranchKeyOnPassthroughNodes(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-passthrough",
		Name: "Passthrough",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("greet", models.NodeTypeTemplate, map[string]any{"template": "deploy {{branch}}"}),
		},
		Connections: []*models.Connection{edge("trigger", "greet")},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"branch": "develop"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, result.Status)
	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["greet"].Status)
	assert.Equal(t, "deploy develop", result.Nodes["greet"].Output)
}

func TestRunner_MergeAfterBranch(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-merge-after-branch",
		Name: "Merge after branch",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("check", models.NodeTypeIfElse, map[string]any{"condition": "data.amount > 100"}),
			node("wait", models.NodeTypeMerge, nil),
			node("after", models.NodeTypeTemplate, map[string]any{"template": "went {{branch}}"}),
		},
		Connections: []*models.Connection{
			edge("trigger", "check"),
			port("check", models.PortTrue, "wait"),
			edge("wait", "after"),
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"amount": 250})
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["wait"].Status)
	assert.Equal(t, map[string]any{"branch": "true"}, result.Nodes["wait"].Output)
	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["after"].Status)
	assert.Equal(t, "went true", result.Nodes["after"].Output)
}

func TestRunner_IgnoresNilConnections(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-nil-connection",
		Name: "Nil connection",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("greet", models.NodeTypeTemplate, map[string]any{"template": "Hi {{name}}"}),
		},
		Connections: []*models.Connection{edge("trigger", "greet"), nil},
	}

	var result *RunResult

	require.NotPanics(t, func() {
		var err error
		result, err = newTestRunner(t).Run(context.Background(), wf, map[string]any{"name": "Ada"})
		require.NoError(t, err)
	})

	assert.Equal(t, models.RunStatusCompleted, result.Status)
	assert.Equal(t, "Hi Ada", result.Nodes["greet"].Output)
}

func TestRunner_SwitchRouting(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-switch",
		Name: "Switch",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("route", models.NodeTypeSwitch, map[string]any{
				"field": "data.tier",
				"cases": []any{"gold", "silver"},
			}),
			node("gold", models.NodeTypeTemplate, map[string]any{"template": "gold"}),
			node("silver", models.NodeTypeTemplate, map[string]any{"template": "silver"}),
			node("other", models.NodeTypeTemplate, map[string]any{"template": "other"}),
		},
		Connections: []*models.Connection{
			edge("trigger", "route"),
			port("route", "0", "gold"),
			port("route", "1", "silver"),
			port("route", models.PortDefault, "other"),
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"tier": "silver"})
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusSkipped, result.Nodes["gold"].Status)
	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["silver"].Status)
	assert.Equal(t, models.NodeStatusSkipped, result.Nodes["other"].Status)
}

func TestRunner_FailureHaltsOnlyDownstream(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-failure",
		Name: "Failure",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("iterate", models.NodeTypeLoop, map[string]any{"arrayField": "data.items"}),
			node("after-loop", models.NodeTypeMerge, nil),
			node("last", models.NodeTypeMerge, nil),
			node("independent", models.NodeTypeTemplate, map[string]any{"template": "still {{status}}"}),
		},
		Connections: []*models.Connection{
			edge("trigger", "iterate"),
			edge("iterate", "after-loop"),
			edge("after-loop", "last"),
			edge("trigger", "independent"),
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"items": "nope", "status": "running"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusFailed, result.Status)
	assert.Equal(t, models.NodeStatusError, result.Nodes["iterate"].Status)
	assert.Contains(t, result.Nodes["iterate"].Error, "not an array")

	for _, id := range []string{"after-loop", "last"} {
		assert.Equal(t, models.NodeStatusSkipped, result.Nodes[id].Status, id)
		assert.Equal(t, ReasonUpstreamFailed, result.Nodes[id].Reason, id)
	}

	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["independent"].Status)
	assert.Equal(t, "still running", result.Nodes["independent"].Output)

	_, ok := result.Output("iterate")
	assert.False(t, ok)
}

func TestRunner_FanInMergesObjects(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-fanin",
		Name: "Fan in",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("first", models.NodeTypeMapFields, map[string]any{"mapping": map[string]any{"name": "who"}}),
			node("second", models.NodeTypeMapFields, map[string]any{"mapping": map[string]any{"age": "years"}}),
			node("join", models.NodeTypeMerge, nil),
		},
		Connections: []*models.Connection{
			edge("trigger", "first"),
			edge("trigger", "second"),
			edge("first", "join"),
			edge("second", "join"),
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"name": "Ada", "age": 36})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"trigger"}, {"first", "second"}, {"join"}}, result.Plan.Stages)
	assert.Equal(t, map[string]any{"who": "Ada", "years": 36}, result.Nodes["join"].Output)
}

func TestRunner_FanInKeysNonObjects(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf-fanin-keyed",
		Name: "Fan in keyed",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("text", models.NodeTypeTemplate, map[string]any{"template": "{{name}}"}),
			node("fields", models.NodeTypeMapFields, map[string]any{"mapping": map[string]any{"name": "who"}}),
			node("join", models.NodeTypeMerge, nil),
		},
		Connections: []*models.Connection{
			edge("trigger", "text"),
			edge("trigger", "fields"),
			edge("text", "join"),
			edge("fields", "join"),
		},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"name": "Ada"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"text":   "Ada",
		"fields": map[string]any{"who": "Ada"},
	}, result.Nodes["join"].Output)
}

func TestRunner_Variables(t *testing.T) {
	wf := &models.Workflow{
		ID:        "wf-vars",
		Name:      "Variables",
		Variables: map[string]any{"region": "eu"},
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("remember", models.NodeTypeSetVariable, map[string]any{"name": "total", "value": "data.total"}),
			node("check", models.NodeTypeIfElse, map[string]any{"condition": "variables.total >= 10"}),
		},
		Connections: []*models.Connection{edge("trigger", "remember"), edge("remember", "check")},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, map[string]any{"total": 10})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"region": "eu", "total": 10}, result.Variables)
	assert.Equal(t, map[string]any{"branch": "true"}, result.Nodes["check"].Output)

	// the definition is not mutated
	assert.Equal(t, map[string]any{"region": "eu"}, wf.Variables)
}

func TestRunner_PlanError(t *testing.T) {
	wf := &models.Workflow{
		ID:          "wf-cycle",
		Name:        "Cycle",
		Nodes:       nodes("a", "b"),
		Connections: []*models.Connection{edge("a", "b"), edge("b", "a")},
	}

	result, err := newTestRunner(t).Run(context.Background(), wf, nil)

	require.ErrorIs(t, err, ErrCyclicGraph)
	assert.Nil(t, result)
}

func TestRunner_Cancellation(t *testing.T) {
	publisher := &recordingPublisher{}
	repo := memory.NewPersistence()

	wf := &models.Workflow{
		ID:   "wf-cancel",
		Name: "Cancel",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("wait", models.NodeTypeDelay, map[string]any{"duration": 5}),
			node("after", models.NodeTypeMerge, nil),
		},
		Connections: []*models.Connection{edge("trigger", "wait"), edge("wait", "after")},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	result, err := newTestRunner(t, WithPublisher(publisher), WithRepository(repo)).Run(ctx, wf, map[string]any{})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, result)
	assert.Less(t, time.Since(started), 2*time.Second)

	assert.Equal(t, models.RunStatusCancelled, result.Status)
	assert.Equal(t, models.NodeStatusCompleted, result.Nodes["trigger"].Status)
	assert.Equal(t, models.NodeStatusRunning, result.Nodes["wait"].Status)
	assert.Equal(t, models.NodeStatusIdle, result.Nodes["after"].Status)

	assert.Contains(t, publisher.types(), events.WorkflowExecutionCancelledEvent)

	stored, err := repo.RunByID(context.Background(), result.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCancelled, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
}

func TestRunner_PublishesAndPersists(t *testing.T) {
	publisher := &recordingPublisher{}
	repo := memory.NewPersistence()

	wf := &models.Workflow{
		ID:   "wf-observed",
		Name: "Observed",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("check", models.NodeTypeIfElse, map[string]any{"condition": "data.ok === true"}),
			node("yes", models.NodeTypeMerge, nil),
			node("no", models.NodeTypeMerge, nil),
		},
		Connections: []*models.Connection{
			edge("trigger", "check"),
			port("check", models.PortTrue, "yes"),
			port("check", models.PortFalse, "no"),
		},
	}

	runner := newTestRunner(t, WithPublisher(publisher), WithRepository(repo), WithMaxConcurrency(1))

	result, err := runner.Run(context.Background(), wf, map[string]any{"ok": true})
	require.NoError(t, err)

	types := publisher.types()
	require.NotEmpty(t, types)
	assert.Equal(t, events.WorkflowExecutionStartedEvent, types[0])
	assert.Equal(t, events.WorkflowExecutionCompletedEvent, types[len(types)-1])

	assert.Equal(t,
		[]models.NodeStatus{models.NodeStatusRunning, models.NodeStatusCompleted},
		publisher.nodeStatuses("yes"),
	)
	assert.Equal(t, []models.NodeStatus{models.NodeStatusSkipped}, publisher.nodeStatuses("no"))

	stored, err := repo.RunByID(context.Background(), result.ExecutionID)
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, stored.Status)
	assert.Equal(t, "Observed", stored.WorkflowName)
	assert.Equal(t, result.Plan.Stages, stored.Stages)
	require.Len(t, stored.Nodes, 4)
	assert.Equal(t, models.NodeStatusSkipped, stored.Nodes["no"].Status)
	assert.Equal(t, ReasonBranchNotTaken, stored.Nodes["no"].Reason)
}

func TestRunner_FailedRunEvent(t *testing.T) {
	publisher := &recordingPublisher{}

	wf := &models.Workflow{
		ID:   "wf-failed-event",
		Name: "Failed event",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("search", models.NodeTypeToolAction, map[string]any{"toolName": "web_search"}),
		},
		Connections: []*models.Connection{edge("trigger", "search")},
	}

	// no tool invoker is configured, so the tool node fails
	result, err := newTestRunner(t, WithPublisher(publisher)).Run(context.Background(), wf, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, result.Status)

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	last, ok := publisher.events[len(publisher.events)-1].(events.WorkflowExecutionFailed)
	require.True(t, ok)
	require.Len(t, last.Errors, 1)
	assert.Equal(t, "search", last.Errors[0].NodeID)
	assert.Equal(t, 2, last.NodesExecuted)
}

func TestRunner_ToolOutputFlowsDownstream(t *testing.T) {
	reg := newTestRegistry(t, protocol.Dependencies{
		Tools: protocol.ToolFunc(func(context.Context, string, any) (string, error) {
			return `{"hits": 3}`, nil
		}),
	})
	runner := NewRunner(NewExecutor(reg, slog.Default()), slog.Default())

	wf := &models.Workflow{
		ID:   "wf-tool",
		Name: "Tool",
		Nodes: []*models.WorkflowNode{
			node("trigger", models.NodeTypeManualTrigger, nil),
			node("search", models.NodeTypeToolAction, map[string]any{"toolName": "web_search"}),
			node("extract", models.NodeTypeMapFields, map[string]any{"mapping": map[string]any{"result": "found"}}),
		},
		Connections: []*models.Connection{edge("trigger", "search"), edge("search", "extract")},
	}

	result, err := runner.Run(context.Background(), wf, map[string]any{"q": "go"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"found": map[string]any{"hits": float64(3)}}, result.Nodes["extract"].Output)
}
