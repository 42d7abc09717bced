package workflow

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dukex/flowgraph/pkg/mocks"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
	"github.com/dukex/flowgraph/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func promptWorkflow() *models.Workflow {
	return testutil.NewWorkflow("wf-prompt").
		Node("start", models.NodeTypeManualTrigger, nil).
		Node("lookup", models.NodeTypeToolAction, map[string]any{"toolName": "crm_lookup"}).
		Node("summarize", models.NodeTypeLLMPrompt, map[string]any{"prompt": "Summarize {{result.name}}"}).
		Connect("start", "lookup").
		Connect("lookup", "summarize").
		Build()
}

func TestRunner_InjectedCollaborators(t *testing.T) {
	tools := &mocks.MockToolInvoker{}
	tools.On("ExecuteTool", mock.Anything, "crm_lookup", map[string]any{"email": "ada@example.com"}).
		Return(`{"name": "Ada Lovelace"}`, nil).Once()

	model := &mocks.MockModelClient{}
	model.On("Complete", mock.Anything, "Summarize Ada Lovelace").Return("A mathematician.", nil).Once()

	reg := newTestRegistry(t, protocol.Dependencies{Tools: tools, Model: model})
	runner := NewRunner(NewExecutor(reg, slog.Default()), slog.Default())

	result, err := runner.Run(context.Background(), promptWorkflow(), map[string]any{"email": "ada@example.com"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, result.Status)

	output, ok := result.Output("summarize")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"text": "A mathematician."}, output)

	tools.AssertExpectations(t)
	model.AssertExpectations(t)
}

func TestRunner_CollaboratorFailureBlocksDownstream(t *testing.T) {
	tools := &mocks.MockToolInvoker{}
	tools.On("ExecuteTool", mock.Anything, "crm_lookup", mock.Anything).Return("", errors.New("crm offline"))

	model := &mocks.MockModelClient{}

	reg := newTestRegistry(t, protocol.Dependencies{Tools: tools, Model: model})
	runner := NewRunner(NewExecutor(reg, slog.Default()), slog.Default())

	result, err := runner.Run(context.Background(), promptWorkflow(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusFailed, result.Status)
	assert.Equal(t, models.NodeStatusError, result.Nodes["lookup"].Status)
	assert.Contains(t, result.Nodes["lookup"].Error, "crm offline")
	assert.Equal(t, models.NodeStatusSkipped, result.Nodes["summarize"].Status)

	model.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestRunner_SideEffectFailuresDoNotFailRun(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(errors.New("broker down"))

	repository := &mocks.MockRunRepository{}
	repository.On("SaveRun", mock.Anything, mock.AnythingOfType("*models.Run")).Return(errors.New("disk full"))
	repository.On("SaveNodeState", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*models.NodeState")).
		Return(errors.New("disk full"))

	wf := testutil.NewWorkflow("wf-side-effects").
		Node("start", models.NodeTypeManualTrigger, nil).
		Node("greet", models.NodeTypeTemplate, map[string]any{"template": "Hi {{name}}"}).
		Connect("start", "greet").
		Build()

	runner := newTestRunner(t, WithPublisher(bus), WithRepository(repository))

	result, err := runner.Run(context.Background(), wf, map[string]any{"name": "Ada"})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, result.Status)

	output, _ := result.Output("greet")
	assert.Equal(t, "Hi Ada", output)

	bus.AssertCalled(t, "Publish", mock.Anything, result.ExecutionID, mock.Anything)
	repository.AssertCalled(t, "SaveNodeState", mock.Anything, result.ExecutionID, mock.Anything)
}
