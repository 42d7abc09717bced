package testutil

import (
	"testing"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowBuilder(t *testing.T) {
	wf := NewWorkflow("wf").
		Node("start", models.NodeTypeManualTrigger, nil).
		Node("check", models.NodeTypeIfElse, map[string]any{"condition": "data.ok"}).
		Node("done", models.NodeTypeTemplate, map[string]any{"template": "done"}).
		Connect("start", "check").
		ConnectPort("check", models.PortTrue, "done").
		Variables(map[string]any{"region": "eu"}).
		Build()

	assert.Equal(t, "wf", wf.Name)
	require.Len(t, wf.Nodes, 3)
	require.Len(t, wf.Connections, 2)

	assert.Equal(t, models.PortMain, wf.Connections[0].SourcePortID)
	assert.Equal(t, "check:true->done", wf.Connections[1].ID)
	assert.Equal(t, "eu", wf.Variables["region"])
}
