package agent

import (
	"context"
	"testing"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentNode_Execute(t *testing.T) {
	node, err := NewAgentNode("agent", map[string]any{"agentId": "researcher", "task": "summarize"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.NodeTypeAgentAutonomous, node.Type())

	result := node.Execute(context.Background(), nil, nil)

	require.True(t, result.Success)
	assert.Equal(t, map[string]any{"status": "deployed", "agentId": "researcher", "task": "summarize"}, result.Output)
}

func TestAgentNode_Execute_GeneratesAgentID(t *testing.T) {
	node, err := NewAgentNode("agent", map[string]any{"task": "triage"}, nil)
	require.NoError(t, err)

	first := node.Execute(context.Background(), nil, nil).Output.(map[string]any)
	second := node.Execute(context.Background(), nil, nil).Output.(map[string]any)

	_, err = uuid.Parse(first["agentId"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, first["agentId"], second["agentId"])
	assert.Equal(t, "triage", first["task"])
}
