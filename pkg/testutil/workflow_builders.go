// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/flowgraph/pkg/models"
)

// CreateTestNode creates a test WorkflowNode with default values that can be overridden.
func CreateTestNode(id, nodeType string, overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:   id,
		Type: nodeType,
		Name: id,
		Data: map[string]any{},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithData sets the node configuration.
func WithData(data map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Data = data
	}
}

// WorkflowBuilder assembles workflows for tests.
type WorkflowBuilder struct {
	workflow *models.Workflow
}

// NewWorkflow starts a workflow named after id.
func NewWorkflow(id string) *WorkflowBuilder {
	return &WorkflowBuilder{workflow: &models.Workflow{ID: id, Name: id}}
}

func (b *WorkflowBuilder) Node(id, nodeType string, data map[string]any) *WorkflowBuilder {
	b.workflow.Nodes = append(b.workflow.Nodes, CreateTestNode(id, nodeType, WithData(data)))

	return b
}

// Connect links from's main output to to.
func (b *WorkflowBuilder) Connect(from, to string) *WorkflowBuilder {
	return b.ConnectPort(from, models.PortMain, to)
}

// ConnectPort links the sourcePort output of from to to.
func (b *WorkflowBuilder) ConnectPort(from, sourcePort, to string) *WorkflowBuilder {
	b.workflow.Connections = append(b.workflow.Connections, &models.Connection{
		ID:           from + ":" + sourcePort + "->" + to,
		SourceNodeID: from,
		SourcePortID: sourcePort,
		TargetNodeID: to,
		TargetPortID: models.PortMain,
	})

	return b
}

func (b *WorkflowBuilder) Variables(variables map[string]any) *WorkflowBuilder {
	b.workflow.Variables = variables

	return b
}

func (b *WorkflowBuilder) Build() *models.Workflow {
	return b.workflow
}
