// Package web provides HTTP request and response types for the engine API.
package web

import (
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// PlanRequest is the graph to plan.
type PlanRequest struct {
	Nodes       []*models.WorkflowNode `json:"nodes"       validate:"required,min=1,dive"`
	Connections []*models.Connection  `json:"connections" validate:"dive"`
}

// PlanResponse lists the stages of a plan.
type PlanResponse struct {
	Stages [][]string `json:"stages"`
}

// ExecutionRequest runs a workflow definition. With Async the run starts in the
// background and the response only carries its id.
type ExecutionRequest struct {
	Workflow *models.Workflow `json:"workflow" validate:"required"`
	Trigger  any              `json:"trigger"`
	Async    bool             `json:"async"`
}

// ExecutionAccepted is returned for asynchronous runs.
type ExecutionAccepted struct {
	ExecutionID string           `json:"execution_id"`
	Status      models.RunStatus `json:"status"`
}

// NodeTypeResponse describes one registered node type.
type NodeTypeResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

// TransformNodeType builds the response for a node factory.
func TransformNodeType(factory protocol.NodeFactory) NodeTypeResponse {
	return NodeTypeResponse{
		ID:          factory.ID(),
		Name:        factory.Name(),
		Description: factory.Description(),
		Schema:      factory.Schema(),
	}
}

// ValidationResponse reports the problems found in a workflow.
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}
