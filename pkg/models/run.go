package models

import "time"

// RunStatus is the overall state of one workflow run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// NodeState is the per-run record of one node, kept for display and inspection.
type NodeState struct {
	NodeID      string     `json:"node_id"`
	Type        string     `json:"type"`
	Stage       int        `json:"stage"`
	Status      NodeStatus `json:"status"`
	Output      any        `json:"output,omitempty"`
	Error       string     `json:"error,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run is the stored record of one workflow run.
type Run struct {
	ID           string                `json:"id"`
	WorkflowID   string                `json:"workflow_id"`
	WorkflowName string                `json:"workflow_name"`
	Status       RunStatus             `json:"status"`
	Trigger      any                   `json:"trigger,omitempty"`
	Variables    map[string]any        `json:"variables,omitempty"`
	Stages       [][]string            `json:"stages"`
	Nodes        map[string]*NodeState `json:"nodes"`
	Error        string                `json:"error,omitempty"`
	StartedAt    time.Time             `json:"started_at"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
}

// Clone returns a copy that shares no maps or node states with r. Outputs and the trigger
// payload are shared.
func (r *Run) Clone() *Run {
	clone := *r

	if r.Variables != nil {
		clone.Variables = make(map[string]any, len(r.Variables))
		for k, v := range r.Variables {
			clone.Variables[k] = v
		}
	}

	if r.Stages != nil {
		clone.Stages = make([][]string, len(r.Stages))
		for i, stage := range r.Stages {
			clone.Stages[i] = append([]string(nil), stage...)
		}
	}

	clone.Nodes = make(map[string]*NodeState, len(r.Nodes))
	for id, state := range r.Nodes {
		s := *state
		clone.Nodes[id] = &s
	}

	return &clone
}
