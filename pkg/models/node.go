// Package models defines core node-based workflow models for graph execution
package models

// Built-in node types.
const (
	NodeTypeManualTrigger   = "manual_trigger"
	NodeTypeWebhookTrigger  = "webhook_trigger"
	NodeTypeScheduleTrigger = "schedule_trigger"
	NodeTypeToolAction      = "tool_action"
	NodeTypeConnectorAction = "connector_action"
	NodeTypeIfElse          = "if_else"
	NodeTypeSwitch          = "switch"
	NodeTypeMerge           = "merge"
	NodeTypeLoop            = "loop"
	NodeTypeDelay           = "delay"
	NodeTypeSetVariable     = "set_variable"
	NodeTypeMapFields       = "map_fields"
	NodeTypeAggregate       = "aggregate"
	NodeTypeTemplate        = "template"
	NodeTypeAgentAutonomous = "agent_autonomous"
	NodeTypeLLMPrompt       = "llm_prompt"
	NodeTypeLog             = "log"
)

// WorkflowNode represents a node instance in a workflow.
// Status and Output are owned by the orchestrator; the planner and executor only read the node.
type WorkflowNode struct {
	ID     string         `json:"id"               yaml:"id"               validate:"required"`
	Type   string         `json:"type"             yaml:"type"             validate:"required"`
	Name   string         `json:"name,omitempty"   yaml:"name,omitempty"`
	Data   map[string]any `json:"data"             yaml:"data"`
	Status NodeStatus     `json:"status,omitempty" yaml:"status,omitempty"`
	Output any            `json:"output,omitempty" yaml:"output,omitempty"`
}

// Branches reports whether the node routes its output to a single port named by the
// "branch" key of its result.
func (n *WorkflowNode) Branches() bool {
	return n.Type == NodeTypeIfElse || n.Type == NodeTypeSwitch
}

// Connection is a directed edge from a source node port to a target node port.
type Connection struct {
	ID           string     `json:"id"                 yaml:"id"`
	SourceNodeID string     `json:"source_node_id"     yaml:"source_node_id"     validate:"required"`
	SourcePortID string     `json:"source_port_id"     yaml:"source_port_id"`
	TargetNodeID string     `json:"target_node_id"     yaml:"target_node_id"     validate:"required"`
	TargetPortID string     `json:"target_port_id"     yaml:"target_port_id"`
	Status       NodeStatus `json:"status,omitempty"   yaml:"status,omitempty"`
}

// SourcePort returns the fully qualified source port ID.
func (c *Connection) SourcePort() string {
	return MakePortID(c.SourceNodeID, c.SourcePortID)
}

// TargetPort returns the fully qualified target port ID.
func (c *Connection) TargetPort() string {
	return MakePortID(c.TargetNodeID, c.TargetPortID)
}

// NodeStatus defines the possible states of a node across a run.
type NodeStatus string

const (
	NodeStatusIdle      NodeStatus = "idle"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusError     NodeStatus = "error"
	NodeStatusSkipped   NodeStatus = "skipped"
)

// IsTerminal reports whether the status is a settled state.
func (s NodeStatus) IsTerminal() bool {
	return s == NodeStatusCompleted || s == NodeStatusError || s == NodeStatusSkipped
}
