// Package models defines the core domain models for node-based workflow automation
package models

// Workflow is a graph of nodes connected by ports. It is loaded by callers and is
// read-only to the engine during a run.
type Workflow struct {
	ID          string          `json:"id"                    yaml:"id"`
	Name        string          `json:"name"                  yaml:"name"        validate:"required"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []*WorkflowNode `json:"nodes"                 yaml:"nodes"       validate:"required,min=1,dive,required"`
	Connections []*Connection   `json:"connections"           yaml:"connections" validate:"dive,required"`
	Variables   map[string]any  `json:"variables,omitempty"   yaml:"variables,omitempty"`
}

// NodeByID returns the node with the given id.
func (w *Workflow) NodeByID(id string) (*WorkflowNode, bool) {
	for _, n := range w.Nodes {
		if n != nil && n.ID == id {
			return n, true
		}
	}

	return nil, false
}

// IncomingConnections returns the connections targeting nodeID, in definition order.
func (w *Workflow) IncomingConnections(nodeID string) []*Connection {
	var conns []*Connection

	for _, c := range w.Connections {
		if c != nil && c.TargetNodeID == nodeID {
			conns = append(conns, c)
		}
	}

	return conns
}
