package models

import (
	"maps"
	"sync"
)

// ExecutionContext is the run-scoped state shared by every node execution in one run.
// Nodes of one stage may run concurrently, so all access goes through the lock.
// Concurrent writes to the same variable key are last-write-wins.
type ExecutionContext struct {
	ID         string
	WorkflowID string

	mu          sync.RWMutex
	nodeOutputs map[string]any
	variables   map[string]any
}

// NewExecutionContext creates a context seeded with initial variables.
func NewExecutionContext(id, workflowID string, variables map[string]any) *ExecutionContext {
	vars := make(map[string]any, len(variables))
	maps.Copy(vars, variables)

	return &ExecutionContext{
		ID:          id,
		WorkflowID:  workflowID,
		nodeOutputs: make(map[string]any),
		variables:   vars,
	}
}

// SetNodeOutput records the output of a completed node.
func (c *ExecutionContext) SetNodeOutput(nodeID string, output any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nodeOutputs == nil {
		c.nodeOutputs = make(map[string]any)
	}

	c.nodeOutputs[nodeID] = output
}

// NodeOutput returns the recorded output of a node.
func (c *ExecutionContext) NodeOutput(nodeID string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out, ok := c.nodeOutputs[nodeID]

	return out, ok
}

// NodeOutputs returns a snapshot of all recorded node outputs.
func (c *ExecutionContext) NodeOutputs() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.nodeOutputs)
}

// SetVariable writes a run variable.
func (c *ExecutionContext) SetVariable(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.variables == nil {
		c.variables = make(map[string]any)
	}

	c.variables[name] = value
}

// Variable reads a run variable.
func (c *ExecutionContext) Variable(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.variables[name]

	return v, ok
}

// Variables returns a snapshot of the run variables.
func (c *ExecutionContext) Variables() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vars := make(map[string]any, len(c.variables))
	maps.Copy(vars, c.variables)

	return vars
}
