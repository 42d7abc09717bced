package models

import "fmt"

// NodeResult is the outcome of a single node execution. Expected failures are reported
// through Error with Success set to false, never as a Go error.
type NodeResult struct {
	Success bool   `json:"success"`
	Output  any    `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeeded builds a successful result carrying output.
func Succeeded(output any) NodeResult {
	return NodeResult{Success: true, Output: output}
}

// Failed builds a failed result with a formatted error message.
func Failed(format string, args ...any) NodeResult {
	return NodeResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Status maps the result onto the terminal node status it causes.
func (r NodeResult) Status() NodeStatus {
	if r.Success {
		return NodeStatusCompleted
	}

	return NodeStatusError
}
