// Package events defines event types and structures for workflow run notifications.
package events

import (
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every run and node event.
const Topic = "flowgraph.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Run lifecycle events.
	WorkflowExecutionStartedEvent   EventType = "workflow.execution.started"
	WorkflowExecutionCompletedEvent EventType = "workflow.execution.completed"
	WorkflowExecutionFailedEvent    EventType = "workflow.execution.failed"
	WorkflowExecutionCancelledEvent EventType = "workflow.execution.cancelled"

	// Node events.
	NodeStatusChangedEvent EventType = "node.status.changed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NodeStatusChanged is emitted on every node status transition during a run.
type NodeStatusChanged struct {
	BaseEvent

	ExecutionID string            `json:"execution_id"`
	NodeID      string            `json:"node_id"`
	NodeType    string            `json:"node_type"`
	Stage       int               `json:"stage"`
	Status      models.NodeStatus `json:"status"`
	Output      any               `json:"output,omitempty"`
	Error       string            `json:"error,omitempty"`
	DurationMs  int64             `json:"duration_ms,omitempty"`
}

func (n NodeStatusChanged) GetType() EventType {
	return NodeStatusChangedEvent
}

type WorkflowExecutionStarted struct {
	BaseEvent

	ExecutionID  string         `json:"execution_id"`
	WorkflowName string         `json:"workflow_name"`
	TriggerData  any            `json:"trigger_data,omitempty"`
	Variables    map[string]any `json:"variables,omitempty"`
	Stages       [][]string     `json:"stages"`
}

func (w WorkflowExecutionStarted) GetType() EventType {
	return WorkflowExecutionStartedEvent
}

type WorkflowExecutionCompleted struct {
	BaseEvent

	ExecutionID   string         `json:"execution_id"`
	Status        string         `json:"status"`
	DurationMs    int64          `json:"duration_ms"`
	NodesExecuted int            `json:"nodes_executed"`
	FinalResults  map[string]any `json:"final_results"`
}

func (w WorkflowExecutionCompleted) GetType() EventType {
	return WorkflowExecutionCompletedEvent
}

// WorkflowExecutionFailed is emitted when a run finishes with at least one failed node.
type WorkflowExecutionFailed struct {
	BaseEvent

	ExecutionID    string          `json:"execution_id"`
	Status         string          `json:"status"`
	DurationMs     int64           `json:"duration_ms"`
	Errors         []WorkflowError `json:"errors"`
	NodesExecuted  int             `json:"nodes_executed"`
	PartialResults map[string]any  `json:"partial_results"`
}

type WorkflowError struct {
	NodeID  string `json:"node_id"`
	Message string `json:"message"`
}

func (w WorkflowExecutionFailed) GetType() EventType {
	return WorkflowExecutionFailedEvent
}

type WorkflowExecutionCancelled struct {
	BaseEvent

	ExecutionID   string `json:"execution_id"`
	Status        string `json:"status"`
	DurationMs    int64  `json:"duration_ms"`
	Reason        string `json:"reason"`
	NodesExecuted int    `json:"nodes_executed"`
}

func (w WorkflowExecutionCancelled) GetType() EventType {
	return WorkflowExecutionCancelledEvent
}

// Decode returns an empty event value for eventType, ready to be unmarshalled into.
func Decode(eventType EventType) (any, bool) {
	switch eventType {
	case WorkflowExecutionStartedEvent:
		return &WorkflowExecutionStarted{}, true
	case WorkflowExecutionCompletedEvent:
		return &WorkflowExecutionCompleted{}, true
	case WorkflowExecutionFailedEvent:
		return &WorkflowExecutionFailed{}, true
	case WorkflowExecutionCancelledEvent:
		return &WorkflowExecutionCancelled{}, true
	case NodeStatusChangedEvent:
		return &NodeStatusChanged{}, true
	}

	return nil, false
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
