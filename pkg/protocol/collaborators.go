package protocol

import (
	"context"
	"log/slog"
)

// ToolInvoker runs a named external tool. The response is a JSON document.
type ToolInvoker interface {
	ExecuteTool(ctx context.Context, toolName string, input any) (string, error)
}

// ConnectorInvoker runs one action of a connector. Authentication and connector status
// are the invoker's concern.
type ConnectorInvoker interface {
	InvokeConnector(ctx context.Context, connectorID, actionID string, input any) (map[string]any, error)
}

// ModelClient sends a prompt to a language model and returns its text.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Dependencies are the collaborators injected into node factories.
// Any of them may be nil; nodes that need a missing collaborator fail at execution time.
type Dependencies struct {
	Tools      ToolInvoker
	Connectors ConnectorInvoker
	Model      ModelClient
	Logger     *slog.Logger
}

// ToolFunc adapts a function to ToolInvoker.
type ToolFunc func(ctx context.Context, toolName string, input any) (string, error)

func (f ToolFunc) ExecuteTool(ctx context.Context, toolName string, input any) (string, error) {
	return f(ctx, toolName, input)
}

// ConnectorFunc adapts a function to ConnectorInvoker.
type ConnectorFunc func(ctx context.Context, connectorID, actionID string, input any) (map[string]any, error)

func (f ConnectorFunc) InvokeConnector(ctx context.Context, connectorID, actionID string, input any) (map[string]any, error) {
	return f(ctx, connectorID, actionID, input)
}

// ModelFunc adapts a function to ModelClient.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

func (f ModelFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
