// Package tools provides ToolInvoker implementations: an in-process tool set and a
// client for a remote tool service.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrToolNotFound = errors.New("tool not found")

// Tool runs with the decoded input and returns a JSON-encodable result.
type Tool func(ctx context.Context, input any) (any, error)

// Registry is an in-process ToolInvoker backed by named Go functions.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds or replaces a tool.
func (r *Registry) Register(name string, tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[name] = tool
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ExecuteTool runs the named tool and encodes its result as JSON.
func (r *Registry) ExecuteTool(ctx context.Context, toolName string, input any) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[toolName]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: '%s'", ErrToolNotFound, toolName)
	}

	result, err := tool(ctx, input)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result of tool '%s': %w", toolName, err)
	}

	return string(encoded), nil
}

// NewDefaultRegistry returns a registry with the built-in tools.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("echo", Echo)
	r.Register("http_request", HTTPRequest)

	return r
}

// Echo returns its input.
func Echo(_ context.Context, input any) (any, error) {
	return input, nil
}
