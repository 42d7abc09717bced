// Package connectors provides ConnectorInvoker implementations.
package connectors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrConnectorNotFound = errors.New("connector not found")
	ErrActionNotFound    = errors.New("connector action not found")
	ErrConnectorDisabled = errors.New("connector is disabled")
)

// Action is one operation offered by a connector.
type Action func(ctx context.Context, input any) (map[string]any, error)

// Connector groups the actions of one external system.
type Connector struct {
	ID       string
	Name     string
	Disabled bool
	Actions  map[string]Action
}

// Registry is an in-process ConnectorInvoker.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]*Connector
}

func NewRegistry() *Registry {
	return &Registry{connectors: make(map[string]*Connector)}
}

// Register adds or replaces a connector.
func (r *Registry) Register(connector *Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connectors[connector.ID] = connector
}

// SetDisabled toggles a connector; invoking a disabled connector fails.
func (r *Registry) SetDisabled(connectorID string, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	connector, ok := r.connectors[connectorID]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrConnectorNotFound, connectorID)
	}

	connector.Disabled = disabled

	return nil
}

// IDs returns the registered connector ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.connectors))
	for id := range r.connectors {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func (r *Registry) InvokeConnector(ctx context.Context, connectorID, actionID string, input any) (map[string]any, error) {
	r.mu.RLock()
	connector, ok := r.connectors[connectorID]

	var (
		action   Action
		found    bool
		disabled bool
	)

	if ok {
		action, found = connector.Actions[actionID]
		disabled = connector.Disabled
	}
	r.mu.RUnlock()

	switch {
	case !ok:
		return nil, fmt.Errorf("%w: '%s'", ErrConnectorNotFound, connectorID)
	case disabled:
		return nil, fmt.Errorf("%w: '%s'", ErrConnectorDisabled, connectorID)
	case !found:
		return nil, fmt.Errorf("%w: '%s' on connector '%s'", ErrActionNotFound, actionID, connectorID)
	}

	result, err := action(ctx, input)
	if err != nil {
		return nil, err
	}

	if result == nil {
		result = map[string]any{}
	}

	return result, nil
}
