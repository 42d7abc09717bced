// Package registry keeps the node factories available to the executor, keyed by node type.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"
	"sort"
	"strings"
	"sync"

	"github.com/dukex/flowgraph/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrNodeNotRegistered = errors.New("node type not registered")
	ErrInvalidConfig     = errors.New("invalid node configuration")
)

// ConfigError lists the schema violations found in a node configuration.
type ConfigError struct {
	NodeType string
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for '%s': %s", e.NodeType, strings.Join(e.Problems, "; "))
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

type Registry struct {
	logger        *slog.Logger
	mu            sync.RWMutex
	nodeFactories map[string]protocol.NodeFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:        log.With("module", "registry"),
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode adds a factory, replacing any factory already registered for the same type.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodeFactories[factory.ID()]; exists {
		r.logger.Warn("replacing node factory", "type", factory.ID())
	}

	r.nodeFactories[factory.ID()] = factory
}

// Factory returns the factory registered for nodeType.
func (r *Registry) Factory(nodeType string) (protocol.NodeFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.nodeFactories[nodeType]

	return factory, ok
}

// GetAvailableNodes returns every registered factory ordered by type.
func (r *Registry) GetAvailableNodes() []protocol.NodeFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, factory := range r.nodeFactories {
		factories = append(factories, factory)
	}

	sort.Slice(factories, func(i, j int) bool {
		return factories[i].ID() < factories[j].ID()
	})

	return factories
}

// CreateNode builds a node instance without schema validation.
func (r *Registry) CreateNode(ctx context.Context, nodeType string, id string, config map[string]any) (protocol.Node, error) {
	factory, ok := r.Factory(nodeType)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNodeNotRegistered, nodeType)
	}

	if config == nil {
		config = map[string]any{}
	}

	node, err := factory.Create(ctx, id, config)
	if err != nil {
		return nil, err
	}

	return node, nil
}

// ValidateConfig checks config against the factory schema and then lets the factory parse it.
func (r *Registry) ValidateConfig(ctx context.Context, nodeType string, config map[string]any) error {
	factory, ok := r.Factory(nodeType)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrNodeNotRegistered, nodeType)
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(factory.Schema()),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema for '%s' could not be evaluated: %w", nodeType, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return &ConfigError{NodeType: nodeType, Problems: problems}
	}

	if _, err := factory.Create(ctx, "validate", config); err != nil {
		return &ConfigError{NodeType: nodeType, Problems: []string{err.Error()}}
	}

	return nil
}

// LoadNodePlugins opens every *.so under pluginsPath/nodes and registers the NodeFactory
// each one exports as the "Node" symbol.
func (r *Registry) LoadNodePlugins(pluginsPath string) ([]protocol.NodeFactory, error) {
	factories, err := loadPlugin[protocol.NodeFactory](r.logger, pluginsPath, "Node")
	if err != nil {
		return nil, err
	}

	for _, factory := range factories {
		r.RegisterNode(factory)
	}

	return factories, nil
}

func loadPlugin[T any](logger *slog.Logger, pluginsPath string, symbolName string) ([]T, error) {
	rootPath := filepath.Join(pluginsPath, strings.ToLower(symbolName)+"s")

	pluginPathList, err := fs.Glob(os.DirFS(rootPath), "*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", rootPath), slog.String("type", symbolName))
	l.Info("Loading plugins")

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(filepath.Join(rootPath, p))
		if err != nil {
			return nil, fmt.Errorf("open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p, err)
		}

		castV, ok := v.(T)
		if !ok {
			ptr, isPtr := v.(*T)
			if !isPtr {
				return nil, fmt.Errorf("plugin %s: symbol %s has type %T", p, symbolName, v)
			}

			castV = *ptr
		}

		pluginList = append(pluginList, castV)

		l.Info("Loaded plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
