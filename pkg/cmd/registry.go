// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"
	"time"

	"github.com/dukex/flowgraph/pkg/collaborators/connectors"
	"github.com/dukex/flowgraph/pkg/collaborators/httpclient"
	"github.com/dukex/flowgraph/pkg/collaborators/llm"
	"github.com/dukex/flowgraph/pkg/collaborators/tools"
	"github.com/dukex/flowgraph/pkg/protocol"
	"github.com/dukex/flowgraph/pkg/registry"
)

// CollaboratorConfig selects where tool, connector and model calls go.
type CollaboratorConfig struct {
	ToolEndpoint      string
	ConnectorEndpoint string
	OllamaURL         string
	OllamaModel       string
	Timeout           time.Duration
	Attempts          int
}

// NewDependencies builds the collaborators injected into node factories. Tools default
// to the built-in registry and connectors to an empty one; the model client is only
// configured when an Ollama URL is given.
func NewDependencies(config CollaboratorConfig, logger *slog.Logger) protocol.Dependencies {
	clientConfig := httpclient.DefaultConfig()
	if config.Timeout > 0 {
		clientConfig.Timeout = config.Timeout
	}

	if config.Attempts > 0 {
		clientConfig.Attempts = config.Attempts
	}

	deps := protocol.Dependencies{Logger: logger}

	if config.ToolEndpoint != "" {
		deps.Tools = tools.NewHTTPInvoker(config.ToolEndpoint, clientConfig)
	} else {
		deps.Tools = tools.NewDefaultRegistry()
	}

	if config.ConnectorEndpoint != "" {
		deps.Connectors = connectors.NewHTTPInvoker(config.ConnectorEndpoint, clientConfig)
	} else {
		deps.Connectors = connectors.NewRegistry()
	}

	if config.OllamaURL != "" {
		deps.Model = llm.NewOllama(llm.OllamaConfig{
			URL:   config.OllamaURL,
			Model: config.OllamaModel,
		})
	}

	return deps
}

// NewRegistry registers the built-in nodes and any node plugins under pluginsPath.
func NewRegistry(log *slog.Logger, deps protocol.Dependencies, pluginsPath string) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultNodes(deps)

	if pluginsPath != "" {
		if _, err := reg.LoadNodePlugins(pluginsPath); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
