// Package registry provides node factory registration for the registry system.
package registry

import (
	"github.com/dukex/flowgraph/pkg/nodes/agent"
	"github.com/dukex/flowgraph/pkg/nodes/aggregate"
	"github.com/dukex/flowgraph/pkg/nodes/conditional"
	"github.com/dukex/flowgraph/pkg/nodes/connector"
	"github.com/dukex/flowgraph/pkg/nodes/delay"
	"github.com/dukex/flowgraph/pkg/nodes/llm"
	lognode "github.com/dukex/flowgraph/pkg/nodes/log"
	"github.com/dukex/flowgraph/pkg/nodes/loop"
	"github.com/dukex/flowgraph/pkg/nodes/mapfields"
	"github.com/dukex/flowgraph/pkg/nodes/merge"
	switchnode "github.com/dukex/flowgraph/pkg/nodes/switch"
	templatenode "github.com/dukex/flowgraph/pkg/nodes/template"
	"github.com/dukex/flowgraph/pkg/nodes/tool"
	"github.com/dukex/flowgraph/pkg/nodes/trigger"
	"github.com/dukex/flowgraph/pkg/nodes/variable"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// RegisterDefaultNodes registers all built-in node factories with the registry.
// Collaborators missing from deps make the nodes that need them fail when executed.
func (r *Registry) RegisterDefaultNodes(deps protocol.Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = r.logger
	}

	// Triggers
	r.RegisterNode(trigger.NewManualTriggerNodeFactory())
	r.RegisterNode(trigger.NewWebhookTriggerNodeFactory())
	r.RegisterNode(trigger.NewScheduleTriggerNodeFactory())

	// External calls
	r.RegisterNode(tool.NewToolActionNodeFactory(deps.Tools))
	r.RegisterNode(connector.NewConnectorActionNodeFactory(deps.Connectors))
	r.RegisterNode(llm.NewPromptNodeFactory(deps.Model))
	r.RegisterNode(agent.NewAgentNodeFactory(logger))

	// Flow control
	r.RegisterNode(conditional.NewIfElseNodeFactory())
	r.RegisterNode(switchnode.NewSwitchNodeFactory())
	r.RegisterNode(merge.NewMergeNodeFactory())
	r.RegisterNode(loop.NewLoopNodeFactory())
	r.RegisterNode(delay.NewDelayNodeFactory())

	// Data
	r.RegisterNode(variable.NewSetVariableNodeFactory())
	r.RegisterNode(mapfields.NewMapFieldsNodeFactory())
	r.RegisterNode(aggregate.NewAggregateNodeFactory())
	r.RegisterNode(templatenode.NewTemplateNodeFactory())
	r.RegisterNode(lognode.NewLogNodeFactory())
}
