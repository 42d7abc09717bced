package llm

import (
	"context"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
)

// PromptNodeFactory creates PromptNode instances bound to a ModelClient.
type PromptNodeFactory struct {
	model protocol.ModelClient
}

// Create creates a new PromptNode instance.
func (f *PromptNodeFactory) Create(ctx context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewPromptNode(id, config, f.model)
}

// ID returns the factory ID.
func (f *PromptNodeFactory) ID() string {
	return models.NodeTypeLLMPrompt
}

// Name returns the factory name.
func (f *PromptNodeFactory) Name() string {
	return "LLM Prompt"
}

// Description returns the factory description.
func (f *PromptNodeFactory) Description() string {
	return "Sends a prompt built from {{field}} tokens to a language model and outputs its reply"
}

// Schema returns the JSON schema for LLM Prompt node configuration.
func (f *PromptNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Prompt text with {{field}} tokens",
				"examples":    []string{"Summarize this ticket: {{description}}"},
			},
		},
		"required": []string{"prompt"},
	}
}

// NewPromptNodeFactory creates a new factory instance.
func NewPromptNodeFactory(model protocol.ModelClient) protocol.NodeFactory {
	return &PromptNodeFactory{model: model}
}
