// Package llm provides the llm_prompt node, which sends a rendered prompt to a language model.
package llm

import (
	"context"
	"errors"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/protocol"
	"github.com/dukex/flowgraph/pkg/template"
)

// PromptNode renders its prompt against the input and outputs the model's reply.
type PromptNode struct {
	id     string
	prompt string
	model  protocol.ModelClient
}

// NewPromptNode creates a new llm_prompt node.
func NewPromptNode(id string, config map[string]any, model protocol.ModelClient) (*PromptNode, error) {
	prompt, ok := config["prompt"].(string)
	if !ok || prompt == "" {
		return nil, errors.New("missing required field 'prompt'")
	}

	return &PromptNode{
		id:     id,
		prompt: prompt,
		model:  model,
	}, nil
}

// ID returns the node ID.
func (n *PromptNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *PromptNode) Type() string {
	return models.NodeTypeLLMPrompt
}

// Execute completes the rendered prompt.
func (n *PromptNode) Execute(ctx context.Context, input any, _ *models.ExecutionContext) models.NodeResult {
	if n.model == nil {
		return models.Failed("no model client configured")
	}

	text, err := n.model.Complete(ctx, template.Render(n.prompt, input))
	if err != nil {
		return models.Failed("model call failed: %v", err)
	}

	return models.Succeeded(map[string]any{"text": text})
}
