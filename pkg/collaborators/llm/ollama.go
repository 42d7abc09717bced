// Package llm provides ModelClient implementations.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukex/flowgraph/pkg/collaborators/httpclient"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	URL         string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Ollama completes prompts through the Ollama generate API.
type Ollama struct {
	endpoint string
	config   OllamaConfig
	client   *httpclient.Client
}

func NewOllama(config OllamaConfig) *Ollama {
	if config.URL == "" {
		config.URL = DefaultOllamaURL
	}

	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}

	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	return &Ollama{
		endpoint: strings.TrimRight(config.URL, "/") + "/api/generate",
		config:   config,
		client:   httpclient.New(httpclient.Config{Timeout: config.Timeout, Attempts: 1}),
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends prompt to the configured model and returns the generated text.
func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:  o.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	options := map[string]any{}
	if o.config.Temperature > 0 {
		options["temperature"] = o.config.Temperature
	}

	if o.config.MaxTokens > 0 {
		options["num_predict"] = o.config.MaxTokens
	}

	if len(options) > 0 {
		req.Options = options
	}

	body, err := o.client.PostJSON(ctx, o.endpoint, req)
	if err != nil {
		return "", fmt.Errorf("ollama error: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ollama returned an invalid response: %w", err)
	}

	if parsed.Response == "" {
		return "", ErrEmptyResponse
	}

	return parsed.Response, nil
}
