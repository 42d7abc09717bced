package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dukex/flowgraph/pkg/collaborators/httpclient"
)

// HTTPInvoker calls a remote tool service at POST {endpoint}/tools/{name} with
// {"input": ...} and returns the response body as the tool result.
type HTTPInvoker struct {
	endpoint string
	client   *httpclient.Client
}

func NewHTTPInvoker(endpoint string, config httpclient.Config) *HTTPInvoker {
	return &HTTPInvoker{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   httpclient.New(config),
	}
}

func (i *HTTPInvoker) ExecuteTool(ctx context.Context, toolName string, input any) (string, error) {
	target := i.endpoint + "/tools/" + url.PathEscape(toolName)

	body, err := i.client.PostJSON(ctx, target, map[string]any{"input": input})
	if err != nil {
		return "", err
	}

	if !json.Valid(body) {
		return "", fmt.Errorf("tool service returned a non-JSON response for '%s'", toolName)
	}

	return string(body), nil
}
