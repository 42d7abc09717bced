package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dukex/flowgraph/pkg/collaborators/httpclient"
)

// HTTPInvoker calls a remote connector service at
// POST {endpoint}/connectors/{connectorId}/actions/{actionId} with {"input": ...}.
// The response must be a JSON object.
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

func (i *HTTPInvoker) InvokeConnector(ctx context.Context, connectorID, actionID string, input any) (map[string]any, error) {
	target := fmt.Sprintf("%s/connectors/%s/actions/%s",
		i.endpoint, url.PathEscape(connectorID), url.PathEscape(actionID))

	body, err := i.client.PostJSON(ctx, target, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("connector service returned an invalid response: %w", err)
	}

	if result == nil {
		result = map[string]any{}
	}

	return result, nil
}
