package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookWorkflow(id string, data map[string]any) *models.Workflow {
	return &models.Workflow{
		ID:   id,
		Name: "Webhook " + id,
		Nodes: []*models.WorkflowNode{
			{ID: "hook", Type: models.NodeTypeWebhookTrigger, Data: data},
			{ID: "greet", Type: models.NodeTypeTemplate, Data: map[string]any{"template": "Order {{body.order_id}}"}},
		},
		Connections: []*models.Connection{
			{ID: "c1", SourceNodeID: "hook", SourcePortID: models.PortMain, TargetNodeID: "greet", TargetPortID: models.PortMain},
		},
	}
}

func TestWebhooks_Register(t *testing.T) {
	webhooks := NewWebhooks()

	keys, err := webhooks.Register(webhookWorkflow("orders", map[string]any{"path": "/orders/new"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /orders/new"}, keys)

	keys, err = webhooks.Register(webhookWorkflow("refunds", map[string]any{"method": "put"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"PUT /refunds"}, keys)

	_, err = webhooks.Register(webhookWorkflow("copycat", map[string]any{"path": "orders/new"}))
	assert.ErrorContains(t, err, "already used by workflow orders")

	_, err = webhooks.Register(greetingWorkflow())
	assert.ErrorIs(t, err, ErrNoWebhookTrigger)

	assert.Equal(t, 2, webhooks.Len())
}

func TestWebhooks_RegisterConflictKeepsRoutes(t *testing.T) {
	webhooks := NewWebhooks()

	_, err := webhooks.Register(webhookWorkflow("orders", map[string]any{"path": "/orders"}))
	require.NoError(t, err)

	wf := webhookWorkflow("shop", map[string]any{"path": "/carts"})
	wf.Nodes = append(wf.Nodes, &models.WorkflowNode{
		ID:   "orders-hook",
		Type: models.NodeTypeWebhookTrigger,
		Data: map[string]any{"path": "/orders"},
	})

	_, err = webhooks.Register(wf)
	require.ErrorContains(t, err, "already used by workflow orders")

	assert.Equal(t, 1, webhooks.Len())

	_, ok := webhooks.lookup(http.MethodPost, "carts")
	assert.False(t, ok)
}

func TestHandleWebhook(t *testing.T) {
	repository := memory.NewPersistence()
	app, handlers := setupTestApp(t, repository)

	_, err := handlers.Webhooks().Register(webhookWorkflow("orders", map[string]any{
		"path": "/orders",
		"schema": map[string]any{
			"type":     "object",
			"required": []any{"order_id"},
		},
	}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders?source=shop", strings.NewReader(`{"order_id": "A-1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var accepted ExecutionAccepted
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))

	handlers.Wait()

	run, err := repository.RunByID(context.Background(), accepted.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, "Order A-1", run.Nodes["greet"].Output)

	payload, ok := run.Trigger.(map[string]any)
	require.True(t, ok)

	meta, ok := payload["webhook"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, meta["method"])
	assert.Equal(t, map[string]string{"source": "shop"}, meta["query_params"])
}

func TestHandleWebhook_Rejected(t *testing.T) {
	app, handlers := setupTestApp(t, nil)

	_, err := handlers.Webhooks().Register(webhookWorkflow("orders", map[string]any{
		"path":   "orders",
		"schema": map[string]any{"type": "object", "required": []any{"order_id"}},
	}))
	require.NoError(t, err)

	resp, _ := doJSON(t, app, http.MethodPost, "/webhooks/unknown", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/webhooks/orders", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/webhooks/orders", map[string]any{"total": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader("{not json"))

	resp, err = app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
