package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukex/flowgraph/pkg/cmd"
	"github.com/dukex/flowgraph/pkg/persistence/memory"
	"github.com/dukex/flowgraph/pkg/web"
	"github.com/dukex/flowgraph/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg, err := cmd.NewRegistry(logger, cmd.NewDependencies(cmd.CollaboratorConfig{}, logger), "")
	require.NoError(t, err)

	repository := memory.NewPersistence()

	return NewAPI(context.Background(), logger, &engine{
		logger:     logger,
		registry:   reg,
		repository: repository,
		runner: workflow.NewRunner(workflow.NewExecutor(reg, logger), logger,
			workflow.WithRepository(repository)),
	})
}

func TestAPI_RegisterWebhooks(t *testing.T) {
	api := newTestAPI(t)

	require.NoError(t, api.RegisterWebhooks("testdata/orders-webhook.yaml"))
	assert.ErrorIs(t, api.RegisterWebhooks("testdata/greeting.json"), web.ErrNoWebhookTrigger)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader(`{"order_id": 7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := api.handlers.App().Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	api.handlers.Wait()
}
