package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dukex/flowgraph/pkg/web"
	"github.com/dukex/flowgraph/pkg/workflow"
	"github.com/go-playground/validator/v10"
)

type API struct {
	logger   *slog.Logger
	handlers *web.APIHandlers
}

// NewAPI builds the HTTP API over e. Asynchronous runs started through it are cancelled
// with ctx.
func NewAPI(ctx context.Context, logger *slog.Logger, e *engine) *API {
	return &API{
		logger: logger,
		handlers: web.NewAPIHandlers(
			ctx,
			e.registry,
			e.runner,
			e.repository,
			validator.New(validator.WithRequiredStructEnabled()),
			logger,
		),
	}
}

// RegisterWebhooks loads the workflow at path and exposes its webhook triggers.
func (a *API) RegisterWebhooks(path string) error {
	wf, err := workflow.LoadFile(path)
	if err != nil {
		return err
	}

	keys, err := a.handlers.Webhooks().Register(wf)
	if err != nil {
		return fmt.Errorf("failed to register webhooks of %s: %w", path, err)
	}

	a.logger.Info("Webhooks registered", "workflow_id", wf.ID, "routes", keys)

	return nil
}

// Serve listens on port until ctx is done, then shuts the server down and waits for
// asynchronous runs to return.
func (a *API) Serve(ctx context.Context, port int, shutdownTimeout time.Duration) error {
	app := a.handlers.App()

	errs := make(chan error, 1)

	go func() {
		errs <- app.Listen(":" + strconv.Itoa(port))
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down flowgraph API")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		a.logger.Error("Failed to shut down API", "error", err)
	}

	a.handlers.Wait()

	return nil
}
