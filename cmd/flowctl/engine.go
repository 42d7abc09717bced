package main

import (
	"context"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/cmd"
	"github.com/dukex/flowgraph/pkg/eventbus"
	"github.com/dukex/flowgraph/pkg/otelhelper"
	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/dukex/flowgraph/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

// engine holds everything a command needs to plan and run workflows.
type engine struct {
	logger     *slog.Logger
	registry   *registry.Registry
	runner     *workflow.Runner
	repository persistence.RunRepository
	eventBus   eventbus.EventBus
	shutdown   otelhelper.ShutdownFunc
}

func newEngine(ctx context.Context, command *cli.Command, logger *slog.Logger) (*engine, error) {
	deps := cmd.NewDependencies(cmd.CollaboratorConfig{
		ToolEndpoint:      command.String("tool-endpoint"),
		ConnectorEndpoint: command.String("connector-endpoint"),
		OllamaURL:         command.String("ollama-url"),
		OllamaModel:       command.String("ollama-model"),
		Timeout:           command.Duration("collaborator-timeout"),
		Attempts:          command.Int("collaborator-attempts"),
	}, logger)

	reg, err := cmd.NewRegistry(logger, deps, command.String("plugins-path"))
	if err != nil {
		return nil, err
	}

	e := &engine{logger: logger, registry: reg}

	e.repository, err = cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, err
	}

	e.eventBus, err = cmd.NewEventBus(command.String("event-bus"), command.StringSlice("kafka-brokers"), logger)
	if err != nil {
		e.Close(ctx)

		return nil, err
	}

	tracer := otelhelper.NoopTracer()

	if command.Bool("tracing") {
		tracer, e.shutdown, err = otelhelper.NewTracer(ctx, "flowgraph")
		if err != nil {
			e.Close(ctx)

			return nil, err
		}
	}

	opts := []workflow.Option{
		workflow.WithTracer(tracer),
		workflow.WithMaxConcurrency(command.Int("max-concurrency")),
	}

	if e.repository != nil {
		opts = append(opts, workflow.WithRepository(e.repository))
	}

	if e.eventBus != nil {
		opts = append(opts, workflow.WithPublisher(e.eventBus))

		if command.Bool("watch-events") {
			if err := watchEvents(ctx, e.eventBus, logger); err != nil {
				e.Close(ctx)

				return nil, err
			}
		}
	}

	e.runner = workflow.NewRunner(workflow.NewExecutor(reg, logger), logger, opts...)

	return e, nil
}

func (e *engine) Close(ctx context.Context) {
	if e.eventBus != nil {
		if err := e.eventBus.Close(); err != nil {
			e.logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}

	if e.repository != nil {
		if err := e.repository.Close(ctx); err != nil {
			e.logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}

	if e.shutdown != nil {
		if err := e.shutdown(context.WithoutCancel(ctx)); err != nil {
			e.logger.ErrorContext(ctx, "Failed to shut down tracer", "error", err)
		}
	}
}

func watchEvents(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	l := logger.With("module", "events")

	if err := bus.HandleAll(func(ctx context.Context, event any) error {
		if e, ok := event.(eventbus.Event); ok {
			l.InfoContext(ctx, "Event received", "type", e.GetType(), "event", event)
		}

		return nil
	}); err != nil {
		return err
	}

	return bus.Subscribe(ctx)
}
