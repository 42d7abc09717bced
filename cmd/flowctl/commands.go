package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dukex/flowgraph/pkg/log"
	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/workflow"
	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var errMissingWorkflow = errors.New("a workflow file is required")

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Print the execution stages of a workflow",
		ArgsUsage: "<workflow file>",
		Action: func(_ context.Context, command *cli.Command) error {
			wf, err := loadWorkflowArg(command)
			if err != nil {
				return err
			}

			plan, err := workflow.BuildExecutionPlan(wf.Nodes, wf.Connections)
			if err != nil {
				return err
			}

			return writeJSON(command.Root().Writer, plan)
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check the graph and every node configuration of a workflow",
		ArgsUsage: "<workflow file>",
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("validate")

			wf, err := loadWorkflowArg(command)
			if err != nil {
				return err
			}

			e, err := newEngine(ctx, command, logger)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			if err := workflow.Validate(ctx, wf, e.registry); err != nil {
				return err
			}

			_, err = fmt.Fprintf(command.Root().Writer, "%s is valid\n", wf.ID)

			return err
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a workflow once and print the result",
		ArgsUsage: "<workflow file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "trigger",
				Usage: "Trigger payload as JSON",
			},
			&cli.StringFlag{
				Name:  "trigger-file",
				Usage: "Path to a JSON or YAML trigger payload",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Cancel the run after this long (0 waits forever)",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("run")

			wf, err := loadWorkflowArg(command)
			if err != nil {
				return err
			}

			trigger, err := triggerPayload(command.String("trigger"), command.String("trigger-file"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if timeout := command.Duration("timeout"); timeout > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			e, err := newEngine(ctx, command, logger)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			result, err := e.runner.Run(ctx, wf, trigger)
			if result != nil {
				if werr := writeJSON(command.Root().Writer, result); werr != nil {
					return werr
				}
			}

			if err != nil {
				return err
			}

			if result.Status != models.RunStatusCompleted {
				return fmt.Errorf("run %s finished as %s", result.ExecutionID, result.Status)
			}

			return nil
		},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:      "schedule",
		Usage:     "Run workflows on their schedule triggers until interrupted",
		ArgsUsage: "<workflow file>...",
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("scheduler")

			if command.NArg() == 0 {
				return errMissingWorkflow
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := newEngine(ctx, command, logger)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			scheduler := workflow.NewScheduler(e.registry, e.runner, logger)

			for _, path := range command.Args().Slice() {
				wf, err := workflow.LoadFile(path)
				if err != nil {
					return err
				}

				if err := scheduler.Add(ctx, wf); err != nil {
					return fmt.Errorf("failed to schedule %s: %w", path, err)
				}
			}

			logger.InfoContext(ctx, "Scheduler started", "entries", scheduler.Entries())

			return scheduler.Start(ctx)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the planning and execution HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringSliceFlag{
				Name:  "webhook-workflow",
				Usage: "Workflow file whose webhook triggers are served under /webhooks",
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "How long to wait for in-flight requests on shutdown",
				Value: 10 * time.Second,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("api")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.InfoContext(ctx, "Initializing flowgraph API")

			e, err := newEngine(ctx, command, logger)
			if err != nil {
				return err
			}
			defer e.Close(ctx)

			api := NewAPI(ctx, logger, e)

			for _, path := range command.StringSlice("webhook-workflow") {
				if err := api.RegisterWebhooks(path); err != nil {
					return err
				}
			}

			return api.Serve(ctx, command.Int("port"), command.Duration("shutdown-timeout"))
		},
	}
}

func loadWorkflowArg(command *cli.Command) (*models.Workflow, error) {
	path := command.Args().First()
	if path == "" {
		return nil, errMissingWorkflow
	}

	return workflow.LoadFile(path)
}

func triggerPayload(raw, path string) (any, error) {
	if raw != "" && path != "" {
		return nil, errors.New("use either --trigger or --trigger-file")
	}

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read trigger file: %w", err)
		}

		var payload any

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &payload)
		default:
			err = json.Unmarshal(data, &payload)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to decode trigger file: %w", err)
		}

		return payload, nil
	}

	if raw == "" {
		return map[string]any{}, nil
	}

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode trigger: %w", err)
	}

	return payload, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
