package main

import (
	"context"
	"os"

	"github.com/dukex/flowgraph/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	err := newCommand().Run(context.Background(), os.Args)
	if err != nil {
		log.WithModule("flowctl").Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "flowctl",
		Usage:                 "Plan, validate and run workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Run persistence URL (memory://, file://, postgres://, redis://)",
				Sources: cli.EnvVars("DATABASE_URL", "PERSISTENCE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus for run events (none, gochannel, kafka)",
				Value:   "none",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringSliceFlag{
				Name:    "kafka-brokers",
				Usage:   "Kafka brokers used by the kafka event bus",
				Value:   []string{"localhost:9092"},
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "watch-events",
				Usage:   "Log every event published on the event bus",
				Sources: cli.EnvVars("WATCH_EVENTS"),
			},
			&cli.StringFlag{
				Name:    "tool-endpoint",
				Usage:   "Base URL of a remote tool service; built-in tools are used when empty",
				Sources: cli.EnvVars("TOOL_ENDPOINT"),
			},
			&cli.StringFlag{
				Name:    "connector-endpoint",
				Usage:   "Base URL of a remote connector service",
				Sources: cli.EnvVars("CONNECTOR_ENDPOINT"),
			},
			&cli.StringFlag{
				Name:    "ollama-url",
				Usage:   "Ollama URL used by agent and prompt nodes",
				Sources: cli.EnvVars("OLLAMA_URL"),
			},
			&cli.StringFlag{
				Name:    "ollama-model",
				Usage:   "Ollama model name",
				Sources: cli.EnvVars("OLLAMA_MODEL"),
			},
			&cli.DurationFlag{
				Name:    "collaborator-timeout",
				Usage:   "Timeout for tool, connector and model calls",
				Sources: cli.EnvVars("COLLABORATOR_TIMEOUT"),
			},
			&cli.IntFlag{
				Name:    "collaborator-attempts",
				Usage:   "Attempts for remote tool and connector calls",
				Sources: cli.EnvVars("COLLABORATOR_ATTEMPTS"),
			},
			&cli.IntFlag{
				Name:    "max-concurrency",
				Usage:   "Maximum nodes executed at once within a stage (0 is unlimited)",
				Sources: cli.EnvVars("MAX_CONCURRENCY"),
			},
			&cli.StringFlag{
				Name:  "plugins-path",
				Usage: "Path to the directory containing node plugins",
				Value: "./plugins",
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export spans over OTLP/HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"), command.String("log-format"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			planCommand(),
			validateCommand(),
			runCommand(),
			scheduleCommand(),
			serveCommand(),
		},
	}
}
