package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/dukex/flowgraph/pkg/persistence/file"
	"github.com/dukex/flowgraph/pkg/persistence/memory"
	"github.com/dukex/flowgraph/pkg/persistence/postgresql"
	"github.com/dukex/flowgraph/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"memory", "file", "postgres", "postgresql", "redis", "rediss"}

// NewPersistence opens the run repository named by databaseURL. URLs without a known
// scheme are treated as file paths; an empty URL disables persistence.
//
//nolint:ireturn
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.RunRepository, error) {
	if databaseURL == "" {
		return nil, nil //nolint:nilnil
	}

	switch parsePersistenceProvider(databaseURL) {
	case "memory":
		return memory.NewPersistence(), nil
	case "postgres", "postgresql":
		repo, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres persistence: %w", err)
		}

		return repo, nil
	case "redis", "rediss":
		repo, err := redis.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis persistence: %w", err)
		}

		return repo, nil
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")
	if len(parts) < 2 {
		return "file"
	}

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
