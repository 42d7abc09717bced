package redis_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/dukex/flowgraph/pkg/persistence/persistencetest"
	redispersistence "github.com/dukex/flowgraph/pkg/persistence/redis"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s", host, port.Port())
}

func TestPersistence(t *testing.T) {
	baseURL := startRedis(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db := 0

	persistencetest.RunRepository(t, func(t *testing.T) persistence.RunRepository {
		// a fresh logical database per subtest keeps the indexes isolated
		db++

		repo, err := redispersistence.NewPersistence(context.Background(), logger, fmt.Sprintf("%s/%d", baseURL, db))
		require.NoError(t, err)

		t.Cleanup(func() {
			_ = repo.Close(context.Background())
		})

		return repo
	})
}

func TestNewPersistence_InvalidURL(t *testing.T) {
	_, err := redispersistence.NewPersistence(context.Background(), slog.Default(), "://nope")
	require.Error(t, err)
}
