// Package postgresql provides PostgreSQL persistence for workflow runs.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence/sqlbase"
	_ "github.com/lib/pq"
)

// Persistence implements persistence.RunRepository for PostgreSQL.
type Persistence struct {
	db      *sql.DB
	logger  *slog.Logger
	runRepo *RunRepository
}

// NewPersistence connects to databaseURL and migrates the schema.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:      database,
		logger:  logger,
		runRepo: NewRunRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) SaveRun(ctx context.Context, run *models.Run) error {
	return p.runRepo.Save(ctx, run)
}

func (p *Persistence) SaveNodeState(ctx context.Context, runID string, state *models.NodeState) error {
	return p.runRepo.SaveNodeState(ctx, runID, state)
}

func (p *Persistence) RunByID(ctx context.Context, id string) (*models.Run, error) {
	return p.runRepo.GetByID(ctx, id)
}

func (p *Persistence) Runs(ctx context.Context, workflowID string) ([]*models.Run, error) {
	return p.runRepo.GetAll(ctx, workflowID)
}
