// Package file provides file-based persistence for workflow runs, one JSON document per run.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
)

// Persistence implements persistence.RunRepository using the file system.
type Persistence struct {
	root string
	mu   sync.Mutex
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
// A file:// prefix is accepted.
func NewPersistence(root string) *Persistence {
	return &Persistence{root: strings.Replace(root, "file://", "", 1)}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks that the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) runsDir() string {
	return filepath.Join(fp.root, "runs")
}

// validateRunID rejects ids that would escape the runs directory.
func validateRunID(runID string) error {
	if runID == "" {
		return fmt.Errorf("%w: empty", persistence.ErrInvalidRunID)
	}

	if strings.Contains(runID, "..") || strings.ContainsAny(runID, `/\`) {
		return fmt.Errorf("%w: %q contains invalid characters", persistence.ErrInvalidRunID, runID)
	}

	return nil
}

func (fp *Persistence) SaveRun(_ context.Context, run *models.Run) error {
	if err := validateRunID(run.ID); err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	stored := run.Clone()

	existing, err := fp.read(run.ID)

	switch {
	case err == nil:
		stored.Nodes = existing.Nodes
	case errors.Is(err, persistence.ErrRunNotFound):
	default:
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	if err := fp.write(stored); err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	return nil
}

func (fp *Persistence) SaveNodeState(_ context.Context, runID string, state *models.NodeState) error {
	if err := validateRunID(runID); err != nil {
		return persistence.NewRunError("SaveNodeState", runID, err)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	run, err := fp.read(runID)
	if err != nil {
		return persistence.NewRunError("SaveNodeState", runID, err)
	}

	s := *state
	run.Nodes[state.NodeID] = &s

	if err := fp.write(run); err != nil {
		return persistence.NewRunError("SaveNodeState", runID, err)
	}

	return nil
}

func (fp *Persistence) RunByID(_ context.Context, id string) (*models.Run, error) {
	if err := validateRunID(id); err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	run, err := fp.read(id)
	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	return run, nil
}

func (fp *Persistence) Runs(_ context.Context, workflowID string) ([]*models.Run, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	entries, err := os.ReadDir(fp.runsDir())
	if errors.Is(err, fs.ErrNotExist) {
		return []*models.Run{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	runs := make([]*models.Run, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		run, err := fp.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}

		if workflowID == "" || run.WorkflowID == workflowID {
			runs = append(runs, run)
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

func (fp *Persistence) read(runID string) (*models.Run, error) {
	data, err := os.ReadFile(filepath.Join(fp.runsDir(), runID+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, persistence.ErrRunNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", runID, err)
	}

	var run models.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", runID, err)
	}

	if run.Nodes == nil {
		run.Nodes = make(map[string]*models.NodeState)
	}

	return &run, nil
}

// write replaces the run document through a temporary file so readers never see a partial write.
func (fp *Persistence) write(run *models.Run) error {
	err := os.MkdirAll(fp.runsDir(), 0750)
	if err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}

	tmp, err := os.CreateTemp(fp.runsDir(), run.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for run %s: %w", run.ID, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write run %s: %w", run.ID, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write run %s: %w", run.ID, err)
	}

	return os.Rename(tmp.Name(), filepath.Join(fp.runsDir(), run.ID+".json"))
}
