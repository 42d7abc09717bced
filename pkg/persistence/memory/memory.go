// Package memory provides an in-process RunRepository.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
)

// Persistence keeps runs in memory. Stored and returned runs are copies.
type Persistence struct {
	mu   sync.RWMutex
	runs map[string]*models.Run
}

// NewPersistence creates an empty in-memory repository.
func NewPersistence() *Persistence {
	return &Persistence{runs: make(map[string]*models.Run)}
}

func (p *Persistence) SaveRun(_ context.Context, run *models.Run) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := run.Clone()

	if existing, ok := p.runs[run.ID]; ok {
		stored.Nodes = existing.Nodes
	} else {
		stored.Nodes = make(map[string]*models.NodeState)
	}

	p.runs[run.ID] = stored

	return nil
}

func (p *Persistence) SaveNodeState(_ context.Context, runID string, state *models.NodeState) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	run, ok := p.runs[runID]
	if !ok {
		return persistence.NewRunError("SaveNodeState", runID, persistence.ErrRunNotFound)
	}

	s := *state
	run.Nodes[state.NodeID] = &s

	return nil
}

func (p *Persistence) RunByID(_ context.Context, id string) (*models.Run, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	run, ok := p.runs[id]
	if !ok {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	return run.Clone(), nil
}

func (p *Persistence) Runs(_ context.Context, workflowID string) ([]*models.Run, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	runs := make([]*models.Run, 0, len(p.runs))

	for _, run := range p.runs {
		if workflowID == "" || run.WorkflowID == workflowID {
			runs = append(runs, run.Clone())
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
