package workflow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dukex/flowgraph/pkg/models"
)

var (
	// ErrCyclicGraph is matched by CyclicGraphError.
	ErrCyclicGraph = errors.New("workflow graph contains a cycle")

	// ErrUnknownNode indicates a connection references a node that is not in the graph.
	ErrUnknownNode = errors.New("connection references unknown node")

	// ErrDuplicateNode indicates two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// CyclicGraphError reports the nodes that could not be ordered because they sit on
// or behind a cycle.
type CyclicGraphError struct {
	Nodes []string
}

func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("%v: unresolved nodes [%s]", ErrCyclicGraph, strings.Join(e.Nodes, ", "))
}

func (e *CyclicGraphError) Is(target error) bool {
	return target == ErrCyclicGraph
}

// ExecutionPlan groups node ids into stages. Every connection goes from a lower stage to
// a strictly higher one, so the nodes of one stage never depend on each other.
type ExecutionPlan struct {
	Stages [][]string `json:"stages"`

	stageOf map[string]int
}

// Len returns the number of stages.
func (p *ExecutionPlan) Len() int {
	return len(p.Stages)
}

// StageOf returns the stage index of a node, or -1 if the node is not in the plan.
func (p *ExecutionPlan) StageOf(nodeID string) int {
	if idx, ok := p.stageOf[nodeID]; ok {
		return idx
	}

	return -1
}

// BuildExecutionPlan assigns each node a level: 0 for nodes without incoming connections,
// otherwise one past the highest level among its sources. Nodes sharing a level form a stage.
// Levels are computed in Kahn order so each node is visited once, after all of its sources.
func BuildExecutionPlan(nodes []*models.WorkflowNode, connections []*models.Connection) (*ExecutionPlan, error) {
	ids := make([]string, 0, len(nodes))
	known := make(map[string]bool, len(nodes))

	for _, n := range nodes {
		if n == nil {
			continue
		}

		if known[n.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}

		known[n.ID] = true
		ids = append(ids, n.ID)
	}

	// Parallel edges between the same pair count once.
	sources := make(map[string]map[string]bool, len(ids))
	targets := make(map[string][]string, len(ids))

	for _, c := range connections {
		if c == nil {
			continue
		}

		if !known[c.SourceNodeID] {
			return nil, fmt.Errorf("%w: connection %s source %q", ErrUnknownNode, c.ID, c.SourceNodeID)
		}

		if !known[c.TargetNodeID] {
			return nil, fmt.Errorf("%w: connection %s target %q", ErrUnknownNode, c.ID, c.TargetNodeID)
		}

		if sources[c.TargetNodeID] == nil {
			sources[c.TargetNodeID] = make(map[string]bool)
		}

		if sources[c.TargetNodeID][c.SourceNodeID] {
			continue
		}

		sources[c.TargetNodeID][c.SourceNodeID] = true
		targets[c.SourceNodeID] = append(targets[c.SourceNodeID], c.TargetNodeID)
	}

	inDegree := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		inDegree[id] = len(sources[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	level := make(map[string]int, len(ids))
	maxLevel := 0
	visited := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++

		if level[id] > maxLevel {
			maxLevel = level[id]
		}

		for _, target := range targets[id] {
			if level[id]+1 > level[target] {
				level[target] = level[id] + 1
			}

			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if visited != len(ids) {
		var stuck []string

		for _, id := range ids {
			if inDegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}

		slices.Sort(stuck)

		return nil, &CyclicGraphError{Nodes: stuck}
	}

	plan := &ExecutionPlan{
		Stages:  make([][]string, 0, maxLevel+1),
		stageOf: make(map[string]int, len(ids)),
	}

	if len(ids) == 0 {
		return plan, nil
	}

	plan.Stages = make([][]string, maxLevel+1)

	for _, id := range ids {
		plan.Stages[level[id]] = append(plan.Stages[level[id]], id)
		plan.stageOf[id] = level[id]
	}

	for _, stage := range plan.Stages {
		slices.Sort(stage)
	}

	return plan, nil
}
