package graph

import (
	"strings"
)

// Cycle is a closed parent chain. The first id is repeated at the end.
type Cycle []string

func (c Cycle) String() string {
	return strings.Join(c, " -> ")
}

// DetectCycles follows parent edges depth-first and returns every cycle
// exactly once, rotated so it starts at its smallest id. Each record is
// visited at most once, so malformed input never causes a loop.
func (f *Forest) DetectCycles() []Cycle {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var cycles []Cycle
	for _, id := range f.order {
		if visited[id] {
			continue
		}
		if cycle := f.detectCycleDFS(id, visited, recStack, nil); cycle != nil {
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}

// detectCycleDFS walks from id towards the root. A record has at most one
// parent, so each walk can close at most one cycle.
func (f *Forest) detectCycleDFS(id string, visited, recStack map[string]bool, path []string) Cycle {
	visited[id] = true
	recStack[id] = true
	path = append(path, id)
	defer func() { recStack[id] = false }()

	parentID := f.nodes[id].ParentID
	if _, ok := f.nodes[parentID]; !ok {
		return nil
	}
	if !visited[parentID] {
		return f.detectCycleDFS(parentID, visited, recStack, path)
	}
	if recStack[parentID] {
		return buildCyclePath(path, parentID)
	}
	return nil
}

// buildCyclePath cuts the DFS path at cycleStart and rotates the result so
// the smallest id leads.
func buildCyclePath(path []string, cycleStart string) Cycle {
	startIdx := 0
	for i, id := range path {
		if id == cycleStart {
			startIdx = i
			break
		}
	}
	ring := path[startIdx:]

	lead := 0
	for i, id := range ring {
		if id < ring[lead] {
			lead = i
		}
	}

	cycle := make(Cycle, 0, len(ring)+1)
	cycle = append(cycle, ring[lead:]...)
	cycle = append(cycle, ring[:lead]...)
	return append(cycle, cycle[0])
}
