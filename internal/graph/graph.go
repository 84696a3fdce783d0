package graph

import (
	"fmt"
	"log"
	"sort"
)

// Build constructs a TaskGraph from task and dependency records. Edges that
// reference tasks outside the set are skipped with a warning so a partially
// loaded project still produces a usable graph. A self-referencing edge is a
// hard error.
func Build(tasks []*Task, deps []Dependency) (*TaskGraph, error) {
	g := &TaskGraph{
		Tasks: make(map[string]*Task, len(tasks)),
		Preds: make(map[string][]Dependency),
		Succs: make(map[string][]Dependency),
	}

	for _, t := range tasks {
		if _, dup := g.Tasks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %q", t.ID)
		}
		g.Tasks[t.ID] = t
	}

	// Dedup on the full record: the same task pair may legitimately carry
	// several differently-typed dependencies, and each one must contribute
	// its own candidate during the passes.
	edgeSet := make(map[Dependency]bool)
	for _, d := range deps {
		if d.PredecessorID == d.SuccessorID {
			return nil, fmt.Errorf("task %q depends on itself", d.PredecessorID)
		}
		if _, err := ParseDepType(string(d.Type)); err != nil {
			return nil, err
		}
		if _, ok := g.Tasks[d.PredecessorID]; !ok {
			log.Printf("warning: dependency references unknown task %s, skipping", d.PredecessorID)
			continue
		}
		if _, ok := g.Tasks[d.SuccessorID]; !ok {
			log.Printf("warning: dependency references unknown task %s, skipping", d.SuccessorID)
			continue
		}
		if edgeSet[d] {
			continue
		}
		edgeSet[d] = true
		g.Succs[d.PredecessorID] = append(g.Succs[d.PredecessorID], d)
		g.Preds[d.SuccessorID] = append(g.Preds[d.SuccessorID], d)
	}

	// Sort edge lists for deterministic traversal
	for k := range g.Succs {
		es := g.Succs[k]
		sort.Slice(es, func(i, j int) bool { return es[i].SuccessorID < es[j].SuccessorID })
	}
	for k := range g.Preds {
		es := g.Preds[k]
		sort.Slice(es, func(i, j int) bool { return es[i].PredecessorID < es[j].PredecessorID })
	}

	for id := range g.Tasks {
		if len(g.Preds[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Succs[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	return g, nil
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// TopoSort returns the task ids in an order that places every predecessor
// before its successors, using Kahn's algorithm. Ready tasks are taken in id
// order for determinism. A cycle yields *CircularDependencyError.
func (g *TaskGraph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.Tasks))
	for id := range g.Tasks {
		inDegree[id] = len(g.Preds[id])
	}

	var queue []string
	for id := range g.Tasks {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, e := range g.Succs[node] {
			inDegree[e.SuccessorID]--
			if inDegree[e.SuccessorID] == 0 {
				newReady = append(newReady, e.SuccessorID)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.Tasks) {
		return nil, &CircularDependencyError{Cycle: g.DetectCycle()}
	}

	return order, nil
}

// DetectCycle returns the cycle path if one exists, or nil for an acyclic
// graph. DFS with coloring: white (unvisited), gray (in progress), black
// (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, e := range g.Succs[node] {
			next := e.SuccessorID
			if color[next] == gray {
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
