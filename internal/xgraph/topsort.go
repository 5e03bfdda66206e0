// Package xgraph provides the generic topological sort the scene Recipe
// strategy uses to linearize a SetParent-edged entity graph into a
// command list that can replay in dependency order (a child's AddComponent/
// SetParent commands never precede its parent's Spawn).
package xgraph

// Edge is a directed dependency: From must be ordered before To.
type Edge[T comparable] struct {
	From, To T
}

// CycleError reports that nodes could not be fully ordered because they
// form a cycle; Remaining lists the nodes Kahn's algorithm never reached
// zero in-degree for.
type CycleError[T comparable] struct {
	Remaining []T
}

func (e *CycleError[T]) Error() string {
	return "xgraph: cycle detected, cannot topologically sort"
}

// TopologicalSort runs Kahn's algorithm over nodes and edges, returning
// nodes ordered so that for every edge (from, to), from precedes to.
// Ties (multiple zero-in-degree nodes ready at once) break in the order
// nodes were given, so the result is deterministic for identical input.
func TopologicalSort[T comparable](nodes []T, edges []Edge[T]) ([]T, error) {
	inDegree := make(map[T]int, len(nodes))
	adjacency := make(map[T][]T, len(nodes))
	for _, n := range nodes {
		inDegree[n] = 0
	}
	for _, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
		inDegree[e.To]++
	}

	queue := make([]T, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	sorted := make([]T, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		sorted = append(sorted, n)
		for _, next := range adjacency[n] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(nodes) {
		remaining := make([]T, 0, len(nodes)-len(sorted))
		sortedSet := make(map[T]bool, len(sorted))
		for _, n := range sorted {
			sortedSet[n] = true
		}
		for _, n := range nodes {
			if !sortedSet[n] {
				remaining = append(remaining, n)
			}
		}
		return nil, &CycleError[T]{Remaining: remaining}
	}
	return sorted, nil
}
