package questiongraph

import (
	"fmt"
	"strings"
)

// Validate checks a node ID list and edge list for structural problems
// before Build. It returns one combined error describing every problem
// found, or nil if the input would build cleanly.
func Validate(ids []string, edges []Edge) error {
	var errs []string

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			errs = append(errs, "empty node ID")
			continue
		}
		if idSet[id] {
			errs = append(errs, fmt.Sprintf("duplicate node ID: %q", id))
		}
		idSet[id] = true
	}

	inDegree := make(map[string]int, len(ids))
	adjList := make(map[string][]string)
	for _, e := range edges {
		dangling := false
		for _, ref := range []string{e.From, e.To} {
			if !idSet[ref] {
				errs = append(errs, fmt.Sprintf("edge %s -> %s references nonexistent node %q", e.From, e.To, ref))
				dangling = true
			}
		}
		if dangling {
			continue
		}
		inDegree[e.To]++
		adjList[e.From] = append(adjList[e.From], e.To)
	}

	// Kahn's algorithm over the known nodes.
	var queue []string
	seen := make(map[string]bool, len(idSet))
	for _, id := range ids {
		if idSet[id] && !seen[id] && inDegree[id] == 0 {
			queue = append(queue, id)
		}
		seen[id] = true
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjList[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited < len(idSet) {
		var cycleNodes []string
		reported := make(map[string]bool)
		for _, id := range ids {
			if inDegree[id] > 0 && !reported[id] {
				cycleNodes = append(cycleNodes, id)
				reported[id] = true
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("question graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
