package questiongraph

import "github.com/zhongchar/zhongchar/internal/mastery"

// FindShallowNode searches breadth-first from start, start included, and
// returns the nearest node the learner does not know. If every reachable
// node is known, it returns the first Know node discovered. It returns false
// when all reachable nodes are InstantRecall or start is not in the graph.
//
// Children are enqueued regardless of the node's own state, so the search
// looks past known and mastered nodes for deeper unknown ones.
func (g *Graph) FindShallowNode(start NodeIndex) (NodeIndex, bool) {
	if !g.contains(start) {
		return 0, false
	}

	visited := make([]bool, len(g.nodes))
	queue := []NodeIndex{start}

	know, haveKnow := NodeIndex(0), false
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true

		switch g.nodes[n].Prompt.CurrentUnderstanding().Level {
		case mastery.DontKnow:
			return n, true
		case mastery.Know:
			if !haveKnow {
				know, haveKnow = n, true
			}
		}

		queue = append(queue, g.children[n]...)
	}
	return know, haveKnow
}
