package questiongraph

import (
	"fmt"

	"github.com/zhongchar/zhongchar/internal/prompt"
)

// Edge connects two prompts by ID: To comes after From.
type Edge struct {
	From string
	To   string
}

// Build constructs a graph from a node list and an edge list. Prompt IDs
// must be unique and every edge must name known prompts. The first edge that
// would close a cycle aborts the build with an error wrapping
// ErrCycleRejected.
func Build(prompts []prompt.Prompt, edges []Edge) (*Graph, error) {
	g := New()
	for _, p := range prompts {
		if _, dup := g.IndexOf(p.ID()); dup {
			return nil, fmt.Errorf("build graph: duplicate prompt ID %q", p.ID())
		}
		g.AddNode(p)
	}

	for _, e := range edges {
		from, ok := g.IndexOf(e.From)
		if !ok {
			return nil, fmt.Errorf("build graph: edge %s -> %s: unknown %q: %w", e.From, e.To, e.From, ErrNodeNotFound)
		}
		to, ok := g.IndexOf(e.To)
		if !ok {
			return nil, fmt.Errorf("build graph: edge %s -> %s: unknown %q: %w", e.From, e.To, e.To, ErrNodeNotFound)
		}
		if err := g.AddEdge(from, to); err != nil {
			return nil, fmt.Errorf("build graph: edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}
