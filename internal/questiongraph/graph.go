// Package questiongraph holds prompts in an acyclic progression graph and
// selects which prompt to surface next.
package questiongraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zhongchar/zhongchar/internal/prompt"
)

var (
	// ErrCycleRejected is returned when an edge would make the graph cyclic.
	ErrCycleRejected = errors.New("questiongraph: edge would create a cycle")

	// ErrNodeNotFound is returned for an index or ID not in the graph.
	ErrNodeNotFound = errors.New("questiongraph: node not found")
)

// CycleError describes a rejected edge.
type CycleError struct {
	From NodeIndex
	To   NodeIndex
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("add edge %d -> %d: %v", e.From, e.To, ErrCycleRejected)
}

func (e *CycleError) Unwrap() error { return ErrCycleRejected }

// NodeIndex addresses a node in the graph's arena.
type NodeIndex int

// Node holds one shared prompt.
type Node struct {
	Prompt prompt.Prompt
}

// Graph is an arena of nodes with directed, payload-free edges. An edge
// from A to B means B comes after A. The edge relation is always acyclic.
type Graph struct {
	nodes    []Node
	children [][]NodeIndex
	parents  []int
	byID     map[string]NodeIndex
	edges    int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{byID: make(map[string]NodeIndex)}
}

// AddNode appends p to the arena and returns its index. If another prompt
// already uses the same ID, IndexOf keeps resolving to the first one.
func (g *Graph) AddNode(p prompt.Prompt) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, Node{Prompt: p})
	g.children = append(g.children, nil)
	g.parents = append(g.parents, 0)
	if _, ok := g.byID[p.ID()]; !ok {
		g.byID[p.ID()] = idx
	}
	return idx
}

// AddEdge adds an edge from -> to. It fails with a *CycleError if to can
// already reach from, self-loops included. The graph is unchanged on error.
func (g *Graph) AddEdge(from, to NodeIndex) error {
	if !g.contains(from) {
		return fmt.Errorf("add edge from %d: %w", from, ErrNodeNotFound)
	}
	if !g.contains(to) {
		return fmt.Errorf("add edge to %d: %w", to, ErrNodeNotFound)
	}
	if g.reaches(to, from) {
		return &CycleError{From: from, To: to}
	}

	g.children[from] = append(g.children[from], to)
	g.parents[to]++
	g.edges++
	return nil
}

// reaches reports whether target is reachable from start, start included.
func (g *Graph) reaches(start, target NodeIndex) bool {
	visited := make([]bool, len(g.nodes))
	stack := []NodeIndex{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, g.children[n]...)
	}
	return false
}

func (g *Graph) contains(i NodeIndex) bool {
	return i >= 0 && int(i) < len(g.nodes)
}

// Node returns the node at i.
func (g *Graph) Node(i NodeIndex) (Node, error) {
	if !g.contains(i) {
		return Node{}, fmt.Errorf("node %d: %w", i, ErrNodeNotFound)
	}
	return g.nodes[i], nil
}

// Children returns the edge targets of i in insertion order.
func (g *Graph) Children(i NodeIndex) []NodeIndex {
	if !g.contains(i) {
		return nil
	}
	return slices.Clone(g.children[i])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// IndexOf looks up a node by its prompt ID.
func (g *Graph) IndexOf(id string) (NodeIndex, bool) {
	idx, ok := g.byID[id]
	return idx, ok
}

// Indices returns every node index in insertion order.
func (g *Graph) Indices() []NodeIndex {
	out := make([]NodeIndex, len(g.nodes))
	for i := range out {
		out[i] = NodeIndex(i)
	}
	return out
}

// Roots returns the nodes without incoming edges, in insertion order.
func (g *Graph) Roots() []NodeIndex {
	var out []NodeIndex
	for i, n := range g.parents {
		if n == 0 {
			out = append(out, NodeIndex(i))
		}
	}
	return out
}

// TopologicalOrder returns every node so that each edge points forward.
// Ties keep insertion order (Kahn's algorithm).
func (g *Graph) TopologicalOrder() []NodeIndex {
	inDegree := slices.Clone(g.parents)
	queue := g.Roots()

	order := make([]NodeIndex, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, c := range g.children[n] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return order
}
