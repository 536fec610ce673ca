package content

import (
	"fmt"

	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/prompt"
	"github.com/zhongchar/zhongchar/internal/questiongraph"
)

// Edges derives graph edges from each item's Follows list: an edge runs from
// the followed item to the item that follows it.
func Edges(items []Item) []questiongraph.Edge {
	var edges []questiongraph.Edge
	for _, it := range items {
		for _, prev := range it.Follows {
			edges = append(edges, questiongraph.Edge{From: prev, To: it.ID})
		}
	}
	return edges
}

// Graph is a question graph together with its radical prompts by item ID.
type Graph struct {
	*questiongraph.Graph
	Prompts map[string]*prompt.RadicalForm
}

// BuildGraph validates items and builds a question graph of radical prompts,
// seeding each prompt's understanding from ledger.
func BuildGraph(items []Item, ledger *mastery.Service) (*Graph, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	edges := Edges(items)
	if err := questiongraph.Validate(ids, edges); err != nil {
		return nil, err
	}

	prompts := make([]prompt.Prompt, len(items))
	byID := make(map[string]*prompt.RadicalForm, len(items))
	for i, it := range items {
		r, err := it.Rune()
		if err != nil {
			return nil, err
		}
		p := prompt.NewRadicalForm(it.ID, r, it.RadicalNumber, ledger.Get(it.ID))
		prompts[i] = p
		byID[it.ID] = p
	}

	g, err := questiongraph.Build(prompts, edges)
	if err != nil {
		return nil, fmt.Errorf("build question graph: %w", err)
	}
	return &Graph{Graph: g, Prompts: byID}, nil
}
