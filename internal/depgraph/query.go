package depgraph

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound marks a query against a node id absent from the graph.
var ErrNodeNotFound = errors.New("node not found")

// Ancestors returns every node with a directed path reaching id, i.e. the
// transitive dependencies of the declaration. The traversal is a reverse
// breadth-first search, so cyclic subgraphs terminate normally. Results
// are memoized per graph.
func (g *Graph) Ancestors(id string) ([]string, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("ancestors of %s: %w", id, ErrNodeNotFound)
	}
	if cached, ok := g.ancestors.Get(id); ok {
		return cached, nil
	}

	seen := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for p := range g.pred[current] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	delete(seen, id)

	out := sortedKeys(seen)
	g.ancestors.Add(id, out)
	return out, nil
}

// ComponentOf returns the induced subgraph over {key} plus every ancestor
// of key: the complete set of declarations needed to define key. The key
// must exist; a miss is an error, not an empty result.
func (g *Graph) ComponentOf(key string) (*Graph, error) {
	anc, err := g.Ancestors(key)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]struct{}, len(anc)+1)
	keep[key] = struct{}{}
	for _, id := range anc {
		keep[id] = struct{}{}
	}

	sub := New()
	for id := range keep {
		sub.AddNode(g.nodes[id])
	}
	for from := range keep {
		for to := range g.succ[from] {
			if _, ok := keep[to]; ok {
				sub.AddEdge(from, to)
			}
		}
	}
	return sub, nil
}
