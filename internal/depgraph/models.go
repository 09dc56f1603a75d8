// Package depgraph derives a directed dependency graph from a Lean
// library: an edge (u, v) means declaration v's definition or proof uses
// declaration u.
package depgraph

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Color is an RGBA rendering color attached to a node for visualization.
type Color struct {
	A int `json:"a" yaml:"a"`
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

// Node represents one declaration in the dependency graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Color Color  `json:"color"`
}

// Edge is a directed edge: To's definition or proof uses From.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// kindColors maps a declaration's user-facing kind to its display color.
// Kinds without an entry render with the "unknown" color; the node still
// keeps its true kind string.
var kindColors = map[string]Color{
	"theorem":    {A: 1, R: 9, G: 200, B: 200},
	"lemma":      {A: 1, R: 9, G: 200, B: 200},
	"definition": {A: 1, R: 9, G: 173, B: 236},
	"structure":  {A: 1, R: 9, G: 173, B: 236},
	"constant":   {A: 1, R: 9, G: 173, B: 236},
	"axiom":      {A: 1, R: 9, G: 173, B: 236},
	"class":      {A: 1, R: 9, G: 173, B: 236},
	"inductive":  {A: 1, R: 9, G: 173, B: 236},
	"instance":   {A: 1, R: 9, G: 253, B: 136},
	"unknown":    {A: 1, R: 10, G: 10, B: 10},
}

// KindColor resolves the display color for a kind, falling back to the
// "unknown" entry for kinds outside the table.
func KindColor(kind string) Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return kindColors["unknown"]
}

// ancestorCacheSize bounds the memoized ancestor closures kept per graph.
const ancestorCacheSize = 512

// Graph is a directed dependency graph over declaration names. Edge
// insertion is idempotent and self-loops are rejected, so rebuilding from
// the same library always yields the same node and edge sets.
type Graph struct {
	nodes map[string]Node
	succ  map[string]map[string]struct{}
	pred  map[string]map[string]struct{}

	ancestors *lru.Cache[string, []string]
}

// New creates an empty graph.
func New() *Graph {
	cache, _ := lru.New[string, []string](ancestorCacheSize)
	return &Graph{
		nodes:     make(map[string]Node),
		succ:      make(map[string]map[string]struct{}),
		pred:      make(map[string]map[string]struct{}),
		ancestors: cache,
	}
}

// AddNode inserts or replaces a node.
func (g *Graph) AddNode(n Node) {
	g.nodes[n.ID] = n
	g.ancestors.Purge()
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddEdge inserts the edge (from, to) if both endpoints exist as nodes.
// Duplicate insertions collapse; self-loops are ignored.
func (g *Graph) AddEdge(from, to string) {
	if from == to || !g.HasNode(from) || !g.HasNode(to) {
		return
	}
	if g.succ[from] == nil {
		g.succ[from] = make(map[string]struct{})
	}
	if g.pred[to] == nil {
		g.pred[to] = make(map[string]struct{})
	}
	g.succ[from][to] = struct{}{}
	g.pred[to][from] = struct{}{}
	g.ancestors.Purge()
}

// HasEdge reports whether the edge (from, to) exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.succ[from][to]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, tos := range g.succ {
		count += len(tos)
	}
	return count
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns all edges ordered by (from, to).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for from, tos := range g.succ {
		for to := range tos {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Predecessors returns the direct dependencies of a node (every u with an
// edge (u, id)), sorted.
func (g *Graph) Predecessors(id string) []string {
	return sortedKeys(g.pred[id])
}

// Successors returns the direct users of a node, sorted.
func (g *Graph) Successors(id string) []string {
	return sortedKeys(g.succ[id])
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
