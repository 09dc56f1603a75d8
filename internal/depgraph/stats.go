package depgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Stats holds computed metrics about a dependency graph.
type Stats struct {
	TotalNodes          int            `json:"total_nodes"`
	TotalEdges          int            `json:"total_edges"`
	KindCounts          map[string]int `json:"kind_counts"`
	MaxFanOut           int            `json:"max_fan_out"` // most direct users
	MaxFanIn            int            `json:"max_fan_in"`  // most direct dependencies
	HotspotNode         string         `json:"hotspot_node"`
	ConnectedComponents int            `json:"connected_components"`
	Cycles              [][]string     `json:"cycles,omitempty"`
}

// ComputeStats computes graph metrics: per-kind node counts, fan-in and
// fan-out extremes, weakly connected components and dependency cycles.
func (g *Graph) ComputeStats() Stats {
	s := Stats{
		TotalNodes: g.NodeCount(),
		TotalEdges: g.EdgeCount(),
		KindCounts: make(map[string]int),
	}

	for _, n := range g.nodes {
		s.KindCounts[n.Kind]++
	}

	for _, n := range g.Nodes() {
		if out := len(g.succ[n.ID]); out > s.MaxFanOut {
			s.MaxFanOut = out
			s.HotspotNode = n.ID
		}
		if in := len(g.pred[n.ID]); in > s.MaxFanIn {
			s.MaxFanIn = in
		}
	}

	s.ConnectedComponents = g.countComponents()
	s.Cycles = g.detectCycles()
	return s
}

// countComponents counts weakly connected components via union-find.
func (g *Graph) countComponents() int {
	parent := make(map[string]string)
	var find func(string) string
	find = func(x string) string {
		if parent[x] == "" {
			parent[x] = x
		}
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		fa, fb := find(a), find(b)
		if fa != fb {
			parent[fa] = fb
		}
	}

	for id := range g.nodes {
		find(id)
	}
	for from, tos := range g.succ {
		for to := range tos {
			union(from, to)
		}
	}

	roots := make(map[string]bool)
	for id := range g.nodes {
		roots[find(id)] = true
	}
	return len(roots)
}

// detectCycles finds dependency cycles using DFS. Well-formed libraries
// are acyclic; any cycle reported here points at corrupt upstream data.
func (g *Graph) detectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done
	path := make([]string, 0)

	var dfs func(node string)
	dfs = func(node string) {
		if visited[node] == 2 {
			return
		}
		if visited[node] == 1 {
			cycle := make([]string, 0)
			for i := len(path) - 1; i >= 0; i-- {
				cycle = append(cycle, path[i])
				if path[i] == node {
					break
				}
			}
			for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
				cycle[i], cycle[j] = cycle[j], cycle[i]
			}
			cycles = append(cycles, cycle)
			return
		}
		visited[node] = 1
		path = append(path, node)
		for _, next := range sortedKeys(g.succ[node]) {
			dfs(next)
		}
		path = path[:len(path)-1]
		visited[node] = 2
	}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if visited[id] == 0 {
			dfs(id)
		}
	}
	return cycles
}

// FormatStats returns a human-readable summary of graph statistics.
func FormatStats(s Stats) string {
	var b strings.Builder
	b.WriteString("Dependency Graph Statistics\n")
	b.WriteString("==========================\n\n")
	b.WriteString(fmt.Sprintf("Nodes:       %d total\n", s.TotalNodes))

	kinds := make([]string, 0, len(s.KindCounts))
	for k := range s.KindCounts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		b.WriteString(fmt.Sprintf("  %-10s %d\n", k+":", s.KindCounts[k]))
	}

	b.WriteString(fmt.Sprintf("Edges:       %d total\n", s.TotalEdges))
	b.WriteString(fmt.Sprintf("Max Fan-Out: %d (%s)\n", s.MaxFanOut, s.HotspotNode))
	b.WriteString(fmt.Sprintf("Max Fan-In:  %d\n", s.MaxFanIn))
	b.WriteString(fmt.Sprintf("Components:  %d\n", s.ConnectedComponents))

	if len(s.Cycles) > 0 {
		b.WriteString(fmt.Sprintf("\nDependency cycles: %d\n", len(s.Cycles)))
		for i, cycle := range s.Cycles {
			b.WriteString(fmt.Sprintf("  %d: %s\n", i+1, strings.Join(cycle, " -> ")))
		}
	}

	return b.String()
}
