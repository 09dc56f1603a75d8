package depgraph

import (
	"testing"
)

func addNode(g *Graph, id, kind string) {
	g.AddNode(Node{ID: id, Label: id, Kind: kind, Color: KindColor(kind)})
}

func TestAddEdge_IgnoresSelfLoopsAndMissingEndpoints(t *testing.T) {
	g := New()
	addNode(g, "a", "theorem")
	addNode(g, "b", "definition")

	g.AddEdge("a", "a")
	g.AddEdge("a", "ghost")
	g.AddEdge("ghost", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	if g.EdgeCount() != 1 {
		t.Fatalf("expected exactly one edge, got %d", g.EdgeCount())
	}
	if !g.HasEdge("a", "b") {
		t.Error("expected edge (a, b)")
	}
	if g.HasEdge("a", "a") || g.HasEdge("ghost", "b") {
		t.Error("expected self-loop and dangling edges rejected")
	}
}

func TestNodesAndEdges_Deterministic(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		addNode(g, id, "definition")
	}
	g.AddEdge("c", "a")
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")

	nodes := g.Nodes()
	if nodes[0].ID != "a" || nodes[1].ID != "b" || nodes[2].ID != "c" {
		t.Errorf("expected nodes sorted by id, got %v", nodes)
	}

	edges := g.Edges()
	want := []Edge{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "c", To: "a"}}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(edges))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d: expected %v, got %v", i, want[i], edges[i])
		}
	}
}

func TestPredecessorsSuccessors(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		addNode(g, id, "definition")
	}
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")

	preds := g.Predecessors("c")
	if len(preds) != 2 || preds[0] != "a" || preds[1] != "b" {
		t.Errorf("expected predecessors [a b], got %v", preds)
	}
	succs := g.Successors("a")
	if len(succs) != 1 || succs[0] != "c" {
		t.Errorf("expected successors [c], got %v", succs)
	}
}

func TestKindColor(t *testing.T) {
	if KindColor("theorem") != KindColor("lemma") {
		t.Error("expected theorem and lemma to share a color")
	}
	if KindColor("gizmo") != KindColor("unknown") {
		t.Error("expected unlisted kinds to fall back to the unknown color")
	}
	if KindColor("instance") == KindColor("definition") {
		t.Error("expected instance color distinct from definition")
	}
}
