package depgraph

import (
	"errors"
	"testing"
)

// chain builds a -> b -> c with d isolated.
func chainGraph() *Graph {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		addNode(g, id, "definition")
	}
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	return g
}

func TestAncestors_TransitiveClosure(t *testing.T) {
	g := chainGraph()

	anc, err := g.Ancestors("c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anc) != 2 || anc[0] != "a" || anc[1] != "b" {
		t.Errorf("expected ancestors [a b], got %v", anc)
	}

	anc, err = g.Ancestors("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anc) != 0 {
		t.Errorf("expected no ancestors for a root, got %v", anc)
	}
}

func TestAncestors_MissingNode(t *testing.T) {
	g := chainGraph()
	_, err := g.Ancestors("ghost")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestAncestors_CycleTerminates(t *testing.T) {
	g := New()
	for _, id := range []string{"x", "y", "z"} {
		addNode(g, id, "definition")
	}
	g.AddEdge("x", "y")
	g.AddEdge("y", "z")
	g.AddEdge("z", "x")

	anc, err := g.Ancestors("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anc) != 2 || anc[0] != "y" || anc[1] != "z" {
		t.Errorf("expected ancestors [y z], got %v", anc)
	}
}

func TestAncestors_CacheInvalidatedByMutation(t *testing.T) {
	g := chainGraph()

	if _, err := g.Ancestors("c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g.AddEdge("d", "a")
	anc, err := g.Ancestors("c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anc) != 3 {
		t.Errorf("expected [a b d] after new edge, got %v", anc)
	}
}

func TestComponentOf_InducedSubgraph(t *testing.T) {
	g := chainGraph()
	addNode(g, "e", "theorem")
	g.AddEdge("c", "e") // e depends on c, must not appear in c's component

	sub, err := g.ComponentOf("c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if !sub.HasNode(id) {
			t.Errorf("expected %s in component", id)
		}
	}
	if sub.HasNode("d") || sub.HasNode("e") {
		t.Errorf("expected d and e excluded, got %v", sub.Nodes())
	}
	if !sub.HasEdge("a", "b") || !sub.HasEdge("b", "c") {
		t.Errorf("expected induced edges kept, got %v", sub.Edges())
	}
	if sub.HasEdge("c", "e") {
		t.Error("expected edges to excluded nodes dropped")
	}
}

func TestComponentOf_MissingKey(t *testing.T) {
	g := chainGraph()
	_, err := g.ComponentOf("ghost")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}
