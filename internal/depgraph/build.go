package depgraph

import (
	"leangraph/internal/decl"
)

// Options controls graph construction.
type Options struct {
	// TypeOnly restricts edges to dependencies of declaration types,
	// ignoring value and proof bodies.
	TypeOnly bool
}

// Build converts a parsed, aggregated library into a dependency graph.
// Auxiliary declarations are filtered out on an independent copy first;
// the caller's library is never mutated.
//
// For every dependency name u of a surviving declaration v, the edge
// (u, v) is added when u survives filtering. When it does not, the name
// is re-tried with its last dot-segment stripped (a reference to a
// namespaced member resolves to the enclosing declaration); the fallback
// never creates a self-loop. Names resolving neither way refer to
// declarations outside the known universe and are dropped.
func Build(lib *decl.Library, opts Options) *Graph {
	flib := lib.WithoutAux()

	g := New()
	for _, name := range flib.Names() {
		d := flib.Decls[name]
		kind := d.UserKind()
		g.AddNode(Node{
			ID:    d.Name,
			Label: d.Name,
			Kind:  kind,
			Color: KindColor(kind),
		})
	}

	for _, name := range flib.Names() {
		d := flib.Decls[name]
		uses := d.Uses()
		if opts.TypeOnly {
			uses = d.TypeUses()
		}
		for _, dep := range uses.Sorted() {
			if flib.Has(dep) {
				g.AddEdge(dep, name)
				continue
			}
			stripped := decl.StripName(dep)
			if stripped != name && flib.Has(stripped) {
				g.AddEdge(stripped, name)
			}
		}
	}
	return g
}
