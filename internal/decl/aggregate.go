package decl

import (
	"errors"
	"fmt"
)

// ErrUnknownParent marks a constructor or structure field whose declared
// parent does not exist in the library. Dropping the merge silently would
// corrupt the parent's dependency and size totals, so aggregation fails
// loudly instead.
var ErrUnknownParent = errors.New("unknown parent declaration")

// AggregateConstructors folds every constructor's use-sets and size
// metrics into its parent declaration, in place. Merging is set-union and
// summation, so the result is independent of constructor order and the
// pass is idempotent on the use-sets. A constructor's reference to its own
// inductive type is removed from the parent rather than kept as a
// self-reference.
//
// Aggregation must run before any pruning: a constructor's dependencies
// belong to the parent even when the constructor itself is later dropped
// from the graph.
func AggregateConstructors(lib *Library) error {
	for _, name := range lib.Names() {
		d := lib.Decls[name]
		if !d.IsConstructor {
			continue
		}
		parent, ok := lib.Get(d.Parent)
		if !ok {
			return fmt.Errorf("constructor %s: %w: %s", d.Name, ErrUnknownParent, d.Parent)
		}

		parent.Type.UsesProofs.Union(d.Type.UsesProofs)
		parent.Type.UsesOthers.Union(d.Type.UsesOthers)
		parent.Value.UsesProofs.Union(d.Value.UsesProofs)
		parent.Value.UsesOthers.Union(d.Value.UsesOthers)

		parent.Type.UsesProofs.Remove(parent.Name)
		parent.Type.UsesOthers.Remove(parent.Name)
		parent.Value.UsesProofs.Remove(parent.Name)
		parent.Value.UsesOthers.Remove(parent.Name)

		parent.Type.RawSize += d.Type.RawSize
		parent.Type.DedupSize += d.Type.DedupSize
		parent.Type.PrettySize += d.Type.PrettySize
		parent.Value.RawSize += d.Value.RawSize
		parent.Value.DedupSize += d.Value.DedupSize
		parent.Value.PrettySize += d.Value.PrettySize

		lib.Put(parent)
	}
	return nil
}
