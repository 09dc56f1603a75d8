package decl

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// NameSet is a set of declaration names. The zero value is not usable;
// construct with NewNameSet.
type NameSet map[string]struct{}

// NewNameSet builds a set from the given names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts a name into the set.
func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Remove deletes a name from the set if present.
func (s NameSet) Remove(name string) {
	delete(s, name)
}

// Union inserts every name of other into s. Duplicates collapse, so the
// operation is idempotent.
func (s NameSet) Union(other NameSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// UnionOf returns a new set holding every name of the given sets.
func UnionOf(sets ...NameSet) NameSet {
	out := make(NameSet)
	for _, s := range sets {
		out.Union(s)
	}
	return out
}

// Clone returns an independent copy of the set.
func (s NameSet) Clone() NameSet {
	out := make(NameSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same names.
func (s NameSet) Equal(other NameSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if _, ok := other[n]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the names in lexicographic order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// MarshalYAML encodes the set as a sorted sequence of names.
func (s NameSet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}

// UnmarshalYAML decodes a sequence of names into the set.
func (s *NameSet) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	*s = NewNameSet(names...)
	return nil
}
