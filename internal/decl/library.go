package decl

import (
	"fmt"
	"sort"
)

// Library is a named collection of declarations keyed by name. A Library
// is not safe for concurrent mutation; callers needing to preserve an
// original across in-place operations must Clone it first.
type Library struct {
	Name  string                  `yaml:"name"`
	Decls map[string]*Declaration `yaml:"declarations"`
}

// NewLibrary creates an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name, Decls: make(map[string]*Declaration)}
}

// FromRecords builds a library from raw checker records, then folds
// constructor data into the owning inductive types.
func FromRecords(name string, recs []Record) (*Library, error) {
	lib := NewLibrary(name)
	for _, rec := range recs {
		d, err := ParseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", name, err)
		}
		lib.Put(d)
	}
	if err := AggregateConstructors(lib); err != nil {
		return nil, fmt.Errorf("library %s: %w", name, err)
	}
	return lib, nil
}

// FromYAML builds a library from a checker output blob.
func FromYAML(name string, data []byte) (*Library, error) {
	recs, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	return FromRecords(name, recs)
}

// Get returns the declaration with the given name and whether it exists.
func (l *Library) Get(name string) (*Declaration, bool) {
	d, ok := l.Decls[name]
	return d, ok
}

// Has reports whether a declaration with the given name exists.
func (l *Library) Has(name string) bool {
	_, ok := l.Decls[name]
	return ok
}

// Put inserts or replaces a declaration, keyed by its name.
func (l *Library) Put(d *Declaration) {
	l.Decls[d.Name] = d
}

// Delete removes the declaration with the given name if present.
func (l *Library) Delete(name string) {
	delete(l.Decls, name)
}

// Len returns the number of declarations.
func (l *Library) Len() int {
	return len(l.Decls)
}

// Names returns all declaration names in lexicographic order.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.Decls))
	for n := range l.Decls {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy of the library. Mutations to the copy's
// declarations or use-sets never reach the original.
func (l *Library) Clone() *Library {
	out := NewLibrary(l.Name)
	for name, d := range l.Decls {
		out.Decls[name] = d.Clone()
	}
	return out
}
