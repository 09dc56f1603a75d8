// Package decl models declarations of a Lean library: parsing the raw
// records emitted by the checker, aggregating constructor data into the
// owning inductive types, and pruning generated or foundational names.
package decl

import "strings"

// Payload carries the dependency and size information of one side of a
// declaration (its type, or its value/proof body).
type Payload struct {
	Body       string  `yaml:"body,omitempty"`
	UsesProofs NameSet `yaml:"uses_proofs"`
	UsesOthers NameSet `yaml:"uses_others"`
	RawSize    int     `yaml:"raw_size"`
	DedupSize  int     `yaml:"dedup_size"`
	PrettySize int     `yaml:"pretty_size"`
}

// Uses returns the union of the proof and non-proof use-sets.
func (p *Payload) Uses() NameSet {
	return UnionOf(p.UsesProofs, p.UsesOthers)
}

// Clone returns a deep copy of the payload.
func (p *Payload) Clone() Payload {
	out := *p
	out.UsesProofs = p.UsesProofs.Clone()
	out.UsesOthers = p.UsesOthers.Clone()
	return out
}

// Declaration is one named unit of a Lean library.
type Declaration struct {
	Name     string `yaml:"name"`
	Filename string `yaml:"filename,omitempty"`
	Line     int    `yaml:"line"`
	Kind     string `yaml:"kind"`

	IsInductive      bool `yaml:"is_inductive,omitempty"`
	IsStructure      bool `yaml:"is_structure,omitempty"`
	IsStructureField bool `yaml:"is_structure_field,omitempty"`
	IsClass          bool `yaml:"is_class,omitempty"`
	IsInstance       bool `yaml:"is_instance,omitempty"`
	IsRecursor       bool `yaml:"is_recursor,omitempty"`
	IsConstructor    bool `yaml:"is_constructor,omitempty"`

	Type  Payload `yaml:"type"`
	Value Payload `yaml:"value"`

	TargetClass string   `yaml:"target_class,omitempty"`
	Parent      string   `yaml:"parent,omitempty"`
	Fields      []string `yaml:"fields,omitempty"`
}

// UserKind resolves a human-facing kind for the declaration. Modifier
// flags win over the raw kind tag: class > instance > structure >
// inductive > raw kind > "unknown".
func (d *Declaration) UserKind() string {
	switch {
	case d.IsClass:
		return "class"
	case d.IsInstance:
		return "instance"
	case d.IsStructure:
		return "structure"
	case d.IsInductive:
		return "inductive"
	}
	if d.Kind != "" {
		return d.Kind
	}
	return "unknown"
}

// TypeUses returns every name the declaration's type refers to.
func (d *Declaration) TypeUses() NameSet {
	return d.Type.Uses()
}

// ValueUses returns every name the declaration's value or proof refers to.
func (d *Declaration) ValueUses() NameSet {
	return d.Value.Uses()
}

// Uses returns every name the declaration refers to, across both payloads.
func (d *Declaration) Uses() NameSet {
	return UnionOf(d.Type.UsesProofs, d.Type.UsesOthers,
		d.Value.UsesProofs, d.Value.UsesOthers)
}

// Namespace returns the dot-separated prefix of the declaration name.
func (d *Declaration) Namespace() string {
	return StripName(d.Name)
}

// Clone returns a deep copy; mutating the copy's use-sets or fields does
// not affect the original.
func (d *Declaration) Clone() *Declaration {
	out := *d
	out.Type = d.Type.Clone()
	out.Value = d.Value.Clone()
	if d.Fields != nil {
		out.Fields = make([]string, len(d.Fields))
		copy(out.Fields, d.Fields)
	}
	return &out
}

// StripName removes the last dot-segment of a Lean name. The strip of a
// segment-free name is the empty string.
func StripName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}
