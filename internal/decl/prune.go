package decl

import "strings"

// auxSuffixes lists the name endings of compiler-synthesized declarations
// (recursors, equation-compiler output, size functions and friends). They
// are not author-written and carry no informative dependency signal.
var auxSuffixes = []string{
	".rec", ".brec", ".brec_on", ".mk", ".rec_on", ".inj_on",
	".has_sizeof_inst", ".no_confusion_type", ".no_confusion",
	".cases_on", ".inj_arrow", ".sizeof", ".inj",
	".inj_eq", ".sizeof_spec", ".drec", ".dcases_on",
	".drec_on", ".below", ".ibelow", ".binduction_on",
}

// IsAuxName reports whether a name ends with a generator suffix.
func IsAuxName(name string) bool {
	for _, suffix := range auxSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// isAux reports whether a declaration is a compiler-synthesized artifact:
// either its name carries a generator suffix, or it is a structure field,
// constructor or recursor whose information already migrated to its parent
// during aggregation.
func isAux(d *Declaration) bool {
	return IsAuxName(d.Name) || d.IsStructureField || d.IsConstructor || d.IsRecursor
}

// WithoutAux returns a new library with all auxiliary declarations
// removed. The receiver is left untouched, so callers keep an unfiltered
// view alongside the pruned one.
func (l *Library) WithoutAux() *Library {
	out := NewLibrary(l.Name)
	for name, d := range l.Decls {
		if isAux(d) {
			continue
		}
		out.Decls[name] = d.Clone()
	}
	return out
}

// FoundationalNames is the closed set of core logic primitives excluded
// from visualization graphs: equality, boolean connectives, classical
// logic helpers, coercions and quotient boilerplate. Nearly every
// declaration references them, so they dominate graph connectivity
// without adding signal.
var FoundationalNames = []string{
	"eq", "eq.refl", "eq.mpr", "eq.rec", "eq.trans", "eq.subst",
	"eq.symm", "eq_self_iff_true", "eq.mp",
	"ne", "not", "true", "false", "trivial", "rfl",
	"congr", "congr_arg", "propext", "funext",
	"and", "and.intro", "and.elim",
	"or", "or.inl", "or.inr", "or.elim",
	"iff", "iff.intro", "iff.mp", "iff.mpr", "iff_true_intro",
	"iff_self", "iff.refl", "iff.rfl",
	"classical.choice", "classical.indefinite_description",
	"classical.some", "nonempty",
	"decidable", "decidable_eq", "decidable_rel",
	"imp_congr_eq",
	"auto_param",
	"Exists", "Exists.intro", "subtype", "subtype.val",
	"id_rhs",
	"set", "set.has_mem", "set_of",
	"prod", "prod.fst", "prod.snd", "prod.mk",
	"coe", "coe_to_lift", "coe_base", "coe_fn", "coe_sort", "coe_t",
	"coe_trans",
}

// PruneRules configures the foundational-hub filter. A declaration is
// removed when it matches any criterion; the three lists are a plain
// union with no precedence between them.
type PruneRules struct {
	// Names are removed by exact match.
	Names []string
	// PathSubstrings remove declarations whose source file path contains
	// any of the substrings (foundational / meta / tactic-support files).
	PathSubstrings []string
	// NamePrefixes remove declarations whose name starts with any prefix
	// (generic type-class or quotient boilerplate).
	NamePrefixes []string
}

// DefaultPruneRules returns rules covering the built-in foundational set.
func DefaultPruneRules() PruneRules {
	return PruneRules{Names: FoundationalNames}
}

func (r PruneRules) matches(d *Declaration) bool {
	for _, n := range r.Names {
		if d.Name == n {
			return true
		}
	}
	for _, sub := range r.PathSubstrings {
		if sub != "" && strings.Contains(d.Filename, sub) {
			return true
		}
	}
	for _, prefix := range r.NamePrefixes {
		if prefix != "" && strings.HasPrefix(d.Name, prefix) {
			return true
		}
	}
	return false
}

// PruneFoundational removes matching declarations from the library in
// place and returns how many were dropped.
func (l *Library) PruneFoundational(rules PruneRules) int {
	dropped := 0
	for name, d := range l.Decls {
		if rules.matches(d) {
			delete(l.Decls, name)
			dropped++
		}
	}
	return dropped
}
