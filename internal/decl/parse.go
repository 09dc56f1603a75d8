package decl

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Record is one raw declaration record as decoded from the checker's YAML
// output stream.
type Record map[string]any

// ErrMissingName marks a record that carries no usable Name field.
var ErrMissingName = fmt.Errorf("record has no Name field")

// ParseRecord normalizes one raw record into a Declaration. Every field
// except Name is optional and defaults to its zero value when absent.
func ParseRecord(rec Record) (*Declaration, error) {
	name := nameValue(rec["Name"])
	if name == "" {
		return nil, ErrMissingName
	}

	mods := subRecord(rec["Modifiers"])
	d := &Declaration{
		Name:     name,
		Filename: stringField(rec, "File"),
		Line:     intField(rec, "Line"),
		Kind:     stringField(rec, "Kind"),

		IsInductive:      boolField(mods, "inductive"),
		IsStructure:      boolField(mods, "structure"),
		IsStructureField: boolField(mods, "structure_field"),
		IsClass:          boolField(mods, "class"),
		IsInstance:       boolField(mods, "instance"),
		IsRecursor:       boolField(mods, "is_recursor"),
		IsConstructor:    boolField(mods, "is_constructor"),

		Type: Payload{
			Body:       stringField(rec, "Type"),
			UsesProofs: nameSetField(rec, "Type uses proofs"),
			UsesOthers: nameSetField(rec, "Type uses others"),
			RawSize:    intField(rec, "Type size"),
			DedupSize:  intField(rec, "Type dedup size"),
			PrettySize: intField(rec, "Type pp size"),
		},
		Value: Payload{
			Body:       stringField(rec, "Value"),
			UsesProofs: nameSetField(rec, "Value uses proofs"),
			UsesOthers: nameSetField(rec, "Value uses others"),
			RawSize:    intField(rec, "Value size"),
			DedupSize:  intField(rec, "Value dedup size"),
			PrettySize: intField(rec, "Value pp size"),
		},

		TargetClass: stringField(rec, "Target class"),
		Parent:      stringField(rec, "Parent"),
		Fields:      nameList(rec["Fields"]),
	}

	// Structure fields declare their parent through the implicit ".mk"
	// constructor; constructors carry the parent in their own name.
	if d.IsStructureField {
		d.Parent = StripName(d.Parent)
	} else if d.IsConstructor {
		d.Parent = StripName(d.Name)
	}

	return d, nil
}

// DecodeRecords parses a checker output blob into raw records, stable-sorted
// by (line-or-zero, kind) so downstream parsing is deterministic.
func DecodeRecords(data []byte) ([]Record, error) {
	var recs []Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding checker output: %w", err)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		li, lj := intField(recs[i], "Line"), intField(recs[j], "Line")
		if li != lj {
			return li < lj
		}
		return stringField(recs[i], "Kind") < stringField(recs[j], "Kind")
	})
	return recs, nil
}

// nameValue coerces a raw field into a declaration name. YAML decoding
// turns the identifiers `true` and `false` into booleans; they are names
// here, not truth values.
func nameValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func subRecord(v any) Record {
	switch t := v.(type) {
	case Record:
		return t
	case map[string]any:
		return Record(t)
	default:
		return nil
	}
}

func stringField(rec Record, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

func intField(rec Record, key string) int {
	switch t := rec[key].(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	default:
		return 0
	}
}

func boolField(rec Record, key string) bool {
	if rec == nil {
		return false
	}
	b, _ := rec[key].(bool)
	return b
}

func nameList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := nameValue(item); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func nameSetField(rec Record, key string) NameSet {
	return NewNameSet(nameList(rec[key])...)
}
