package decl

import "testing"

func TestLibrary_NamesSorted(t *testing.T) {
	lib := NewLibrary("test")
	for _, n := range []string{"zeta", "alpha", "mid"} {
		lib.Put(newDecl(n))
	}

	names := lib.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestLibrary_Clone_Independent(t *testing.T) {
	lib := NewLibrary("test")
	d := newDecl("nat.add")
	d.Type.UsesOthers.Add("nat")
	lib.Put(d)

	cp := lib.Clone()
	cd, _ := cp.Get("nat.add")
	cd.Type.UsesOthers.Add("int")
	cd.Kind = "mutated"
	cp.Put(newDecl("extra"))

	if d.Type.UsesOthers.Has("int") || d.Kind == "mutated" {
		t.Error("expected clone mutations isolated from original")
	}
	if lib.Has("extra") {
		t.Error("expected clone inserts isolated from original")
	}
}

func TestFromYAML_CheckerOutput(t *testing.T) {
	data := []byte(`
- Name: B
  Kind: definition
  Line: 3
- Name: A
  Kind: inductive
  Line: 5
  Modifiers:
    inductive: true
- Name: A.mk
  Line: 5
  Modifiers:
    is_constructor: true
  Type uses others: [B]
`)
	lib, err := FromYAML("blob", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lib.Len() != 3 {
		t.Fatalf("expected 3 declarations, got %d", lib.Len())
	}
	a, _ := lib.Get("A")
	if a == nil || !a.Type.UsesOthers.Has("B") {
		t.Error("expected constructor dependency folded into A")
	}
}

func TestNameSet_Operations(t *testing.T) {
	s := NewNameSet("b", "a")
	s.Add("c")
	s.Remove("b")

	if s.Has("b") || !s.Has("a") || !s.Has("c") {
		t.Errorf("unexpected membership: %v", s.Sorted())
	}

	u := s.Clone()
	u.Union(NewNameSet("d"))
	if s.Has("d") {
		t.Error("expected clone union isolated from original")
	}
	if !u.Equal(NewNameSet("a", "c", "d")) {
		t.Errorf("expected {a,c,d}, got %v", u.Sorted())
	}

	sorted := u.Sorted()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] >= sorted[i] {
			t.Fatalf("expected strict order, got %v", sorted)
		}
	}
}
