package decl

import "testing"

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	lib := NewLibrary("core")

	d := newDecl("group.mul_assoc")
	d.Filename = "src/algebra/group.lean"
	d.Line = 42
	d.Kind = "theorem"
	d.Type.UsesProofs.Add("eq.refl")
	d.Type.UsesOthers.Add("group")
	d.Value.UsesProofs.Add("mul_assoc_aux")
	d.Type.RawSize = 10
	d.Type.DedupSize = 8
	d.Type.PrettySize = 30
	d.Value.RawSize = 100

	g := newDecl("group")
	g.IsInductive = true
	g.IsStructure = true
	g.IsClass = true
	g.Kind = "inductive"
	g.Fields = []string{"group.mul", "group.one"}

	inst := newDecl("nat.add_group")
	inst.IsInstance = true
	inst.TargetClass = "add_group"

	lib.Put(d)
	lib.Put(g)
	lib.Put(inst)

	data, err := Marshal(lib)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if back.Name != "core" || back.Len() != 3 {
		t.Fatalf("expected core with 3 decls, got %s with %d", back.Name, back.Len())
	}

	rd, ok := back.Get("group.mul_assoc")
	if !ok {
		t.Fatal("expected group.mul_assoc restored")
	}
	if rd.Filename != d.Filename || rd.Line != 42 || rd.Kind != "theorem" {
		t.Errorf("metadata lost: %+v", rd)
	}
	if !rd.Type.UsesProofs.Equal(d.Type.UsesProofs) || !rd.Value.UsesProofs.Equal(d.Value.UsesProofs) {
		t.Errorf("use-sets lost: %v / %v", rd.Type.UsesProofs.Sorted(), rd.Value.UsesProofs.Sorted())
	}
	if rd.Type.RawSize != 10 || rd.Type.DedupSize != 8 || rd.Type.PrettySize != 30 || rd.Value.RawSize != 100 {
		t.Errorf("sizes lost: %+v %+v", rd.Type, rd.Value)
	}

	rg, _ := back.Get("group")
	if !rg.IsInductive || !rg.IsStructure || !rg.IsClass {
		t.Errorf("flags lost: %+v", rg)
	}
	if len(rg.Fields) != 2 || rg.Fields[0] != "group.mul" {
		t.Errorf("fields lost: %v", rg.Fields)
	}

	ri, _ := back.Get("nat.add_group")
	if !ri.IsInstance || ri.TargetClass != "add_group" {
		t.Errorf("instance data lost: %+v", ri)
	}
}

func TestUnmarshal_EmptyUseSetsAreUsable(t *testing.T) {
	data := []byte(`
name: tiny
declarations:
  lonely:
    kind: definition
`)
	lib, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	d, ok := lib.Get("lonely")
	if !ok {
		t.Fatal("expected lonely restored from map key")
	}
	if d.Name != "lonely" {
		t.Errorf("expected name filled from key, got %q", d.Name)
	}
	// Adding to a restored empty set must not panic.
	d.Type.UsesOthers.Add("other")
	if !d.Type.UsesOthers.Has("other") {
		t.Error("expected restored set to accept inserts")
	}
}
