package depgraph

import (
	"encoding/json"
	"strings"
	"testing"
)

func exportGraph() *Graph {
	g := New()
	addNode(g, "nat.add", "definition")
	addNode(g, "nat.add_comm", "theorem")
	g.AddEdge("nat.add", "nat.add_comm")
	return g
}

func TestExportDOT(t *testing.T) {
	out := ExportDOT(exportGraph())

	if !strings.HasPrefix(out, "digraph declarations {") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, `"nat.add" -> "nat.add_comm";`) {
		t.Errorf("expected edge in output:\n%s", out)
	}
	if !strings.Contains(out, `tooltip="theorem"`) {
		t.Errorf("expected kind tooltip:\n%s", out)
	}
	if !strings.Contains(out, `fillcolor="#09c8c8"`) {
		t.Errorf("expected theorem fill color:\n%s", out)
	}
}

func TestExportMermaid(t *testing.T) {
	out := ExportMermaid(exportGraph())

	if !strings.HasPrefix(out, "graph LR\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	// Dots are invalid in mermaid identifiers and must be mapped away.
	if !strings.Contains(out, "nat_add --> nat_add_comm") {
		t.Errorf("expected sanitized edge:\n%s", out)
	}
	if !strings.Contains(out, `nat_add["nat.add"]`) {
		t.Errorf("expected original label kept:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(exportGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Nodes) != 2 || len(decoded.Edges) != 1 {
		t.Errorf("expected 2 nodes / 1 edge, got %d / %d", len(decoded.Nodes), len(decoded.Edges))
	}
	if decoded.Edges[0].From != "nat.add" || decoded.Edges[0].To != "nat.add_comm" {
		t.Errorf("unexpected edge: %+v", decoded.Edges[0])
	}
}

func TestExportGEXF(t *testing.T) {
	data, err := ExportGEXF(exportGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns="http://www.gexf.net/1.2draft"`,
		`defaultedgetype="directed"`,
		`<node id="nat.add_comm" label="nat.add_comm">`,
		`<attvalue for="kind" value="theorem">`,
		`source="nat.add" target="nat.add_comm"`,
		`r="9" g="200" b="200"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}
