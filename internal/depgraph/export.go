package depgraph

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// ExportDOT generates a Graphviz DOT representation of the graph.
func ExportDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("digraph declarations {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\" style=filled];\n\n")

	for _, n := range g.Nodes() {
		b.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\" tooltip=\"%s\" fillcolor=\"%s\"];\n",
			n.ID, n.Label, n.Kind, hexColor(n.Color)))
	}
	b.WriteString("\n")
	for _, e := range g.Edges() {
		b.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n", e.From, e.To))
	}

	b.WriteString("}\n")
	return b.String()
}

// ExportMermaid generates a Mermaid diagram of the graph.
func ExportMermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	for _, n := range g.Nodes() {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", sanitizeMermaidID(n.ID), n.Label))
	}
	for _, e := range g.Edges() {
		b.WriteString(fmt.Sprintf("  %s --> %s\n",
			sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)))
	}

	return b.String()
}

// jsonGraph is the serialized shape of a graph.
type jsonGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ExportJSON serializes the graph to JSON.
func ExportJSON(g *Graph) ([]byte, error) {
	return json.MarshalIndent(jsonGraph{Nodes: g.Nodes(), Edges: g.Edges()}, "", "  ")
}

// GEXF export. The viz namespace carries node colors so Gephi renders
// kinds the same way the built-in color table does.

type gexfFile struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Viz     string    `xml:"xmlns:viz,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	Mode       string     `xml:"mode,attr"`
	EdgeType   string     `xml:"defaultedgetype,attr"`
	Attributes gexfAttrs  `xml:"attributes"`
	Nodes      []gexfNode `xml:"nodes>node"`
	Edges      []gexfEdge `xml:"edges>edge"`
}

type gexfAttrs struct {
	Class string     `xml:"class,attr"`
	Attrs []gexfAttr `xml:"attribute"`
}

type gexfAttr struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNode struct {
	ID     string        `xml:"id,attr"`
	Label  string        `xml:"label,attr"`
	Values []gexfAttrVal `xml:"attvalues>attvalue"`
	Color  gexfColor     `xml:"viz:color"`
}

type gexfAttrVal struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfColor struct {
	R int     `xml:"r,attr"`
	G int     `xml:"g,attr"`
	B int     `xml:"b,attr"`
	A float64 `xml:"a,attr"`
}

type gexfEdge struct {
	ID     int    `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// ExportGEXF serializes the graph in GEXF 1.2, preserving id, label, kind
// and color per node.
func ExportGEXF(g *Graph) ([]byte, error) {
	doc := gexfFile{
		XMLNS:   "http://www.gexf.net/1.2draft",
		Viz:     "http://www.gexf.net/1.2draft/viz",
		Version: "1.2",
		Graph: gexfGraph{
			Mode:     "static",
			EdgeType: "directed",
			Attributes: gexfAttrs{
				Class: "node",
				Attrs: []gexfAttr{{ID: "kind", Title: "kind", Type: "string"}},
			},
		},
	}

	for _, n := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, gexfNode{
			ID:     n.ID,
			Label:  n.Label,
			Values: []gexfAttrVal{{For: "kind", Value: n.Kind}},
			Color:  gexfColor{R: n.Color.R, G: n.Color.G, B: n.Color.B, A: float64(n.Color.A)},
		})
	}
	for i, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, gexfEdge{
			ID:     i,
			Source: e.From,
			Target: e.To,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal gexf: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func hexColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func sanitizeMermaidID(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
}
