// Package render exports mesh graphs as Graphviz DOT and renders them to
// SVG. This is a debugging/export surface: canvas rendering and visual
// styling belong to the external UI collaborator.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
)

// categoryFill maps profile categories to Graphviz fill colors.
var categoryFill = map[mesh.Category]string{
	mesh.CategorySource:    "lightblue",
	mesh.CategoryProcessor: "lightyellow",
	mesh.CategorySink:      "lightgreen",
	mesh.CategoryGeneric:   "white",
}

// ToDOT converts a snapshot to Graphviz DOT. Nodes in the same computed
// layer share a rank so the diagram matches the layout engine's layering.
func ToDOT(snap mesh.Snapshot, dir layout.Direction) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mesh {\n")
	if dir == layout.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		profile := mesh.ProfileFor(n.Type)
		label := fmt.Sprintf("%s\n(%s)", n.DisplayLabel(), profile.Title)
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("fillcolor=%q", categoryFill[profile.Category]),
		}
		if n.Status == mesh.StatusError || n.Status == mesh.StatusOffline {
			attrs = append(attrs, "color=red")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	// Rank hints keep the diagram aligned with the layout engine.
	ranks := layout.Ranks(snap)
	layers := make(map[int][]string)
	maxRank := 0
	for _, n := range snap.Nodes {
		r := ranks[n.ID]
		layers[r] = append(layers[r], n.ID)
		if r > maxRank {
			maxRank = r
		}
	}
	for r := 0; r <= maxRank; r++ {
		if len(layers[r]) < 2 {
			continue
		}
		quoted := make([]string, len(layers[r]))
		for i, id := range layers[r] {
			quoted[i] = fmt.Sprintf("%q", id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		attrs := ""
		if e.Label != "" {
			attrs = fmt.Sprintf(" [label=%q]", e.Label)
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
