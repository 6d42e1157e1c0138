package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
)

func TestToDOT(t *testing.T) {
	store := mesh.NewStore(log.New(io.Discard))
	store.SetStatus(mesh.SeedPostgresSink, mesh.StatusError)
	snap := store.Snapshot()

	dot := ToDOT(snap, layout.Horizontal)

	if !strings.HasPrefix(dot, "digraph mesh {") {
		t.Fatalf("unexpected preamble: %q", dot[:min(len(dot), 40)])
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("horizontal direction should set rankdir=LR")
	}

	// Every node and edge appears.
	for _, n := range snap.Nodes {
		if !strings.Contains(dot, `"`+n.ID+`"`) {
			t.Errorf("node %s missing from DOT", n.ID)
		}
	}
	for _, e := range snap.Edges {
		want := `"` + e.Source + `" -> "` + e.Target + `"`
		if !strings.Contains(dot, want) {
			t.Errorf("edge %s missing from DOT", e.ID)
		}
	}

	// Labels carry the profile title; error status gets the red border.
	if !strings.Contains(dot, "Message Broker") {
		t.Error("profile title missing from node label")
	}
	if !strings.Contains(dot, "color=red") {
		t.Error("error-status node should have a red border")
	}

	// The fan-out targets share a rank.
	if !strings.Contains(dot, "rank=same") {
		t.Error("same-layer nodes should get a rank=same hint")
	}
}

func TestToDOTVertical(t *testing.T) {
	snap := mesh.NewStore(log.New(io.Discard)).Snapshot()
	dot := ToDOT(snap, layout.Vertical)
	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("vertical direction should set rankdir=TB")
	}
}

func TestToDOTEdgeLabels(t *testing.T) {
	snap := mesh.Snapshot{
		Nodes: []mesh.Node{{ID: "a"}, {ID: "b"}},
		Edges: []mesh.Edge{{ID: mesh.EdgeID("a", "b"), Source: "a", Target: "b", Label: "readings"}},
	}
	dot := ToDOT(snap, layout.Horizontal)
	if !strings.Contains(dot, `[label="readings"]`) {
		t.Error("edge label missing from DOT")
	}
}

func TestToDOTUnknownTypeUsesGenericFill(t *testing.T) {
	snap := mesh.Snapshot{
		Nodes: []mesh.Node{{ID: "q", Type: "quantum-entangler"}},
	}
	dot := ToDOT(snap, layout.Horizontal)
	if !strings.Contains(dot, `fillcolor="white"`) {
		t.Error("unknown type should use the generic fill")
	}
	if !strings.Contains(dot, "(Service)") {
		t.Error("unknown type should use the generic title")
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(mesh.Snapshot{}, layout.Horizontal)
	if !strings.HasPrefix(dot, "digraph mesh {") || !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Errorf("empty graph should still be a valid digraph: %q", dot)
	}
}
