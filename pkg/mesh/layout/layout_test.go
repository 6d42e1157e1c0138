package layout

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/naseej/meshdesign/pkg/mesh"
)

// graph builds a snapshot from node IDs and source->target pairs.
func graph(ids []string, pairs [][2]string) mesh.Snapshot {
	var snap mesh.Snapshot
	for _, id := range ids {
		snap.Nodes = append(snap.Nodes, mesh.Node{ID: id})
	}
	for _, p := range pairs {
		snap.Edges = append(snap.Edges, mesh.Edge{
			ID:     mesh.EdgeID(p[0], p[1]),
			Source: p[0],
			Target: p[1],
		})
	}
	return snap
}

func seedSnapshot() mesh.Snapshot {
	return mesh.NewStore(log.New(io.Discard)).Snapshot()
}

func TestRanksMonotonic(t *testing.T) {
	snap := seedSnapshot()
	ranks := Ranks(snap)

	for _, e := range snap.Edges {
		if ranks[e.Target] <= ranks[e.Source] {
			t.Errorf("edge %s: rank %d -> %d, want strictly increasing",
				e.ID, ranks[e.Source], ranks[e.Target])
		}
	}
}

func TestRanksLongestPath(t *testing.T) {
	// Diamond with a shortcut: d must sit one past its deepest parent,
	// not its shallowest.
	snap := graph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"c", "d"}},
	)
	ranks := Ranks(snap)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	for id, r := range want {
		if ranks[id] != r {
			t.Errorf("rank[%s] = %d, want %d", id, ranks[id], r)
		}
	}
}

func TestApplyCoversEveryNode(t *testing.T) {
	snap := seedSnapshot()
	positions := Apply(snap, Horizontal, DefaultConfig())

	if len(positions) != len(snap.Nodes) {
		t.Fatalf("len(positions) = %d, want %d", len(positions), len(snap.Nodes))
	}
	for _, n := range snap.Nodes {
		if _, ok := positions[n.ID]; !ok {
			t.Errorf("no position for %s", n.ID)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	snap := seedSnapshot()
	cfg := DefaultConfig()

	first := Apply(snap, Horizontal, cfg)
	second := Apply(snap, Horizontal, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Error("same graph and direction should produce identical positions")
	}
}

func TestApplyDoesNotOverlap(t *testing.T) {
	snap := seedSnapshot()
	positions := Apply(snap, Horizontal, DefaultConfig())

	seen := make(map[mesh.Position]string, len(positions))
	for id, p := range positions {
		if other, ok := seen[p]; ok {
			t.Errorf("%s and %s share position %+v", id, other, p)
		}
		seen[p] = id
	}
}

func TestApplyDirections(t *testing.T) {
	snap := graph([]string{"a", "b"}, [][2]string{{"a", "b"}})
	cfg := DefaultConfig()

	t.Run("horizontal advances X", func(t *testing.T) {
		pos := Apply(snap, Horizontal, cfg)
		if pos["b"].X <= pos["a"].X {
			t.Errorf("b.X = %v, want > a.X = %v", pos["b"].X, pos["a"].X)
		}
		if pos["b"].Y != pos["a"].Y {
			t.Errorf("single-node layers should share the cross axis: %v vs %v", pos["a"].Y, pos["b"].Y)
		}
	})

	t.Run("vertical advances Y", func(t *testing.T) {
		pos := Apply(snap, Vertical, cfg)
		if pos["b"].Y <= pos["a"].Y {
			t.Errorf("b.Y = %v, want > a.Y = %v", pos["b"].Y, pos["a"].Y)
		}
		if pos["b"].X != pos["a"].X {
			t.Errorf("single-node layers should share the cross axis: %v vs %v", pos["a"].X, pos["b"].X)
		}
	})
}

func TestApplyCenteredAnchor(t *testing.T) {
	// A lone root's footprint is centered on the origin slot, so the
	// stored anchor is offset by half the footprint.
	snap := graph([]string{"a"}, nil)
	cfg := DefaultConfig()

	pos := Apply(snap, Horizontal, cfg)
	want := mesh.Position{X: -cfg.NodeWidth / 2, Y: -cfg.NodeHeight / 2}
	if pos["a"] != want {
		t.Errorf("anchor = %+v, want %+v", pos["a"], want)
	}
}

func TestApplyTerminatesOnCycles(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		pairs [][2]string
	}{
		{
			name:  "two node cycle",
			ids:   []string{"a", "b"},
			pairs: [][2]string{{"a", "b"}, {"b", "a"}},
		},
		{
			name:  "cycle with tail",
			ids:   []string{"root", "a", "b", "c"},
			pairs: [][2]string{{"root", "a"}, {"a", "b"}, {"b", "c"}, {"c", "a"}},
		},
		{
			name:  "self contained ring",
			ids:   []string{"a", "b", "c"},
			pairs: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := graph(tt.ids, tt.pairs)
			positions := Apply(snap, Horizontal, DefaultConfig())
			if len(positions) != len(tt.ids) {
				t.Errorf("len(positions) = %d, want %d", len(positions), len(tt.ids))
			}
			// The caller's edge list must be untouched.
			if len(snap.Edges) != len(tt.pairs) {
				t.Errorf("len(Edges) = %d, want %d", len(snap.Edges), len(tt.pairs))
			}
		})
	}
}

func TestApplyEmptyGraph(t *testing.T) {
	positions := Apply(mesh.Snapshot{}, Horizontal, DefaultConfig())
	if len(positions) != 0 {
		t.Errorf("len(positions) = %d, want 0", len(positions))
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"horizontal", Horizontal},
		{"vertical", Vertical},
		{"", Horizontal},
		{"diagonal", Horizontal},
	}
	for _, tt := range tests {
		if got := ParseDirection(tt.in); got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
