// Package layout computes layered positions for mesh graphs.
//
// The engine is a pure function of (nodes, edges, direction): nodes are
// ranked by longest path from the sources, grouped into layers, and
// placed on a fixed grid with configurable footprint and spacing. Edges
// are never repositioned; they follow their endpoints.
//
// Cyclic graphs are tolerated: ranking runs on a private adjacency copy
// from which DFS back-edges have been removed, so layout terminates on
// any input and the caller's edge list is untouched. Back-edges simply do
// not contribute to ranking.
package layout

import (
	"sort"

	"github.com/naseej/meshdesign/pkg/mesh"
)

// Direction selects the primary layout axis.
type Direction string

// Layout directions.
const (
	// Horizontal lays ranks out left-to-right.
	Horizontal Direction = "horizontal"
	// Vertical lays ranks out top-to-bottom.
	Vertical Direction = "vertical"
)

// ParseDirection normalizes a direction string, defaulting to Horizontal
// for empty or unrecognized input.
func ParseDirection(s string) Direction {
	if Direction(s) == Vertical {
		return Vertical
	}
	return Horizontal
}

// Config holds the per-node footprint and spacing constants. Values are
// fixed per layout run, never derived from node content.
type Config struct {
	NodeWidth  float64 // Node footprint width
	NodeHeight float64 // Node footprint height
	RankGap    float64 // Spacing between consecutive layers
	NodeGap    float64 // Spacing between nodes within a layer
}

// DefaultConfig returns the default footprint and spacing.
func DefaultConfig() Config {
	return Config{
		NodeWidth:  180,
		NodeHeight: 80,
		RankGap:    120,
		NodeGap:    40,
	}
}

// Apply computes a position for every node and returns them keyed by node
// ID. The input snapshot is not modified. Apply is idempotent: the same
// graph and direction always produce the same positions.
func Apply(snap mesh.Snapshot, dir Direction, cfg Config) map[string]mesh.Position {
	ranks := assignRanks(snap)

	// Group nodes into layers, preserving snapshot (insertion) order
	// within each layer for deterministic placement.
	layers := make(map[int][]string)
	maxRank := 0
	for _, n := range snap.Nodes {
		r := ranks[n.ID]
		layers[r] = append(layers[r], n.ID)
		if r > maxRank {
			maxRank = r
		}
	}

	positions := make(map[string]mesh.Position, len(snap.Nodes))
	for rank := 0; rank <= maxRank; rank++ {
		layer := layers[rank]
		if len(layer) == 0 {
			continue
		}
		// Center the layer on the cross axis.
		var crossExtent float64
		if dir == Horizontal {
			crossExtent = float64(len(layer))*(cfg.NodeHeight+cfg.NodeGap) - cfg.NodeGap
		} else {
			crossExtent = float64(len(layer))*(cfg.NodeWidth+cfg.NodeGap) - cfg.NodeGap
		}
		for i, id := range layer {
			var cx, cy float64 // slot center
			if dir == Horizontal {
				cx = float64(rank) * (cfg.NodeWidth + cfg.RankGap)
				cy = float64(i)*(cfg.NodeHeight+cfg.NodeGap) - crossExtent/2 + cfg.NodeHeight/2
			} else {
				cx = float64(i)*(cfg.NodeWidth+cfg.NodeGap) - crossExtent/2 + cfg.NodeWidth/2
				cy = float64(rank) * (cfg.NodeHeight + cfg.RankGap)
			}
			// Stored position is the anchor with the footprint
			// centered on the slot.
			positions[id] = mesh.Position{
				X: cx - cfg.NodeWidth/2,
				Y: cy - cfg.NodeHeight/2,
			}
		}
	}
	return positions
}

// Ranks exposes the layer assignment used by Apply, keyed by node ID.
// Useful for monotonicity checks and DOT rank hints.
func Ranks(snap mesh.Snapshot) map[string]int {
	return assignRanks(snap)
}

// assignRanks computes longest-path layers via topological traversal
// (Kahn's algorithm). Source nodes sit at rank 0 and every node is pushed
// one past its deepest parent. Back-edges found by DFS are excluded from
// the traversal so cyclic graphs still receive a valid layering.
func assignRanks(snap mesh.Snapshot) map[string]int {
	adj, inDegree := acyclicAdjacency(snap)

	ranks := make(map[string]int, len(snap.Nodes))
	var queue []string
	for _, n := range snap.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range adj[curr] {
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return ranks
}

// acyclicAdjacency builds an adjacency copy of the snapshot's edges with
// DFS back-edges removed (white/gray/black coloring). The returned
// in-degree map matches the pruned adjacency.
func acyclicAdjacency(snap mesh.Snapshot) (map[string][]string, map[string]int) {
	const (
		white = iota
		gray
		black
	)

	adj := make(map[string][]string, len(snap.Nodes))
	for _, e := range snap.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	color := make(map[string]int, len(snap.Nodes))
	backEdges := make(map[[2]string]bool)

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range adj[node] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges[[2]string{node, child}] = true
			}
		}
		color[node] = black
	}

	// Roots first for stable back-edge choice, then any remaining
	// component (fully cyclic subgraphs have no root).
	roots := sourceIDs(snap)
	for _, id := range roots {
		if color[id] == white {
			dfs(id)
		}
	}
	for _, n := range snap.Nodes {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	if len(backEdges) > 0 {
		for from, children := range adj {
			kept := children[:0]
			for _, to := range children {
				if !backEdges[[2]string{from, to}] {
					kept = append(kept, to)
				}
			}
			adj[from] = kept
		}
	}

	inDegree := make(map[string]int, len(snap.Nodes))
	for _, n := range snap.Nodes {
		inDegree[n.ID] = 0
	}
	for _, children := range adj {
		for _, to := range children {
			inDegree[to]++
		}
	}
	return adj, inDegree
}

// sourceIDs returns the IDs of nodes with no incoming edges, sorted for
// deterministic DFS order.
func sourceIDs(snap mesh.Snapshot) []string {
	hasIncoming := make(map[string]bool, len(snap.Nodes))
	for _, e := range snap.Edges {
		hasIncoming[e.Target] = true
	}
	var roots []string
	for _, n := range snap.Nodes {
		if !hasIncoming[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	sort.Strings(roots)
	return roots
}
