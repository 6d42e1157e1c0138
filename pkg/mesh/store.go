package mesh

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Rejection - Connection Validation Result
// =============================================================================

// Rejection is the typed result of connection validation. A rejection is
// not an error: re-issuing an existing connection request or dropping an
// edge onto the source node are ordinary interaction outcomes that the UI
// silently ignores.
type Rejection int

// Connection validation outcomes.
const (
	// RejectionNone means the connection was accepted.
	RejectionNone Rejection = iota
	// RejectionSelfLoop means source and target are the same node.
	RejectionSelfLoop
	// RejectionMissingEndpoint means source or target does not exist.
	RejectionMissingEndpoint
	// RejectionDuplicate means an edge with the same ordered
	// (source, target) pair already exists.
	RejectionDuplicate
)

// String returns the rejection name for logging and API responses.
func (r Rejection) String() string {
	switch r {
	case RejectionNone:
		return "none"
	case RejectionSelfLoop:
		return "self-loop"
	case RejectionMissingEndpoint:
		return "missing-endpoint"
	case RejectionDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// =============================================================================
// Change - Batched Interaction Deltas
// =============================================================================

// ChangeKind discriminates the variants of a [Change].
type ChangeKind int

// Change variants.
const (
	// ChangePosition moves a node to a new position.
	ChangePosition ChangeKind = iota
	// ChangeSelect updates the selection state of a node.
	ChangeSelect
)

// Change is one mutation descriptor from an interaction batch (a drag
// frame or click). Batches are applied atomically by [Store.ApplyChanges]
// so all deltas from one interaction become visible together.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	NodeID   string     `json:"node_id"`
	Position *Position  `json:"position,omitempty"` // ChangePosition
	Selected bool       `json:"selected,omitempty"` // ChangeSelect
}

// =============================================================================
// Store - Single-Writer Graph State Container
// =============================================================================

// Store owns the canonical node and edge collections and the selection
// state. It is the sole writer of graph state: all consumers read copies
// via [Store.Snapshot] and mutate through the command methods.
//
// Every command runs to completion under one mutex, so readers never
// observe a state that violates the graph invariants:
//
//  1. Node IDs are unique.
//  2. Every edge references two existing nodes.
//  3. No edge is a self-loop.
//  4. At most one edge per ordered (source, target) pair.
//  5. The selected node, if any, exists.
//
// Absence is a no-op, not an error: removing or updating a missing node
// or edge does nothing and fails nothing.
type Store struct {
	mu       sync.Mutex
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	edgeIDs  map[string]int // edge ID -> index in edges
	selected string         // empty when nothing is selected
	logger   *log.Logger
}

// NewStore creates a store seeded with the default demo graph.
// A nil logger falls back to log.Default().
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{logger: logger}
	s.resetLocked()
	return s
}

// NewEmptyStore creates a store with no nodes or edges.
// A nil logger falls back to log.Default().
func NewEmptyStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{logger: logger}
	s.clearLocked()
	return s
}

// clearLocked reinitializes all collections. Callers must hold mu (or be
// the constructor, before the store escapes).
func (s *Store) clearLocked() {
	s.nodes = make(map[string]*Node)
	s.order = s.order[:0]
	s.edges = s.edges[:0]
	s.edgeIDs = make(map[string]int)
	s.selected = ""
}

// AddNode inserts a node. If a node with the same ID already exists the
// call is a deterministic no-op (the existing node wins) and the collision
// is logged at debug level; it is never an error.
func (s *Store) AddNode(n Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		s.logger.Debug("ignoring node with empty id")
		return
	}
	if _, exists := s.nodes[n.ID]; exists {
		s.logger.Debug("ignoring duplicate node id", "id", n.ID)
		return
	}
	if n.Status == "" {
		n.Status = StatusHealthy
	}
	node := n.clone()
	s.nodes[n.ID] = &node
	s.order = append(s.order, n.ID)
}

// RemoveNode removes the node and every edge touching it, and clears the
// selection if it referenced the removed node. No-op if the ID is absent.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	for i, nid := range s.order {
		if nid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	// Cascade: drop every edge with the node as either endpoint.
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source == id || e.Target == id {
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	s.reindexEdgesLocked()

	if s.selected == id {
		s.selected = ""
	}
}

// UpdateNode shallow-merges attrs into the node's attribute bag and
// optionally updates label and status. The node ID is immutable. No-op if
// the node is absent.
func (s *Store) UpdateNode(id string, attrs Attrs) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if len(attrs) == 0 {
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(Attrs, len(attrs))
	}
	for k, v := range attrs {
		n.Attrs[k] = v
	}
}

// SetStatus updates a node's health status. No-op if the node is absent.
func (s *Store) SetStatus(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.nodes[id]; ok {
		n.Status = status
	}
}

// ApplyChanges applies a batch of position/selection deltas atomically.
// All deltas from one interaction frame become visible together; changes
// referencing missing nodes are skipped. A ChangeSelect with Selected
// false clears the selection if it pointed at that node.
func (s *Store) ApplyChanges(batch []Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range batch {
		n, ok := s.nodes[c.NodeID]
		if !ok {
			continue
		}
		switch c.Kind {
		case ChangePosition:
			if c.Position != nil {
				n.Position = *c.Position
			}
		case ChangeSelect:
			if c.Selected {
				s.selected = c.NodeID
			} else if s.selected == c.NodeID {
				s.selected = ""
			}
		}
	}
}

// Connect validates and creates a directed edge from source to target.
// On success the new edge (animated by default, ID derived via [EdgeID])
// is returned with RejectionNone. On rejection the state is unchanged and
// the zero edge is returned with the reason.
func (s *Store) Connect(source, target string) (Edge, Rejection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.validateConnectLocked(source, target); r != RejectionNone {
		s.logger.Debug("connection rejected", "source", source, "target", target, "reason", r)
		return Edge{}, r
	}

	e := Edge{
		ID:       EdgeID(source, target),
		Source:   source,
		Target:   target,
		Animated: true,
	}
	s.edgeIDs[e.ID] = len(s.edges)
	s.edges = append(s.edges, e)
	return e, RejectionNone
}

// validateConnectLocked is the connection policy: no self-loops, both
// endpoints must exist, and the ordered pair must be new. Callers must
// hold mu.
func (s *Store) validateConnectLocked(source, target string) Rejection {
	if source == target {
		return RejectionSelfLoop
	}
	if _, ok := s.nodes[source]; !ok {
		return RejectionMissingEndpoint
	}
	if _, ok := s.nodes[target]; !ok {
		return RejectionMissingEndpoint
	}
	if _, ok := s.edgeIDs[EdgeID(source, target)]; ok {
		return RejectionDuplicate
	}
	return RejectionNone
}

// RemoveEdge removes the edge with the given ID. No-op if absent.
func (s *Store) RemoveEdge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.edgeIDs[id]
	if !ok {
		return
	}
	s.edges = append(s.edges[:i], s.edges[i+1:]...)
	s.reindexEdgesLocked()
}

// SetSelectedNode sets the selection to the given node, or clears it when
// id is empty. A stale ID (node no longer present) is clamped to empty so
// the selection invariant holds even for careless callers.
func (s *Store) SetSelectedNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.selected = ""
		return
	}
	if _, ok := s.nodes[id]; !ok {
		s.selected = ""
		return
	}
	s.selected = id
}

// ClearSelection clears the selection (pane click).
func (s *Store) ClearSelection() { s.SetSelectedNode("") }

// Reset atomically replaces the entire state with the fixed seed graph.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Clear atomically removes all nodes and edges, used by the synthesis
// adapter before a bulk add.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Replace atomically swaps the entire graph for the given nodes and
// edges in one frame: readers observe either the old graph or the new
// one, never a partially loaded state. Duplicate node IDs and edges that
// would violate the connection policy are skipped (logged at debug
// level), so the invariants hold for any input. Selection is cleared.
// Used by the synthesis adapter and by design loading.
func (s *Store) Replace(nodes []Node, edges []Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	for _, n := range nodes {
		if n.ID == "" {
			s.logger.Debug("replace: skipping node with empty id")
			continue
		}
		if _, exists := s.nodes[n.ID]; exists {
			s.logger.Debug("replace: skipping duplicate node id", "id", n.ID)
			continue
		}
		if n.Status == "" {
			n.Status = StatusHealthy
		}
		node := n.clone()
		s.nodes[node.ID] = &node
		s.order = append(s.order, node.ID)
	}
	for _, e := range edges {
		if r := s.validateConnectLocked(e.Source, e.Target); r != RejectionNone {
			s.logger.Debug("replace: skipping edge", "source", e.Source, "target", e.Target, "reason", r)
			continue
		}
		e.ID = EdgeID(e.Source, e.Target)
		s.edgeIDs[e.ID] = len(s.edges)
		s.edges = append(s.edges, e)
	}
}

// SetPositions overwrites node positions in one atomic pass. Positions
// for missing nodes are skipped. Used by the layout trigger to publish a
// computed layout as a single frame.
func (s *Store) SetPositions(positions map[string]Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range positions {
		if n, ok := s.nodes[id]; ok {
			n.Position = p
		}
	}
}

// Snapshot returns a deep copy of the current graph state. The copy is
// safe to retain and iterate while the store keeps mutating.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Nodes: make([]Node, 0, len(s.order)),
		Edges: make([]Edge, len(s.edges)),
	}
	for _, id := range s.order {
		snap.Nodes = append(snap.Nodes, s.nodes[id].clone())
	}
	copy(snap.Edges, s.edges)
	if s.selected != "" {
		sel := s.selected
		snap.SelectedNodeID = &sel
	}
	return snap
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the store.
func (s *Store) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

// reindexEdgesLocked rebuilds the edge ID index after a removal.
// Callers must hold mu.
func (s *Store) reindexEdgesLocked() {
	s.edgeIDs = make(map[string]int, len(s.edges))
	for i, e := range s.edges {
		s.edgeIDs[e.ID] = i
	}
}

// checkInvariantsLocked asserts the structural invariants. An edge that
// references a missing node indicates a store bug, not a recoverable
// condition, so it panics. Exercised by tests after mutation sequences.
func (s *Store) checkInvariantsLocked() {
	for _, e := range s.edges {
		if _, ok := s.nodes[e.Source]; !ok {
			panic(fmt.Sprintf("mesh: edge %s references missing source", e.ID))
		}
		if _, ok := s.nodes[e.Target]; !ok {
			panic(fmt.Sprintf("mesh: edge %s references missing target", e.ID))
		}
		if e.Source == e.Target {
			panic(fmt.Sprintf("mesh: edge %s is a self-loop", e.ID))
		}
	}
	if s.selected != "" {
		if _, ok := s.nodes[s.selected]; !ok {
			panic(fmt.Sprintf("mesh: selection references missing node %s", s.selected))
		}
	}
}

// CheckInvariants asserts the structural invariants, panicking on
// violation. Intended for tests and debug builds.
func (s *Store) CheckInvariants() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkInvariantsLocked()
}
