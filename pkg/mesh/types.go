package mesh

import "fmt"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// ServiceType identifies the integration service a node represents.
// The known values are enumerated below; values outside the enumeration
// (e.g. returned by the AI design service) are stored as-is and fall back
// to the generic profile. See [Profile].
type ServiceType string

// Known service types.
const (
	TypeMessageBroker  ServiceType = "message-broker"
	TypeHTTPEndpoint   ServiceType = "http-endpoint"
	TypeDatabase       ServiceType = "database"
	TypeFilter         ServiceType = "filter"
	TypeTransform      ServiceType = "transform"
	TypeGateway        ServiceType = "gateway"
	TypeAI             ServiceType = "ai"
	TypeProtocolBridge ServiceType = "protocol-bridge"
	TypeSplitter       ServiceType = "splitter"
	TypeAggregator     ServiceType = "aggregator"
	TypeLogic          ServiceType = "logic"
)

// Known reports whether t is one of the enumerated service types.
func (t ServiceType) Known() bool {
	switch t {
	case TypeMessageBroker, TypeHTTPEndpoint, TypeDatabase, TypeFilter,
		TypeTransform, TypeGateway, TypeAI, TypeProtocolBridge,
		TypeSplitter, TypeAggregator, TypeLogic:
		return true
	default:
		return false
	}
}

// Status describes the health of the service behind a node.
type Status string

// Node health states.
const (
	StatusHealthy Status = "healthy"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusOffline Status = "offline"
)

// =============================================================================
// Position - 2D Canvas Coordinate
// =============================================================================

// Position is a 2D canvas coordinate. For layouted graphs the stored
// position is the node's anchor point, offset so the node footprint is
// centered on the computed slot (see the layout package).
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Attrs - Type-Specific Attribute Bag
// =============================================================================

// Attrs holds type-specific node attributes (address, topic, model, prompt,
// condition, throughput, ...). The set of keys is open; the store merges
// updates shallowly and never interprets the values.
type Attrs map[string]any

// Clone returns a shallow copy of the attribute bag.
// Returns nil for a nil bag.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// =============================================================================
// Node - Integration Service Vertex
// =============================================================================

// Node is a vertex in the mesh graph representing one integration service.
// Nodes are exclusively owned by the [Store]; consumers receive copies via
// [Store.Snapshot] and must issue commands to mutate.
type Node struct {
	ID       string      `json:"id" bson:"id"`
	Type     ServiceType `json:"type" bson:"type"`
	Label    string      `json:"label,omitempty" bson:"label,omitempty"`
	Position Position    `json:"position" bson:"position"`
	Status   Status      `json:"status" bson:"status"`
	Attrs    Attrs       `json:"attrs,omitempty" bson:"attrs,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// clone returns a deep copy of the node (the attribute bag is copied).
func (n Node) clone() Node {
	c := n
	c.Attrs = n.Attrs.Clone()
	return c
}

// =============================================================================
// Edge - Directed Data-Flow Connection
// =============================================================================

// Edge is a directed data-flow connection between two nodes. Edge IDs are
// derived deterministically from the endpoints via [EdgeID]; at most one
// edge exists per ordered (source, target) pair.
type Edge struct {
	ID       string `json:"id" bson:"id"`
	Source   string `json:"source" bson:"source"`
	Target   string `json:"target" bson:"target"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"`
	Animated bool   `json:"animated" bson:"animated"`
}

// EdgeID returns the deterministic edge identifier for an ordered
// (source, target) pair.
func EdgeID(source, target string) string {
	return fmt.Sprintf("%s->%s", source, target)
}

// =============================================================================
// Snapshot - Immutable Read View
// =============================================================================

// Snapshot is a read-only copy of the graph state. Node order is the
// insertion order of the store, which keeps iteration deterministic for
// renderers and tests. Mutating a snapshot never affects the store.
type Snapshot struct {
	Nodes          []Node  `json:"nodes" bson:"nodes"`
	Edges          []Edge  `json:"edges" bson:"edges"`
	SelectedNodeID *string `json:"selected_node_id,omitempty" bson:"selected_node_id,omitempty"`
}

// Node returns the snapshot node with the given ID and true, or a zero
// node and false if not present.
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the snapshot edge with the given ID and true, or a zero
// edge and false if not present.
func (s Snapshot) Edge(id string) (Edge, bool) {
	for _, e := range s.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}
