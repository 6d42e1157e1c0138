package mesh

// Seed node IDs. The seed graph is the deterministic state the editor
// returns to on reset: an MQTT ingest pipeline fanning out to a Postgres
// sink and an HTTP API.
const (
	SeedMQTTSource    = "mqtt-source"
	SeedFilterNode    = "filter-node"
	SeedTransformNode = "transform-node"
	SeedPostgresSink  = "postgres-sink"
	SeedHTTPAPI       = "http-api"
)

// seedNodes returns fresh copies of the seed nodes, in insertion order.
func seedNodes() []Node {
	return []Node{
		{
			ID:       SeedMQTTSource,
			Type:     TypeMessageBroker,
			Label:    "MQTT Source",
			Position: Position{X: 0, Y: 0},
			Status:   StatusHealthy,
			Attrs:    Attrs{"address": "tcp://broker:1883", "topic": "sensors/#"},
		},
		{
			ID:       SeedFilterNode,
			Type:     TypeFilter,
			Label:    "Data Filter",
			Position: Position{X: 220, Y: 0},
			Status:   StatusHealthy,
			Attrs:    Attrs{"condition": "payload.temperature > 0"},
		},
		{
			ID:       SeedTransformNode,
			Type:     TypeTransform,
			Label:    "Transformer",
			Position: Position{X: 440, Y: 0},
			Status:   StatusHealthy,
			Attrs:    Attrs{"throughput": "1k msg/s"},
		},
		{
			ID:       SeedPostgresSink,
			Type:     TypeDatabase,
			Label:    "Postgres Sink",
			Position: Position{X: 660, Y: -80},
			Status:   StatusHealthy,
			Attrs:    Attrs{"address": "postgres://db:5432/telemetry"},
		},
		{
			ID:       SeedHTTPAPI,
			Type:     TypeHTTPEndpoint,
			Label:    "REST API",
			Position: Position{X: 660, Y: 80},
			Status:   StatusHealthy,
			Attrs:    Attrs{"address": "https://api.internal/v1/readings"},
		},
	}
}

// seedEdges returns the seed edge list: a linear pipeline with a fan-out
// after the transformer.
func seedEdges() []Edge {
	pairs := [][2]string{
		{SeedMQTTSource, SeedFilterNode},
		{SeedFilterNode, SeedTransformNode},
		{SeedTransformNode, SeedPostgresSink},
		{SeedTransformNode, SeedHTTPAPI},
	}
	edges := make([]Edge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, Edge{
			ID:       EdgeID(p[0], p[1]),
			Source:   p[0],
			Target:   p[1],
			Animated: true,
		})
	}
	return edges
}

// resetLocked replaces the state with the seed graph. Callers must hold
// mu (or be the constructor, before the store escapes).
func (s *Store) resetLocked() {
	s.clearLocked()
	for _, n := range seedNodes() {
		node := n
		s.nodes[node.ID] = &node
		s.order = append(s.order, node.ID)
	}
	for _, e := range seedEdges() {
		s.edgeIDs[e.ID] = len(s.edges)
		s.edges = append(s.edges, e)
	}
}
