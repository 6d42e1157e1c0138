package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/naseej/meshdesign/pkg/designs"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
	"github.com/naseej/meshdesign/pkg/synth"
)

func newTestServer(t *testing.T) (*Server, *mesh.Store) {
	t.Helper()
	logger := log.New(io.Discard)
	store := mesh.NewStore(logger)
	return New(Config{
		Store:       store,
		Synthesizer: synth.New(synth.KeywordClient{}, store, layout.Horizontal, layout.DefaultConfig(), logger),
		Designs:     designs.NewMemoryStore(),
		LayoutCfg:   layout.DefaultConfig(),
		DefaultDir:  layout.Horizontal,
		Logger:      logger,
	}), store
}

// do issues a JSON request against the router and decodes the response.
func do(t *testing.T, h http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	var snap mesh.Snapshot
	rec := do(t, srv.Router(), http.MethodGet, "/api/graph/", nil, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(snap.Nodes) != 5 || len(snap.Edges) != 4 {
		t.Errorf("seed snapshot = %d nodes / %d edges", len(snap.Nodes), len(snap.Edges))
	}
}

func TestAddNodeEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	r := srv.Router()

	var snap mesh.Snapshot
	rec := do(t, r, http.MethodPost, "/api/graph/nodes",
		mesh.Node{ID: "cache-1", Type: "cache", Label: "Redis"}, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if len(snap.Nodes) != 6 {
		t.Errorf("nodes = %d, want 6", len(snap.Nodes))
	}
	n, ok := snap.Node("cache-1")
	if !ok || n.Status != mesh.StatusHealthy {
		t.Errorf("added node = %+v", n)
	}

	// Duplicate ID: still 200, still 6 nodes.
	rec = do(t, r, http.MethodPost, "/api/graph/nodes", mesh.Node{ID: "cache-1"}, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate add status = %d", rec.Code)
	}
	if store.NodeCount() != 6 {
		t.Errorf("NodeCount = %d, want 6", store.NodeCount())
	}

	// Missing ID is a client error.
	rec = do(t, r, http.MethodPost, "/api/graph/nodes", mesh.Node{Label: "anon"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty-id status = %d, want 400", rec.Code)
	}
}

func TestConnectEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	r := srv.Router()

	type resp struct {
		Edge     *mesh.Edge `json:"edge"`
		Rejected string     `json:"rejected"`
	}

	t.Run("accepted", func(t *testing.T) {
		var out resp
		rec := do(t, r, http.MethodPost, "/api/graph/connect",
			map[string]string{"source": mesh.SeedPostgresSink, "target": mesh.SeedHTTPAPI}, &out)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if out.Edge == nil || out.Edge.ID != mesh.EdgeID(mesh.SeedPostgresSink, mesh.SeedHTTPAPI) {
			t.Errorf("edge = %+v", out.Edge)
		}
	})

	t.Run("rejections are 200 results", func(t *testing.T) {
		tests := []struct {
			source, target, want string
		}{
			{mesh.SeedMQTTSource, mesh.SeedMQTTSource, "self-loop"},
			{"ghost", mesh.SeedMQTTSource, "missing-endpoint"},
			{mesh.SeedMQTTSource, mesh.SeedFilterNode, "duplicate"},
		}
		for _, tt := range tests {
			var out resp
			rec := do(t, r, http.MethodPost, "/api/graph/connect",
				map[string]string{"source": tt.source, "target": tt.target}, &out)
			if rec.Code != http.StatusOK {
				t.Errorf("%s->%s status = %d, want 200", tt.source, tt.target, rec.Code)
			}
			if out.Rejected != tt.want {
				t.Errorf("%s->%s rejected = %q, want %q", tt.source, tt.target, out.Rejected, tt.want)
			}
			if out.Edge != nil {
				t.Errorf("%s->%s returned an edge on rejection", tt.source, tt.target)
			}
		}
	})
}

func TestDisconnectEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	var snap mesh.Snapshot
	rec := do(t, srv.Router(), http.MethodPost, "/api/graph/disconnect",
		map[string]string{"source": mesh.SeedMQTTSource, "target": mesh.SeedFilterNode}, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(snap.Edges) != 3 {
		t.Errorf("edges = %d, want 3", len(snap.Edges))
	}
	store.CheckInvariants()
}

func TestRemoveNodeEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	var snap mesh.Snapshot
	rec := do(t, srv.Router(), http.MethodDelete, "/api/graph/nodes/"+mesh.SeedTransformNode, nil, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(snap.Nodes) != 4 || len(snap.Edges) != 1 {
		t.Errorf("snapshot = %d nodes / %d edges, want 4/1", len(snap.Nodes), len(snap.Edges))
	}
	store.CheckInvariants()
}

func TestChangesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	body := map[string]any{"changes": []mesh.Change{
		{Kind: mesh.ChangePosition, NodeID: mesh.SeedMQTTSource, Position: &mesh.Position{X: 5, Y: 6}},
		{Kind: mesh.ChangeSelect, NodeID: mesh.SeedFilterNode, Selected: true},
	}}
	var snap mesh.Snapshot
	rec := do(t, srv.Router(), http.MethodPost, "/api/graph/changes", body, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	n, _ := snap.Node(mesh.SeedMQTTSource)
	if n.Position != (mesh.Position{X: 5, Y: 6}) {
		t.Errorf("position = %+v", n.Position)
	}
	if snap.SelectedNodeID == nil || *snap.SelectedNodeID != mesh.SeedFilterNode {
		t.Error("selection not applied")
	}
}

func TestSelectEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	r := srv.Router()

	var snap mesh.Snapshot
	do(t, r, http.MethodPost, "/api/graph/select", map[string]any{"id": mesh.SeedHTTPAPI}, &snap)
	if snap.SelectedNodeID == nil || *snap.SelectedNodeID != mesh.SeedHTTPAPI {
		t.Fatal("selection not set")
	}

	// Pane click: null id clears.
	snap = mesh.Snapshot{}
	do(t, r, http.MethodPost, "/api/graph/select", map[string]any{"id": nil}, &snap)
	if snap.SelectedNodeID != nil {
		t.Error("null id should clear the selection")
	}

	// Stale id clamps to empty.
	snap = mesh.Snapshot{}
	do(t, r, http.MethodPost, "/api/graph/select", map[string]any{"id": "ghost"}, &snap)
	if snap.SelectedNodeID != nil {
		t.Error("stale id should clamp to no selection")
	}
}

func TestResetEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	r := srv.Router()

	do(t, r, http.MethodDelete, "/api/graph/nodes/"+mesh.SeedMQTTSource, nil, nil)
	var snap mesh.Snapshot
	rec := do(t, r, http.MethodPost, "/api/graph/reset", nil, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(snap.Nodes) != 5 || len(snap.Edges) != 4 {
		t.Errorf("reset snapshot = %d nodes / %d edges", len(snap.Nodes), len(snap.Edges))
	}
	store.CheckInvariants()
}

func TestLayoutEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	r := srv.Router()

	var snap mesh.Snapshot
	rec := do(t, r, http.MethodPost, "/api/graph/layout", map[string]string{"direction": "vertical"}, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// Vertical layering: filter sits below the source.
	src, _ := snap.Node(mesh.SeedMQTTSource)
	filter, _ := snap.Node(mesh.SeedFilterNode)
	if filter.Position.Y <= src.Position.Y {
		t.Errorf("filter.Y = %v, want > source.Y = %v", filter.Position.Y, src.Position.Y)
	}

	// Empty body uses the server default direction.
	rec = do(t, r, http.MethodPost, "/api/graph/layout", nil, &snap)
	if rec.Code != http.StatusOK {
		t.Errorf("bodyless layout status = %d", rec.Code)
	}
}

func TestExportDOTEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodGet, "/api/graph/export.dot", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("digraph mesh")) {
		t.Error("body is not DOT")
	}
}

func TestGenerateEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	r := srv.Router()

	t.Run("keyword synthesis", func(t *testing.T) {
		var out struct {
			NodeCount int           `json:"node_count"`
			Graph     mesh.Snapshot `json:"graph"`
		}
		rec := do(t, r, http.MethodPost, "/api/design/generate",
			map[string]string{"prompt": "mqtt sensors into a postgres database"}, &out)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
		if out.NodeCount != 2 || len(out.Graph.Nodes) != 2 {
			t.Errorf("node_count = %d, graph = %d nodes", out.NodeCount, len(out.Graph.Nodes))
		}
		store.CheckInvariants()
	})

	t.Run("empty prompt is a client error", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/api/design/generate", map[string]string{"prompt": ""}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDesignEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	r := srv.Router()

	// Save the current graph under a name.
	rec := do(t, r, http.MethodPut, "/api/designs/demo", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}

	// It lists.
	var list struct {
		Designs []string `json:"designs"`
	}
	do(t, r, http.MethodGet, "/api/designs/", nil, &list)
	if len(list.Designs) != 1 || list.Designs[0] != "demo" {
		t.Errorf("designs = %v", list.Designs)
	}

	// It reads back.
	var d designs.Design
	rec = do(t, r, http.MethodGet, "/api/designs/demo", nil, &d)
	if rec.Code != http.StatusOK || len(d.Graph.Nodes) != 5 {
		t.Errorf("get status = %d, nodes = %d", rec.Code, len(d.Graph.Nodes))
	}

	// Mutate the graph, then load the design back.
	do(t, r, http.MethodDelete, "/api/graph/nodes/"+mesh.SeedMQTTSource, nil, nil)
	var snap mesh.Snapshot
	rec = do(t, r, http.MethodPost, "/api/designs/demo/load", nil, &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("load status = %d", rec.Code)
	}
	if len(snap.Nodes) != 5 || len(snap.Edges) != 4 {
		t.Errorf("loaded snapshot = %d nodes / %d edges", len(snap.Nodes), len(snap.Edges))
	}
	store.CheckInvariants()

	// Delete, then a lookup 404s.
	rec = do(t, r, http.MethodDelete, "/api/designs/demo", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, r, http.MethodGet, "/api/designs/demo", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/graph/connect", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
