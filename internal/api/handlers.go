package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/naseej/meshdesign/pkg/designs"
	apperrors "github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
	"github.com/naseej/meshdesign/pkg/observability"
	"github.com/naseej/meshdesign/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "meshdesign"})
}

// =============================================================================
// Graph Commands
// =============================================================================

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var node mesh.Node
	if !decodeBody(w, r, &node) {
		return
	}
	if node.ID == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "node id is required"))
		return
	}
	s.store.AddNode(node)
	observability.Graph().OnMutation(r.Context(), "add-node")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	var attrs mesh.Attrs
	if !decodeBody(w, r, &attrs) {
		return
	}
	s.store.UpdateNode(chi.URLParam(r, "id"), attrs)
	observability.Graph().OnMutation(r.Context(), "update-node")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveNode(chi.URLParam(r, "id"))
	observability.Graph().OnMutation(r.Context(), "remove-node")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// connectRequest is the connection-attempt event from the canvas.
type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// connectResponse reports the outcome. Rejections are ordinary results
// (HTTP 200), never errors: the canvas silently drops them.
type connectResponse struct {
	Edge     *mesh.Edge `json:"edge,omitempty"`
	Rejected string     `json:"rejected,omitempty"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	edge, rejection := s.store.Connect(req.Source, req.Target)
	if rejection != mesh.RejectionNone {
		observability.Graph().OnConnectionRejected(r.Context(), rejection.String())
		writeJSON(w, http.StatusOK, connectResponse{Rejected: rejection.String()})
		return
	}
	observability.Graph().OnMutation(r.Context(), "connect")
	writeJSON(w, http.StatusOK, connectResponse{Edge: &edge})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.store.RemoveEdge(mesh.EdgeID(req.Source, req.Target))
	observability.Graph().OnMutation(r.Context(), "disconnect")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// changesRequest is one interaction frame from the canvas.
type changesRequest struct {
	Changes []mesh.Change `json:"changes"`
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	var req changesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.store.ApplyChanges(req.Changes)
	observability.Graph().OnMutation(r.Context(), "apply-changes")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// selectRequest carries a node click (id set) or a pane click (id null).
type selectRequest struct {
	ID *string `json:"id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == nil {
		s.store.ClearSelection()
	} else {
		s.store.SetSelectedNode(*req.ID)
	}
	observability.Graph().OnMutation(r.Context(), "select")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	observability.Graph().OnMutation(r.Context(), "reset")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// layoutRequest selects the layout direction; empty uses the server
// default.
type layoutRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := layoutRequest{}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	dir := s.defaultDir
	if req.Direction != "" {
		dir = layout.ParseDirection(req.Direction)
	}

	snap := s.store.Snapshot()
	observability.Graph().OnLayoutStart(r.Context(), string(dir), len(snap.Nodes))
	start := time.Now()
	s.store.SetPositions(layout.Apply(snap, dir, s.layoutCfg))
	observability.Graph().OnLayoutComplete(r.Context(), string(dir), time.Since(start))

	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// =============================================================================
// Export
// =============================================================================

func (s *Server) handleExportDOT(w http.ResponseWriter, _ *http.Request) {
	dot := render.ToDOT(s.store.Snapshot(), s.defaultDir)
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleExportSVG(w http.ResponseWriter, _ *http.Request) {
	dot := render.ToDOT(s.store.Snapshot(), s.defaultDir)
	svg, err := render.RenderSVG(dot)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// =============================================================================
// Synthesis
// =============================================================================

// generateRequest is the smart-design request.
type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	NodeCount int           `json:"node_count"`
	Graph     mesh.Snapshot `json:"graph"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.synthesizer.Generate(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		NodeCount: res.NodeCount,
		Graph:     s.store.Snapshot(),
	})
}

// =============================================================================
// Designs
// =============================================================================

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	names, err := s.designs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"designs": names})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	d, err := s.designs.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSaveDesign(w http.ResponseWriter, r *http.Request) {
	d := designs.Design{
		Name:    chi.URLParam(r, "name"),
		SavedAt: time.Now().UTC(),
		Graph:   s.store.Snapshot(),
	}
	if err := s.designs.Set(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": d.Name})
}

func (s *Server) handleLoadDesign(w http.ResponseWriter, r *http.Request) {
	d, err := s.designs.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.store.Replace(d.Graph.Nodes, d.Graph.Edges)
	observability.Graph().OnMutation(r.Context(), "load-design")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if err := s.designs.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": chi.URLParam(r, "name")})
}
