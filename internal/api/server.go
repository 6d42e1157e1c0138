// Package api exposes the mesh graph editor over HTTP: snapshot reads,
// mutation commands, layout and synthesis triggers, design persistence,
// and DOT/SVG export. It is the interaction surface an external canvas
// talks to; all graph writes go through the single-writer store.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/naseej/meshdesign/pkg/designs"
	apperrors "github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
	"github.com/naseej/meshdesign/pkg/synth"
)

// Server wires the graph store, synthesizer, and design store behind a
// chi router.
type Server struct {
	store       *mesh.Store
	synthesizer *synth.Synthesizer
	designs     designs.Store
	layoutCfg   layout.Config
	defaultDir  layout.Direction
	logger      *log.Logger
}

// Config holds the server collaborators.
type Config struct {
	Store       *mesh.Store
	Synthesizer *synth.Synthesizer
	Designs     designs.Store
	LayoutCfg   layout.Config
	DefaultDir  layout.Direction
	Logger      *log.Logger
}

// New creates a Server. A nil logger falls back to log.Default().
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:       cfg.Store,
		synthesizer: cfg.Synthesizer,
		designs:     cfg.Designs,
		layoutCfg:   cfg.LayoutCfg,
		defaultDir:  cfg.DefaultDir,
		logger:      logger,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/graph", func(r chi.Router) {
			r.Get("/", s.handleSnapshot)
			r.Post("/nodes", s.handleAddNode)
			r.Patch("/nodes/{id}", s.handleUpdateNode)
			r.Delete("/nodes/{id}", s.handleRemoveNode)
			r.Post("/connect", s.handleConnect)
			r.Post("/disconnect", s.handleDisconnect)
			r.Post("/changes", s.handleChanges)
			r.Post("/select", s.handleSelect)
			r.Post("/reset", s.handleReset)
			r.Post("/layout", s.handleLayout)
			r.Get("/export.dot", s.handleExportDOT)
			r.Get("/export.svg", s.handleExportSVG)
		})

		r.Post("/design/generate", s.handleGenerate)

		r.Route("/designs", func(r chi.Router) {
			r.Get("/", s.handleListDesigns)
			r.Get("/{name}", s.handleGetDesign)
			r.Put("/{name}", s.handleSaveDesign)
			r.Post("/{name}/load", s.handleLoadDesign)
			r.Delete("/{name}", s.handleDeleteDesign)
		})
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// =============================================================================
// JSON Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps structured error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidDirection, apperrors.ErrCodeInvalidDesign:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeDesignNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeSynthFailed, apperrors.ErrCodeSynthMalformed:
		status = http.StatusBadGateway
	case apperrors.ErrCodeSynthSuperseded:
		status = http.StatusConflict
	case apperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorBody{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	return true
}
