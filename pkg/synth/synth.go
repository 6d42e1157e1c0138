// Package synth bridges natural-language design prompts to graph
// mutations. A [Client] obtains node descriptors from the external AI
// design service (or a keyword fallback); the [Synthesizer] validates the
// response and replaces the store's graph in one atomic frame, then runs
// the layout engine once.
//
// # Overlapping requests
//
// Each Generate call takes a monotonically increasing sequence number. A
// response that resolves after a newer request has been issued is
// discarded without touching the store ("latest request wins"), closing
// the stale-response race of the observed design.
package synth

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
	"github.com/naseej/meshdesign/pkg/observability"
)

// fallbackSpacing is the primary-axis gap between synthesized nodes
// before the layout engine runs, so a fresh graph is visually distinct
// immediately.
const fallbackSpacing = 220.0

// Result summarizes a completed synthesis.
type Result struct {
	NodeCount int           // Nodes added to the store
	Elapsed   time.Duration // Wall time including the service call
}

// Synthesizer turns design prompts into store mutations.
type Synthesizer struct {
	client Client
	store  *mesh.Store
	dir    layout.Direction
	cfg    layout.Config
	logger *log.Logger
	seq    atomic.Uint64
}

// New creates a synthesizer writing into store. A nil logger falls back
// to log.Default().
func New(client Client, store *mesh.Store, dir layout.Direction, cfg layout.Config, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synthesizer{
		client: client,
		store:  store,
		dir:    dir,
		cfg:    cfg,
		logger: logger,
	}
}

// Generate sends the prompt to the design service and, on success,
// replaces the whole graph with the returned nodes and runs one layout
// pass. On any failure the store is left exactly as it was: the response
// is fully validated before the first mutation.
func (s *Synthesizer) Generate(ctx context.Context, prompt string) (Result, error) {
	if prompt == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "empty design prompt")
	}

	seq := s.seq.Add(1)
	start := time.Now()
	s.logger.Info("generating design", "prompt", prompt)
	observability.Synth().OnSynthStart(ctx, prompt)

	resp, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("synthesis failed", "err", err)
		observability.Synth().OnSynthComplete(ctx, 0, time.Since(start), err)
		return Result{}, err
	}
	if resp.Nodes == nil {
		return Result{}, errors.New(errors.ErrCodeSynthMalformed, "design service returned no nodes array")
	}

	// Latest request wins: a stale response must not overwrite the
	// graph a newer request is about to produce.
	if s.seq.Load() != seq {
		s.logger.Warn("discarding superseded synthesis response", "seq", seq)
		return Result{}, errors.New(errors.ErrCodeSynthSuperseded, "a newer design request was issued")
	}

	nodes := make([]mesh.Node, 0, len(resp.Nodes))
	for i, spec := range resp.Nodes {
		nodes = append(nodes, nodeFromSpec(i, spec, s.dir))
	}

	s.store.Replace(nodes, nil)
	s.store.SetPositions(layout.Apply(s.store.Snapshot(), s.dir, s.cfg))

	res := Result{NodeCount: len(nodes), Elapsed: time.Since(start)}
	s.logger.Info("design generated", "nodes", res.NodeCount, "elapsed", res.Elapsed.Round(time.Millisecond))
	observability.Synth().OnSynthComplete(ctx, res.NodeCount, res.Elapsed, nil)
	return res, nil
}

// nodeFromSpec builds a store node from a service descriptor: a fresh
// unique ID, healthy status, and a deterministic index-spaced fallback
// position along the primary axis.
func nodeFromSpec(index int, spec NodeSpec, dir layout.Direction) mesh.Node {
	pos := mesh.Position{X: float64(index) * fallbackSpacing}
	if dir == layout.Vertical {
		pos = mesh.Position{Y: float64(index) * fallbackSpacing}
	}

	var attrs mesh.Attrs
	if len(spec.Config) > 0 {
		attrs = make(mesh.Attrs, len(spec.Config))
		for k, v := range spec.Config {
			attrs[k] = v
		}
	}

	return mesh.Node{
		ID:       fmt.Sprintf("%s-%s", spec.Type, uuid.NewString()[:8]),
		Type:     mesh.ServiceType(spec.Type),
		Label:    spec.Label,
		Position: pos,
		Status:   mesh.StatusHealthy,
		Attrs:    attrs,
	}
}
