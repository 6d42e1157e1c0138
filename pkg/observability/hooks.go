// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about graph mutations, layout runs,
// and synthesis calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGraphHooks(&myGraphHooks{})
//	    observability.SetSynthHooks(&mySynthHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from graph store mutations and layout runs.
type GraphHooks interface {
	// OnMutation records a completed store command (add-node,
	// remove-node, connect, reset, ...).
	OnMutation(ctx context.Context, op string)

	// OnConnectionRejected records a rejected connection attempt.
	OnConnectionRejected(ctx context.Context, reason string)

	// Layout events
	OnLayoutStart(ctx context.Context, direction string, nodeCount int)
	OnLayoutComplete(ctx context.Context, direction string, duration time.Duration)
}

// =============================================================================
// Synthesis Hooks
// =============================================================================

// SynthHooks receives events from AI synthesis calls.
type SynthHooks interface {
	// OnSynthStart records an outgoing design request.
	OnSynthStart(ctx context.Context, prompt string)

	// OnSynthComplete records a finished synthesis, successful or not.
	OnSynthComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnMutation(context.Context, string)                     {}
func (NoopGraphHooks) OnConnectionRejected(context.Context, string)           {}
func (NoopGraphHooks) OnLayoutStart(context.Context, string, int)             {}
func (NoopGraphHooks) OnLayoutComplete(context.Context, string, time.Duration) {}

// NoopSynthHooks is a no-op implementation of SynthHooks.
type NoopSynthHooks struct{}

func (NoopSynthHooks) OnSynthStart(context.Context, string)                          {}
func (NoopSynthHooks) OnSynthComplete(context.Context, int, time.Duration, error)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks GraphHooks = NoopGraphHooks{}
	synthHooks SynthHooks = NoopSynthHooks{}
	hooksMu    sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any mutations.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetSynthHooks registers custom synthesis hooks.
// This should be called once at application startup before any synthesis.
func SetSynthHooks(h SynthHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		synthHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Synth returns the registered synthesis hooks.
func Synth() SynthHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return synthHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	synthHooks = NoopSynthHooks{}
}
