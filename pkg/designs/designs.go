// Package designs persists named graph designs.
//
// A design is a named, timestamped copy of a graph snapshot. The Store
// interface has four backends:
//   - memory: process-local, for tests and single-instance demos
//   - file: JSON files in a config directory, for CLI use
//   - redis: shared store for multi-instance console deployments
//   - mongo: durable archive with server-side listing
//
// The on-disk/on-wire encoding is an implementation detail of each
// backend; callers only exchange [Design] values.
package designs

import (
	"context"
	"time"

	"github.com/naseej/meshdesign/pkg/mesh"
)

// Design is a named, saved graph.
type Design struct {
	Name    string        `json:"name" bson:"name"`
	SavedAt time.Time     `json:"saved_at" bson:"saved_at"`
	Graph   mesh.Snapshot `json:"graph" bson:"graph"`
}

// Store is the interface for design persistence backends.
type Store interface {
	// Get retrieves a design by name. Returns a DESIGN_NOT_FOUND
	// coded error if no design has that name.
	Get(ctx context.Context, name string) (Design, error)

	// Set stores a design, overwriting any design with the same name.
	Set(ctx context.Context, d Design) error

	// Delete removes a design. Deleting an absent design is a no-op.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored designs, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
