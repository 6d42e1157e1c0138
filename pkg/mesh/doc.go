// Package mesh implements the in-memory model and mutation API of the
// mesh graph editor: integration-service nodes, directed data-flow edges,
// and a single-writer store with validated connection handling.
//
// # Architecture
//
// The [Store] is the only writer of graph state. External collaborators
// (the canvas renderer, the HTTP console, the synthesis adapter) read
// immutable copies via [Store.Snapshot] and mutate through the command
// methods. Every command runs under one mutex and to completion, so the
// structural invariants (unique node IDs, edges referencing live nodes,
// no self-loops, no duplicate ordered pairs, live selection) hold between
// any two observations.
//
// Connection validation returns a typed [Rejection] rather than an error:
// self-loops, missing endpoints, and duplicate pairs are ordinary
// interaction outcomes. Removing or updating an absent node or edge is an
// idempotent no-op.
//
// Automatic positioning lives in the layout subpackage; the store only
// publishes computed positions atomically via [Store.SetPositions].
package mesh
