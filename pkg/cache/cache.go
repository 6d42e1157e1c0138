// Package cache provides response caching for design synthesis. Prompts
// sent to the external design service are expensive, so successful
// responses are cached keyed by a hash of the backend and prompt text.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache stores raw byte payloads under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports a cache hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// PromptKey generates a cache key for a synthesis prompt. Responses from
// different backends never share entries.
func PromptKey(backend, prompt string) string {
	return fmt.Sprintf("synth:%s:%s", backend, Hash([]byte(prompt)))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
