package synth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/naseej/meshdesign/pkg/cache"
)

// CachedClient wraps a Client with response caching. Identical prompts
// within the TTL are served from the cache without hitting the backend.
// Cache failures degrade to a direct call, never to an error.
type CachedClient struct {
	inner   Client
	cache   cache.Cache
	backend string
	ttl     time.Duration
}

// NewCachedClient wraps inner with the given cache. The backend name
// namespaces the keys so http and keyword responses never mix.
func NewCachedClient(inner Client, c cache.Cache, backend string, ttl time.Duration) *CachedClient {
	return &CachedClient{inner: inner, cache: c, backend: backend, ttl: ttl}
}

// Generate serves the prompt from cache when possible, delegating to the
// wrapped client on a miss and storing successful responses.
func (c *CachedClient) Generate(ctx context.Context, prompt string) (Response, error) {
	key := cache.PromptKey(c.backend, prompt)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil && resp.Nodes != nil {
			return resp, nil
		}
		// Corrupt entry: drop it and fall through to the backend.
		_ = c.cache.Delete(ctx, key)
	}

	resp, err := c.inner.Generate(ctx, prompt)
	if err != nil {
		return Response{}, err
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return resp, nil
}
