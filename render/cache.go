// ABOUTME: In-memory render cache that wraps a scene rendering function with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual cache clearing.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// RenderFunc is the signature for a scene rendering function that the cache wraps.
type RenderFunc func(ctx context.Context, s *Scene, format string) ([]byte, error)

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// RenderCache wraps a scene rendering function with an in-memory cache.
// Keys are the sha256 of the scene fingerprint combined with the format,
// so an unchanged scene is rasterised once per TTL.
type RenderCache struct {
	renderFn RenderFunc
	ttl      time.Duration
	now      func() time.Time
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewRenderCache creates a RenderCache wrapping the given rendering function.
// Cached entries expire after the specified TTL duration.
func NewRenderCache(renderFn RenderFunc, ttl time.Duration) *RenderCache {
	return &RenderCache{
		renderFn: renderFn,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render returns the scene rendered in format, serving a cached result when one
// exists and has not expired. Errors are never cached. The caller must not mutate
// the scene while Render runs.
func (c *RenderCache) Render(ctx context.Context, s *Scene, format string) ([]byte, error) {
	key := cacheKey(s.Fingerprint(), format)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Sub(entry.createdAt) < c.ttl {
			data := entry.data
			c.mu.RUnlock()
			return data, nil
		}
	}
	c.mu.RUnlock()

	data, err := c.renderFn(ctx, s, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{data: data, createdAt: c.now()}
	c.mu.Unlock()

	return data, nil
}

// Prune drops expired entries and returns how many were removed.
func (c *RenderCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if c.now().Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func cacheKey(fingerprint string, format string) string {
	return fmt.Sprintf("%x:%s", sha256.Sum256([]byte(fingerprint)), format)
}
