package predictor

import (
	"context"
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
)

// Cached wraps another predictor with a bounded cache keyed by FEN.
// Failed suggestions are not cached.
type Cached struct {
	inner Predictor
	cache *ristretto.Cache[string, Suggestion]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCached caches up to maxEntries suggestions from inner.
func NewCached(inner Predictor, maxEntries int64) (*Cached, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, Suggestion]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Suggest(ctx context.Context, fen string) (Suggestion, error) {
	if s, ok := c.cache.Get(fen); ok {
		c.hits.Add(1)
		return s, nil
	}
	c.misses.Add(1)

	s, err := c.inner.Suggest(ctx, fen)
	if err != nil {
		return Suggestion{}, err
	}
	c.cache.Set(fen, s, 1)
	return s, nil
}

// Wait blocks until pending cache writes are visible.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cached) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses) * 100
}

// Clear drops every cached suggestion.
func (c *Cached) Clear() {
	c.cache.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Close releases the cache.
func (c *Cached) Close() {
	c.cache.Close()
}
