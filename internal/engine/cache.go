package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/piwi3910/RollCut/internal/model"
)

// Cache memoizes layouts for a caller that re-optimizes the same measurement
// list (for example while toggling between quotes). It is owned by the
// caller; the optimizer itself keeps no state. Errors are not cached.
type Cache struct {
	opt *Optimizer

	mu      sync.Mutex
	entries map[string]model.Layout
	hits    int
	misses  int
}

// NewCache wraps opt. A nil opt uses default settings.
func NewCache(opt *Optimizer) *Cache {
	if opt == nil {
		opt = New(model.DefaultSettings())
	}
	return &Cache{
		opt:     opt,
		entries: make(map[string]model.Layout),
	}
}

// CacheKey hashes everything that can change the outcome of a run.
// Demand order is part of the key because it drives tie-breaks.
func CacheKey(demands []model.PieceDemand, roll model.RollParameters, settings model.CutSettings) (string, error) {
	payload := struct {
		Demands   []model.PieceDemand  `json:"d"`
		Roll      model.RollParameters `json:"r"`
		MaxPieces int                  `json:"m"`
	}{demands, roll, settings.PieceLimit()}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Optimize returns a cached layout when the same input was seen before and
// runs the optimizer otherwise. Returned layouts never share memory with
// the cache.
func (c *Cache) Optimize(demands []model.PieceDemand, roll model.RollParameters) (model.Layout, error) {
	key, err := CacheKey(demands, roll, c.opt.Settings)
	if err != nil {
		return model.Layout{}, err
	}

	c.mu.Lock()
	if layout, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return layout.Clone(), nil
	}
	c.misses++
	c.mu.Unlock()

	layout, err := c.opt.Optimize(demands, roll)
	if err != nil {
		return model.Layout{}, err
	}

	c.mu.Lock()
	c.entries[key] = layout.Clone()
	c.mu.Unlock()
	return layout, nil
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation or the last Reset.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset drops every cached layout.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]model.Layout)
	c.hits, c.misses = 0, 0
}
