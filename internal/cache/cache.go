package cache

import (
	"sync"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// ResultKey identifies one evaluated (unit, site, point) combination.
// The unit matters because range limits differ between lidar models.
type ResultKey struct {
	UnitID  string
	SiteID  string
	PointID string
}

// VisibilityCache memoizes visibility results during optimization. The
// optimizer revisits the same (unit, site, point) combinations across many
// perturbations and restarts, and the terrain line-of-sight test is by far
// the most expensive part of an evaluation. Entries are derived data only:
// the cache must be cleared whenever the terrain, clearance or unit
// hardware parameters change.
type VisibilityCache struct {
	m       sync.RWMutex
	results map[ResultKey]core.VisibilityResult
}

// NewVisibilityCache creates an empty cache.
func NewVisibilityCache() *VisibilityCache {
	return &VisibilityCache{
		results: make(map[ResultKey]core.VisibilityResult),
	}
}

// Get returns the cached result for the key, if present.
func (c *VisibilityCache) Get(key ResultKey) (core.VisibilityResult, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	r, ok := c.results[key]
	return r, ok
}

// Put stores a result.
func (c *VisibilityCache) Put(key ResultKey, r core.VisibilityResult) {
	c.m.Lock()
	defer c.m.Unlock()
	c.results[key] = r
}

// GetOrCompute returns the cached result or computes, stores and returns it.
func (c *VisibilityCache) GetOrCompute(key ResultKey, compute func() core.VisibilityResult) core.VisibilityResult {
	if r, ok := c.Get(key); ok {
		return r
	}
	r := compute()
	c.Put(key, r)
	return r
}

// Len returns the number of cached results.
func (c *VisibilityCache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return len(c.results)
}

// Reset drops all cached results.
func (c *VisibilityCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.results = make(map[ResultKey]core.VisibilityResult)
}
