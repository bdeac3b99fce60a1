package hypergraph

import (
	"sync"

	"github.com/katalvlaran/hyperlath/sparse"
)

// cacheKey addresses one derived matrix: scope is the owning group name, or
// "" for structure-wide (cross-group) matrices.
type cacheKey struct {
	scope string
	name  string
}

// cacheEntry pairs a materialized matrix with the epoch it was built at.
// An entry whose epoch trails the current epoch of its scope is stale and
// is rebuilt on the next access — mutation never has to hunt down
// individual keys.
type cacheEntry struct {
	epoch uint64
	m     *sparse.COO
}

// matrixCache memoizes derived sparse matrices with epoch-based
// invalidation. Each group carries its own epoch; the global epoch covers
// cross-group matrices (which concatenate over groups) and vertex-weight
// dependents. Lazy population is mutex-guarded so concurrent read-only
// aggregation never races on a half-built entry.
type matrixCache struct {
	mu          sync.Mutex
	groupEpoch  map[string]uint64
	globalEpoch uint64
	entries     map[cacheKey]cacheEntry
}

func newMatrixCache() *matrixCache {
	return &matrixCache{
		groupEpoch: make(map[string]uint64),
		entries:    make(map[cacheKey]cacheEntry),
	}
}

// bumpEpoch invalidates one group's derived matrices and, because global
// matrices concatenate over groups, the structure-wide ones too.
func (h *Hypergraph) bumpEpoch(group string) {
	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	h.cache.groupEpoch[group]++
	h.cache.globalEpoch++
}

// bumpGlobalEpoch invalidates only structure-wide matrices; per-group
// incidence and degree matrices do not depend on vertex weights.
func (h *Hypergraph) bumpGlobalEpoch() {
	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	h.cache.globalEpoch++
}

func (c *matrixCache) epochOf(scope string) uint64 {
	if scope == "" {
		return c.globalEpoch
	}

	return c.groupEpoch[scope]
}

// cached returns the matrix for (scope, name), building it with build on a
// miss or when the stored entry's epoch is stale. The build runs outside
// the lock (builders recurse into other cached matrices); the store-back
// re-checks the epoch so a concurrent mutation discards the stale result.
func (c *matrixCache) cached(scope, name string, build func() *sparse.COO) *sparse.COO {
	key := cacheKey{scope: scope, name: name}

	c.mu.Lock()
	epoch := c.epochOf(scope)
	if e, ok := c.entries[key]; ok && e.epoch == epoch {
		c.mu.Unlock()
		observeCacheHit(scope)

		return e.m
	}
	c.mu.Unlock()
	observeCacheMiss(scope)

	m := build()

	c.mu.Lock()
	if c.epochOf(scope) == epoch {
		c.entries[key] = cacheEntry{epoch: epoch, m: m}
	}
	c.mu.Unlock()

	return m
}

// rebind re-binds cache entries to the current device. The host backend
// stores matrices location-independently, so the entries themselves stay.
func (c *matrixCache) rebind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	// COO matrices live in host memory regardless of binding; nothing to move.
}
