package service

import (
	"sync"
	"time"

	"github.com/JairPrada/RadarColTfm/model"
)

// WorkingSetCache holds the most recently fetched, validated and normalized
// contract set, keyed by the canonical list query string. A request that
// only changes the page number produces the same key and reuses the set
// instead of re-issuing the network call; any filter or limit change
// produces a new key and replaces the entry wholesale. One entry is enough:
// the pipeline discards prior results on every filter change by design.
type WorkingSetCache struct {
	mu        sync.RWMutex
	key       string
	contracts []model.Contract
	rollup    model.Rollup
	fetchedAt time.Time
	ttl       time.Duration
}

// NewWorkingSetCache creates a cache whose entry expires after ttl. A zero
// ttl disables expiry.
func NewWorkingSetCache(ttl time.Duration) *WorkingSetCache {
	return &WorkingSetCache{ttl: ttl}
}

// Get returns the cached set for key, or ok=false when the key differs
// from the cached one or the entry has expired. The returned slice is a
// copy: callers sort and slice their own view without aliasing the cache.
func (c *WorkingSetCache) Get(key string) ([]model.Contract, model.Rollup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.contracts == nil || c.key != key {
		return nil, model.Rollup{}, false
	}
	if c.ttl > 0 && time.Since(c.fetchedAt) > c.ttl {
		return nil, model.Rollup{}, false
	}

	out := make([]model.Contract, len(c.contracts))
	copy(out, c.contracts)
	return out, c.rollup, true
}

// Put replaces the cached entry.
func (c *WorkingSetCache) Put(key string, contracts []model.Contract, rollup model.Rollup) {
	stored := make([]model.Contract, len(contracts))
	copy(stored, contracts)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = key
	c.contracts = stored
	c.rollup = rollup
	c.fetchedAt = time.Now()
}

// Invalidate drops the cached entry.
func (c *WorkingSetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = ""
	c.contracts = nil
	c.rollup = model.Rollup{}
}
