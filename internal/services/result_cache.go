package services

import (
	"sync"
	"time"
)

type cacheKey struct {
	UserID     uint
	WindowDays int
}

// ResultCache memoizes ranked result sets per user and window shape. It is
// the engine's only shared mutable state: reads stay concurrent while a
// recomputation is in flight (stale-but-valid data is served), and the swap
// itself is guarded by a per-user monotonic version counter so the last
// writer by version wins, never the last writer by wall clock.
type ResultCache struct {
	mu       sync.RWMutex
	entries  map[cacheKey]*CorrelationResultSet
	versions map[uint]uint64
}

func NewResultCache() *ResultCache {
	return &ResultCache{
		entries:  make(map[cacheKey]*CorrelationResultSet),
		versions: make(map[uint]uint64),
	}
}

func (cache *ResultCache) Get(userID uint, windowDays int) (*CorrelationResultSet, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	set, ok := cache.entries[cacheKey{UserID: userID, WindowDays: windowDays}]
	return set, ok
}

// BeginRun registers a new recomputation and returns its version. Any run
// started earlier for the same user becomes stale immediately.
func (cache *ResultCache) BeginRun(userID uint) uint64 {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.versions[userID]++
	return cache.versions[userID]
}

// Commit installs the result set if the run is still the newest for the
// user. A false return is the self-healing consistency case: the stale write
// is discarded and the cache stays unchanged.
func (cache *ResultCache) Commit(userID uint, windowDays int, version uint64, set *CorrelationResultSet) bool {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.versions[userID] != version {
		return false
	}
	cache.entries[cacheKey{UserID: userID, WindowDays: windowDays}] = set
	return true
}

// Invalidate drops the user's entries and bumps the version so that any
// in-flight run commits into the void and the next compute misses.
func (cache *ResultCache) Invalidate(userID uint) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.versions[userID]++
	for key := range cache.entries {
		if key.UserID == userID {
			delete(cache.entries, key)
		}
	}
}

func (cache *ResultCache) LastCalculated(userID uint, windowDays int) (time.Time, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	set, ok := cache.entries[cacheKey{UserID: userID, WindowDays: windowDays}]
	if !ok {
		return time.Time{}, false
	}
	return set.CalculatedAt, true
}
