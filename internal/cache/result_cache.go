// Package cache memoizes extraction results by content hash so watch
// mode and repeated scans skip re-parsing unchanged files.
package cache

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/lix/pkg/extract"
)

// Cache configuration constants
const (
	DefaultMaxEntries = 4096
	// Rationale: results are small string sets, so even the full
	// cache stays in the low megabytes. 4096 covers most project
	// trees without an eviction storm.

	DefaultTTL = 2 * time.Hour
)

// Key hashes one file's content into a cache key. The language is part
// of the key because the same bytes extract differently under different
// grammars (a .js and a .ts file can share content).
func Key(language string, content []byte) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(language)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(content)
	return d.Sum64()
}

type entry struct {
	libs     *extract.ImportedLibraries
	cachedAt time.Time
	lastUsed time.Time
}

// ResultCache is a bounded content-addressed cache of extraction
// results. A hit is byte-equivalent to a fresh extraction (extraction
// is deterministic over content), so callers serve hits directly.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[uint64]*entry
	pathKeys   map[string]uint64 // last extracted key per path, for watch
	maxEntries int
	ttl        time.Duration

	hits      int64
	misses    int64
	evictions int64
	createdAt time.Time
}

// New creates a cache with the default limits.
func New() *ResultCache {
	return NewWithLimits(DefaultMaxEntries, DefaultTTL)
}

// NewWithLimits creates a cache holding at most maxEntries results,
// each valid for ttl. A ttl of 0 disables expiry.
func NewWithLimits(maxEntries int, ttl time.Duration) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ResultCache{
		entries:    make(map[uint64]*entry),
		pathKeys:   make(map[string]uint64),
		maxEntries: maxEntries,
		ttl:        ttl,
		createdAt:  time.Now(),
	}
}

// Get returns the cached result for key, or nil on a miss. Expired
// entries are dropped and count as misses.
func (c *ResultCache) Get(key uint64) *extract.ImportedLibraries {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}
	if c.ttl > 0 && time.Since(e.cachedAt) > c.ttl {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		return nil
	}
	e.lastUsed = time.Now()
	c.hits++
	return e.libs
}

// Put stores a result, evicting the least recently used entry when the
// cache is full. Callers must not mutate libs after handing it over.
func (c *ResultCache) Put(key uint64, libs *extract.ImportedLibraries) {
	if libs == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRULocked()
	}
	now := time.Now()
	c.entries[key] = &entry{libs: libs, cachedAt: now, lastUsed: now}
}

// evictLRULocked drops the least recently used entry. The linear scan
// is fine at this size; the map tops out at a few thousand entries.
func (c *ResultCache) evictLRULocked() {
	var oldestKey uint64
	var oldest time.Time
	found := false
	for k, e := range c.entries {
		if !found || e.lastUsed.Before(oldest) {
			found = true
			oldest = e.lastUsed
			oldestKey = k
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evictions++
	}
}

// RememberPath records the key last extracted for a path, so watch mode
// can tell whether a write event actually changed the content.
func (c *ResultCache) RememberPath(path string, key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pathKeys[path] = key
}

// PathKey returns the last recorded key for a path.
func (c *ResultCache) PathKey(path string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.pathKeys[path]
	return key, ok
}

// ForgetPath drops a removed file from the session.
func (c *ResultCache) ForgetPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pathKeys, path)
}

// CleanExpired removes every entry older than the TTL and returns how
// many were dropped.
func (c *ResultCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return 0
	}
	cleaned := 0
	now := time.Now()
	for k, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, k)
			cleaned++
		}
	}
	c.evictions += int64(cleaned)
	return cleaned
}

// Len reports the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries and resets statistics.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*entry)
	c.pathKeys = make(map[string]uint64)
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// CacheStats holds cache statistics
type CacheStats struct {
	Hits         int64
	Misses       int64
	Evictions    int64
	HitRate      float64
	Entries      int
	TrackedPaths int
	Uptime       time.Duration
	Status       string
}

// Stats returns a snapshot of the cache counters.
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Hits:         c.hits,
		Misses:       c.misses,
		Evictions:    c.evictions,
		HitRate:      hitRate,
		Entries:      len(c.entries),
		TrackedPaths: len(c.pathKeys),
		Uptime:       time.Since(c.createdAt),
		Status:       healthStatus(hitRate),
	}
}

func healthStatus(hitRate float64) string {
	switch {
	case hitRate >= 0.95:
		return "excellent"
	case hitRate >= 0.85:
		return "good"
	case hitRate >= 0.70:
		return "fair"
	default:
		return "poor"
	}
}
