package engine

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cyp0633/librecur/rule"
)

// ExpansionCache memoizes Expand results. The engine itself is stateless;
// callers that expand the same rule repeatedly (a UI preview re-rendering
// on every edit, say) opt into caching explicitly by owning one of these.
type ExpansionCache struct {
	entries         map[string]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

type cacheEntry struct {
	occurrences []time.Time
	expiresAt   time.Time
	accessedAt  time.Time
}

// CacheConfig holds configuration for the expansion cache
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for preview workloads
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewExpansionCache creates an expansion cache with the given configuration
func NewExpansionCache(config CacheConfig) *ExpansionCache {
	cache := &ExpansionCache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}
	go cache.cleanupLoop()
	return cache
}

// Expand returns the cached occurrences for (start, r, count) or delegates
// to the engine and stores the result. Errors are never cached.
func (c *ExpansionCache) Expand(e *Engine, start time.Time, r rule.Rule, count int) ([]time.Time, error) {
	key := expansionKey(start, r, count)
	if occurrences, ok := c.get(key); ok {
		return occurrences, nil
	}

	occurrences, err := e.Expand(start, r, count)
	if err != nil {
		return nil, err
	}
	c.set(key, occurrences)
	return occurrences, nil
}

// expansionKey hashes every input the expansion depends on. Each field
// is written with a name and terminator so the byte stream is unambiguous
// and adjacent numeric fields cannot run together.
func expansionKey(start time.Time, r rule.Rule, count int) string {
	hasher := sha256.New()

	fmt.Fprintf(hasher, "start=%s;freq=%s;interval=%d;ruleCount=%d;",
		start.UTC().Format(time.RFC3339Nano), r.Frequency, r.EffectiveInterval(), r.Count)
	if until, ok := r.Until.Get(); ok {
		fmt.Fprintf(hasher, "until=%s;", until.UTC().Format(time.RFC3339Nano))
	}
	for _, spec := range r.ByWeekday {
		fmt.Fprintf(hasher, "byday=%s;", spec)
	}
	for _, v := range r.ByMonthDay {
		fmt.Fprintf(hasher, "bymonthday=%d;", v)
	}
	for _, v := range r.BySetPos {
		fmt.Fprintf(hasher, "bysetpos=%d;", v)
	}
	for _, v := range r.ByMonth {
		fmt.Fprintf(hasher, "bymonth=%d;", v)
	}
	if wkst, ok := r.WeekStart.Get(); ok {
		fmt.Fprintf(hasher, "wkst=%s;", rule.WeekdayCode(wkst))
	}
	fmt.Fprintf(hasher, "tz=%s;count=%d", r.TimeZone, count)

	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (c *ExpansionCache) get(key string) ([]time.Time, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.accessedAt = now
	c.mutex.Unlock()

	// Copy so callers cannot mutate the cached slice.
	occurrences := make([]time.Time, len(entry.occurrences))
	copy(occurrences, entry.occurrences)
	return occurrences, true
}

func (c *ExpansionCache) set(key string, occurrences []time.Time) {
	now := time.Now()
	stored := make([]time.Time, len(occurrences))
	copy(stored, occurrences)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = &cacheEntry{
		occurrences: stored,
		expiresAt:   now.Add(c.ttl),
		accessedAt:  now,
	}

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries and, if still over the limit, the least
// recently accessed ones. Caller must hold the write lock.
func (c *ExpansionCache) cleanup() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) <= c.maxEntries {
		return
	}

	type keyAccess struct {
		key        string
		accessedAt time.Time
	}
	byAge := make([]keyAccess, 0, len(c.entries))
	for key, entry := range c.entries {
		byAge = append(byAge, keyAccess{key: key, accessedAt: entry.accessedAt})
	}
	sort.Slice(byAge, func(i, j int) bool { return byAge[i].accessedAt.Before(byAge[j].accessedAt) })

	toRemove := len(c.entries) - c.maxEntries
	for i := 0; i < toRemove && i < len(byAge); i++ {
		delete(c.entries, byAge[i].key)
	}
}

func (c *ExpansionCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache
func (c *ExpansionCache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics
func (c *ExpansionCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	expired := 0
	now := time.Now()
	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expired++
		}
	}

	return CacheStats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}

// CacheStats provides information about cache occupancy
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
