package metrics

import "sync/atomic"

// CacheMetric counts hits and misses of a cache or pool.
type CacheMetric struct {
	name   string
	hits   atomic.Int64
	misses atomic.Int64
}

func newCacheMetric(name string) *CacheMetric {
	return &CacheMetric{name: name}
}

// Hit records a lookup that was served from the cache.
func (m *CacheMetric) Hit() {
	if enabled {
		m.hits.Add(1)
	}
}

// Miss records a lookup the cache could not serve.
func (m *CacheMetric) Miss() {
	if enabled {
		m.misses.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (m *CacheMetric) Stats() CacheStats {
	hits := m.hits.Load()
	misses := m.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{Name: m.name, Hits: hits, Misses: misses, HitRate: rate}
}

// Reset clears the counters.
func (m *CacheMetric) Reset() {
	m.hits.Store(0)
	m.misses.Store(0)
}

// CacheStats holds a snapshot of cache counters.
type CacheStats struct {
	Name    string  `json:"name"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Global cache metrics.
var (
	HeightCacheMetric = newCacheMetric("height_cache")
	ViewPoolMetric    = newCacheMetric("view_pool")
)

// AllCacheMetrics returns all registered cache metrics.
func AllCacheMetrics() []*CacheMetric {
	return []*CacheMetric{HeightCacheMetric, ViewPoolMetric}
}
