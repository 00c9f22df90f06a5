package expand

import "github.com/vanderheijden86/accordion/pkg/metrics"

// HeightCache remembers the natural height of each position's detail region.
// Recycled views report the size of whatever they showed last, so a height
// is only trusted if it was captured right after the position was laid out.
type HeightCache struct {
	heights map[Position]int
}

// NewHeightCache creates an empty cache.
func NewHeightCache() *HeightCache {
	return &HeightCache{heights: make(map[Position]int, 16)}
}

// Get returns the cached height for pos.
func (c *HeightCache) Get(pos Position) (int, bool) {
	h, ok := c.heights[pos]
	if ok {
		metrics.HeightCacheMetric.Hit()
	} else {
		metrics.HeightCacheMetric.Miss()
	}
	return h, ok
}

// Put stores the natural height for pos. Negative heights are stored as 0.
func (c *HeightCache) Put(pos Position, height int) {
	if height < 0 {
		height = 0
	}
	c.heights[pos] = height
}

// Len returns the number of cached positions.
func (c *HeightCache) Len() int {
	return len(c.heights)
}

// Reset forgets every cached height.
func (c *HeightCache) Reset() {
	clear(c.heights)
}
