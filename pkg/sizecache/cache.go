// Package sizecache memoizes intrinsic sizes of list items.
//
// An entry is keyed by item identity and remembers the width, the inherited
// margins and the component it was measured with. A lookup hits only when all
// three still match, so content and geometry changes invalidate implicitly;
// Invalidate and InvalidateAll drop entries explicitly. Entries are never
// evicted by size or age.
//
// A Cache is confined to the goroutine that owns the list surface and is not
// safe for concurrent use.
package sizecache

import "github.com/vango-dev/bento/pkg/box"

// Measure selects between exact and estimated heights.
type Measure uint8

const (
	Exact Measure = iota
	Estimated
)

// String returns the string representation of the Measure.
func (m Measure) String() string {
	switch m {
	case Exact:
		return "exact"
	case Estimated:
		return "estimated"
	default:
		return "unknown"
	}
}

// Resolver returns the current component of an item.
type Resolver[K comparable] func(key K) (box.Component, bool)

// Observer receives cache activity, typically for metrics.
type Observer interface {
	CacheHit(m Measure)
	CacheMiss(m Measure)
}

// Stats counts cache activity.
type Stats struct {
	Hits          int
	Misses        int
	Invalidations int
	Entries       int
}

type entry struct {
	width     float64
	margins   box.Insets
	component box.Component
	size      box.Size
}

type slotKey[K comparable] struct {
	key     K
	measure Measure
}

// Cache memoizes sizes per item.
type Cache[K comparable] struct {
	resolve  Resolver[K]
	entries  map[slotKey[K]]*entry
	observer Observer
	stats    Stats
}

// New creates a cache that resolves components through resolve.
func New[K comparable](resolve Resolver[K]) *Cache[K] {
	return &Cache[K]{
		resolve: resolve,
		entries: make(map[slotKey[K]]*entry),
	}
}

// SetObserver sets the activity observer.
func (c *Cache[K]) SetObserver(o Observer) {
	c.observer = o
}

// Size returns the exact size of an item for the given geometry. It reports
// false when the item does not exist or does not customize its height.
func (c *Cache[K]) Size(key K, width float64, margins box.Insets) (box.Size, bool) {
	return c.lookup(key, Exact, width, margins)
}

// Estimated returns the estimated size of an item for the given geometry.
func (c *Cache[K]) Estimated(key K, width float64, margins box.Insets) (box.Size, bool) {
	return c.lookup(key, Estimated, width, margins)
}

func (c *Cache[K]) lookup(key K, m Measure, width float64, margins box.Insets) (box.Size, bool) {
	comp, ok := c.resolve(key)
	if !ok || comp == nil {
		return box.Size{}, false
	}

	sk := slotKey[K]{key: key, measure: m}
	if e, ok := c.entries[sk]; ok {
		if e.width == width && e.margins == margins && box.Equal(e.component, comp) {
			c.stats.Hits++
			if c.observer != nil {
				c.observer.CacheHit(m)
			}
			return e.size, true
		}
		delete(c.entries, sk)
	}

	h, ok := box.As[box.HeightCustomizing](comp)
	if !ok {
		return box.Size{}, false
	}

	c.stats.Misses++
	if c.observer != nil {
		c.observer.CacheMiss(m)
	}

	var height float64
	if m == Estimated {
		height = h.EstimatedHeight(width, margins.Horizontal())
	} else {
		height = h.Height(width, margins.Horizontal())
	}

	size := box.Size{Width: width, Height: height}
	c.entries[sk] = &entry{width: width, margins: margins, component: comp, size: size}
	return size, true
}

// Invalidate drops every entry of an item.
func (c *Cache[K]) Invalidate(key K) {
	for _, m := range []Measure{Exact, Estimated} {
		sk := slotKey[K]{key: key, measure: m}
		if _, ok := c.entries[sk]; ok {
			delete(c.entries, sk)
			c.stats.Invalidations++
		}
	}
}

// InvalidateFunc drops every entry whose key matches.
func (c *Cache[K]) InvalidateFunc(match func(K) bool) {
	for sk := range c.entries {
		if match(sk.key) {
			delete(c.entries, sk)
			c.stats.Invalidations++
		}
	}
}

// InvalidateAll drops every entry, typically after a geometry change.
func (c *Cache[K]) InvalidateAll() {
	c.stats.Invalidations += len(c.entries)
	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache[K]) Len() int {
	return len(c.entries)
}

// Stats returns activity counters.
func (c *Cache[K]) Stats() Stats {
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
