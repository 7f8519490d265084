package saturation

import (
	"strconv"
	"strings"

	"github.com/ellalg/mwsat/nfcurve"
)

// CombinationCache memoizes linear combinations of a fixed point list over
// F_p. A cache is only meaningful for one (point list, p) pair: it carries a
// generation counter and must be invalidated whenever the spanned subgroup
// changes (a point is replaced, or torsion generators are injected). Entries
// are never overwritten: within one generation the cache only grows.
type CombinationCache struct {
	generation uint64
	entries    map[string]nfcurve.Point
}

// NewCombinationCache returns an empty cache at generation zero.
func NewCombinationCache() *CombinationCache {
	return &CombinationCache{entries: make(map[string]nfcurve.Point)}
}

// Generation returns the current generation counter.
func (c *CombinationCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	return c.generation
}

// Len returns the number of cached combinations.
func (c *CombinationCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Invalidate discards all entries and bumps the generation counter. It must
// be called whenever the underlying point list's span changes.
func (c *CombinationCache) Invalidate() {
	if c == nil {
		return
	}
	c.generation++
	c.entries = make(map[string]nfcurve.Point)
}

func (c *CombinationCache) get(key string) (nfcurve.Point, bool) {
	if c == nil {
		return nfcurve.Point{}, false
	}
	p, ok := c.entries[key]
	return p, ok
}

func (c *CombinationCache) put(key string, p nfcurve.Point) {
	if c == nil {
		return
	}
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = p
}

func combKey(v []uint64) string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(x, 10))
	}
	return b.String()
}
