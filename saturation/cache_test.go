package saturation

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/ellalg/mwsat/nfcurve"
)

func TestCombinationCacheNilSafe(t *testing.T) {
	var c *CombinationCache
	require.Zero(t, c.Generation())
	require.Zero(t, c.Len())
	c.Invalidate()
	c.put("1,2", nfcurve.Point{Inf: true})
	_, ok := c.get("1,2")
	require.False(t, ok)
}

func TestCombinationCacheInvalidate(t *testing.T) {
	c := NewCombinationCache()
	c.put("0,1", nfcurve.Point{Inf: true})
	require.Equal(t, 1, c.Len())
	require.Equal(t, uint64(0), c.Generation())

	c.Invalidate()
	require.Zero(t, c.Len())
	require.Equal(t, uint64(1), c.Generation())
	_, ok := c.get("0,1")
	require.False(t, ok)
}

// Within one generation the cache only grows and never rebinds a key.
func TestCombinationCacheMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("first put wins", prop.ForAll(
		func(coeffs []uint64) bool {
			c := NewCombinationCache()
			key := combKey(coeffs)
			first := nfcurve.Point{Inf: true}
			c.put(key, first)
			c.put(key, nfcurve.Point{})
			got, ok := c.get(key)
			return ok && got.Inf && c.Len() == 1
		},
		gen.SliceOfN(4, gen.UInt64Range(0, 6)),
	))

	properties.Property("distinct tuples get distinct keys", prop.ForAll(
		func(a, b []uint64) bool {
			if len(a) == len(b) {
				same := true
				for i := range a {
					same = same && a[i] == b[i]
				}
				if same {
					return combKey(a) == combKey(b)
				}
			}
			return combKey(a) != combKey(b) || equalTuples(a, b)
		},
		gen.SliceOfN(3, gen.UInt64Range(0, 100)),
		gen.SliceOfN(3, gen.UInt64Range(0, 100)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func equalTuples(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
