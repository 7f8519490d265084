package saturation

import (
	"fmt"

	"github.com/ellalg/mwsat/nfcurve"
	"github.com/sirupsen/logrus"
)

// exhaustive decides p-saturation by enumerating all of P^(n-1)(F_p): every
// coefficient tuple whose last nonzero entry is 1. Each combination is
// tested for p-divisibility directly with the curve's division-point
// operation. It never recurses into the sieve, so the fallback depth from a
// sieve run is at most one.
func (s *Saturator) exhaustive(pts []nfcurve.Point, p uint64, cache *CombinationCache) (*StepResult, error) {
	s.metrics.exhaustiveRuns.Inc()
	n := len(pts)
	w := s.curve.W

	if n == 1 && p == 2 {
		divs, err := s.curve.DivisionPoints(pts[0], 2)
		if err != nil {
			return nil, err
		}
		if len(divs) == 0 {
			return &StepResult{Saturated: true}, nil
		}
		return &StepResult{Index: 0, Replacement: divs[0]}, nil
	}

	// Multiples tables; the last coordinate is only ever 0 or 1 after
	// normalizing the last nonzero entry to 1.
	mult := make([][]nfcurve.Point, n)
	for i := 0; i < n-1; i++ {
		mult[i] = w.Multiples(pts[i], p)
	}
	mult[n-1] = w.Multiples(pts[n-1], 2)

	for last := 0; last < n; last++ {
		v := make([]uint64, n)
		v[last] = 1
		for {
			comb := s.combination(pts, v, mult, cache)
			divs, err := s.curve.DivisionPoints(comb, p)
			if err != nil {
				return nil, err
			}
			if len(divs) > 0 {
				idx := firstOne(v)
				s.opts.Logger.WithFields(logrus.Fields{
					"p":     p,
					"coeff": combKey(v),
					"index": idx,
				}).Debug("divisible combination found")
				return &StepResult{Index: idx, Replacement: divs[0]}, nil
			}
			if !nextTuple(v, last, p) {
				break
			}
		}
	}
	return &StepResult{Saturated: true}, nil
}

// combination returns sum(v[i]·pts[i]), consulting and growing the cache.
func (s *Saturator) combination(pts []nfcurve.Point, v []uint64, mult [][]nfcurve.Point, cache *CombinationCache) nfcurve.Point {
	key := combKey(v)
	if q, ok := cache.get(key); ok {
		return q
	}
	w := s.curve.W
	q := w.Infinity()
	for i, c := range v {
		if c != 0 {
			q = w.Add(q, mult[i][c])
		}
	}
	cache.put(key, q)
	return q
}

// nextTuple advances the coordinates below position last through
// [0, p-1]^last in odometer order, reporting false after the final tuple.
func nextTuple(v []uint64, last int, p uint64) bool {
	for i := 0; i < last; i++ {
		v[i]++
		if v[i] < p {
			return true
		}
		v[i] = 0
	}
	return false
}

// firstOne returns the first index with coefficient exactly 1. The
// enumeration guarantees one exists.
func firstOne(v []uint64) int {
	for i, x := range v {
		if x == 1 {
			return i
		}
	}
	panic(fmt.Sprintf("saturation: no unit coefficient in %v", v))
}
