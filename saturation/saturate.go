// Package saturation implements p-saturation of finite-index subgroups of
// the Mordell-Weil group of an elliptic curve over a number field: deciding
// whether a nontrivial linear combination of the given independent points is
// divisible by p in E(K), and enlarging the subgroup until none is.
//
// The single-step check runs a sieve over auxiliary primes, accumulating
// projection rows over F_p until their rank certifies saturation, with an
// exhaustive projective search as base case and fallback. The full
// procedure repeats the step, swapping in division points until saturation,
// and temporarily injects p-torsion generators so that torsion cannot mask a
// relation.
package saturation

import (
	"fmt"

	"github.com/ellalg/mwsat/nfcurve"
	"github.com/sirupsen/logrus"
)

// Saturator runs saturation procedures for one curve. It is not safe for
// concurrent use.
type Saturator struct {
	curve   *nfcurve.Curve
	opts    Options
	metrics *metrics
}

// New returns a Saturator for the given curve.
func New(curve *nfcurve.Curve, opts Options) *Saturator {
	o := opts.withDefaults()
	return &Saturator{
		curve:   curve,
		opts:    o,
		metrics: newMetrics(o.Registerer),
	}
}

// StepResult is the outcome of one saturation check. When Saturated is
// false, replacing the point at Index with Replacement enlarges the spanned
// subgroup by index p: p·Replacement equals the divisible combination that
// was found.
type StepResult struct {
	Saturated   bool
	Index       int
	Replacement nfcurve.Point
}

// PSaturation checks whether the given independent points are p-saturated
// in E(K). With useSieve it runs the auxiliary-prime sieve (falling back to
// the exhaustive search on stagnation); without, the exhaustive projective
// search alone. cache may be nil; a non-nil cache must belong to this
// (points, p) pair and is grown, never shrunk.
func (s *Saturator) PSaturation(pts []nfcurve.Point, p uint64, useSieve bool, cache *CombinationCache) (*StepResult, error) {
	if err := s.checkInput(pts, p); err != nil {
		return nil, err
	}
	if useSieve {
		return s.sieve(pts, p, cache)
	}
	return s.exhaustive(pts, p, cache)
}

// FullPSaturation saturates the given points at p. It returns a fresh
// saturated point list of the same length, never aliasing or mutating the
// input, together with the exponent e: the output span contains the input
// span with index p^e.
//
// Generators of the torsion subgroup with order divisible by p are appended
// to the working list first and stripped from the result; without them a
// relation that only holds modulo torsion would go undetected.
func (s *Saturator) FullPSaturation(pts []nfcurve.Point, p uint64) ([]nfcurve.Point, int, error) {
	if err := s.checkInput(pts, p); err != nil {
		return nil, 0, err
	}
	n := len(pts)
	work := make([]nfcurve.Point, n)
	copy(work, pts)

	gens, orders, err := s.curve.TorsionGens()
	if err != nil {
		return nil, 0, err
	}
	for i, g := range gens {
		if orders[i]%p == 0 {
			work = append(work, g)
		}
	}
	if len(work) > n {
		s.opts.Logger.WithFields(logrus.Fields{"p": p, "torsion_gens": len(work) - n}).
			Debug("injected torsion generators")
	}

	cache := NewCombinationCache()
	exponent := 0
	for {
		res, err := s.PSaturation(work, p, true, cache)
		if err != nil {
			return nil, 0, err
		}
		if res.Saturated {
			break
		}
		work[res.Index] = res.Replacement
		cache.Invalidate()
		s.metrics.replacements.Inc()
		exponent++
		s.opts.Logger.WithFields(logrus.Fields{"p": p, "index": res.Index, "exponent": exponent}).
			Debug("replaced point with division point")
	}
	return work[:n], exponent, nil
}

// checkInput fails fast on contract violations: empty lists, composite-like
// p out of range, or points off the curve.
func (s *Saturator) checkInput(pts []nfcurve.Point, p uint64) error {
	if len(pts) == 0 {
		return fmt.Errorf("saturation: empty point list")
	}
	if p < 2 {
		return fmt.Errorf("saturation: %d is not a prime", p)
	}
	if p >= 1<<31 {
		return fmt.Errorf("saturation: prime %d out of range", p)
	}
	for i, pt := range pts {
		if !s.curve.W.IsOnCurve(pt) {
			return fmt.Errorf("saturation: point %d is not on the curve", i)
		}
	}
	return nil
}
