// Package nfcurve implements elliptic curves over number fields: exact point
// arithmetic, reduction modulo degree-one primes, division points and the
// rational torsion subgroup. It is the exact side of the saturation
// machinery; package ffcurve is its finite-field counterpart.
package nfcurve

import (
	"math/big"

	"github.com/ellalg/mwsat/ffcurve"
	"github.com/ellalg/mwsat/ffield"
	"github.com/ellalg/mwsat/nf"
	"github.com/ellalg/mwsat/weier"
)

// Point is a point of E(K).
type Point = weier.Point[nf.Element]

// Curve is an elliptic curve over a number field K.
type Curve struct {
	K *nf.Field
	W *weier.Curve[nf.Element]

	// bad is divisible by every rational prime at which reduction of the
	// curve data can fail: primes dividing disc of the defining polynomial,
	// the numerator or denominator of N(disc E), or an a-invariant
	// denominator.
	bad *big.Int
}

// NewCurve returns the curve [a1, a2, a3, a4, a6] over k.
func NewCurve(k *nf.Field, a1, a2, a3, a4, a6 nf.Element) (*Curve, error) {
	w, err := weier.NewCurve[nf.Element](k, a1, a2, a3, a4, a6)
	if err != nil {
		return nil, err
	}
	c := &Curve{K: k, W: w}

	bad := new(big.Int).Abs(k.Disc())
	nd := k.Norm(w.Disc())
	bad.Mul(bad, new(big.Int).Abs(nd.Num()))
	bad.Mul(bad, nd.Denom())
	for _, a := range []nf.Element{a1, a2, a3, a4, a6} {
		bad.Mul(bad, k.Denominator(a))
	}
	c.bad = bad
	return c, nil
}

// NewPoint returns the affine point (x, y), checking the curve equation.
func (c *Curve) NewPoint(x, y nf.Element) (Point, error) {
	return c.W.NewPoint(x, y)
}

// Infinity returns the zero of E(K).
func (c *Curve) Infinity() Point { return c.W.Infinity() }

// IsGoodPrime reports whether the odd prime q is usable for reducing the
// curve and the given points: it must not divide the curve's bad-prime data
// or any coordinate denominator of the points.
func (c *Curve) IsGoodPrime(q uint64, pts []Point) bool {
	if q < 3 || q%2 == 0 {
		return false
	}
	qb := new(big.Int).SetUint64(q)
	if new(big.Int).Mod(c.bad, qb).Sign() == 0 {
		return false
	}
	t := new(big.Int)
	for _, p := range pts {
		if p.Inf {
			continue
		}
		if t.Mod(c.K.Denominator(p.X), qb).Sign() == 0 {
			return false
		}
		if t.Mod(c.K.Denominator(p.Y), qb).Sign() == 0 {
			return false
		}
	}
	return true
}

// ReductionRoots returns F_q together with the roots of the defining
// polynomial mod q. Each root is an embedding of the ring of q-integers of K
// into F_q, that is, a degree-one prime of K above q.
func (c *Curve) ReductionRoots(q uint64) (*ffield.Field, []uint64, error) {
	f, err := ffield.New(q)
	if err != nil {
		return nil, nil, err
	}
	return f, c.K.RootsModQ(f), nil
}

// Reduce returns the reduction of the curve modulo the degree-one prime of K
// given by the embedding t -> a into F_q.
func (c *Curve) Reduce(f *ffield.Field, a uint64) (*ffcurve.Curve, error) {
	inv := make([]uint64, 5)
	for i, e := range []nf.Element{c.W.A1, c.W.A2, c.W.A3, c.W.A4, c.W.A6} {
		v, err := c.K.Embed(e, f, a)
		if err != nil {
			return nil, err
		}
		inv[i] = v
	}
	return ffcurve.NewCurve(f, inv[0], inv[1], inv[2], inv[3], inv[4])
}

// ReducePoint reduces a point of E(K) through the same embedding used for
// Reduce. The caller guarantees good reduction via IsGoodPrime.
func (c *Curve) ReducePoint(rc *ffcurve.Curve, a uint64, p Point) (ffcurve.Point, error) {
	if p.Inf {
		return rc.W.Infinity(), nil
	}
	x, err := c.K.Embed(p.X, rc.F, a)
	if err != nil {
		return ffcurve.Point{}, err
	}
	y, err := c.K.Embed(p.Y, rc.F, a)
	if err != nil {
		return ffcurve.Point{}, err
	}
	return rc.W.NewPoint(x, y)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
