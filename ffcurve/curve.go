// Package ffcurve implements elliptic curves over small prime fields F_q:
// point counting, full enumeration, the abelian group structure of E(F_q),
// Weil pairings and discrete logarithms. These are the services the
// saturation sieve needs at each auxiliary prime.
package ffcurve

import (
	"github.com/ellalg/mwsat/ffield"
	"github.com/ellalg/mwsat/weier"
)

// Point is an affine point of E(F_q) or the point at infinity. It is a
// comparable value and can be used as a map key.
type Point = weier.Point[uint64]

// Curve is an elliptic curve over F_q, q an odd prime.
type Curve struct {
	F *ffield.Field
	W *weier.Curve[uint64]

	order  uint64
	points []Point
}

// NewCurve returns the curve [a1, a2, a3, a4, a6] over f.
func NewCurve(f *ffield.Field, a1, a2, a3, a4, a6 uint64) (*Curve, error) {
	w, err := weier.NewCurve[uint64](f, a1%f.Q, a2%f.Q, a3%f.Q, a4%f.Q, a6%f.Q)
	if err != nil {
		return nil, err
	}
	return &Curve{F: f, W: w}, nil
}

// ydisc returns D(x) = (a1·x + a3)² + 4·(x³ + a2·x² + a4·x + a6). The number
// of affine points with abscissa x is 1 + chi(D(x)).
func (c *Curve) ydisc(x uint64) uint64 {
	f := c.F
	l := f.Add(f.Mul(c.W.A1, x), c.W.A3)
	r := f.Add(f.Mul(f.Add(f.Mul(f.Add(x, c.W.A2), x), c.W.A4), x), c.W.A6)
	return f.Add(f.Mul(l, l), f.Mul(f.FromInt(4), r))
}

// Order returns #E(F_q), counted once by a quadratic character sum and then
// cached.
func (c *Curve) Order() uint64 {
	if c.order != 0 {
		return c.order
	}
	n := c.F.Q + 1
	for x := uint64(0); x < c.F.Q; x++ {
		switch c.F.Legendre(c.ydisc(x)) {
		case 1:
			n++
		case -1:
			n--
		}
	}
	c.order = n
	return n
}

// Points enumerates all points of E(F_q), including infinity. The slice is
// cached and must not be modified.
func (c *Curve) Points() []Point {
	if c.points != nil {
		return c.points
	}
	f := c.F
	inv2, err := f.Inv(2)
	if err != nil {
		panic("ffcurve: unreachable: 2 is a unit in odd characteristic")
	}
	pts := []Point{c.W.Infinity()}
	for x := uint64(0); x < f.Q; x++ {
		d := c.ydisc(x)
		l := f.Add(f.Mul(c.W.A1, x), c.W.A3)
		if d == 0 {
			y := f.Mul(f.Neg(l), inv2)
			pts = append(pts, Point{X: x, Y: y})
			continue
		}
		s, ok := f.Sqrt(d)
		if !ok {
			continue
		}
		// (±s - a1·x - a3)/2
		pts = append(pts,
			Point{X: x, Y: f.Mul(f.Sub(s, l), inv2)},
			Point{X: x, Y: f.Mul(f.Sub(f.Neg(s), l), inv2)})
	}
	c.points = pts
	return pts
}

// PointOrder returns the order of p in E(F_q).
func (c *Curve) PointOrder(p Point) uint64 {
	n := c.Order()
	ord := n
	for _, pe := range ffield.Factor(n) {
		for ord%pe.P == 0 && c.W.ScalarMulUint(p, ord/pe.P).Inf {
			ord /= pe.P
		}
	}
	return ord
}
