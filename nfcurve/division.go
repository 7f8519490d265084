package nfcurve

import (
	"fmt"

	"github.com/ellalg/mwsat/nf"
)

// DivisionPoints returns all Q in E(K) with m·Q = p. For affine p the
// candidate x-coordinates are the K-roots of a univariate division
// polynomial identity; for p at infinity they are the roots of the m-torsion
// polynomial. Every candidate is verified by exact scalar multiplication.
func (c *Curve) DivisionPoints(p Point, m uint64) ([]Point, error) {
	if m == 0 {
		return nil, fmt.Errorf("nfcurve: division by zero")
	}
	if m == 1 {
		return []Point{p}, nil
	}

	var poly nf.Poly
	if p.Inf {
		poly = nf.Poly(c.W.TorsionPoly(m))
	} else {
		poly = nf.Poly(c.W.DivisionPreimagePoly(p.X, m))
	}
	xs, err := c.K.Roots(poly)
	if err != nil {
		return nil, err
	}

	var out []Point
	if p.Inf {
		out = append(out, c.Infinity())
	}
	for _, x := range xs {
		for _, y := range c.ySolutions(x) {
			q := Point{X: x, Y: y}
			if !c.W.IsOnCurve(q) {
				continue
			}
			if c.W.Equal(c.W.ScalarMulUint(q, m), p) && !c.contains(out, q) {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

// ySolutions returns the y-coordinates of the curve points with abscissa x:
// the roots of y² + (a1·x + a3)·y - (x³ + a2·x² + a4·x + a6), solved by the
// quadratic formula with an exact square root in K.
func (c *Curve) ySolutions(x nf.Element) []nf.Element {
	k := c.K
	l := k.Add(k.Mul(c.W.A1, x), c.W.A3)
	rhs := k.Add(k.Mul(k.Add(k.Mul(k.Add(x, c.W.A2), x), c.W.A4), x), c.W.A6)
	disc := k.Add(k.Mul(l, l), k.MulInt(4, rhs))
	s, ok, err := k.Sqrt(disc)
	if err != nil || !ok {
		return nil
	}
	inv2, err := k.Inv(k.FromInt(2))
	if err != nil {
		return nil
	}
	y1 := k.Mul(k.Sub(s, l), inv2)
	if k.IsZero(s) {
		return []nf.Element{y1}
	}
	y2 := k.Mul(k.Sub(k.Neg(s), l), inv2)
	return []nf.Element{y1, y2}
}

func (c *Curve) contains(pts []Point, q Point) bool {
	for _, p := range pts {
		if c.W.Equal(p, q) {
			return true
		}
	}
	return false
}
