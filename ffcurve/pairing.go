package ffcurve

import (
	"fmt"
	"math/bits"
)

// errDegenerate signals that a Miller line vanished at an evaluation point;
// the caller retries with a different auxiliary shift.
var errDegenerate = fmt.Errorf("ffcurve: degenerate pairing evaluation")

// WeilPairing returns e_m(p, q), an m-th root of unity in F_q^*. Both points
// must be killed by m, and the full pairing value must land in the base
// field, which holds whenever the relevant torsion is F_q-rational.
//
// It uses the ratio form of Miller's algorithm with a random shift s:
//
//	e_m(p, q) = [f_p(q+s)/f_p(s)] / [f_q(p-s)/f_q(-s)]
//
// retrying over shifts until no line function vanishes at an argument.
func (c *Curve) WeilPairing(p, q Point, m uint64) (uint64, error) {
	if m == 0 {
		return 0, fmt.Errorf("ffcurve: pairing order must be positive")
	}
	if !c.W.ScalarMulUint(p, m).Inf || !c.W.ScalarMulUint(q, m).Inf {
		return 0, fmt.Errorf("ffcurve: pairing arguments not killed by %d", m)
	}
	if p.Inf || q.Inf || c.W.Equal(p, q) {
		return 1, nil
	}
	for _, s := range c.Points() {
		if s.Inf {
			continue
		}
		num, err := c.millerRatio(p, m, c.W.Add(q, s), s)
		if err == errDegenerate {
			continue
		}
		if err != nil {
			return 0, err
		}
		den, err := c.millerRatio(q, m, c.W.Sub(p, s), c.W.Neg(s))
		if err == errDegenerate {
			continue
		}
		if err != nil {
			return 0, err
		}
		inv, err := c.F.Inv(den)
		if err != nil {
			return 0, err
		}
		return c.F.Mul(num, inv), nil
	}
	return 0, fmt.Errorf("ffcurve: no usable shift for pairing in E(F_%d)", c.F.Q)
}

// millerRatio returns f_{m,a}(b1)/f_{m,a}(b2), where f_{m,a} has divisor
// m(a) - m(O). Evaluating the ratio keeps all intermediate values in F_q^*
// and fails with errDegenerate when a line vanishes at b1 or b2.
func (c *Curve) millerRatio(a Point, m uint64, b1, b2 Point) (uint64, error) {
	f := c.F
	num, den := f.One(), f.One()
	t := a
	for i := bits.Len64(m) - 2; i >= 0; i-- {
		n1, d1, err := c.lineRatio(t, t, b1, b2)
		if err != nil {
			return 0, err
		}
		num = f.Mul(f.Mul(num, num), n1)
		den = f.Mul(f.Mul(den, den), d1)
		t = c.W.Double(t)
		if m>>uint(i)&1 == 1 {
			n2, d2, err := c.lineRatio(t, a, b1, b2)
			if err != nil {
				return 0, err
			}
			num = f.Mul(num, n2)
			den = f.Mul(den, d2)
			t = c.W.Add(t, a)
		}
	}
	inv, err := f.Inv(den)
	if err != nil {
		return 0, err
	}
	return f.Mul(num, inv), nil
}

// lineRatio evaluates g(b1) and g(b2) for the Miller line function
// g = l/v, where l is the line through t and u (the tangent for t == u) and
// v the vertical at t+u. When t+u is infinity the function is just the
// vertical line at t.
func (c *Curve) lineRatio(t, u, b1, b2 Point) (uint64, uint64, error) {
	f := c.F
	if t.Inf || u.Inf {
		return f.One(), f.One(), nil
	}
	sum := c.W.Add(t, u)
	if sum.Inf {
		// g(b) = x(b) - x(t)
		v1 := f.Sub(b1.X, t.X)
		v2 := f.Sub(b2.X, t.X)
		if f.IsZero(v1) || f.IsZero(v2) {
			return 0, 0, errDegenerate
		}
		return v1, v2, nil
	}
	lambda, err := c.slope(t, u)
	if err != nil {
		return 0, 0, err
	}
	eval := func(b Point) uint64 {
		l := f.Sub(f.Sub(b.Y, t.Y), f.Mul(lambda, f.Sub(b.X, t.X)))
		return l
	}
	l1, l2 := eval(b1), eval(b2)
	v1 := f.Sub(b1.X, sum.X)
	v2 := f.Sub(b2.X, sum.X)
	if f.IsZero(l1) || f.IsZero(l2) || f.IsZero(v1) || f.IsZero(v2) {
		return 0, 0, errDegenerate
	}
	return f.Mul(l1, v2), f.Mul(l2, v1), nil
}

// slope returns the slope of the line through t and u, or of the tangent at
// t when the points coincide. The caller guarantees t + u is affine, so the
// denominators are nonzero.
func (c *Curve) slope(t, u Point) (uint64, error) {
	f := c.F
	if !f.Equal(t.X, u.X) {
		inv, err := f.Inv(f.Sub(u.X, t.X))
		if err != nil {
			return 0, err
		}
		return f.Mul(f.Sub(u.Y, t.Y), inv), nil
	}
	den := f.Add(f.Add(t.Y, t.Y), f.Add(f.Mul(c.W.A1, t.X), c.W.A3))
	inv, err := f.Inv(den)
	if err != nil {
		return 0, err
	}
	xsq := f.Mul(t.X, t.X)
	num := f.Add(f.Mul(f.FromInt(3), xsq), f.Mul(f.FromInt(2), f.Mul(c.W.A2, t.X)))
	num = f.Add(num, c.W.A4)
	num = f.Sub(num, f.Mul(c.W.A1, t.Y))
	return f.Mul(num, inv), nil
}
