// Package weier implements arithmetic on elliptic curves in long Weierstrass
// form y² + a1·xy + a3·y = x³ + a2·x² + a4·x + a6 over any algebra.Field.
// The same code serves curves over number fields and their reductions over
// small prime fields.
package weier

import (
	"fmt"
	"math/big"

	"github.com/ellalg/mwsat/algebra"
)

// Curve is an elliptic curve in long Weierstrass form over F.
type Curve[E any] struct {
	F                  algebra.Field[E]
	A1, A2, A3, A4, A6 E

	b2, b4, b6, b8 E
	disc           E
}

// Point is an affine point or the point at infinity.
type Point[E any] struct {
	X, Y E
	Inf  bool
}

// NewCurve returns the curve with the given a-invariants. It returns an
// error if the discriminant vanishes.
func NewCurve[E any](f algebra.Field[E], a1, a2, a3, a4, a6 E) (*Curve[E], error) {
	c := &Curve[E]{F: f, A1: a1, A2: a2, A3: a3, A4: a4, A6: a6}
	mulInt := func(n int64, x E) E { return f.Mul(f.FromInt(n), x) }

	// b2 = a1² + 4a2, b4 = 2a4 + a1a3, b6 = a3² + 4a6,
	// b8 = a1²a6 + 4a2a6 - a1a3a4 + a2a3² - a4².
	a1sq := f.Mul(a1, a1)
	c.b2 = f.Add(a1sq, mulInt(4, a2))
	c.b4 = f.Add(mulInt(2, a4), f.Mul(a1, a3))
	a3sq := f.Mul(a3, a3)
	c.b6 = f.Add(a3sq, mulInt(4, a6))
	b8 := f.Mul(a1sq, a6)
	b8 = f.Add(b8, mulInt(4, f.Mul(a2, a6)))
	b8 = f.Sub(b8, f.Mul(a1, f.Mul(a3, a4)))
	b8 = f.Add(b8, f.Mul(a2, a3sq))
	b8 = f.Sub(b8, f.Mul(a4, a4))
	c.b8 = b8

	// disc = -b2²b8 - 8b4³ - 27b6² + 9b2b4b6
	d := f.Neg(f.Mul(f.Mul(c.b2, c.b2), c.b8))
	d = f.Sub(d, mulInt(8, f.Mul(c.b4, f.Mul(c.b4, c.b4))))
	d = f.Sub(d, mulInt(27, f.Mul(c.b6, c.b6)))
	d = f.Add(d, mulInt(9, f.Mul(c.b2, f.Mul(c.b4, c.b6))))
	c.disc = d
	if f.IsZero(d) {
		return nil, fmt.Errorf("weier: singular curve (discriminant is zero)")
	}
	return c, nil
}

// BInvariants returns b2, b4, b6, b8.
func (c *Curve[E]) BInvariants() (E, E, E, E) { return c.b2, c.b4, c.b6, c.b8 }

// Disc returns the discriminant.
func (c *Curve[E]) Disc() E { return c.disc }

func (c *Curve[E]) Infinity() Point[E] { return Point[E]{Inf: true} }

// NewPoint returns the affine point (x, y), checking the curve equation.
func (c *Curve[E]) NewPoint(x, y E) (Point[E], error) {
	p := Point[E]{X: x, Y: y}
	if !c.IsOnCurve(p) {
		return Point[E]{}, fmt.Errorf("weier: (%s, %s) is not on the curve", c.F.String(x), c.F.String(y))
	}
	return p, nil
}

func (c *Curve[E]) IsOnCurve(p Point[E]) bool {
	if p.Inf {
		return true
	}
	f := c.F
	lhs := f.Mul(p.Y, p.Y)
	lhs = f.Add(lhs, f.Mul(c.A1, f.Mul(p.X, p.Y)))
	lhs = f.Add(lhs, f.Mul(c.A3, p.Y))
	rhs := f.Mul(p.X, f.Mul(p.X, p.X))
	rhs = f.Add(rhs, f.Mul(c.A2, f.Mul(p.X, p.X)))
	rhs = f.Add(rhs, f.Mul(c.A4, p.X))
	rhs = f.Add(rhs, c.A6)
	return f.Equal(lhs, rhs)
}

func (c *Curve[E]) Equal(p, q Point[E]) bool {
	if p.Inf || q.Inf {
		return p.Inf == q.Inf
	}
	return c.F.Equal(p.X, q.X) && c.F.Equal(p.Y, q.Y)
}

// Neg returns -p = (x, -y - a1·x - a3).
func (c *Curve[E]) Neg(p Point[E]) Point[E] {
	if p.Inf {
		return p
	}
	f := c.F
	y := f.Neg(f.Add(p.Y, f.Add(f.Mul(c.A1, p.X), c.A3)))
	return Point[E]{X: p.X, Y: y}
}

// Add returns p + q.
func (c *Curve[E]) Add(p, q Point[E]) Point[E] {
	if p.Inf {
		return q
	}
	if q.Inf {
		return p
	}
	f := c.F
	if f.Equal(p.X, q.X) {
		if f.Equal(q.Y, c.Neg(p).Y) {
			return c.Infinity()
		}
		return c.Double(p)
	}
	lambda, err := algebra.Div(f, f.Sub(q.Y, p.Y), f.Sub(q.X, p.X))
	if err != nil {
		panic("weier: unreachable: distinct x-coordinates with zero difference")
	}
	nu := f.Sub(p.Y, f.Mul(lambda, p.X))
	return c.chord(lambda, nu, p.X, q.X)
}

// Sub returns p - q.
func (c *Curve[E]) Sub(p, q Point[E]) Point[E] {
	return c.Add(p, c.Neg(q))
}

// Double returns 2p.
func (c *Curve[E]) Double(p Point[E]) Point[E] {
	if p.Inf {
		return p
	}
	f := c.F
	// ψ2(p) = 2y + a1·x + a3; zero exactly on the 2-torsion.
	den := f.Add(f.Add(p.Y, p.Y), f.Add(f.Mul(c.A1, p.X), c.A3))
	if f.IsZero(den) {
		return c.Infinity()
	}
	xsq := algebra.Square(f, p.X)
	num := f.Add(f.Add(xsq, f.Add(xsq, xsq)), f.Mul(f.FromInt(2), f.Mul(c.A2, p.X)))
	num = f.Add(num, c.A4)
	num = f.Sub(num, f.Mul(c.A1, p.Y))
	lambda, err := algebra.Div(f, num, den)
	if err != nil {
		panic("weier: unreachable: nonzero element without inverse")
	}
	nu := f.Sub(p.Y, f.Mul(lambda, p.X))
	return c.chord(lambda, nu, p.X, p.X)
}

// chord completes the group law for the line y = λx + ν through x1, x2.
func (c *Curve[E]) chord(lambda, nu, x1, x2 E) Point[E] {
	f := c.F
	x3 := f.Add(f.Mul(lambda, lambda), f.Mul(c.A1, lambda))
	x3 = f.Sub(x3, c.A2)
	x3 = f.Sub(x3, x1)
	x3 = f.Sub(x3, x2)
	y3 := f.Neg(f.Mul(f.Add(lambda, c.A1), x3))
	y3 = f.Sub(y3, nu)
	y3 = f.Sub(y3, c.A3)
	return Point[E]{X: x3, Y: y3}
}

// ScalarMul returns n·p by double-and-add.
func (c *Curve[E]) ScalarMul(p Point[E], n *big.Int) Point[E] {
	if n.Sign() == 0 || p.Inf {
		return c.Infinity()
	}
	base := p
	if n.Sign() < 0 {
		base = c.Neg(p)
	}
	abs := new(big.Int).Abs(n)
	r := c.Infinity()
	for i := abs.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if abs.Bit(i) == 1 {
			r = c.Add(r, base)
		}
	}
	return r
}

// ScalarMulUint returns n·p for a word-sized n.
func (c *Curve[E]) ScalarMulUint(p Point[E], n uint64) Point[E] {
	return c.ScalarMul(p, new(big.Int).SetUint64(n))
}

// Multiples returns [O, p, 2p, ..., (n-1)p].
func (c *Curve[E]) Multiples(p Point[E], n uint64) []Point[E] {
	out := make([]Point[E], n)
	out[0] = c.Infinity()
	for i := uint64(1); i < n; i++ {
		out[i] = c.Add(out[i-1], p)
	}
	return out
}
