package ffcurve

import (
	"fmt"

	"github.com/ellalg/mwsat/ffield"
)

// Group is the abelian group E(F_q) in invariant-factor form
// Z/n1 x Z/n2 with n1 | n2. For cyclic groups n1 = 1 and G1 is infinity.
type Group struct {
	C      *Curve
	N1, N2 uint64
	G1, G2 Point
}

// Order returns #E(F_q) = n1·n2.
func (g *Group) Order() uint64 { return g.N1 * g.N2 }

// Generators returns the nontrivial generators, G2 first.
func (g *Group) Generators() []Point {
	if g.N1 > 1 {
		return []Point{g.G2, g.G1}
	}
	if g.N2 > 1 {
		return []Point{g.G2}
	}
	return nil
}

// Group computes the structure of E(F_q) by enumeration: a point of maximal
// order n2 is assembled by merging orders over all points, and a complement
// of order n1 = N/n2 is then found by excluding points whose prime-order
// pieces fall inside <G2>.
func (c *Curve) Group() (*Group, error) {
	n := c.Order()
	fac := ffield.Factor(n)
	pts := c.Points()

	g2 := c.W.Infinity()
	ord2 := uint64(1)
	for _, p := range pts {
		o := c.pointOrder(p, n, fac)
		if ord2%o == 0 {
			continue
		}
		g2, ord2 = c.merge(g2, ord2, p, o)
		if ord2 == n {
			break
		}
	}
	n1 := n / ord2
	g := &Group{C: c, N1: n1, N2: ord2, G2: g2, G1: c.W.Infinity()}
	if n1 == 1 {
		return g, nil
	}

	for _, p := range pts {
		o := c.pointOrder(p, n, fac)
		if o%n1 != 0 {
			continue
		}
		t := c.W.ScalarMulUint(p, o/n1)
		if c.independent(t, n1, g2, ord2) {
			g.G1 = t
			return g, nil
		}
	}
	return nil, fmt.Errorf("ffcurve: no complement of order %d found in E(F_%d)", n1, c.F.Q)
}

// pointOrder is PointOrder with the order and its factorization precomputed.
func (c *Curve) pointOrder(p Point, n uint64, fac []ffield.PrimePower) uint64 {
	ord := n
	for _, pe := range fac {
		for ord%pe.P == 0 && c.W.ScalarMulUint(p, ord/pe.P).Inf {
			ord /= pe.P
		}
	}
	return ord
}

// merge combines points of orders a and b into one of order lcm(a, b),
// taking the dominant prime-power component from each side.
func (c *Curve) merge(g Point, a uint64, h Point, b uint64) (Point, uint64) {
	l := a / gcd(a, b) * b
	sum := c.W.Infinity()
	for _, pe := range ffield.Factor(l) {
		pk := uint64(1)
		for i := 0; i < pe.E; i++ {
			pk *= pe.P
		}
		if a%pk == 0 {
			sum = c.W.Add(sum, c.W.ScalarMulUint(g, a/pk))
		} else {
			sum = c.W.Add(sum, c.W.ScalarMulUint(h, b/pk))
		}
	}
	return sum, l
}

// independent reports whether <t> (of order n1) meets <g2> (of order ord2)
// trivially. It is enough to check, for every prime l dividing n1, that the
// order-l piece of t is outside the order-l subgroup of <g2>.
func (c *Curve) independent(t Point, n1 uint64, g2 Point, ord2 uint64) bool {
	for _, pe := range ffield.Factor(n1) {
		u := c.W.ScalarMulUint(t, n1/pe.P)
		step := c.W.ScalarMulUint(g2, ord2/pe.P)
		v := c.W.Infinity()
		for k := uint64(0); k < pe.P; k++ {
			if c.W.Equal(u, v) {
				return false
			}
			v = c.W.Add(v, step)
		}
	}
	return true
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
