package saturation

import (
	"fmt"

	"github.com/ellalg/mwsat/ffcurve"
)

// Projections maps a list of points of E(F_q) into the p-primary quotient
// E(F_q)/pE(F_q) and returns its images as zero, one or two vectors over
// F_p, one entry per point. An empty result means the p-primary part is
// trivial and the reduction carries no information.
//
// All points and generators are first scaled by the prime-to-p part of the
// group exponent, landing them in the p-primary subgroup. If that subgroup
// is cyclic the image is a single additive discrete log reduced mod p; if
// not, the two coordinates are read off through Weil pairings with the
// generators and multiplicative discrete logs. A pairing whose order does
// not match the generator orders yields ErrInconsistent.
func Projections(g *ffcurve.Group, pts []ffcurve.Point, p uint64) ([][]uint64, error) {
	c := g.C
	m := g.N2
	for m%p == 0 {
		m /= p
	}
	if m == g.N2 {
		return nil, nil
	}

	scaled := make([]ffcurve.Point, len(pts))
	for i, pt := range pts {
		scaled[i] = c.W.ScalarMulUint(pt, m)
	}
	var gens []ffcurve.Point
	for _, gen := range g.Generators() {
		if s := c.W.ScalarMulUint(gen, m); !s.Inf {
			gens = append(gens, s)
		}
	}

	switch len(gens) {
	case 0:
		// Excluded by m < N2; kept as a guard.
		return nil, nil

	case 1:
		// Cyclic p-primary part <g0> of order p^k: the image of a point
		// c·g0 is c mod p, read off by an additive discrete log in the
		// order-p subgroup.
		g0 := gens[0]
		pk := c.PointOrder(g0)
		w := pk / p
		base := c.W.ScalarMulUint(g0, w)
		row := make([]uint64, len(scaled))
		for i, pt := range scaled {
			v, err := c.DLog(c.W.ScalarMulUint(pt, w), base, p)
			if err != nil {
				return nil, fmt.Errorf("%w: additive dlog in E(F_%d): %v", ErrInconsistent, c.F.Q, err)
			}
			row[i] = v
		}
		return [][]uint64{row}, nil

	default:
		// Non-cyclic p-primary part <g1> x <g2> with orders p1 <= p2. The
		// pairing zeta = e(g1, g2) at level p2 is a primitive p1-th root of
		// unity; pairing a point against each generator and taking
		// multiplicative dlogs base zeta reads off its two coordinates.
		g1, g2 := gens[0], gens[1]
		p1, p2 := c.PointOrder(g1), c.PointOrder(g2)
		if p1 > p2 {
			g1, g2 = g2, g1
			p1, p2 = p2, p1
		}
		zeta, err := c.WeilPairing(g1, g2, p2)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInconsistent, err)
		}
		zord, err := c.F.MultiplicativeOrder(zeta, p2)
		if err != nil || zord != p1 {
			return nil, fmt.Errorf("%w: pairing order %d, want %d in E(F_%d)", ErrInconsistent, zord, p1, c.F.Q)
		}
		zbase := c.F.Exp(zeta, p1/p)
		rows := make([][]uint64, 2)
		for r, gen := range []ffcurve.Point{g1, g2} {
			rows[r] = make([]uint64, len(scaled))
			for i, pt := range scaled {
				e, err := c.WeilPairing(pt, gen, p2)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInconsistent, err)
				}
				v, err := c.F.DLog(c.F.Exp(e, p1/p), zbase, p)
				if err != nil {
					return nil, fmt.Errorf("%w: multiplicative dlog in F_%d: %v", ErrInconsistent, c.F.Q, err)
				}
				rows[r][i] = v
			}
		}
		return rows, nil
	}
}
