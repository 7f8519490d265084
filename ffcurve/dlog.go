package ffcurve

import "fmt"

// DLog returns e with e·base = x, where base has the given order in E(F_q).
// It uses baby-step giant-step keyed on affine coordinates and returns an
// error if x is not a multiple of base.
func (c *Curve) DLog(x, base Point, order uint64) (uint64, error) {
	r := uint64(1)
	for r*r < order {
		r++
	}
	baby := make(map[Point]uint64, r)
	v := c.W.Infinity()
	for j := uint64(0); j < r; j++ {
		if _, ok := baby[v]; !ok {
			baby[v] = j
		}
		v = c.W.Add(v, base)
	}
	giant := c.W.Neg(c.W.ScalarMulUint(base, r))
	g := x
	for i := uint64(0); i*r <= order; i++ {
		if j, ok := baby[g]; ok {
			return (i*r + j) % order, nil
		}
		g = c.W.Add(g, giant)
	}
	return 0, fmt.Errorf("ffcurve: point is not a multiple of the given base (order %d) in E(F_%d)", order, c.F.Q)
}
