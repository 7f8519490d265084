package weier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ellalg/mwsat/nf"
)

// The multiplication-by-m formula x(mP) = x - psi_{m-1} psi_{m+1} / psi_m^2,
// split by parity, must agree with the group law.
func TestDivPolysMatchGroupLaw(t *testing.T) {
	k, c, pts := curve389a(t)
	p := pts[0]
	fm := c.divPolys(5)
	B := c.TwoTorsionPoly()

	x := p.X

	// m = 2: x(2P) = x - f3/B
	num := c.PolyEval(fm[3], x)
	den := c.PolyEval(B, x)
	inv, err := k.Inv(den)
	require.NoError(t, err)
	x2 := k.Sub(x, k.Mul(num, inv))
	require.True(t, k.Equal(x2, c.Double(p).X))

	// m = 3: x(3P) = x - B*f2*f4/f3^2
	num = k.Mul(c.PolyEval(B, x), k.Mul(c.PolyEval(fm[2], x), c.PolyEval(fm[4], x)))
	den = c.PolyEval(fm[3], x)
	den = k.Mul(den, den)
	inv, err = k.Inv(den)
	require.NoError(t, err)
	x3 := k.Sub(x, k.Mul(num, inv))
	require.True(t, k.Equal(x3, c.ScalarMulUint(p, 3).X))
}

func TestTwoTorsionPoly(t *testing.T) {
	// y^2 = x^3 - x: 2-torsion at x = 0, 1, -1.
	k := nf.Rationals()
	c, err := NewCurve[nf.Element](k, k.Zero(), k.Zero(), k.Zero(), k.FromInt(-1), k.Zero())
	require.NoError(t, err)
	B := c.TwoTorsionPoly()
	for _, x := range []int64{0, 1, -1} {
		require.True(t, k.IsZero(c.PolyEval(B, k.FromInt(x))), "x = %d", x)
	}
	require.False(t, k.IsZero(c.PolyEval(B, k.FromInt(2))))
}

func TestDivisionPreimagePoly(t *testing.T) {
	k, c, pts := curve389a(t)
	p := pts[0]

	for _, m := range []uint64{2, 3, 4, 5} {
		mp := c.ScalarMulUint(p, m)
		poly := c.DivisionPreimagePoly(mp.X, m)
		// x(P) must be a root: m*P = mp.
		require.True(t, k.IsZero(c.PolyEval(poly, p.X)), "m = %d", m)
	}
}

func TestTorsionPolyDegree(t *testing.T) {
	_, c, _ := curve389a(t)
	// psi_3 has degree 4; for even m the 2-torsion factor is included.
	require.Len(t, c.TorsionPoly(3), 5)
	// f4 (degree 6) times the 2-torsion cubic: degree 9.
	require.Len(t, c.TorsionPoly(4), 10)
}
