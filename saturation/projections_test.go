package saturation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ellalg/mwsat/ffcurve"
	"github.com/ellalg/mwsat/ffield"
)

// reduction of the rank-3 curve 5077a at 409: y^2 + y = x^3 - 7x + 6 with
// E(F_409) = Z/3 x Z/147 of order 441 = 3^2 * 7^2.
func group409(t *testing.T) (*ffcurve.Group, []ffcurve.Point) {
	f, err := ffield.New(409)
	require.NoError(t, err)
	c, err := ffcurve.NewCurve(f, 0, 0, 1, 402, 6)
	require.NoError(t, err)
	g, err := c.Group()
	require.NoError(t, err)

	var pts []ffcurve.Point
	for _, xy := range [][2]uint64{{407, 3}, {0, 2}, {1, 0}} {
		p, err := c.W.NewPoint(xy[0], xy[1])
		require.NoError(t, err)
		pts = append(pts, p)
	}
	return g, pts
}

func TestProjectionsVectorCounts(t *testing.T) {
	g, pts := group409(t)
	for _, tc := range []struct {
		p    uint64
		rows int
	}{
		{2, 0}, // no 2-torsion in a group of order 441
		{3, 2}, // 3 divides both invariant factors
		{5, 0},
		{7, 1}, // 7 divides only the larger invariant factor
	} {
		rows, err := Projections(g, pts, tc.p)
		require.NoError(t, err, "p = %d", tc.p)
		require.Len(t, rows, tc.rows, "p = %d", tc.p)
		for _, row := range rows {
			require.Len(t, row, len(pts))
			for _, v := range row {
				require.Less(t, v, tc.p)
			}
		}
	}
}

// The projection is a homomorphism: the image of a sum is the sum of the
// images, coordinatewise mod p.
func TestProjectionsLinear(t *testing.T) {
	g, pts := group409(t)
	c := g.C
	for _, p := range []uint64{3, 7} {
		sum := c.W.Add(pts[0], pts[1])
		rows, err := Projections(g, []ffcurve.Point{pts[0], pts[1], sum}, p)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		for _, row := range rows {
			require.Equal(t, (row[0]+row[1])%p, row[2], "p = %d", p)
		}
	}
}

// Points divisible by p project to zero.
func TestProjectionsKillsMultiples(t *testing.T) {
	g, pts := group409(t)
	c := g.C
	for _, p := range []uint64{3, 7} {
		scaled := make([]ffcurve.Point, len(pts))
		for i, pt := range pts {
			scaled[i] = c.W.ScalarMulUint(pt, p)
		}
		rows, err := Projections(g, scaled, p)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		for _, row := range rows {
			for _, v := range row {
				require.Zero(t, v)
			}
		}
	}
}
