package saturation

import (
	"io"
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ellalg/mwsat/nf"
	"github.com/ellalg/mwsat/nfcurve"
)

// curve389a returns y^2 + y = x^3 + x^2 - 2x over Q(i) together with the
// independent points P = (1+i, -1-2i), Q = (0, 0), R = (-1, 1).
func curve389a(t *testing.T) (*nfcurve.Curve, []nfcurve.Point) {
	k, err := nf.NewField([]*big.Int{big.NewInt(1), big.NewInt(0), big.NewInt(1)})
	require.NoError(t, err)
	c, err := nfcurve.NewCurve(k, k.Zero(), k.One(), k.One(), k.FromInt(-2), k.Zero())
	require.NoError(t, err)

	el := func(a, b int64) nf.Element {
		x, err := k.FromRats([]*big.Rat{big.NewRat(a, 1), big.NewRat(b, 1)})
		require.NoError(t, err)
		return x
	}
	p, err := c.NewPoint(el(1, 1), el(-1, -2))
	require.NoError(t, err)
	q, err := c.NewPoint(k.Zero(), k.Zero())
	require.NoError(t, err)
	r, err := c.NewPoint(k.FromInt(-1), k.One())
	require.NoError(t, err)
	return c, []nfcurve.Point{p, q, r}
}

func TestPSaturationSaturatedPoint(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})

	res, err := s.PSaturation(pts[:1], 2, true, NewCombinationCache())
	require.NoError(t, err)
	require.True(t, res.Saturated)
}

func TestPSaturationDoubledPoint(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})
	p := pts[0]

	res, err := s.PSaturation([]nfcurve.Point{c.W.Double(p)}, 2, true, NewCombinationCache())
	require.NoError(t, err)
	require.False(t, res.Saturated)
	require.Equal(t, 0, res.Index)
	// The witness halves the combination that was found divisible.
	require.True(t, c.W.Equal(c.W.Double(res.Replacement), c.W.Double(p)))
	require.True(t, c.W.Equal(res.Replacement, p) || c.W.Equal(res.Replacement, c.W.Neg(p)))
}

func TestPSaturationRankThree(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})

	res, err := s.PSaturation(pts, 3, true, NewCombinationCache())
	require.NoError(t, err)
	require.True(t, res.Saturated)
}

func TestPSaturationExhaustiveAgrees(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})

	res, err := s.PSaturation(pts[:1], 2, false, NewCombinationCache())
	require.NoError(t, err)
	require.True(t, res.Saturated)

	res, err = s.PSaturation([]nfcurve.Point{c.W.Double(pts[0])}, 2, false, nil)
	require.NoError(t, err)
	require.False(t, res.Saturated)
	require.Equal(t, 0, res.Index)
}

func TestFullPSaturation(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})
	p := pts[0]
	eight := c.W.ScalarMulUint(p, 8)

	out, exp, err := s.FullPSaturation([]nfcurve.Point{eight}, 2)
	require.NoError(t, err)
	require.Equal(t, 3, exp)
	require.Len(t, out, 1)
	require.True(t, c.W.Equal(out[0], p) || c.W.Equal(out[0], c.W.Neg(p)))

	// The input is untouched and the output contains its span with index 2^3.
	require.True(t, c.W.Equal(c.W.ScalarMulUint(out[0], 8), eight) ||
		c.W.Equal(c.W.ScalarMulUint(out[0], 8), c.W.Neg(eight)))

	// Idempotence: the saturated result stays saturated.
	res, err := s.PSaturation(out, 2, true, NewCombinationCache())
	require.NoError(t, err)
	require.True(t, res.Saturated)
}

func TestFullPSaturationAlreadySaturated(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})

	out, exp, err := s.FullPSaturation(pts[:1], 2)
	require.NoError(t, err)
	require.Zero(t, exp)
	require.Len(t, out, 1)
	require.True(t, c.W.Equal(out[0], pts[0]))
}

// curve27387 returns the curve [a, 1-a, 0, 93-16a, 3150-560a] over Q(a),
// a^2 = a + 26, with the point P = (65 - 35/3*a, (959a - 5377)/9). The curve
// has torsion Z/2 generated by T, and P + T is divisible by 2 while neither
// P nor T is.
func curve27387(t *testing.T) (*nfcurve.Curve, nfcurve.Point) {
	k, err := nf.NewField([]*big.Int{big.NewInt(-26), big.NewInt(-1), big.NewInt(1)})
	require.NoError(t, err)
	el := func(n0, d0, n1, d1 int64) nf.Element {
		x, err := k.FromRats([]*big.Rat{big.NewRat(n0, d0), big.NewRat(n1, d1)})
		require.NoError(t, err)
		return x
	}
	c, err := nfcurve.NewCurve(k,
		el(0, 1, 1, 1),
		el(1, 1, -1, 1),
		k.Zero(),
		el(93, 1, -16, 1),
		el(3150, 1, -560, 1))
	require.NoError(t, err)
	p, err := c.NewPoint(el(65, 1, -35, 3), el(-5377, 9, 959, 9))
	require.NoError(t, err)
	return c, p
}

// With a torsion cogenerator in the last slot, a failed step must still
// report the earliest point carrying the relation, never the torsion slot.
func TestPSaturationTorsionSlotIndex(t *testing.T) {
	c, p := curve27387(t)
	s := New(c, Options{})

	gens, orders, err := c.TorsionGens()
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, orders)
	tor := gens[0]

	for _, useSieve := range []bool{true, false} {
		res, err := s.PSaturation([]nfcurve.Point{p, tor}, 2, useSieve, NewCombinationCache())
		require.NoError(t, err)
		require.False(t, res.Saturated, "sieve = %v", useSieve)
		require.Equal(t, 0, res.Index, "sieve = %v", useSieve)
		require.True(t, c.W.Equal(c.W.Double(res.Replacement), c.W.Add(p, tor)), "sieve = %v", useSieve)
	}
}

func TestFullPSaturationThroughTorsion(t *testing.T) {
	c, p := curve27387(t)
	s := New(c, Options{})

	out, exp, err := s.FullPSaturation([]nfcurve.Point{p}, 2)
	require.NoError(t, err)
	require.Equal(t, 1, exp)
	require.Len(t, out, 1)

	// The output really gains index 2: twice the new generator differs from
	// P by a nonzero 2-torsion point.
	d := c.W.Sub(c.W.Double(out[0]), p)
	require.False(t, d.Inf)
	require.True(t, c.W.Double(d).Inf)
}

func TestContractViolations(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{})

	_, err := s.PSaturation(nil, 2, true, nil)
	require.Error(t, err)

	_, err = s.PSaturation(pts, 1, true, nil)
	require.Error(t, err)

	bad := nfcurve.Point{X: c.K.FromInt(5), Y: c.K.FromInt(5)}
	_, err = s.PSaturation([]nfcurve.Point{bad}, 2, true, nil)
	require.Error(t, err)
}

func TestInconclusiveOnPrimeBudget(t *testing.T) {
	c, pts := curve389a(t)
	s := New(c, Options{MaxAuxiliaryPrimes: 1, StagnationThreshold: 100})

	_, err := s.PSaturation(pts[:1], 2, true, nil)
	require.ErrorIs(t, err, ErrInconclusive)
}

func TestMetricsAndLogging(t *testing.T) {
	c, pts := curve389a(t)
	reg := prometheus.NewRegistry()
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetOutput(io.Discard)
	s := New(c, Options{Registerer: reg, Logger: logger.WithField("component", "saturation")})

	res, err := s.PSaturation(pts[:1], 2, true, nil)
	require.NoError(t, err)
	require.True(t, res.Saturated)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 5)
}
