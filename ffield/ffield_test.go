package ffield

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(2)
	require.Error(t, err)
	_, err = New(1)
	require.Error(t, err)
	f, err := New(409)
	require.NoError(t, err)
	require.Equal(t, uint64(409), f.Q)
}

func TestFieldAxioms(t *testing.T) {
	f, err := New(10007)
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	residue := gen.UInt64Range(0, f.Q-1)

	properties.Property("x * x^-1 == 1", prop.ForAll(
		func(x uint64) bool {
			if x == 0 {
				return true
			}
			inv, err := f.Inv(x)
			if err != nil {
				return false
			}
			return f.Mul(x, inv) == 1
		},
		residue,
	))

	properties.Property("distributivity", prop.ForAll(
		func(x, y, z uint64) bool {
			return f.Mul(x, f.Add(y, z)) == f.Add(f.Mul(x, y), f.Mul(x, z))
		},
		residue, residue, residue,
	))

	properties.Property("sqrt of a square recovers x up to sign", prop.ForAll(
		func(x uint64) bool {
			s, ok := f.Sqrt(f.Mul(x, x))
			return ok && (s == x || s == f.Neg(x))
		},
		residue,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLegendre(t *testing.T) {
	f, err := New(23)
	require.NoError(t, err)
	require.Equal(t, 0, f.Legendre(0))
	squares := 0
	for x := uint64(1); x < 23; x++ {
		if f.Legendre(x) == 1 {
			squares++
		}
	}
	require.Equal(t, 11, squares)
}

func TestSqrtNonResidue(t *testing.T) {
	f, err := New(13)
	require.NoError(t, err)
	// 2 is not a square mod 13.
	_, ok := f.Sqrt(2)
	require.False(t, ok)
	s, ok := f.Sqrt(3)
	require.True(t, ok)
	require.Equal(t, uint64(3), f.Mul(s, s))
}

func TestDLog(t *testing.T) {
	f, err := New(1009)
	require.NoError(t, err)
	base := uint64(11)
	ord, err := f.MultiplicativeOrder(base, 1008)
	require.NoError(t, err)

	for _, e := range []uint64{0, 1, 2, 17, 500, 1007} {
		e %= ord
		x := f.Exp(base, e)
		got, err := f.DLog(x, base, ord)
		require.NoError(t, err)
		require.Equal(t, e, got)
	}
}

func TestDLogNotInSubgroup(t *testing.T) {
	f, err := New(13)
	require.NoError(t, err)
	// 3 has order 3 mod 13; 2 is not in <3>.
	_, err = f.DLog(2, 3, 3)
	require.Error(t, err)
}

func TestFactor(t *testing.T) {
	require.Equal(t, []PrimePower{{3, 2}, {7, 2}}, Factor(441))
	require.Equal(t, []PrimePower{{2, 3}, {3, 1}, {5, 1}}, Factor(120))
	require.Equal(t, []PrimePower{{409, 1}}, Factor(409))
	require.Nil(t, Factor(1))
}
