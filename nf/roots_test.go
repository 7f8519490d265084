package nf

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func containsRoot(k *Field, roots []Element, want Element) bool {
	for _, r := range roots {
		if k.Equal(r, want) {
			return true
		}
	}
	return false
}

func TestRootsGaussian(t *testing.T) {
	k := gaussian(t)
	i := k.Gen()

	// X^2 + 1 = (X-i)(X+i)
	roots, err := k.Roots(Poly{k.One(), k.Zero(), k.One()})
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.True(t, containsRoot(k, roots, i))
	require.True(t, containsRoot(k, roots, k.Neg(i)))

	// X^2 - 2 has no roots in Q(i).
	roots, err = k.Roots(Poly{k.FromInt(-2), k.Zero(), k.One()})
	require.NoError(t, err)
	require.Empty(t, roots)
}

func TestRootsWithDenominators(t *testing.T) {
	k := gaussian(t)
	// (X - (1/2 + i)) * (X - 3)
	a, err := k.FromRats([]*big.Rat{big.NewRat(1, 2), big.NewRat(1, 1)})
	require.NoError(t, err)
	p := k.PolyMul(Poly{k.Neg(a), k.One()}, Poly{k.FromInt(-3), k.One()})
	roots, err := k.Roots(p)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.True(t, containsRoot(k, roots, a))
	require.True(t, containsRoot(k, roots, k.FromInt(3)))
}

func TestRootsRepeated(t *testing.T) {
	k := Rationals()
	// (X-5)^3: squarefree reduction still finds the root once.
	lin := Poly{k.FromInt(-5), k.One()}
	p := k.PolyMul(k.PolyMul(lin, lin), lin)
	roots, err := k.Roots(p)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.True(t, k.Equal(roots[0], k.FromInt(5)))
}

func TestRootsOverQ(t *testing.T) {
	k := Rationals()
	// X^2 - 4
	roots, err := k.Roots(Poly{k.FromInt(-4), k.Zero(), k.One()})
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.True(t, containsRoot(k, roots, k.FromInt(2)))
	require.True(t, containsRoot(k, roots, k.FromInt(-2)))
}

func TestSqrt(t *testing.T) {
	k := gaussian(t)
	i := k.Gen()

	s, ok, err := k.Sqrt(k.FromInt(-1))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, k.Equal(s, i) || k.Equal(s, k.Neg(i)))

	// sqrt(2i) = +-(1+i)
	s, ok, err = k.Sqrt(k.MulInt(2, i))
	require.NoError(t, err)
	require.True(t, ok)
	one := elem(t, k, 1, 1)
	require.True(t, k.Equal(s, one) || k.Equal(s, k.Neg(one)))

	// 3 is not a square in Q(i).
	_, ok, err = k.Sqrt(k.FromInt(3))
	require.NoError(t, err)
	require.False(t, ok)

	s, ok, err = k.Sqrt(k.Zero())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, k.IsZero(s))
}
