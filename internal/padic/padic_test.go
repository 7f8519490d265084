package padic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModulus(t *testing.T) {
	_, err := NewModulus(big.NewInt(4))
	require.Error(t, err)
	_, err = NewModulus(big.NewInt(1))
	require.Error(t, err)

	m, err := NewModulus(big.NewInt(101))
	require.NoError(t, err)
	require.Equal(t, int64(101), m.Big().Int64())
}

func TestSquare(t *testing.T) {
	m, err := NewModulus(big.NewInt(101))
	require.NoError(t, err)
	m2, err := m.Square()
	require.NoError(t, err)
	require.Equal(t, int64(101*101), m2.Big().Int64())
	require.Greater(t, m2.BitLen(), m.BitLen())
}

func TestArithmetic(t *testing.T) {
	m, err := NewModulus(big.NewInt(10007))
	require.NoError(t, err)

	x := m.NewInt64(1234)
	y := m.NewInt64(-5678)
	require.Equal(t, int64((1234+10007-5678)%10007), x.Clone().Add(y).Big().Int64())
	require.Equal(t, int64(1234*5678%10007), x.Clone().Mul(m.NewInt64(5678)).Big().Int64())

	// Negative and oversized inputs reduce into range.
	z := m.New(big.NewInt(-1))
	require.Equal(t, int64(10006), z.Big().Int64())
}

func TestInverse(t *testing.T) {
	m, err := NewModulus(big.NewInt(10007))
	require.NoError(t, err)

	x := m.NewInt64(4242)
	inv, ok := x.Clone().Inverse()
	require.True(t, ok)
	require.Equal(t, int64(1), x.Clone().Mul(inv).Big().Int64())

	_, ok = m.NewInt64(0).Inverse()
	require.False(t, ok)
}

func TestNewtonLiftSquareRoot(t *testing.T) {
	// Lift the square root of 2 from mod 7 (3^2 = 2) to mod 7^4 by hand,
	// exercising modulus squaring the way polynomial root lifting does.
	m, err := NewModulus(big.NewInt(7))
	require.NoError(t, err)
	x := big.NewInt(3)
	for i := 0; i < 2; i++ {
		m2, err := m.Square()
		require.NoError(t, err)
		// x' = x - (x^2 - 2) / (2x)
		xm := m2.New(x)
		num := xm.Clone().Mul(xm).Sub(m2.NewInt64(2))
		den := m2.New(x).Add(m2.New(x))
		inv, ok := den.Inverse()
		require.True(t, ok)
		x = m2.New(x).Sub(num.Mul(inv)).Big()
		m = m2
	}
	sq := new(big.Int).Mul(x, x)
	sq.Mod(sq, m.Big())
	require.Equal(t, int64(2), sq.Int64())
	require.Equal(t, int64(2401), m.Big().Int64())
}
