// Package padic implements arithmetic modulo odd prime powers q^(2^k), used
// by the number-field root finder while Newton-lifting residue roots to high
// precision. It wraps filippo.io/bigmod, keeping a big.Int shadow of each
// modulus so that moduli can be squared between lifting levels.
package padic

import (
	"fmt"
	"math/big"

	"filippo.io/bigmod"
)

// Modulus is an odd modulus M together with its bigmod representation.
type Modulus struct {
	value *bigmod.Modulus
	big   *big.Int
}

// NewModulus returns the modulus for the odd integer n > 1.
func NewModulus(n *big.Int) (*Modulus, error) {
	if n.Sign() <= 0 || n.Bit(0) == 0 || n.Cmp(big.NewInt(1)) <= 0 {
		return nil, fmt.Errorf("padic: modulus must be an odd integer > 1")
	}
	m, err := bigmod.NewModulus(n.Bytes())
	if err != nil {
		return nil, fmt.Errorf("padic: %w", err)
	}
	return &Modulus{m, new(big.Int).Set(n)}, nil
}

// Square returns the modulus M².
func (m *Modulus) Square() (*Modulus, error) {
	return NewModulus(new(big.Int).Mul(m.big, m.big))
}

// Big returns the modulus value. The caller must not modify it.
func (m *Modulus) Big() *big.Int { return m.big }

func (m *Modulus) BitLen() int { return m.big.BitLen() }

// Int is a residue modulo a fixed Modulus. The in-place arithmetic style
// follows the scalar type this package is adapted from: operations mutate
// the receiver and return it.
type Int struct {
	value *bigmod.Nat
	mod   *Modulus
}

// New returns x mod M as a residue.
func (m *Modulus) New(x *big.Int) *Int {
	r := new(big.Int).Mod(x, m.big)
	buf := make([]byte, m.value.Size())
	r.FillBytes(buf)
	n, err := bigmod.NewNat().SetBytes(buf, m.value)
	if err != nil {
		// Unreachable: r < M by construction.
		panic(fmt.Sprintf("padic: %v", err))
	}
	return &Int{n, m}
}

// NewInt64 returns n mod M.
func (m *Modulus) NewInt64(n int64) *Int {
	return m.New(big.NewInt(n))
}

func (x *Int) requireSameModulus(y *Int) {
	if x.mod != y.mod {
		panic("padic: residues have different moduli")
	}
}

// x.Add(y) sets x = x + y mod M and returns x.
func (x *Int) Add(y *Int) *Int {
	x.requireSameModulus(y)
	x.value.Add(y.value, x.mod.value)
	return x
}

// x.Sub(y) sets x = x - y mod M and returns x.
func (x *Int) Sub(y *Int) *Int {
	x.requireSameModulus(y)
	x.value.Sub(y.value, x.mod.value)
	return x
}

// x.Mul(y) sets x = x * y mod M and returns x.
func (x *Int) Mul(y *Int) *Int {
	x.requireSameModulus(y)
	x.value.Mul(y.value, x.mod.value)
	return x
}

// x.Inverse() sets x = x⁻¹ mod M and returns (x, true), or (nil, false) if x
// is not invertible.
func (x *Int) Inverse() (*Int, bool) {
	if _, ok := x.value.InverseVarTime(x.value, x.mod.value); !ok {
		return nil, false
	}
	return x, true
}

func (x *Int) IsZero() bool { return x.value.IsZero() == 1 }

// Clone returns an independent copy of x.
func (x *Int) Clone() *Int {
	return x.mod.New(x.Big())
}

// Big returns the canonical representative in [0, M).
func (x *Int) Big() *big.Int {
	return new(big.Int).SetBytes(x.value.Bytes(x.mod.value))
}

func (x *Int) String() string { return x.Big().String() }
