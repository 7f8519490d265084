// Package ffield implements arithmetic in prime fields F_q for word-sized
// odd primes q. The auxiliary primes consumed by the saturation sieve are
// small (they come from an ascending stream starting at 3), so elements are
// plain uint64 residues and products are reduced with 128-bit intermediate
// arithmetic.
package ffield

import (
	"fmt"
	"math/bits"

	"github.com/ellalg/mwsat/algebra"
)

// Field is F_q for an odd prime q. It implements algebra.Field[uint64].
// The primality of q is the caller's responsibility.
type Field struct {
	Q uint64
}

var _ algebra.Field[uint64] = (*Field)(nil)

// New returns F_q. It rejects q < 3, even q, and q too large for the
// double-word reduction used by Mul.
func New(q uint64) (*Field, error) {
	if q < 3 || q%2 == 0 {
		return nil, fmt.Errorf("ffield: modulus %d is not an odd prime", q)
	}
	if q >= 1<<62 {
		return nil, fmt.Errorf("ffield: modulus %d out of range", q)
	}
	return &Field{Q: q}, nil
}

func (f *Field) Zero() uint64 { return 0 }
func (f *Field) One() uint64  { return 1 }

func (f *Field) FromInt(n int64) uint64 {
	m := n % int64(f.Q)
	if m < 0 {
		m += int64(f.Q)
	}
	return uint64(m)
}

func (f *Field) Add(x, y uint64) uint64 {
	s := x + y
	if s >= f.Q {
		s -= f.Q
	}
	return s
}

func (f *Field) Sub(x, y uint64) uint64 {
	if x >= y {
		return x - y
	}
	return x + f.Q - y
}

func (f *Field) Neg(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return f.Q - x
}

func (f *Field) Mul(x, y uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	_, rem := bits.Div64(hi, lo, f.Q)
	return rem
}

// Exp returns x^e.
func (f *Field) Exp(x, e uint64) uint64 {
	r := uint64(1)
	b := x % f.Q
	for e > 0 {
		if e&1 == 1 {
			r = f.Mul(r, b)
		}
		b = f.Mul(b, b)
		e >>= 1
	}
	return r
}

// Inv returns x⁻¹ via Fermat's little theorem.
func (f *Field) Inv(x uint64) (uint64, error) {
	if x%f.Q == 0 {
		return 0, fmt.Errorf("ffield: inverse of zero in F_%d", f.Q)
	}
	return f.Exp(x, f.Q-2), nil
}

func (f *Field) Equal(x, y uint64) bool { return x%f.Q == y%f.Q }
func (f *Field) IsZero(x uint64) bool   { return x%f.Q == 0 }

func (f *Field) String(x uint64) string { return fmt.Sprintf("%d", x%f.Q) }

// Legendre returns the Legendre symbol (x/q): 1 for nonzero squares, -1 for
// non-squares, 0 for zero.
func (f *Field) Legendre(x uint64) int {
	if x%f.Q == 0 {
		return 0
	}
	e := f.Exp(x, (f.Q-1)/2)
	if e == 1 {
		return 1
	}
	return -1
}

// Sqrt returns a square root of x, if one exists, by the Tonelli-Shanks
// algorithm.
func (f *Field) Sqrt(x uint64) (uint64, bool) {
	x %= f.Q
	if x == 0 {
		return 0, true
	}
	if f.Legendre(x) != 1 {
		return 0, false
	}
	if f.Q%4 == 3 {
		return f.Exp(x, (f.Q+1)/4), true
	}
	// Write q-1 = s * 2^e with s odd.
	s := f.Q - 1
	e := 0
	for s%2 == 0 {
		s /= 2
		e++
	}
	// Find a quadratic non-residue.
	n := uint64(2)
	for f.Legendre(n) != -1 {
		n++
	}
	r := f.Exp(x, (s+1)/2)
	t := f.Exp(x, s)
	g := f.Exp(n, s)
	for t != 1 {
		// Find least i with t^(2^i) == 1.
		i := 0
		u := t
		for u != 1 {
			u = f.Mul(u, u)
			i++
		}
		for j := 0; j < e-i-1; j++ {
			g = f.Mul(g, g)
		}
		r = f.Mul(r, g)
		g = f.Mul(g, g)
		t = f.Mul(t, g)
		e = i
	}
	return r, true
}

// DLog returns e with base^e = x, where base has the given multiplicative
// order. It uses baby-step giant-step and returns an error if x is not a
// power of base.
func (f *Field) DLog(x, base, order uint64) (uint64, error) {
	x %= f.Q
	if x == 0 {
		return 0, fmt.Errorf("ffield: discrete log of zero")
	}
	r := uint64(1)
	for r*r < order {
		r++
	}
	baby := make(map[uint64]uint64, r)
	v := uint64(1)
	for j := uint64(0); j < r; j++ {
		if _, ok := baby[v]; !ok {
			baby[v] = j
		}
		v = f.Mul(v, base)
	}
	// giant = base^-r
	inv, err := f.Inv(f.Exp(base, r))
	if err != nil {
		return 0, err
	}
	g := x
	for i := uint64(0); i*r <= order; i++ {
		if j, ok := baby[g]; ok {
			return (i*r + j) % order, nil
		}
		g = f.Mul(g, inv)
	}
	return 0, fmt.Errorf("ffield: %d is not a power of %d (order %d) in F_%d", x, base, order, f.Q)
}

// MultiplicativeOrder returns the order of x in F_q^*, given a multiple
// bound of that order (the order must divide bound).
func (f *Field) MultiplicativeOrder(x, bound uint64) (uint64, error) {
	if x%f.Q == 0 {
		return 0, fmt.Errorf("ffield: multiplicative order of zero")
	}
	if f.Exp(x, bound) != 1 {
		return 0, fmt.Errorf("ffield: order of %d does not divide %d in F_%d", x, bound, f.Q)
	}
	ord := bound
	for _, pe := range Factor(bound) {
		for ord%pe.P == 0 && f.Exp(x, ord/pe.P) == 1 {
			ord /= pe.P
		}
	}
	return ord, nil
}

// PrimePower is a prime p together with its multiplicity in a factored
// integer.
type PrimePower struct {
	P uint64
	E int
}

// Factor factors n by trial division. The numbers factored here are group
// orders of curves over small prime fields, so this is never hot.
func Factor(n uint64) []PrimePower {
	var out []PrimePower
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			e := 0
			for n%p == 0 {
				n /= p
				e++
			}
			out = append(out, PrimePower{p, e})
		}
	}
	if n > 1 {
		out = append(out, PrimePower{n, 1})
	}
	return out
}
