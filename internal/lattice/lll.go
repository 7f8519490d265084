// Package lattice implements exact LLL reduction for the tiny integer
// lattices used when reconstructing algebraic numbers from their residues
// modulo a large prime power. Dimensions never exceed the number-field
// degree plus one, so a textbook rational-arithmetic implementation is
// entirely adequate.
package lattice

import "math/big"

var (
	half  = big.NewRat(1, 2)
	delta = big.NewRat(3, 4) // Lovász parameter
)

// Reduce LLL-reduces the given basis in place and returns it. The basis
// vectors are rows; they must be linearly independent.
func Reduce(b [][]*big.Int) [][]*big.Int {
	n := len(b)
	if n <= 1 {
		return b
	}
	mu, gs := gramSchmidt(b)
	k := 1
	for k < n {
		// Size-reduce row k against rows k-1 .. 0.
		for j := k - 1; j >= 0; j-- {
			if absCmpHalf(mu[k][j]) > 0 {
				r := roundRat(mu[k][j])
				subScaled(b[k], b[j], r)
				mu, gs = gramSchmidt(b)
			}
		}
		// Lovász condition: |b*_k|^2 >= (delta - mu_{k,k-1}^2) |b*_{k-1}|^2.
		lhs := gs[k]
		m2 := new(big.Rat).Mul(mu[k][k-1], mu[k][k-1])
		rhs := new(big.Rat).Sub(delta, m2)
		rhs.Mul(rhs, gs[k-1])
		if lhs.Cmp(rhs) >= 0 {
			k++
		} else {
			b[k], b[k-1] = b[k-1], b[k]
			mu, gs = gramSchmidt(b)
			if k > 1 {
				k--
			}
		}
	}
	return b
}

// gramSchmidt returns the GSO coefficients mu[i][j] (j < i) and the squared
// norms of the orthogonalized vectors.
func gramSchmidt(b [][]*big.Int) ([][]*big.Rat, []*big.Rat) {
	n := len(b)
	dim := len(b[0])
	star := make([][]*big.Rat, n)
	mu := make([][]*big.Rat, n)
	norm2 := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		star[i] = make([]*big.Rat, dim)
		for d := 0; d < dim; d++ {
			star[i][d] = new(big.Rat).SetInt(b[i][d])
		}
		mu[i] = make([]*big.Rat, n)
		for j := 0; j < i; j++ {
			// mu[i][j] = <b_i, b*_j> / |b*_j|^2
			dot := ratDotInt(b[i], star[j])
			mu[i][j] = new(big.Rat).Quo(dot, norm2[j])
			for d := 0; d < dim; d++ {
				t := new(big.Rat).Mul(mu[i][j], star[j][d])
				star[i][d].Sub(star[i][d], t)
			}
		}
		norm2[i] = ratDot(star[i], star[i])
	}
	return mu, norm2
}

func ratDotInt(a []*big.Int, b []*big.Rat) *big.Rat {
	s := new(big.Rat)
	t := new(big.Rat)
	for i := range a {
		t.SetInt(a[i])
		t.Mul(t, b[i])
		s.Add(s, t)
	}
	return s
}

func ratDot(a, b []*big.Rat) *big.Rat {
	s := new(big.Rat)
	for i := range a {
		s.Add(s, new(big.Rat).Mul(a[i], b[i]))
	}
	return s
}

// absCmpHalf compares |x| with 1/2.
func absCmpHalf(x *big.Rat) int {
	return new(big.Rat).Abs(x).Cmp(half)
}

// roundRat rounds to the nearest integer (ties away from zero are
// acceptable for size reduction).
func roundRat(x *big.Rat) *big.Int {
	num := new(big.Int).Set(x.Num())
	den := x.Denom()
	two := big.NewInt(2)
	halfDen := new(big.Int).Quo(den, two)
	if num.Sign() >= 0 {
		num.Add(num, halfDen)
	} else {
		num.Sub(num, halfDen)
	}
	return num.Quo(num, den)
}

// subScaled sets a -= r*b componentwise.
func subScaled(a, b []*big.Int, r *big.Int) {
	t := new(big.Int)
	for i := range a {
		t.Mul(r, b[i])
		a[i].Sub(a[i], t)
	}
}
