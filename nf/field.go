// Package nf implements arithmetic in number fields K = Q[t]/(f) for a
// monic integral defining polynomial f, together with polynomials over K and
// exact root finding in K. Elements are coordinate vectors over Q in the
// power basis 1, t, ..., t^(d-1).
package nf

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ellalg/mwsat/algebra"
	"github.com/ellalg/mwsat/ffield"
)

// Field is the number field Q[t]/(f). f must be monic with integer
// coefficients; irreducibility over Q is assumed and not checked.
type Field struct {
	pol  []*big.Int // length d+1, pol[d] == 1
	d    int
	disc *big.Int // discriminant of the defining polynomial, cached
}

// Element is an element of a Field, as a length-d coordinate vector. The
// zero value is not usable; obtain elements from a Field.
type Element struct {
	c []*big.Rat
}

var _ algebra.Field[Element] = (*Field)(nil)

// NewField returns Q[t]/(f) for the monic integral polynomial f, given as
// its coefficient slice (constant term first, leading coefficient 1).
func NewField(pol []*big.Int) (*Field, error) {
	d := len(pol) - 1
	if d < 1 {
		return nil, fmt.Errorf("nf: defining polynomial must have degree >= 1")
	}
	if pol[d].Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("nf: defining polynomial must be monic")
	}
	cp := make([]*big.Int, d+1)
	for i, c := range pol {
		cp[i] = new(big.Int).Set(c)
	}
	return &Field{pol: cp, d: d}, nil
}

// Rationals returns Q, presented as the degree-1 field Q[t]/(t).
func Rationals() *Field {
	f, _ := NewField([]*big.Int{big.NewInt(0), big.NewInt(1)})
	return f
}

func (k *Field) Degree() int { return k.d }

// DefiningPolynomial returns a copy of the defining polynomial's
// coefficients.
func (k *Field) DefiningPolynomial() []*big.Int {
	cp := make([]*big.Int, len(k.pol))
	for i, c := range k.pol {
		cp[i] = new(big.Int).Set(c)
	}
	return cp
}

func (k *Field) newElement() Element {
	c := make([]*big.Rat, k.d)
	for i := range c {
		c[i] = new(big.Rat)
	}
	return Element{c}
}

func (k *Field) Zero() Element { return k.newElement() }

func (k *Field) One() Element {
	x := k.newElement()
	x.c[0].SetInt64(1)
	return x
}

func (k *Field) FromInt(n int64) Element {
	x := k.newElement()
	x.c[0].SetInt64(n)
	return x
}

// FromRat returns the image of the rational r in K.
func (k *Field) FromRat(r *big.Rat) Element {
	x := k.newElement()
	x.c[0].Set(r)
	return x
}

// FromRats returns the element with the given power-basis coordinates.
// Missing trailing coordinates are taken as zero.
func (k *Field) FromRats(coords []*big.Rat) (Element, error) {
	if len(coords) > k.d {
		return Element{}, fmt.Errorf("nf: %d coordinates in a degree-%d field", len(coords), k.d)
	}
	x := k.newElement()
	for i, r := range coords {
		x.c[i].Set(r)
	}
	return x, nil
}

// Gen returns the class of t, the generator of the power basis.
func (k *Field) Gen() Element {
	x := k.newElement()
	if k.d == 1 {
		// Q is presented as Q[t]/(t), so t is zero.
		x.c[0].Neg(new(big.Rat).SetInt(k.pol[0]))
		return x
	}
	x.c[1].SetInt64(1)
	return x
}

// Coords returns a copy of the power-basis coordinates of x.
func (k *Field) Coords(x Element) []*big.Rat {
	cp := make([]*big.Rat, k.d)
	for i := range cp {
		cp[i] = new(big.Rat).Set(x.c[i])
	}
	return cp
}

func (k *Field) Add(x, y Element) Element {
	z := k.newElement()
	for i := range z.c {
		z.c[i].Add(x.c[i], y.c[i])
	}
	return z
}

func (k *Field) Sub(x, y Element) Element {
	z := k.newElement()
	for i := range z.c {
		z.c[i].Sub(x.c[i], y.c[i])
	}
	return z
}

func (k *Field) Neg(x Element) Element {
	z := k.newElement()
	for i := range z.c {
		z.c[i].Neg(x.c[i])
	}
	return z
}

func (k *Field) Mul(x, y Element) Element {
	// Convolve, then reduce modulo the monic defining polynomial.
	conv := make([]*big.Rat, 2*k.d-1)
	for i := range conv {
		conv[i] = new(big.Rat)
	}
	t := new(big.Rat)
	for i := 0; i < k.d; i++ {
		if x.c[i].Sign() == 0 {
			continue
		}
		for j := 0; j < k.d; j++ {
			if y.c[j].Sign() == 0 {
				continue
			}
			t.Mul(x.c[i], y.c[j])
			conv[i+j].Add(conv[i+j], t)
		}
	}
	for i := len(conv) - 1; i >= k.d; i-- {
		if conv[i].Sign() == 0 {
			continue
		}
		lead := new(big.Rat).Set(conv[i])
		conv[i].SetInt64(0)
		for j := 0; j < k.d; j++ {
			if k.pol[j].Sign() == 0 {
				continue
			}
			t.SetInt(k.pol[j])
			t.Mul(t, lead)
			conv[i-k.d+j].Sub(conv[i-k.d+j], t)
		}
	}
	z := k.newElement()
	for i := range z.c {
		z.c[i].Set(conv[i])
	}
	return z
}

// MulRat returns r*x.
func (k *Field) MulRat(r *big.Rat, x Element) Element {
	z := k.newElement()
	for i := range z.c {
		z.c[i].Mul(r, x.c[i])
	}
	return z
}

// MulInt returns n*x.
func (k *Field) MulInt(n int64, x Element) Element {
	return k.MulRat(new(big.Rat).SetInt64(n), x)
}

// Inv returns x⁻¹ by the extended Euclidean algorithm in Q[t] against the
// defining polynomial.
func (k *Field) Inv(x Element) (Element, error) {
	if k.IsZero(x) {
		return Element{}, fmt.Errorf("nf: inverse of zero")
	}
	r0 := make(qpoly, k.d+1)
	for i, c := range k.pol {
		r0[i] = new(big.Rat).SetInt(c)
	}
	r1 := make(qpoly, k.d)
	for i, c := range x.c {
		r1[i] = new(big.Rat).Set(c)
	}
	r1 = qtrim(r1)
	s0, s1 := qpoly{}, qpoly{new(big.Rat).SetInt64(1)}
	for qdeg(r1) > 0 {
		quo, rem := qdivmod(r0, r1)
		r0, r1 = r1, rem
		s0, s1 = s1, qsub(s0, qmul(quo, s1))
	}
	if qdeg(r1) < 0 {
		return Element{}, fmt.Errorf("nf: defining polynomial is not irreducible")
	}
	cinv := new(big.Rat).Inv(r1[0])
	s1 = qscale(s1, cinv)
	z := k.newElement()
	for i := 0; i < len(s1) && i < k.d; i++ {
		z.c[i].Set(s1[i])
	}
	return z, nil
}

func (k *Field) Equal(x, y Element) bool {
	for i := range x.c {
		if x.c[i].Cmp(y.c[i]) != 0 {
			return false
		}
	}
	return true
}

func (k *Field) IsZero(x Element) bool {
	for _, c := range x.c {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}

func (k *Field) String(x Element) string {
	var parts []string
	for i := k.d - 1; i >= 0; i-- {
		if x.c[i].Sign() == 0 {
			continue
		}
		switch i {
		case 0:
			parts = append(parts, x.c[i].RatString())
		case 1:
			parts = append(parts, x.c[i].RatString()+"*t")
		default:
			parts = append(parts, fmt.Sprintf("%s*t^%d", x.c[i].RatString(), i))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}

// Norm returns the field norm N_{K/Q}(x), the determinant of the
// multiplication-by-x matrix.
func (k *Field) Norm(x Element) *big.Rat {
	m := make([][]*big.Rat, k.d)
	col := x
	for j := 0; j < k.d; j++ {
		for i := 0; i < k.d; i++ {
			if m[i] == nil {
				m[i] = make([]*big.Rat, k.d)
			}
			m[i][j] = new(big.Rat).Set(col.c[i])
		}
		if j < k.d-1 {
			col = k.Mul(col, k.genRaw())
		}
	}
	return detRat(m)
}

// genRaw returns the basis element t even for degree 1 (where Gen folds in
// the relation); multiplication columns need the raw basis shift.
func (k *Field) genRaw() Element {
	x := k.newElement()
	if k.d == 1 {
		x.c[0].Neg(new(big.Rat).SetInt(k.pol[0]))
		return x
	}
	x.c[1].SetInt64(1)
	return x
}

// Denominator returns the least common multiple of the denominators of the
// coordinates of x.
func (k *Field) Denominator(x Element) *big.Int {
	l := big.NewInt(1)
	g := new(big.Int)
	for _, c := range x.c {
		den := c.Denom()
		g.GCD(nil, nil, l, den)
		l.Div(l, g)
		l.Mul(l, den)
	}
	return l
}

// Disc returns the discriminant of the defining polynomial (not of the
// field itself). For degree 1 it is 1.
func (k *Field) Disc() *big.Int {
	if k.disc != nil {
		return new(big.Int).Set(k.disc)
	}
	if k.d == 1 {
		k.disc = big.NewInt(1)
		return new(big.Int).Set(k.disc)
	}
	// disc(f) = (-1)^(d(d-1)/2) * Res(f, f') for monic f, with the
	// resultant computed as a Sylvester determinant.
	d := k.d
	der := make([]*big.Int, d)
	for i := 1; i <= d; i++ {
		der[i-1] = new(big.Int).Mul(k.pol[i], big.NewInt(int64(i)))
	}
	n := 2*d - 1
	m := make([][]*big.Rat, n)
	for i := range m {
		m[i] = make([]*big.Rat, n)
		for j := range m[i] {
			m[i][j] = new(big.Rat)
		}
	}
	// d-1 shifted rows of f (degree d), then d rows of f' (degree d-1).
	for r := 0; r < d-1; r++ {
		for i := 0; i <= d; i++ {
			m[r][r+i].SetInt(k.pol[d-i])
		}
	}
	for r := 0; r < d; r++ {
		for i := 0; i < d; i++ {
			m[d-1+r][r+i].SetInt(der[d-1-i])
		}
	}
	res := detRat(m)
	disc := new(big.Int).Quo(res.Num(), res.Denom())
	if (d*(d-1)/2)%2 == 1 {
		disc.Neg(disc)
	}
	k.disc = disc
	return new(big.Int).Set(k.disc)
}

// RootsModQ returns the roots in F_q of the defining polynomial.
func (k *Field) RootsModQ(f *ffield.Field) []uint64 {
	var roots []uint64
	for a := uint64(0); a < f.Q; a++ {
		v := uint64(0)
		for i := k.d; i >= 0; i-- {
			c := new(big.Int).Mod(k.pol[i], new(big.Int).SetUint64(f.Q)).Uint64()
			v = f.Add(f.Mul(v, a), c)
		}
		if v == 0 {
			roots = append(roots, a)
		}
	}
	return roots
}

// Embed reduces x into F_q under the embedding t -> a. It returns an error
// if q divides a coordinate denominator.
func (k *Field) Embed(x Element, f *ffield.Field, a uint64) (uint64, error) {
	q := new(big.Int).SetUint64(f.Q)
	v := uint64(0)
	// Horner from the top coordinate.
	for i := k.d - 1; i >= 0; i-- {
		den := new(big.Int).Mod(x.c[i].Denom(), q)
		if den.Sign() == 0 {
			return 0, fmt.Errorf("nf: denominator divisible by %d", f.Q)
		}
		num := new(big.Int).Mod(x.c[i].Num(), q)
		inv, err := f.Inv(den.Uint64())
		if err != nil {
			return 0, err
		}
		c := f.Mul(num.Uint64(), inv)
		v = f.Add(f.Mul(v, a), c)
	}
	return v, nil
}

// detRat computes a determinant by Gaussian elimination with exact rational
// arithmetic. It consumes its argument.
func detRat(m [][]*big.Rat) *big.Rat {
	n := len(m)
	det := new(big.Rat).SetInt64(1)
	for col := 0; col < n; col++ {
		sel := -1
		for i := col; i < n; i++ {
			if m[i][col].Sign() != 0 {
				sel = i
				break
			}
		}
		if sel < 0 {
			return new(big.Rat)
		}
		if sel != col {
			m[col], m[sel] = m[sel], m[col]
			det.Neg(det)
		}
		piv := m[col][col]
		det.Mul(det, piv)
		inv := new(big.Rat).Inv(piv)
		t := new(big.Rat)
		for i := col + 1; i < n; i++ {
			if m[i][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Mul(m[i][col], inv)
			for j := col; j < n; j++ {
				t.Mul(f, m[col][j])
				m[i][j].Sub(m[i][j], t)
			}
		}
	}
	return det
}
