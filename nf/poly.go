package nf

import "fmt"

// Poly is a polynomial over K, constant term first. The zero polynomial is
// the empty (or all-zero) slice.
type Poly []Element

// PolyTrim strips leading zero coefficients.
func (k *Field) PolyTrim(p Poly) Poly {
	n := len(p)
	for n > 0 && k.IsZero(p[n-1]) {
		n--
	}
	return p[:n]
}

// PolyDeg returns the degree of p, with -1 for the zero polynomial.
func (k *Field) PolyDeg(p Poly) int { return len(k.PolyTrim(p)) - 1 }

func (k *Field) PolyAdd(a, b Poly) Poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	z := make(Poly, n)
	for i := range z {
		z[i] = k.Zero()
		if i < len(a) {
			z[i] = k.Add(z[i], a[i])
		}
		if i < len(b) {
			z[i] = k.Add(z[i], b[i])
		}
	}
	return k.PolyTrim(z)
}

func (k *Field) PolySub(a, b Poly) Poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	z := make(Poly, n)
	for i := range z {
		z[i] = k.Zero()
		if i < len(a) {
			z[i] = k.Add(z[i], a[i])
		}
		if i < len(b) {
			z[i] = k.Sub(z[i], b[i])
		}
	}
	return k.PolyTrim(z)
}

func (k *Field) PolyMul(a, b Poly) Poly {
	a, b = k.PolyTrim(a), k.PolyTrim(b)
	if len(a) == 0 || len(b) == 0 {
		return Poly{}
	}
	z := make(Poly, len(a)+len(b)-1)
	for i := range z {
		z[i] = k.Zero()
	}
	for i := range a {
		if k.IsZero(a[i]) {
			continue
		}
		for j := range b {
			z[i+j] = k.Add(z[i+j], k.Mul(a[i], b[j]))
		}
	}
	return z
}

// PolyScale returns c*p.
func (k *Field) PolyScale(c Element, p Poly) Poly {
	z := make(Poly, len(p))
	for i := range p {
		z[i] = k.Mul(c, p[i])
	}
	return k.PolyTrim(z)
}

// PolyEval evaluates p at x by Horner's rule.
func (k *Field) PolyEval(p Poly, x Element) Element {
	v := k.Zero()
	for i := len(p) - 1; i >= 0; i-- {
		v = k.Add(k.Mul(v, x), p[i])
	}
	return v
}

// PolyDeriv returns the formal derivative of p.
func (k *Field) PolyDeriv(p Poly) Poly {
	if len(p) <= 1 {
		return Poly{}
	}
	z := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		z[i-1] = k.MulInt(int64(i), p[i])
	}
	return k.PolyTrim(z)
}

// PolyDivMod returns the quotient and remainder of a by b.
func (k *Field) PolyDivMod(a, b Poly) (Poly, Poly, error) {
	b = k.PolyTrim(b)
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("nf: polynomial division by zero")
	}
	rem := make(Poly, len(a))
	copy(rem, a)
	rem = k.PolyTrim(rem)
	db := len(b) - 1
	if len(rem)-1 < db {
		return Poly{}, rem, nil
	}
	invLead, err := k.Inv(b[db])
	if err != nil {
		return nil, nil, err
	}
	quo := make(Poly, len(rem)-db)
	for i := range quo {
		quo[i] = k.Zero()
	}
	work := make(Poly, len(rem))
	copy(work, rem)
	for i := len(work) - 1; i >= db; i-- {
		if k.IsZero(work[i]) {
			continue
		}
		c := k.Mul(work[i], invLead)
		quo[i-db] = c
		for j := 0; j <= db; j++ {
			work[i-db+j] = k.Sub(work[i-db+j], k.Mul(c, b[j]))
		}
	}
	return k.PolyTrim(quo), k.PolyTrim(work[:db]), nil
}

// PolyGCD returns the monic greatest common divisor of a and b.
func (k *Field) PolyGCD(a, b Poly) (Poly, error) {
	a, b = k.PolyTrim(a), k.PolyTrim(b)
	for len(b) > 0 {
		_, r, err := k.PolyDivMod(a, b)
		if err != nil {
			return nil, err
		}
		a, b = b, r
	}
	if len(a) == 0 {
		return Poly{}, nil
	}
	invLead, err := k.Inv(a[len(a)-1])
	if err != nil {
		return nil, err
	}
	return k.PolyScale(invLead, a), nil
}

// PolySquarefree returns p divided by gcd(p, p'), which has the same roots
// as p, each with multiplicity one.
func (k *Field) PolySquarefree(p Poly) (Poly, error) {
	p = k.PolyTrim(p)
	if len(p) <= 1 {
		return p, nil
	}
	g, err := k.PolyGCD(p, k.PolyDeriv(p))
	if err != nil {
		return nil, err
	}
	if k.PolyDeg(g) <= 0 {
		return p, nil
	}
	quo, _, err := k.PolyDivMod(p, g)
	if err != nil {
		return nil, err
	}
	return quo, nil
}
