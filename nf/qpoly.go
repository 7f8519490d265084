package nf

import "math/big"

// qpoly is a polynomial over Q, constant term first. Leading zeros are
// stripped by qtrim; the zero polynomial is the empty slice.
type qpoly []*big.Rat

func qtrim(p qpoly) qpoly {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

// qdeg returns the degree, with -1 for the zero polynomial.
func qdeg(p qpoly) int { return len(qtrim(p)) - 1 }

func qclone(p qpoly) qpoly {
	c := make(qpoly, len(p))
	for i, x := range p {
		c[i] = new(big.Rat).Set(x)
	}
	return c
}

func qsub(a, b qpoly) qpoly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	z := make(qpoly, n)
	for i := range z {
		z[i] = new(big.Rat)
		if i < len(a) {
			z[i].Set(a[i])
		}
		if i < len(b) {
			z[i].Sub(z[i], b[i])
		}
	}
	return qtrim(z)
}

func qmul(a, b qpoly) qpoly {
	a, b = qtrim(a), qtrim(b)
	if len(a) == 0 || len(b) == 0 {
		return qpoly{}
	}
	z := make(qpoly, len(a)+len(b)-1)
	for i := range z {
		z[i] = new(big.Rat)
	}
	t := new(big.Rat)
	for i := range a {
		for j := range b {
			t.Mul(a[i], b[j])
			z[i+j].Add(z[i+j], t)
		}
	}
	return z
}

func qscale(p qpoly, c *big.Rat) qpoly {
	z := make(qpoly, len(p))
	for i, x := range p {
		z[i] = new(big.Rat).Mul(x, c)
	}
	return qtrim(z)
}

// qdivmod returns quotient and remainder of a by b; b must be nonzero.
func qdivmod(a, b qpoly) (qpoly, qpoly) {
	a, b = qclone(qtrim(a)), qtrim(b)
	db := len(b) - 1
	if db < 0 {
		panic("nf: division by zero polynomial")
	}
	if len(a)-1 < db {
		return qpoly{}, qtrim(a)
	}
	quo := make(qpoly, len(a)-db)
	for i := range quo {
		quo[i] = new(big.Rat)
	}
	invLead := new(big.Rat).Inv(b[db])
	t := new(big.Rat)
	for i := len(a) - 1; i >= db; i-- {
		if a[i].Sign() == 0 {
			continue
		}
		c := new(big.Rat).Mul(a[i], invLead)
		quo[i-db].Set(c)
		for j := 0; j <= db; j++ {
			t.Mul(c, b[j])
			a[i-db+j].Sub(a[i-db+j], t)
		}
	}
	return qtrim(quo), qtrim(a)
}
