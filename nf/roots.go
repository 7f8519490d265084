package nf

import (
	"fmt"
	"math/big"

	"github.com/ellalg/mwsat/ffield"
	"github.com/ellalg/mwsat/internal/lattice"
	"github.com/ellalg/mwsat/internal/padic"
	"github.com/ellalg/mwsat/internal/primes"
)

// Root finding in K[X] works q-adically: pick a rational prime q at which
// the defining polynomial has a simple root a (an embedding of K into F_q),
// find the roots of g mod (q, t-a), Newton-lift each residue root to a large
// modulus q^(2^k), reconstruct candidate coordinates with LLL, and verify
// candidates exactly in K. A residue root that fails to reconstruct at high
// precision is extraneous (a root of the reduction that does not come from
// K); if the reduction has no roots at all, g has no roots in K.

const (
	rootPrimeAttempts = 200
	rootExtraRounds   = 3
)

// Roots returns the roots of g in K, without multiplicity.
func (k *Field) Roots(g Poly) ([]Element, error) {
	g = k.PolyTrim(g)
	if len(g) == 0 {
		return nil, fmt.Errorf("nf: roots of the zero polynomial")
	}
	if len(g) == 1 {
		return nil, nil
	}
	sf, err := k.PolySquarefree(g)
	if err != nil {
		return nil, err
	}
	if k.PolyDeg(sf) == 1 {
		inv, err := k.Inv(sf[1])
		if err != nil {
			return nil, err
		}
		return []Element{k.Neg(k.Mul(sf[0], inv))}, nil
	}

	gi := k.clearDenominators(sf)

	// Primes dividing this number may spoil the reduction: they can divide
	// root denominators (factors of the leading coefficient's norm) or make
	// the power basis degenerate (factors of disc f).
	bad := new(big.Int).Set(k.Disc())
	bad.Abs(bad)
	lcNorm := k.normOfIntegral(gi[len(gi)-1])
	bad.Mul(bad, new(big.Int).Abs(lcNorm))
	if bad.Sign() == 0 {
		return nil, fmt.Errorf("nf: degenerate leading coefficient")
	}

	stream := primes.NewStream()
	stream.Next() // discard 2; the reduction machinery wants odd q
	for attempt := 0; attempt < rootPrimeAttempts; attempt++ {
		q := stream.Next()
		if new(big.Int).Mod(bad, new(big.Int).SetUint64(q)).Sign() == 0 {
			continue
		}
		F, err := ffield.New(q)
		if err != nil {
			continue
		}
		as := k.RootsModQ(F)
		if len(as) == 0 {
			continue
		}
		a := as[0]
		gbar := embedIntegral(gi, F, a)
		if len(fqTrim(gbar)) != len(gi) {
			// Leading coefficient vanished; excluded by the norm condition,
			// but keep the guard.
			continue
		}
		if !fqSquarefree(F, gbar) {
			continue
		}
		res := fqRoots(F, gbar)
		if len(res) == 0 {
			// Any root in K reduces to a root mod (q, t-a); none exist.
			return nil, nil
		}
		return k.liftAndReconstruct(gi, sf, q, a, res)
	}
	return nil, fmt.Errorf("nf: no usable reduction prime found")
}

// Sqrt returns an element s with s² = z, if one exists in K.
func (k *Field) Sqrt(z Element) (Element, bool, error) {
	if k.IsZero(z) {
		return k.Zero(), true, nil
	}
	roots, err := k.Roots(Poly{k.Neg(z), k.Zero(), k.One()})
	if err != nil {
		return Element{}, false, err
	}
	if len(roots) == 0 {
		return Element{}, false, nil
	}
	return roots[0], true, nil
}

// clearDenominators scales the polynomial by the lcm of all coordinate
// denominators, returning per-coefficient integer coordinate vectors.
func (k *Field) clearDenominators(p Poly) [][]*big.Int {
	l := big.NewInt(1)
	g := new(big.Int)
	for _, coeff := range p {
		for _, c := range coeff.c {
			den := c.Denom()
			g.GCD(nil, nil, l, den)
			l.Div(l, g)
			l.Mul(l, den)
		}
	}
	out := make([][]*big.Int, len(p))
	for i, coeff := range p {
		out[i] = make([]*big.Int, k.d)
		for j, c := range coeff.c {
			v := new(big.Int).Mul(c.Num(), l)
			v.Div(v, c.Denom())
			out[i][j] = v
		}
	}
	return out
}

// normOfIntegral computes the norm of an element given by integer
// coordinates. It is an integer for integral arguments.
func (k *Field) normOfIntegral(coords []*big.Int) *big.Int {
	x := k.newElement()
	for i, c := range coords {
		x.c[i].SetInt(c)
	}
	n := k.Norm(x)
	return new(big.Int).Quo(n.Num(), n.Denom())
}

func embedIntegral(gi [][]*big.Int, f *ffield.Field, a uint64) []uint64 {
	q := new(big.Int).SetUint64(f.Q)
	out := make([]uint64, len(gi))
	for i, coords := range gi {
		v := uint64(0)
		for j := len(coords) - 1; j >= 0; j-- {
			c := new(big.Int).Mod(coords[j], q).Uint64()
			v = f.Add(f.Mul(v, a), c)
		}
		out[i] = v
	}
	return out
}

func (k *Field) liftAndReconstruct(gi [][]*big.Int, sf Poly, q, a uint64, res []uint64) ([]Element, error) {
	maxBits := 1
	for _, coords := range gi {
		for _, c := range coords {
			if b := c.BitLen(); b > maxBits {
				maxBits = b
			}
		}
	}
	target := (k.d+1)*(maxBits+64) + 192

	mod, err := padic.NewModulus(new(big.Int).SetUint64(q))
	if err != nil {
		return nil, err
	}
	aLift := new(big.Int).SetUint64(a)
	roots := make([]*big.Int, len(res))
	for i, r := range res {
		roots[i] = new(big.Int).SetUint64(r)
	}
	verified := make([]bool, len(res))
	var out []Element
	seen := map[string]bool{}

	for round := 0; round < rootExtraRounds; round++ {
		for mod.BitLen() < target<<round {
			mod2, err := mod.Square()
			if err != nil {
				return nil, err
			}
			aLift, err = newtonStep(k.pol, aLift, mod2)
			if err != nil {
				return nil, err
			}
			ghat := embedLifted(gi, aLift, mod2)
			for i := range roots {
				roots[i], err = newtonStep(ghat, roots[i], mod2)
				if err != nil {
					return nil, err
				}
			}
			mod = mod2
		}
		for i := range roots {
			if verified[i] {
				continue
			}
			if x, ok := k.reconstruct(roots[i], aLift, mod.Big()); ok {
				if k.IsZero(k.PolyEval(sf, x)) {
					verified[i] = true
					key := k.String(x)
					if !seen[key] {
						seen[key] = true
						out = append(out, x)
					}
				}
			}
		}
		all := true
		for _, v := range verified {
			all = all && v
		}
		if all {
			break
		}
	}
	return out, nil
}

// newtonStep performs one Newton iteration x' = x - p(x)/p'(x) mod M for a
// polynomial with integer coefficients.
func newtonStep(coeffs []*big.Int, x *big.Int, m *padic.Modulus) (*big.Int, error) {
	xm := m.New(x)
	px := m.NewInt64(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		px.Mul(xm).Add(m.New(coeffs[i]))
	}
	dpx := m.NewInt64(0)
	for i := len(coeffs) - 1; i >= 1; i-- {
		c := new(big.Int).Mul(coeffs[i], big.NewInt(int64(i)))
		dpx.Mul(xm).Add(m.New(c))
	}
	inv, ok := dpx.Inverse()
	if !ok {
		return nil, fmt.Errorf("nf: derivative not invertible during lifting")
	}
	return m.New(x).Sub(px.Mul(inv)).Big(), nil
}

// embedLifted maps the integer coordinate vectors of the polynomial's
// coefficients through t -> a mod M.
func embedLifted(gi [][]*big.Int, a *big.Int, m *padic.Modulus) []*big.Int {
	am := m.New(a)
	out := make([]*big.Int, len(gi))
	for i, coords := range gi {
		v := m.NewInt64(0)
		for j := len(coords) - 1; j >= 0; j-- {
			v.Mul(am).Add(m.New(coords[j]))
		}
		out[i] = v.Big()
	}
	return out
}

// reconstruct searches for x in K with small coordinates whose image under
// t -> a equals r mod M, via LLL on the congruence lattice
// {(c_0, ..., c_{d-1}, w) : sum c_i a^i = w*r (mod M)}; x is then
// (sum c_i t^i)/w.
func (k *Field) reconstruct(r, a, m *big.Int) (Element, bool) {
	d := k.d
	n := d + 1
	rows := make([][]*big.Int, n)
	for i := range rows {
		rows[i] = make([]*big.Int, n)
		for j := range rows[i] {
			rows[i][j] = new(big.Int)
		}
	}
	rows[0][0].Set(m)
	ai := new(big.Int).SetInt64(1)
	for i := 1; i < d; i++ {
		ai.Mul(ai, a)
		ai.Mod(ai, m)
		rows[i][0].Neg(ai)
		rows[i][i].SetInt64(1)
	}
	rows[d][0].Mod(r, m)
	rows[d][d].SetInt64(1)

	lattice.Reduce(rows)

	for _, row := range rows {
		w := row[d]
		if w.Sign() == 0 {
			continue
		}
		x := k.newElement()
		for i := 0; i < d; i++ {
			x.c[i].SetFrac(row[i], w)
		}
		// Cheap sanity check before the caller's exact verification: the
		// candidate must reduce back to r.
		lhs := new(big.Int)
		ap := new(big.Int).SetInt64(1)
		t := new(big.Int)
		for i := 0; i < d; i++ {
			t.Mul(row[i], ap)
			lhs.Add(lhs, t)
			ap.Mul(ap, a)
			ap.Mod(ap, m)
		}
		t.Mul(row[d], r)
		lhs.Sub(lhs, t)
		if lhs.Mod(lhs, m).Sign() != 0 {
			continue
		}
		return x, true
	}
	return Element{}, false
}

// Polynomials over F_q, used only while choosing a reduction prime.

func fqTrim(p []uint64) []uint64 {
	n := len(p)
	for n > 0 && p[n-1] == 0 {
		n--
	}
	return p[:n]
}

func fqEval(f *ffield.Field, p []uint64, x uint64) uint64 {
	v := uint64(0)
	for i := len(p) - 1; i >= 0; i-- {
		v = f.Add(f.Mul(v, x), p[i])
	}
	return v
}

func fqDeriv(f *ffield.Field, p []uint64) []uint64 {
	if len(p) <= 1 {
		return nil
	}
	z := make([]uint64, len(p)-1)
	for i := 1; i < len(p); i++ {
		z[i-1] = f.Mul(uint64(i)%f.Q, p[i])
	}
	return fqTrim(z)
}

func fqMod(f *ffield.Field, a, b []uint64) []uint64 {
	a = append([]uint64(nil), fqTrim(a)...)
	b = fqTrim(b)
	db := len(b) - 1
	inv, err := f.Inv(b[db])
	if err != nil {
		panic("nf: zero leading coefficient in fqMod")
	}
	for i := len(a) - 1; i >= db; i-- {
		if a[i] == 0 {
			continue
		}
		c := f.Mul(a[i], inv)
		for j := 0; j <= db; j++ {
			a[i-db+j] = f.Sub(a[i-db+j], f.Mul(c, b[j]))
		}
	}
	if db == 0 {
		return nil
	}
	return fqTrim(a[:db])
}

// fqSquarefree reports whether gcd(p, p') is constant.
func fqSquarefree(f *ffield.Field, p []uint64) bool {
	a := fqTrim(p)
	b := fqDeriv(f, a)
	for len(b) > 0 {
		a, b = b, fqMod(f, a, b)
	}
	return len(a) == 1
}

func fqRoots(f *ffield.Field, p []uint64) []uint64 {
	var out []uint64
	for x := uint64(0); x < f.Q; x++ {
		if fqEval(f, p, x) == 0 {
			out = append(out, x)
		}
	}
	return out
}
