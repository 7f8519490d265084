package weier

// Division polynomials in the parity-normalized form: psi_m = fm for odd m
// and psi_m = fm * psi2 for even m, where psi2 = 2y + a1·x + a3 and
// psi2² = B(x) = 4x³ + b2·x² + 2·b4·x + b6. All fm are univariate in x.

// polynomials over the curve's field, constant term first

func (c *Curve[E]) polyTrim(p []E) []E {
	n := len(p)
	for n > 0 && c.F.IsZero(p[n-1]) {
		n--
	}
	return p[:n]
}

func (c *Curve[E]) polySub(a, b []E) []E {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	z := make([]E, n)
	for i := range z {
		z[i] = c.F.Zero()
		if i < len(a) {
			z[i] = c.F.Add(z[i], a[i])
		}
		if i < len(b) {
			z[i] = c.F.Sub(z[i], b[i])
		}
	}
	return c.polyTrim(z)
}

func (c *Curve[E]) polyMul(a, b []E) []E {
	a, b = c.polyTrim(a), c.polyTrim(b)
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	z := make([]E, len(a)+len(b)-1)
	for i := range z {
		z[i] = c.F.Zero()
	}
	for i := range a {
		if c.F.IsZero(a[i]) {
			continue
		}
		for j := range b {
			z[i+j] = c.F.Add(z[i+j], c.F.Mul(a[i], b[j]))
		}
	}
	return z
}

// PolyEval evaluates the univariate polynomial at x.
func (c *Curve[E]) PolyEval(p []E, x E) E {
	v := c.F.Zero()
	for i := len(p) - 1; i >= 0; i-- {
		v = c.F.Add(c.F.Mul(v, x), p[i])
	}
	return v
}

// TwoTorsionPoly returns B(x) = psi2² = 4x³ + b2·x² + 2·b4·x + b6, whose
// roots are the x-coordinates of the nonzero 2-torsion.
func (c *Curve[E]) TwoTorsionPoly() []E {
	f := c.F
	return []E{c.b6, f.Mul(f.FromInt(2), c.b4), c.b2, f.FromInt(4)}
}

// divPolys returns f_0 .. f_n.
func (c *Curve[E]) divPolys(n int) [][]E {
	f := c.F
	mulInt := func(k int64, x E) E { return f.Mul(f.FromInt(k), x) }
	fm := make([][]E, n+1)
	fm[0] = nil
	if n >= 1 {
		fm[1] = []E{f.One()}
	}
	if n >= 2 {
		fm[2] = []E{f.One()}
	}
	if n >= 3 {
		// f3 = 3x⁴ + b2·x³ + 3·b4·x² + 3·b6·x + b8
		fm[3] = []E{c.b8, mulInt(3, c.b6), mulInt(3, c.b4), c.b2, f.FromInt(3)}
	}
	if n >= 4 {
		// f4 = 2x⁶ + b2·x⁵ + 5·b4·x⁴ + 10·b6·x³ + 10·b8·x²
		//      + (b2·b8 - b4·b6)·x + (b4·b8 - b6²)
		fm[4] = []E{
			f.Sub(f.Mul(c.b4, c.b8), f.Mul(c.b6, c.b6)),
			f.Sub(f.Mul(c.b2, c.b8), f.Mul(c.b4, c.b6)),
			mulInt(10, c.b8),
			mulInt(10, c.b6),
			mulInt(5, c.b4),
			c.b2,
			f.FromInt(2),
		}
	}
	B := c.TwoTorsionPoly()
	B2 := c.polyMul(B, B)
	for m := 5; m <= n; m++ {
		k := m / 2
		if m%2 == 1 {
			// f_{2k+1}
			t1 := c.polyMul(fm[k+2], c.polyMul(fm[k], c.polyMul(fm[k], fm[k])))
			t2 := c.polyMul(fm[k-1], c.polyMul(fm[k+1], c.polyMul(fm[k+1], fm[k+1])))
			if k%2 == 0 {
				fm[m] = c.polySub(c.polyMul(t1, B2), t2)
			} else {
				fm[m] = c.polySub(t1, c.polyMul(t2, B2))
			}
		} else {
			// f_{2k}
			t1 := c.polyMul(fm[k+2], c.polyMul(fm[k-1], fm[k-1]))
			t2 := c.polyMul(fm[k-2], c.polyMul(fm[k+1], fm[k+1]))
			fm[m] = c.polyMul(fm[k], c.polySub(t1, t2))
		}
	}
	return fm
}

// TorsionPoly returns a polynomial whose roots are exactly the
// x-coordinates of the nonzero points killed by m.
func (c *Curve[E]) TorsionPoly(m uint64) []E {
	if m == 2 {
		return c.TwoTorsionPoly()
	}
	fm := c.divPolys(int(m))
	p := fm[m]
	if m%2 == 0 {
		// psi_m = f_m·psi2: x-coordinates come from f_m·B.
		p = c.polyMul(p, c.TwoTorsionPoly())
	}
	return p
}

// DivisionPreimagePoly returns a polynomial over the base field whose roots
// include the x-coordinates of every point Q with m·Q = ±P, where P is an
// affine point with x-coordinate xP. Callers must verify candidates with
// exact scalar multiplication.
//
// It is built from x(m·Q) = x - psi_{m-1}·psi_{m+1}/psi_m², split by parity
// so that everything is univariate in x.
func (c *Curve[E]) DivisionPreimagePoly(xP E, m uint64) []E {
	f := c.F
	xMinus := []E{f.Neg(xP), f.One()} // X - xP
	B := c.TwoTorsionPoly()
	if m == 2 {
		// (X - xP)·B - f3
		fm := c.divPolys(3)
		return c.polySub(c.polyMul(xMinus, B), fm[3])
	}
	fm := c.divPolys(int(m) + 1)
	if m%2 == 1 {
		// (X - xP)·f_m² - B·f_{m-1}·f_{m+1}
		t1 := c.polyMul(xMinus, c.polyMul(fm[m], fm[m]))
		t2 := c.polyMul(B, c.polyMul(fm[m-1], fm[m+1]))
		return c.polySub(t1, t2)
	}
	// (X - xP)·B·f_m² - f_{m-1}·f_{m+1}
	t1 := c.polyMul(xMinus, c.polyMul(B, c.polyMul(fm[m], fm[m])))
	t2 := c.polyMul(fm[m-1], fm[m+1])
	return c.polySub(t1, t2)
}
