package nfcurve

import (
	"fmt"

	"github.com/ellalg/mwsat/ffield"
	"github.com/ellalg/mwsat/internal/primes"
)

const (
	torsionBoundPrimes   = 8
	torsionBoundAttempts = 200
)

// TorsionGens returns generators of the torsion subgroup of E(K) together
// with their orders, largest order first. The subgroup has rank at most two,
// so at most two generators come back.
func (c *Curve) TorsionGens() ([]Point, []uint64, error) {
	bound, err := c.torsionBound()
	if err != nil {
		return nil, nil, err
	}
	if bound == 1 {
		return nil, nil, nil
	}

	// Per prime l dividing the bound, compute a basis of E[l](K) and climb
	// each basis point through division by l as far as it stays K-rational.
	var firsts, seconds []torsionGen
	for _, pe := range ffield.Factor(bound) {
		lpart := uint64(1)
		for i := 0; i < pe.E; i++ {
			lpart *= pe.P
		}
		basis, err := c.torsionBasis(pe.P)
		if err != nil {
			return nil, nil, err
		}
		var climbed []torsionGen
		for _, t := range basis {
			g, err := c.climb(t, pe.P, lpart)
			if err != nil {
				return nil, nil, err
			}
			climbed = append(climbed, g)
		}
		if len(climbed) == 2 && climbed[1].order > climbed[0].order {
			climbed[0], climbed[1] = climbed[1], climbed[0]
		}
		if len(climbed) >= 1 {
			firsts = append(firsts, climbed[0])
		}
		if len(climbed) == 2 {
			seconds = append(seconds, climbed[1])
		}
	}
	if len(firsts) == 0 {
		return nil, nil, nil
	}

	g1 := c.mergeCoprime(firsts)
	gens := []Point{g1.point}
	orders := []uint64{g1.order}
	if len(seconds) > 0 {
		g2 := c.mergeCoprime(seconds)
		gens = append(gens, g2.point)
		orders = append(orders, g2.order)
	}
	return gens, orders, nil
}

type torsionGen struct {
	point Point
	order uint64
}

// mergeCoprime sums points of pairwise coprime orders; the sum's order is
// the product.
func (c *Curve) mergeCoprime(gens []torsionGen) torsionGen {
	sum := c.Infinity()
	ord := uint64(1)
	for _, g := range gens {
		sum = c.W.Add(sum, g.point)
		ord *= g.order
	}
	return torsionGen{sum, ord}
}

// torsionBound returns a multiple of the torsion order: the gcd of #E(F_q)
// over several primes of good reduction admitting a degree-one embedding.
// Torsion injects into each such reduction.
func (c *Curve) torsionBound() (uint64, error) {
	stream := primes.NewStream()
	stream.Next() // reduction wants odd q
	g := uint64(0)
	found := 0
	for attempt := 0; attempt < torsionBoundAttempts && found < torsionBoundPrimes; attempt++ {
		q := stream.Next()
		if !c.IsGoodPrime(q, nil) {
			continue
		}
		f, roots, err := c.ReductionRoots(q)
		if err != nil || len(roots) == 0 {
			continue
		}
		usable := false
		for _, a := range roots {
			rc, err := c.Reduce(f, a)
			if err != nil {
				continue
			}
			g = gcd(g, rc.Order())
			usable = true
		}
		if usable {
			found++
		}
		if g == 1 {
			return 1, nil
		}
	}
	if found == 0 {
		return 0, fmt.Errorf("nfcurve: no primes of good reduction found for the torsion bound")
	}
	return g, nil
}

// torsionBasis returns a basis of E[l](K) for a prime l: zero, one or two
// points of order l.
func (c *Curve) torsionBasis(l uint64) ([]Point, error) {
	all, err := c.DivisionPoints(c.Infinity(), l)
	if err != nil {
		return nil, err
	}
	var basis []Point
	for _, p := range all {
		if p.Inf {
			continue
		}
		if len(basis) == 0 {
			basis = append(basis, p)
			continue
		}
		if len(basis) == 2 {
			break
		}
		if !c.inSpan(p, basis[0], l) {
			basis = append(basis, p)
		}
	}
	return basis, nil
}

// inSpan reports whether p is a multiple of the order-l point g.
func (c *Curve) inSpan(p, g Point, l uint64) bool {
	v := c.Infinity()
	for k := uint64(0); k < l; k++ {
		if c.W.Equal(p, v) {
			return true
		}
		v = c.W.Add(v, g)
	}
	return false
}

// climb repeatedly replaces t (of order a power of l) by a K-rational
// l-division point, stopping when none exists or the l-part of the torsion
// bound is reached.
func (c *Curve) climb(t Point, l, lpart uint64) (torsionGen, error) {
	ord := l
	for ord < lpart {
		divs, err := c.DivisionPoints(t, l)
		if err != nil {
			return torsionGen{}, err
		}
		if len(divs) == 0 {
			break
		}
		t = divs[0]
		ord *= l
	}
	return torsionGen{t, ord}, nil
}
