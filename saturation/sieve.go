package saturation

import (
	"errors"
	"fmt"

	"github.com/ellalg/mwsat/ffcurve"
	"github.com/ellalg/mwsat/ffield"
	"github.com/ellalg/mwsat/internal/linalg"
	"github.com/ellalg/mwsat/internal/primes"
	"github.com/ellalg/mwsat/nfcurve"
	"github.com/sirupsen/logrus"
)

// sieve decides p-saturation by accumulating projection rows over a stream
// of auxiliary primes. Full rank means saturated. Ten consecutive primes
// without rank progress trigger the exhaustive fallback on the kernel
// combinations; exhausting the prime budget yields ErrInconclusive.
func (s *Saturator) sieve(pts []nfcurve.Point, p uint64, cache *CombinationCache) (*StepResult, error) {
	n := len(pts)
	mat := linalg.NewMatrix(p, n)
	rank, stagnant := 0, 0

	stream := primes.NewStream()
	stream.Next() // reduction machinery is odd-only

	for examined := 0; examined < s.opts.MaxAuxiliaryPrimes; examined++ {
		q := stream.Next()
		s.metrics.primesExamined.Inc()
		if !s.curve.IsGoodPrime(q, pts) {
			s.metrics.primesSkipped.Inc()
			continue
		}
		f, roots, err := s.curve.ReductionRoots(q)
		if err != nil || len(roots) == 0 {
			s.metrics.primesSkipped.Inc()
			continue
		}

		progressed := false
		contributed := false
		for _, a := range roots {
			rows, err := s.projectAt(f, a, pts, p)
			if err != nil {
				return nil, err
			}
			if len(rows) == 0 {
				continue
			}
			contributed = true
			for _, row := range rows {
				mat.AppendRow(row)
				s.metrics.rowsAccumulated.Inc()
			}
			newRank := mat.Rank()
			if newRank > rank {
				rank = newRank
				progressed = true
			}
			if rank == n {
				s.opts.Logger.WithFields(logrus.Fields{"p": p, "q": q, "rank": rank}).
					Debug("sieve reached full rank")
				return &StepResult{Saturated: true}, nil
			}
		}
		if !contributed {
			s.metrics.primesSkipped.Inc()
			continue
		}
		if progressed {
			stagnant = 0
			continue
		}
		stagnant++
		if stagnant >= s.opts.StagnationThreshold {
			s.opts.Logger.WithFields(logrus.Fields{"p": p, "rank": rank, "stagnant": stagnant}).
				Debug("sieve stagnated, falling back to kernel search")
			return s.kernelFallback(mat, pts, p)
		}
	}
	return nil, fmt.Errorf("%w: %d primes examined at rank %d/%d", ErrInconclusive, s.opts.MaxAuxiliaryPrimes, rank, n)
}

// projectAt reduces the curve and points through the embedding t -> a into
// F_q and returns the projection rows. Degenerate data (bad reduction at
// this root, or no p-torsion in the reduction) contributes nothing. An
// inconsistency from the projector is retried once with the diagnostics
// logged before being propagated.
func (s *Saturator) projectAt(f *ffield.Field, a uint64, pts []nfcurve.Point, p uint64) ([][]uint64, error) {
	rc, err := s.curve.Reduce(f, a)
	if err != nil {
		return nil, nil
	}
	if rc.Order()%p != 0 {
		return nil, nil
	}
	grp, err := rc.Group()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInconsistent, err)
	}
	rpts := make([]ffcurve.Point, len(pts))
	for i, pt := range pts {
		rpts[i], err = s.curve.ReducePoint(rc, a, pt)
		if err != nil {
			return nil, nil
		}
	}
	rows, err := Projections(grp, rpts, p)
	if errors.Is(err, ErrInconsistent) {
		s.opts.Logger.WithFields(logrus.Fields{
			"p": p, "q": f.Q, "root": a, "order": rc.Order(),
			"n1": grp.N1, "n2": grp.N2,
		}).WithError(err).Warn("projection inconsistency, retrying")
		rows, err = Projections(grp, rpts, p)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// kernelFallback forms the point combinations for a right-kernel basis of
// the accumulated matrix and settles them with the exhaustive search (with a
// fresh cache: the combinations span a different subgroup). A relation found
// among the combinations is mapped back to the original list through the
// first nonzero entry of its kernel vector: the basis is echelonized, so the
// combined coefficient there is 1 and the index is the earliest replaceable
// one, never a torsion slot appended by the driver when an earlier point
// carries the relation.
func (s *Saturator) kernelFallback(mat *linalg.Matrix, pts []nfcurve.Point, p uint64) (*StepResult, error) {
	basis, leads := mat.RightKernel()
	if len(basis) == 0 {
		return &StepResult{Saturated: true}, nil
	}
	w := s.curve.W
	combs := make([]nfcurve.Point, len(basis))
	for j, v := range basis {
		q := w.Infinity()
		for i, c := range v {
			if c != 0 {
				q = w.Add(q, w.ScalarMulUint(pts[i], c))
			}
		}
		combs[j] = q
	}
	res, err := s.exhaustive(combs, p, NewCombinationCache())
	if err != nil {
		return nil, err
	}
	if res.Saturated {
		return res, nil
	}
	return &StepResult{Index: leads[res.Index], Replacement: res.Replacement}, nil
}
