// Package primes provides an unbounded ascending stream of rational primes,
// backed by a segmented sieve of Eratosthenes.
package primes

import "github.com/bits-and-blooms/bitset"

const segmentSize = 1 << 16

// Stream yields the rational primes 2, 3, 5, ... in ascending order. The
// zero value is not usable; construct with NewStream.
type Stream struct {
	base    []uint64 // primes found so far, used to sieve later segments
	segment []uint64 // primes of the current segment not yet handed out
	next    int      // index into segment
	lo      uint64   // lower bound of the next segment to sieve
}

func NewStream() *Stream {
	return &Stream{lo: 2}
}

// Next returns the next prime in the stream.
func (s *Stream) Next() uint64 {
	for s.next >= len(s.segment) {
		s.sieveSegment()
	}
	p := s.segment[s.next]
	s.next++
	return p
}

func (s *Stream) sieveSegment() {
	lo, hi := s.lo, s.lo+segmentSize
	s.lo = hi
	s.next = 0
	s.segment = s.segment[:0]

	// Extend the base primes to cover sqrt(hi). The base is itself grown by
	// trial division; it stays tiny relative to the segments.
	for p := nextBase(s.base); p*p < hi; p = nextBase(s.base) {
		s.base = append(s.base, p)
	}

	composite := bitset.New(uint(segmentSize))
	for _, p := range s.base {
		if p*p >= hi {
			break
		}
		start := p * p
		if start < lo {
			start = (lo + p - 1) / p * p
		}
		for m := start; m < hi; m += p {
			composite.Set(uint(m - lo))
		}
	}
	for i := uint64(0); i < segmentSize; i++ {
		n := lo + i
		if n >= 2 && !composite.Test(uint(i)) {
			s.segment = append(s.segment, n)
		}
	}
}

// nextBase returns the smallest prime larger than every prime in base.
func nextBase(base []uint64) uint64 {
	n := uint64(2)
	if len(base) > 0 {
		n = base[len(base)-1] + 1
	}
	for {
		if isPrimeTrial(n, base) {
			return n
		}
		n++
	}
}

func isPrimeTrial(n uint64, base []uint64) bool {
	if n < 2 {
		return false
	}
	for _, p := range base {
		if p*p > n {
			return true
		}
		if n%p == 0 {
			return false
		}
	}
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			return false
		}
	}
	return true
}
