package saturation

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	defaultStagnationThreshold = 10
	defaultMaxAuxiliaryPrimes  = 10000
)

// Options configures a Saturator. The zero value is usable: logging is
// discarded, metrics stay unregistered, and the numeric knobs take their
// defaults.
type Options struct {
	// Logger receives diagnostic tracing. Nil discards it.
	Logger logrus.FieldLogger

	// Registerer receives the saturation metrics. Nil leaves them
	// unregistered (they are still updated).
	Registerer prometheus.Registerer

	// StagnationThreshold is the number of consecutive auxiliary primes
	// without rank progress after which the sieve falls back to the
	// exhaustive kernel search. Defaults to 10.
	StagnationThreshold int

	// MaxAuxiliaryPrimes caps the primes examined by one sieve run; when it
	// is reached the run fails with ErrInconclusive instead of looping
	// forever. Defaults to 10000.
	MaxAuxiliaryPrimes int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	if o.StagnationThreshold <= 0 {
		o.StagnationThreshold = defaultStagnationThreshold
	}
	if o.MaxAuxiliaryPrimes <= 0 {
		o.MaxAuxiliaryPrimes = defaultMaxAuxiliaryPrimes
	}
	return o
}
