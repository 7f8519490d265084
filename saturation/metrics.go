package saturation

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	primesExamined  prometheus.Counter
	primesSkipped   prometheus.Counter
	rowsAccumulated prometheus.Counter
	exhaustiveRuns  prometheus.Counter
	replacements    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mwsat",
			Subsystem: "saturation",
			Name:      name,
			Help:      help,
		})
		if reg != nil {
			reg.MustRegister(c)
		}
		return c
	}
	return &metrics{
		primesExamined:  counter("aux_primes_examined_total", "Auxiliary primes drawn from the stream."),
		primesSkipped:   counter("aux_primes_skipped_total", "Auxiliary primes skipped as degenerate or without p-torsion."),
		rowsAccumulated: counter("sieve_rows_total", "Projection rows appended to sieve matrices."),
		exhaustiveRuns:  counter("exhaustive_searches_total", "Exhaustive projective searches performed."),
		replacements:    counter("point_replacements_total", "Index-p point replacements applied by the driver."),
	}
}
