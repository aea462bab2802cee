// Package core computes manufacturing KPIs, maintenance features and risk
// scores. Every function here is a pure computation over already-loaded
// records: no I/O, no retries, no shared mutable state.
package core

import "math"

// clamp01 bounds a ratio to [0,1]. Performance uses it to absorb measurement
// noise (observed cycle times shorter than the ideal); the clamp hides but
// does not propagate invalid inputs, which is why KPI rows also carry
// explicit flags for sentinel substitutions.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the sample standard deviation, 0 for fewer than two values.
func stddev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
