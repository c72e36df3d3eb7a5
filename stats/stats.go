// Package stats accumulates running mean/RMS statistics for the values a
// node or edge observes (message creation times, transit delays, queue
// depths), and dumps them alongside the graph's post-run state.
//
// Grounded on original_source/simzip/stats.hpp's Stats accumulator.
package stats

import "math"

// Stats is a running count/sum/sum-of-squares accumulator. The zero value
// is ready to use.
type Stats struct {
	Sample  bool
	count   uint64
	sum     float64
	sumSq   float64
	samples []float64
}

// Observe folds val into the running accumulation. If Sample is set, val is
// also appended to Samples.
func (s *Stats) Observe(val float64) {
	s.count++
	s.sum += val
	s.sumSq += val * val
	if s.Sample {
		s.samples = append(s.samples, val)
	}
}

// Count returns the number of observations folded in.
func (s *Stats) Count() uint64 { return s.count }

// Mean returns the running mean, or 0 if there have been no observations.
func (s *Stats) Mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// RMS returns the sample standard deviation, or -1 if fewer than two
// observations have been folded in (matching Stats.hpp: undefined below
// two samples rather than reporting a meaningless zero).
func (s *Stats) RMS() float64 {
	if s.count <= 1 {
		return -1
	}
	n := float64(s.count)
	d := s.sumSq - s.sum*s.sum/n
	if d < 0 {
		// rounding error on a near-zero variance
		d = 0
	}
	return math.Sqrt(d / (n - 1))
}

// Samples returns the raw observed values, or nil if Sample was never set.
func (s *Stats) Samples() []float64 { return s.samples }

// Summary is the JSON-friendly snapshot merged into a node's or edge's
// post-run "data" in the graph's output document.
type Summary struct {
	Count   uint64    `json:"count"`
	Mean    float64   `json:"mean"`
	RMS     float64   `json:"rms"`
	Samples []float64 `json:"samples,omitempty"`
}

// Snapshot captures the accumulator's current state for serialization.
func (s *Stats) Snapshot() Summary {
	return Summary{Count: s.count, Mean: s.Mean(), RMS: s.RMS(), Samples: s.samples}
}
