// Package trace collects posterior samples keyed by parameter name and
// reduces them to summary statistics.
package trace

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Trace is an ordered collection of posterior draws.
type Trace struct {
	names   []string
	samples [][]float64 // one slice per parameter, aligned with names
	logProb []float64
	accept  float64
}

// New creates an empty trace over the named parameters.
func New(names []string) *Trace {
	t := &Trace{
		names:   append([]string(nil), names...),
		samples: make([][]float64, len(names)),
	}
	return t
}

// Append records one draw. The vector is aligned with Names.
func (t *Trace) Append(theta []float64, logProb float64) error {
	if len(theta) != len(t.names) {
		return fmt.Errorf("trace: draw has %d values for %d parameters", len(theta), len(t.names))
	}
	for i, v := range theta {
		t.samples[i] = append(t.samples[i], v)
	}
	t.logProb = append(t.logProb, logProb)
	return nil
}

func (t *Trace) Len() int        { return len(t.logProb) }
func (t *Trace) Names() []string { return append([]string(nil), t.names...) }

// Samples returns the draws for one parameter.
func (t *Trace) Samples(name string) ([]float64, error) {
	for i, n := range t.names {
		if n == name {
			return append([]float64(nil), t.samples[i]...), nil
		}
	}
	return nil, fmt.Errorf("trace: unknown parameter %q", name)
}

// LogProb returns the log-posterior value of each draw.
func (t *Trace) LogProb() []float64 {
	return append([]float64(nil), t.logProb...)
}

// SetAcceptance records the sampler's mean acceptance fraction.
func (t *Trace) SetAcceptance(a float64) { t.accept = a }
func (t *Trace) Acceptance() float64     { return t.accept }

// Discard drops the first burn draws and keeps every thin-th of the rest.
func (t *Trace) Discard(burn, thin int) *Trace {
	if burn < 0 {
		burn = 0
	}
	if thin < 1 {
		thin = 1
	}
	out := New(t.names)
	out.accept = t.accept
	for i := burn; i < t.Len(); i += thin {
		theta := make([]float64, len(t.names))
		for j := range t.names {
			theta[j] = t.samples[j][i]
		}
		_ = out.Append(theta, t.logProb[i])
	}
	return out
}

// Summary describes one parameter's marginal posterior.
type Summary struct {
	Name   string
	Mean   float64
	Std    float64
	Q05    float64
	Median float64
	Q95    float64
}

// Summarize reduces every parameter to its marginal statistics.
func (t *Trace) Summarize() []Summary {
	out := make([]Summary, len(t.names))
	for i, name := range t.names {
		s := append([]float64(nil), t.samples[i]...)
		sort.Float64s(s)
		out[i] = Summary{
			Name:   name,
			Mean:   stat.Mean(s, nil),
			Std:    stat.StdDev(s, nil),
			Q05:    stat.Quantile(0.05, stat.Empirical, s, nil),
			Median: stat.Quantile(0.5, stat.Empirical, s, nil),
			Q95:    stat.Quantile(0.95, stat.Empirical, s, nil),
		}
	}
	return out
}
