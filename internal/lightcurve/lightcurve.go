package lightcurve

import (
	"fmt"
)

// Orbit is the geometry a light curve needs: how many planets there are,
// how large they appear, and where each one sits relative to the stellar
// disk at a given time. Both orbit.Keplerian and orbit.TTV satisfy it.
type Orbit interface {
	NumPlanets() int
	RadiusRatio(i int) float64
	Separation(i int, t float64) (z float64, front bool)
}

// Evaluator produces per-planet relative flux contributions for an orbit
// under a limb-darkening law.
type Evaluator struct {
	orb        Orbit
	law        Law
	texp       float64
	oversample int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithExposure integrates each sample over an exposure time using n
// midpoint subsamples.
func WithExposure(texp float64, n int) Option {
	return func(e *Evaluator) {
		e.texp = texp
		e.oversample = n
	}
}

// LimbDark builds an evaluator for the orbit from limb-darkening
// coefficients, mirroring the orbit-plus-coefficients call the modeling
// workflow uses.
func LimbDark(orb Orbit, u []float64, opts ...Option) (*Evaluator, error) {
	law, err := NewLaw(u...)
	if err != nil {
		return nil, err
	}
	e := &Evaluator{orb: orb, law: law, oversample: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.oversample < 1 {
		return nil, fmt.Errorf("lightcurve: oversample %d must be at least 1", e.oversample)
	}
	return e, nil
}

// Planet returns the flux contribution of planet i at time t: zero out of
// transit, negative in transit.
func (e *Evaluator) Planet(i int, t float64) float64 {
	if e.texp > 0 && e.oversample > 1 {
		sum := 0.0
		for k := 0; k < e.oversample; k++ {
			tk := t + e.texp*((float64(k)+0.5)/float64(e.oversample)-0.5)
			sum += e.instant(i, tk)
		}
		return sum / float64(e.oversample)
	}
	return e.instant(i, t)
}

func (e *Evaluator) instant(i int, t float64) float64 {
	z, front := e.orb.Separation(i, t)
	if !front {
		return 0
	}
	return -e.law.Obscured(z, e.orb.RadiusRatio(i))
}

// Eval returns the per-planet contributions at time t.
func (e *Evaluator) Eval(t float64) []float64 {
	out := make([]float64, e.orb.NumPlanets())
	for i := range out {
		out[i] = e.Planet(i, t)
	}
	return out
}

// EvalSeries returns a row per planet over the sample times.
func (e *Evaluator) EvalSeries(ts []float64) [][]float64 {
	out := make([][]float64, e.orb.NumPlanets())
	for i := range out {
		out[i] = make([]float64, len(ts))
		for j, t := range ts {
			out[i][j] = e.Planet(i, t)
		}
	}
	return out
}

// Sum collapses the per-planet contributions into a single light curve.
func (e *Evaluator) Sum(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for j, t := range ts {
		for i := 0; i < e.orb.NumPlanets(); i++ {
			out[j] += e.Planet(i, t)
		}
	}
	return out
}
