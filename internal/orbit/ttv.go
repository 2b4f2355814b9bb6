package orbit

import (
	"fmt"
	"math"
)

// TTVPlanet describes one planet of a TTV orbit: its observed transit
// times plus the transit-shape parameters the timing data cannot
// constrain.
type TTVPlanet struct {
	TransitTimes []float64
	// TransitInds numbers each observed transit. Leave nil for
	// consecutive transits starting at 0; gaps are allowed.
	TransitInds []int
	Duration    float64
	ImpactParam float64
	RadiusRatio float64
}

// TTV is an orbit built directly from observed transit times. A linear
// ephemeris is fit per planet; model evaluation subtracts the timing
// residual of the nearest transit from the time axis so each modeled
// transit falls on its observed epoch.
type TTV struct {
	kep  *Keplerian
	ephs []Ephemeris

	times [][]float64
	inds  [][]int
	ttvs  [][]float64
}

// NewTTV fits linear ephemerides to the observed transit times and builds
// the underlying Keplerian orbit from the fits.
func NewTTV(planets ...TTVPlanet) (*TTV, error) {
	if len(planets) == 0 {
		return nil, fmt.Errorf("orbit: no planets")
	}

	o := &TTV{
		ephs:  make([]Ephemeris, len(planets)),
		times: make([][]float64, len(planets)),
		inds:  make([][]int, len(planets)),
		ttvs:  make([][]float64, len(planets)),
	}
	bodies := make([]Body, len(planets))
	for i, p := range planets {
		if len(p.TransitTimes) < 2 {
			return nil, fmt.Errorf("orbit: planet %d: need at least 2 transit times, got %d", i, len(p.TransitTimes))
		}
		inds := p.TransitInds
		if inds == nil {
			inds = make([]int, len(p.TransitTimes))
			for j := range inds {
				inds[j] = j
			}
		}
		if len(inds) != len(p.TransitTimes) {
			return nil, fmt.Errorf("orbit: planet %d: %d indices for %d transit times", i, len(inds), len(p.TransitTimes))
		}

		eph, err := FitEphemeris(inds, p.TransitTimes)
		if err != nil {
			return nil, fmt.Errorf("orbit: planet %d: %w", i, err)
		}
		o.ephs[i] = eph

		ttvs := make([]float64, len(p.TransitTimes))
		for j, tt := range p.TransitTimes {
			ttvs[j] = tt - eph.Predict(inds[j])
		}
		o.times[i] = append([]float64(nil), p.TransitTimes...)
		o.inds[i] = append([]int(nil), inds...)
		o.ttvs[i] = ttvs

		bodies[i] = Body{
			Period:      eph.Period,
			T0:          eph.T0,
			Duration:    p.Duration,
			ImpactParam: p.ImpactParam,
			RadiusRatio: p.RadiusRatio,
		}
	}

	kep, err := NewKeplerian(bodies...)
	if err != nil {
		return nil, err
	}
	o.kep = kep
	return o, nil
}

func (o *TTV) NumPlanets() int           { return o.kep.NumPlanets() }
func (o *TTV) RadiusRatio(i int) float64 { return o.kep.RadiusRatio(i) }

// Ephemeris returns the fitted linear ephemeris of planet i.
func (o *TTV) Ephemeris(i int) Ephemeris { return o.ephs[i] }

// TransitTimes returns the observed transit times of planet i.
func (o *TTV) TransitTimes(i int) []float64 {
	return append([]float64(nil), o.times[i]...)
}

// TTVs returns the observed-minus-linear timing residuals of planet i.
func (o *TTV) TTVs(i int) []float64 {
	return append([]float64(nil), o.ttvs[i]...)
}

// timeOffset is the residual of the observed transit nearest to t.
func (o *TTV) timeOffset(i int, t float64) float64 {
	times := o.times[i]
	// binary search over midpoints between consecutive observed transits
	lo, hi := 0, len(times)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if t > (times[mid]+times[mid+1])/2 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return o.ttvs[i][lo]
}

// Separation evaluates the underlying Keplerian orbit on the warped time
// axis.
func (o *TTV) Separation(i int, t float64) (float64, bool) {
	return o.kep.Separation(i, t-o.timeOffset(i, t))
}

// InTransit reports whether planet i overlaps the stellar disk at t.
func (o *TTV) InTransit(i int, t float64) bool {
	z, front := o.Separation(i, t)
	return front && z < 1+o.kep.RadiusRatio(i)
}

// MaxTTV returns the largest absolute timing residual of planet i.
func (o *TTV) MaxTTV(i int) float64 {
	max := 0.0
	for _, v := range o.ttvs[i] {
		if math.Abs(v) > max {
			max = math.Abs(v)
		}
	}
	return max
}
