package orbit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ephemeris is a best-fit linear transit ephemeris t_n = T0 + n*Period.
type Ephemeris struct {
	T0     float64
	Period float64
}

// Predict returns the linear-ephemeris time of transit n.
func (e Ephemeris) Predict(n int) float64 {
	return e.T0 + float64(n)*e.Period
}

// FitEphemeris least-squares fits a linear ephemeris to observed transit
// times indexed by transit number.
func FitEphemeris(inds []int, times []float64) (Ephemeris, error) {
	if len(inds) != len(times) {
		return Ephemeris{}, fmt.Errorf("orbit: %d indices for %d transit times", len(inds), len(times))
	}
	if len(times) < 2 {
		return Ephemeris{}, fmt.Errorf("orbit: need at least 2 transit times, got %d", len(times))
	}

	a := mat.NewDense(len(times), 2, nil)
	b := mat.NewVecDense(len(times), nil)
	for i := range times {
		a.Set(i, 0, 1)
		a.Set(i, 1, float64(inds[i]))
		b.SetVec(i, times[i])
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Ephemeris{}, fmt.Errorf("orbit: ephemeris fit: %w", err)
	}
	eph := Ephemeris{T0: x.AtVec(0), Period: x.AtVec(1)}
	if eph.Period <= 0 {
		return Ephemeris{}, fmt.Errorf("orbit: ephemeris fit gave non-positive period %g", eph.Period)
	}
	return eph, nil
}

// ExpectedTransitTimes lists the linear-ephemeris transit times falling
// inside [minT, maxT] for each planet. Planets whose epochs all miss the
// window get an empty slice.
func ExpectedTransitTimes(minT, maxT float64, ephs []Ephemeris) [][]float64 {
	out := make([][]float64, len(ephs))
	for i, eph := range ephs {
		out[i] = []float64{}
		if maxT < minT {
			continue
		}
		nMin := int(math.Ceil((minT - eph.T0) / eph.Period))
		nMax := int(math.Floor((maxT - eph.T0) / eph.Period))
		for n := nMin; n <= nMax; n++ {
			out[i] = append(out[i], eph.Predict(n))
		}
	}
	return out
}
