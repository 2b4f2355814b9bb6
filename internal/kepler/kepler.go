// Package kepler solves Kepler's equation M = E - e*sin(E) for the
// eccentric anomaly E and converts between the anomalies of an elliptical
// orbit.
package kepler

import (
	"fmt"
	"math"
)

const (
	tolerance = 1e-12
	maxIter   = 50
)

// Solve returns the eccentric anomaly for mean anomaly m (radians) and
// eccentricity 0 <= e < 1. Newton iterations with a Halley correction,
// started from m + e*sin(m).
func Solve(m, e float64) (float64, error) {
	if e < 0 || e >= 1 {
		return 0, fmt.Errorf("kepler: eccentricity %g outside [0, 1)", e)
	}
	if e == 0 {
		return m, nil
	}

	// Reduce to [-pi, pi] and restore the revolution count at the end.
	rev := math.Round(m / (2 * math.Pi))
	mr := m - rev*2*math.Pi

	ecc := mr + e*math.Sin(mr)
	for i := 0; i < maxIter; i++ {
		s, c := math.Sincos(ecc)
		f := ecc - e*s - mr
		if math.Abs(f) < tolerance {
			return ecc + rev*2*math.Pi, nil
		}
		fp := 1 - e*c
		fpp := e * s
		d := -f / fp
		d = -f / (fp + 0.5*d*fpp)
		ecc += d
	}
	return 0, fmt.Errorf("kepler: no convergence for M=%g e=%g", m, e)
}

// TrueAnomaly converts an eccentric anomaly to the true anomaly.
func TrueAnomaly(ecc, e float64) float64 {
	beta := e / (1 + math.Sqrt(1-e*e))
	s, c := math.Sincos(ecc)
	return ecc + 2*math.Atan2(beta*s, 1-beta*c)
}

// MeanAnomaly evaluates Kepler's equation forward.
func MeanAnomaly(ecc, e float64) float64 {
	return ecc - e*math.Sin(ecc)
}

// MeanMotion is the angular rate 2*pi/period.
func MeanMotion(period float64) float64 {
	return 2 * math.Pi / period
}
