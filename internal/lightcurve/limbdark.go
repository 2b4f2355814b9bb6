// Package lightcurve evaluates limb-darkened transit light curves for the
// orbits in the orbit package. Fluxes are relative: a planet contributes 0
// out of transit and a negative dip while crossing the stellar disk.
package lightcurve

import (
	"fmt"
	"math"
)

// Law is a quadratic limb-darkening profile
//
//	I(mu) = 1 - u1*(1-mu) - u2*(1-mu)^2
//
// with mu the cosine of the angle from disk center. Uniform and linear
// laws are the u2 = 0 (and u1 = 0) special cases.
type Law struct {
	U1, U2 float64
}

// Uniform is the undarkened disk.
var Uniform = Law{}

// NewLaw builds a law from 0, 1, or 2 coefficients.
func NewLaw(u ...float64) (Law, error) {
	var law Law
	switch len(u) {
	case 0:
	case 1:
		law.U1 = u[0]
	case 2:
		law.U1, law.U2 = u[0], u[1]
	default:
		return Law{}, fmt.Errorf("lightcurve: %d limb-darkening coefficients, want at most 2", len(u))
	}
	// intensity must stay non-negative across the disk
	if law.Intensity(1) < 0 || law.Intensity(0) < 0 {
		return Law{}, fmt.Errorf("lightcurve: negative intensity for u1=%g u2=%g", law.U1, law.U2)
	}
	return law, nil
}

// Intensity evaluates the profile at mu.
func (l Law) Intensity(mu float64) float64 {
	d := 1 - mu
	return 1 - l.U1*d - l.U2*d*d
}

// cumulative is the disk integral of I over radius: J(R) = int_0^R I 2r dr,
// closed form under the substitution s = 1 - r^2.
func (l Law) cumulative(r float64) float64 {
	if r <= 0 {
		return 0
	}
	if r > 1 {
		r = 1
	}
	s := 1 - r*r
	s32 := s * math.Sqrt(s)
	a1 := 1.0/3.0 - s + 2.0/3.0*s32
	a2 := 1.0/6.0 - s + 4.0/3.0*s32 - s*s/2
	return r*r - l.U1*a1 - l.U2*a2
}

// Norm is the total disk flux J(1) = 1 - u1/3 - u2/6.
func (l Law) Norm() float64 {
	return 1 - l.U1/3 - l.U2/6
}
