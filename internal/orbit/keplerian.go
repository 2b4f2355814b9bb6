package orbit

import (
	"fmt"
	"math"

	"github.com/TylerFair/jaxoplanet/internal/kepler"
	"github.com/TylerFair/jaxoplanet/internal/units"
)

// Body is one planet of a Keplerian orbit. Times are days, lengths are
// stellar radii, angles radians.
type Body struct {
	Period      float64
	T0          float64
	Duration    float64
	ImpactParam float64
	RadiusRatio float64
	Ecc         float64
	Omega       float64
}

// Keplerian is a fixed star with one or more non-interacting planets.
type Keplerian struct {
	bodies []Body

	// derived per planet
	aOverR []float64
	cosI   []float64
	mt     []float64 // mean anomaly at transit center
}

// NewKeplerian validates the bodies and precomputes the transit geometry.
// The scaled semimajor axis follows from the duration:
//
//	a/R* = sqrt((1+k)^2 - b^2) / sin(pi*T/P)
//
// with the eccentric-orbit speed correction applied when e > 0.
func NewKeplerian(bodies ...Body) (*Keplerian, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("orbit: no bodies")
	}
	o := &Keplerian{
		bodies: bodies,
		aOverR: make([]float64, len(bodies)),
		cosI:   make([]float64, len(bodies)),
		mt:     make([]float64, len(bodies)),
	}
	for i, b := range bodies {
		if b.Period <= 0 {
			return nil, fmt.Errorf("orbit: body %d: period %g must be positive", i, b.Period)
		}
		if b.Duration <= 0 || b.Duration >= b.Period {
			return nil, fmt.Errorf("orbit: body %d: duration %g outside (0, period)", i, b.Duration)
		}
		if b.RadiusRatio <= 0 {
			return nil, fmt.Errorf("orbit: body %d: radius ratio %g must be positive", i, b.RadiusRatio)
		}
		if b.ImpactParam < 0 || b.ImpactParam >= 1+b.RadiusRatio {
			return nil, fmt.Errorf("orbit: body %d: impact parameter %g outside [0, 1+k)", i, b.ImpactParam)
		}
		if b.Ecc < 0 || b.Ecc >= 1 {
			return nil, fmt.Errorf("orbit: body %d: eccentricity %g outside [0, 1)", i, b.Ecc)
		}

		// The duration pins down a*sinI: the chord crossed between the
		// grazing contacts is sqrt((1+k)^2 - b^2) = a*sinI*sin(pi*T/P).
		grazing := math.Sqrt((1+b.RadiusRatio)*(1+b.RadiusRatio) - b.ImpactParam*b.ImpactParam)
		sinHalf := math.Sin(math.Pi * b.Duration / b.Period)
		x := grazing / sinHalf // a*sinI
		g := 1.0
		if b.Ecc > 0 {
			// transverse speed at transit relative to the circular case
			x *= math.Sqrt(1-b.Ecc*b.Ecc) / (1 + b.Ecc*math.Sin(b.Omega))
			g = (1 - b.Ecc*b.Ecc) / (1 + b.Ecc*math.Sin(b.Omega))
		}
		y := b.ImpactParam / g // a*cosI
		a := math.Hypot(x, y)
		if a <= 1 {
			return nil, fmt.Errorf("orbit: body %d: derived a/R* = %g inside the star", i, a)
		}
		o.aOverR[i] = a
		o.cosI[i] = y / a

		// mean anomaly at transit center, f = pi/2 - omega
		ft := math.Pi/2 - b.Omega
		eccAnom := 2 * math.Atan2(math.Sqrt(1-b.Ecc)*math.Sin(ft/2), math.Sqrt(1+b.Ecc)*math.Cos(ft/2))
		o.mt[i] = kepler.MeanAnomaly(eccAnom, b.Ecc)
	}
	return o, nil
}

// NewKeplerianQuantities builds a single-planet orbit from unit-tagged
// period, epoch, and duration, converting them to days.
func NewKeplerianQuantities(period, t0, duration units.Quantity, impact, ror float64) (*Keplerian, error) {
	p, err := period.To(units.Day)
	if err != nil {
		return nil, err
	}
	e, err := t0.To(units.Day)
	if err != nil {
		return nil, err
	}
	d, err := duration.To(units.Day)
	if err != nil {
		return nil, err
	}
	return NewKeplerian(Body{
		Period:      p.Scalar(),
		T0:          e.Scalar(),
		Duration:    d.Scalar(),
		ImpactParam: impact,
		RadiusRatio: ror,
	})
}

func (o *Keplerian) NumPlanets() int            { return len(o.bodies) }
func (o *Keplerian) Body(i int) Body            { return o.bodies[i] }
func (o *Keplerian) RadiusRatio(i int) float64  { return o.bodies[i].RadiusRatio }
func (o *Keplerian) SemimajorOverR(i int) float64 { return o.aOverR[i] }

// Separation returns the sky-projected star-planet distance in stellar
// radii for planet i at time t, and whether the planet is on the near
// side of the star.
func (o *Keplerian) Separation(i int, t float64) (float64, bool) {
	b := o.bodies[i]
	m := o.mt[i] + kepler.MeanMotion(b.Period)*(t-b.T0)
	eccAnom, err := kepler.Solve(m, b.Ecc)
	if err != nil {
		return math.Inf(1), false
	}
	f := kepler.TrueAnomaly(eccAnom, b.Ecc)

	r := o.aOverR[i]
	if b.Ecc > 0 {
		r *= (1 - b.Ecc*b.Ecc) / (1 + b.Ecc*math.Cos(f))
	}
	swf := math.Sin(b.Omega + f)
	sinI := math.Sqrt(1 - o.cosI[i]*o.cosI[i])
	z := r * math.Sqrt(1-sinI*sinI*swf*swf)
	return z, swf > 0
}

// InTransit reports whether planet i overlaps the stellar disk at t.
func (o *Keplerian) InTransit(i int, t float64) bool {
	z, front := o.Separation(i, t)
	return front && z < 1+o.bodies[i].RadiusRatio
}
