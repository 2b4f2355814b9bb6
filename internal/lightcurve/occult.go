package lightcurve

import "math"

// simpson panels for the partially covered annuli
const occultPanels = 256

// Obscured returns the fraction of stellar flux blocked by a planet of
// radius p (stellar radii) whose center lies at projected separation z.
func (l Law) Obscured(z, p float64) float64 {
	if p <= 0 || z >= 1+p {
		return 0
	}
	if l.U1 == 0 && l.U2 == 0 {
		return uniformOverlap(z, p)
	}
	if z <= p-1 {
		return 1
	}

	// annuli with r <= p-z are swallowed whole
	full := 0.0
	lo := math.Abs(z - p)
	if z < p {
		full = l.cumulative(p - z)
	}
	hi := math.Min(1, z+p)
	if hi <= lo {
		return full / l.Norm()
	}

	// fraction of the annulus arc under the planet disk
	arc := func(r float64) float64 {
		if z == 0 {
			return 0 // no partial annuli for a concentric planet
		}
		if r == 0 {
			// only reached when z == p; the covered fraction tends to 1/2
			return 0.5
		}
		c := (z*z + r*r - p*p) / (2 * z * r)
		if c > 1 {
			c = 1
		} else if c < -1 {
			c = -1
		}
		return math.Acos(c) / math.Pi
	}
	f := func(r float64) float64 {
		mu := math.Sqrt(math.Max(0, 1-r*r))
		return l.Intensity(mu) * arc(r) * 2 * r
	}

	h := (hi - lo) / occultPanels
	sum := f(lo) + f(hi)
	for i := 1; i < occultPanels; i++ {
		r := lo + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(r)
		} else {
			sum += 2 * f(r)
		}
	}
	partial := sum * h / 3

	return (full + partial) / l.Norm()
}

// uniformOverlap is the exact disk-overlap area divided by the stellar
// disk area.
func uniformOverlap(z, p float64) float64 {
	switch {
	case z >= 1+p:
		return 0
	case z <= p-1:
		return 1
	case z <= 1-p:
		return p * p
	}
	k0 := math.Acos((p*p + z*z - 1) / (2 * p * z))
	k1 := math.Acos((1 - p*p + z*z) / (2 * z))
	t := 4*z*z - (1+z*z-p*p)*(1+z*z-p*p)
	if t < 0 {
		t = 0
	}
	area := p*p*k0 + k1 - 0.5*math.Sqrt(t)
	return area / math.Pi
}
