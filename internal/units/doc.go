// Package units implements a small physical-units registry for the
// quantities that appear in transit modeling: times and periods, lengths,
// masses, and angles.
//
// A [Quantity] is a slice of magnitudes tagged with a [Unit]. Plain
// float64 math never sees a Quantity; either convert and extract the
// magnitudes with [Quantity.To] and [Quantity.Magnitude], or go through
// the unit-aware helpers in the unitmath subpackage. Mixing incompatible
// dimensions returns a [*DimError]:
//
//	p := units.Scalar(3.2, units.Day)
//	h, err := p.To(units.Hour)         // 76.8 h
//	_, err = unitmath.Add(p, units.Scalar(1, units.SolarRadius)) // *DimError
package units
