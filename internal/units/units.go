package units

import (
	"fmt"
)

// Dim is a vector of integer exponents over the base dimensions.
type Dim struct {
	Length int
	Mass   int
	Time   int
	Angle  int
}

func (d Dim) Equal(other Dim) bool {
	return d == other
}

func (d Dim) Mul(other Dim) Dim {
	return Dim{
		Length: d.Length + other.Length,
		Mass:   d.Mass + other.Mass,
		Time:   d.Time + other.Time,
		Angle:  d.Angle + other.Angle,
	}
}

func (d Dim) Div(other Dim) Dim {
	return Dim{
		Length: d.Length - other.Length,
		Mass:   d.Mass - other.Mass,
		Time:   d.Time - other.Time,
		Angle:  d.Angle - other.Angle,
	}
}

func (d Dim) String() string {
	if d == (Dim{}) {
		return "dimensionless"
	}
	s := ""
	for _, part := range []struct {
		sym string
		exp int
	}{{"L", d.Length}, {"M", d.Mass}, {"T", d.Time}, {"A", d.Angle}} {
		if part.exp == 0 {
			continue
		}
		if s != "" {
			s += " "
		}
		if part.exp == 1 {
			s += part.sym
		} else {
			s += fmt.Sprintf("%s^%d", part.sym, part.exp)
		}
	}
	return s
}

// Unit converts magnitudes to a base representation: seconds, meters,
// kilograms, radians.
type Unit struct {
	Name   string
	Symbol string
	Scale  float64
	Dim    Dim
}

var (
	Dimensionless = Unit{Name: "dimensionless", Symbol: "", Scale: 1}
	PPM           = Unit{Name: "parts per million", Symbol: "ppm", Scale: 1e-6}
	PPT           = Unit{Name: "parts per thousand", Symbol: "ppt", Scale: 1e-3}

	Second = Unit{Name: "second", Symbol: "s", Scale: 1, Dim: Dim{Time: 1}}
	Minute = Unit{Name: "minute", Symbol: "min", Scale: 60, Dim: Dim{Time: 1}}
	Hour   = Unit{Name: "hour", Symbol: "h", Scale: 3600, Dim: Dim{Time: 1}}
	Day    = Unit{Name: "day", Symbol: "d", Scale: 86400, Dim: Dim{Time: 1}}
	Year   = Unit{Name: "julian year", Symbol: "yr", Scale: 86400 * 365.25, Dim: Dim{Time: 1}}

	Meter       = Unit{Name: "meter", Symbol: "m", Scale: 1, Dim: Dim{Length: 1}}
	Kilometer   = Unit{Name: "kilometer", Symbol: "km", Scale: 1e3, Dim: Dim{Length: 1}}
	AU          = Unit{Name: "astronomical unit", Symbol: "au", Scale: 1.495978707e11, Dim: Dim{Length: 1}}
	SolarRadius = Unit{Name: "solar radius", Symbol: "R_sun", Scale: 6.957e8, Dim: Dim{Length: 1}}
	EarthRadius = Unit{Name: "earth radius", Symbol: "R_earth", Scale: 6.3781e6, Dim: Dim{Length: 1}}

	Kilogram  = Unit{Name: "kilogram", Symbol: "kg", Scale: 1, Dim: Dim{Mass: 1}}
	SolarMass = Unit{Name: "solar mass", Symbol: "M_sun", Scale: 1.98841e30, Dim: Dim{Mass: 1}}
	EarthMass = Unit{Name: "earth mass", Symbol: "M_earth", Scale: 5.9722e24, Dim: Dim{Mass: 1}}

	Radian = Unit{Name: "radian", Symbol: "rad", Scale: 1, Dim: Dim{Angle: 1}}
	Degree = Unit{Name: "degree", Symbol: "deg", Scale: 0.017453292519943295, Dim: Dim{Angle: 1}}
)

// DimError reports an operation between incompatible dimensions.
type DimError struct {
	Op   string
	Have Dim
	Want Dim
}

func (e *DimError) Error() string {
	return fmt.Sprintf("units: %s: incompatible dimensions %s and %s", e.Op, e.Have, e.Want)
}

// SizeError reports an element-wise operation between quantities of
// different lengths.
type SizeError struct {
	Op   string
	Have int
	Want int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("units: %s: mismatched lengths %d and %d", e.Op, e.Have, e.Want)
}

// Quantity is a slice of magnitudes tagged with a unit.
type Quantity struct {
	values []float64
	unit   Unit
}

// New tags values with a unit. The slice is not copied.
func New(values []float64, u Unit) Quantity {
	return Quantity{values: values, unit: u}
}

// Scalar tags a single value with a unit.
func Scalar(v float64, u Unit) Quantity {
	return Quantity{values: []float64{v}, unit: u}
}

func (q Quantity) Unit() Unit { return q.unit }
func (q Quantity) Len() int   { return len(q.values) }

// Magnitude returns the raw values in the quantity's own unit.
func (q Quantity) Magnitude() []float64 {
	out := make([]float64, len(q.values))
	copy(out, q.values)
	return out
}

// Scalar returns the single magnitude of a length-1 quantity.
func (q Quantity) Scalar() float64 {
	if len(q.values) != 1 {
		panic(fmt.Sprintf("units: Scalar on quantity of length %d", len(q.values)))
	}
	return q.values[0]
}

// To converts the quantity into another unit of the same dimension.
func (q Quantity) To(u Unit) (Quantity, error) {
	if !q.unit.Dim.Equal(u.Dim) {
		return Quantity{}, &DimError{Op: "convert " + q.unit.Symbol + " to " + u.Symbol, Have: q.unit.Dim, Want: u.Dim}
	}
	factor := q.unit.Scale / u.Scale
	out := make([]float64, len(q.values))
	for i, v := range q.values {
		out[i] = v * factor
	}
	return Quantity{values: out, unit: u}, nil
}

// MustTo is To for statically known-compatible units.
func (q Quantity) MustTo(u Unit) Quantity {
	out, err := q.To(u)
	if err != nil {
		panic(err)
	}
	return out
}

func (q Quantity) String() string {
	if len(q.values) == 1 {
		return fmt.Sprintf("%g %s", q.values[0], q.unit.Symbol)
	}
	return fmt.Sprintf("%v %s", q.values, q.unit.Symbol)
}
