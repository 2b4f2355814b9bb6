// Package unitmath is the unit-aware counterpart of the math package for
// [units.Quantity] values. Generic float math cannot be applied to a
// tagged quantity; these helpers check dimensions and lengths, convert
// operands, and return a *units.DimError or *units.SizeError on misuse.
package unitmath

import (
	"math"

	"github.com/TylerFair/jaxoplanet/internal/units"
)

// Add returns a + b in the unit of a.
func Add(a, b units.Quantity) (units.Quantity, error) {
	if a.Len() != b.Len() {
		return units.Quantity{}, &units.SizeError{Op: "add", Have: a.Len(), Want: b.Len()}
	}
	bc, err := b.To(a.Unit())
	if err != nil {
		return units.Quantity{}, err
	}
	av, bv := a.Magnitude(), bc.Magnitude()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = av[i] + bv[i]
	}
	return units.New(out, a.Unit()), nil
}

// Sub returns a - b in the unit of a.
func Sub(a, b units.Quantity) (units.Quantity, error) {
	if a.Len() != b.Len() {
		return units.Quantity{}, &units.SizeError{Op: "sub", Have: a.Len(), Want: b.Len()}
	}
	bc, err := b.To(a.Unit())
	if err != nil {
		return units.Quantity{}, err
	}
	av, bv := a.Magnitude(), bc.Magnitude()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = av[i] - bv[i]
	}
	return units.New(out, a.Unit()), nil
}

// Mul multiplies two quantities element-wise, combining dimensions.
func Mul(a, b units.Quantity) (units.Quantity, error) {
	if a.Len() != b.Len() {
		return units.Quantity{}, &units.SizeError{Op: "mul", Have: a.Len(), Want: b.Len()}
	}
	u := units.Unit{
		Name:   a.Unit().Name + "*" + b.Unit().Name,
		Symbol: symbolProduct(a.Unit().Symbol, b.Unit().Symbol, "*"),
		Scale:  a.Unit().Scale * b.Unit().Scale,
		Dim:    a.Unit().Dim.Mul(b.Unit().Dim),
	}
	av, bv := a.Magnitude(), b.Magnitude()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = av[i] * bv[i]
	}
	return units.New(out, u), nil
}

// Div divides two quantities element-wise, combining dimensions.
func Div(a, b units.Quantity) (units.Quantity, error) {
	if a.Len() != b.Len() {
		return units.Quantity{}, &units.SizeError{Op: "div", Have: a.Len(), Want: b.Len()}
	}
	u := units.Unit{
		Name:   a.Unit().Name + "/" + b.Unit().Name,
		Symbol: symbolProduct(a.Unit().Symbol, b.Unit().Symbol, "/"),
		Scale:  a.Unit().Scale / b.Unit().Scale,
		Dim:    a.Unit().Dim.Div(b.Unit().Dim),
	}
	av, bv := a.Magnitude(), b.Magnitude()
	out := make([]float64, len(av))
	for i := range av {
		out[i] = av[i] / bv[i]
	}
	return units.New(out, u), nil
}

// Scale multiplies a quantity by a bare number.
func Scale(a units.Quantity, factor float64) units.Quantity {
	av := a.Magnitude()
	for i := range av {
		av[i] *= factor
	}
	return units.New(av, a.Unit())
}

// Sin takes the sine of an angle quantity.
func Sin(a units.Quantity) (units.Quantity, error) {
	return angleFn(a, "sin", math.Sin)
}

// Cos takes the cosine of an angle quantity.
func Cos(a units.Quantity) (units.Quantity, error) {
	return angleFn(a, "cos", math.Cos)
}

func angleFn(a units.Quantity, op string, fn func(float64) float64) (units.Quantity, error) {
	rad, err := a.To(units.Radian)
	if err != nil {
		return units.Quantity{}, err
	}
	v := rad.Magnitude()
	out := make([]float64, len(v))
	for i := range v {
		out[i] = fn(v[i])
	}
	return units.New(out, units.Dimensionless), nil
}

// Sum reduces a quantity to its total, keeping the unit.
func Sum(a units.Quantity) units.Quantity {
	total := 0.0
	for _, v := range a.Magnitude() {
		total += v
	}
	return units.Scalar(total, a.Unit())
}

// Mean reduces a quantity to its average, keeping the unit.
func Mean(a units.Quantity) units.Quantity {
	if a.Len() == 0 {
		return units.Scalar(math.NaN(), a.Unit())
	}
	return units.Scalar(Sum(a).Scalar()/float64(a.Len()), a.Unit())
}

func symbolProduct(a, b, op string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + op + b
}
