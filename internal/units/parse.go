package units

import (
	"fmt"
	"strconv"
	"strings"
)

var bySymbol = map[string]Unit{}

func init() {
	for _, u := range []Unit{
		PPM, PPT,
		Second, Minute, Hour, Day, Year,
		Meter, Kilometer, AU, SolarRadius, EarthRadius,
		Kilogram, SolarMass, EarthMass,
		Radian, Degree,
	} {
		bySymbol[u.Symbol] = u
	}
}

// Lookup resolves a unit by symbol. The empty symbol is dimensionless.
func Lookup(symbol string) (Unit, bool) {
	if symbol == "" {
		return Dimensionless, true
	}
	u, ok := bySymbol[symbol]
	return u, ok
}

// Parse reads a scalar quantity of the form "<number> <symbol>", e.g.
// "3.2 d" or "0.04" (dimensionless when the symbol is omitted).
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	switch len(fields) {
	case 1:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Quantity{}, fmt.Errorf("units: parse %q: %w", s, err)
		}
		return Scalar(v, Dimensionless), nil
	case 2:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Quantity{}, fmt.Errorf("units: parse %q: %w", s, err)
		}
		u, ok := Lookup(fields[1])
		if !ok {
			return Quantity{}, fmt.Errorf("units: parse %q: unknown unit %q", s, fields[1])
		}
		return Scalar(v, u), nil
	default:
		return Quantity{}, fmt.Errorf("units: parse %q: want \"<number> [unit]\"", s)
	}
}
