// Package dataset holds photometric time series and generates the
// synthetic observations the fitting workflow starts from.
package dataset

import (
	"fmt"
)

// Dataset is a photometric time series with per-point uncertainties.
type Dataset struct {
	Time    []float64 `json:"time"`
	Flux    []float64 `json:"flux"`
	FluxErr []float64 `json:"flux_err"`
}

// Validate checks the series lengths line up and times increase.
func (d *Dataset) Validate() error {
	n := len(d.Time)
	if n == 0 {
		return fmt.Errorf("dataset: empty time series")
	}
	if len(d.Flux) != n {
		return fmt.Errorf("dataset: %d flux values for %d times", len(d.Flux), n)
	}
	if len(d.FluxErr) != 0 && len(d.FluxErr) != n {
		return fmt.Errorf("dataset: %d uncertainties for %d times", len(d.FluxErr), n)
	}
	for i := 1; i < n; i++ {
		if d.Time[i] <= d.Time[i-1] {
			return fmt.Errorf("dataset: times not strictly increasing at index %d", i)
		}
	}
	return nil
}

// Span returns the first and last observation times.
func (d *Dataset) Span() (float64, float64) {
	if len(d.Time) == 0 {
		return 0, 0
	}
	return d.Time[0], d.Time[len(d.Time)-1]
}
