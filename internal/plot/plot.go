// Package plot renders terminal graphics for datasets, fitted models,
// timing residuals and posterior draws.
package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
	"github.com/TylerFair/jaxoplanet/internal/orbit"
	"github.com/TylerFair/jaxoplanet/internal/trace"
)

const (
	defaultWidth  = 80
	defaultHeight = 12
)

// Downsample bins values into at most width bins and returns bin means.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi == lo {
			hi = lo + 1
		}
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// LightCurve plots the observed flux, with the model overlaid when one
// is given.
func LightCurve(ds *dataset.Dataset, model []float64) string {
	data := Downsample(ds.Flux, defaultWidth)
	if len(model) == len(ds.Flux) {
		series := [][]float64{data, Downsample(model, defaultWidth)}
		return asciigraph.PlotMany(series,
			asciigraph.Height(defaultHeight),
			asciigraph.Width(defaultWidth),
			asciigraph.Caption("relative flux (data, model)"),
		)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
		asciigraph.Caption("relative flux"),
	)
}

// OMinusC plots one planet's observed-minus-calculated transit times in
// minutes against transit index.
func OMinusC(eph orbit.Ephemeris, times []float64, inds []int) string {
	data := make([]float64, len(times))
	for i, t := range times {
		data[i] = (t - eph.Predict(inds[i])) * 24 * 60
	}
	return asciigraph.Plot(data,
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
		asciigraph.Caption(fmt.Sprintf("O-C [min], P=%.4f d", eph.Period)),
	)
}

// Histogram plots the distribution of posterior draws for one
// parameter.
func Histogram(name string, samples []float64, bins int) string {
	if bins <= 0 {
		bins = 40
	}
	if len(samples) == 0 {
		return "no draws"
	}
	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return fmt.Sprintf("%s: all draws at %g", name, lo)
	}
	counts := make([]float64, bins)
	for _, v := range samples {
		i := int(float64(bins) * (v - lo) / (hi - lo))
		if i == bins {
			i = bins - 1
		}
		counts[i]++
	}
	return asciigraph.Plot(counts,
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
		asciigraph.Caption(fmt.Sprintf("%s  [%.6g, %.6g]", name, lo, hi)),
	)
}

// LogProbTrace plots the chain's log posterior over draws.
func LogProbTrace(tr *trace.Trace) string {
	return asciigraph.Plot(Downsample(tr.LogProb(), defaultWidth),
		asciigraph.Height(defaultHeight),
		asciigraph.Width(defaultWidth),
		asciigraph.Caption("log posterior"),
	)
}

// SummaryTable formats posterior summaries as aligned text.
func SummaryTable(summaries []trace.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %12s %12s %12s %12s %12s\n",
		"param", "mean", "std", "q05", "median", "q95")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-12s %12.6g %12.6g %12.6g %12.6g %12.6g\n",
			s.Name, s.Mean, s.Std, s.Q05, s.Median, s.Q95)
	}
	return b.String()
}
