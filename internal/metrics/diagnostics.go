// Package metrics provides convergence diagnostics for posterior
// chains.
package metrics

import (
	"math"
)

// AutocorrTime estimates the integrated autocorrelation time with
// Sokal's windowing rule. A white-noise series scores about 1.
func AutocorrTime(x []float64) float64 {
	n := len(x)
	if n < 4 {
		return 1
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	c0 := 0.0
	for _, v := range x {
		c0 += (v - mean) * (v - mean)
	}
	c0 /= float64(n)
	if c0 == 0 {
		return 1
	}

	tau := 1.0
	for lag := 1; lag < n/2; lag++ {
		c := 0.0
		for i := 0; i < n-lag; i++ {
			c += (x[i] - mean) * (x[i+lag] - mean)
		}
		c /= float64(n) * c0
		tau += 2 * c
		if float64(lag) >= 5*tau {
			break
		}
	}
	if tau < 1 {
		tau = 1
	}
	return tau
}

// EffectiveSampleSize is the draw count discounted by autocorrelation.
func EffectiveSampleSize(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return float64(len(x)) / AutocorrTime(x)
}

// SplitRHat compares the first and second half of the series. Values
// near 1 indicate the chain has forgotten its starting point.
func SplitRHat(x []float64) float64 {
	n := len(x) / 2
	if n < 2 {
		return math.NaN()
	}
	halves := [2][]float64{x[:n], x[n : 2*n]}

	means := [2]float64{}
	vars := [2]float64{}
	for k, h := range halves {
		for _, v := range h {
			means[k] += v
		}
		means[k] /= float64(n)
		for _, v := range h {
			vars[k] += (v - means[k]) * (v - means[k])
		}
		vars[k] /= float64(n - 1)
	}

	w := (vars[0] + vars[1]) / 2
	grand := (means[0] + means[1]) / 2
	b := float64(n) * ((means[0]-grand)*(means[0]-grand) + (means[1]-grand)*(means[1]-grand))
	if w == 0 {
		if b == 0 {
			return 1
		}
		return math.Inf(1)
	}
	v := float64(n-1)/float64(n)*w + b/float64(n)
	return math.Sqrt(v / w)
}
