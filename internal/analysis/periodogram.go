// Package analysis provides timing-series analysis tools.
//
// The package characterizes transit timing residuals:
//
//   - [Periodogram]: Lomb-Scargle power over a period grid
//   - [BestPeriod]: peak of the periodogram
//   - [PeriodGrid]: logarithmic period grid for a timing baseline
package analysis

import (
	"math"
)

// Periodogram evaluates the Lomb-Scargle normalized power of the
// unevenly sampled series (t, y) at each trial period.
func Periodogram(t, y []float64, periods []float64) []float64 {
	n := len(t)
	power := make([]float64, len(periods))
	if n < 3 || len(y) != n {
		return power
	}

	mean, variance := 0.0, 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	for _, v := range y {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return power
	}

	for k, p := range periods {
		if p <= 0 {
			continue
		}
		omega := 2 * math.Pi / p

		s2, c2 := 0.0, 0.0
		for _, ti := range t {
			s2 += math.Sin(2 * omega * ti)
			c2 += math.Cos(2 * omega * ti)
		}
		tau := math.Atan2(s2, c2) / (2 * omega)

		cs, cc, ss, sc := 0.0, 0.0, 0.0, 0.0
		for i, ti := range t {
			c := math.Cos(omega * (ti - tau))
			s := math.Sin(omega * (ti - tau))
			d := y[i] - mean
			cs += d * c
			sc += d * s
			cc += c * c
			ss += s * s
		}

		pw := 0.0
		if cc > 0 {
			pw += cs * cs / cc
		}
		if ss > 0 {
			pw += sc * sc / ss
		}
		power[k] = pw / (2 * variance)
	}
	return power
}

// PeriodGrid spans [minP, maxP] with n logarithmically spaced periods.
func PeriodGrid(minP, maxP float64, n int) []float64 {
	if n < 2 || minP <= 0 || maxP <= minP {
		return nil
	}
	grid := make([]float64, n)
	step := math.Log(maxP/minP) / float64(n-1)
	for i := range grid {
		grid[i] = minP * math.Exp(float64(i)*step)
	}
	return grid
}

// BestPeriod returns the trial period with the highest power.
func BestPeriod(t, y []float64, periods []float64) (float64, float64) {
	power := Periodogram(t, y, periods)
	best, bestPower := 0.0, 0.0
	for i, pw := range power {
		if pw > bestPower {
			best, bestPower = periods[i], pw
		}
	}
	return best, bestPower
}
