package metrics

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestAutocorrTimeWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := make([]float64, 4000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	tau := AutocorrTime(x)
	if tau < 0.5 || tau > 2 {
		t.Errorf("white noise autocorrelation time: got %g want ~1", tau)
	}
}

func TestAutocorrTimeCorrelated(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	// AR(1) with strong persistence mixes slowly
	x := make([]float64, 4000)
	for i := 1; i < len(x); i++ {
		x[i] = 0.9*x[i-1] + rng.NormFloat64()
	}
	tau := AutocorrTime(x)
	if tau < 5 {
		t.Errorf("correlated series autocorrelation time: got %g want >5", tau)
	}

	ess := EffectiveSampleSize(x)
	if ess >= float64(len(x)) {
		t.Errorf("effective sample size %g should be below %d", ess, len(x))
	}
}

func TestAutocorrTimeDegenerate(t *testing.T) {
	if tau := AutocorrTime([]float64{1, 1, 1, 1, 1, 1}); tau != 1 {
		t.Errorf("constant series: got %g want 1", tau)
	}
	if tau := AutocorrTime([]float64{1, 2}); tau != 1 {
		t.Errorf("short series: got %g want 1", tau)
	}
	if EffectiveSampleSize(nil) != 0 {
		t.Error("empty series should have zero effective draws")
	}
}

func TestSplitRHat(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	stationary := make([]float64, 2000)
	for i := range stationary {
		stationary[i] = rng.NormFloat64()
	}
	if r := SplitRHat(stationary); math.Abs(r-1) > 0.1 {
		t.Errorf("stationary chain: got %g want ~1", r)
	}

	trending := make([]float64, 2000)
	for i := range trending {
		trending[i] = float64(i) * 0.01
	}
	if r := SplitRHat(trending); r < 1.5 {
		t.Errorf("trending chain: got %g want >1.5", r)
	}

	if !math.IsNaN(SplitRHat([]float64{1, 2})) {
		t.Error("too-short chain should score NaN")
	}
}
