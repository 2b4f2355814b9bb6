package infer

import (
	"context"
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
)

func TestMAPRecoversDepth(t *testing.T) {
	// one-parameter model: a box dip of known depth in noiseless data
	const trueDepth = 0.01
	ds := flatDataset(40, 5e-4)
	for i := 15; i < 25; i++ {
		ds.Flux[i] = -trueDepth
	}
	predict := func(theta []float64) ([]float64, error) {
		out := make([]float64, 40)
		for i := 15; i < 25; i++ {
			out[i] = -theta[0]
		}
		return out, nil
	}

	src := rand.NewSource(3)
	m, err := NewModel(ds, []Param{{Name: "depth", Prior: NormalPrior(0.008, 0.005, src)}}, predict)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	res, err := MAP(context.Background(), m, MAPConfig{})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if math.Abs(res.Point["depth"]-trueDepth) > 1e-4 {
		t.Errorf("map depth: got %g want %g", res.Point["depth"], trueDepth)
	}
	if res.LogProb <= m.LogPosterior([]float64{0.008}) {
		t.Error("map should improve on the starting point")
	}
}

func TestMAPRejectsBadStart(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(3)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: UniformPrior(0, 1, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	if _, err := MAP(context.Background(), m, MAPConfig{Start: []float64{5}}); err == nil {
		t.Error("expected error for start outside prior support")
	}
	if _, err := MAP(context.Background(), m, MAPConfig{Start: []float64{0.1, 0.2}}); err == nil {
		t.Error("expected error for wrong start dimension")
	}
}

func ttvFixture(t *testing.T) (*dataset.Dataset, *dataset.Truth) {
	t.Helper()
	ds, truth, err := dataset.Synthesize(dataset.SynthConfig{
		Start:    0,
		End:      26,
		Cadence:  0.02,
		NoiseSD:  3e-4,
		Seed:     99,
		LimbDark: []float64{0.3, 0.2},
		Planets: []dataset.PlanetTruth{
			{Period: 10, T0: 2, Duration: 0.2, ImpactParam: 0.2, RadiusRatio: 0.1, TTVAmp: 0.005, TTVPeriod: 55, TTVPhase: 1.1},
		},
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	return ds, truth
}

func TestTTVModelLayout(t *testing.T) {
	ds, truth := ttvFixture(t)

	m, err := NewTTVModel(ds, TTVModelConfig{
		Planets: []TTVGuess{{
			TransitTimes: truth.TransitTimes[0],
			TransitInds:  truth.TransitInds[0],
			Duration:     0.2,
			ImpactParam:  0.2,
			RadiusRatio:  0.1,
		}},
		TimingSigma: 0.05,
		LimbDark:    []float64{0.3, 0.2},
		Seed:        4,
	})
	if err != nil {
		t.Fatalf("new ttv model: %v", err)
	}

	// 3 transit times + duration, impact, radius ratio
	if m.Dim() != 6 {
		t.Fatalf("dim: got %d want 6", m.Dim())
	}
	names := m.Names()
	if names[0] != "tt[0][0]" || names[3] != "dur[0]" || names[5] != "ror[0]" {
		t.Errorf("unexpected parameter names: %v", names)
	}

	// truth-like point has finite posterior
	theta := append([]float64{}, truth.TransitTimes[0]...)
	theta = append(theta, 0.2, 0.2, 0.1)
	if lp := m.LogPosterior(theta); math.IsInf(lp, -1) || math.IsNaN(lp) {
		t.Errorf("posterior at truth not finite: %g", lp)
	}

	// free limb darkening adds two parameters
	m2, err := NewTTVModel(ds, TTVModelConfig{
		Planets: []TTVGuess{{
			TransitTimes: truth.TransitTimes[0],
			TransitInds:  truth.TransitInds[0],
			Duration:     0.2,
			ImpactParam:  0.2,
			RadiusRatio:  0.1,
		}},
		TimingSigma: 0.05,
		FitLimbDark: true,
		Seed:        4,
	})
	if err != nil {
		t.Fatalf("new ttv model: %v", err)
	}
	if m2.Dim() != 8 {
		t.Errorf("dim with limb darkening: got %d want 8", m2.Dim())
	}
}

func TestTTVModelMAPImproves(t *testing.T) {
	if testing.Short() {
		t.Skip("optimization loop")
	}
	ds, truth := ttvFixture(t)

	// perturb the guesses away from the injected values
	guesses := make([]float64, len(truth.TransitTimes[0]))
	for i, tt := range truth.TransitTimes[0] {
		guesses[i] = tt + 0.01*math.Pow(-1, float64(i))
	}
	m, err := NewTTVModel(ds, TTVModelConfig{
		Planets: []TTVGuess{{
			TransitTimes: guesses,
			TransitInds:  truth.TransitInds[0],
			Duration:     0.22,
			ImpactParam:  0.2,
			RadiusRatio:  0.09,
		}},
		TimingSigma: 0.05,
		LimbDark:    []float64{0.3, 0.2},
		Seed:        4,
	})
	if err != nil {
		t.Fatalf("new ttv model: %v", err)
	}

	start := m.PriorMeans()
	res, err := MAP(context.Background(), m, MAPConfig{MaxEvals: 6000})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if res.LogProb < m.LogPosterior(start) {
		t.Error("map did not improve on the prior means")
	}

	// the radius ratio should move toward the injected 0.1
	ror := res.Point["ror[0]"]
	if ror < 0.05 || ror > 0.15 {
		t.Errorf("map radius ratio %g far from injected 0.1", ror)
	}
}

func TestTTVModelPriorOverrides(t *testing.T) {
	ds, truth := ttvFixture(t)
	good := TTVGuess{
		TransitTimes: truth.TransitTimes[0],
		TransitInds:  truth.TransitInds[0],
		Duration:     0.2,
		ImpactParam:  0.2,
		RadiusRatio:  0.1,
	}

	m, err := NewTTVModel(ds, TTVModelConfig{
		Planets:     []TTVGuess{good},
		TimingSigma: 0.05,
		LimbDark:    []float64{0.3, 0.2},
		PriorOverrides: map[string]PriorSpec{
			"b[0]": {Dist: "uniform", Min: 0, Max: 0.5},
		},
	})
	if err != nil {
		t.Fatalf("new ttv model: %v", err)
	}
	theta := append([]float64{}, truth.TransitTimes[0]...)
	theta = append(theta, 0.2, 0.8, 0.1)
	if !math.IsInf(m.LogPosterior(theta), -1) {
		t.Error("override should exclude b=0.8")
	}

	_, err = NewTTVModel(ds, TTVModelConfig{
		Planets:        []TTVGuess{good},
		TimingSigma:    0.05,
		PriorOverrides: map[string]PriorSpec{"nope": {Dist: "normal", Sigma: 1}},
	})
	if err == nil {
		t.Error("expected error for unknown parameter name")
	}
}

func TestTTVModelConfigErrors(t *testing.T) {
	ds, truth := ttvFixture(t)
	good := TTVGuess{
		TransitTimes: truth.TransitTimes[0],
		TransitInds:  truth.TransitInds[0],
		Duration:     0.2,
		ImpactParam:  0.2,
		RadiusRatio:  0.1,
	}

	tests := []struct {
		name string
		cfg  TTVModelConfig
	}{
		{"no planets", TTVModelConfig{TimingSigma: 0.05}},
		{"zero timing sigma", TTVModelConfig{Planets: []TTVGuess{good}}},
		{"one transit", TTVModelConfig{
			Planets:     []TTVGuess{{TransitTimes: []float64{2}, Duration: 0.2, RadiusRatio: 0.1}},
			TimingSigma: 0.05,
		}},
		{"bad shape", TTVModelConfig{
			Planets:     []TTVGuess{{TransitTimes: truth.TransitTimes[0], Duration: -1, RadiusRatio: 0.1}},
			TimingSigma: 0.05,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTTVModel(ds, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
