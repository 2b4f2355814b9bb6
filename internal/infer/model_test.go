package infer

import (
	"fmt"
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
)

func flatDataset(n int, sd float64) *dataset.Dataset {
	ds := &dataset.Dataset{
		Time:    make([]float64, n),
		Flux:    make([]float64, n),
		FluxErr: make([]float64, n),
	}
	for i := range ds.Time {
		ds.Time[i] = float64(i)
		ds.FluxErr[i] = sd
	}
	return ds
}

func constPredictor(theta []float64) ([]float64, error) {
	out := make([]float64, 5)
	return out, nil
}

func TestPriorSpecBuild(t *testing.T) {
	src := rand.NewSource(1)

	p, err := PriorSpec{Dist: "normal", Mu: 2, Sigma: 0.5}.Build(src)
	if err != nil {
		t.Fatalf("normal: %v", err)
	}
	if math.Abs(p.Mean()-2) > 1e-12 {
		t.Errorf("normal mean: got %g", p.Mean())
	}

	p, err = PriorSpec{Dist: "uniform", Min: 0, Max: 4}.Build(src)
	if err != nil {
		t.Fatalf("uniform: %v", err)
	}
	if !math.IsInf(p.LogProb(5), -1) {
		t.Error("uniform should have zero density outside support")
	}

	if _, err := (PriorSpec{Dist: "lognormal", Mu: 0, Sigma: 0.3}).Build(src); err != nil {
		t.Fatalf("lognormal: %v", err)
	}

	bad := []PriorSpec{
		{Dist: "cauchy"},
		{Dist: "normal", Sigma: 0},
		{Dist: "uniform", Min: 2, Max: 1},
		{Dist: "lognormal", Sigma: -1},
	}
	for _, spec := range bad {
		if _, err := spec.Build(src); err == nil {
			t.Errorf("expected error for %+v", spec)
		}
	}
}

func TestModelValidation(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(1)
	params := []Param{{Name: "x", Prior: NormalPrior(0, 1, src)}}

	if _, err := NewModel(ds, params, constPredictor); err != nil {
		t.Fatalf("valid model rejected: %v", err)
	}
	if _, err := NewModel(ds, nil, constPredictor); err == nil {
		t.Error("expected error for no parameters")
	}
	if _, err := NewModel(ds, params, nil); err == nil {
		t.Error("expected error for nil predictor")
	}
	dup := []Param{
		{Name: "x", Prior: NormalPrior(0, 1, src)},
		{Name: "x", Prior: NormalPrior(0, 1, src)},
	}
	if _, err := NewModel(ds, dup, constPredictor); err == nil {
		t.Error("expected error for duplicate parameter names")
	}
	noErr := &dataset.Dataset{Time: []float64{0, 1}, Flux: []float64{0, 0}}
	if _, err := NewModel(noErr, params, constPredictor); err == nil {
		t.Error("expected error for missing uncertainties")
	}
}

func TestLogPosterior(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(1)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: UniformPrior(0, 1, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	// data and prediction are both zero, sd=1
	wantLL := float64(5) * (-0.5 * math.Log(2*math.Pi))
	lp := m.LogPosterior([]float64{0.5})
	if math.Abs(lp-wantLL) > 1e-10 {
		t.Errorf("log posterior: got %g want %g", lp, wantLL)
	}

	if !math.IsInf(m.LogPosterior([]float64{2}), -1) {
		t.Error("outside prior support should score -Inf")
	}
	if !math.IsInf(m.LogPosterior([]float64{0.5, 0.5}), -1) {
		t.Error("wrong dimension should score -Inf")
	}

	failing := func(theta []float64) ([]float64, error) {
		return nil, fmt.Errorf("boom")
	}
	m2, err := NewModel(ds, []Param{{Name: "x", Prior: UniformPrior(0, 1, src)}}, failing)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if !math.IsInf(m2.LogPosterior([]float64{0.5}), -1) {
		t.Error("predictor failure should score -Inf")
	}
}
