package infer

import (
	"context"
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestSampleRecoversPrior(t *testing.T) {
	// constant predictor: the posterior is exactly the prior
	ds := flatDataset(5, 1)
	src := rand.NewSource(7)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: NormalPrior(3, 2, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	tr, err := Sample(context.Background(), m, []float64{3}, SamplerConfig{
		Walkers: 10,
		Steps:   2000,
		Burn:    500,
		Seed:    11,
	})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if tr.Len() != 10*2000 {
		t.Errorf("trace length: got %d want %d", tr.Len(), 10*2000)
	}

	s := tr.Summarize()[0]
	if math.Abs(s.Mean-3) > 0.3 {
		t.Errorf("posterior mean: got %g want ~3", s.Mean)
	}
	if math.Abs(s.Std-2) > 0.4 {
		t.Errorf("posterior std: got %g want ~2", s.Std)
	}
	if a := tr.Acceptance(); a < 0.2 || a > 0.95 {
		t.Errorf("acceptance %g outside healthy range", a)
	}
}

func TestSampleDeterministic(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(7)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: NormalPrior(0, 1, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	cfg := SamplerConfig{Walkers: 6, Steps: 50, Seed: 5, Workers: 1}
	a, err := Sample(context.Background(), m, []float64{0}, cfg)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	b, err := Sample(context.Background(), m, []float64{0}, cfg)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	as, _ := a.Samples("x")
	bs, _ := b.Samples("x")
	for i := range as {
		if as[i] != bs[i] {
			t.Fatalf("same seed diverged at draw %d", i)
		}
	}
}

func TestSampleOnStep(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(7)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: NormalPrior(0, 1, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	calls := 0
	_, err = Sample(context.Background(), m, []float64{0}, SamplerConfig{
		Walkers: 6,
		Steps:   20,
		Seed:    5,
		OnStep: func(step, total int, logProb []float64, acc float64) {
			calls++
			if total != 20 || len(logProb) != 6 {
				t.Errorf("onstep: total=%d walkers=%d", total, len(logProb))
			}
		},
	})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if calls != 20 {
		t.Errorf("onstep calls: got %d want 20", calls)
	}
}

func TestSampleCancellation(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(7)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: NormalPrior(0, 1, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sample(ctx, m, []float64{0}, SamplerConfig{Steps: 100, Seed: 1}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestSampleValidation(t *testing.T) {
	ds := flatDataset(5, 1)
	src := rand.NewSource(7)
	m, err := NewModel(ds, []Param{{Name: "x", Prior: NormalPrior(0, 1, src)}}, constPredictor)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	if _, err := Sample(context.Background(), m, []float64{0, 1}, SamplerConfig{Steps: 10}); err == nil {
		t.Error("expected error for wrong start dimension")
	}
	if _, err := Sample(context.Background(), m, []float64{0}, SamplerConfig{}); err == nil {
		t.Error("expected error for zero steps")
	}
}
