package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/TylerFair/jaxoplanet/internal/infer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Synth.Planets) == 0 {
		t.Error("default config should inject at least one planet")
	}
	if cfg.Synth.End <= cfg.Synth.Start {
		t.Error("default window should be non-empty")
	}
	if cfg.Sampler.Steps <= 0 {
		t.Error("default steps should be positive")
	}
}

func TestCadenceDays(t *testing.T) {
	tests := []struct {
		cadence string
		want    float64
	}{
		{"30 min", 30.0 / 1440},
		{"0.02 d", 0.02},
		{"1 h", 1.0 / 24},
		{"0.01", 0.01},
	}
	for _, tt := range tests {
		b := SynthBlock{Cadence: tt.cadence}
		got, err := b.CadenceDays()
		if err != nil {
			t.Fatalf("%q: %v", tt.cadence, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%q: got %g want %g", tt.cadence, got, tt.want)
		}
	}

	for _, bad := range []string{"30 parsec", "fast", "2 kg"} {
		b := SynthBlock{Cadence: bad}
		if _, err := b.CadenceDays(); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestTimingSigmaDays(t *testing.T) {
	b := FitBlock{TimingSigma: "1.2 h"}
	got, err := b.TimingSigmaDays()
	if err != nil {
		t.Fatalf("timing sigma: %v", err)
	}
	if math.Abs(got-0.05) > 1e-12 {
		t.Errorf("timing sigma: got %g want 0.05", got)
	}

	if _, err := (FitBlock{TimingSigma: "2 au"}).TimingSigmaDays(); err == nil {
		t.Error("length unit should be rejected")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Synth.Seed = 77
	cfg.Fit.FitLimbDark = true
	cfg.Fit.Priors = map[string]infer.PriorSpec{
		"ror[0]": {Dist: "lognormal", Mu: -2.3, Sigma: 0.1},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Synth.Seed != 77 || !got.Fit.FitLimbDark {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Fit.Priors["ror[0]"].Dist != "lognormal" {
		t.Errorf("prior block did not survive the round trip: %+v", got.Fit.Priors)
	}
	if got.Synth.Planets[0].Period != cfg.Synth.Planets[0].Period {
		t.Error("planet block did not survive the round trip")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("ttv-pair")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Synth.Planets) != 2 {
		t.Errorf("ttv-pair should inject two planets, got %d", len(cfg.Synth.Planets))
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("list should name every preset")
	}
}
