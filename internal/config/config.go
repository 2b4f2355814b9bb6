// Package config loads and saves the YAML run configuration used by the
// command line tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
	"github.com/TylerFair/jaxoplanet/internal/infer"
	"github.com/TylerFair/jaxoplanet/internal/units"
)

const (
	DefaultCadence     = "30 min"
	DefaultNoiseSD     = 5e-4
	DefaultTimingSigma = "1.2 h"
	DefaultMaxEvals    = 20000
	DefaultSteps       = 2000
	DefaultBurn        = 500
)

type Config struct {
	DataDir string       `yaml:"data_dir"`
	Synth   SynthBlock   `yaml:"synth"`
	Fit     FitBlock     `yaml:"fit"`
	Sampler SamplerBlock `yaml:"sampler"`
}

type SynthBlock struct {
	Start    float64               `yaml:"start"`
	End      float64               `yaml:"end"`
	Cadence  string                `yaml:"cadence"`
	NoiseSD  float64               `yaml:"noise_sd"`
	Seed     uint64                `yaml:"seed"`
	LimbDark []float64             `yaml:"limb_dark"`
	Planets  []dataset.PlanetTruth `yaml:"planets"`
}

type FitBlock struct {
	TimingSigma string                     `yaml:"timing_sigma"`
	FitLimbDark bool                       `yaml:"fit_limb_dark"`
	MaxEvals    int                        `yaml:"max_evals"`
	Seed        uint64                     `yaml:"seed"`
	Priors      map[string]infer.PriorSpec `yaml:"priors,omitempty"`
}

type SamplerBlock struct {
	Walkers int     `yaml:"walkers"`
	Steps   int     `yaml:"steps"`
	Burn    int     `yaml:"burn"`
	Stretch float64 `yaml:"stretch"`
	Workers int     `yaml:"workers"`
	Seed    uint64  `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: "runs",
		Synth: SynthBlock{
			Start:    0,
			End:      60,
			Cadence:  DefaultCadence,
			NoiseSD:  DefaultNoiseSD,
			LimbDark: []float64{0.3, 0.2},
			Planets: []dataset.PlanetTruth{
				{Period: 12, T0: 2, Duration: 0.2, ImpactParam: 0.3, RadiusRatio: 0.1, TTVAmp: 0.01, TTVPeriod: 120},
			},
		},
		Fit: FitBlock{
			TimingSigma: DefaultTimingSigma,
			MaxEvals:    DefaultMaxEvals,
		},
		Sampler: SamplerBlock{
			Steps: DefaultSteps,
			Burn:  DefaultBurn,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CadenceDays parses the cadence string, accepting any time unit. A
// bare number is read as days.
func (b SynthBlock) CadenceDays() (float64, error) {
	return parseDays(b.Cadence)
}

// TimingSigmaDays parses the transit-time prior width the same way.
func (b FitBlock) TimingSigmaDays() (float64, error) {
	return parseDays(b.TimingSigma)
}

func parseDays(s string) (float64, error) {
	q, err := units.Parse(s)
	if err != nil {
		return 0, err
	}
	if q.Unit().Dim.Equal(units.Dimensionless.Dim) {
		return q.Scalar(), nil
	}
	d, err := q.To(units.Day)
	if err != nil {
		return 0, fmt.Errorf("config: %q: %w", s, err)
	}
	return d.Scalar(), nil
}

// SynthConfig converts the block into the generator's configuration.
func (b SynthBlock) SynthConfig() (dataset.SynthConfig, error) {
	cadence, err := b.CadenceDays()
	if err != nil {
		return dataset.SynthConfig{}, err
	}
	return dataset.SynthConfig{
		Start:    b.Start,
		End:      b.End,
		Cadence:  cadence,
		NoiseSD:  b.NoiseSD,
		Seed:     b.Seed,
		LimbDark: b.LimbDark,
		Planets:  b.Planets,
	}, nil
}
