package config

import "github.com/TylerFair/jaxoplanet/internal/dataset"

var Presets = map[string]*Config{
	"hot-jupiter": {
		DataDir: "runs",
		Synth: SynthBlock{
			End: 30, Cadence: "10 min", NoiseSD: 3e-4,
			LimbDark: []float64{0.4, 0.25},
			Planets: []dataset.PlanetTruth{
				{Period: 3.5, T0: 1, Duration: 0.12, ImpactParam: 0.2, RadiusRatio: 0.12},
			},
		},
		Fit:     FitBlock{TimingSigma: "30 min", MaxEvals: DefaultMaxEvals},
		Sampler: SamplerBlock{Steps: DefaultSteps, Burn: DefaultBurn},
	},
	"ttv-pair": {
		DataDir: "runs",
		Synth: SynthBlock{
			End: 90, Cadence: "30 min", NoiseSD: 5e-4,
			LimbDark: []float64{0.3, 0.2},
			Planets: []dataset.PlanetTruth{
				{Period: 12, T0: 2, Duration: 0.2, ImpactParam: 0.3, RadiusRatio: 0.1, TTVAmp: 0.01, TTVPeriod: 120},
				{Period: 18.2, T0: 7, Duration: 0.25, ImpactParam: 0.4, RadiusRatio: 0.08, TTVAmp: 0.015, TTVPeriod: 120, TTVPhase: 1.6},
			},
		},
		Fit:     FitBlock{TimingSigma: "1.2 h", MaxEvals: 40000},
		Sampler: SamplerBlock{Steps: 4000, Burn: 1000},
	},
	"grazing": {
		DataDir: "runs",
		Synth: SynthBlock{
			End: 45, Cadence: "15 min", NoiseSD: 4e-4,
			LimbDark: []float64{0.35, 0.22},
			Planets: []dataset.PlanetTruth{
				{Period: 9, T0: 3, Duration: 0.15, ImpactParam: 0.85, RadiusRatio: 0.09, TTVAmp: 0.006, TTVPeriod: 80},
			},
		},
		Fit:     FitBlock{TimingSigma: "1.2 h", FitLimbDark: true, MaxEvals: DefaultMaxEvals},
		Sampler: SamplerBlock{Steps: DefaultSteps, Burn: DefaultBurn},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
