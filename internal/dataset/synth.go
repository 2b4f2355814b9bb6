package dataset

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/TylerFair/jaxoplanet/internal/lightcurve"
	"github.com/TylerFair/jaxoplanet/internal/orbit"
)

// PlanetTruth is one injected planet: a linear ephemeris plus a
// sinusoidal timing perturbation and the transit shape.
type PlanetTruth struct {
	Period      float64 `json:"period" yaml:"period"`
	T0          float64 `json:"t0" yaml:"t0"`
	Duration    float64 `json:"duration" yaml:"duration"`
	ImpactParam float64 `json:"impact_param" yaml:"impact_param"`
	RadiusRatio float64 `json:"radius_ratio" yaml:"radius_ratio"`

	TTVAmp    float64 `json:"ttv_amp" yaml:"ttv_amp"`
	TTVPeriod float64 `json:"ttv_period" yaml:"ttv_period"`
	TTVPhase  float64 `json:"ttv_phase" yaml:"ttv_phase"`
}

// TransitTimes evaluates the perturbed transit times inside [minT, maxT].
func (p PlanetTruth) TransitTimes(minT, maxT float64) ([]float64, []int) {
	eph := orbit.Ephemeris{T0: p.T0, Period: p.Period}
	linear := orbit.ExpectedTransitTimes(minT, maxT, []orbit.Ephemeris{eph})[0]
	nMin := int(math.Ceil((minT - p.T0) / p.Period))

	times := make([]float64, len(linear))
	inds := make([]int, len(linear))
	for i, lt := range linear {
		n := nMin + i
		dt := 0.0
		if p.TTVAmp != 0 && p.TTVPeriod != 0 {
			dt = p.TTVAmp * math.Sin(2*math.Pi*float64(n)*p.Period/p.TTVPeriod+p.TTVPhase)
		}
		times[i] = lt + dt
		inds[i] = n
	}
	return times, inds
}

// SynthConfig drives synthetic data generation.
type SynthConfig struct {
	Start    float64
	End      float64
	Cadence  float64
	NoiseSD  float64
	Seed     uint64
	LimbDark []float64
	Planets  []PlanetTruth
}

// Truth records everything that was injected, for later comparison with
// the fit.
type Truth struct {
	Planets      []PlanetTruth `json:"planets"`
	LimbDark     []float64     `json:"limb_dark"`
	NoiseSD      float64       `json:"noise_sd"`
	TransitTimes [][]float64   `json:"transit_times"`
	TransitInds  [][]int       `json:"transit_inds"`
}

// Synthesize builds a TTV orbit from the perturbed transit times,
// evaluates its light curve on a regular cadence, and adds Gaussian
// noise.
func Synthesize(cfg SynthConfig) (*Dataset, *Truth, error) {
	if len(cfg.Planets) == 0 {
		return nil, nil, fmt.Errorf("dataset: no planets to inject")
	}
	if cfg.Cadence <= 0 || cfg.End <= cfg.Start {
		return nil, nil, fmt.Errorf("dataset: bad window [%g, %g] cadence %g", cfg.Start, cfg.End, cfg.Cadence)
	}
	// zero noise would store zero flux uncertainties, which no likelihood
	// can use
	if cfg.NoiseSD <= 0 {
		return nil, nil, fmt.Errorf("dataset: noise sd %g must be positive", cfg.NoiseSD)
	}

	truth := &Truth{
		Planets:      cfg.Planets,
		LimbDark:     cfg.LimbDark,
		NoiseSD:      cfg.NoiseSD,
		TransitTimes: make([][]float64, len(cfg.Planets)),
		TransitInds:  make([][]int, len(cfg.Planets)),
	}
	ttvPlanets := make([]orbit.TTVPlanet, len(cfg.Planets))
	for i, p := range cfg.Planets {
		times, inds := p.TransitTimes(cfg.Start, cfg.End)
		if len(times) < 2 {
			return nil, nil, fmt.Errorf("dataset: planet %d has %d transits in window, need at least 2", i, len(times))
		}
		truth.TransitTimes[i] = times
		truth.TransitInds[i] = inds
		ttvPlanets[i] = orbit.TTVPlanet{
			TransitTimes: times,
			TransitInds:  inds,
			Duration:     p.Duration,
			ImpactParam:  p.ImpactParam,
			RadiusRatio:  p.RadiusRatio,
		}
	}

	orb, err := orbit.NewTTV(ttvPlanets...)
	if err != nil {
		return nil, nil, err
	}
	ev, err := lightcurve.LimbDark(orb, cfg.LimbDark)
	if err != nil {
		return nil, nil, err
	}

	n := int((cfg.End-cfg.Start)/cfg.Cadence) + 1
	ds := &Dataset{
		Time:    make([]float64, n),
		Flux:    make([]float64, n),
		FluxErr: make([]float64, n),
	}
	for i := range ds.Time {
		ds.Time[i] = cfg.Start + float64(i)*cfg.Cadence
	}

	model := ev.Sum(ds.Time)
	noise := distuv.Normal{Mu: 0, Sigma: cfg.NoiseSD, Src: rand.NewSource(cfg.Seed)}
	for i := range ds.Flux {
		ds.Flux[i] = model[i] + noise.Rand()
		ds.FluxErr[i] = cfg.NoiseSD
	}
	return ds, truth, nil
}
