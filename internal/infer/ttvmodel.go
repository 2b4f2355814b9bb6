package infer

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
	"github.com/TylerFair/jaxoplanet/internal/lightcurve"
	"github.com/TylerFair/jaxoplanet/internal/orbit"
)

// TTVGuess seeds the fit for one planet: estimated transit times and
// transit shape, typically from a box search or a previous fit.
type TTVGuess struct {
	TransitTimes []float64
	TransitInds  []int
	Duration     float64
	ImpactParam  float64
	RadiusRatio  float64
}

// TTVModelConfig builds the canonical TTV fitting model: free transit
// times per planet plus shape and limb-darkening parameters.
type TTVModelConfig struct {
	Planets []TTVGuess
	// TimingSigma is the Gaussian prior width on each transit time.
	TimingSigma float64
	// FitLimbDark adds u1, u2 as free parameters; otherwise the fixed
	// coefficients are used.
	FitLimbDark bool
	LimbDark    []float64
	Seed        uint64
	// PriorOverrides replaces the default prior of the named parameters.
	PriorOverrides map[string]PriorSpec
}

// NewTTVModel assembles the parameter set and predictor for a TTV fit.
// The parameter order is: all transit times planet by planet, then
// duration, impact parameter, and radius ratio per planet, then the
// limb-darkening coefficients when free.
func NewTTVModel(ds *dataset.Dataset, cfg TTVModelConfig) (*Model, error) {
	if len(cfg.Planets) == 0 {
		return nil, fmt.Errorf("infer: no planets in model config")
	}
	if cfg.TimingSigma <= 0 {
		return nil, fmt.Errorf("infer: timing sigma %g must be positive", cfg.TimingSigma)
	}

	src := rand.NewSource(cfg.Seed)
	var params []Param
	for i, p := range cfg.Planets {
		if len(p.TransitTimes) < 2 {
			return nil, fmt.Errorf("infer: planet %d needs at least 2 transit time guesses", i)
		}
		for j, tt := range p.TransitTimes {
			params = append(params, Param{
				Name:  fmt.Sprintf("tt[%d][%d]", i, j),
				Prior: NormalPrior(tt, cfg.TimingSigma, src),
			})
		}
	}
	for i, p := range cfg.Planets {
		if p.Duration <= 0 || p.RadiusRatio <= 0 {
			return nil, fmt.Errorf("infer: planet %d guess needs positive duration and radius ratio", i)
		}
		params = append(params,
			Param{Name: fmt.Sprintf("dur[%d]", i), Prior: LogNormalPrior(math.Log(p.Duration), 0.2, src)},
			Param{Name: fmt.Sprintf("b[%d]", i), Prior: UniformPrior(0, 1, src)},
			Param{Name: fmt.Sprintf("ror[%d]", i), Prior: LogNormalPrior(math.Log(p.RadiusRatio), 0.3, src)},
		)
	}
	if cfg.FitLimbDark {
		params = append(params,
			Param{Name: "u1", Prior: UniformPrior(0, 1, src)},
			Param{Name: "u2", Prior: UniformPrior(0, 1, src)},
		)
	}

	if len(cfg.PriorOverrides) > 0 {
		known := make(map[string]int, len(params))
		for i, p := range params {
			known[p.Name] = i
		}
		for name, spec := range cfg.PriorOverrides {
			i, ok := known[name]
			if !ok {
				return nil, fmt.Errorf("infer: prior override for unknown parameter %q", name)
			}
			prior, err := spec.Build(src)
			if err != nil {
				return nil, fmt.Errorf("infer: prior for %q: %w", name, err)
			}
			params[i].Prior = prior
		}
	}

	planets := cfg.Planets
	fixedU := append([]float64(nil), cfg.LimbDark...)
	fitU := cfg.FitLimbDark

	predict := func(theta []float64) ([]float64, error) {
		ttvPlanets := make([]orbit.TTVPlanet, len(planets))
		k := 0
		for i, p := range planets {
			times := make([]float64, len(p.TransitTimes))
			copy(times, theta[k:k+len(p.TransitTimes)])
			k += len(p.TransitTimes)
			ttvPlanets[i] = orbit.TTVPlanet{
				TransitTimes: times,
				TransitInds:  p.TransitInds,
			}
		}
		for i := range planets {
			ttvPlanets[i].Duration = theta[k]
			ttvPlanets[i].ImpactParam = theta[k+1]
			ttvPlanets[i].RadiusRatio = theta[k+2]
			k += 3
		}
		u := fixedU
		if fitU {
			u = theta[k : k+2]
		}

		orb, err := orbit.NewTTV(ttvPlanets...)
		if err != nil {
			return nil, err
		}
		ev, err := lightcurve.LimbDark(orb, u)
		if err != nil {
			return nil, err
		}
		return ev.Sum(ds.Time), nil
	}

	return NewModel(ds, params, predict)
}
