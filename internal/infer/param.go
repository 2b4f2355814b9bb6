// Package infer fits transit models to photometry: it defines priors
// over physical parameters, composes them with an orbit-plus-light-curve
// predictor into a log posterior, finds the maximum a posteriori point by
// optimization, and draws posterior samples with an affine-invariant
// ensemble sampler.
package infer

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Prior is a one-dimensional prior density. The distuv distributions
// satisfy it directly.
type Prior interface {
	LogProb(x float64) float64
	Rand() float64
	Mean() float64
}

// Param is one free parameter of a model.
type Param struct {
	Name  string
	Prior Prior
}

// NormalPrior is a Gaussian prior.
func NormalPrior(mu, sigma float64, src rand.Source) Prior {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
}

// UniformPrior is a flat prior on [lo, hi].
func UniformPrior(lo, hi float64, src rand.Source) Prior {
	return distuv.Uniform{Min: lo, Max: hi, Src: src}
}

// LogNormalPrior is log-normal with the location given in log space.
func LogNormalPrior(logMu, sigma float64, src rand.Source) Prior {
	return distuv.LogNormal{Mu: logMu, Sigma: sigma, Src: src}
}

// PriorSpec is the serializable form of a prior used by run configs.
type PriorSpec struct {
	Dist  string  `yaml:"dist"`
	Mu    float64 `yaml:"mu,omitempty"`
	Sigma float64 `yaml:"sigma,omitempty"`
	Min   float64 `yaml:"min,omitempty"`
	Max   float64 `yaml:"max,omitempty"`
}

// Build constructs the described prior.
func (s PriorSpec) Build(src rand.Source) (Prior, error) {
	switch s.Dist {
	case "normal":
		if s.Sigma <= 0 {
			return nil, fmt.Errorf("infer: normal prior needs sigma > 0, got %g", s.Sigma)
		}
		return NormalPrior(s.Mu, s.Sigma, src), nil
	case "uniform":
		if s.Max <= s.Min {
			return nil, fmt.Errorf("infer: uniform prior needs max > min, got [%g, %g]", s.Min, s.Max)
		}
		return UniformPrior(s.Min, s.Max, src), nil
	case "lognormal":
		if s.Sigma <= 0 {
			return nil, fmt.Errorf("infer: lognormal prior needs sigma > 0, got %g", s.Sigma)
		}
		return LogNormalPrior(s.Mu, s.Sigma, src), nil
	default:
		return nil, fmt.Errorf("infer: unknown prior %q", s.Dist)
	}
}
