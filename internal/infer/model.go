package infer

import (
	"fmt"
	"math"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
)

// Predictor maps a parameter vector to model flux at the dataset times.
type Predictor func(theta []float64) ([]float64, error)

// Model couples a dataset, priors, and a predictor into a log posterior
// with a Gaussian likelihood.
type Model struct {
	ds      *dataset.Dataset
	params  []Param
	predict Predictor
}

// NewModel validates the pieces and returns the model.
func NewModel(ds *dataset.Dataset, params []Param, predict Predictor) (*Model, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if len(ds.FluxErr) == 0 {
		return nil, fmt.Errorf("infer: dataset has no flux uncertainties")
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("infer: no free parameters")
	}
	seen := map[string]bool{}
	for _, p := range params {
		if p.Name == "" || p.Prior == nil {
			return nil, fmt.Errorf("infer: parameter with empty name or nil prior")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("infer: duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
	}
	if predict == nil {
		return nil, fmt.Errorf("infer: nil predictor")
	}
	return &Model{ds: ds, params: params, predict: predict}, nil
}

func (m *Model) Dim() int { return len(m.params) }

func (m *Model) Names() []string {
	names := make([]string, len(m.params))
	for i, p := range m.params {
		names[i] = p.Name
	}
	return names
}

func (m *Model) Dataset() *dataset.Dataset { return m.ds }

// Predict evaluates the model flux at theta.
func (m *Model) Predict(theta []float64) ([]float64, error) {
	if len(theta) != len(m.params) {
		return nil, fmt.Errorf("infer: point has %d values for %d parameters", len(theta), len(m.params))
	}
	return m.predict(theta)
}

// PriorMeans is the default starting point for optimization.
func (m *Model) PriorMeans() []float64 {
	theta := make([]float64, len(m.params))
	for i, p := range m.params {
		theta[i] = p.Prior.Mean()
	}
	return theta
}

// PriorSample draws an independent point from the priors.
func (m *Model) PriorSample() []float64 {
	theta := make([]float64, len(m.params))
	for i, p := range m.params {
		theta[i] = p.Prior.Rand()
	}
	return theta
}

func (m *Model) LogPrior(theta []float64) float64 {
	lp := 0.0
	for i, p := range m.params {
		lp += p.Prior.LogProb(theta[i])
	}
	return lp
}

func (m *Model) LogLikelihood(theta []float64) float64 {
	pred, err := m.predict(theta)
	if err != nil {
		return math.Inf(-1)
	}
	if len(pred) != len(m.ds.Flux) {
		return math.Inf(-1)
	}
	ll := 0.0
	for i, f := range m.ds.Flux {
		sd := m.ds.FluxErr[i]
		if sd <= 0 {
			return math.Inf(-1)
		}
		r := (f - pred[i]) / sd
		ll += -0.5*r*r - math.Log(sd) - 0.5*math.Log(2*math.Pi)
	}
	return ll
}

// LogPosterior is the unnormalized posterior density. Points outside the
// prior support or that break the predictor score -Inf.
func (m *Model) LogPosterior(theta []float64) float64 {
	if len(theta) != len(m.params) {
		return math.Inf(-1)
	}
	lp := m.LogPrior(theta)
	if math.IsInf(lp, -1) || math.IsNaN(lp) {
		return math.Inf(-1)
	}
	ll := m.LogLikelihood(theta)
	if math.IsNaN(ll) {
		return math.Inf(-1)
	}
	return lp + ll
}
