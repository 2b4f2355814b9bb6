package infer

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// MAPResult is the maximum a posteriori point.
type MAPResult struct {
	Point   map[string]float64
	Theta   []float64
	LogProb float64
	Evals   int
}

// MAPConfig bounds the optimization.
type MAPConfig struct {
	MaxEvals int // 0 means the default budget
	Start    []float64
}

// MAP maximizes the log posterior with Nelder-Mead starting from the
// prior means (or cfg.Start). Cancelling the context stops the search.
func MAP(ctx context.Context, m *Model, cfg MAPConfig) (*MAPResult, error) {
	start := cfg.Start
	if start == nil {
		start = m.PriorMeans()
	}
	if len(start) != m.Dim() {
		return nil, fmt.Errorf("infer: start point has %d values for %d parameters", len(start), m.Dim())
	}
	if lp := m.LogPosterior(start); math.IsInf(lp, -1) {
		return nil, fmt.Errorf("infer: start point has zero posterior density")
	}

	maxEvals := cfg.MaxEvals
	if maxEvals <= 0 {
		maxEvals = 20000
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if ctx.Err() != nil {
				return math.Inf(1)
			}
			return -m.LogPosterior(x)
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 200,
		},
	}

	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	// a budget-exhaustion error still leaves the best point found
	if result == nil || math.IsInf(result.F, 1) || math.IsNaN(result.F) {
		if err != nil {
			return nil, fmt.Errorf("infer: optimization failed: %w", err)
		}
		return nil, fmt.Errorf("infer: optimization produced no finite optimum")
	}

	out := &MAPResult{
		Theta:   append([]float64(nil), result.X...),
		LogProb: -result.F,
		Evals:   result.FuncEvaluations,
		Point:   make(map[string]float64, m.Dim()),
	}
	for i, name := range m.Names() {
		out.Point[name] = result.X[i]
	}
	return out, nil
}
