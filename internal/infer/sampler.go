package infer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/TylerFair/jaxoplanet/internal/trace"
)

// SamplerConfig tunes the affine-invariant ensemble sampler.
type SamplerConfig struct {
	Walkers int     // default 2*dim, at least 6, always even
	Steps   int     // post-burn steps per walker
	Burn    int     // discarded leading steps per walker
	Stretch float64 // stretch-move scale, default 2
	Spread  float64 // relative size of the initial walker ball, default 1e-4
	Workers int     // parallel posterior evaluations, default NumCPU
	Seed    uint64
	Logger  zerolog.Logger
	// OnStep, when set, observes sampler progress after every step.
	OnStep func(step, total int, logProb []float64, acceptance float64)
}

func (c *SamplerConfig) setDefaults(dim int) error {
	if c.Steps <= 0 {
		return fmt.Errorf("infer: sampler needs a positive step count")
	}
	if c.Walkers == 0 {
		c.Walkers = 2 * dim
	}
	if c.Walkers < 6 {
		c.Walkers = 6
	}
	if c.Walkers%2 == 1 {
		c.Walkers++
	}
	if c.Stretch <= 1 {
		c.Stretch = 2
	}
	if c.Spread <= 0 {
		c.Spread = 1e-4
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Burn < 0 {
		c.Burn = 0
	}
	return nil
}

// Sample draws from the posterior with the Goodman-Weare stretch move.
// Walkers start in a small ball around start; each half of the ensemble
// is updated against the other with posterior evaluations fanned out
// over a worker pool. The returned trace holds the post-burn draws of
// every walker in step order.
func Sample(ctx context.Context, m *Model, start []float64, cfg SamplerConfig) (*trace.Trace, error) {
	if len(start) != m.Dim() {
		return nil, fmt.Errorf("infer: start point has %d values for %d parameters", len(start), m.Dim())
	}
	if err := cfg.setDefaults(m.Dim()); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	dim := m.Dim()
	nw := cfg.Walkers

	// initial ball, re-drawn per walker until the posterior is finite
	pos := make([][]float64, nw)
	logP := make([]float64, nw)
	for w := 0; w < nw; w++ {
		ok := false
		for attempt := 0; attempt < 100; attempt++ {
			x := make([]float64, dim)
			for j := range x {
				scale := math.Abs(start[j])
				if scale == 0 {
					scale = 1
				}
				x[j] = start[j] + cfg.Spread*scale*rng.NormFloat64()
			}
			if lp := m.LogPosterior(x); !math.IsInf(lp, -1) {
				pos[w], logP[w] = x, lp
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("infer: could not initialize walker %d near the start point", w)
		}
	}

	tr := trace.New(m.Names())
	total := cfg.Burn + cfg.Steps
	accepted, proposed := 0, 0

	type proposal struct {
		walker int
		y      []float64
		z      float64
		u      float64
	}
	evalHalf := func(props []proposal) error {
		jobs := make(chan int)
		results := make([]float64, len(props))
		var wg sync.WaitGroup
		for k := 0; k < cfg.Workers; k++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = m.LogPosterior(props[i].y)
				}
			}()
		}
		for i := range props {
			select {
			case <-ctx.Done():
				close(jobs)
				wg.Wait()
				return ctx.Err()
			case jobs <- i:
			}
		}
		close(jobs)
		wg.Wait()

		for i, p := range props {
			proposed++
			dlp := results[i] - logP[p.walker] + float64(dim-1)*math.Log(p.z)
			if math.Log(p.u) < dlp {
				pos[p.walker] = p.y
				logP[p.walker] = results[i]
				accepted++
			}
		}
		return nil
	}

	half := nw / 2
	for step := 0; step < total; step++ {
		for _, bounds := range [][2]int{{0, half}, {half, nw}} {
			lo, hi := bounds[0], bounds[1]
			clo, chi := half, nw
			if lo == half {
				clo, chi = 0, half
			}

			props := make([]proposal, 0, hi-lo)
			for w := lo; w < hi; w++ {
				// z ~ g(z) with g proportional to 1/sqrt(z) on [1/a, a]
				a := cfg.Stretch
				z := (rng.Float64()*(math.Sqrt(a)-1/math.Sqrt(a)) + 1/math.Sqrt(a))
				z *= z
				c := pos[clo+rng.Intn(chi-clo)]
				y := make([]float64, dim)
				for j := range y {
					y[j] = c[j] + z*(pos[w][j]-c[j])
				}
				props = append(props, proposal{walker: w, y: y, z: z, u: rng.Float64()})
			}
			if err := evalHalf(props); err != nil {
				return nil, err
			}
		}

		if step >= cfg.Burn {
			for w := 0; w < nw; w++ {
				if err := tr.Append(pos[w], logP[w]); err != nil {
					return nil, err
				}
			}
		}
		acc := float64(accepted) / float64(proposed)
		if cfg.OnStep != nil {
			cfg.OnStep(step+1, total, append([]float64(nil), logP...), acc)
		}
		if (step+1)%100 == 0 {
			cfg.Logger.Debug().
				Int("step", step+1).
				Int("total", total).
				Float64("acceptance", acc).
				Msg("sampling")
		}
	}

	tr.SetAcceptance(float64(accepted) / float64(proposed))
	return tr, nil
}
