package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Factory builds the stepper and metrics for run idx of an ensemble. Each
// call must return fresh instances.
type Factory func(idx int) (Stepper, []Metric, error)

type Ensemble struct {
	factory Factory
	dt      float64
	numRuns int
	workers int
}

func NewEnsemble(factory Factory, dt float64, numRuns int) *Ensemble {
	return &Ensemble{
		factory: factory,
		dt:      dt,
		numRuns: numRuns,
		workers: runtime.NumCPU(),
	}
}

// SetWorkers caps the number of runs in flight.
func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// Run executes all runs and returns results indexed by run. The first error
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			stepper, metrics, err := e.factory(idx)
			if err != nil {
				return err
			}

			s := New(stepper, e.dt)
			for _, m := range metrics {
				s.AddMetric(m)
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
