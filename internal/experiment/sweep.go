package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/LuckySan/controlling-fun/internal/config"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

type SweepResult struct {
	InitialDeg float64
	Tipped     bool
	TipTime    float64
	FinalDeg   float64
	Metrics    map[string]float64
}

// Angles spaces n initial angles evenly over [from, to].
func Angles(from, to float64, n int) []float64 {
	if n <= 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Sweep runs one independent body per initial angle in parallel. Each run
// owns its own controller state.
func Sweep(ctx context.Context, cfg *config.Config, anglesDeg []float64, workers int, logger *zap.Logger) ([]SweepResult, error) {
	if len(anglesDeg) == 0 {
		return nil, fmt.Errorf("sweep: %w", dynamo.ErrNoData)
	}

	runCfg, err := RunConfig(cfg)
	if err != nil {
		return nil, err
	}

	e := New(cfg, logger)
	factory := func(idx int) (dynamo.Stepper, []dynamo.Metric, error) {
		body, err := e.buildBody(anglesDeg[idx], e.logger.With(zap.Int("run", idx)))
		if err != nil {
			return nil, nil, err
		}
		return body, e.registry.DefaultMetrics(body), nil
	}

	ens := dynamo.NewEnsemble(factory, cfg.Sim.Dt, len(anglesDeg))
	ens.SetWorkers(workers)

	results, err := ens.Run(ctx, runCfg)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, r := range results {
		out[i] = SweepResult{
			InitialDeg: anglesDeg[i],
			Tipped:     r.Tipped(),
			FinalDeg:   r.Final.ThetaDeg(),
			Metrics:    r.Metrics,
		}
		if r.Tipped() {
			out[i].TipTime = r.Final.Elapsed
		}
	}
	return out, nil
}
