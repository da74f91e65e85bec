package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/LuckySan/controlling-fun/internal/config"
	"github.com/LuckySan/controlling-fun/internal/control"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/observability"
	"github.com/LuckySan/controlling-fun/internal/physics"
	"github.com/LuckySan/controlling-fun/internal/storage"
)

type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	logger     *zap.Logger
	seed       int64
	randSource *rand.Rand

	initialDeg float64
	body       *physics.Body
	simulator  *dynamo.Simulator
}

// New prepares an experiment. A zero init.seed draws one from the clock; the
// seed actually used is reported by Seed.
func New(cfg *config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Init.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Experiment{
		cfg:        cfg,
		registry:   NewRegistry(),
		logger:     logger,
		seed:       seed,
		randSource: rand.New(rand.NewSource(seed)),
	}
}

func (e *Experiment) Seed() int64                  { return e.seed }
func (e *Experiment) Registry() *Registry          { return e.registry }
func (e *Experiment) Body() *physics.Body          { return e.body }
func (e *Experiment) Simulator() *dynamo.Simulator { return e.simulator }

// InitialAngleDeg is the starting angle of the body built by the last Setup
// or BuildBody call.
func (e *Experiment) InitialAngleDeg() float64 { return e.initialDeg }

// drawAngle returns init.theta_deg offset by a uniform draw in
// ±init.random_span_deg.
func (e *Experiment) drawAngle() float64 {
	deg := e.cfg.Init.ThetaDeg
	if span := e.cfg.Init.RandomSpanDeg; span > 0 {
		deg += (2*e.randSource.Float64() - 1) * span
	}
	return deg
}

// BuildBody constructs a fresh body and controller. Every call draws a new
// initial angle when a random span is configured.
func (e *Experiment) BuildBody(opts ...physics.Option) (*physics.Body, error) {
	deg := e.drawAngle()
	body, err := e.buildBody(deg, e.logger, opts...)
	if err != nil {
		return nil, err
	}
	e.initialDeg = deg
	return body, nil
}

func (e *Experiment) buildBody(angleDeg float64, logger *zap.Logger, opts ...physics.Option) (*physics.Body, error) {
	ctrl, err := e.registry.GetController(e.cfg.Controller)
	if err != nil {
		return nil, err
	}
	scheme, err := e.registry.GetIntegrator(e.cfg.Sim.Integrator)
	if err != nil {
		return nil, err
	}

	all := []physics.Option{
		physics.WithInitialAngle(angleDeg * math.Pi / 180),
		physics.WithInitialRate(e.cfg.Init.ThetaDot),
		physics.WithScheme(scheme),
		physics.WithTipReporter(observability.NewTipLogger(logger)),
	}
	return physics.New(e.cfg.Params(), ctrl, append(all, opts...)...)
}

// Setup builds the body and wires metrics and observers into a simulator.
func (e *Experiment) Setup(observers ...dynamo.Observer) error {
	body, err := e.BuildBody()
	if err != nil {
		return err
	}

	e.body = body
	e.simulator = dynamo.New(body, e.cfg.Sim.Dt)
	for _, m := range e.registry.DefaultMetrics(body) {
		e.simulator.AddMetric(m)
	}
	for _, o := range observers {
		e.simulator.AddObserver(o)
	}

	e.logger.Debug("experiment ready",
		zap.String("controller", e.cfg.Controller.Kind),
		zap.String("integrator", e.cfg.Sim.Integrator),
		zap.Float64("initial_deg", e.initialDeg),
		zap.Int64("seed", e.seed),
	)
	return nil
}

// RunConfig translates the sim section into a dynamo run configuration.
func RunConfig(cfg *config.Config) (dynamo.Config, error) {
	sched, err := dynamo.ParseSchedule(cfg.Sim.Schedule)
	if err != nil {
		return dynamo.Config{}, err
	}
	return dynamo.Config{
		Duration:      cfg.Sim.Duration,
		StopOnTip:     cfg.Sim.StopOnTip,
		RecordEvery:   cfg.Sim.RecordEvery,
		ValidateState: true,
		Schedule:      sched,
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	runCfg, err := RunConfig(e.cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := e.simulator.Run(ctx, runCfg)
	if err != nil {
		return result, err
	}

	e.logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Bool("tipped", result.Tipped()),
		zap.Float64("final_deg", result.Final.ThetaDeg()),
		zap.Duration("wall", time.Since(start)),
	)
	for _, err := range result.Errors {
		e.logger.Error("simulation stopped", zap.Error(err))
	}
	return result, nil
}

// Info describes the configured run for the run store.
func (e *Experiment) Info() storage.RunInfo {
	info := storage.RunInfo{
		Controller:      e.cfg.Controller.Kind,
		Integrator:      e.cfg.Sim.Integrator,
		Seed:            e.seed,
		Dt:              e.cfg.Sim.Dt,
		Duration:        e.cfg.Sim.Duration,
		InitialThetaDeg: e.initialDeg,
		Schedule:        e.cfg.Sim.Schedule,
		Params:          e.cfg.Params().GetParams(),
	}
	if e.body != nil {
		if t, ok := e.body.Controller().(control.Tunable); ok {
			info.Gains = t.GetParams()
		}
	}
	return info
}
