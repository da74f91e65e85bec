package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	stepper   Stepper
	dt        float64
	metrics   []Metric
	observers []Observer
}

func New(stepper Stepper, dt float64) *Simulator {
	return &Simulator{
		stepper:   stepper,
		dt:        dt,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run ticks the stepper until the duration elapses, the body tips (when
// StopOnTip is set) or ctx is done. The partial result is returned with the
// context error on cancellation.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := int(math.Round(cfg.Duration / s.dt))
	result := &Result{
		Samples: make([]Snapshot, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	snap := s.stepper.Snapshot()
	result.Samples = append(result.Samples, snap)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, snap)
			return result, ctx.Err()
		default:
		}

		if len(cfg.Schedule) > 0 {
			s.stepper.SetCommand(cfg.Schedule.At(snap.Elapsed))
		}

		s.stepper.Step()
		snap = s.stepper.Snapshot()
		result.StepsTaken++

		if cfg.ValidateState && !snap.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{
				Step:    i,
				Time:    snap.Elapsed,
				State:   snap,
				Wrapped: ErrInvalidState,
			})
			break
		}

		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		if (i+1)%every == 0 || snap.Tipped {
			result.Samples = append(result.Samples, snap)
		}

		if snap.Tipped && cfg.StopOnTip {
			break
		}
	}

	s.finish(result, snap)
	return result, nil
}

func (s *Simulator) finish(result *Result, last Snapshot) {
	result.Final = last
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, s.dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrParameterBounds, cfg.Duration)
	}
	return nil
}
