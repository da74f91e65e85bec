package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

// ramp leans a fixed amount per tick and tips past tipAt.
type ramp struct {
	dt       float64
	lean     float64
	tipAt    float64
	state    Snapshot
	commands []Command
}

func (r *ramp) Step() {
	if r.state.Tipped {
		return
	}
	r.commands = append(r.commands, r.state.Command)
	r.state.Theta += r.lean
	r.state.X += float64(r.state.Command) * r.dt
	r.state.Elapsed += r.dt
	if r.tipAt > 0 && math.Abs(r.state.Theta) > r.tipAt {
		r.state.Tipped = true
	}
}

func (r *ramp) Snapshot() Snapshot        { return r.state }
func (r *ramp) SetCommand(c Command)      { r.state.Command = c.Clamp() }
func (r *ramp) Energy(s Snapshot) float64 { return s.Theta }

type counter struct{ n int }

func (c *counter) Name() string       { return "count" }
func (c *counter) Observe(s Snapshot) { c.n++ }
func (c *counter) Value() float64     { return float64(c.n) }
func (c *counter) Reset()             { c.n = 0 }

func TestSimulatorRun(t *testing.T) {
	r := &ramp{dt: 0.1, lean: 0.01}
	sim := New(r, 0.1)
	sim.AddMetric(&counter{})

	cfg := DefaultConfig()
	cfg.Duration = 1.0

	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.Metrics["count"] != 10 {
		t.Errorf("expected metric to observe 10 ticks, got %f", result.Metrics["count"])
	}
	if math.Abs(result.Final.Elapsed-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", result.Final.Elapsed)
	}
	if result.Tipped() {
		t.Error("did not expect a tip")
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	r := &ramp{dt: 0.01, lean: 0.001}
	sim := New(r, 0.01)

	cfg := DefaultConfig()
	cfg.Duration = 1.0
	cfg.RecordEvery = 10

	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
}

func TestSimulatorStopOnTip(t *testing.T) {
	tests := []struct {
		name      string
		stopOnTip bool
		steps     int
	}{
		{"stop", true, 5},
		{"continue", false, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ramp{dt: 0.1, lean: 0.1, tipAt: 0.45}
			sim := New(r, 0.1)

			cfg := DefaultConfig()
			cfg.Duration = 2.0
			cfg.StopOnTip = tt.stopOnTip

			result, err := sim.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if result.StepsTaken != tt.steps {
				t.Errorf("expected %d steps, got %d", tt.steps, result.StepsTaken)
			}
			if !result.Tipped() {
				t.Error("expected tipped result")
			}
			if math.Abs(result.Final.Theta-0.5) > 1e-9 {
				t.Errorf("expected frozen angle 0.5, got %f", result.Final.Theta)
			}
		})
	}
}

func TestSimulatorSchedule(t *testing.T) {
	r := &ramp{dt: 0.5}
	sim := New(r, 0.5)

	sched, err := ParseSchedule("right:1,idle:0.5,left:1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Duration = 3.0
	cfg.Schedule = sched

	if _, err := sim.Run(context.Background(), cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []Command{Right, Right, Neutral, Left, Left, Neutral}
	if len(r.commands) != len(want) {
		t.Fatalf("expected %d ticks, got %d", len(want), len(r.commands))
	}
	for i, c := range want {
		if r.commands[i] != c {
			t.Errorf("tick %d: expected %s, got %s", i, c, r.commands[i])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		dt       float64
		duration float64
	}{
		{"zero dt", 0, 1},
		{"negative duration", 0.1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := New(&ramp{}, tt.dt)
			cfg := DefaultConfig()
			cfg.Duration = tt.duration

			_, err := sim.Run(context.Background(), cfg)
			if !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	r := &ramp{dt: 0.1, lean: math.NaN()}
	sim := New(r, 0.1)

	result, err := sim.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}

	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("expected SimulationError, got %T", result.Errors[0])
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Error("expected wrapped ErrInvalidState")
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(&ramp{dt: 0.1}, 0.1)
	result, err := sim.Run(ctx, DefaultConfig())

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Error("expected empty partial result")
	}
}

func TestResultSeries(t *testing.T) {
	r := &Result{Samples: []Snapshot{{Theta: 1}, {Theta: 2}}}
	got := r.Series(func(s Snapshot) float64 { return s.Theta })
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("unexpected series %v", got)
	}
}
