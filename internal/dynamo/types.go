package dynamo

import (
	"fmt"
	"math"
)

// Command is the horizontal movement direction written by the input layer.
type Command int8

const (
	Left    Command = -1
	Neutral Command = 0
	Right   Command = 1
)

// Clamp restricts c to {-1, 0, +1} preserving sign.
func (c Command) Clamp() Command {
	switch {
	case c > 0:
		return Right
	case c < 0:
		return Left
	}
	return Neutral
}

func (c Command) String() string {
	switch c.Clamp() {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "idle"
}

// Snapshot is a value copy of the body state taken between ticks.
type Snapshot struct {
	Theta     float64 // rad, 0 = upright
	ThetaDot  float64 // rad/s
	X         float64 // m
	XVelocity float64 // m/s
	Elapsed   float64 // s
	Tipped    bool

	// Torque is the corrective torque applied during the last tick.
	Torque  float64
	Command Command
}

// ThetaDeg returns the body angle in degrees.
func (s Snapshot) ThetaDeg() float64 {
	return s.Theta * 180 / math.Pi
}

func (s Snapshot) IsValid() bool {
	for _, v := range []float64{s.Theta, s.ThetaDot, s.X, s.XVelocity, s.Elapsed, s.Torque} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s Snapshot) String() string {
	return fmt.Sprintf("t=%.3fs theta=%.2f° omega=%.3f x=%.3f tipped=%v", s.Elapsed, s.ThetaDeg(), s.ThetaDot, s.X, s.Tipped)
}

// Stepper advances a body by exactly one fixed tick per Step call.
type Stepper interface {
	Step()
	Snapshot() Snapshot
	SetCommand(c Command)
}

// Hamiltonian is implemented by steppers that can report mechanical energy.
type Hamiltonian interface {
	Energy(s Snapshot) float64
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnStep(s Snapshot) { f(s) }

type Config struct {
	Duration      float64
	StopOnTip     bool
	RecordEvery   int
	ValidateState bool
	Schedule      Schedule
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		StopOnTip:     true,
		RecordEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Samples    []Snapshot
	Final      Snapshot
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Tipped reports whether the run ended in the terminal state.
func (r *Result) Tipped() bool {
	return r.Final.Tipped
}

// Series extracts one field from every recorded sample.
func (r *Result) Series(field func(Snapshot) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = field(s)
	}
	return out
}
