package physics

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/LuckySan/controlling-fun/internal/control"
	"github.com/LuckySan/controlling-fun/internal/dynamo"
	"github.com/LuckySan/controlling-fun/internal/integrators"
)

// Phase is the tipping state of a body.
type Phase uint8

const (
	Running Phase = iota
	Tipped
)

func (p Phase) String() string {
	if p == Tipped {
		return "tipped"
	}
	return "running"
}

// TipEvent describes the tick on which the body tipped over.
type TipEvent struct {
	Time  float64 // elapsed seconds at the end of the tipping tick
	Angle float64 // rad
}

func (e TipEvent) AngleDeg() float64 {
	return e.Angle * 180 / math.Pi
}

// TipReporter receives the one-time tip notification.
type TipReporter interface {
	ReportTip(e TipEvent)
}

// TipFunc adapts a function to TipReporter.
type TipFunc func(e TipEvent)

func (f TipFunc) ReportTip(e TipEvent) { f(e) }

type Option func(*Body)

func WithInitialAngle(theta float64) Option {
	return func(b *Body) { b.theta = theta }
}

func WithInitialRate(omega float64) Option {
	return func(b *Body) { b.thetaDot = omega }
}

func WithScheme(s integrators.Scheme) Option {
	return func(b *Body) {
		if s != nil {
			b.scheme = s
		}
	}
}

func WithTipReporter(r TipReporter) Option {
	return func(b *Body) { b.reporter = r }
}

// Body is a rigid rod pivoting on a wheel. It is owned by a single tick loop;
// only SetCommand may be called from other goroutines.
type Body struct {
	params   Params
	inertia  float64
	ctrl     control.Controller
	scheme   integrators.Scheme
	reporter TipReporter

	command atomic.Int32

	theta    float64
	thetaDot float64
	x        float64
	xVel     float64
	elapsed  float64
	torque   float64
	lastCmd  dynamo.Command
	phase    Phase
}

// New builds a body in the Running phase. A nil controller selects the
// command-driven corrective torque.
func New(p Params, ctrl control.Controller, opts ...Option) (*Body, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := &Body{
		params:  p,
		inertia: p.Inertia(),
		ctrl:    ctrl,
		scheme:  integrators.NewSemiImplicitEuler(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.inertia <= 0 {
		return nil, fmt.Errorf("%w: inertia must be positive, got %g", dynamo.ErrParameterBounds, b.inertia)
	}
	if math.IsNaN(b.theta) || math.IsInf(b.theta, 0) || math.IsNaN(b.thetaDot) || math.IsInf(b.thetaDot, 0) {
		return nil, fmt.Errorf("%w: initial state", dynamo.ErrInvalidState)
	}
	return b, nil
}

// SetCommand latches the horizontal direction for the next tick.
func (b *Body) SetCommand(c dynamo.Command) {
	b.command.Store(int32(c.Clamp()))
}

// Step advances one tick. It is a no-op once tipped.
func (b *Body) Step() {
	if b.phase == Tipped {
		return
	}

	p := b.params
	dt := p.Dt
	cmd := dynamo.Command(b.command.Load())

	tauGravity := p.Mass * p.Gravity * p.Length * math.Sin(b.theta)
	tauCorrective := b.correctiveTorque(cmd, dt)
	alpha := (tauGravity + tauCorrective) / b.inertia

	b.theta, b.thetaDot = b.scheme.Advance(b.theta, b.thetaDot, alpha, dt)

	b.xVel = float64(cmd) * p.MoveSpeed
	b.x += b.xVel * dt

	b.torque = tauCorrective
	b.lastCmd = cmd

	tipped := math.Abs(b.theta) > p.TipAngle
	b.elapsed += dt

	if tipped {
		b.phase = Tipped
		if b.reporter != nil {
			b.reporter.ReportTip(TipEvent{Time: b.elapsed, Angle: b.theta})
		}
	}
}

func (b *Body) correctiveTorque(cmd dynamo.Command, dt float64) float64 {
	var tau float64
	if b.ctrl != nil {
		tau = b.ctrl.ControlTorque(b.theta, dt)
	} else {
		tau = float64(cmd) * b.params.TorqueEffect
	}

	if limit := b.params.MaxTorque; limit > 0 && math.Abs(tau) > limit {
		tau = math.Copysign(limit, tau)
	}
	return tau
}

func (b *Body) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Theta:     b.theta,
		ThetaDot:  b.thetaDot,
		X:         b.x,
		XVelocity: b.xVel,
		Elapsed:   b.elapsed,
		Tipped:    b.phase == Tipped,
		Torque:    b.torque,
		Command:   b.lastCmd,
	}
}

func (b *Body) Phase() Phase   { return b.phase }
func (b *Body) Tipped() bool   { return b.phase == Tipped }
func (b *Body) Params() Params { return b.params }

// Controller returns the active controller, nil in command-driven mode.
func (b *Body) Controller() control.Controller { return b.ctrl }

// Energy returns rotational kinetic plus gravitational potential energy with
// the pivot as reference. It is conserved while no corrective torque acts.
func (b *Body) Energy(s dynamo.Snapshot) float64 {
	p := b.params
	ke := 0.5 * b.inertia * s.ThetaDot * s.ThetaDot
	pe := p.Mass * p.Gravity * p.Length * math.Cos(s.Theta)
	return ke + pe
}
