package physics

import (
	"fmt"
	"math"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

// Params holds the immutable physical configuration of a body.
type Params struct {
	Mass    float64 // kg
	Length  float64 // pivot to centre of mass, m
	Gravity float64 // m/s^2
	Dt      float64 // s

	// TipAngle is the tipping threshold in radians.
	TipAngle float64

	// MaxTorque clamps the corrective torque to ±MaxTorque. Zero disables it.
	MaxTorque float64

	// MoveSpeed is the horizontal speed for a unit command, m/s.
	MoveSpeed float64

	// TorqueEffect is the reaction torque per unit command when no
	// controller is active, N*m.
	TorqueEffect float64
}

func DefaultParams() Params {
	return Params{
		Mass:         1.0,
		Length:       1.5,
		Gravity:      9.81,
		Dt:           0.01,
		TipAngle:     math.Pi / 2,
		MaxTorque:    0,
		MoveSpeed:    1.0,
		TorqueEffect: 5.0,
	}
}

// Inertia is the moment of inertia of a uniform rod about its end.
func (p Params) Inertia() float64 {
	return p.Mass * p.Length * p.Length / 3
}

// Validate rejects configurations that cannot be integrated.
func (p Params) Validate() error {
	fields := map[string]float64{
		"mass":          p.Mass,
		"length":        p.Length,
		"gravity":       p.Gravity,
		"dt":            p.Dt,
		"tip_angle":     p.TipAngle,
		"max_torque":    p.MaxTorque,
		"move_speed":    p.MoveSpeed,
		"torque_effect": p.TorqueEffect,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", dynamo.ErrParameterBounds, name)
		}
	}

	switch {
	case p.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrParameterBounds, p.Mass)
	case p.Length <= 0:
		return fmt.Errorf("%w: length must be positive, got %g", dynamo.ErrParameterBounds, p.Length)
	case p.Dt < 0:
		return fmt.Errorf("%w: dt must not be negative, got %g", dynamo.ErrParameterBounds, p.Dt)
	case p.TipAngle <= 0:
		return fmt.Errorf("%w: tip angle must be positive, got %g", dynamo.ErrParameterBounds, p.TipAngle)
	case p.MaxTorque < 0:
		return fmt.Errorf("%w: max torque must not be negative, got %g", dynamo.ErrParameterBounds, p.MaxTorque)
	}
	return nil
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":          p.Mass,
		"length":        p.Length,
		"gravity":       p.Gravity,
		"dt":            p.Dt,
		"tip_angle":     p.TipAngle,
		"max_torque":    p.MaxTorque,
		"move_speed":    p.MoveSpeed,
		"torque_effect": p.TorqueEffect,
	}
}
