// Package physics implements the wheel-pivoted rigid body and its tipping
// state machine.
//
// A [Body] owns the angular and horizontal state. Each [Body.Step] applies
// gravity and a corrective torque, integrates one fixed tick and checks the
// tip threshold:
//
//	body, err := physics.New(physics.DefaultParams(), control.NewPID(800, 50, 10),
//	    physics.WithInitialAngle(0.5))
//	for !body.Tipped() {
//	    body.Step()
//	}
//
// The body moves from [Running] to [Tipped] once |theta| exceeds the
// threshold and never leaves it. Without a controller the corrective torque
// comes from the latched horizontal command scaled by [Params.TorqueEffect].
package physics
