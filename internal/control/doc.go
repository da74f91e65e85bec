// Package control provides corrective torque controllers for the balancing
// body.
//
// Every controller implements [Controller], mapping the current body angle
// (and for stateful variants the tick size) to a torque about the wheel
// pivot. The goal angle is fixed at zero (upright):
//
//   - [Proportional]: torque from the angle error alone
//   - [PI]: adds an accumulated error integral
//   - [PID]: adds a finite-difference derivative of the error
//   - [Constant]: open-loop fixed torque, ignores the angle
//
// # Usage
//
//	pid := control.NewPID(control.DefaultKp, control.DefaultKi, control.DefaultKd)
//	body, _ := physics.New(params, pid)
//	// ControlTorque is called once per tick
//
// Controller state is owned by its instance. Reset by constructing a new one.
package control
