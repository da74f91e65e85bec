// Package dynamo provides the run orchestration primitives for the balancing
// simulation.
//
// The package defines the types shared between the physics core and its
// collaborators:
//
//   - [Snapshot]: read-only copy of the body state after a tick
//   - [Command]: latched horizontal movement direction
//   - [Stepper]: anything advanced one fixed tick at a time
//   - [Metric], [Observer]: per-tick consumers of snapshots
//   - [Simulator]: drives a stepper headlessly for a fixed duration
//   - [Ensemble]: runs many independent steppers in parallel
//
// # Example
//
//	body, _ := physics.New(params, control.NewPID(800, 50, 10))
//	sim := dynamo.New(body, params.Dt)
//	result, _ := sim.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe and own their stepper exclusively.
// For parallel runs use [Ensemble], which builds one stepper per run.
package dynamo
