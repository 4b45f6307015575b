// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [Controller]: external force input
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	h, _ := experiment.NewRegistry().BuildModel(cfg)
//	sim := dynamo.New(h, integrators.NewRK4(), control.NewNone(6))
//	result, _ := sim.Run(ctx, x0, dynamo.Config{Dt: 0.01, Duration: 60})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe, and neither are systems that keep
// history between Derive calls. Drive each one from a single goroutine.
package dynamo
