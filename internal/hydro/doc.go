// Package hydro computes the hydrodynamic forces on a floating rigid body in
// six degrees of freedom (surge, sway, heave, roll, pitch, yaw) for use as
// the right-hand side of a time-domain simulation.
//
// The pieces, leaf first:
//
//   - [CoefficientStore]: frequency-domain added mass, radiation damping and
//     wave-exciting force tables with clamped linear interpolation
//   - [RestoringMatrix], gravity and buoyancy: hydrostatics from geometry
//   - [Synthesize]: cosine/sine transforms turning the tables into impulse
//     response kernels, and [Kernels.Discretize] to sample them at dt
//   - [History]: rolling acceleration and wave-elevation buffers with
//     periodic compaction, and the discrete convolutions over them
//   - [Hydrodynamics]: the force evaluator, a [dynamo.System]
//   - [Hydrodynamics.ComplexAmplitude]: steady-state frequency response
//
// # Usage
//
//	h := hydro.New(wave.NewRegular(1.0, 8.0, 0, 0))
//	_ = h.LoadFrequencyDomain(rad, exc)
//	h.SetMass(1400)
//	_ = h.SetTimestepSize(0.01)
//	if err := h.Prepare(); err != nil { ... }
//	sim := dynamo.New(h, integrators.NewRK4(), nil)
//
// # Thread Safety
//
// A Hydrodynamics value mutates its history on every Derive call and must be
// driven from a single goroutine.
package hydro
