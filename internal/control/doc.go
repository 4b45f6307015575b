// Package control computes the external generalized forces applied to the
// body, such as a power take-off or a heave-holding actuator.
//
// Controllers implement [dynamo.Controller] and return six forces, one per
// degree of freedom:
//
//   - [None]: no external force
//   - [PTO]: linear spring-damper power take-off on one DOF
//   - [PID]: holds one DOF at a target position
//   - [Feedback]: general linear state feedback u = −K(x − target)
//   - [Constant]: a fixed force vector
//
// # Usage
//
//	pto := control.NewPTO(hydro.Heave, 0, 2e4)
//	sim := dynamo.New(h, integrators.NewRK4(), pto)
package control
