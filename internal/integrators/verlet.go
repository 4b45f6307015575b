package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

// Verlet is velocity Verlet on a [positions..., velocities...] state.
// The end-of-step evaluation sees the start-of-step velocities, so
// velocity-dependent loads (damping, PTO, drag) lag by one step.
type Verlet struct {
	probe dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	if len(v.probe) != len(x) {
		v.probe = make(dynamo.State, len(x))
	}
	next := make(dynamo.State, len(x))
	pos, vel := next.Positions(), next.Velocities()

	a0 := append([]float64(nil), dyn.Derive(x, u, t).Velocities()...)

	// x(t+dt) = x + dt·v + dt²/2·a
	floats.AddScaledTo(pos, x.Positions(), dt, x.Velocities())
	floats.AddScaled(pos, 0.5*dt*dt, a0)

	copy(v.probe.Positions(), pos)
	copy(v.probe.Velocities(), x.Velocities())
	a1 := dyn.Derive(v.probe, u, t+dt).Velocities()

	// v(t+dt) = v + dt/2·(a0 + a1)
	copy(vel, x.Velocities())
	floats.AddScaled(vel, 0.5*dt, a0)
	floats.AddScaled(vel, 0.5*dt, a1)
	return next
}
