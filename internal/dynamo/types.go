package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Positions is the first half of a [positions..., velocities...] state.
func (s State) Positions() []float64 { return s[:len(s)/2] }

// Velocities is the second half of a [positions..., velocities...] state.
func (s State) Velocities() []float64 { return s[len(s)/2:] }

// MaxExcursion is the largest |position| in the state.
func (s State) MaxExcursion() float64 {
	peak := 0.0
	for _, v := range s.Positions() {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}

// Control carries generalized forces applied on top of the system's own
// dynamics, one entry per degree of freedom.
type Control []float64

// System is the right-hand side dX/dt = f(X, u, t) consumed by an Integrator.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Preparer is implemented by systems that need setup before the first Derive.
// The simulator refuses to start while Ready returns an error.
type Preparer interface {
	Ready() error
}

// Resetter is implemented by systems that keep history between Derive
// calls. The simulator resets them before every run.
type Resetter interface {
	Reset()
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

// Config is one run: the step size, how long to run and whether to stop on a
// non-finite state.
type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
}

type Result struct {
	States      []State
	Controls    []Control
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
