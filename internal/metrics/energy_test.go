package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

// oscillator is a unit-mass spring with stiffness k.
type oscillator struct{ k float64 }

func (o oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -o.k * x[0]}
}
func (o oscillator) StateDim() int   { return 2 }
func (o oscillator) ControlDim() int { return 1 }
func (o oscillator) Energy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + 0.5*o.k*x[0]*x[0]
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy(oscillator{k: 4})
	u := dynamo.Control{}

	m.Observe(dynamo.State{1, 0}, u, 0)
	m.Observe(dynamo.State{0, 1}, u, 0.1)
	if want := (2.0 + 0.5) / 2; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected mean energy %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDecay(t *testing.T) {
	m := NewEnergyDecay(oscillator{k: 1})
	if m.Name() != "energy_decay" {
		t.Errorf("name = %q", m.Name())
	}
	m.Observe(dynamo.State{1, 0}, nil, 0)
	m.Observe(dynamo.State{0, 1.1}, nil, 1)
	m.Observe(dynamo.State{0.5, 0}, nil, 2)

	if want := 0.25; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected remaining fraction %f, got %f", want, m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestExcursion(t *testing.T) {
	m := NewExcursion(2, "heave")
	if m.Name() != "peak_heave" {
		t.Errorf("name = %q", m.Name())
	}
	m.Observe(dynamo.State{5, 0, -0.3, 0}, nil, 0)
	m.Observe(dynamo.State{0, 0, 0.2, 9}, nil, 1)
	m.Observe(dynamo.State{0}, nil, 2)
	if m.Value() != 0.3 {
		t.Errorf("expected 0.3, got %f", m.Value())
	}
}

func TestStabilityIgnoresVelocities(t *testing.T) {
	m := NewStability(1.0, 2)
	m.Observe(dynamo.State{0.5, 0.5, 10, 10}, nil, 0)
	m.Observe(dynamo.State{2, 0, 0, 0}, nil, 1)
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestAbsorbedPower(t *testing.T) {
	m := NewAbsorbedPower()
	m.Observe(dynamo.State{0, 0, 2, -1}, dynamo.Control{-3, 1}, 0)
	m.Observe(dynamo.State{0, 0, 0, 0}, dynamo.Control{5, 5}, 1)
	m.Observe(dynamo.State{0}, dynamo.Control{1, 1}, 2)
	if want := (6.0 + 1.0) / 2; math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, m.Value())
	}

	e := NewControlEffort()
	e.Observe(nil, dynamo.Control{-3, 1}, 0)
	if e.Value() != 4 {
		t.Errorf("control effort = %f", e.Value())
	}
}
