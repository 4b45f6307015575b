package metrics

import (
	"github.com/san-kum/buoydyn/internal/dynamo"
)

// Energy is the mean mechanical energy of the body over a run: kinetic
// energy with infinite-frequency added mass plus hydrostatic potential.
type Energy struct {
	body    dynamo.Hamiltonian
	sum     float64
	samples int
}

func NewEnergy(body dynamo.Hamiltonian) *Energy {
	return &Energy{body: body}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.sum += e.body.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDecay is the energy left at the last observed sample as a fraction
// of the first. Radiation damping drives it towards zero in a free-decay
// test; waves or a PTO can push it above one. Zero initial energy reports 0.
type EnergyDecay struct {
	body    dynamo.Hamiltonian
	initial float64
	last    float64
	started bool
}

func NewEnergyDecay(body dynamo.Hamiltonian) *EnergyDecay {
	return &EnergyDecay{body: body}
}

func (e *EnergyDecay) Name() string { return "energy_decay" }

func (e *EnergyDecay) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.last = e.body.Energy(x)
	if !e.started {
		e.initial = e.last
		e.started = true
	}
}

func (e *EnergyDecay) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return e.last / e.initial
}

func (e *EnergyDecay) Reset() {
	*e = EnergyDecay{body: e.body}
}
