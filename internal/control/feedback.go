package control

import "github.com/san-kum/buoydyn/internal/dynamo"

// Feedback is linear state feedback u = −K(x − target). K has one row per
// control and one column per state component.
type Feedback struct {
	K      [][]float64
	Target dynamo.State
}

func NewFeedback(k [][]float64, target dynamo.State) *Feedback {
	return &Feedback{K: k, Target: target}
}

func (l *Feedback) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(l.K))
	for i := range u {
		for j := range x {
			target := 0.0
			if j < len(l.Target) {
				target = l.Target[j]
			}
			if j < len(l.K[i]) {
				u[i] -= l.K[i][j] * (x[j] - target)
			}
		}
	}
	return u
}

// numDOF is the number of rigid-body degrees of freedom the controllers
// address; states are [position, velocity] pairs of this size.
const numDOF = 6

// PTO is a linear power take-off acting on a single DOF:
// u = −Stiffness·x − Damping·ẋ.
type PTO struct {
	*Feedback
	DOF       int
	Stiffness float64
	Damping   float64
}

func NewPTO(dof int, stiffness, damping float64) *PTO {
	k := make([][]float64, numDOF)
	for i := range k {
		k[i] = make([]float64, 2*numDOF)
	}
	k[dof][dof] = stiffness
	k[dof][numDOF+dof] = damping
	return &PTO{
		Feedback:  NewFeedback(k, nil),
		DOF:       dof,
		Stiffness: stiffness,
		Damping:   damping,
	}
}

// Power is the instantaneous power absorbed from the body at state x.
func (p *PTO) Power(x dynamo.State) float64 {
	if len(x) < 2*numDOF {
		return 0
	}
	v := x[numDOF+p.DOF]
	return p.Damping*v*v + p.Stiffness*x[p.DOF]*v
}

// GetParams returns tunable parameters for live adjustment
func (p *PTO) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness": p.Stiffness,
		"damping":   p.Damping,
	}
}

// SetParam adjusts a PTO parameter
func (p *PTO) SetParam(name string, value float64) {
	switch name {
	case "stiffness":
		p.Stiffness = value
		p.K[p.DOF][p.DOF] = value
	case "damping":
		p.Damping = value
		p.K[p.DOF][numDOF+p.DOF] = value
	}
}
