package control

import (
	"math"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

// PID is an actuator holding one DOF of the body at Target, e.g. a heave
// lock that keeps the buoy at a set draft offset or a pitch trim. It pushes
// only on that DOF. The damping term uses the measured velocity of the DOF,
// so there is no derivative kick when Target changes.
//
// Limit caps |u| when positive. While the actuator is saturated the integral
// is frozen.
type PID struct {
	Kp, Ki, Kd float64
	Target     float64
	Limit      float64
	DOF        int

	integral float64
	prevErr  float64
	prevT    float64
	started  bool
}

func NewPID(dof int, kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target, DOF: dof}
}

func (p *PID) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, numDOF)
	if len(x) <= p.DOF {
		return u
	}
	err := p.Target - x[p.DOF]

	// d(err)/dt is minus the DOF velocity; fall back to a finite
	// difference for position-only states.
	rate := 0.0
	vi := len(x)/2 + p.DOF
	switch {
	case len(x) >= 2*numDOF && vi < len(x):
		rate = -x[vi]
	case p.started && t > p.prevT:
		rate = (err - p.prevErr) / (t - p.prevT)
	}

	dt := 0.0
	if p.started && t > p.prevT {
		dt = t - p.prevT
	}
	integral := p.integral + err*dt
	force := p.Kp*err + p.Ki*integral + p.Kd*rate
	if p.Limit > 0 && math.Abs(force) > p.Limit {
		force = math.Copysign(p.Limit, force)
	} else {
		p.integral = integral
	}

	p.prevErr, p.prevT, p.started = err, t, true
	u[p.DOF] = force
	return u
}

// Reset forgets the integral and the previous sample.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.started = false
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
		"limit":  p.Limit,
	}
}

func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	case "limit":
		p.Limit = value
	}
}
