package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// AbsorbedPower is the mean power −u·v taken out of the body by the external
// forces. States are [positions, velocities] with one velocity per control.
type AbsorbedPower struct {
	name    string
	sum     float64
	samples int
}

func NewAbsorbedPower() *AbsorbedPower {
	return &AbsorbedPower{
		name: "absorbed_power",
	}
}

func (p *AbsorbedPower) Name() string { return p.name }

func (p *AbsorbedPower) Observe(x dynamo.State, u dynamo.Control, t float64) {
	n := len(u)
	if n == 0 || len(x) < 2*n {
		return
	}
	p.sum -= floats.Dot(u, x[n:2*n])
	p.samples++
}

func (p *AbsorbedPower) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *AbsorbedPower) Reset() {
	p.sum = 0
	p.samples = 0
}
