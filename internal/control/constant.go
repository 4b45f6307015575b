package control

import "github.com/san-kum/buoydyn/internal/dynamo"

// Constant applies the same force vector at every step.
type Constant struct {
	U dynamo.Control
}

func NewConstant(u dynamo.Control) *Constant {
	return &Constant{U: append(dynamo.Control(nil), u...)}
}

// SetControl replaces the force vector. Vectors of another length are
// ignored.
func (c *Constant) SetControl(u []float64) {
	if len(u) != len(c.U) {
		return
	}
	copy(c.U, u)
}

func (c *Constant) Compute(x dynamo.State, t float64) dynamo.Control {
	return append(dynamo.Control(nil), c.U...)
}
