package control

import "github.com/san-kum/buoydyn/internal/dynamo"

// None leaves the body free floating.
type None struct {
	Dim int
}

// NewNone returns a controller applying zero force to dim degrees of
// freedom, all six when dim is not positive.
func NewNone(dim int) *None {
	if dim <= 0 {
		dim = numDOF
	}
	return &None{Dim: dim}
}

func (n *None) Compute(_ dynamo.State, _ float64) dynamo.Control {
	return make(dynamo.Control, n.Dim)
}
