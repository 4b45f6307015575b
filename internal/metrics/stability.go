package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

// Excursion is the largest |x[dof]| seen during a run.
type Excursion struct {
	name string
	dof  int
	peak float64
}

func NewExcursion(dof int, label string) *Excursion {
	return &Excursion{
		name: fmt.Sprintf("peak_%s", label),
		dof:  dof,
	}
}

func (e *Excursion) Name() string { return e.name }

func (e *Excursion) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.dof < len(x) {
		e.peak = math.Max(e.peak, math.Abs(x[e.dof]))
	}
}

func (e *Excursion) Value() float64 { return e.peak }

func (e *Excursion) Reset() { e.peak = 0 }

// Stability is the fraction of samples whose positions all stay within
// threshold. Velocities are not checked.
type Stability struct {
	name       string
	threshold  float64
	positions  int
	violations int
	samples    int
}

func NewStability(threshold float64, positions int) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		positions: positions,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	for i, val := range x {
		if i >= s.positions {
			break
		}
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
