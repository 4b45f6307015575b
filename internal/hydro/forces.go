package hydro

import (
	"math"

	"github.com/san-kum/buoydyn/internal/dynamo"
)

// gridTol decides whether an evaluation time sits on the dt grid.
const gridTol = 1e-6

// ForceBreakdown lists each contribution to the generalized force.
type ForceBreakdown struct {
	Gravity    Vec6
	Buoyancy   Vec6
	Drag       Vec6
	Damping    Vec6
	Radiation  Vec6
	Excitation Vec6
	External   Vec6
}

func (f ForceBreakdown) Total() Vec6 {
	return f.Gravity.Add(f.Buoyancy).Add(f.Drag).Add(f.Damping).
		Add(f.Radiation).Add(f.Excitation).Add(f.External)
}

// GravityForce is the weight acting at the centre of gravity in the current
// orientation.
func (h *Hydrodynamics) GravityForce(x []float64) Vec6 {
	return gravityForce(x, h.mass, h.grav, h.geom.COG)
}

// BuoyancyForce is the equilibrium buoyancy at the current orientation plus
// the waterplane restoring force for the current displacement.
func (h *Hydrodynamics) BuoyancyForce(x []float64) Vec6 {
	return buoyancyForce(x, h.geom, h.rho, h.grav)
}

// ViscousDragForce is −½ρ·Cd·A·|v|·v per DOF.
func (h *Hydrodynamics) ViscousDragForce(v []float64) Vec6 {
	var f Vec6
	for i := range f {
		f[i] = -0.5 * h.rho * h.drag[i] * h.area[i] * math.Abs(v[i]) * v[i]
	}
	return f
}

// LinearDampingForce is −b·v per DOF.
func (h *Hydrodynamics) LinearDampingForce(v []float64) Vec6 {
	var f Vec6
	for i := range f {
		f[i] = -h.damping[i] * v[i]
	}
	return f
}

// RadiationForce is the fluid memory force over the committed acceleration
// history. It lags the current step by one sample.
func (h *Hydrodynamics) RadiationForce() Vec6 {
	if h.hist == nil {
		return Vec6{}
	}
	return h.hist.RadiationForce(h.disc)
}

// ExcitingForce is the wave force at time t. Wave elevations at the body
// reference point are sampled up to t + TExc on the excitation grid.
func (h *Hydrodynamics) ExcitingForce(t float64) Vec6 {
	if h.wave == nil || h.hist == nil || h.disc.NExc == 0 {
		return Vec6{}
	}
	dtExc := h.disc.DtExc
	m := int(math.Floor(t/dtExc + gridTol))
	for q := h.lastWave + 1; q <= m; q++ {
		h.hist.PushWaveElevation(h.wave.Eta(float64(q)*dtExc+h.disc.TExc, 0, 0))
	}
	h.lastWave = max(h.lastWave, m)
	return h.hist.ExcitingForce(h.disc, h.lastWave-m)
}

// excitingForceAt evaluates the wave force at t from elevations sampled on
// the fly, leaving the wave history untouched.
func (h *Hydrodynamics) excitingForceAt(t float64) Vec6 {
	if h.wave == nil || h.disc == nil || h.disc.NExc < 2 {
		return Vec6{}
	}
	dtExc := h.disc.DtExc
	m := int(math.Floor(t/dtExc + gridTol))
	n := min(m+1, h.disc.NExc)
	if n < 2 {
		return Vec6{}
	}
	eta := make([]float64, n)
	for k := range eta {
		q := m - n + 1 + k
		eta[k] = h.wave.Eta(float64(q)*dtExc+h.disc.TExc, 0, 0)
	}
	return excitationForce(h.disc, eta)
}

// Forces evaluates every force contribution at state x, control u and time
// t. Neither the step history nor the wave history is modified.
func (h *Hydrodynamics) Forces(x []float64, u []float64, t float64) (ForceBreakdown, error) {
	if err := h.Ready(); err != nil {
		return ForceBreakdown{}, err
	}
	if len(x) < 2*NumDOF {
		return ForceBreakdown{}, ErrStateDim
	}
	return h.forces(x, u, t, false), nil
}

// forces sums the contributions. With record set, wave elevations up to t
// are appended to the history.
func (h *Hydrodynamics) forces(x []float64, u []float64, t float64, record bool) ForceBreakdown {
	pos, vel := x[:NumDOF], x[NumDOF:2*NumDOF]
	fb := ForceBreakdown{
		Gravity:    h.GravityForce(pos),
		Buoyancy:   h.BuoyancyForce(pos),
		Drag:       h.ViscousDragForce(vel),
		Damping:    h.LinearDampingForce(vel),
		Radiation:  h.RadiationForce(),
	}
	if record {
		fb.Excitation = h.ExcitingForce(t)
	} else {
		fb.Excitation = h.excitingForceAt(t)
	}
	for i := 0; i < NumDOF && i < len(u); i++ {
		fb.External[i] = u[i]
	}
	return fb
}

// Accelerations solves (M + A∞)·a = F for the state x at time t and records
// a in the radiation history.
//
// Multi-stage integrators evaluate several times per step. Only evaluations
// on the dt grid are recorded: each overwrites the pending sample for its
// step, so the evaluation at the true state of step n wins. The pending
// sample is committed once an evaluation of a later step arrives, before
// that evaluation computes its radiation force. Skipped steps repeat the
// pending sample. An on-grid evaluation before the pending step starts a
// new run: the history is reset first.
func (h *Hydrodynamics) Accelerations(x []float64, u []float64, t float64) (Vec6, error) {
	if err := h.Ready(); err != nil {
		return Vec6{}, err
	}
	if len(x) < 2*NumDOF {
		return Vec6{}, ErrStateDim
	}

	s := t / h.dt
	idx := int(math.Round(s))
	onGrid := math.Abs(s-float64(idx)) < gridTol
	if onGrid && idx < h.pendingIdx {
		// Time went backwards: a new run on the same model.
		h.Reset()
	}
	if onGrid && h.pendingIdx >= 0 && idx > h.pendingIdx {
		for k := h.pendingIdx; k < idx; k++ {
			h.hist.PushStep(h.pendingVel, h.pending)
		}
		h.pendingIdx = idx
	}

	f := h.forces(x, u, t, true).Total()
	var a Vec6
	for i := range a {
		for j := range f {
			a[i] += h.massInv.At(i, j) * f[j]
		}
	}

	if onGrid && (h.pendingIdx < 0 || idx == h.pendingIdx) {
		h.pendingIdx = idx
		h.pending = a
		copy(h.pendingVel[:], x[NumDOF:2*NumDOF])
	}
	return a, nil
}

// Derive implements dynamo.System. It panics with the configuration error
// when the model is not ready; call Ready first.
func (h *Hydrodynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	a, err := h.Accelerations(x, u, t)
	if err != nil {
		panic(err)
	}
	dx := make(dynamo.State, 2*NumDOF)
	copy(dx, x[NumDOF:2*NumDOF])
	copy(dx[NumDOF:], a[:])
	return dx
}

func (h *Hydrodynamics) StateDim() int   { return 2 * NumDOF }
func (h *Hydrodynamics) ControlDim() int { return NumDOF }

// Energy is the kinetic energy with infinite-frequency added mass plus the
// linearized hydrostatic potential ½xᵀcx.
func (h *Hydrodynamics) Energy(x dynamo.State) float64 {
	if len(x) < 2*NumDOF {
		return 0
	}
	var pos, vel Vec6
	copy(pos[:], x[:NumDOF])
	copy(vel[:], x[NumDOF:2*NumDOF])
	inertia := h.MassMatrix().Add(h.AddedMassInf())
	mv := inertia.MulVec(vel)
	cx := h.c.MulVec(pos)
	e := 0.0
	for i := range pos {
		e += 0.5*vel[i]*mv[i] + 0.5*pos[i]*cx[i]
	}
	return e
}
