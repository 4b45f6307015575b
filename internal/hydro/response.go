package hydro

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ComplexAmplitude returns the steady-state displacement amplitude per unit
// wave amplitude at frequency omega, solving
//
//	(−ω²(M + A(ω)) + iω(B(ω) + b) + c)·X = F(ω)
//
// where b is the linear damping. It needs frequency tables with excitation
// but not Prepare.
func (h *Hydrodynamics) ComplexAmplitude(omega float64) ([NumDOF]complex128, error) {
	if h.store == nil {
		return [NumDOF]complex128{}, ErrNoCoefficients
	}
	f, err := h.store.WaveExcitingForce(omega)
	if err != nil {
		return [NumDOF]complex128{}, err
	}
	return h.ResponseTo(omega, f)
}

// ComplexAmplitudeMode returns component mode of ComplexAmplitude.
func (h *Hydrodynamics) ComplexAmplitudeMode(omega float64, mode int) (complex128, error) {
	if mode < 0 || mode >= NumDOF {
		return 0, fmt.Errorf("hydro: mode %d out of range", mode)
	}
	x, err := h.ComplexAmplitude(omega)
	if err != nil {
		return 0, err
	}
	return x[mode], nil
}

// ResponseTo solves the frequency-domain equation of motion for an arbitrary
// complex force amplitude f.
func (h *Hydrodynamics) ResponseTo(omega float64, f [NumDOF]complex128) ([NumDOF]complex128, error) {
	var out [NumDOF]complex128
	if h.store == nil {
		return out, ErrNoCoefficients
	}
	a, err := h.store.AddedMassMatrix(omega)
	if err != nil {
		return out, err
	}
	b, err := h.store.RadiationDampingMatrix(omega)
	if err != nil {
		return out, err
	}

	inertia := h.MassMatrix().Add(a)
	damping := b.Add(Diag6(h.damping))

	// [K −C; C K]·[Xr; Xi] = [Fr; Fi] with K = c − ω²(M+A), C = ω(B+b).
	const n = 2 * NumDOF
	sys := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	w2 := omega * omega
	for i := 0; i < NumDOF; i++ {
		for j := 0; j < NumDOF; j++ {
			k := h.c[i][j] - w2*inertia[i][j]
			c := omega * damping[i][j]
			sys.Set(i, j, k)
			sys.Set(i, NumDOF+j, -c)
			sys.Set(NumDOF+i, j, c)
			sys.Set(NumDOF+i, NumDOF+j, k)
		}
		rhs.SetVec(i, real(f[i]))
		rhs.SetVec(NumDOF+i, imag(f[i]))
	}

	var x mat.VecDense
	if err := x.SolveVec(sys, rhs); err != nil {
		return out, fmt.Errorf("%w at omega=%g: %v", ErrSingularResponse, omega, err)
	}
	for i := range out {
		out[i] = complex(x.AtVec(i), x.AtVec(NumDOF+i))
	}
	return out, nil
}

// RAO sweeps ComplexAmplitudeMode over omegas.
func (h *Hydrodynamics) RAO(omegas []float64, mode int) ([]complex128, error) {
	out := make([]complex128, len(omegas))
	for k, w := range omegas {
		x, err := h.ComplexAmplitudeMode(w, mode)
		if err != nil {
			return nil, err
		}
		out[k] = x
	}
	return out, nil
}
