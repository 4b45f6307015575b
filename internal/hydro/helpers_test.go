package hydro

import "math"

func diag(v float64) Mat6 {
	return Diag6(Vec6{v, v, v, v, v, v})
}

// singlePoleTable samples B = αβ/(β²+ω²) and A = A∞ − α/(β²+ω²) on the
// given DOF pairs, whose impulse response is K(τ) = α·exp(−βτ).
func singlePoleTable(alpha, beta, aInf, wmax, dw float64, dofs ...int) *FrequencyTable {
	n := int(math.Round(wmax/dw)) + 1
	ft := &FrequencyTable{
		Omega:  make([]float64, n),
		A:      make([]Mat6, n),
		B:      make([]Mat6, n),
		HasInf: true,
	}
	for _, d := range dofs {
		ft.AInf[d][d] = aInf
	}
	for k := 0; k < n; k++ {
		w := float64(k) * dw
		ft.Omega[k] = w
		ft.A[k] = ft.AInf
		den := beta*beta + w*w
		for _, d := range dofs {
			ft.B[k][d][d] = alpha * beta / den
			ft.A[k][d][d] = aInf - alpha/den
		}
	}
	return ft
}

// flatTable has frequency-independent coefficients.
func flatTable(a, b Mat6, omegas ...float64) *FrequencyTable {
	ft := &FrequencyTable{Omega: omegas, AInf: a, BInf: b, HasInf: true}
	for range omegas {
		ft.A = append(ft.A, a)
		ft.B = append(ft.B, b)
	}
	return ft
}

// gaussianExcitation is X(ω) = √(2π)·exp(−ω²/2)·exp(−iωτ0) on one DOF, whose
// impulse response is exp(−(τ−τ0)²/2).
func gaussianExcitation(tau0 float64, dof int) *ExcitationTable {
	const dw, wmax = 0.01, 10.0
	n := int(math.Round(wmax/dw)) + 1
	et := &ExcitationTable{Beta: []float64{0}}
	for k := 0; k < n; k++ {
		w := float64(k) * dw
		mag := math.Sqrt(2*math.Pi) * math.Exp(-w*w/2)
		var row [NumDOF]complex128
		row[dof] = complex(mag*math.Cos(w*tau0), -mag*math.Sin(w*tau0))
		et.Omega = append(et.Omega, w)
		et.X = append(et.X, [][NumDOF]complex128{row})
	}
	return et
}

// heaveBody configures a body in neutral equilibrium with heave and roll and
// pitch stiffness of 1000 and mass 500.
func heaveBody(h *Hydrodynamics) {
	rg := h.rho * h.grav
	h.SetMass(500)
	h.SetI([3][3]float64{{500, 0, 0}, {0, 500, 0}, {0, 0, 500}})
	h.SetVolume(500 / h.rho)
	h.SetWaterplane(1000/rg, 1000/rg, 1000/rg)
}

type cosineWave struct{ amp, omega float64 }

func (w cosineWave) Eta(t, x, y float64) float64 { return w.amp * math.Cos(w.omega*t) }
