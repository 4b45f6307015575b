package experiment

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/hydro"
	"github.com/san-kum/buoydyn/internal/wamit"
)

// BuildModel assembles a prepared hydrodynamic model from cfg: body
// properties, coefficients from files or the analytic model, the incident
// wave and the kernel discretization at cfg.Dt.
func (r *Registry) BuildModel(cfg *config.Config) (*hydro.Hydrodynamics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := r.GetWave(cfg.Wave, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if reg, ok := w.(interface{ SetGravity(float64) }); ok {
		reg.SetGravity(cfg.Environment.Gravity)
	}

	env := cfg.Environment
	h := hydro.NewWithConstants(w, env.Length, env.Gravity, env.Density)
	applyBody(h, cfg.Body)

	kc, err := kernelConfig(cfg.Hydro)
	if err != nil {
		return nil, err
	}
	h.SetKernelConfig(kc)

	if err := loadCoefficients(h, cfg); err != nil {
		return nil, err
	}
	h.SetHeading(cfg.Wave.Heading * math.Pi / 180)
	if err := h.SetExcitationTimestep(cfg.Hydro.ExcitationDt); err != nil {
		return nil, err
	}
	if err := h.SetTimestepSize(cfg.Dt); err != nil {
		return nil, err
	}
	if err := h.Prepare(); err != nil {
		return nil, err
	}
	return h, nil
}

func applyBody(h *hydro.Hydrodynamics, b config.BodyConfig) {
	h.SetMass(b.Mass)
	h.SetI([3][3]float64{
		{b.Inertia[0], 0, 0},
		{0, b.Inertia[1], 0},
		{0, 0, b.Inertia[2]},
	})
	h.SetVolume(b.Volume)
	h.SetWaterplane(b.Waterplane[0], b.Waterplane[1], b.Waterplane[2])
	h.SetCOB(b.COB[0], b.COB[1], b.COB[2])
	h.SetCOG(b.COG[0], b.COG[1], b.COG[2])
	h.SetDampingCoeffs(hydro.Vec6(b.Damping))
	h.SetDragCoeffs(hydro.Vec6(b.Drag))
	h.SetAreas(hydro.Vec6(b.Areas))
}

func kernelConfig(hc config.HydroConfig) (hydro.KernelConfig, error) {
	kc := hydro.DefaultKernelConfig()
	q, err := hydro.ParseQuadrature(hc.Quadrature)
	if err != nil {
		return kc, err
	}
	kc.Quadrature = q
	if hc.DTau > 0 {
		kc.DTau = hc.DTau
	}
	if hc.TauMax > 0 {
		kc.TauMax = hc.TauMax
	}
	if hc.ExcTauMax > 0 {
		kc.ExcTauMax = hc.ExcTauMax
	}
	if hc.DecayTol > 0 {
		kc.DecayTol = hc.DecayTol
	}
	if hc.MinCycles >= 0 {
		kc.MinCycles = hc.MinCycles
	}
	return kc, nil
}

func loadCoefficients(h *hydro.Hydrodynamics, cfg *config.Config) error {
	hc := cfg.Hydro
	if hc.Radiation != "" {
		if err := wamit.Load(h, hc.Radiation, hc.Excitation); err != nil {
			return err
		}
	} else {
		rad, exc := AnalyticTables(hc.Analytic, h.Density(), h.Gravity(), h.Restoring()[hydro.Heave][hydro.Heave])
		if err := h.LoadFrequencyDomain(rad, exc); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"a_inf": hc.Analytic.AInf,
			"alpha": hc.Analytic.Alpha,
			"beta":  hc.Analytic.Beta,
		}).Info("using analytic heave coefficients")
	}

	if hc.TimeDomain == "" {
		return nil
	}
	k, err := wamit.ReadTimeDomain(hc.TimeDomain, hc.TimeDomainExcitation)
	if err != nil {
		return err
	}
	return h.LoadTimeDomain(k, h.AddedMassInf())
}

// AnalyticTables samples heave coefficients of the single-pole model
// A(ω) = A∞ − α/(β²+ω²), B(ω) = αβ/(β²+ω²). The exciting force follows the
// deep-water Haskind relation |X| = √(2ρg³B/ω³), limited to the hydrostatic
// force c33 per unit amplitude at low frequency, with zero phase.
func AnalyticTables(a config.AnalyticConfig, rho, g, c33 float64) (*hydro.FrequencyTable, *hydro.ExcitationTable) {
	dw := a.DOmega
	if dw <= 0 {
		dw = 0.01
	}
	wmax := a.OmegaMax
	if wmax <= dw {
		wmax = 20
	}
	n := int(math.Round(wmax/dw)) + 1

	rad := &hydro.FrequencyTable{HasInf: true}
	rad.AInf[hydro.Heave][hydro.Heave] = a.AInf
	exc := &hydro.ExcitationTable{Beta: []float64{0}}
	for k := 0; k < n; k++ {
		w := float64(k) * dw
		den := a.Beta*a.Beta + w*w
		var am, bm hydro.Mat6
		if den > 0 {
			am[hydro.Heave][hydro.Heave] = a.AInf - a.Alpha/den
			bm[hydro.Heave][hydro.Heave] = a.Alpha * a.Beta / den
		} else {
			am[hydro.Heave][hydro.Heave] = a.AInf
		}
		rad.Omega = append(rad.Omega, w)
		rad.A = append(rad.A, am)
		rad.B = append(rad.B, bm)

		x := c33
		if w > 0 {
			x = math.Min(c33, math.Sqrt(2*rho*g*g*g*bm[hydro.Heave][hydro.Heave]/(w*w*w)))
		}
		exc.Omega = append(exc.Omega, w)
		exc.X = append(exc.X, [][hydro.NumDOF]complex128{{hydro.Heave: complex(x, 0)}})
	}
	return rad, exc
}

func describe(h *hydro.Hydrodynamics) string {
	d := h.Discretized()
	if d == nil {
		return "not prepared"
	}
	return fmt.Sprintf("dt=%g n_rad=%d n_exc=%d", d.Dt, d.NRad, d.NExc)
}
