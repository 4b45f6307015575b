package hydro

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// String dumps the configuration, hydrostatics and coefficient summary.
func (h *Hydrodynamics) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "constants: rho=%g g=%g L=%g\n", h.rho, h.grav, h.length)
	fmt.Fprintf(&sb, "mass: %g\n", h.mass)
	fmt.Fprintf(&sb, "inertia: %v\n", h.inertia)
	g := h.geom
	fmt.Fprintf(&sb, "waterplane: S=%g S11=%g S22=%g volume=%g\n", g.S, g.S11, g.S22, g.Volume)
	fmt.Fprintf(&sb, "cob: %v cog: %v\n", g.COB, g.COG)
	fmt.Fprintf(&sb, "linear damping: %v\n", h.damping)
	fmt.Fprintf(&sb, "drag Cd: %v areas: %v\n", h.drag, h.area)
	fmt.Fprintf(&sb, "dt: %g dt_exc: %g\n", h.dt, h.excitationStep())
	sb.WriteString("hydrostatic stiffness c:\n")
	sb.WriteString(h.c.String())

	if h.store != nil {
		rad := h.store.rad
		fmt.Fprintf(&sb, "frequencies: %d in [%g, %g] rad/s\n", len(rad.Omega), rad.Omega[0], rad.Omega[len(rad.Omega)-1])
		sb.WriteString("added mass at infinite frequency:\n")
		sb.WriteString(rad.InfiniteFrequencyAddedMass().String())
		if exc := h.store.exc; exc != nil {
			fmt.Fprintf(&sb, "excitation: %d frequencies, %d headings, heading %g rad\n",
				len(exc.Omega), len(exc.Beta), h.store.Heading())
		}
	}

	if k := h.kernels; k != nil {
		fmt.Fprintf(&sb, "radiation kernels: %d samples to tau=%g s\n", len(k.Tau), k.Duration())
		for i := 0; i < NumDOF; i++ {
			ir := k.IRCos[i][i]
			if len(ir) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "  K%d%d: K(0)=%.4g peak=%.4g\n", i+1, i+1, ir[0], floats.Max(ir))
		}
		if k.HasExcitation() {
			fmt.Fprintf(&sb, "excitation kernels: tau in [%g, %g]\n", k.TauExc[0], k.TauExc[len(k.TauExc)-1])
		}
	}

	if d := h.disc; d != nil {
		fmt.Fprintf(&sb, "n_rad_intpts: %d n_exc_intpts: %d t_exc: %g\n", d.NRad, d.NExc, d.TExc)
	}
	if err := h.Ready(); err != nil {
		fmt.Fprintf(&sb, "status: %v\n", err)
	} else {
		sb.WriteString("status: ready\n")
	}
	return sb.String()
}
