package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/buoydyn/internal/experiment"
	"github.com/san-kum/buoydyn/internal/hydro"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	bodyStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).PaddingLeft(2)
)

func buildModel(cmd *cobra.Command) (*hydro.Hydrodynamics, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return experiment.NewRegistry().BuildModel(cfg)
}

func row(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

func showInfo(cmd *cobra.Command, args []string) error {
	h, err := buildModel(cmd)
	if err != nil {
		return err
	}
	d := h.Discretized()
	k := h.Kernels()

	summary := lipgloss.JoinVertical(lipgloss.Left,
		row("density", h.Density()),
		row("gravity", h.Gravity()),
		row("length", h.LengthScale()),
		row("frequencies", len(h.Store().Radiation().Omega)),
		row("tau max", k.Tau[len(k.Tau)-1]),
		row("dt", d.Dt),
		row("n_rad", d.NRad),
		row("dt_exc", d.DtExc),
		row("n_exc", d.NExc),
		row("look-ahead", d.TExc),
	)
	fmt.Println(headerStyle.Render("buoy model"))
	fmt.Println(bodyStyle.Render(summary))
	fmt.Println()
	fmt.Println(h.String())
	return nil
}

func plotKernels(cmd *cobra.Command, args []string) error {
	dof, err := parseDOF(dofName)
	if err != nil {
		return err
	}
	h, err := buildModel(cmd)
	if err != nil {
		return err
	}
	k := h.Kernels()

	if kr := k.IRCos[dof][dof]; len(kr) > 1 {
		fmt.Println(asciigraph.Plot(kr,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("radiation impulse response K_%s (0..%.1f s)", hydro.DOFName(dof), k.Tau[len(k.Tau)-1])),
		))
		fmt.Println()
	} else {
		fmt.Printf("no radiation kernel for %s\n", hydro.DOFName(dof))
	}

	if ke := k.IRExc[dof]; len(ke) > 1 {
		fmt.Println(asciigraph.Plot(ke,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("excitation impulse response (%.1f..%.1f s)", k.TauExc[0], k.TauExc[len(k.TauExc)-1])),
		))
	}
	return nil
}

func plotRAO(cmd *cobra.Command, args []string) error {
	dof, err := parseDOF(dofName)
	if err != nil {
		return err
	}
	if points < 2 || omegaHi <= omegaLo || omegaLo <= 0 {
		return fmt.Errorf("need 0 < wmin < wmax and at least 2 points")
	}
	h, err := buildModel(cmd)
	if err != nil {
		return err
	}

	omegas := make([]float64, points)
	for i := range omegas {
		omegas[i] = omegaLo + (omegaHi-omegaLo)*float64(i)/float64(points-1)
	}
	rao, err := h.RAO(omegas, dof)
	if err != nil {
		return err
	}

	mag := make([]float64, len(rao))
	peak := 0
	for i, x := range rao {
		mag[i] = cmplx.Abs(x)
		if mag[i] > mag[peak] {
			peak = i
		}
	}
	fmt.Println(asciigraph.Plot(mag,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|RAO| %s, ω = %.2f..%.2f rad/s", hydro.DOFName(dof), omegaLo, omegaHi)),
	))
	fmt.Println()
	fmt.Printf("peak: %.4f at ω = %.3f rad/s (T = %.2f s), phase %.1f deg\n",
		mag[peak], omegas[peak], 2*math.Pi/omegas[peak], cmplx.Phase(rao[peak])*180/math.Pi)
	return nil
}

func showForces(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	h, err := experiment.NewRegistry().BuildModel(cfg)
	if err != nil {
		return err
	}

	f, err := h.Forces(cfg.GetInitState(), nil, 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for i := 0; i < hydro.NumDOF; i++ {
		fmt.Fprintf(w, "%s\t", hydro.DOFName(i))
	}
	fmt.Fprintln(w)
	for _, r := range []struct {
		name string
		v    hydro.Vec6
	}{
		{"gravity", f.Gravity},
		{"buoyancy", f.Buoyancy},
		{"drag", f.Drag},
		{"damping", f.Damping},
		{"radiation", f.Radiation},
		{"excitation", f.Excitation},
		{"external", f.External},
		{"total", f.Total()},
	} {
		fmt.Fprintf(w, "%s\t", r.name)
		for _, v := range r.v {
			fmt.Fprintf(w, "%.4g\t", v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
