package main

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/buoydyn/internal/experiment"
	"github.com/san-kum/buoydyn/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	h, err := registry.BuildModel(cfg)
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := registry.GetController(cfg.Controller, cfg.ControllerParams)
	if err != nil {
		return err
	}

	area := cfg.Body.Waterplane[0]
	geom := viz.Geometry{Radius: math.Sqrt(area / math.Pi)}
	if area > 0 {
		geom.Draft = cfg.Body.Volume / area
	}

	m := viz.NewModel(h, integ, ctrl, cfg.GetInitState(), cfg.Dt, cfg.Name, geom)
	_, err = tea.NewProgram(m).Run()
	return err
}
