package experiment

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/hydro"
)

// Experiment is one configured run: a prepared model, an integrator, a
// controller and the default metrics.
type Experiment struct {
	cfg        *config.Config
	model      *hydro.Hydrodynamics
	controller dynamo.Controller
	simulator  *dynamo.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry) error {
	model, err := r.BuildModel(e.cfg)
	if err != nil {
		return fmt.Errorf("experiment: building model: %w", err)
	}
	integ, err := r.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := r.GetController(e.cfg.Controller, e.cfg.ControllerParams)
	if err != nil {
		return err
	}

	e.model = model
	e.controller = ctrl
	e.simulator = dynamo.New(model, integ, ctrl)
	for _, m := range r.DefaultMetrics(model) {
		e.simulator.AddMetric(m)
	}

	log.WithFields(log.Fields{
		"name":       e.cfg.Name,
		"integrator": e.cfg.Integrator,
		"controller": e.cfg.Controller,
		"wave":       e.cfg.Wave.Type,
		"kernels":    describe(model),
	}).Debug("experiment ready")
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := dynamo.State(e.cfg.GetInitState())

	simCfg := dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}

	return e.simulator.Run(ctx, x0, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// Model returns the prepared hydrodynamic model, or nil before Setup.
func (e *Experiment) Model() *hydro.Hydrodynamics {
	return e.model
}

func (e *Experiment) Controller() dynamo.Controller {
	return e.controller
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
