package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/buoydyn/internal/config"
	"github.com/san-kum/buoydyn/internal/control"
	"github.com/san-kum/buoydyn/internal/dynamo"
	"github.com/san-kum/buoydyn/internal/hydro"
	"github.com/san-kum/buoydyn/internal/integrators"
	"github.com/san-kum/buoydyn/internal/metrics"
	"github.com/san-kum/buoydyn/internal/wave"
)

type Registry struct {
	waves       map[string]func(config.WaveConfig, int64) (hydro.IncidentWave, error)
	integrators map[string]func() dynamo.Integrator
	controllers map[string]func(config.ControllerConfig) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		waves:       make(map[string]func(config.WaveConfig, int64) (hydro.IncidentWave, error)),
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]func(config.ControllerConfig) dynamo.Controller),
	}

	still := func(config.WaveConfig, int64) (hydro.IncidentWave, error) { return nil, nil }
	r.waves[""] = still
	r.waves["still"] = still
	r.waves["regular"] = func(w config.WaveConfig, _ int64) (hydro.IncidentWave, error) {
		if w.Period <= 0 {
			return nil, fmt.Errorf("regular wave needs a positive period, got %g", w.Period)
		}
		return wave.NewRegular(w.Amplitude, w.Period, w.Heading*math.Pi/180), nil
	}
	r.waves["irregular"] = func(w config.WaveConfig, seed int64) (hydro.IncidentWave, error) {
		sp, err := wave.ParseSpectrum(w.Spectrum)
		if err != nil {
			return nil, err
		}
		irr, err := wave.SeaState{
			Spectrum:   sp,
			Hs:         w.Hs,
			Tp:         w.Tp,
			Heading:    w.Heading * math.Pi / 180,
			Gamma:      w.Gamma,
			Components: w.Components,
			Seed:       seed,
		}.Synthesize()
		if err != nil {
			return nil, err
		}
		return irr, nil
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["semi-implicit"] = func() dynamo.Integrator { return integrators.NewSemiImplicitEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }

	r.controllers["none"] = func(config.ControllerConfig) dynamo.Controller {
		return control.NewNone(hydro.NumDOF)
	}
	r.controllers["pid"] = func(p config.ControllerConfig) dynamo.Controller {
		return control.NewPID(p.DOF, p.Kp, p.Ki, p.Kd, p.Target)
	}
	r.controllers["pto"] = func(p config.ControllerConfig) dynamo.Controller {
		return control.NewPTO(p.DOF, p.Stiffness, p.Damping)
	}
	r.controllers["constant"] = func(p config.ControllerConfig) dynamo.Controller {
		return control.NewConstant(p.Force[:])
	}

	return r
}

// GetWave returns the incident wave for w. Calm water is a nil wave.
func (r *Registry) GetWave(w config.WaveConfig, seed int64) (hydro.IncidentWave, error) {
	fn, ok := r.waves[w.Type]
	if !ok {
		return nil, fmt.Errorf("unknown wave type: %s", w.Type)
	}
	return fn(w, seed)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params config.ControllerConfig) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }

func (r *Registry) ListWaves() []string {
	names := sortedKeys(r.waves)
	if len(names) > 0 && names[0] == "" {
		names = names[1:]
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(h *hydro.Hydrodynamics) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(h),
		metrics.NewEnergyDecay(h),
		metrics.NewExcursion(hydro.Heave, "heave"),
		metrics.NewExcursion(hydro.Pitch, "pitch"),
		metrics.NewStability(10.0, hydro.NumDOF),
		metrics.NewControlEffort(),
		metrics.NewAbsorbedPower(),
	}
}
