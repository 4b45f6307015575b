package config

import (
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// LoadINI reads a configuration from an INI file with the sections
// [simulation], [environment], [body], [hydro], [wave], [init_state] and
// [controller]. Vector keys are comma separated.
func LoadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := loadINI(file, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

func loadINI(file *ini.File, cfg *Config) error {
	sim := file.Section("simulation")
	cfg.Name = sim.Key("name").MustString(cfg.Name)
	cfg.Integrator = sim.Key("integrator").MustString(cfg.Integrator)
	cfg.Controller = sim.Key("controller").MustString(cfg.Controller)
	cfg.Dt = sim.Key("dt").MustFloat64(cfg.Dt)
	cfg.Duration = sim.Key("duration").MustFloat64(cfg.Duration)
	cfg.Seed = sim.Key("seed").MustInt64(cfg.Seed)

	env := file.Section("environment")
	cfg.Environment.Gravity = env.Key("gravity").MustFloat64(cfg.Environment.Gravity)
	cfg.Environment.Density = env.Key("density").MustFloat64(cfg.Environment.Density)
	cfg.Environment.Length = env.Key("length").MustFloat64(cfg.Environment.Length)

	body := file.Section("body")
	cfg.Body.Mass = body.Key("mass").MustFloat64(cfg.Body.Mass)
	cfg.Body.Volume = body.Key("volume").MustFloat64(cfg.Body.Volume)
	vectors := []struct {
		sec *ini.Section
		key string
		dst []float64
	}{
		{body, "inertia", cfg.Body.Inertia[:]},
		{body, "waterplane", cfg.Body.Waterplane[:]},
		{body, "cob", cfg.Body.COB[:]},
		{body, "cog", cfg.Body.COG[:]},
		{body, "damping", cfg.Body.Damping[:]},
		{body, "drag", cfg.Body.Drag[:]},
		{body, "areas", cfg.Body.Areas[:]},
		{file.Section("init_state"), "position", cfg.InitState.Position[:]},
		{file.Section("init_state"), "velocity", cfg.InitState.Velocity[:]},
		{file.Section("controller"), "force", cfg.ControllerParams.Force[:]},
	}
	for _, v := range vectors {
		if err := readVector(v.sec, v.key, v.dst); err != nil {
			return err
		}
	}

	hy := file.Section("hydro")
	cfg.Hydro.Radiation = hy.Key("radiation").MustString(cfg.Hydro.Radiation)
	cfg.Hydro.Excitation = hy.Key("excitation").MustString(cfg.Hydro.Excitation)
	cfg.Hydro.TimeDomain = hy.Key("time_domain").MustString(cfg.Hydro.TimeDomain)
	cfg.Hydro.TimeDomainExcitation = hy.Key("time_domain_excitation").MustString(cfg.Hydro.TimeDomainExcitation)
	cfg.Hydro.ExcitationDt = hy.Key("excitation_dt").MustFloat64(cfg.Hydro.ExcitationDt)
	cfg.Hydro.DTau = hy.Key("dtau").MustFloat64(cfg.Hydro.DTau)
	cfg.Hydro.TauMax = hy.Key("tau_max").MustFloat64(cfg.Hydro.TauMax)
	cfg.Hydro.ExcTauMax = hy.Key("exc_tau_max").MustFloat64(cfg.Hydro.ExcTauMax)
	cfg.Hydro.DecayTol = hy.Key("decay_tol").MustFloat64(cfg.Hydro.DecayTol)
	cfg.Hydro.MinCycles = hy.Key("min_cycles").MustFloat64(cfg.Hydro.MinCycles)
	cfg.Hydro.Quadrature = hy.Key("quadrature").MustString(cfg.Hydro.Quadrature)
	cfg.Hydro.Analytic.AInf = hy.Key("a_inf").MustFloat64(cfg.Hydro.Analytic.AInf)
	cfg.Hydro.Analytic.Alpha = hy.Key("alpha").MustFloat64(cfg.Hydro.Analytic.Alpha)
	cfg.Hydro.Analytic.Beta = hy.Key("beta").MustFloat64(cfg.Hydro.Analytic.Beta)

	w := file.Section("wave")
	cfg.Wave.Type = w.Key("type").MustString(cfg.Wave.Type)
	cfg.Wave.Amplitude = w.Key("amplitude").MustFloat64(cfg.Wave.Amplitude)
	cfg.Wave.Period = w.Key("period").MustFloat64(cfg.Wave.Period)
	cfg.Wave.Heading = w.Key("heading").MustFloat64(cfg.Wave.Heading)
	cfg.Wave.Spectrum = w.Key("spectrum").MustString(cfg.Wave.Spectrum)
	cfg.Wave.Hs = w.Key("hs").MustFloat64(cfg.Wave.Hs)
	cfg.Wave.Tp = w.Key("tp").MustFloat64(cfg.Wave.Tp)
	cfg.Wave.Gamma = w.Key("gamma").MustFloat64(cfg.Wave.Gamma)
	cfg.Wave.Components = w.Key("components").MustInt(cfg.Wave.Components)

	ctl := file.Section("controller")
	cfg.ControllerParams.DOF = ctl.Key("dof").MustInt(cfg.ControllerParams.DOF)
	cfg.ControllerParams.Kp = ctl.Key("kp").MustFloat64(cfg.ControllerParams.Kp)
	cfg.ControllerParams.Ki = ctl.Key("ki").MustFloat64(cfg.ControllerParams.Ki)
	cfg.ControllerParams.Kd = ctl.Key("kd").MustFloat64(cfg.ControllerParams.Kd)
	cfg.ControllerParams.Target = ctl.Key("target").MustFloat64(cfg.ControllerParams.Target)
	cfg.ControllerParams.Stiffness = ctl.Key("stiffness").MustFloat64(cfg.ControllerParams.Stiffness)
	cfg.ControllerParams.Damping = ctl.Key("damping").MustFloat64(cfg.ControllerParams.Damping)
	return nil
}

// readVector fills dst from a comma-separated key. An absent key leaves dst
// unchanged; a key with the wrong number of values is an error.
func readVector(sec *ini.Section, key string, dst []float64) error {
	if !sec.HasKey(key) {
		return nil
	}
	vals, err := sec.Key(key).StrictFloat64s(",")
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", sec.Name(), key, err)
	}
	if len(vals) != len(dst) {
		return fmt.Errorf("[%s] %s: want %d values, got %d", sec.Name(), key, len(dst), len(vals))
	}
	copy(dst, vals)
	return nil
}
