package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 60.0
	DefaultGravity  = 9.81
	DefaultDensity  = 1025.0
	DefaultMass     = 5000.0
	DefaultRadius   = 1.5
	DefaultKp       = 2e4
	DefaultKi       = 0.0
	DefaultKd       = 5e3
	DefaultPTO      = 2e4
)

type Config struct {
	Name             string            `yaml:"name"`
	Integrator       string            `yaml:"integrator"`
	Controller       string            `yaml:"controller"`
	Dt               float64           `yaml:"dt"`
	Duration         float64           `yaml:"duration"`
	Seed             int64             `yaml:"seed"`
	Environment      EnvironmentConfig `yaml:"environment"`
	Body             BodyConfig        `yaml:"body"`
	Hydro            HydroConfig       `yaml:"hydro"`
	Wave             WaveConfig        `yaml:"wave"`
	InitState        InitStateConfig   `yaml:"init_state"`
	ControllerParams ControllerConfig  `yaml:"controller_params"`
}

type EnvironmentConfig struct {
	Gravity float64 `yaml:"gravity"`
	Density float64 `yaml:"density"`
	// Length is the scale used to dimensionalise coefficient files.
	Length float64 `yaml:"length"`
}

// BodyConfig holds mass properties and hydrostatics. Vectors are per DOF in
// surge, sway, heave, roll, pitch, yaw order.
type BodyConfig struct {
	Mass       float64    `yaml:"mass"`
	Inertia    [3]float64 `yaml:"inertia"`
	Volume     float64    `yaml:"volume"`
	Waterplane [3]float64 `yaml:"waterplane"`
	COB        [3]float64 `yaml:"cob"`
	COG        [3]float64 `yaml:"cog"`
	Damping    [6]float64 `yaml:"damping"`
	Drag       [6]float64 `yaml:"drag"`
	Areas      [6]float64 `yaml:"areas"`
}

// HydroConfig selects the coefficient source and kernel synthesis settings.
// With no files set, an analytic single-pole heave model is used.
type HydroConfig struct {
	Radiation  string `yaml:"radiation"`
	Excitation string `yaml:"excitation"`
	// TimeDomain and TimeDomainExcitation load kernels directly.
	TimeDomain           string  `yaml:"time_domain"`
	TimeDomainExcitation string  `yaml:"time_domain_excitation"`
	ExcitationDt         float64 `yaml:"excitation_dt"`

	DTau       float64 `yaml:"dtau"`
	TauMax     float64 `yaml:"tau_max"`
	ExcTauMax  float64 `yaml:"exc_tau_max"`
	DecayTol   float64 `yaml:"decay_tol"`
	MinCycles  float64 `yaml:"min_cycles"`
	Quadrature string  `yaml:"quadrature"`

	Analytic AnalyticConfig `yaml:"analytic"`
}

// AnalyticConfig describes heave coefficients A(ω) = AInf − α/(β²+ω²) and
// B(ω) = αβ/(β²+ω²), whose radiation kernel is α·exp(−βτ).
type AnalyticConfig struct {
	AInf     float64 `yaml:"a_inf"`
	Alpha    float64 `yaml:"alpha"`
	Beta     float64 `yaml:"beta"`
	OmegaMax float64 `yaml:"omega_max"`
	DOmega   float64 `yaml:"domega"`
}

type WaveConfig struct {
	Type      string  `yaml:"type"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	// Heading is the wave direction in degrees.
	Heading    float64 `yaml:"heading"`
	Spectrum   string  `yaml:"spectrum"`
	Hs         float64 `yaml:"hs"`
	Tp         float64 `yaml:"tp"`
	Gamma      float64 `yaml:"gamma"`
	Components int     `yaml:"components"`
}

type InitStateConfig struct {
	Position [6]float64 `yaml:"position"`
	Velocity [6]float64 `yaml:"velocity"`
}

type ControllerConfig struct {
	DOF       int        `yaml:"dof"`
	Kp        float64    `yaml:"kp"`
	Ki        float64    `yaml:"ki"`
	Kd        float64    `yaml:"kd"`
	Target    float64    `yaml:"target"`
	Stiffness float64    `yaml:"stiffness"`
	Damping   float64    `yaml:"damping"`
	Force     [6]float64 `yaml:"force"`
}

// DefaultConfig is a vertical cylinder of radius DefaultRadius floating in
// equilibrium, heaving from a 0.2 m offset in calm water.
func DefaultConfig() *Config {
	area := math.Pi * DefaultRadius * DefaultRadius
	return &Config{
		Name:       "buoy",
		Integrator: "rk4",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Environment: EnvironmentConfig{
			Gravity: DefaultGravity,
			Density: DefaultDensity,
			Length:  1,
		},
		Body: BodyConfig{
			Mass:       DefaultMass,
			Inertia:    [3]float64{8000, 8000, 5000},
			Volume:     DefaultMass / DefaultDensity,
			Waterplane: [3]float64{area, 15, 15},
			COB:        [3]float64{0, 0, -0.4},
			COG:        [3]float64{0, 0, -0.6},
		},
		Hydro: HydroConfig{
			DTau:       0.05,
			TauMax:     30,
			ExcTauMax:  20,
			DecayTol:   1e-3,
			MinCycles:  1,
			Quadrature: "trapezoidal",
			Analytic: AnalyticConfig{
				AInf:     3000,
				Alpha:    1500,
				Beta:     1.5,
				OmegaMax: 20,
				DOmega:   0.01,
			},
		},
		Wave: WaveConfig{
			Type:       "still",
			Amplitude:  0.5,
			Period:     6,
			Spectrum:   "pm",
			Hs:         1.5,
			Tp:         7,
			Gamma:      3.3,
			Components: 200,
		},
		InitState: InitStateConfig{
			Position: [6]float64{2: 0.2},
		},
		ControllerParams: ControllerConfig{
			DOF:     2,
			Kp:      DefaultKp,
			Ki:      DefaultKi,
			Kd:      DefaultKd,
			Damping: DefaultPTO,
		},
	}
}

// Load reads a configuration file. Files ending in .ini are read with
// LoadINI, everything else as YAML. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return LoadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// resolvePaths makes coefficient file paths relative to the config file.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Hydro.Radiation, &c.Hydro.Excitation, &c.Hydro.TimeDomain, &c.Hydro.TimeDomainExcitation} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Validate reports the first setting that cannot produce a run.
func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	case c.Body.Mass <= 0:
		return fmt.Errorf("config: body mass must be positive, got %g", c.Body.Mass)
	case c.ControllerParams.DOF < 0 || c.ControllerParams.DOF > 5:
		return fmt.Errorf("config: controller dof must be in 0..5, got %d", c.ControllerParams.DOF)
	case c.Hydro.Excitation != "" && c.Hydro.Radiation == "":
		return fmt.Errorf("config: excitation file %q needs a radiation file", c.Hydro.Excitation)
	}
	switch c.Wave.Type {
	case "", "still", "regular", "irregular":
	default:
		return fmt.Errorf("config: unknown wave type %q", c.Wave.Type)
	}
	return nil
}

// GetInitState returns the 12-component initial state.
func (c *Config) GetInitState() []float64 {
	x := make([]float64, 12)
	copy(x, c.InitState.Position[:])
	copy(x[6:], c.InitState.Velocity[:])
	return x
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"dof":       float64(c.ControllerParams.DOF),
		"kp":        c.ControllerParams.Kp,
		"ki":        c.ControllerParams.Ki,
		"kd":        c.ControllerParams.Kd,
		"target":    c.ControllerParams.Target,
		"stiffness": c.ControllerParams.Stiffness,
		"damping":   c.ControllerParams.Damping,
	}
}
