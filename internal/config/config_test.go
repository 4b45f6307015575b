package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	assert.InDelta(t, cfg.Body.Mass, cfg.Body.Volume*cfg.Environment.Density, 1e-9, "default body floats in equilibrium")
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("decay", "pitch")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.Position[4] != 0.1 {
		t.Errorf("expected pitch 0.1, got %f", cfg.InitState.Position[4])
	}

	cfg.Duration = 1
	if GetPreset("decay", "pitch").Duration == 1 {
		t.Error("presets must be returned by copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("decay", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "heave")
	if cfg != nil {
		t.Error("expected nil for nonexistent group")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("waves")
	if len(presets) != 2 || presets[0] != "irregular" {
		t.Errorf("expected sorted wave presets, got %v", presets)
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent group")
	}
	if len(ListGroups()) != len(Presets) {
		t.Error("ListGroups should list every group")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, g := range ListGroups() {
		for _, name := range ListPresets(g) {
			if err := GetPreset(g, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", g, name, err)
			}
		}
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState.Velocity[5] = 0.3
	state := cfg.GetInitState()
	if len(state) != 12 {
		t.Fatalf("expected 12 states, got %d", len(state))
	}
	if state[2] != 0.2 || state[11] != 0.3 {
		t.Errorf("unexpected state %v", state)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"dt", func(c *Config) { c.Dt = 0 }},
		{"duration", func(c *Config) { c.Duration = -1 }},
		{"mass", func(c *Config) { c.Body.Mass = 0 }},
		{"dof", func(c *Config) { c.ControllerParams.DOF = 6 }},
		{"excitation only", func(c *Config) { c.Hydro.Excitation = "b.3" }},
		{"wave", func(c *Config) { c.Wave.Type = "tsunami" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buoy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: test
dt: 0.02
body:
  mass: 800
  damping: [0, 0, 50, 0, 0, 0]
hydro:
  radiation: coeffs/buoy.1
wave:
  type: regular
  period: 5
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Name)
	assert.Equal(t, 0.02, cfg.Dt)
	assert.Equal(t, 800.0, cfg.Body.Mass)
	assert.Equal(t, 50.0, cfg.Body.Damping[2])
	assert.Equal(t, filepath.Join(dir, "coeffs/buoy.1"), cfg.Hydro.Radiation)
	assert.Equal(t, "regular", cfg.Wave.Type)
	assert.Equal(t, DefaultDuration, cfg.Duration, "missing keys keep defaults")

	out := filepath.Join(dir, "saved.yaml")
	require.NoError(t, Save(out, cfg))
	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Body, again.Body)
}

func TestLoadINI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buoy.ini")
	require.NoError(t, os.WriteFile(path, []byte(`
[simulation]
dt = 0.05
controller = pto

[body]
mass = 1200
cog = 0, 0, -0.3
drag = 0, 0, 0.8, 0, 0, 0

[hydro]
radiation = /data/buoy.1
quadrature = simpson

[wave]
type = irregular
hs = 2.5

[controller]
damping = 3000
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Dt)
	assert.Equal(t, "pto", cfg.Controller)
	assert.Equal(t, 1200.0, cfg.Body.Mass)
	assert.Equal(t, [3]float64{0, 0, -0.3}, cfg.Body.COG)
	assert.Equal(t, 0.8, cfg.Body.Drag[2])
	assert.Equal(t, "/data/buoy.1", cfg.Hydro.Radiation)
	assert.Equal(t, "simpson", cfg.Hydro.Quadrature)
	assert.Equal(t, 2.5, cfg.Wave.Hs)
	assert.Equal(t, 3000.0, cfg.ControllerParams.Damping)
	assert.Equal(t, DefaultKp, cfg.ControllerParams.Kp)

	bad := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(bad, []byte("[body]\ncog = 1, 2\n"), 0644))
	_, err = LoadINI(bad)
	assert.Error(t, err)
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetParam("wave.period", 7))
	require.NoError(t, cfg.SetParam("PTO.Damping", 1e4))
	require.NoError(t, cfg.SetParam("init.pitch", 0.05))
	require.NoError(t, cfg.SetParam("damping.heave", 300))
	require.NoError(t, cfg.SetParam("seed", 12.7))

	assert.Equal(t, 7.0, cfg.Wave.Period)
	assert.Equal(t, 1e4, cfg.ControllerParams.Damping)
	assert.Equal(t, 0.05, cfg.InitState.Position[4])
	assert.Equal(t, 300.0, cfg.Body.Damping[2])
	assert.Equal(t, int64(12), cfg.Seed)

	v, err := cfg.GetParam("init.pitch")
	require.NoError(t, err)
	assert.Equal(t, 0.05, v)

	assert.Error(t, cfg.SetParam("wave.colour", 1))
	_, err = cfg.GetParam("wave.colour")
	assert.Error(t, err)

	assert.Contains(t, ListParams(), "init.heave")
	assert.Contains(t, ListParams(), "seed")
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.InitState.Position[2] = 5
	cp.Body.Damping[0] = 1
	assert.NotEqual(t, cfg.InitState.Position[2], cp.InitState.Position[2])
	assert.Equal(t, 0.0, cfg.Body.Damping[0])
}
