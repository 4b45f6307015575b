package config

import (
	"fmt"
	"sort"
	"strings"
)

var dofKeys = []string{"surge", "sway", "heave", "roll", "pitch", "yaw"}

// params maps the dotted names accepted by SetParam to the fields they set.
var params = map[string]func(c *Config) *float64{
	"dt":             func(c *Config) *float64 { return &c.Dt },
	"duration":       func(c *Config) *float64 { return &c.Duration },
	"body.mass":      func(c *Config) *float64 { return &c.Body.Mass },
	"wave.amplitude": func(c *Config) *float64 { return &c.Wave.Amplitude },
	"wave.period":    func(c *Config) *float64 { return &c.Wave.Period },
	"wave.heading":   func(c *Config) *float64 { return &c.Wave.Heading },
	"wave.hs":        func(c *Config) *float64 { return &c.Wave.Hs },
	"wave.tp":        func(c *Config) *float64 { return &c.Wave.Tp },
	"wave.gamma":     func(c *Config) *float64 { return &c.Wave.Gamma },
	"pto.stiffness":  func(c *Config) *float64 { return &c.ControllerParams.Stiffness },
	"pto.damping":    func(c *Config) *float64 { return &c.ControllerParams.Damping },
	"pid.kp":         func(c *Config) *float64 { return &c.ControllerParams.Kp },
	"pid.ki":         func(c *Config) *float64 { return &c.ControllerParams.Ki },
	"pid.kd":         func(c *Config) *float64 { return &c.ControllerParams.Kd },
	"pid.target":     func(c *Config) *float64 { return &c.ControllerParams.Target },
}

func init() {
	for i, name := range dofKeys {
		i := i
		params["init."+name] = func(c *Config) *float64 { return &c.InitState.Position[i] }
		params["damping."+name] = func(c *Config) *float64 { return &c.Body.Damping[i] }
	}
}

// SetParam sets a numeric field by dotted name, e.g. "wave.period" or
// "init.heave". "seed" is rounded to an integer.
func (c *Config) SetParam(name string, value float64) error {
	name = strings.ToLower(name)
	if name == "seed" {
		c.Seed = int64(value)
		return nil
	}
	field, ok := params[name]
	if !ok {
		return fmt.Errorf("config: unknown parameter %q", name)
	}
	*field(c) = value
	return nil
}

// GetParam reads a field set by SetParam.
func (c *Config) GetParam(name string) (float64, error) {
	name = strings.ToLower(name)
	if name == "seed" {
		return float64(c.Seed), nil
	}
	field, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("config: unknown parameter %q", name)
	}
	return *field(c), nil
}

func ListParams() []string {
	names := make([]string, 0, len(params)+1)
	for name := range params {
		names = append(names, name)
	}
	names = append(names, "seed")
	sort.Strings(names)
	return names
}

// Clone returns an independent copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
