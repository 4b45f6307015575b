package config

import "sort"

func preset(edit func(c *Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

// Presets are grouped by scenario: free decay tests, wave responses and
// controlled runs.
var Presets = map[string]map[string]*Config{
	"decay": {
		"heave": preset(func(c *Config) {
			c.Name = "heave-decay"
			c.Duration = 30
		}),
		"pitch": preset(func(c *Config) {
			c.Name = "pitch-decay"
			c.Duration = 30
			c.InitState.Position = [6]float64{4: 0.1}
		}),
		"damped": preset(func(c *Config) {
			c.Name = "damped-decay"
			c.Duration = 30
			c.Body.Damping = [6]float64{2: 5000}
			c.Body.Drag = [6]float64{2: 1.0}
			c.Body.Areas = [6]float64{2: c.Body.Waterplane[0]}
		}),
	},
	"waves": {
		"regular": preset(func(c *Config) {
			c.Name = "regular-wave"
			c.InitState.Position = [6]float64{}
			c.Wave.Type = "regular"
			c.Hydro.ExcitationDt = 0.05
		}),
		"irregular": preset(func(c *Config) {
			c.Name = "irregular-sea"
			c.Duration = 300
			c.InitState.Position = [6]float64{}
			c.Wave.Type = "irregular"
			c.Hydro.ExcitationDt = 0.05
			c.Seed = 1
		}),
	},
	"control": {
		"pto": preset(func(c *Config) {
			c.Name = "pto-regular"
			c.Controller = "pto"
			c.InitState.Position = [6]float64{}
			c.Wave.Type = "regular"
			c.Hydro.ExcitationDt = 0.05
		}),
		"hold": preset(func(c *Config) {
			c.Name = "pid-hold"
			c.Controller = "pid"
			c.ControllerParams.Target = 0.1
			c.Duration = 30
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(group, name string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
