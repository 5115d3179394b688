package config

import "sort"

// Presets are named overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"noisy": func(c *Config) {
		c.Observation = "noisy"
	},
	"straight": func(c *Config) {
		c.Input = InputConfig{V: 1.0}
		c.SimTime = 20.0
	},
	"spin": func(c *Config) {
		c.Input = InputConfig{Omega: 0.5}
		c.InputNoise = InputConfig{Omega: 0.05}
		c.SimTime = 20.0
	},
	"quiet": func(c *Config) {
		c.InputNoise = InputConfig{}
	},
	"dense-gps": func(c *Config) {
		c.Observation = "noisy"
		c.Obs.Period = 1.0
		c.Obs.Tolerance = 0.05
		c.Obs.Sigma = 0.5
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
