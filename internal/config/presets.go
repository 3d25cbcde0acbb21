package config

import "sort"

// Presets override loop timing on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"smooth": func(c *Config) {
		c.Loop.TargetFPS = 60
	},
	"slowmo": func(c *Config) {
		c.Loop.TargetFPS = 30
		c.Loop.PhysicsStep = 1.0 / 240.0
		c.Loop.MaxStepsPerFrame = 2
	},
	"stress": func(c *Config) {
		c.Loop.TargetFPS = 120
		c.Loop.MaxStepsPerFrame = 20
		c.Loop.VelocityIterations = 8
		c.Loop.PositionIterations = 3
	},
	"gravity": func(c *Config) {
		c.World.GravityY = -9.8
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
