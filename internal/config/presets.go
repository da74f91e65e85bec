package config

import "sort"

// Presets are complete configurations derived from DefaultConfig.
var Presets = map[string]*Config{
	// Nothing pushes back: the body falls from 10 degrees.
	"falling": preset(func(c *Config) {
		c.Controller.Kind = "none"
		c.Sim.Duration = 5
	}),
	// Constant -100 N*m open loop with the wheel limited to 100 N*m.
	"reference": preset(func(c *Config) {
		c.Controller.Kind = "constant"
		c.Controller.Torque = -100
		c.Sim.Dt = 0.005
		c.Sim.MaxTorque = 100
		c.Sim.Duration = 5
		c.Init.ThetaDeg = 0
		c.Init.RandomSpanDeg = 45
	}),
	"p": preset(func(c *Config) {
		c.Controller.Kind = "p"
		c.Init.ThetaDeg = 30
	}),
	"pi": preset(func(c *Config) {
		c.Controller.Kind = "pi"
		c.Init.ThetaDeg = 30
	}),
	"pid": preset(func(c *Config) {
		c.Controller.Kind = "pid"
		c.Init.ThetaDeg = 30
		c.Sim.Duration = 20
	}),
	// Keyboard or schedule driven; no controller.
	"manual": preset(func(c *Config) {
		c.Controller.Kind = "none"
		c.Init.ThetaDeg = 0
		c.Sim.Duration = 30
		c.Sim.StopOnTip = false
	}),
}

func preset(mod func(*Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
