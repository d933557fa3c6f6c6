package config

import "sort"

// Presets are built-in configurations selectable by name.
var Presets = map[string]func() *Config{
	"solar": DefaultConfig,
	"inner": func() *Config {
		c := DefaultConfig()
		c.Name = "inner"
		c.Bodies = c.Bodies[:4]
		return c
	},
	"ringed": func() *Config {
		c := DefaultConfig()
		c.Name = "ringed"
		var bodies []BodyConfig
		for _, b := range c.Bodies {
			if b.Ring != nil {
				bodies = append(bodies, b)
			}
		}
		c.Bodies = bodies
		return c
	},
	"empty": func() *Config {
		c := DefaultConfig()
		c.Name = "empty"
		c.Bodies = []BodyConfig{}
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
