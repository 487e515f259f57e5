package config

import (
	"fmt"
	"sort"
)

// Presets are named geometry styles.
var Presets = map[string]GeometryConfig{
	"classic": {
		Scale: 75, AtomRadius: 25, BondWidth: 5, BondColor: "#ffffff",
	},
	"compact": {
		Scale: 50, AtomRadius: 15, BondWidth: 3, BondColor: "#ffffff",
	},
	"spacefill": {
		Scale: 75, AtomRadius: 60, BondWidth: 5, BondColor: "#ffffff",
	},
	"wire": {
		Scale: 75, AtomRadius: 6, BondWidth: 3, BondColor: "#b0b0b0",
	},
}

func GetPreset(name string) *GeometryConfig {
	g, ok := Presets[name]
	if !ok {
		return nil
	}
	return &g
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the geometry section with the named preset.
func (c *Config) ApplyPreset(name string) error {
	g := GetPreset(name)
	if g == nil {
		return fmt.Errorf("unknown preset: %s", name)
	}
	c.Geometry = *g
	return nil
}
