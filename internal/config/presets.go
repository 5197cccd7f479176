package config

import (
	"fmt"
	"sort"
)

func f64(v float64) *float64 { return &v }

type preset struct {
	about string
	build func() *Config
}

// Presets reproduce the classic force layout demos.
var Presets = map[string]preset{
	"xy": {
		about: "positional x/y pull toward the origin, no interaction",
		build: func() *Config {
			c := base("xy", GraphConfig{Kind: "random", Size: 50, Radius: 8, Spread: 300})
			c.Forces = []ForceConfig{
				{Name: "x", Kind: "x", Strength: f64(0.15)},
				{Name: "y", Kind: "y", Strength: f64(0.15)},
			}
			return c
		},
	},
	"collide": {
		about: "x/y pull balanced by collision",
		build: func() *Config {
			c := base("collide", GraphConfig{Kind: "random", Size: 50, Radius: 4, MaxRadius: 12, Spread: 300})
			c.Forces = []ForceConfig{
				{Name: "x", Kind: "x", Strength: f64(0.175)},
				{Name: "y", Kind: "y", Strength: f64(0.175)},
				{Name: "collide", Kind: "collide", Padding: 1},
			}
			return c
		},
	},
	"manybody": {
		about: "weak attraction between all nodes, kept apart by collision",
		build: func() *Config {
			c := base("manybody", GraphConfig{Kind: "random", Size: 50, Radius: 4, MaxRadius: 12, Spread: 300})
			c.Forces = []ForceConfig{
				{Name: "charge", Kind: "manybody", Strength: f64(0.15)},
				{Name: "collide", Kind: "collide", Padding: 1},
			}
			return c
		},
	},
	"links": {
		about: "random graph with short links, light repulsion and collision",
		build: func() *Config {
			c := base("links", GraphConfig{Kind: "random", Size: 50, Links: 60, Radius: 4, MaxRadius: 8, Spread: 300})
			c.Forces = []ForceConfig{
				{Name: "link", Kind: "link", Distance: f64(7)},
				{Name: "collide", Kind: "collide", Padding: 1},
				{Name: "charge", Kind: "manybody", Strength: f64(-8)},
			}
			return c
		},
	},
	"lattice": {
		about: "20x20 grid held by stiff links",
		build: func() *Config {
			c := base("lattice", GraphConfig{Kind: "lattice", Size: 20, Radius: 2.5})
			c.Forces = []ForceConfig{
				{Name: "charge", Kind: "manybody", Strength: f64(-30)},
				{Name: "link", Kind: "link", Strength: f64(2), Distance: f64(20), Iterations: 10},
				{Name: "center", Kind: "center"},
			}
			return c
		},
	},
	"disjoint": {
		about: "disconnected stars kept on screen by x/y instead of center",
		build: func() *Config {
			c := base("disjoint", GraphConfig{Kind: "disjoint", Size: 8, Degree: 6, Radius: 5})
			c.Forces = []ForceConfig{
				{Name: "link", Kind: "link"},
				{Name: "charge", Kind: "manybody"},
				{Name: "x", Kind: "x"},
				{Name: "y", Kind: "y"},
			}
			return c
		},
	},
	"collision": {
		about: "hot bubbles pushed around by a pinned pointer node",
		build: func() *Config {
			c := base("collision", GraphConfig{
				Kind: "random", Size: 200, Radius: 4, MaxRadius: 12, Groups: 4, Spread: 600,
				Pointer: &PointerConfig{Charge: -400},
			})
			c.Alpha.Target = 0.3
			c.VelocityDecay = 0.1
			c.Forces = []ForceConfig{
				{Name: "x", Kind: "x", Strength: f64(0.01)},
				{Name: "y", Kind: "y", Strength: f64(0.01)},
				{Name: "collide", Kind: "collide", RadiusScale: f64(0.8), Padding: 1, Iterations: 3},
				{Name: "charge", Kind: "manybody", Strength: f64(0), FromNode: true},
			}
			return c
		},
	},
	"radial": {
		about: "nodes pulled onto a ring, spaced by collision",
		build: func() *Config {
			c := base("radial", GraphConfig{Kind: "random", Size: 80, Radius: 4, Spread: 300})
			c.Forces = []ForceConfig{
				{Name: "radial", Kind: "radial", Radius: f64(120), Strength: f64(0.3)},
				{Name: "collide", Kind: "collide", Padding: 1},
			}
			return c
		},
	},
}

func base(name string, g GraphConfig) *Config {
	c := DefaultConfig()
	c.Name = name
	c.Graph = g
	return c
}

// Preset returns a fresh copy of the named preset.
func Preset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p.build(), nil
}

// About is the one-line description of a preset.
func About(name string) string { return Presets[name].about }

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
