package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcesim/internal/sim"
)

const (
	DefaultTicks         = 300
	DefaultNodes         = 50
	DefaultRadius        = 5.0
	DefaultVelocityDecay = 0.4
	DefaultAlphaMin      = 0.001
)

// DefaultAlphaDecay cools from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Config is a scene file: a graph, the forces acting on it and the
// simulation parameters.
type Config struct {
	Name          string        `yaml:"name,omitempty"`
	Seed          int64         `yaml:"seed"`
	Ticks         int           `yaml:"ticks" validate:"gte=0"`
	Alpha         AlphaConfig   `yaml:"alpha"`
	VelocityDecay float64       `yaml:"velocity_decay" validate:"gte=0,lte=1"`
	Graph         GraphConfig   `yaml:"graph"`
	Forces        []ForceConfig `yaml:"forces" validate:"dive"`
}

type AlphaConfig struct {
	Start  float64 `yaml:"start" validate:"gte=0,lte=1"`
	Min    float64 `yaml:"min" validate:"gte=0,lte=1"`
	Decay  float64 `yaml:"decay" validate:"gte=0,lte=1"`
	Target float64 `yaml:"target" validate:"gte=0,lte=1"`
}

// GraphConfig selects a generator. Size means the lattice side, the node
// count of a random graph or the star count of a disjoint graph.
type GraphConfig struct {
	Kind      string         `yaml:"kind" validate:"oneof=file lattice random disjoint"`
	Size      int            `yaml:"size,omitempty" validate:"gte=0"`
	Degree    int            `yaml:"degree,omitempty" validate:"gte=0"`
	Links     int            `yaml:"links,omitempty" validate:"gte=0"`
	Radius    float64        `yaml:"radius,omitempty"`
	MaxRadius float64        `yaml:"max_radius,omitempty"`
	Groups    int            `yaml:"groups,omitempty" validate:"gte=0"`
	Spread    float64        `yaml:"spread,omitempty" validate:"gte=0"`
	Pointer   *PointerConfig `yaml:"pointer,omitempty"`
	Nodes     []NodeConfig   `yaml:"nodes,omitempty" validate:"required_if=Kind file,dive"`
	Edges     []LinkConfig   `yaml:"edges,omitempty" validate:"dive"`
}

// PointerConfig adds an invisible, pinned node with its own charge, used to
// push bubbles around in the collision scene.
type PointerConfig struct {
	Charge float64 `yaml:"charge"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

type NodeConfig struct {
	ID     string   `yaml:"id" validate:"required"`
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Fixed  bool     `yaml:"fixed,omitempty"`
	Radius float64  `yaml:"r,omitempty"`
	Charge *float64 `yaml:"charge,omitempty"`
	Group  int      `yaml:"group,omitempty"`
}

type LinkConfig struct {
	Source   string   `yaml:"source" validate:"required"`
	Target   string   `yaml:"target" validate:"required"`
	Distance *float64 `yaml:"distance,omitempty"`
	Strength *float64 `yaml:"strength,omitempty"`
}

// ForceConfig describes one named force. Fields that do not apply to the
// kind are ignored; nil pointers keep the force's own default.
type ForceConfig struct {
	Name        string    `yaml:"name" validate:"required"`
	Kind        string    `yaml:"kind" validate:"oneof=manybody link collide x y center radial bounds"`
	Strength    *float64  `yaml:"strength,omitempty"`
	FromNode    bool      `yaml:"from_node,omitempty"`
	Theta       *float64  `yaml:"theta,omitempty" validate:"omitempty,gte=0"`
	DistanceMin *float64  `yaml:"distance_min,omitempty" validate:"omitempty,gte=0"`
	DistanceMax *float64  `yaml:"distance_max,omitempty" validate:"omitempty,gte=0"`
	Distance    *float64  `yaml:"distance,omitempty"`
	Iterations  int       `yaml:"iterations,omitempty" validate:"gte=0"`
	Radius      *float64  `yaml:"radius,omitempty"`
	RadiusScale *float64  `yaml:"radius_scale,omitempty"`
	Padding     float64   `yaml:"padding,omitempty"`
	X           float64   `yaml:"x,omitempty"`
	Y           float64   `yaml:"y,omitempty"`
	Box         []float64 `yaml:"box,omitempty" validate:"omitempty,len=4"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:          1,
		Ticks:         DefaultTicks,
		Alpha:         DefaultAlpha(),
		VelocityDecay: DefaultVelocityDecay,
		Graph: GraphConfig{
			Kind:   "random",
			Size:   DefaultNodes,
			Radius: DefaultRadius,
		},
		Forces: []ForceConfig{
			{Name: "charge", Kind: "manybody"},
			{Name: "center", Kind: "center"},
		},
	}
}

func DefaultAlpha() AlphaConfig {
	return AlphaConfig{
		Start: 1,
		Min:   DefaultAlphaMin,
		Decay: DefaultAlphaDecay,
	}
}

// Load reads a scene file on top of DefaultConfig and validates it. A file
// that lists forces replaces the default force set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Forces = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if cfg.Forces == nil {
		cfg.Forces = DefaultConfig().Forces
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig returns the simulation parameters of the scene.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Alpha:         c.Alpha.Start,
		AlphaMin:      c.Alpha.Min,
		AlphaDecay:    c.Alpha.Decay,
		AlphaTarget:   c.Alpha.Target,
		VelocityDecay: c.VelocityDecay,
		Seed:          c.Seed,
	}
}

// Force returns the first force config with the given name.
func (c *Config) Force(name string) (*ForceConfig, bool) {
	for i := range c.Forces {
		if c.Forces[i].Name == name {
			return &c.Forces[i], true
		}
	}
	return nil, false
}
