package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/forces"
	"github.com/san-kum/forcesim/internal/sim"
)

var ErrUnknownForce = errors.New("unknown force kind")

// Factory builds a force from its config for the given graph.
type Factory func(fc config.ForceConfig, g *Graph) (sim.Force, error)

type Registry struct {
	forces map[string]Factory
}

// NewRegistry returns a registry with every built-in force kind.
func NewRegistry() *Registry {
	r := &Registry{forces: make(map[string]Factory)}

	r.forces["manybody"] = manyBody
	r.forces["link"] = func(fc config.ForceConfig, g *Graph) (sim.Force, error) {
		f := forces.NewLink(g.Links)
		if fc.Distance != nil {
			f.Distance(forces.ConstantLink(*fc.Distance))
		}
		if fc.Strength != nil {
			f.Strength(forces.ConstantLink(*fc.Strength))
		}
		if fc.Iterations > 0 {
			f.Iterations(fc.Iterations)
		}
		return f, nil
	}
	r.forces["collide"] = func(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
		f := forces.NewCollide()
		switch {
		case fc.Radius != nil:
			f.Radius(forces.Constant(*fc.Radius + fc.Padding))
		case fc.RadiusScale != nil || fc.Padding != 0:
			f.Radius(forces.ScaledRadius(orDefault(fc.RadiusScale, 1), fc.Padding))
		}
		if fc.Strength != nil {
			f.Strength(*fc.Strength)
		}
		if fc.Iterations > 0 {
			f.Iterations(fc.Iterations)
		}
		return f, nil
	}
	r.forces["x"] = func(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
		f := forces.NewX(fc.X)
		if fc.Strength != nil {
			f.Strength(forces.Constant(*fc.Strength))
		}
		return f, nil
	}
	r.forces["y"] = func(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
		f := forces.NewY(fc.Y)
		if fc.Strength != nil {
			f.Strength(forces.Constant(*fc.Strength))
		}
		return f, nil
	}
	r.forces["center"] = func(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
		f := forces.NewCenter(fc.X, fc.Y)
		if fc.Strength != nil {
			f.Strength(*fc.Strength)
		}
		return f, nil
	}
	r.forces["radial"] = func(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
		f := forces.NewRadial(orDefault(fc.Radius, 100), fc.X, fc.Y)
		if fc.Strength != nil {
			f.Strength(forces.Constant(*fc.Strength))
		}
		return f, nil
	}
	r.forces["bounds"] = func(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
		if len(fc.Box) != 4 {
			return nil, fmt.Errorf("bounds %q: box needs 4 values, got %d", fc.Name, len(fc.Box))
		}
		return forces.Bounds(fc.Box[0], fc.Box[1], fc.Box[2], fc.Box[3]), nil
	}

	return r
}

// manyBody reads per-node charge from Attrs when FromNode is set, falling
// back to the configured strength.
func manyBody(fc config.ForceConfig, _ *Graph) (sim.Force, error) {
	f := forces.NewManyBody()
	fallback := orDefault(fc.Strength, -30)
	switch {
	case fc.FromNode:
		f.Strength(func(n *sim.Node, _ int) float64 {
			if c := AttrsOf(n).Charge; c != nil {
				return *c
			}
			return fallback
		})
	case fc.Strength != nil:
		f.Strength(forces.Constant(fallback))
	}
	if fc.Theta != nil {
		f.Theta(*fc.Theta)
	}
	if fc.DistanceMin != nil {
		f.DistanceMin(*fc.DistanceMin)
	}
	if fc.DistanceMax != nil {
		f.DistanceMax(*fc.DistanceMax)
	}
	return f, nil
}

func orDefault(p *float64, v float64) float64 {
	if p != nil {
		return *p
	}
	return v
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.forces[kind] = f
}

func (r *Registry) Build(fc config.ForceConfig, g *Graph) (sim.Force, error) {
	fn, ok := r.forces[fc.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForce, fc.Kind)
	}
	return fn(fc, g)
}

func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.forces))
	for kind := range r.forces {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
