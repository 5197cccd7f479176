package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidConfig = errors.New("invalid scene")
	ErrUnknownPreset = errors.New("unknown preset")
)

var validate = validator.New()

// Validate rejects structurally invalid scenes. Physics values the engine
// accepts, such as negative radii or strengths, pass through.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool, len(c.Forces))
	for _, f := range c.Forces {
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate force %q", ErrInvalidConfig, f.Name)
		}
		seen[f.Name] = true
		if f.Kind == "bounds" && len(f.Box) != 4 {
			return fmt.Errorf("%w: force %q needs box [x0, y0, x1, y1]", ErrInvalidConfig, f.Name)
		}
	}

	if c.Graph.Kind != "file" {
		return nil
	}
	ids := make(map[string]bool, len(c.Graph.Nodes))
	for _, n := range c.Graph.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("%w: duplicate node %q", ErrInvalidConfig, n.ID)
		}
		ids[n.ID] = true
	}
	for i, l := range c.Graph.Edges {
		for _, id := range []string{l.Source, l.Target} {
			if !ids[id] {
				return fmt.Errorf("%w: edge %d references unknown node %q", ErrInvalidConfig, i, id)
			}
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Errorf("%w: %s failed %s=%s", ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalidConfig, fe.Namespace(), fe.Tag())
}
