package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup.
var (
	// ErrUnknownNode indicates a link endpoint that is not in the node set.
	ErrUnknownNode = errors.New("sim: link references unknown node")

	// ErrDuplicateNode indicates two nodes sharing an identifier, which makes
	// link resolution by id ambiguous.
	ErrDuplicateNode = errors.New("sim: duplicate node id")
)

// ResolveError reports which link failed to resolve during force setup.
type ResolveError struct {
	Link    int
	ID      string
	Wrapped error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("link %d: %v: %q", e.Link, e.Wrapped, e.ID)
}

func (e *ResolveError) Unwrap() error {
	return e.Wrapped
}
