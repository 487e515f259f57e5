package structure

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat indicates a source whose extension maps to no parser.
	ErrUnknownFormat = errors.New("structure: unknown file format")

	// ErrNoAtomSite indicates a CIF file without an _atom_site loop.
	ErrNoAtomSite = errors.New("structure: no _atom_site loop")
)

// ParseError wraps a parse failure with the offending line.
type ParseError struct {
	Line    int
	Record  string
	Wrapped error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("structure: line %d (%s): %v", e.Line, e.Record, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}
