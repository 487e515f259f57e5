package molecule

import "errors"

// Domain errors for molecule construction.
var (
	// ErrNoAtoms indicates a structure with nothing to display.
	ErrNoAtoms = errors.New("molecule: no atoms")

	// ErrBadBond indicates a bond referring to an atom index out of range.
	ErrBadBond = errors.New("molecule: bond references unknown atom")
)
