package viewer

import "errors"

var (
	ErrNoSurface = errors.New("viewer: no surface")

	// ErrStale is returned by Load when a newer load started before this
	// one finished. The result is discarded.
	ErrStale = errors.New("viewer: stale load")
)
