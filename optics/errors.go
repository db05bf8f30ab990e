package optics

import "errors"

var (
	// ErrInvalidParameter indicates an optical constant or argument outside
	// its physical domain.
	ErrInvalidParameter = errors.New("optics: invalid parameter")
	// ErrGridMismatch indicates a wavefront sampled on a different grid
	// than the plane it is used in.
	ErrGridMismatch = errors.New("optics: wavefront grid does not match plane grid")
)
