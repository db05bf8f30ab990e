package fourier

import "errors"

var (
	// ErrNilGrid indicates a missing input or output grid.
	ErrNilGrid = errors.New("fourier: transform requires non-nil grids")
	// ErrDims indicates grids whose dimensionalities do not match.
	ErrDims = errors.New("fourier: input and output grids must have the same dimensionality")
	// ErrGridSize indicates a field whose sample count does not match the
	// grid the transform was built for.
	ErrGridSize = errors.New("fourier: field size does not match transform grid")
	// ErrNotRegular indicates a grid without uniform spacing where one is
	// required.
	ErrNotRegular = errors.New("fourier: grid is not regularly spaced")
	// ErrNotSeparable indicates a grid without per-axis structure where one
	// is required.
	ErrNotSeparable = errors.New("fourier: grid has no per-axis structure")
	// ErrNotConjugate indicates an output grid that is not the natural FFT
	// frequency grid of the input.
	ErrNotConjugate = errors.New("fourier: output grid is not the FFT conjugate of the input grid")
)
