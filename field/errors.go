package field

import "errors"

var (
	// ErrEmptyGrid indicates a grid with no samples along some axis.
	ErrEmptyGrid = errors.New("field: grid must contain at least one sample per axis")
	// ErrBadDims indicates an unsupported dimensionality or mismatched
	// per-axis parameter lengths.
	ErrBadDims = errors.New("field: grids must have one or two dimensions")
	// ErrBadSpacing indicates a non-positive grid spacing or extent.
	ErrBadSpacing = errors.New("field: grid spacing and extent must be positive")
	// ErrAxisOrder indicates axis coordinates that are not strictly increasing.
	ErrAxisOrder = errors.New("field: axis coordinates must be strictly increasing")
	// ErrRaggedCoords indicates unstructured coordinate slices of unequal length.
	ErrRaggedCoords = errors.New("field: coordinate slices must all have the same length")
	// ErrSizeMismatch indicates sample data whose length does not match the grid.
	ErrSizeMismatch = errors.New("field: sample count does not match grid size")
	// ErrGridMismatch indicates an operation combining fields on different grids.
	ErrGridMismatch = errors.New("field: fields are not defined on the same grid")
)
