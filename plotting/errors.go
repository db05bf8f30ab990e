package plotting

import "errors"

var (
	// ErrSizeMismatch indicates an intensity slice whose length does not
	// match its grid.
	ErrSizeMismatch = errors.New("plotting: intensity length does not match grid")
	// ErrNotTwoDim indicates a grid that cannot be rendered as an image.
	ErrNotTwoDim = errors.New("plotting: image rendering requires a 2D grid")
	// ErrBadScale indicates a non-positive intensity-to-pixel scale.
	ErrBadScale = errors.New("plotting: scale must be positive")
	// ErrBadPercentiles indicates an invalid stretch percentile pair.
	ErrBadPercentiles = errors.New("plotting: percentiles must satisfy 0 <= low < high <= 100")
	// ErrNoFiniteValues indicates an intensity with nothing to stretch.
	ErrNoFiniteValues = errors.New("plotting: intensity has no finite values")
	// ErrEmptyProfile indicates a profile with too few samples to plot.
	ErrEmptyProfile = errors.New("plotting: profile needs at least two samples")
	// ErrNotSeparable indicates a grid without per-axis structure, which
	// has no axis to cut along.
	ErrNotSeparable = errors.New("plotting: profile requires a separable grid")
)
