// Package field provides the spatial grids that sampled wavefronts live on,
// and the complex-valued fields defined on them. Grids are immutable once
// built and are shared by reference; operations that change geometry return
// new grids.
package field

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// A Grid is an ordered set of sample positions in one or two dimensions.
//
// Three layouts are supported. Regular grids have uniform spacing along every
// axis. Separated grids carry explicit, strictly increasing coordinates per
// axis. Unstructured grids are bare point lists with no lattice structure.
// For grids with axes, samples are ordered with the first axis varying
// fastest: sample k of a 2D grid sits at (Axis(0)[k%nx], Axis(1)[k/nx]).
//
// Accessors return internal slices for efficiency; callers must treat them
// as read-only.
type Grid struct {
	dims   []int
	axes   [][]float64 // per-axis coordinates; nil for unstructured grids
	points [][]float64 // per-point coordinates per axis; nil for separable grids
	delta  []float64   // per-axis spacing; nil unless regular
	zero   []float64   // per-axis first coordinate; nil unless regular
}

// NewRegular builds a grid with dims[d] samples along axis d, spaced delta[d]
// apart, the first sample sitting at zero[d].
func NewRegular(dims []int, delta, zero []float64) (*Grid, error) {
	nd := len(dims)
	if nd < 1 || nd > 2 || len(delta) != nd || len(zero) != nd {
		return nil, ErrBadDims
	}
	for d := 0; d < nd; d++ {
		if dims[d] < 1 {
			return nil, ErrEmptyGrid
		}
		if delta[d] <= 0 {
			return nil, ErrBadSpacing
		}
	}
	g := &Grid{
		dims:  append([]int(nil), dims...),
		delta: append([]float64(nil), delta...),
		zero:  append([]float64(nil), zero...),
		axes:  make([][]float64, nd),
	}
	for d := 0; d < nd; d++ {
		g.axes[d] = spanAxis(dims[d], zero[d], delta[d])
	}
	return g, nil
}

// UniformGrid builds a cell-centered regular grid: dims[d] samples covering
// extent[d] around center[d]. A nil center places the grid around the origin.
func UniformGrid(dims []int, extent, center []float64) (*Grid, error) {
	nd := len(dims)
	if nd < 1 || nd > 2 || len(extent) != nd {
		return nil, ErrBadDims
	}
	if center == nil {
		center = make([]float64, nd)
	}
	if len(center) != nd {
		return nil, ErrBadDims
	}
	delta := make([]float64, nd)
	zero := make([]float64, nd)
	for d := 0; d < nd; d++ {
		if dims[d] < 1 {
			return nil, ErrEmptyGrid
		}
		if extent[d] <= 0 {
			return nil, ErrBadSpacing
		}
		delta[d] = extent[d] / float64(dims[d])
		zero[d] = center[d] - extent[d]/2 + delta[d]/2
	}
	return NewRegular(dims, delta, zero)
}

// NewSeparated builds a grid from explicit per-axis coordinates. Each axis
// must be strictly increasing. Uniformly spaced axes are recognized so that
// FFT-based transforms can be applied.
func NewSeparated(axes ...[]float64) (*Grid, error) {
	nd := len(axes)
	if nd < 1 || nd > 2 {
		return nil, ErrBadDims
	}
	g := &Grid{
		dims: make([]int, nd),
		axes: make([][]float64, nd),
	}
	for d, ax := range axes {
		if len(ax) == 0 {
			return nil, ErrEmptyGrid
		}
		for i := 1; i < len(ax); i++ {
			if ax[i] <= ax[i-1] {
				return nil, ErrAxisOrder
			}
		}
		g.dims[d] = len(ax)
		g.axes[d] = append([]float64(nil), ax...)
	}
	g.detectRegular()
	return g, nil
}

// NewUnstructured builds a grid from bare per-point coordinates, points[d][k]
// being the coordinate of sample k along axis d. No lattice structure is
// assumed; quadrature weights default to 1 for every sample.
func NewUnstructured(points [][]float64) (*Grid, error) {
	nd := len(points)
	if nd < 1 || nd > 2 {
		return nil, ErrBadDims
	}
	n := len(points[0])
	if n == 0 {
		return nil, ErrEmptyGrid
	}
	g := &Grid{points: make([][]float64, nd)}
	for d, p := range points {
		if len(p) != n {
			return nil, ErrRaggedCoords
		}
		g.points[d] = append([]float64(nil), p...)
	}
	return g, nil
}

// spanAxis fills n uniformly spaced coordinates starting at zero.
func spanAxis(n int, zero, delta float64) []float64 {
	ax := make([]float64, n)
	if n == 1 {
		ax[0] = zero
		return ax
	}
	floats.Span(ax, zero, zero+float64(n-1)*delta)
	return ax
}

// detectRegular promotes a separated grid to regular when every axis is
// uniformly spaced. Single-point axes are left unpromoted because their
// spacing is undefined.
func (g *Grid) detectRegular() {
	const tol = 1e-12
	delta := make([]float64, len(g.axes))
	zero := make([]float64, len(g.axes))
	for d, ax := range g.axes {
		if len(ax) < 2 {
			return
		}
		dx := ax[1] - ax[0]
		for i := 2; i < len(ax); i++ {
			if !scalar.EqualWithinAbsOrRel(ax[i]-ax[i-1], dx, tol, tol) {
				return
			}
		}
		delta[d] = dx
		zero[d] = ax[0]
	}
	g.delta = delta
	g.zero = zero
}

// NumDims returns the number of spatial dimensions (1 or 2).
func (g *Grid) NumDims() int {
	if g.points != nil {
		return len(g.points)
	}
	return len(g.axes)
}

// Size returns the total number of samples.
func (g *Grid) Size() int {
	if g.points != nil {
		return len(g.points[0])
	}
	n := 1
	for _, d := range g.dims {
		n *= d
	}
	return n
}

// Dims returns the per-axis sample counts, or nil for unstructured grids.
func (g *Grid) Dims() []int { return g.dims }

// Regular reports whether every axis is uniformly spaced.
func (g *Grid) Regular() bool { return g.delta != nil }

// Separable reports whether the grid has per-axis structure. Regular grids
// are always separable.
func (g *Grid) Separable() bool { return g.axes != nil }

// Axis returns the coordinates along axis d, or nil for unstructured grids.
func (g *Grid) Axis(d int) []float64 {
	if g.axes == nil {
		return nil
	}
	return g.axes[d]
}

// Delta returns the per-axis spacing, or nil when the grid is not regular.
func (g *Grid) Delta() []float64 { return g.delta }

// Zero returns the per-axis first coordinate, or nil when not regular.
func (g *Grid) Zero() []float64 { return g.zero }

// Coords materializes the coordinate of every sample along axis d, in sample
// order. The returned slice is freshly allocated for separable grids.
func (g *Grid) Coords(d int) []float64 {
	if g.points != nil {
		return g.points[d]
	}
	if len(g.axes) == 1 {
		return g.axes[0]
	}
	out := make([]float64, g.Size())
	nx := g.dims[0]
	ax := g.axes[d]
	for k := range out {
		if d == 0 {
			out[k] = ax[k%nx]
		} else {
			out[k] = ax[k/nx]
		}
	}
	return out
}

// AxisWeights returns the quadrature weight of every sample along axis d,
// computed by the midpoint rule (which reduces to the spacing for regular
// axes). Returns nil for unstructured grids.
func (g *Grid) AxisWeights(d int) []float64 {
	if g.axes == nil {
		return nil
	}
	ax := g.axes[d]
	w := make([]float64, len(ax))
	if len(ax) == 1 {
		if g.delta != nil {
			w[0] = g.delta[d]
		} else {
			w[0] = 1
		}
		return w
	}
	w[0] = ax[1] - ax[0]
	w[len(ax)-1] = ax[len(ax)-1] - ax[len(ax)-2]
	for i := 1; i < len(ax)-1; i++ {
		w[i] = (ax[i+1] - ax[i-1]) / 2
	}
	return w
}

// Weights returns the quadrature weight of every sample. Separable grids use
// the product of per-axis weights; unstructured grids use 1 by convention.
func (g *Grid) Weights() []float64 {
	out := make([]float64, g.Size())
	if g.axes == nil {
		for k := range out {
			out[k] = 1
		}
		return out
	}
	wx := g.AxisWeights(0)
	if len(g.axes) == 1 {
		copy(out, wx)
		return out
	}
	wy := g.AxisWeights(1)
	nx := g.dims[0]
	for k := range out {
		out[k] = wx[k%nx] * wy[k/nx]
	}
	return out
}

// Scaled returns a new grid with every coordinate multiplied by factor. The
// receiver is left untouched. Factors are expected to be positive; quadrature
// weights of the result scale by factor per dimension automatically because
// they are derived from the coordinates.
func (g *Grid) Scaled(factor float64) *Grid {
	out := &Grid{}
	if g.dims != nil {
		out.dims = append([]int(nil), g.dims...)
	}
	if g.axes != nil {
		out.axes = make([][]float64, len(g.axes))
		for d, ax := range g.axes {
			s := make([]float64, len(ax))
			floats.ScaleTo(s, factor, ax)
			out.axes[d] = s
		}
	}
	if g.points != nil {
		out.points = make([][]float64, len(g.points))
		for d, p := range g.points {
			s := make([]float64, len(p))
			floats.ScaleTo(s, factor, p)
			out.points[d] = s
		}
	}
	if g.delta != nil {
		out.delta = make([]float64, len(g.delta))
		out.zero = make([]float64, len(g.zero))
		floats.ScaleTo(out.delta, factor, g.delta)
		floats.ScaleTo(out.zero, factor, g.zero)
	}
	return out
}

// Equal reports whether two grids describe the same sample positions within
// the given tolerance, regardless of layout class.
func (g *Grid) Equal(o *Grid, tol float64) bool {
	if o == nil || g.Size() != o.Size() || g.NumDims() != o.NumDims() {
		return false
	}
	for d := 0; d < g.NumDims(); d++ {
		a := g.Coords(d)
		b := o.Coords(d)
		for k := range a {
			if !scalar.EqualWithinAbsOrRel(a[k], b[k], tol, tol) {
				return false
			}
		}
	}
	return true
}
