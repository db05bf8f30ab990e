// Package fourier implements discrete Fourier transforms between two spatial
// grids, the engine underneath far-field propagation.
//
// The convention throughout is
//
//	forward:  F(u) = sum_x f(x) exp(-i u.x) w(x)
//	backward: f(x) = (2 pi)^-d  sum_u F(u) exp(+i u.x) w(u)
//
// with w the grid quadrature weights, so that forward and backward are exact
// inverses on FFT-conjugate grid pairs (up to floating-point error).
//
// Three strategies are available. New picks the cheapest one that the grid
// pair supports: an FFT when the output grid is the natural conjugate of a
// regular input grid, per-axis kernel matrices when both grids are separable,
// and a dense transform matrix otherwise. All strategies can materialize
// their dense matrix form; construction cost is paid once and every
// constructed transform is safe for concurrent use.
package fourier

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// Transform computes a discrete Fourier transform between the fixed grid
// pair it was built for. A transform must not be reused for fields on any
// other grids.
type Transform interface {
	// Forward transforms a field on the input grid to the output grid.
	Forward(f *field.Field) (*field.Field, error)
	// Backward transforms a field on the output grid back to the input grid.
	Backward(f *field.Field) (*field.Field, error)
	// MatrixForward materializes the forward transform as a dense matrix of
	// shape (output size, input size). The returned matrix is cached and
	// must be treated as read-only.
	MatrixForward() *mat.CDense
	// MatrixBackward materializes the backward transform as a dense matrix
	// of shape (input size, output size). Cached; read-only.
	MatrixBackward() *mat.CDense
	// InputGrid and OutputGrid return the grid pair the transform is bound to.
	InputGrid() *field.Grid
	OutputGrid() *field.Grid
}

var (
	_ Transform = (*FastFourierTransform)(nil)
	_ Transform = (*MatrixFourierTransform)(nil)
	_ Transform = (*NaiveFourierTransform)(nil)
)

// New builds the cheapest transform the grid pair supports.
func New(input, output *field.Grid) (Transform, error) {
	if input == nil || output == nil {
		return nil, ErrNilGrid
	}
	if input.NumDims() != output.NumDims() {
		return nil, ErrDims
	}
	if input.Regular() && output.Regular() {
		if conj, err := FFTGrid(input); err == nil && output.Equal(conj, 1e-9) {
			return NewFastFourierTransform(input, output)
		}
	}
	if input.Separable() && output.Separable() {
		return NewMatrixFourierTransform(input, output)
	}
	return NewNaiveFourierTransform(input, output)
}

// FFTGrid returns the natural conjugate frequency grid of a regular grid:
// per axis, n samples spaced 2 pi/(n dx) apart, centered so that zero
// frequency is a sample (index floor(n/2)).
func FFTGrid(input *field.Grid) (*field.Grid, error) {
	if input == nil {
		return nil, ErrNilGrid
	}
	if !input.Regular() {
		return nil, ErrNotRegular
	}
	dims := input.Dims()
	delta := input.Delta()
	du := make([]float64, len(dims))
	u0 := make([]float64, len(dims))
	for d := range dims {
		du[d] = 2 * math.Pi / (float64(dims[d]) * delta[d])
		u0[d] = -float64(dims[d]/2) * du[d]
	}
	return field.NewRegular(dims, du, u0)
}

// denseForward builds the full forward matrix T[k,j] = w(x_j) exp(-i u_k.x_j)
// for any grid pair. Shared by every strategy for matrix materialization and
// by the dense transform for its apply path.
func denseForward(input, output *field.Grid) *mat.CDense {
	n := input.Size()
	m := output.Size()
	w := input.Weights()
	data := make([]complex128, m*n)
	for d := 0; d < input.NumDims(); d++ {
		x := input.Coords(d)
		u := output.Coords(d)
		for k := 0; k < m; k++ {
			row := data[k*n : (k+1)*n]
			for j := 0; j < n; j++ {
				row[j] += complex(0, -u[k]*x[j])
			}
		}
	}
	for k := 0; k < m; k++ {
		row := data[k*n : (k+1)*n]
		for j := 0; j < n; j++ {
			row[j] = cmplx.Exp(row[j]) * complex(w[j], 0)
		}
	}
	return mat.NewCDense(m, n, data)
}

// denseBackward builds the full backward matrix
// B[j,k] = (2 pi)^-d w(u_k) exp(+i u_k.x_j).
func denseBackward(input, output *field.Grid) *mat.CDense {
	n := input.Size()
	m := output.Size()
	d := input.NumDims()
	w := output.Weights()
	scale := math.Pow(2*math.Pi, -float64(d))
	data := make([]complex128, n*m)
	for dd := 0; dd < d; dd++ {
		x := input.Coords(dd)
		u := output.Coords(dd)
		for j := 0; j < n; j++ {
			row := data[j*m : (j+1)*m]
			for k := 0; k < m; k++ {
				row[k] += complex(0, u[k]*x[j])
			}
		}
	}
	for j := 0; j < n; j++ {
		row := data[j*m : (j+1)*m]
		for k := 0; k < m; k++ {
			row[k] = cmplx.Exp(row[k]) * complex(w[k]*scale, 0)
		}
	}
	return mat.NewCDense(n, m, data)
}

// applyDense multiplies a dense transform matrix with field samples.
func applyDense(m *mat.CDense, data []complex128) []complex128 {
	rows, _ := m.Dims()
	v := mat.NewCDense(len(data), 1, data)
	var res mat.CDense
	res.Mul(m, v)
	out := make([]complex128, rows)
	for k := range out {
		out[k] = res.At(k, 0)
	}
	return out
}

// matrixCache lazily materializes and caches the dense matrix pair of a
// transform. Safe for concurrent use.
type matrixCache struct {
	once sync.Once
	fwd  *mat.CDense
	bwd  *mat.CDense
}

func (c *matrixCache) get(input, output *field.Grid) (*mat.CDense, *mat.CDense) {
	c.once.Do(func() {
		c.fwd = denseForward(input, output)
		c.bwd = denseBackward(input, output)
	})
	return c.fwd, c.bwd
}
