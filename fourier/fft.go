package fourier

import (
	"math"
	"math/cmplx"

	dspfourier "gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// FastFourierTransform transforms between a regular grid and its
// FFT-conjugate frequency grid in O(N log N). Grid offsets are absorbed into
// per-axis phase vectors precomputed at construction, so no index shuffling
// (fftshift) happens at apply time.
type FastFourierTransform struct {
	input  *field.Grid
	output *field.Grid

	// Per-axis phase factors. Forward: F_k = postF_k * DFT(f_j * preF_j).
	// Backward: f_j = postB_j * IDFT(F_k * preB_k), with the quadrature
	// weights and the (2 pi)^-d normalization folded into the post factors.
	preF  [][]complex128
	postF [][]complex128
	preB  [][]complex128
	postB [][]complex128

	cache matrixCache
}

// NewFastFourierTransform builds an FFT between a regular input grid and its
// conjugate frequency grid. The output grid must equal FFTGrid(input) within
// tolerance; use New to fall back to a matrix transform automatically.
func NewFastFourierTransform(input, output *field.Grid) (*FastFourierTransform, error) {
	if input == nil || output == nil {
		return nil, ErrNilGrid
	}
	if !input.Regular() || !output.Regular() {
		return nil, ErrNotRegular
	}
	conj, err := FFTGrid(input)
	if err != nil {
		return nil, err
	}
	if !output.Equal(conj, 1e-9) {
		return nil, ErrNotConjugate
	}

	nd := input.NumDims()
	t := &FastFourierTransform{
		input:  input,
		output: output,
		preF:   make([][]complex128, nd),
		postF:  make([][]complex128, nd),
		preB:   make([][]complex128, nd),
		postB:  make([][]complex128, nd),
	}
	for d := 0; d < nd; d++ {
		n := input.Dims()[d]
		dx := input.Delta()[d]
		x0 := input.Zero()[d]
		du := output.Delta()[d]
		u0 := output.Zero()[d]

		t.preF[d] = make([]complex128, n)
		t.postF[d] = make([]complex128, n)
		t.preB[d] = make([]complex128, n)
		t.postB[d] = make([]complex128, n)
		for i := 0; i < n; i++ {
			x := x0 + float64(i)*dx
			t.preF[d][i] = cmplx.Exp(complex(0, -u0*x))
			t.postF[d][i] = complex(dx, 0) * cmplx.Exp(complex(0, -float64(i)*du*x0))
			t.preB[d][i] = cmplx.Exp(complex(0, float64(i)*du*x0))
			t.postB[d][i] = complex(du/(2*math.Pi), 0) * cmplx.Exp(complex(0, u0*x))
		}
	}
	return t, nil
}

// Forward transforms a field on the input grid to the frequency grid.
func (t *FastFourierTransform) Forward(f *field.Field) (*field.Field, error) {
	if len(f.Data) != t.input.Size() {
		return nil, ErrGridSize
	}
	work := append([]complex128(nil), f.Data...)
	dims := t.input.Dims()
	if len(dims) == 1 {
		mulPointwise(work, t.preF[0])
		plan := dspfourier.NewCmplxFFT(dims[0])
		plan.Coefficients(work, work)
		mulPointwise(work, t.postF[0])
	} else {
		applyAxisFactors(work, dims[0], t.preF[0], t.preF[1])
		fftAxes(work, dims[0], dims[1], true)
		applyAxisFactors(work, dims[0], t.postF[0], t.postF[1])
	}
	return field.NewField(work, t.output)
}

// Backward transforms a field on the frequency grid back to the input grid.
func (t *FastFourierTransform) Backward(f *field.Field) (*field.Field, error) {
	if len(f.Data) != t.output.Size() {
		return nil, ErrGridSize
	}
	work := append([]complex128(nil), f.Data...)
	dims := t.input.Dims()
	if len(dims) == 1 {
		mulPointwise(work, t.preB[0])
		plan := dspfourier.NewCmplxFFT(dims[0])
		plan.Sequence(work, work)
		mulPointwise(work, t.postB[0])
	} else {
		applyAxisFactors(work, dims[0], t.preB[0], t.preB[1])
		fftAxes(work, dims[0], dims[1], false)
		applyAxisFactors(work, dims[0], t.postB[0], t.postB[1])
	}
	return field.NewField(work, t.input)
}

// MatrixForward materializes the equivalent dense forward matrix.
func (t *FastFourierTransform) MatrixForward() *mat.CDense {
	fwd, _ := t.cache.get(t.input, t.output)
	return fwd
}

// MatrixBackward materializes the equivalent dense backward matrix.
func (t *FastFourierTransform) MatrixBackward() *mat.CDense {
	_, bwd := t.cache.get(t.input, t.output)
	return bwd
}

// InputGrid returns the grid forward transforms read from.
func (t *FastFourierTransform) InputGrid() *field.Grid { return t.input }

// OutputGrid returns the grid forward transforms produce.
func (t *FastFourierTransform) OutputGrid() *field.Grid { return t.output }

// fftAxes runs an unnormalized complex FFT along both axes of a flattened
// nx by ny array, x varying fastest, rows first and then columns. FFT plans
// are created per call: gonum's CmplxFFT carries scratch state, so sharing
// one across goroutines would race.
func fftAxes(a []complex128, nx, ny int, forward bool) {
	rowFFT := dspfourier.NewCmplxFFT(nx)
	tmp := make([]complex128, nx)
	for iy := 0; iy < ny; iy++ {
		row := a[iy*nx : (iy+1)*nx]
		copy(tmp, row)
		if forward {
			rowFFT.Coefficients(tmp, tmp)
		} else {
			rowFFT.Sequence(tmp, tmp)
		}
		copy(row, tmp)
	}

	colFFT := dspfourier.NewCmplxFFT(ny)
	col := make([]complex128, ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			col[iy] = a[iy*nx+ix]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for iy := 0; iy < ny; iy++ {
			a[iy*nx+ix] = col[iy]
		}
	}
}

// applyAxisFactors multiplies a flattened nx-fastest 2D array by the outer
// product of two per-axis factor vectors.
func applyAxisFactors(a []complex128, nx int, fx, fy []complex128) {
	for iy := range fy {
		row := a[iy*nx : (iy+1)*nx]
		for ix := range fx {
			row[ix] *= fx[ix] * fy[iy]
		}
	}
}

// mulPointwise multiplies dst element-wise by factors.
func mulPointwise(dst, factors []complex128) {
	for i := range dst {
		dst[i] *= factors[i]
	}
}
