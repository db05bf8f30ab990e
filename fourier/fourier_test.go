package fourier_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
	"github.com/bob-anderson-ok/fourieroptics/fourier"
)

func mustUniform(t *testing.T, dims []int, extent []float64) *field.Grid {
	t.Helper()
	g, err := field.UniformGrid(dims, extent, nil)
	require.NoError(t, err)
	return g
}

func mustFFTGrid(t *testing.T, in *field.Grid) *field.Grid {
	t.Helper()
	g, err := fourier.FFTGrid(in)
	require.NoError(t, err)
	return g
}

// testPattern fills a deterministic, non-symmetric complex field so that
// ordering and phase bugs cannot cancel out.
func testPattern(n int) []complex128 {
	data := make([]complex128, n)
	for k := range data {
		data[k] = cmplx.Exp(complex(0, 0.7*float64(k))) * complex(1+0.05*float64(k), -0.3)
	}
	return data
}

func requireClose(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, real(want[i]), real(got[i]), tol, "sample %d (real)", i)
		require.InDelta(t, imag(want[i]), imag(got[i]), tol, "sample %d (imag)", i)
	}
}

// directForward evaluates the forward sum term by term, independently of any
// transform strategy.
func directForward(in, out *field.Grid, data []complex128) []complex128 {
	w := in.Weights()
	coordsIn := make([][]float64, in.NumDims())
	coordsOut := make([][]float64, in.NumDims())
	for d := range coordsIn {
		coordsIn[d] = in.Coords(d)
		coordsOut[d] = out.Coords(d)
	}
	res := make([]complex128, out.Size())
	for k := range res {
		var sum complex128
		for j := range data {
			var phase float64
			for d := range coordsIn {
				phase += coordsOut[d][k] * coordsIn[d][j]
			}
			sum += data[j] * cmplx.Exp(complex(0, -phase)) * complex(w[j], 0)
		}
		res[k] = sum
	}
	return res
}

func TestFFTGridGeometry(t *testing.T) {
	even := mustFFTGrid(t, mustUniform(t, []int{4}, []float64{2}))
	require.InDelta(t, math.Pi, even.Delta()[0], 1e-15)
	require.InDelta(t, -2*math.Pi, even.Zero()[0], 1e-15)
	require.InDelta(t, 0, even.Axis(0)[2], 1e-15)

	odd := mustFFTGrid(t, mustUniform(t, []int{5}, []float64{5}))
	require.InDelta(t, 2*math.Pi/5, odd.Delta()[0], 1e-15)
	require.InDelta(t, 0, odd.Axis(0)[2], 1e-15)

	pts, err := field.NewUnstructured([][]float64{{0, 0.3, 1.1}})
	require.NoError(t, err)
	_, err = fourier.FFTGrid(pts)
	require.ErrorIs(t, err, fourier.ErrNotRegular)
}

func TestNewSelectsStrategy(t *testing.T) {
	in := mustUniform(t, []int{8}, []float64{2})
	conj := mustFFTGrid(t, in)

	ft, err := fourier.New(in, conj)
	require.NoError(t, err)
	require.IsType(t, &fourier.FastFourierTransform{}, ft)

	zoomed, err := fourier.New(in, conj.Scaled(0.25))
	require.NoError(t, err)
	require.IsType(t, &fourier.MatrixFourierTransform{}, zoomed)

	pts, err := field.NewUnstructured([][]float64{{-0.4, 0.1, 0.9}})
	require.NoError(t, err)
	naive, err := fourier.New(pts, conj)
	require.NoError(t, err)
	require.IsType(t, &fourier.NaiveFourierTransform{}, naive)

	_, err = fourier.New(nil, conj)
	require.ErrorIs(t, err, fourier.ErrNilGrid)

	_, err = fourier.New(in, mustUniform(t, []int{4, 4}, []float64{1, 1}))
	require.ErrorIs(t, err, fourier.ErrDims)
}

func TestForwardMatchesDirectSum(t *testing.T) {
	in := mustUniform(t, []int{4}, []float64{2})
	conj := mustFFTGrid(t, in)

	fft, err := fourier.New(in, conj)
	require.NoError(t, err)
	mft, err := fourier.NewMatrixFourierTransform(in, conj)
	require.NoError(t, err)
	naive, err := fourier.NewNaiveFourierTransform(in, conj)
	require.NoError(t, err)

	for _, ft := range []fourier.Transform{fft, mft, naive} {
		got, err := ft.Forward(field.NewUniformField(in, 1))
		require.NoError(t, err)

		// Four unit samples weighted 0.5 each: everything cancels except
		// the zero-frequency bin, which sums to 2.
		requireClose(t, []complex128{0, 0, 2, 0}, got.Data, 1e-12)
		requireClose(t, directForward(in, conj, field.NewUniformField(in, 1).Data), got.Data, 1e-12)
	}
}

func TestStrategiesAgree1D(t *testing.T) {
	in := mustUniform(t, []int{16}, []float64{2})
	conj := mustFFTGrid(t, in)
	f, err := field.NewField(testPattern(in.Size()), in)
	require.NoError(t, err)

	fft, err := fourier.NewFastFourierTransform(in, conj)
	require.NoError(t, err)
	mft, err := fourier.NewMatrixFourierTransform(in, conj)
	require.NoError(t, err)
	naive, err := fourier.NewNaiveFourierTransform(in, conj)
	require.NoError(t, err)

	want, err := naive.Forward(f)
	require.NoError(t, err)
	gotFFT, err := fft.Forward(f)
	require.NoError(t, err)
	gotMFT, err := mft.Forward(f)
	require.NoError(t, err)
	requireClose(t, want.Data, gotFFT.Data, 1e-10)
	requireClose(t, want.Data, gotMFT.Data, 1e-10)

	wantB, err := naive.Backward(want)
	require.NoError(t, err)
	gotB, err := fft.Backward(gotFFT)
	require.NoError(t, err)
	requireClose(t, wantB.Data, gotB.Data, 1e-10)
}

func TestStrategiesAgree2D(t *testing.T) {
	// Unequal axis lengths catch transposed sample ordering.
	in := mustUniform(t, []int{4, 3}, []float64{2, 1.5})
	conj := mustFFTGrid(t, in)
	f, err := field.NewField(testPattern(in.Size()), in)
	require.NoError(t, err)

	fft, err := fourier.NewFastFourierTransform(in, conj)
	require.NoError(t, err)
	mft, err := fourier.NewMatrixFourierTransform(in, conj)
	require.NoError(t, err)
	naive, err := fourier.NewNaiveFourierTransform(in, conj)
	require.NoError(t, err)

	want, err := naive.Forward(f)
	require.NoError(t, err)
	gotFFT, err := fft.Forward(f)
	require.NoError(t, err)
	gotMFT, err := mft.Forward(f)
	require.NoError(t, err)
	requireClose(t, want.Data, gotFFT.Data, 1e-10)
	requireClose(t, want.Data, gotMFT.Data, 1e-10)
	requireClose(t, directForward(in, conj, f.Data), gotFFT.Data, 1e-10)
}

func TestRoundTrip(t *testing.T) {
	// On a conjugate grid pair every strategy inverts exactly, the dense
	// ones included.
	for _, dims := range [][]int{{8}, {5}, {8, 8}, {6, 5}} {
		extent := make([]float64, len(dims))
		for d := range extent {
			extent[d] = 1 + 0.5*float64(d)
		}
		in := mustUniform(t, dims, extent)
		conj := mustFFTGrid(t, in)
		f, err := field.NewField(testPattern(in.Size()), in)
		require.NoError(t, err)

		fft, err := fourier.New(in, conj)
		require.NoError(t, err)
		mft, err := fourier.NewMatrixFourierTransform(in, conj)
		require.NoError(t, err)
		naive, err := fourier.NewNaiveFourierTransform(in, conj)
		require.NoError(t, err)

		for _, ft := range []fourier.Transform{fft, mft, naive} {
			fwd, err := ft.Forward(f)
			require.NoError(t, err)
			back, err := ft.Backward(fwd)
			require.NoError(t, err)
			requireClose(t, f.Data, back.Data, 1e-11)
		}
	}
}

func TestZoomedWindowMatchesNaive(t *testing.T) {
	in := mustUniform(t, []int{8, 8}, []float64{2, 2})
	zoom := mustFFTGrid(t, in).Scaled(0.3)

	mft, err := fourier.NewMatrixFourierTransform(in, zoom)
	require.NoError(t, err)
	naive, err := fourier.NewNaiveFourierTransform(in, zoom)
	require.NoError(t, err)

	f, err := field.NewField(testPattern(in.Size()), in)
	require.NoError(t, err)
	want, err := naive.Forward(f)
	require.NoError(t, err)
	got, err := mft.Forward(f)
	require.NoError(t, err)
	requireClose(t, want.Data, got.Data, 1e-10)

	wantB, err := naive.Backward(want)
	require.NoError(t, err)
	gotB, err := mft.Backward(got)
	require.NoError(t, err)
	requireClose(t, wantB.Data, gotB.Data, 1e-10)
}

func TestMatrixMatchesOperator(t *testing.T) {
	in := mustUniform(t, []int{6}, []float64{3})
	conj := mustFFTGrid(t, in)
	f, err := field.NewField(testPattern(in.Size()), in)
	require.NoError(t, err)

	for _, ft := range []fourier.Transform{
		func() fourier.Transform {
			x, err := fourier.NewFastFourierTransform(in, conj)
			require.NoError(t, err)
			return x
		}(),
		func() fourier.Transform {
			x, err := fourier.NewMatrixFourierTransform(in, conj)
			require.NoError(t, err)
			return x
		}(),
		func() fourier.Transform {
			x, err := fourier.NewNaiveFourierTransform(in, conj)
			require.NoError(t, err)
			return x
		}(),
	} {
		want, err := ft.Forward(f)
		require.NoError(t, err)

		var prod mat.CDense
		prod.Mul(ft.MatrixForward(), mat.NewCDense(len(f.Data), 1, f.Data))
		got := make([]complex128, conj.Size())
		for k := range got {
			got[k] = prod.At(k, 0)
		}
		requireClose(t, want.Data, got, 1e-10)
	}
}

func TestMatrixIsCached(t *testing.T) {
	in := mustUniform(t, []int{4}, []float64{2})
	ft, err := fourier.NewFastFourierTransform(in, mustFFTGrid(t, in))
	require.NoError(t, err)
	require.Same(t, ft.MatrixForward(), ft.MatrixForward())
	require.Same(t, ft.MatrixBackward(), ft.MatrixBackward())
}

func TestConstructorAndSizeErrors(t *testing.T) {
	in := mustUniform(t, []int{4}, []float64{2})
	conj := mustFFTGrid(t, in)

	_, err := fourier.NewFastFourierTransform(in, conj.Scaled(0.5))
	require.ErrorIs(t, err, fourier.ErrNotConjugate)

	pts, err := field.NewUnstructured([][]float64{{0, 1, 2}})
	require.NoError(t, err)
	_, err = fourier.NewMatrixFourierTransform(pts, conj)
	require.ErrorIs(t, err, fourier.ErrNotSeparable)
	_, err = fourier.NewFastFourierTransform(pts, conj)
	require.ErrorIs(t, err, fourier.ErrNotRegular)

	ft, err := fourier.New(in, conj)
	require.NoError(t, err)
	other := field.NewUniformField(mustUniform(t, []int{3}, []float64{1}), 1)
	_, err = ft.Forward(other)
	require.ErrorIs(t, err, fourier.ErrGridSize)
	_, err = ft.Backward(other)
	require.ErrorIs(t, err, fourier.ErrGridSize)
}
