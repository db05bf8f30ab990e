package optics_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
	"github.com/bob-anderson-ok/fourieroptics/fourier"
	"github.com/bob-anderson-ok/fourieroptics/optics"
)

func mustGrid(t *testing.T, dims []int, extent []float64) *field.Grid {
	t.Helper()
	g, err := field.UniformGrid(dims, extent, nil)
	require.NoError(t, err)
	return g
}

func mustFocal(t *testing.T, pupil *field.Grid, wavelength0, focalLength float64) *field.Grid {
	t.Helper()
	g, err := optics.FocalGrid(pupil, wavelength0, focalLength)
	require.NoError(t, err)
	return g
}

func mustWavefront(t *testing.T, f *field.Field, wavelength float64) *optics.Wavefront {
	t.Helper()
	wf, err := optics.NewWavefront(f, wavelength)
	require.NoError(t, err)
	return wf
}

func requireClose(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, real(want[i]), real(got[i]), tol, "sample %d (real)", i)
		require.InDelta(t, imag(want[i]), imag(got[i]), tol, "sample %d (imag)", i)
	}
}

// pupilPattern builds a deterministic non-symmetric field on a grid.
func pupilPattern(t *testing.T, g *field.Grid) *field.Field {
	t.Helper()
	data := make([]complex128, g.Size())
	for k := range data {
		data[k] = cmplx.Exp(complex(0, 0.9*float64(k))) * complex(1+0.02*float64(k), 0.4)
	}
	f, err := field.NewField(data, g)
	require.NoError(t, err)
	return f
}

func TestForwardMatchesAnalyticValues(t *testing.T) {
	pupil := mustGrid(t, []int{4}, []float64{2})
	focal := mustFocal(t, pupil, 1, 1)

	prop, err := optics.NewFraunhofer(pupil, focal, optics.DefaultFraunhoferParams())
	require.NoError(t, err)

	out, err := prop.Forward(mustWavefront(t, field.NewUniformField(pupil, 1), 1))
	require.NoError(t, err)

	// Four unit samples weighted 0.5 each: only the zero-frequency bin
	// survives, scaled by 1/(i f lambda) = -i.
	requireClose(t, []complex128{0, 0, complex(0, -2), 0}, out.Field.Data, 1e-12)

	// Cross-check every bin against the transform sum written out long-hand.
	x := pupil.Axis(0)
	w := pupil.AxisWeights(0)
	u := focal.Axis(0)
	want := make([]complex128, len(u))
	for k := range u {
		var sum complex128
		for j := range x {
			sum += cmplx.Exp(complex(0, -2*math.Pi*u[k]*x[j])) * complex(w[j], 0)
		}
		want[k] = sum * complex(0, -1)
	}
	requireClose(t, want, out.Field.Data, 1e-12)
}

func TestRoundTrip(t *testing.T) {
	pupil := mustGrid(t, []int{8, 8}, []float64{1, 1})
	focal := mustFocal(t, pupil, 1, 1)
	prop, err := optics.NewFraunhofer(pupil, focal, optics.DefaultFraunhoferParams())
	require.NoError(t, err)

	wf := mustWavefront(t, pupilPattern(t, pupil), 1)
	fwd, err := prop.Forward(wf)
	require.NoError(t, err)
	require.Equal(t, wf.Wavelength, fwd.Wavelength)

	back, err := prop.Backward(fwd)
	require.NoError(t, err)
	requireClose(t, wf.Field.Data, back.Field.Data, 1e-11)
}

func TestLinearity(t *testing.T) {
	pupil := mustGrid(t, []int{8, 8}, []float64{1, 1})
	focal := mustFocal(t, pupil, 1, 1)
	prop, err := optics.NewFraunhofer(pupil, focal, optics.DefaultFraunhoferParams())
	require.NoError(t, err)

	f := pupilPattern(t, pupil)
	g, err := optics.GaussianBeam(pupil, 0.3)
	require.NoError(t, err)
	a := complex(2, -1)
	b := complex(0.5, 0.25)

	combined, err := field.Add(f.Scaled(a), g.Scaled(b))
	require.NoError(t, err)
	lhs, err := prop.Forward(mustWavefront(t, combined, 1))
	require.NoError(t, err)

	pf, err := prop.Forward(mustWavefront(t, f, 1))
	require.NoError(t, err)
	pg, err := prop.Forward(mustWavefront(t, g, 1))
	require.NoError(t, err)
	rhs, err := field.Add(pf.Field.Scaled(a), pg.Field.Scaled(b))
	require.NoError(t, err)

	requireClose(t, rhs.Data, lhs.Field.Data, 1e-10)
}

func TestMatrixMatchesOperator(t *testing.T) {
	pupil := mustGrid(t, []int{6}, []float64{3})
	focal := mustFocal(t, pupil, 1, 2)
	prop, err := optics.NewFraunhofer(pupil, focal, optics.FraunhoferParams{FocalLength: 2})
	require.NoError(t, err)

	f := pupilPattern(t, pupil)
	fwd, err := prop.Forward(mustWavefront(t, f, 1))
	require.NoError(t, err)

	// The parameters are ignored; pass junk to prove it.
	m, err := prop.MatrixForward(nil, -123)
	require.NoError(t, err)
	var prod mat.CDense
	prod.Mul(m, mat.NewCDense(len(f.Data), 1, f.Data))
	got := make([]complex128, focal.Size())
	for k := range got {
		got[k] = prod.At(k, 0)
	}
	requireClose(t, fwd.Field.Data, got, 1e-10)

	back, err := prop.Backward(fwd)
	require.NoError(t, err)
	mb, err := prop.MatrixBackward(nil, 0)
	require.NoError(t, err)
	var prodB mat.CDense
	prodB.Mul(mb, mat.NewCDense(len(fwd.Field.Data), 1, fwd.Field.Data))
	gotB := make([]complex128, pupil.Size())
	for j := range gotB {
		gotB[j] = prodB.At(j, 0)
	}
	requireClose(t, back.Field.Data, gotB, 1e-10)
}

func TestWavelengthFocalLengthInterchange(t *testing.T) {
	pupil := mustGrid(t, []int{8}, []float64{2})
	focal := mustFocal(t, pupil, 1, 1)

	// Doubling the wavelength and doubling the focal length set the same
	// focal scale and must propagate identically.
	longWave, err := optics.NewFraunhofer(pupil, focal, optics.FraunhoferParams{Wavelength: 2})
	require.NoError(t, err)
	longLens, err := optics.NewFraunhofer(pupil, focal, optics.FraunhoferParams{FocalLength: 2})
	require.NoError(t, err)
	require.Equal(t, 2.0, longWave.FocalScale())
	require.Equal(t, 2.0, longLens.FocalScale())

	wf := mustWavefront(t, pupilPattern(t, pupil), 2)
	a, err := longWave.Forward(wf)
	require.NoError(t, err)
	b, err := longLens.Forward(wf)
	require.NoError(t, err)
	requireClose(t, a.Field.Data, b.Field.Data, 1e-12)
}

func TestAfocalMatchesUnitFocal(t *testing.T) {
	pupil := mustGrid(t, []int{8}, []float64{2})
	focal := mustFocal(t, pupil, 1, optics.Afocal)

	noLens, err := optics.NewFraunhofer(pupil, focal, optics.FraunhoferParams{FocalLength: optics.Afocal})
	require.NoError(t, err)
	unit, err := optics.NewFraunhofer(pupil, focal, optics.DefaultFraunhoferParams())
	require.NoError(t, err)
	require.Equal(t, 1.0, noLens.FocalScale())

	wf := mustWavefront(t, pupilPattern(t, pupil), 1)
	a, err := noLens.Forward(wf)
	require.NoError(t, err)
	b, err := unit.Forward(wf)
	require.NoError(t, err)
	require.Equal(t, b.Field.Data, a.Field.Data)
}

func TestInstanceIndependence(t *testing.T) {
	params := optics.FraunhoferParams{Wavelength0: 0.5, FocalLength: 3, Wavelength: 0.5}

	// Same construction parameters through distinct grid objects: outputs
	// must match bit for bit, with no hidden global state.
	pupil1 := mustGrid(t, []int{8, 8}, []float64{1, 1})
	focal1 := mustFocal(t, pupil1, 0.5, 3)
	pupil2 := mustGrid(t, []int{8, 8}, []float64{1, 1})
	focal2 := mustFocal(t, pupil2, 0.5, 3)

	p1, err := optics.NewFraunhofer(pupil1, focal1, params)
	require.NoError(t, err)
	p2, err := optics.NewFraunhofer(pupil2, focal2, params)
	require.NoError(t, err)

	out1, err := p1.Forward(mustWavefront(t, pupilPattern(t, pupil1), 0.5))
	require.NoError(t, err)
	out2, err := p2.Forward(mustWavefront(t, pupilPattern(t, pupil2), 0.5))
	require.NoError(t, err)
	require.Equal(t, out1.Field.Data, out2.Field.Data)
}

func TestGridsSharedNotCopied(t *testing.T) {
	pupil := mustGrid(t, []int{8}, []float64{2})
	focal := mustFocal(t, pupil, 1, 1)
	prop, err := optics.NewFraunhofer(pupil, focal, optics.DefaultFraunhoferParams())
	require.NoError(t, err)

	// The propagator holds the caller's grid objects, it does not copy them.
	require.Same(t, pupil, prop.InputGrid())
	require.Same(t, focal, prop.OutputGrid())
}

func TestForwardConservesPower(t *testing.T) {
	pupil := mustGrid(t, []int{16, 16}, []float64{1, 1})
	focal := mustFocal(t, pupil, 0.5, 3)
	prop, err := optics.NewFraunhofer(pupil, focal,
		optics.FraunhoferParams{Wavelength0: 0.5, FocalLength: 3, Wavelength: 0.5})
	require.NoError(t, err)

	ap, err := optics.CircularAperture(pupil, 0.7)
	require.NoError(t, err)
	wf := mustWavefront(t, ap, 0.5)

	out, err := prop.Forward(wf)
	require.NoError(t, err)
	require.InEpsilon(t, wf.TotalPower(), out.TotalPower(), 1e-10)
}

func TestParameterValidation(t *testing.T) {
	pupil := mustGrid(t, []int{4}, []float64{2})
	focal := mustFocal(t, pupil, 1, 1)

	cases := []struct {
		name   string
		params optics.FraunhoferParams
	}{
		{"negative reference wavelength", optics.FraunhoferParams{Wavelength0: -1}},
		{"negative wavelength", optics.FraunhoferParams{Wavelength: -2}},
		{"negative focal length", optics.FraunhoferParams{FocalLength: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := optics.NewFraunhofer(pupil, focal, tc.params)
			require.ErrorIs(t, err, optics.ErrInvalidParameter)
		})
	}

	_, err := optics.NewFraunhofer(nil, focal, optics.DefaultFraunhoferParams())
	require.ErrorIs(t, err, optics.ErrInvalidParameter)

	_, err = optics.NewWavefront(field.NewUniformField(pupil, 1), 0)
	require.ErrorIs(t, err, optics.ErrInvalidParameter)

	pts, err := field.NewUnstructured([][]float64{{0, 0.5, 2}})
	require.NoError(t, err)
	_, err = optics.FocalGrid(pts, 1, 1)
	require.ErrorIs(t, err, fourier.ErrNotRegular)
}

func TestGridMismatch(t *testing.T) {
	pupil := mustGrid(t, []int{8}, []float64{2})
	focal := mustFocal(t, pupil, 1, 1)
	prop, err := optics.NewFraunhofer(pupil, focal, optics.DefaultFraunhoferParams())
	require.NoError(t, err)

	other := mustWavefront(t, field.NewUniformField(mustGrid(t, []int{5}, []float64{1}), 1), 1)
	_, err = prop.Forward(other)
	require.ErrorIs(t, err, optics.ErrGridMismatch)
	_, err = prop.Backward(other)
	require.ErrorIs(t, err, optics.ErrGridMismatch)
}

func TestFocalGridGeometry(t *testing.T) {
	pupil := mustGrid(t, []int{32, 32}, []float64{1, 1})
	focal := mustFocal(t, pupil, 2, 1)

	// Focal-plane sample spacing is f lambda over the pupil extent.
	require.InDelta(t, 2.0, focal.Delta()[0], 1e-12)
	require.InDelta(t, 2.0, focal.Delta()[1], 1e-12)
	require.Equal(t, pupil.Dims(), focal.Dims())
	require.InDelta(t, 0, focal.Axis(0)[16], 1e-12)
}
