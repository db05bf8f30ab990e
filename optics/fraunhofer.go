// Package optics models scalar wavefronts and their far-field propagation
// between the front and back focal planes of a perfect lens.
//
// The propagation follows the Fraunhofer approximation (Goodman,
// Introduction to Fourier Optics): the field in the back focal plane is the
// Fourier transform of the field in the front focal plane, scaled by the
// wavelength times the focal length and carrying an intrinsic 1/(i f lambda)
// normalization. A FraunhoferPropagator is bound to one wavelength;
// Polychromatic lifts any monochromatic family to arbitrary wavelengths.
package optics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
	"github.com/bob-anderson-ok/fourieroptics/fourier"
)

// Afocal as a focal length selects propagation without a lens: output
// coordinates are angular and the reference focal scale is exactly 1.
const Afocal = -1.0

// FraunhoferParams collects the optical constants of a monochromatic
// propagator. Zero values default to 1, so the zero struct describes a
// unit-focal-length system operating at its unit reference wavelength.
type FraunhoferParams struct {
	// Wavelength0 is the reference wavelength the output grid sampling
	// is laid out for.
	Wavelength0 float64
	// FocalLength is the lens focal length, or Afocal for no lens.
	FocalLength float64
	// Wavelength is the operating wavelength of this instance.
	Wavelength float64
}

// DefaultFraunhoferParams returns unit optical constants.
func DefaultFraunhoferParams() FraunhoferParams {
	return FraunhoferParams{Wavelength0: 1, FocalLength: 1, Wavelength: 1}
}

func (p *FraunhoferParams) normalize() error {
	if p.Wavelength0 == 0 {
		p.Wavelength0 = 1
	}
	if p.FocalLength == 0 {
		p.FocalLength = 1
	}
	if p.Wavelength == 0 {
		p.Wavelength = 1
	}
	if p.Wavelength0 < 0 {
		return fmt.Errorf("%w: reference wavelength %g must be positive", ErrInvalidParameter, p.Wavelength0)
	}
	if p.Wavelength < 0 {
		return fmt.Errorf("%w: wavelength %g must be positive", ErrInvalidParameter, p.Wavelength)
	}
	if p.FocalLength < 0 && p.FocalLength != Afocal {
		return fmt.Errorf("%w: focal length %g must be positive or Afocal", ErrInvalidParameter, p.FocalLength)
	}
	return nil
}

// fLambdaRef is the focal scale at the reference wavelength. Call after
// normalize.
func (p FraunhoferParams) fLambdaRef() float64 {
	if p.FocalLength == Afocal {
		return 1
	}
	return p.Wavelength0 * p.FocalLength
}

// FraunhoferPropagator propagates a wavefront between the front and back
// focal planes of a perfect lens at one fixed wavelength. All state is set
// at construction; instances are safe for concurrent use.
type FraunhoferPropagator struct {
	input  *field.Grid
	output *field.Grid

	// uvGrid is the output grid rescaled to angular frequencies, the grid
	// the Fourier engine actually runs on.
	uvGrid  *field.Grid
	ft      fourier.Transform
	fLambda float64
	norm    complex128
}

var _ Propagator = (*FraunhoferPropagator)(nil)

// NewFraunhofer builds a monochromatic perfect-lens propagator between an
// input plane and an output plane. The incoming wavefront is assumed to sit
// exactly in the front focal plane and is propagated to the back focal
// plane. The Fourier strategy is chosen per grid pair: operating at the
// reference wavelength on the matching focal grid engages the FFT, any
// other wavelength falls back to matrix transforms.
func NewFraunhofer(input, output *field.Grid, p FraunhoferParams) (*FraunhoferPropagator, error) {
	if input == nil || output == nil {
		return nil, fmt.Errorf("%w: propagator requires input and output grids", ErrInvalidParameter)
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}

	fLambda := p.fLambdaRef() * p.Wavelength / p.Wavelength0
	uvGrid := output.Scaled(2 * math.Pi / fLambda)
	ft, err := fourier.New(input, uvGrid)
	if err != nil {
		return nil, err
	}
	return &FraunhoferPropagator{
		input:   input,
		output:  output,
		uvGrid:  uvGrid,
		ft:      ft,
		fLambda: fLambda,
		norm:    1 / complex(0, fLambda),
	}, nil
}

// Forward propagates a wavefront from the front to the back focal plane.
// The wavefront's own wavelength tag is carried through unchanged; matching
// it to the construction wavelength is the caller's concern (Polychromatic
// does exactly that).
func (p *FraunhoferPropagator) Forward(wf *Wavefront) (*Wavefront, error) {
	if wf == nil || wf.Field == nil {
		return nil, fmt.Errorf("%w: nil wavefront", ErrInvalidParameter)
	}
	if wf.Field.Size() != p.input.Size() {
		return nil, fmt.Errorf("%w: wavefront has %d samples, input plane has %d",
			ErrGridMismatch, wf.Field.Size(), p.input.Size())
	}
	spectrum, err := p.ft.Forward(wf.Field)
	if err != nil {
		return nil, err
	}
	out, err := field.NewField(spectrum.Scaled(p.norm).Data, p.output)
	if err != nil {
		return nil, err
	}
	return &Wavefront{Field: out, Wavelength: wf.Wavelength}, nil
}

// Backward propagates a wavefront from the back focal plane back to the
// front one, inverting Forward. On the natural focal grid at the reference
// wavelength the inversion is numerically exact; elsewhere it carries the
// usual discretization error of the underlying transform.
func (p *FraunhoferPropagator) Backward(wf *Wavefront) (*Wavefront, error) {
	if wf == nil || wf.Field == nil {
		return nil, fmt.Errorf("%w: nil wavefront", ErrInvalidParameter)
	}
	if wf.Field.Size() != p.output.Size() {
		return nil, fmt.Errorf("%w: wavefront has %d samples, output plane has %d",
			ErrGridMismatch, wf.Field.Size(), p.output.Size())
	}
	back, err := p.ft.Backward(wf.Field)
	if err != nil {
		return nil, err
	}
	return &Wavefront{Field: back.Scaled(1 / p.norm), Wavelength: wf.Wavelength}, nil
}

// MatrixForward materializes forward propagation as a dense matrix of shape
// (output size, input size). Both parameters are ignored: the matrix always
// describes the construction-time grids and wavelength. They are part of
// the signature so that wavelength-dispatching wrappers satisfy the same
// interface.
func (p *FraunhoferPropagator) MatrixForward(_ *field.Grid, _ float64) (*mat.CDense, error) {
	return scaleCDense(p.ft.MatrixForward(), p.norm), nil
}

// MatrixBackward materializes backward propagation as a dense matrix of
// shape (input size, output size). Parameters are ignored, as in
// MatrixForward.
func (p *FraunhoferPropagator) MatrixBackward(_ *field.Grid, _ float64) (*mat.CDense, error) {
	return scaleCDense(p.ft.MatrixBackward(), 1/p.norm), nil
}

// InputGrid returns the front focal plane sampling.
func (p *FraunhoferPropagator) InputGrid() *field.Grid { return p.input }

// OutputGrid returns the back focal plane sampling.
func (p *FraunhoferPropagator) OutputGrid() *field.Grid { return p.output }

// FocalScale returns the wavelength times focal length product governing
// the output plane scale.
func (p *FraunhoferPropagator) FocalScale() float64 { return p.fLambda }

// FocalGrid returns the natural back-focal-plane sampling for a pupil grid:
// the FFT-conjugate frequency grid rescaled to physical focal-plane units.
// A propagator built between the pupil and this grid runs on the FFT fast
// path at the reference wavelength.
func FocalGrid(pupil *field.Grid, wavelength0, focalLength float64) (*field.Grid, error) {
	p := FraunhoferParams{Wavelength0: wavelength0, FocalLength: focalLength}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	conj, err := fourier.FFTGrid(pupil)
	if err != nil {
		return nil, err
	}
	return conj.Scaled(p.fLambdaRef() / (2 * math.Pi)), nil
}

// scaleCDense returns m scaled by c, leaving the engine's cached matrix
// untouched.
func scaleCDense(m *mat.CDense, c complex128) *mat.CDense {
	rows, cols := m.Dims()
	out := mat.NewCDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(i, j)*c)
		}
	}
	return out
}
