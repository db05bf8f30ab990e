package optics

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// Propagator is the capability set shared by every propagator in this
// package, monochromatic or not.
type Propagator interface {
	// Forward propagates a wavefront from the input plane to the output
	// plane.
	Forward(wf *Wavefront) (*Wavefront, error)
	// Backward propagates a wavefront from the output plane back to the
	// input plane.
	Backward(wf *Wavefront) (*Wavefront, error)
	// MatrixForward materializes forward propagation as a dense matrix.
	// Monochromatic implementations ignore both parameters; wrappers
	// dispatch on the wavelength.
	MatrixForward(inputGrid *field.Grid, wavelength float64) (*mat.CDense, error)
	// MatrixBackward is the backward counterpart of MatrixForward.
	MatrixBackward(inputGrid *field.Grid, wavelength float64) (*mat.CDense, error)
}

// polyCacheCap bounds the number of monochromatic instances a Polychromatic
// keeps. The oldest instance is evicted first.
const polyCacheCap = 50

// wavelengthTol is the relative wavelength difference under which two
// wavelengths share one monochromatic instance.
const wavelengthTol = 1e-6

// Polychromatic lifts a family of single-wavelength propagators to a
// propagator usable at any wavelength. Instances are built on the first
// encounter of a wavelength and cached; the cache is the only mutable state
// and is mutex-guarded, so a Polychromatic is safe for concurrent use.
type Polychromatic[P Propagator] struct {
	build func(wavelength float64) (P, error)

	mu          sync.Mutex
	wavelengths []float64
	instances   []P
}

var _ Propagator = (*Polychromatic[*FraunhoferPropagator])(nil)

// NewPolychromatic wraps a monochromatic constructor. The constructor is
// called once per distinct wavelength, lazily.
func NewPolychromatic[P Propagator](build func(wavelength float64) (P, error)) *Polychromatic[P] {
	return &Polychromatic[P]{build: build}
}

// Instance returns the monochromatic propagator for a wavelength, reusing
// the nearest cached instance within tolerance and building a fresh one
// otherwise.
func (p *Polychromatic[P]) Instance(wavelength float64) (P, error) {
	var zero P
	if wavelength <= 0 {
		return zero, fmt.Errorf("%w: wavelength %g must be positive", ErrInvalidParameter, wavelength)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	best, bestDiff := -1, math.Inf(1)
	for i, wl := range p.wavelengths {
		if d := math.Abs(wavelength - wl); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best >= 0 && bestDiff/wavelength < wavelengthTol {
		return p.instances[best], nil
	}

	inst, err := p.build(wavelength)
	if err != nil {
		return zero, err
	}
	p.wavelengths = append(p.wavelengths, wavelength)
	p.instances = append(p.instances, inst)
	if len(p.instances) > polyCacheCap {
		p.wavelengths = p.wavelengths[1:]
		p.instances = p.instances[1:]
	}
	return inst, nil
}

// Forward propagates a wavefront with the instance matching its wavelength.
func (p *Polychromatic[P]) Forward(wf *Wavefront) (*Wavefront, error) {
	if wf == nil {
		return nil, fmt.Errorf("%w: nil wavefront", ErrInvalidParameter)
	}
	inst, err := p.Instance(wf.Wavelength)
	if err != nil {
		return nil, err
	}
	return inst.Forward(wf)
}

// Backward propagates a wavefront backward with the instance matching its
// wavelength.
func (p *Polychromatic[P]) Backward(wf *Wavefront) (*Wavefront, error) {
	if wf == nil {
		return nil, fmt.Errorf("%w: nil wavefront", ErrInvalidParameter)
	}
	inst, err := p.Instance(wf.Wavelength)
	if err != nil {
		return nil, err
	}
	return inst.Backward(wf)
}

// MatrixForward materializes forward propagation at the given wavelength.
// Unlike the monochromatic implementations, the wavelength here selects the
// instance; the grid parameter is still ignored.
func (p *Polychromatic[P]) MatrixForward(inputGrid *field.Grid, wavelength float64) (*mat.CDense, error) {
	inst, err := p.Instance(wavelength)
	if err != nil {
		return nil, err
	}
	return inst.MatrixForward(inputGrid, wavelength)
}

// MatrixBackward materializes backward propagation at the given wavelength.
func (p *Polychromatic[P]) MatrixBackward(inputGrid *field.Grid, wavelength float64) (*mat.CDense, error) {
	inst, err := p.Instance(wavelength)
	if err != nil {
		return nil, err
	}
	return inst.MatrixBackward(inputGrid, wavelength)
}

// NewFraunhoferPolychromatic binds the Fraunhofer constructor over a fixed
// grid pair and optical constants, leaving only the wavelength free.
func NewFraunhoferPolychromatic(input, output *field.Grid, wavelength0, focalLength float64) *Polychromatic[*FraunhoferPropagator] {
	return NewPolychromatic(func(wavelength float64) (*FraunhoferPropagator, error) {
		return NewFraunhofer(input, output, FraunhoferParams{
			Wavelength0: wavelength0,
			FocalLength: focalLength,
			Wavelength:  wavelength,
		})
	})
}

// SpectralComponent pairs a monochromatic wavefront with its spectral
// weight.
type SpectralComponent struct {
	Wavefront *Wavefront
	Weight    float64
}

// SpectralWavefront is a weighted set of monochromatic wavefronts sampled
// on a common grid, a discretized spectrum.
type SpectralWavefront struct {
	Components []SpectralComponent
}

// NewSpectralWavefront validates that every component carries a wavefront
// and a positive weight, and that all components share one sample count.
func NewSpectralWavefront(components []SpectralComponent) (*SpectralWavefront, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: spectral wavefront needs at least one component", ErrInvalidParameter)
	}
	n := -1
	for i, c := range components {
		if c.Wavefront == nil || c.Wavefront.Field == nil {
			return nil, fmt.Errorf("%w: spectral component %d has no wavefront", ErrInvalidParameter, i)
		}
		if c.Weight <= 0 {
			return nil, fmt.Errorf("%w: spectral component %d has weight %g", ErrInvalidParameter, i, c.Weight)
		}
		if n < 0 {
			n = c.Wavefront.Field.Size()
		} else if c.Wavefront.Field.Size() != n {
			return nil, fmt.Errorf("%w: spectral components sampled on different grids", ErrGridMismatch)
		}
	}
	return &SpectralWavefront{Components: components}, nil
}

// Intensity returns the weight-summed intensity of all components.
// Components add incoherently; there is no cross-wavelength interference.
func (s *SpectralWavefront) Intensity() []float64 {
	total := make([]float64, s.Components[0].Wavefront.Field.Size())
	for _, c := range s.Components {
		floats.AddScaled(total, c.Weight, c.Wavefront.Intensity())
	}
	return total
}

// ForwardSpectrum propagates every spectral component and recombines the
// results with their weights preserved.
func (p *Polychromatic[P]) ForwardSpectrum(sw *SpectralWavefront) (*SpectralWavefront, error) {
	return p.propagateSpectrum(sw, p.Forward)
}

// BackwardSpectrum propagates every spectral component backward,
// preserving weights.
func (p *Polychromatic[P]) BackwardSpectrum(sw *SpectralWavefront) (*SpectralWavefront, error) {
	return p.propagateSpectrum(sw, p.Backward)
}

func (p *Polychromatic[P]) propagateSpectrum(sw *SpectralWavefront, op func(*Wavefront) (*Wavefront, error)) (*SpectralWavefront, error) {
	if sw == nil || len(sw.Components) == 0 {
		return nil, fmt.Errorf("%w: empty spectral wavefront", ErrInvalidParameter)
	}
	out := make([]SpectralComponent, len(sw.Components))
	for i, c := range sw.Components {
		wf, err := op(c.Wavefront)
		if err != nil {
			return nil, fmt.Errorf("spectral component %d (wavelength %g): %w", i, c.Wavefront.Wavelength, err)
		}
		out[i] = SpectralComponent{Wavefront: wf, Weight: c.Weight}
	}
	return &SpectralWavefront{Components: out}, nil
}
