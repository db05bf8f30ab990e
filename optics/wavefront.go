package optics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// Wavefront is a scalar electric field sampled on a grid, tagged with the
// vacuum wavelength it oscillates at. Propagators never mutate a wavefront;
// every operation returns a new one.
type Wavefront struct {
	Field      *field.Field
	Wavelength float64
}

// NewWavefront wraps a sampled electric field with its wavelength.
func NewWavefront(f *field.Field, wavelength float64) (*Wavefront, error) {
	if f == nil || f.Grid == nil {
		return nil, fmt.Errorf("%w: wavefront needs a field sampled on a grid", ErrInvalidParameter)
	}
	if wavelength <= 0 {
		return nil, fmt.Errorf("%w: wavelength %g must be positive", ErrInvalidParameter, wavelength)
	}
	return &Wavefront{Field: f, Wavelength: wavelength}, nil
}

// Copy returns a deep copy sharing nothing with the original.
func (w *Wavefront) Copy() *Wavefront {
	return &Wavefront{Field: w.Field.Copy(), Wavelength: w.Wavelength}
}

// Wavenumber returns 2 pi over the wavelength.
func (w *Wavefront) Wavenumber() float64 { return 2 * math.Pi / w.Wavelength }

// Intensity returns the per-sample intensity, E times conj(E).
func (w *Wavefront) Intensity() []float64 {
	out := make([]float64, len(w.Field.Data))
	for i, e := range w.Field.Data {
		out[i] = real(e)*real(e) + imag(e)*imag(e)
	}
	return out
}

// Power returns the per-sample power, intensity times quadrature weight.
func (w *Wavefront) Power() []float64 {
	p := w.Intensity()
	floats.Mul(p, w.Field.Grid.Weights())
	return p
}

// TotalPower integrates the intensity over the grid.
func (w *Wavefront) TotalPower() float64 {
	return floats.Sum(w.Power())
}
