package fourier

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// NaiveFourierTransform evaluates the transform sums directly through a full
// dense matrix pair. It works for every grid pair, including unstructured
// point clouds, at O(N^2) cost. The matrices are built eagerly at
// construction; apply calls are plain matrix-vector products.
type NaiveFourierTransform struct {
	input  *field.Grid
	output *field.Grid
	fwd    *mat.CDense
	bwd    *mat.CDense
}

// NewNaiveFourierTransform builds the dense matrix pair for any grid pair.
func NewNaiveFourierTransform(input, output *field.Grid) (*NaiveFourierTransform, error) {
	if input == nil || output == nil {
		return nil, ErrNilGrid
	}
	if input.NumDims() != output.NumDims() {
		return nil, ErrDims
	}
	return &NaiveFourierTransform{
		input:  input,
		output: output,
		fwd:    denseForward(input, output),
		bwd:    denseBackward(input, output),
	}, nil
}

// Forward transforms a field on the input grid to the output grid.
func (t *NaiveFourierTransform) Forward(f *field.Field) (*field.Field, error) {
	if len(f.Data) != t.input.Size() {
		return nil, ErrGridSize
	}
	return field.NewField(applyDense(t.fwd, f.Data), t.output)
}

// Backward transforms a field on the output grid back to the input grid.
// On grids without meaningful quadrature weights (unstructured point sets)
// this is the adjoint-style sum, not a numerical inverse of Forward.
func (t *NaiveFourierTransform) Backward(f *field.Field) (*field.Field, error) {
	if len(f.Data) != t.output.Size() {
		return nil, ErrGridSize
	}
	return field.NewField(applyDense(t.bwd, f.Data), t.input)
}

// MatrixForward returns the dense forward matrix. Read-only.
func (t *NaiveFourierTransform) MatrixForward() *mat.CDense { return t.fwd }

// MatrixBackward returns the dense backward matrix. Read-only.
func (t *NaiveFourierTransform) MatrixBackward() *mat.CDense { return t.bwd }

// InputGrid returns the grid forward transforms read from.
func (t *NaiveFourierTransform) InputGrid() *field.Grid { return t.input }

// OutputGrid returns the grid forward transforms produce.
func (t *NaiveFourierTransform) OutputGrid() *field.Grid { return t.output }
