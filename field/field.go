package field

import "gonum.org/v1/gonum/cmplxs"

// A Field holds one complex sample per grid point. The data slice is adopted,
// not copied; callers that keep a reference must not modify it afterwards.
type Field struct {
	Data []complex128
	Grid *Grid
}

// NewField wraps sample data defined on g. The data length must match the
// grid size exactly.
func NewField(data []complex128, g *Grid) (*Field, error) {
	if g == nil {
		return nil, ErrEmptyGrid
	}
	if len(data) != g.Size() {
		return nil, ErrSizeMismatch
	}
	return &Field{Data: data, Grid: g}, nil
}

// Zeros returns an all-zero field on g.
func Zeros(g *Grid) *Field {
	return &Field{Data: make([]complex128, g.Size()), Grid: g}
}

// NewUniformField returns a field holding the same value at every sample.
func NewUniformField(g *Grid, v complex128) *Field {
	f := Zeros(g)
	for k := range f.Data {
		f.Data[k] = v
	}
	return f
}

// Copy returns a deep copy of the field sharing the (immutable) grid.
func (f *Field) Copy() *Field {
	return &Field{
		Data: append([]complex128(nil), f.Data...),
		Grid: f.Grid,
	}
}

// At returns the sample at index k.
func (f *Field) At(k int) complex128 { return f.Data[k] }

// Size returns the number of samples.
func (f *Field) Size() int { return len(f.Data) }

// Scaled returns a new field with every sample multiplied by c.
func (f *Field) Scaled(c complex128) *Field {
	out := make([]complex128, len(f.Data))
	cmplxs.ScaleTo(out, c, f.Data)
	return &Field{Data: out, Grid: f.Grid}
}

// Add returns the sample-wise sum of two fields defined on the same grid.
// The result lives on a's grid.
func Add(a, b *Field) (*Field, error) {
	if len(a.Data) != len(b.Data) {
		return nil, ErrGridMismatch
	}
	out := make([]complex128, len(a.Data))
	cmplxs.AddTo(out, a.Data, b.Data)
	return &Field{Data: out, Grid: a.Grid}, nil
}
