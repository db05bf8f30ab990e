package fourier_test

import (
	"fmt"
	"math/cmplx"

	"github.com/bob-anderson-ok/fourieroptics/field"
	"github.com/bob-anderson-ok/fourieroptics/fourier"
)

// Transform a constant field to its frequency-domain conjugate grid: all
// the signal lands in the zero-frequency bin, which sits at index n/2.
func ExampleNew() {
	in, err := field.UniformGrid([]int{4}, []float64{1}, nil)
	if err != nil {
		panic(err)
	}
	out, err := fourier.FFTGrid(in)
	if err != nil {
		panic(err)
	}
	ft, err := fourier.New(in, out)
	if err != nil {
		panic(err)
	}

	spectrum, err := ft.Forward(field.NewUniformField(in, 1))
	if err != nil {
		panic(err)
	}
	for _, v := range spectrum.Data {
		fmt.Printf("%.2f ", cmplx.Abs(v))
	}
	// Output:
	// 0.00 0.00 1.00 0.00
}
