package optics

import (
	"fmt"
	"math"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

// insideEllipse reports whether (x, y) lies inside or on the boundary of an
// ellipse centered at the origin with the given full axes, rotated
// counter-clockwise by theta.
func insideEllipse(x, y, xDiam, yDiam, theta float64) bool {
	xSemi := xDiam / 2
	ySemi := yDiam / 2
	sin, cos := math.Sincos(theta)
	t1 := (x*cos + y*sin) / xSemi
	t2 := (-x*sin + y*cos) / ySemi
	return t1*t1+t2*t2 <= 1
}

func check2D(g *field.Grid) error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidParameter)
	}
	if g.NumDims() != 2 {
		return fmt.Errorf("%w: apertures are two-dimensional", ErrInvalidParameter)
	}
	return nil
}

// CircularAperture samples a unit-transmission disk of the given diameter
// centered on the origin. The boundary is inclusive.
func CircularAperture(g *field.Grid, diameter float64) (*field.Field, error) {
	return EllipticalAperture(g, diameter, diameter, 0)
}

// EllipticalAperture samples a unit-transmission ellipse with full axes
// xDiam and yDiam, rotated counter-clockwise by rotationDeg degrees.
func EllipticalAperture(g *field.Grid, xDiam, yDiam, rotationDeg float64) (*field.Field, error) {
	if err := check2D(g); err != nil {
		return nil, err
	}
	if xDiam <= 0 || yDiam <= 0 {
		return nil, fmt.Errorf("%w: aperture axes %g x %g must be positive", ErrInvalidParameter, xDiam, yDiam)
	}
	theta := rotationDeg * math.Pi / 180
	x := g.Coords(0)
	y := g.Coords(1)
	data := make([]complex128, g.Size())
	for k := range data {
		if insideEllipse(x[k], y[k], xDiam, yDiam, theta) {
			data[k] = 1
		}
	}
	return field.NewField(data, g)
}

// RectangularAperture samples a unit-transmission axis-aligned rectangle of
// the given full width and height centered on the origin.
func RectangularAperture(g *field.Grid, width, height float64) (*field.Field, error) {
	if err := check2D(g); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: aperture sides %g x %g must be positive", ErrInvalidParameter, width, height)
	}
	x := g.Coords(0)
	y := g.Coords(1)
	data := make([]complex128, g.Size())
	for k := range data {
		if math.Abs(x[k]) <= width/2 && math.Abs(y[k]) <= height/2 {
			data[k] = 1
		}
	}
	return field.NewField(data, g)
}

// GaussianBeam samples the amplitude profile exp(-r^2/waist^2), waist being
// the 1/e amplitude radius. Works in one or two dimensions.
func GaussianBeam(g *field.Grid, waist float64) (*field.Field, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidParameter)
	}
	if waist <= 0 {
		return nil, fmt.Errorf("%w: beam waist %g must be positive", ErrInvalidParameter, waist)
	}
	coords := make([][]float64, g.NumDims())
	for d := range coords {
		coords[d] = g.Coords(d)
	}
	data := make([]complex128, g.Size())
	for k := range data {
		var r2 float64
		for d := range coords {
			c := coords[d][k]
			r2 += c * c
		}
		data[k] = complex(math.Exp(-r2/(waist*waist)), 0)
	}
	return field.NewField(data, g)
}
