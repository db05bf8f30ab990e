// Package plotting renders sampled intensities as grayscale images and
// profile plots.
//
// Two image flavors are produced: a Gray16 "data" image with a fixed
// physical scaling, suitable for quantitative reloading, and a Gray8 "view"
// image with a percentile auto-stretch for quick inspection. Grid row 0
// (the lowest y coordinate) maps to the bottom image row, so +y points up
// in the rendered image.
package plotting

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"

	"github.com/bob-anderson-ok/fourieroptics/field"
)

func imageDims(intensity []float64, g *field.Grid) (nx, ny int, err error) {
	if g == nil || g.NumDims() != 2 {
		return 0, 0, ErrNotTwoDim
	}
	nx = g.Dims()[0]
	ny = g.Dims()[1]
	if len(intensity) != nx*ny {
		return 0, 0, ErrSizeMismatch
	}
	return nx, ny, nil
}

// IntensityGray16 renders an intensity as a 16-bit data image with fixed
// physical scaling: pixel = round(v * scale), clamped to [0, 65535].
// Non-finite samples render as 0.
func IntensityGray16(intensity []float64, g *field.Grid, scale float64) (*image.Gray16, error) {
	nx, ny, err := imageDims(intensity, g)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, ErrBadScale
	}

	img := image.NewGray16(image.Rect(0, 0, nx, ny))
	for iy := 0; iy < ny; iy++ {
		row := (ny - 1 - iy) * img.Stride
		for ix := 0; ix < nx; ix++ {
			i := row + 2*ix
			v := intensity[iy*nx+ix]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				img.Pix[i], img.Pix[i+1] = 0, 0
				continue
			}
			u := math.Round(v * scale)
			if u < 0 {
				u = 0
			} else if u > 65535 {
				u = 65535
			}
			y16 := uint16(u)

			// Gray16 Pix is big-endian per pixel: high byte then low.
			img.Pix[i] = uint8(y16 >> 8)
			img.Pix[i+1] = uint8(y16)
		}
	}
	return img, nil
}

// IntensityGray8Stretch renders an intensity as an 8-bit view image with a
// percentile stretch: values from the pLow percentile to the pHigh
// percentile map to 0..255, everything outside clamps. Robust to hot
// pixels, unlike a plain min/max stretch.
func IntensityGray8Stretch(intensity []float64, g *field.Grid, pLow, pHigh float64) (*image.Gray, error) {
	nx, ny, err := imageDims(intensity, g)
	if err != nil {
		return nil, err
	}
	if !(0 <= pLow && pLow < pHigh && pHigh <= 100) {
		return nil, ErrBadPercentiles
	}

	vals := make([]float64, 0, len(intensity))
	for _, v := range intensity {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, ErrNoFiniteValues
	}
	sort.Float64s(vals)

	lo := percentile(vals, pLow)
	hi := percentile(vals, pHigh)
	if hi == lo {
		hi = lo + 1 // constant image instead of a divide by zero
	}

	img := image.NewGray(image.Rect(0, 0, nx, ny))
	for iy := 0; iy < ny; iy++ {
		row := (ny - 1 - iy) * img.Stride
		for ix := 0; ix < nx; ix++ {
			v := intensity[iy*nx+ix]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				img.Pix[row+ix] = 0
				continue
			}
			t := (v - lo) / (hi - lo)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			img.Pix[row+ix] = uint8(math.Round(t * 255))
		}
	}
	return img, nil
}

// percentile interpolates the p-th percentile of sorted values.
func percentile(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	pos := (p / 100) * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	f := pos - float64(i)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i]*(1-f) + sorted[i+1]*f
}

// SavePNG writes any image to a PNG file.
func SavePNG(filename string, img image.Image) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return png.Encode(f, img)
}

// LoadGray16 reads back a data image written by IntensityGray16 and undoes
// its scaling: intensity = pixel / scale. The returned slice is in grid
// order, x fastest, row 0 at the bottom.
func LoadGray16(filename string, scale float64) (intensity []float64, nx, ny int, err error) {
	if scale <= 0 {
		return nil, 0, 0, ErrBadScale
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	bounds := img.Bounds()
	nx = bounds.Dx()
	ny = bounds.Dy()
	intensity = make([]float64, nx*ny)
	for iy := 0; iy < ny; iy++ {
		imgY := bounds.Min.Y + (ny - 1 - iy)
		for ix := 0; ix < nx; ix++ {
			c := img.At(bounds.Min.X+ix, imgY)
			if g16, ok := c.(color.Gray16); ok {
				intensity[iy*nx+ix] = float64(g16.Y) / scale
				continue
			}
			r, g, b, _ := c.RGBA()
			intensity[iy*nx+ix] = float64((r+g+b)/3) / scale
		}
	}
	return intensity, nx, ny, nil
}
