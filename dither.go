package dither

import (
	"fmt"
	"image"
	"math"

	"github.com/SlowlyFire/Error-Diffusion/internal/imageio"
	"github.com/SlowlyFire/Error-Diffusion/internal/pool"
)

// Floyd-Steinberg distribution weights, in raster order of the receiving
// neighbors. They sum to exactly 1, so an interior pixel hands its full
// rounding error to the four pixels that have not been visited yet.
const (
	weightRight      = 7.0 / 16
	weightBelowLeft  = 3.0 / 16
	weightBelow      = 5.0 / 16
	weightBelowRight = 1.0 / 16
)

// Diffuse quantizes a grayscale buffer to the palette's levels, diffusing
// each pixel's rounding error to its unvisited neighbors. pixels holds
// width×height intensities in row-major order and is not modified; the
// result is a freshly allocated buffer of the same shape whose values are
// all palette members.
//
// The pass runs strictly in raster order: each cell is read, finalized to a
// palette level, and never revisited, while its error perturbs cells still
// ahead of the scan. Error that would land outside the image is dropped.
func Diffuse(pixels []uint8, width, height int, p Palette) ([]uint8, error) {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: width %d, height %d, %d pixels",
			ErrInvalidDimensions, width, height, len(pixels))
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}

	n := width * height
	work := pool.GetFloat64(n)
	defer pool.PutFloat64(work)
	for i, px := range pixels {
		work[i] = float64(px)
	}

	for y := 0; y < height; y++ {
		row := y * width
		below := y+1 < height
		for x := 0; x < width; x++ {
			i := row + x
			old := work[i]
			level := p.Nearest(old)
			work[i] = float64(level)
			e := old - float64(level)
			if e == 0 {
				continue
			}
			if x+1 < width {
				work[i+1] += e * weightRight
			}
			if below {
				if x > 0 {
					work[i+width-1] += e * weightBelowLeft
				}
				work[i+width] += e * weightBelow
				if x+1 < width {
					work[i+width+1] += e * weightBelowRight
				}
			}
		}
	}

	out := make([]uint8, n)
	for i, v := range work {
		out[i] = clampLevel(v)
	}
	return out, nil
}

// clampLevel rounds v to the nearest integer and clamps it to [0, 255].
// Finalized cells already hold exact palette values, so the round and clamp
// only absorb floating-point drift on the way back to integers.
func clampLevel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// Apply dithers an image of any color model. The image is first reduced to
// a single grayscale channel, then diffused to the palette's levels. The
// returned image has the same dimensions as src, anchored at the origin.
func Apply(src image.Image, p Palette) (*image.Gray, error) {
	gray := imageio.Grayscale(src)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out, err := Diffuse(gray.Pix, w, h, p)
	if err != nil {
		return nil, err
	}
	return &image.Gray{Pix: out, Stride: w, Rect: image.Rect(0, 0, w, h)}, nil
}
