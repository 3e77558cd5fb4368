// Package dither reduces grayscale images to a fixed set of intensity
// levels using Floyd-Steinberg error-diffusion dithering.
//
// The engine walks the image once in raster order. Each pixel is snapped to
// the nearest level of the target palette and the rounding error is spread,
// in fractions of 7/16, 3/16, 5/16 and 1/16, to the four neighboring pixels
// that have not been visited yet. Carrying the error forward preserves the
// perceived detail of the original even when only a handful of output
// levels remain. Error assigned to a neighbor outside the image is dropped,
// which is the conventional Floyd-Steinberg edge behavior.
//
// The package operates on flat row-major intensity buffers:
//
//	p, err := dither.Levels(4)
//	out, err := dither.Diffuse(pixels, width, height, p)
//
// or directly on images, with automatic grayscale conversion:
//
//	gray, err := dither.Apply(img, dither.Palette{0, 255})
//
// Animated GIFs are handled by the animation subpackage, and the fsdither
// command wraps the whole pipeline for the command line.
package dither
