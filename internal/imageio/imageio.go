// Package imageio decodes input images into grayscale buffers and encodes
// result buffers back to image files. It also carries the optional
// pre-dither adjustments (downscaling, gamma) so the engine itself only
// ever sees a flat intensity buffer.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Decode-only formats; PNG, JPEG and GIF register through the encoder
	// imports above.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path and returns it together with the detected
// format name. path "-" reads from stdin.
func Load(path string) (image.Image, string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		r = f
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decoding %s: %w", displayName(path), err)
	}
	return img, format, nil
}

// Save encodes img to path, choosing the encoder by file extension (.png,
// .jpg/.jpeg, .gif). path "-" writes PNG to stdout. On an encoding or close
// failure the partially written file is removed, so a failed Save never
// leaves an artifact behind.
func Save(path string, img image.Image) error {
	if path == "-" {
		return encode(os.Stdout, img, ".png")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedOutput(ext) {
		return fmt.Errorf("imageio: unsupported output format %q (use .png, .jpg or .gif)", ext)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(out, img, ext); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("imageio: encoding %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func supportedOutput(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func encode(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case ".gif":
		return gif.Encode(w, img, nil)
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	}
}

// displayName substitutes a readable name for the stdin placeholder.
func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

// Grayscale reduces img to a single channel using the standard library's
// Rec. 601 luma weights. The result is always a fresh *image.Gray anchored
// at the origin with a canonical stride, so its Pix slice is exactly
// width×height bytes. Common source types are converted by walking Pix
// directly; everything else goes through the generic color model path with
// identical results.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*w:(y+1)*w], src.Pix[off:off+w])
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				i := off + x*4
				r := uint32(src.Pix[i]) * 0x101
				g := uint32(src.Pix[i+1]) * 0x101
				bb := uint32(src.Pix[i+2]) * 0x101
				dst.Pix[y*w+x] = luma(r, g, bb)
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				i := off + x*4
				a := uint32(src.Pix[i+3])
				var r, g, bb uint32
				if a > 0 {
					// Premultiply exactly the way color.NRGBA.RGBA does,
					// keeping this path bit-identical to the generic one.
					r = uint32(src.Pix[i]) * 0x101 * a / 0xff
					g = uint32(src.Pix[i+1]) * 0x101 * a / 0xff
					bb = uint32(src.Pix[i+2]) * 0x101 * a / 0xff
				}
				dst.Pix[y*w+x] = luma(r, g, bb)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y))
				dst.Pix[y*w+x] = c.(color.Gray).Y
			}
		}
	}
	return dst
}

// luma converts 16-bit premultiplied RGB to an 8-bit gray value with the
// same fixed-point arithmetic as color.GrayModel.
func luma(r, g, b uint32) uint8 {
	return uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
}

// Fit proportionally downscales img to the given width using Lanczos
// resampling. Images already at or below the target width, and non-positive
// widths, pass through unchanged. Upscaling is never performed.
func Fit(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// AdjustGamma applies gamma correction before dithering. gamma 1.0 is the
// identity and passes img through unchanged; values below 1.0 darken,
// above 1.0 lighten.
func AdjustGamma(img image.Image, gamma float64) image.Image {
	if gamma == 1.0 {
		return img
	}
	return imaging.AdjustGamma(img, gamma)
}
