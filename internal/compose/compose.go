// Package compose lays out images for visual comparison. It is presentation
// glue only; nothing here affects the dithering result.
package compose

import (
	"image"

	"golang.org/x/image/draw"
)

// SideBySide places left and right on a shared white canvas separated by a
// gap of the given width in pixels. Panels are top-aligned; the canvas is as
// tall as the taller panel. A negative gap is treated as zero.
func SideBySide(left, right image.Image, gap int) *image.Gray {
	if gap < 0 {
		gap = 0
	}
	lb, rb := left.Bounds(), right.Bounds()
	w := lb.Dx() + gap + rb.Dx()
	h := lb.Dy()
	if rb.Dy() > h {
		h = rb.Dy()
	}

	canvas := image.NewGray(image.Rect(0, 0, w, h))
	for i := range canvas.Pix {
		canvas.Pix[i] = 0xff
	}

	draw.Copy(canvas, image.Pt(0, 0), left, lb, draw.Src, nil)
	draw.Copy(canvas, image.Pt(lb.Dx()+gap, 0), right, rb, draw.Src, nil)
	return canvas
}
