// Package animation dithers animated GIFs frame by frame.
//
// It handles container-level animation semantics only: frames are coalesced
// onto a persistent canvas honoring each frame's disposal method, and every
// reconstructed canvas state is handed to the root package for grayscale
// conversion and error diffusion. Timing and loop count pass through
// unchanged.
package animation

import (
	"image"
	"image/draw"
)

// canvas reconstructs the logical screen of a GIF. Frames are partial
// rectangles composited onto it; snapshots of the full screen are what get
// dithered. The screen starts opaque white, since the dithered output is a
// flat grayscale image with no alpha to carry transparency through.
type canvas struct {
	img *image.NRGBA
}

func newCanvas(w, h int) *canvas {
	c := &canvas{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
	for i := range c.img.Pix {
		c.img.Pix[i] = 0xff
	}
	return c
}

// compose draws a frame onto the canvas at the frame's own offset,
// alpha-blending so transparent frame pixels keep the canvas content.
func (c *canvas) compose(frame image.Image) {
	b := frame.Bounds()
	draw.Draw(c.img, b, frame, b.Min, draw.Over)
}

// snapshot returns a copy of the current canvas state.
func (c *canvas) snapshot() *image.NRGBA {
	snap := image.NewNRGBA(c.img.Bounds())
	copy(snap.Pix, c.img.Pix)
	return snap
}

// saveRect copies the canvas pixels under r, for restoring after a frame
// with the previous-disposal method.
func (c *canvas) saveRect(r image.Rectangle) []uint8 {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return nil
	}
	w := r.Dx() * 4
	saved := make([]uint8, r.Dy()*w)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srcOff := c.img.PixOffset(r.Min.X, y)
		dstOff := (y - r.Min.Y) * w
		copy(saved[dstOff:dstOff+w], c.img.Pix[srcOff:srcOff+w])
	}
	return saved
}

// restoreRect pastes pixels saved by saveRect back under r.
func (c *canvas) restoreRect(r image.Rectangle, saved []uint8) {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() || saved == nil {
		return
	}
	w := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dstOff := c.img.PixOffset(r.Min.X, y)
		srcOff := (y - r.Min.Y) * w
		copy(c.img.Pix[dstOff:dstOff+w], saved[srcOff:srcOff+w])
	}
}

// clearRect resets r to the opaque white background.
func (c *canvas) clearRect(r image.Rectangle) {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	w := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := c.img.PixOffset(r.Min.X, y)
		for i := off; i < off+w; i++ {
			c.img.Pix[i] = 0xff
		}
	}
}
