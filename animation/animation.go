package animation

import (
	"errors"
	"image"
	"image/color"
	"image/gif"

	dither "github.com/SlowlyFire/Error-Diffusion"
)

// ErrNoFrames is returned for a GIF without a single frame.
var ErrNoFrames = errors.New("animation: GIF has no frames")

// defaultDelay is used for frames with missing or zero timing, in GIF
// centiseconds (100ms).
const defaultDelay = 10

// DitherGIF dithers every frame of an animated GIF to the palette's levels
// and returns a new GIF of full-canvas grayscale frames. Frame delays and
// the loop count are preserved; each source frame is first coalesced onto
// the logical screen according to its disposal method, so partial frames
// dither against the pixels they actually appear over.
func DitherGIF(src *gif.GIF, p dither.Palette) (*gif.GIF, error) {
	if len(src.Image) == 0 {
		return nil, ErrNoFrames
	}
	if len(p) == 0 {
		return nil, dither.ErrEmptyPalette
	}

	w, h := src.Config.Width, src.Config.Height
	if w == 0 || h == 0 {
		b := src.Image[0].Bounds()
		w, h = b.Dx(), b.Dy()
	}

	levels := levelPalette(p)
	var index [256]uint8
	for i, l := range p {
		index[l] = uint8(i)
	}

	out := &gif.GIF{
		LoopCount: src.LoopCount,
		Config:    image.Config{Width: w, Height: h},
	}

	screen := newCanvas(w, h)
	for i, frame := range src.Image {
		var disposal byte
		if i < len(src.Disposal) {
			disposal = src.Disposal[i]
		}

		b := frame.Bounds()
		var saved []uint8
		if disposal == gif.DisposalPrevious {
			saved = screen.saveRect(b)
		}

		screen.compose(frame)

		gray, err := dither.Apply(screen.snapshot(), p)
		if err != nil {
			return nil, err
		}

		paletted := image.NewPaletted(image.Rect(0, 0, w, h), levels)
		for j, v := range gray.Pix {
			paletted.Pix[j] = index[v]
		}
		out.Image = append(out.Image, paletted)

		delay := defaultDelay
		if i < len(src.Delay) && src.Delay[i] > 0 {
			delay = src.Delay[i]
		}
		out.Delay = append(out.Delay, delay)
		out.Disposal = append(out.Disposal, gif.DisposalNone)

		switch disposal {
		case gif.DisposalBackground:
			screen.clearRect(b)
		case gif.DisposalPrevious:
			screen.restoreRect(b, saved)
		}
	}

	return out, nil
}

// levelPalette expresses the intensity levels as a GIF color palette.
func levelPalette(p dither.Palette) color.Palette {
	cp := make(color.Palette, len(p))
	for i, l := range p {
		cp[i] = color.Gray{Y: l}
	}
	return cp
}
