package dither

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Errors returned by the engine and palette constructors.
var (
	ErrEmptyPalette      = errors.New("dither: empty palette")
	ErrInvalidDimensions = errors.New("dither: invalid dimensions")
)

// Palette is the fixed set of intensity levels an output image may contain,
// sorted ascending with no duplicates. A Palette is never modified by a
// diffusion run. Construct one with NewPalette or Levels; hand-built slices
// work as long as they keep the ascending order, which the nearest-level
// tie-break relies on.
type Palette []uint8

// NewPalette builds a palette from the given levels. The levels are sorted
// ascending and deduplicated; at least one level is required.
func NewPalette(levels ...uint8) (Palette, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyPalette
	}
	p := make(Palette, len(levels))
	copy(p, levels)
	sort.Slice(p, func(i, j int) bool { return p[i] < p[j] })
	// Drop duplicates in place.
	n := 1
	for i := 1; i < len(p); i++ {
		if p[i] != p[n-1] {
			p[n] = p[i]
			n++
		}
	}
	return p[:n], nil
}

// Levels builds a palette of n evenly spaced levels covering the full
// intensity range: Levels(2) is {0, 255}, Levels(6) is
// {0, 51, 102, 153, 204, 255}. n must be at least 2; single-level palettes
// are built explicitly with NewPalette.
func Levels(n int) (Palette, error) {
	if n < 2 {
		return nil, fmt.Errorf("dither: need at least 2 levels, got %d", n)
	}
	if n > 256 {
		return nil, fmt.Errorf("dither: at most 256 levels possible, got %d", n)
	}
	p := make(Palette, n)
	for i := range p {
		p[i] = uint8(math.Round(float64(i) * 255 / float64(n-1)))
	}
	return p, nil
}

// Nearest returns the palette level closest to v. When two levels are
// equidistant the lower one wins: the scan replaces the candidate only on a
// strict improvement, so with ascending levels the first (smaller) of a tied
// pair is kept. v may lie outside [0,255]; values produced by accumulated
// diffusion error routinely do.
//
// Nearest panics on an empty palette. Diffuse validates the palette before
// any call, so the panic only fires on direct misuse.
func (p Palette) Nearest(v float64) uint8 {
	if len(p) == 0 {
		panic("dither: Nearest on empty palette")
	}
	best := p[0]
	bestDist := math.Abs(v - float64(p[0]))
	for _, level := range p[1:] {
		d := math.Abs(v - float64(level))
		if d < bestDist {
			best = level
			bestDist = d
		}
	}
	return best
}

// Contains reports whether level is a member of the palette.
func (p Palette) Contains(level uint8) bool {
	for _, l := range p {
		if l == level {
			return true
		}
	}
	return false
}
