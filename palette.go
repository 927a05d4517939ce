package quant

import (
	"fmt"
	"image/color"
)

// MaxPaletteSize is the largest palette any format or quantizer supports.
const MaxPaletteSize = 256

// Palette is an ordered list of colors addressed by index.
// Insertion order is the index.
type Palette []Color

// Validate checks that p has between 1 and MaxPaletteSize entries.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	if len(p) > MaxPaletteSize {
		return fmt.Errorf("%w: %d entries", ErrPaletteTooLarge, len(p))
	}
	return nil
}

// Clone returns a copy of p.
func (p Palette) Clone() Palette {
	if p == nil {
		return nil
	}
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// Index returns the position of c in p, or -1 if absent.
func (p Palette) Index(c Color) int {
	for i, e := range p {
		if e == c {
			return i
		}
	}
	return -1
}

// Std converts p to an image/color.Palette.
func (p Palette) Std() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
	}
	return out
}

// PaletteFromStd converts an image/color.Palette.
func PaletteFromStd(p color.Palette) Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		out[i] = FromStdColor(c)
	}
	return out
}

// GrayscalePalette returns n evenly spaced opaque grays from black to white.
// n must be in [1, MaxPaletteSize]; n == 1 yields black.
func GrayscalePalette(n int) Palette {
	n = max(1, min(n, MaxPaletteSize))
	out := make(Palette, n)
	if n == 1 {
		out[0] = Black
		return out
	}
	for i := range n {
		v := uint8(i * 255 / (n - 1))
		out[i] = RGB(v, v, v)
	}
	return out
}

// WebSafePalette returns the 216-color web-safe palette (6 levels per channel).
func WebSafePalette() Palette {
	out := make(Palette, 0, 216)
	for r := range 6 {
		for g := range 6 {
			for b := range 6 {
				out = append(out, RGB(uint8(r*0x33), uint8(g*0x33), uint8(b*0x33)))
			}
		}
	}
	return out
}
