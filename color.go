package quant

import (
	"fmt"
	"image/color"

	icolor "github.com/gogpu/quant/internal/color"
)

// Color is a 32-bit ARGB value laid out as 0xAARRGGBB.
// Channels are straight (not premultiplied). Two colors are equal when
// their bit patterns are equal.
type Color uint32

// Common colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
)

// ARGB creates a Color from alpha, red, green and blue channels.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB creates an opaque Color.
func RGB(r, g, b uint8) Color {
	return ARGB(255, r, g, b)
}

// FromStdColor converts any image/color.Color to a Color,
// un-premultiplying when necessary.
func FromStdColor(c color.Color) Color {
	if qc, ok := c.(Color); ok {
		return qc
	}
	n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// IsOpaque reports whether the alpha channel is 255.
func (c Color) IsOpaque() bool { return c.A() == 255 }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00FFFFFF | Color(a)<<24
}

// Flatten composites c over an opaque white background:
//
//	channel = (c*a + 255*(255-a)) / 255
//
// rounded down, so ARGB(128, 255, 0, 0) becomes (255, 127, 127), not
// (255, 128, 128). Opaque colors are returned unchanged and fully
// transparent colors become white, so translucent variants of one solid
// color collapse to a single key.
func (c Color) Flatten() Color {
	a := uint32(c.A())
	switch a {
	case 255:
		return c
	case 0:
		return White
	}
	inv := 255 * (255 - a)
	blend := func(v uint8) uint8 {
		return uint8((uint32(v)*a + inv) / 255)
	}
	return RGB(blend(c.R()), blend(c.G()), blend(c.B()))
}

// Key returns the packed 24-bit RGB value of the flattened color.
// It is the key of unique-color tables and memoization maps.
func (c Color) Key() uint32 {
	return uint32(c.Flatten()) & 0x00FFFFFF
}

// ColorFromKey converts a packed 24-bit RGB key back to an opaque Color.
func ColorFromKey(key uint32) Color {
	return Color(key&0x00FFFFFF) | Black
}

// HSV returns hue in degrees [0,360), saturation and value in [0,1].
// Alpha is ignored.
func (c Color) HSV() (h, s, v float64) {
	hsv := icolor.RGBToHSV(c.R(), c.G(), c.B())
	return hsv.H, hsv.S, hsv.V
}

// RGBA implements image/color.Color. Values are alpha-premultiplied 16-bit.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A())
	r = uint32(c.R()) * a / 255
	g = uint32(c.G()) * a / 255
	b = uint32(c.B()) * a / 255
	return r * 0x101, g * 0x101, b * 0x101, a * 0x101
}

// String returns the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}
