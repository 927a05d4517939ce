package quant

import (
	"fmt"
	"image"
	"image/color"
)

// NewBufferFromImage copies img into a new Format32bppARGB buffer.
// The buffer's origin is (0, 0) regardless of img.Bounds().Min.
func NewBufferFromImage(img image.Image) (*Buffer, error) {
	r := img.Bounds()
	b, err := Allocate(r.Dx(), r.Dy(), Format32bppARGB)
	if err != nil {
		return nil, err
	}

	if src, ok := img.(*image.NRGBA); ok {
		for y := range b.height {
			s := src.Pix[src.PixOffset(r.Min.X, r.Min.Y+y):]
			d := b.row(y)
			for x := range b.width {
				sp, dp := s[x*4:x*4+4], d[x*4:x*4+4]
				dp[0], dp[1], dp[2], dp[3] = sp[2], sp[1], sp[0], sp[3]
			}
		}
		return b, nil
	}

	cur := &Cursor{buf: b, y: -1}
	for y := range b.height {
		_ = cur.MoveTo(0, y)
		for x := range b.width {
			cur.SetColorAt(x, FromStdColor(img.At(r.Min.X+x, r.Min.Y+y)))
		}
	}
	return b, nil
}

// Image converts b to a standard library image. Indexed buffers become
// *image.Paletted, everything else *image.NRGBA.
func (b *Buffer) Image() (image.Image, error) {
	if err := b.checkSource(); err != nil {
		return nil, err
	}
	rect := b.Bounds()
	cur := &Cursor{buf: b, y: -1}

	if b.format.IsIndexed() {
		out := image.NewPaletted(rect, b.arena.palette.Std())
		for y := range b.height {
			_ = cur.MoveTo(0, y)
			row := out.Pix[y*out.Stride:]
			for x := range b.width {
				cur.x = x
				row[x] = uint8(cur.Index())
			}
		}
		return out, nil
	}

	out := image.NewNRGBA(rect)
	for y := range b.height {
		_ = cur.MoveTo(0, y)
		row := out.Pix[y*out.Stride:]
		for x := range b.width {
			c := cur.ColorAt(x)
			p := row[x*4 : x*4+4]
			p[0], p[1], p[2], p[3] = c.R(), c.G(), c.B(), c.A()
		}
	}
	return out, nil
}

// QuantizeImage quantizes img to at most colorCount colors and returns a
// paletted image with the same bounds, ready for image/gif.
func QuantizeImage(img image.Image, q Quantizer, colorCount int, opts ...PassOption) (*image.Paletted, error) {
	src, err := NewBufferFromImage(img)
	if err != nil {
		return nil, err
	}
	dst, err := Allocate(src.width, src.height, Format8bppIndexed)
	if err != nil {
		return nil, err
	}
	pal, err := src.Quantize(dst, q, colorCount, opts...)
	if err != nil {
		return nil, err
	}

	out := image.NewPaletted(img.Bounds(), pal.Std())
	for y := range dst.height {
		copy(out.Pix[y*out.Stride:y*out.Stride+dst.width], dst.row(y))
	}
	return out, nil
}

// DrawQuantizer adapts a Quantizer to image/draw.Quantizer, so it can be
// set as image/gif.Options.Quantizer.
type DrawQuantizer struct {
	Quantizer Quantizer
	Options   []PassOption
}

// Quantize appends up to cap(p)-len(p) colors derived from m to p.
// On failure p is returned unchanged and the error is logged.
func (d DrawQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	n := min(cap(p)-len(p), MaxPaletteSize)
	if n <= 0 {
		return p
	}
	pal, err := d.palette(m, n)
	if err != nil {
		Logger().Warn("quant: draw quantizer failed", "err", err)
		return p
	}
	return append(p, pal.Std()...)
}

func (d DrawQuantizer) palette(m image.Image, n int) (Palette, error) {
	if d.Quantizer == nil {
		return nil, ErrNilQuantizer
	}
	src, err := NewBufferFromImage(m)
	if err != nil {
		return nil, err
	}
	if err := src.ScanColors(d.Quantizer, d.Options...); err != nil {
		return nil, err
	}
	defer d.Quantizer.Finish()

	pal, err := d.Quantizer.Palette(n)
	if err != nil {
		return nil, fmt.Errorf("quant: palette of %d: %w", n, err)
	}
	return pal, nil
}
