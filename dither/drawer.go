package dither

import (
	"image"
	"image/draw"

	"github.com/gogpu/quant"
	"github.com/gogpu/quant/quantizer"
)

// Drawer implements image/draw.Drawer for paletted destinations: the source
// is mapped onto the destination's palette through Ditherer. A nil Ditherer
// maps every pixel to its nearest palette entry.
//
// Destinations other than *image.Paletted, or with an empty palette, are
// drawn with draw.FloydSteinberg.
type Drawer struct {
	Ditherer quant.Ditherer
}

// Draw implements draw.Drawer.
func (d Drawer) Draw(dst draw.Image, r image.Rectangle, src image.Image, sp image.Point) {
	pd, ok := dst.(*image.Paletted)
	if !ok || len(pd.Palette) == 0 || len(pd.Palette) > quant.MaxPaletteSize {
		draw.FloydSteinberg.Draw(dst, r, src, sp)
		return
	}

	orig := r.Min
	r = r.Intersect(dst.Bounds())
	r = r.Intersect(src.Bounds().Add(orig.Sub(sp)))
	if r.Empty() {
		return
	}
	sp = sp.Add(r.Min.Sub(orig))
	sr := image.Rectangle{Min: sp, Max: sp.Add(r.Size())}

	if err := d.draw(pd, r, src, sr); err != nil {
		quant.Logger().Warn("dither: draw failed", "err", err)
	}
}

func (d Drawer) draw(pd *image.Paletted, r image.Rectangle, src image.Image, sr image.Rectangle) error {
	in, err := quant.NewBufferFromImage(subImage{src, sr})
	if err != nil {
		return err
	}
	defer in.Release()

	pal := quant.PaletteFromStd(pd.Palette)
	out, err := quant.FromRaw(pd.Pix[pd.PixOffset(r.Min.X, r.Min.Y):], r.Dx(), r.Dy(),
		quant.Format8bppIndexed, quant.WithStride(pd.Stride), quant.WithPalette(pal))
	if err != nil {
		return err
	}
	defer out.Release()

	var opts []quant.PassOption
	if d.Ditherer != nil {
		opts = append(opts, quant.WithDitherer(d.Ditherer))
	}
	_, err = in.Quantize(out, quantizer.NewPredefined(pal), len(pal), opts...)
	return err
}

// subImage restricts an image to a rectangle.
type subImage struct {
	image.Image
	r image.Rectangle
}

func (s subImage) Bounds() image.Rectangle { return s.r }
