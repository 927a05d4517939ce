package quant

import (
	"fmt"

	"github.com/gogpu/quant/internal/parallel"
)

// ScanColors prepares q for b and feeds it every pixel of b.
//
// The scan runs over disjoint row ranges in parallel when q.AllowParallel
// reports true and WithParallelism asks for more than one worker; otherwise
// it follows the configured PathProvider on the calling goroutine.
func (b *Buffer) ScanColors(q Quantizer, opts ...PassOption) error {
	if q == nil {
		return ErrNilQuantizer
	}
	if err := b.checkSource(); err != nil {
		return err
	}
	o := newPassOptions(opts)
	return b.scan(q, o, passWorkers(q, nil, o.parallelism))
}

// passWorkers returns the worker count shared by both passes. A ditherer
// that is not in place forces the whole pipeline onto one goroutine, so
// first-seen order and the result follow the path.
func passWorkers(q Quantizer, d Ditherer, requested int) int {
	if !q.AllowParallel() || requested <= 1 {
		return 1
	}
	if d != nil && !d.Inplace() {
		Logger().Warn("quant: ditherer is not in place, running sequentially", "requested", requested)
		return 1
	}
	return requested
}

func (b *Buffer) checkSource() error {
	if err := b.checkRead(); err != nil {
		return err
	}
	if b.format.IsIndexed() && b.arena.palette == nil {
		return ErrNoPalette
	}
	return nil
}

func (b *Buffer) scan(q Quantizer, o passOptions, workers int) error {
	if err := q.Prepare(b); err != nil {
		return err
	}

	if workers > 1 {
		Logger().Debug("quant: scan", "mode", "parallel", "workers", workers)
		parallel.ForEachRows(b.height, workers, func(r parallel.RowRange) {
			cur := &Cursor{buf: b, y: -1}
			for y := r.Start; y < r.End; y++ {
				_ = cur.MoveTo(0, y)
				for x := range b.width {
					q.AddColor(cur.ColorAt(x), x, y)
				}
			}
		})
	} else {
		Logger().Debug("quant: scan", "mode", "sequential")
		cur := &Cursor{buf: b, y: -1}
		for p := range o.path.Path(b.width, b.height) {
			_ = cur.MoveTo(p.X, p.Y)
			q.AddColor(cur.Color(), p.X, p.Y)
		}
	}

	Logger().Debug("quant: scan done", "unique", q.ColorCount())
	return nil
}

// Quantize reduces b to at most colorCount colors and writes the result to
// dst, which must have the same dimensions. Indexed targets receive the
// palette through CommitPalette and one index per pixel; direct targets
// receive the palette colors.
//
// All configuration is validated before any target pixel is written, and
// the target palette is committed only after every other step succeeded.
// When the ditherer is not in place both passes run sequentially along the
// path regardless of WithParallelism.
func (b *Buffer) Quantize(dst *Buffer, q Quantizer, colorCount int, opts ...PassOption) (Palette, error) {
	if q == nil {
		return nil, ErrNilQuantizer
	}
	if colorCount < 1 || colorCount > MaxPaletteSize {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedColorCount, colorCount)
	}
	if dst == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidDimensions)
	}
	if err := b.checkSource(); err != nil {
		return nil, err
	}
	if err := dst.checkWrite(); err != nil {
		return nil, err
	}
	if b.width != dst.width || b.height != dst.height {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, b.width, b.height, dst.width, dst.height)
	}
	if dst.format.IsIndexed() && colorCount > dst.format.MaxPaletteSize() {
		return nil, fmt.Errorf("%w: %d colors, %v addresses %d",
			ErrPaletteTooLarge, colorCount, dst.format, dst.format.MaxPaletteSize())
	}

	o := newPassOptions(opts)
	d := o.ditherer
	workers := passWorkers(q, d, o.parallelism)
	if err := b.scan(q, o, workers); err != nil {
		return nil, err
	}
	defer q.Finish()

	pal, err := q.Palette(colorCount)
	if err != nil {
		return nil, err
	}
	Logger().Debug("quant: palette ready", "colors", len(pal), "requested", colorCount)

	if d != nil {
		if err := d.Prepare(q, pal, b, dst); err != nil {
			return nil, err
		}
		defer d.Finish()
	}

	// Last fallible step: the target is untouched until here.
	if dst.format.IsIndexed() {
		if err := dst.CommitPalette(pal); err != nil {
			return nil, err
		}
	}

	indexed := dst.format.IsIndexed()
	put := func(src, tgt *Cursor) {
		if d != nil && d.ProcessPixel(src, tgt) {
			return
		}
		idx := q.PaletteIndex(src.Color(), src.x, src.y)
		if indexed {
			tgt.SetIndex(idx)
		} else {
			tgt.SetColor(pal[idx])
		}
	}

	if workers > 1 {
		Logger().Debug("quant: remap", "mode", "parallel", "workers", workers)
		parallel.ForEachRows(b.height, workers, func(r parallel.RowRange) {
			src := &Cursor{buf: b, y: -1}
			tgt := &Cursor{buf: dst, y: -1}
			for y := r.Start; y < r.End; y++ {
				for x := range b.width {
					_ = src.MoveTo(x, y)
					_ = tgt.MoveTo(x, y)
					put(src, tgt)
				}
			}
		})
		return pal, nil
	}

	Logger().Debug("quant: remap", "mode", "sequential")
	src := &Cursor{buf: b, y: -1}
	tgt := &Cursor{buf: dst, y: -1}
	for p := range o.path.Path(b.width, b.height) {
		_ = src.MoveTo(p.X, p.Y)
		_ = tgt.MoveTo(p.X, p.Y)
		put(src, tgt)
	}
	return pal, nil
}
