package quant

// Quantizer derives a palette from the colors of a source buffer and maps
// colors to palette indices.
//
// A quantizer is driven through Prepare, AddColor for every source pixel,
// Palette, PaletteIndex for every pixel of the second pass, then Finish.
// Finish makes the quantizer ready for the next Prepare.
type Quantizer interface {
	// Prepare resets accumulation state for a pass over src.
	Prepare(src *Buffer) error

	// AddColor records one source pixel. It must be safe for concurrent use
	// when AllowParallel reports true.
	AddColor(c Color, x, y int)

	// ColorCount returns the number of distinct flattened colors seen so far.
	ColorCount() int

	// Palette reduces the accumulated colors to at most n entries.
	Palette(n int) (Palette, error)

	// PaletteIndex returns the index of the palette entry representing c.
	// It must be safe for concurrent use after Palette returned.
	PaletteIndex(c Color, x, y int) int

	// Finish releases per-pass structures.
	Finish()

	// AllowParallel reports whether AddColor and PaletteIndex may be called
	// from several goroutines.
	AllowParallel() bool
}

// ColorCache maps arbitrary colors to the nearest entry of a palette.
type ColorCache interface {
	// Prepare clears memoized results.
	Prepare()

	// CachePalette indexes p for nearest-entry queries.
	CachePalette(p Palette) error

	// PaletteIndex returns the index of the entry nearest to c.
	// It is safe for concurrent use.
	PaletteIndex(c Color) int
}

// Ditherer perturbs the second pass of Quantize.
type Ditherer interface {
	// Prepare is called once the palette is known and committed.
	Prepare(q Quantizer, p Palette, src, dst *Buffer) error

	// ProcessPixel handles the pixel both cursors point at. It returns true
	// if it wrote the target pixel itself.
	ProcessPixel(src, dst *Cursor) bool

	// Finish releases per-pass state.
	Finish()

	// Inplace reports whether the ditherer only touches the current pixel.
	// Ditherers that are not in place force a sequential pass.
	Inplace() bool
}
