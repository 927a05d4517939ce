package quant

import (
	"fmt"
	"image"
	"sync/atomic"
)

// Access restricts what a Buffer permits.
type Access uint8

const (
	// AccessReadWrite permits reading and writing. This is the default.
	AccessReadWrite Access = iota

	// AccessRead permits reading only.
	AccessRead

	// AccessWrite permits writing only.
	AccessWrite
)

// String returns the access mode name.
func (a Access) String() string {
	switch a {
	case AccessReadWrite:
		return "ReadWrite"
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

func (a Access) readable() bool { return a != AccessWrite }
func (a Access) writable() bool { return a != AccessRead }

// PaletteSink receives committed palettes. It is implemented by whatever
// holds its own copy of the palette next to the pixel memory, such as a
// platform image handle or an encoder frame.
type PaletteSink interface {
	// PaletteChanged is called after a palette has been committed to the
	// buffer. The palette must not be retained beyond the call without
	// copying it.
	PaletteChanged(p Palette) error
}

// arena is the storage shared by a buffer and all of its views.
type arena struct {
	released atomic.Bool
	palette  Palette
	sink     PaletteSink
}

// Buffer is a raster of pixels in one Format with an optional palette.
//
// A Buffer either owns its memory (Allocate) or borrows it (FromRaw); a
// borrowed block must outlive the buffer. Views created with View share the
// memory and the palette of their owner and are invalidated when the owner
// is released.
//
// Thread safety: distinct goroutines may read and write disjoint rows
// concurrently. CommitPalette must not run concurrently with pixel access.
type Buffer struct {
	data    []byte
	width   int
	height  int
	stride  int
	format  Format
	originX int // pixel offset of column 0 within each row
	rowLen  int // bytes addressed by one row, origin included
	access  Access

	arena    *arena
	view     bool
	released atomic.Bool
}

// Allocate creates a zeroed buffer. Indexed formats receive a grayscale
// palette with one entry per addressable index unless WithPalette is given.
func Allocate(width, height int, format Format, opts ...BufferOption) (*Buffer, error) {
	o := applyBufferOptions(opts)
	if err := checkLayout(width, height, format, o.stride); err != nil {
		return nil, err
	}
	stride := o.stride
	if stride == 0 {
		stride = format.RowBytes(width)
	}
	if format.IsIndexed() && o.palette == nil {
		o.palette = GrayscalePalette(format.MaxPaletteSize())
	}
	return newBuffer(make([]byte, stride*height), width, height, format, stride, o)
}

// FromRaw creates a buffer over existing memory without copying.
// The caller must keep data valid for the lifetime of the buffer.
// Indexed buffers created without WithPalette have no palette until one is
// committed.
func FromRaw(data []byte, width, height int, format Format, opts ...BufferOption) (*Buffer, error) {
	o := applyBufferOptions(opts)
	if err := checkLayout(width, height, format, o.stride); err != nil {
		return nil, err
	}
	stride := o.stride
	if stride == 0 {
		stride = format.RowBytes(width)
	}
	need := stride*(height-1) + format.RowBytes(width)
	if len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrDataTooSmall, len(data), need)
	}
	return newBuffer(data, width, height, format, stride, o)
}

func applyBufferOptions(opts []BufferOption) bufferOptions {
	var o bufferOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkLayout(width, height int, format Format, stride int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	if stride != 0 && stride < format.RowBytes(width) {
		return fmt.Errorf("%w: %d < %d", ErrInvalidStride, stride, format.RowBytes(width))
	}
	return nil
}

func newBuffer(data []byte, width, height int, format Format, stride int, o bufferOptions) (*Buffer, error) {
	if o.palette != nil {
		if err := checkPalette(format, o.palette); err != nil {
			return nil, err
		}
	}
	return &Buffer{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
		rowLen: format.RowBytes(width),
		access: o.access,
		arena: &arena{
			palette: o.palette.Clone(),
			sink:    o.sink,
		},
	}, nil
}

func checkPalette(format Format, p Palette) error {
	if !format.IsIndexed() {
		return fmt.Errorf("%w: %v has no palette", ErrInvalidFormat, format)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if len(p) > format.MaxPaletteSize() {
		return fmt.Errorf("%w: %d entries, %v addresses %d",
			ErrPaletteTooLarge, len(p), format, format.MaxPaletteSize())
	}
	return nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Format returns the pixel format.
func (b *Buffer) Format() Format {
	return b.format
}

// Stride returns the number of bytes between the starts of adjacent rows.
func (b *Buffer) Stride() int {
	return b.stride
}

// Access returns the access mode.
func (b *Buffer) Access() Access {
	return b.access
}

// Bounds returns (0, 0, Width, Height).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Data returns the backing memory starting at row 0.
// For a view of a sub-byte or offset region, column 0 does not start at
// the first byte of each row.
func (b *Buffer) Data() []byte {
	return b.data
}

// IsView reports whether b was created by View.
func (b *Buffer) IsView() bool {
	return b.view
}

// Released reports whether b or its owner has been released.
func (b *Buffer) Released() bool {
	return b.released.Load() || b.arena.released.Load()
}

// Release invalidates b. Releasing an owner invalidates all of its views;
// releasing a view only invalidates that view. Release is idempotent.
func (b *Buffer) Release() {
	b.released.Store(true)
	if !b.view {
		b.arena.released.Store(true)
		b.data = nil
	}
}

func (b *Buffer) alive() error {
	if b.Released() {
		return ErrReleased
	}
	return nil
}

func (b *Buffer) checkRead() error {
	if err := b.alive(); err != nil {
		return err
	}
	if !b.access.readable() {
		return ErrNotReadable
	}
	return nil
}

func (b *Buffer) checkWrite() error {
	if err := b.alive(); err != nil {
		return err
	}
	if !b.access.writable() {
		return ErrNotWritable
	}
	return nil
}

func (b *Buffer) checkPoint(x, y int) error {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return nil
}

// row returns the bytes of row y. Column x lives at pixel originX+x.
func (b *Buffer) row(y int) []byte {
	off := y * b.stride
	return b.data[off : off+b.rowLen]
}

// Palette returns the committed palette, or nil. The returned slice must
// not be modified; use CommitPalette to change it.
func (b *Buffer) Palette() Palette {
	return b.arena.palette
}

// CommitPalette validates p against the format, stores a copy shared with
// all views, and notifies the PaletteSink. A sink error is returned wrapped;
// the palette stays committed.
func (b *Buffer) CommitPalette(p Palette) error {
	if err := b.checkWrite(); err != nil {
		return err
	}
	if err := checkPalette(b.format, p); err != nil {
		return err
	}
	b.arena.palette = p.Clone()
	Logger().Debug("quant: palette committed", "entries", len(p), "format", b.format.String())
	if s := b.arena.sink; s != nil {
		if err := s.PaletteChanged(b.arena.palette); err != nil {
			return fmt.Errorf("quant: palette sink: %w", err)
		}
	}
	return nil
}

// ReadColor decodes the pixel at (x, y). Indexed pixels are resolved through
// the palette.
func (b *Buffer) ReadColor(x, y int) (Color, error) {
	if err := b.checkRead(); err != nil {
		return 0, err
	}
	if err := b.checkPoint(x, y); err != nil {
		return 0, err
	}
	pal := b.arena.palette
	if b.format.IsIndexed() && pal == nil {
		return 0, ErrNoPalette
	}
	return b.format.decode(b.row(y), b.originX+x, pal), nil
}

// WriteColor encodes c at (x, y). Formats without alpha store the flattened
// color; indexed formats store the index of the nearest palette entry in RGB.
func (b *Buffer) WriteColor(x, y int, c Color) error {
	if err := b.checkWrite(); err != nil {
		return err
	}
	if err := b.checkPoint(x, y); err != nil {
		return err
	}
	pal := b.arena.palette
	if b.format.IsIndexed() && pal == nil {
		return ErrNoPalette
	}
	b.format.encode(b.row(y), b.originX+x, c, pal)
	return nil
}

// ReadIndex returns the palette index stored at (x, y).
func (b *Buffer) ReadIndex(x, y int) (int, error) {
	if err := b.checkRead(); err != nil {
		return 0, err
	}
	if !b.format.IsIndexed() {
		return 0, ErrInvalidFormat
	}
	if err := b.checkPoint(x, y); err != nil {
		return 0, err
	}
	return b.format.readIndex(b.row(y), b.originX+x), nil
}

// WriteIndex stores a palette index at (x, y). The index must be addressable
// by the format and, when a palette is committed, smaller than its length.
func (b *Buffer) WriteIndex(x, y, idx int) error {
	if err := b.checkWrite(); err != nil {
		return err
	}
	if !b.format.IsIndexed() {
		return ErrInvalidFormat
	}
	if err := b.checkPoint(x, y); err != nil {
		return err
	}
	limit := b.format.MaxPaletteSize()
	if pal := b.arena.palette; pal != nil {
		limit = len(pal)
	}
	if idx < 0 || idx >= limit {
		return fmt.Errorf("%w: index %d, limit %d", ErrOutOfBounds, idx, limit)
	}
	b.format.writeIndex(b.row(y), b.originX+x, idx)
	return nil
}

// View returns a buffer over the rectangle r of b, sharing memory, access
// mode and palette. r is in b's coordinates and must lie within Bounds.
func (b *Buffer) View(r image.Rectangle) (*Buffer, error) {
	if err := b.alive(); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, ErrInvalidDimensions
	}
	if !r.In(b.Bounds()) {
		return nil, fmt.Errorf("%w: %v outside %v", ErrOutOfBounds, r, b.Bounds())
	}
	ox := b.originX + r.Min.X
	return &Buffer{
		data:    b.data[r.Min.Y*b.stride:],
		width:   r.Dx(),
		height:  r.Dy(),
		stride:  b.stride,
		format:  b.format,
		originX: ox,
		rowLen:  b.format.RowBytes(ox + r.Dx()),
		access:  b.access,
		arena:   b.arena,
		view:    true,
	}, nil
}

// Clone returns an owned copy of b with minimal stride. The copy has the same
// format and palette but no PaletteSink.
func (b *Buffer) Clone() (*Buffer, error) {
	if err := b.checkRead(); err != nil {
		return nil, err
	}
	out, err := Allocate(b.width, b.height, b.format)
	if err != nil {
		return nil, err
	}
	out.arena.palette = b.arena.palette.Clone()

	bpp := b.format.BitsPerPixel()
	if (b.originX*bpp)%8 == 0 {
		start := b.originX * bpp / 8
		for y := range b.height {
			copy(out.row(y), b.row(y)[start:])
		}
		return out, nil
	}
	// Sub-byte view not aligned to a byte boundary.
	for y := range b.height {
		src, dst := b.row(y), out.row(y)
		for x := range b.width {
			b.format.writeIndex(dst, x, b.format.readIndex(src, b.originX+x))
		}
	}
	return out, nil
}

// Cursor returns a cursor positioned at (x, y).
func (b *Buffer) Cursor(x, y int) (*Cursor, error) {
	if err := b.alive(); err != nil {
		return nil, err
	}
	c := &Cursor{buf: b, y: -1}
	if err := c.MoveTo(x, y); err != nil {
		return nil, err
	}
	return c, nil
}
