package quant

import "fmt"

// Cursor is a positioned accessor over one buffer. It caches the current
// row and palette so that per-pixel access skips offset arithmetic and
// access checks. A Cursor borrows its buffer and must not outlive it.
//
// A Cursor is not safe for concurrent use; give each goroutine its own.
type Cursor struct {
	buf     *Buffer
	row     []byte
	palette Palette
	x, y    int
}

// MoveTo positions the cursor at (x, y).
func (c *Cursor) MoveTo(x, y int) error {
	b := c.buf
	if err := b.checkPoint(x, y); err != nil {
		return err
	}
	if y != c.y || c.row == nil {
		if err := b.alive(); err != nil {
			return err
		}
		c.row = b.row(y)
		c.palette = b.arena.palette
	}
	c.x, c.y = x, y
	return nil
}

// X returns the current column.
func (c *Cursor) X() int { return c.x }

// Y returns the current row.
func (c *Cursor) Y() int { return c.y }

// Buffer returns the buffer the cursor walks.
func (c *Cursor) Buffer() *Buffer { return c.buf }

// Palette returns the palette cached when the cursor last changed rows.
func (c *Cursor) Palette() Palette { return c.palette }

// Color decodes the current pixel.
func (c *Cursor) Color() Color {
	return c.buf.format.decode(c.row, c.buf.originX+c.x, c.palette)
}

// SetColor encodes col at the current pixel.
func (c *Cursor) SetColor(col Color) {
	c.buf.format.encode(c.row, c.buf.originX+c.x, col, c.palette)
}

// Index returns the palette index of the current pixel.
// It returns 0 for direct formats.
func (c *Cursor) Index() int {
	return c.buf.format.readIndex(c.row, c.buf.originX+c.x)
}

// SetIndex stores a palette index at the current pixel.
// It panics if idx is not addressable by the format.
func (c *Cursor) SetIndex(idx int) {
	if idx < 0 || idx >= c.buf.format.MaxPaletteSize() {
		panic(fmt.Sprintf("quant: index %d not addressable by %v", idx, c.buf.format))
	}
	c.buf.format.writeIndex(c.row, c.buf.originX+c.x, idx)
}

// ColorAt decodes column x of the current row. x must be in [0, Width).
func (c *Cursor) ColorAt(x int) Color {
	return c.buf.format.decode(c.row, c.buf.originX+x, c.palette)
}

// SetColorAt encodes col at column x of the current row.
// x must be in [0, Width).
func (c *Cursor) SetColorAt(x int, col Color) {
	c.buf.format.encode(c.row, c.buf.originX+x, col, c.palette)
}
