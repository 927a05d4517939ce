package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/quant"
)

// Index plane layout inside the zstd stream, all integers little-endian:
//
//	magic   [4]byte "QIDX"
//	width   uint32
//	height  uint32
//	entries uint16
//	palette [entries]uint32 (0xAARRGGBB)
//	indices [width*height]uint8, row-major
var indexMagic = [4]byte{'Q', 'I', 'D', 'X'}

// ErrBadIndexPlane is returned for a stream that is not an index plane.
var ErrBadIndexPlane = errors.New("imageio: malformed index plane")

type indexHeader struct {
	Magic   [4]byte
	Width   uint32
	Height  uint32
	Entries uint16
}

// WriteIndexPlane writes the palette and the indices of an indexed buffer
// as a zstd compressed stream.
func WriteIndexPlane(w io.Writer, b *quant.Buffer) error {
	if !b.Format().IsIndexed() {
		return fmt.Errorf("%w: %v", quant.ErrInvalidFormat, b.Format())
	}
	pal := b.Palette()
	if pal == nil {
		return quant.ErrNoPalette
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("imageio: zstd writer: %w", err)
	}
	bw := bufio.NewWriter(enc)

	h := indexHeader{Magic: indexMagic, Width: uint32(b.Width()), Height: uint32(b.Height()), Entries: uint16(len(pal))}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		_ = enc.Close()
		return err
	}
	for _, c := range pal {
		if err := binary.Write(bw, binary.LittleEndian, uint32(c)); err != nil {
			_ = enc.Close()
			return err
		}
	}

	row := make([]byte, b.Width())
	for y := range b.Height() {
		for x := range row {
			idx, err := b.ReadIndex(x, y)
			if err != nil {
				_ = enc.Close()
				return err
			}
			row[x] = byte(idx)
		}
		if _, err := bw.Write(row); err != nil {
			_ = enc.Close()
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadIndexPlane reads a stream written by WriteIndexPlane into a new
// Format8bppIndexed buffer.
func ReadIndexPlane(r io.Reader) (*quant.Buffer, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: zstd reader: %w", err)
	}
	defer dec.Close()

	var h indexHeader
	if err := binary.Read(dec, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrBadIndexPlane, err)
	}
	if h.Magic != indexMagic || h.Entries == 0 || h.Entries > quant.MaxPaletteSize {
		return nil, ErrBadIndexPlane
	}

	raw := make([]uint32, h.Entries)
	if err := binary.Read(dec, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("%w: palette: %w", ErrBadIndexPlane, err)
	}
	pal := make(quant.Palette, len(raw))
	for i, v := range raw {
		pal[i] = quant.Color(v)
	}

	w, ht := int(h.Width), int(h.Height)
	data := make([]byte, w*ht)
	if _, err := io.ReadFull(dec, data); err != nil {
		return nil, fmt.Errorf("%w: indices: %w", ErrBadIndexPlane, err)
	}
	for _, idx := range data {
		if int(idx) >= len(pal) {
			return nil, fmt.Errorf("%w: index %d, %d entries", ErrBadIndexPlane, idx, len(pal))
		}
	}
	return quant.FromRaw(data, w, ht, quant.Format8bppIndexed, quant.WithPalette(pal))
}
