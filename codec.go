package quant

import "encoding/binary"

var le = binary.LittleEndian

// readIndex returns the palette index stored for pixel x of row.
func (f Format) readIndex(row []byte, x int) int {
	switch f {
	case Format1bppIndexed:
		return int(row[x>>3]>>(7-uint(x&7))) & 1
	case Format4bppIndexed:
		if x&1 == 0 {
			return int(row[x>>1] >> 4)
		}
		return int(row[x>>1] & 0x0F)
	case Format8bppIndexed:
		return int(row[x])
	default:
		return 0
	}
}

// writeIndex stores a palette index for pixel x of row. The index must be
// addressable by the format.
func (f Format) writeIndex(row []byte, x, idx int) {
	switch f {
	case Format1bppIndexed:
		mask := byte(0x80) >> uint(x&7)
		if idx&1 != 0 {
			row[x>>3] |= mask
		} else {
			row[x>>3] &^= mask
		}
	case Format4bppIndexed:
		b := &row[x>>1]
		if x&1 == 0 {
			*b = *b&0x0F | byte(idx)<<4
		} else {
			*b = *b&0xF0 | byte(idx)&0x0F
		}
	case Format8bppIndexed:
		row[x] = byte(idx)
	}
}

// expand5 widens a 5-bit channel to 8 bits by bit replication.
func expand5(v uint16) uint8 {
	v &= 0x1F
	return uint8(v<<3 | v>>2)
}

// expand6 widens a 6-bit channel to 8 bits by bit replication.
func expand6(v uint16) uint8 {
	v &= 0x3F
	return uint8(v<<2 | v>>4)
}

// gray returns the luminance of c: (299R + 587G + 114B) / 1000.
func gray(c Color) uint8 {
	return uint8((uint32(c.R())*299 + uint32(c.G())*587 + uint32(c.B())*114) / 1000)
}

// unpremultiply8 converts a premultiplied channel back to straight alpha.
func unpremultiply8(v, a uint32) uint8 {
	return uint8(min(255, (v*255+a/2)/a))
}

// decode reads pixel x of row. Indexed pixels are resolved through palette;
// an index beyond the palette decodes as opaque black.
func (f Format) decode(row []byte, x int, palette Palette) Color {
	switch f {
	case Format1bppIndexed, Format4bppIndexed, Format8bppIndexed:
		idx := f.readIndex(row, x)
		if idx < len(palette) {
			return palette[idx]
		}
		return Black

	case Format16bppGray:
		v := uint8(le.Uint16(row[x*2:]) >> 8)
		return RGB(v, v, v)

	case Format16bppRGB555:
		v := le.Uint16(row[x*2:])
		return RGB(expand5(v>>10), expand5(v>>5), expand5(v))

	case Format16bppRGB565:
		v := le.Uint16(row[x*2:])
		return RGB(expand5(v>>11), expand6(v>>5), expand5(v))

	case Format16bppARGB1555:
		v := le.Uint16(row[x*2:])
		var a uint8
		if v&0x8000 != 0 {
			a = 255
		}
		return ARGB(a, expand5(v>>10), expand5(v>>5), expand5(v))

	case Format24bppRGB:
		p := row[x*3:]
		return RGB(p[2], p[1], p[0])

	case Format32bppRGB:
		p := row[x*4:]
		return RGB(p[2], p[1], p[0])

	case Format32bppARGB:
		p := row[x*4:]
		return ARGB(p[3], p[2], p[1], p[0])

	case Format32bppPARGB:
		p := row[x*4:]
		a := uint32(p[3])
		switch a {
		case 0:
			return Transparent
		case 255:
			return RGB(p[2], p[1], p[0])
		}
		return ARGB(uint8(a), unpremultiply8(uint32(p[2]), a), unpremultiply8(uint32(p[1]), a), unpremultiply8(uint32(p[0]), a))

	case Format48bppRGB:
		p := row[x*6:]
		return RGB(uint8(le.Uint16(p[4:])>>8), uint8(le.Uint16(p[2:])>>8), uint8(le.Uint16(p)>>8))

	case Format64bppARGB:
		p := row[x*8:]
		return ARGB(uint8(le.Uint16(p[6:])>>8), uint8(le.Uint16(p[4:])>>8), uint8(le.Uint16(p[2:])>>8), uint8(le.Uint16(p)>>8))

	case Format64bppPARGB:
		p := row[x*8:]
		a := uint32(le.Uint16(p[6:]))
		if a == 0 {
			return Transparent
		}
		return ARGB(uint8(a>>8),
			unpremultiply8(uint32(le.Uint16(p[4:])), a),
			unpremultiply8(uint32(le.Uint16(p[2:])), a),
			unpremultiply8(uint32(le.Uint16(p)), a))

	default:
		return Transparent
	}
}

// encode writes c to pixel x of row. Formats without alpha store the
// flattened color. Indexed formats store the nearest palette entry in RGB;
// nothing is written when the palette is empty.
func (f Format) encode(row []byte, x int, c Color, palette Palette) {
	if !f.HasAlpha() && !c.IsOpaque() {
		c = c.Flatten()
	}

	switch f {
	case Format1bppIndexed, Format4bppIndexed, Format8bppIndexed:
		if idx := NearestInPalette(c, ModelRGB, palette); idx >= 0 {
			f.writeIndex(row, x, idx)
		}

	case Format16bppGray:
		le.PutUint16(row[x*2:], uint16(gray(c))*0x101)

	case Format16bppRGB555:
		le.PutUint16(row[x*2:], uint16(c.R()>>3)<<10|uint16(c.G()>>3)<<5|uint16(c.B()>>3))

	case Format16bppRGB565:
		le.PutUint16(row[x*2:], uint16(c.R()>>3)<<11|uint16(c.G()>>2)<<5|uint16(c.B()>>3))

	case Format16bppARGB1555:
		v := uint16(c.R()>>3)<<10 | uint16(c.G()>>3)<<5 | uint16(c.B()>>3)
		if c.A() >= 128 {
			v |= 0x8000
		}
		le.PutUint16(row[x*2:], v)

	case Format24bppRGB:
		p := row[x*3 : x*3+3]
		p[0], p[1], p[2] = c.B(), c.G(), c.R()

	case Format32bppRGB:
		p := row[x*4 : x*4+4]
		p[0], p[1], p[2], p[3] = c.B(), c.G(), c.R(), 255

	case Format32bppARGB:
		p := row[x*4 : x*4+4]
		p[0], p[1], p[2], p[3] = c.B(), c.G(), c.R(), c.A()

	case Format32bppPARGB:
		p := row[x*4 : x*4+4]
		a := uint32(c.A())
		pm := func(v uint8) uint8 { return uint8((uint32(v)*a + 127) / 255) }
		p[0], p[1], p[2], p[3] = pm(c.B()), pm(c.G()), pm(c.R()), uint8(a)

	case Format48bppRGB:
		p := row[x*6 : x*6+6]
		le.PutUint16(p, uint16(c.B())*0x101)
		le.PutUint16(p[2:], uint16(c.G())*0x101)
		le.PutUint16(p[4:], uint16(c.R())*0x101)

	case Format64bppARGB:
		p := row[x*8 : x*8+8]
		le.PutUint16(p, uint16(c.B())*0x101)
		le.PutUint16(p[2:], uint16(c.G())*0x101)
		le.PutUint16(p[4:], uint16(c.R())*0x101)
		le.PutUint16(p[6:], uint16(c.A())*0x101)

	case Format64bppPARGB:
		p := row[x*8 : x*8+8]
		a := uint64(c.A()) * 0x101
		pm := func(v uint8) uint16 { return uint16((uint64(v)*0x101*a + 32767) / 65535) }
		le.PutUint16(p, pm(c.B()))
		le.PutUint16(p[2:], pm(c.G()))
		le.PutUint16(p[4:], pm(c.R()))
		le.PutUint16(p[6:], uint16(a))
	}
}
