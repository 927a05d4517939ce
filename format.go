package quant

// Format represents a pixel storage format.
//
// Multi-byte channels and 16-bit packed pixels are little-endian. Direct
// formats store channels in B, G, R(, A) order, the layout of most platform
// bitmaps.
type Format uint8

const (
	// Format1bppIndexed is 1 bit per pixel, 2 palette entries, most
	// significant bit first.
	Format1bppIndexed Format = iota

	// Format4bppIndexed is 4 bits per pixel, 16 palette entries, high nibble first.
	Format4bppIndexed

	// Format8bppIndexed is 8 bits per pixel, 256 palette entries.
	Format8bppIndexed

	// Format16bppGray is 16-bit grayscale.
	Format16bppGray

	// Format16bppRGB555 is 5 bits per channel, top bit unused.
	Format16bppRGB555

	// Format16bppRGB565 is 5-6-5 bits for red, green and blue.
	Format16bppRGB565

	// Format16bppARGB1555 is 5 bits per channel plus a 1-bit alpha in the top bit.
	Format16bppARGB1555

	// Format24bppRGB is 8 bits per channel, stored B, G, R.
	Format24bppRGB

	// Format32bppRGB is 8 bits per channel, stored B, G, R plus an unused byte.
	Format32bppRGB

	// Format32bppARGB is 8 bits per channel, stored B, G, R, A.
	// This is the standard format for most operations.
	Format32bppARGB

	// Format32bppPARGB is Format32bppARGB with premultiplied alpha.
	Format32bppPARGB

	// Format48bppRGB is 16 bits per channel, stored B, G, R.
	Format48bppRGB

	// Format64bppARGB is 16 bits per channel, stored B, G, R, A.
	Format64bppARGB

	// Format64bppPARGB is Format64bppARGB with premultiplied alpha.
	Format64bppPARGB

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BitsPerPixel is the number of bits per pixel.
	BitsPerPixel int

	// Indexed indicates that pixels are palette indices.
	Indexed bool

	// HasAlpha indicates if the format has an alpha channel.
	HasAlpha bool

	// IsPremultiplied indicates if alpha is premultiplied.
	IsPremultiplied bool

	// IsGrayscale indicates if this is a grayscale format.
	IsGrayscale bool

	// BitsPerChannel is the number of bits of the widest color channel.
	// For indexed formats it is the index width.
	BitsPerChannel int
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	Format1bppIndexed:   {BitsPerPixel: 1, Indexed: true, BitsPerChannel: 1},
	Format4bppIndexed:   {BitsPerPixel: 4, Indexed: true, BitsPerChannel: 4},
	Format8bppIndexed:   {BitsPerPixel: 8, Indexed: true, BitsPerChannel: 8},
	Format16bppGray:     {BitsPerPixel: 16, IsGrayscale: true, BitsPerChannel: 16},
	Format16bppRGB555:   {BitsPerPixel: 16, BitsPerChannel: 5},
	Format16bppRGB565:   {BitsPerPixel: 16, BitsPerChannel: 6},
	Format16bppARGB1555: {BitsPerPixel: 16, HasAlpha: true, BitsPerChannel: 5},
	Format24bppRGB:      {BitsPerPixel: 24, BitsPerChannel: 8},
	Format32bppRGB:      {BitsPerPixel: 32, BitsPerChannel: 8},
	Format32bppARGB:     {BitsPerPixel: 32, HasAlpha: true, BitsPerChannel: 8},
	Format32bppPARGB:    {BitsPerPixel: 32, HasAlpha: true, IsPremultiplied: true, BitsPerChannel: 8},
	Format48bppRGB:      {BitsPerPixel: 48, BitsPerChannel: 16},
	Format64bppARGB:     {BitsPerPixel: 64, HasAlpha: true, BitsPerChannel: 16},
	Format64bppPARGB:    {BitsPerPixel: 64, HasAlpha: true, IsPremultiplied: true, BitsPerChannel: 16},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BitsPerPixel returns the number of bits per pixel.
func (f Format) BitsPerPixel() int {
	return f.Info().BitsPerPixel
}

// IsIndexed returns true if pixels are palette indices.
func (f Format) IsIndexed() bool {
	return f.Info().Indexed
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// IsGrayscale returns true if this is a grayscale format.
func (f Format) IsGrayscale() bool {
	return f.Info().IsGrayscale
}

// BitsPerChannel returns the number of bits of the widest channel.
func (f Format) BitsPerChannel() int {
	return f.Info().BitsPerChannel
}

// MaxPaletteSize returns the number of addressable palette entries of an
// indexed format, or 0 for direct formats.
func (f Format) MaxPaletteSize() int {
	if !f.IsIndexed() {
		return 0
	}
	return 1 << f.BitsPerPixel()
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case Format1bppIndexed:
		return "1bppIndexed"
	case Format4bppIndexed:
		return "4bppIndexed"
	case Format8bppIndexed:
		return "8bppIndexed"
	case Format16bppGray:
		return "16bppGray"
	case Format16bppRGB555:
		return "16bppRGB555"
	case Format16bppRGB565:
		return "16bppRGB565"
	case Format16bppARGB1555:
		return "16bppARGB1555"
	case Format24bppRGB:
		return "24bppRGB"
	case Format32bppRGB:
		return "32bppRGB"
	case Format32bppARGB:
		return "32bppARGB"
	case Format32bppPARGB:
		return "32bppPARGB"
	case Format48bppRGB:
		return "48bppRGB"
	case Format64bppARGB:
		return "64bppARGB"
	case Format64bppPARGB:
		return "64bppPARGB"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes returns the minimal number of bytes of a row of the given width.
// Sub-byte rows are rounded up to whole bytes.
func (f Format) RowBytes(width int) int {
	return (width*f.BitsPerPixel() + 7) / 8
}

// ImageBytes returns the number of bytes of an image with minimal stride.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
