package quant

import "errors"

// Buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("quant: invalid dimensions")

	// ErrInvalidFormat is returned when the pixel format is not supported
	// or does not fit the requested operation.
	ErrInvalidFormat = errors.New("quant: invalid pixel format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("quant: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than stride*height.
	ErrDataTooSmall = errors.New("quant: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates or an index value
	// are outside the addressable range.
	ErrOutOfBounds = errors.New("quant: index out of range")

	// ErrNotReadable is returned when reading from a write-only buffer.
	ErrNotReadable = errors.New("quant: buffer is not readable")

	// ErrNotWritable is returned when writing to a read-only buffer.
	ErrNotWritable = errors.New("quant: buffer is not writable")

	// ErrReleased is returned when operating on a released buffer or on a
	// view of a released buffer.
	ErrReleased = errors.New("quant: buffer released")

	// ErrSizeMismatch is returned when two buffers must have equal dimensions.
	ErrSizeMismatch = errors.New("quant: buffer sizes differ")
)

// Palette errors.
var (
	// ErrNoPalette is returned when an indexed buffer has no palette.
	ErrNoPalette = errors.New("quant: indexed buffer has no palette")

	// ErrEmptyPalette is returned for a palette with no entries.
	ErrEmptyPalette = errors.New("quant: empty palette")

	// ErrPaletteTooLarge is returned when a palette has more entries than the
	// target format can address.
	ErrPaletteTooLarge = errors.New("quant: palette too large for format")
)

// Quantization errors.
var (
	// ErrUnsupportedColorCount is returned for a requested color count
	// outside [1, 256].
	ErrUnsupportedColorCount = errors.New("quant: unsupported color count")

	// ErrCacheNotConfigured is returned when a quantizer needs nearest-color
	// resolution but has no color cache.
	ErrCacheNotConfigured = errors.New("quant: color cache not configured")

	// ErrNilQuantizer is returned when a pass is started without a quantizer.
	ErrNilQuantizer = errors.New("quant: nil quantizer")

	// ErrInvalidState is returned when a quantizer operation is called out of
	// order (for example Palette before Prepare).
	ErrInvalidState = errors.New("quant: invalid quantizer state")

	// ErrReductionFailed is returned when a reduction algorithm cannot
	// produce a palette of the requested size.
	ErrReductionFailed = errors.New("quant: palette reduction failed")
)
