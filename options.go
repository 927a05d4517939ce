package quant

import "runtime"

// BufferOption configures a Buffer during Allocate or FromRaw.
//
// Example:
//
//	buf, err := quant.Allocate(640, 480, quant.Format8bppIndexed,
//	    quant.WithStride(656),
//	    quant.WithPaletteSink(gifFrame))
type BufferOption func(*bufferOptions)

// bufferOptions holds optional configuration for Buffer creation.
type bufferOptions struct {
	stride  int // 0 means minimal stride
	palette Palette
	access  Access
	sink    PaletteSink
}

// WithStride sets the row width in bytes. It must be at least
// format.RowBytes(width).
func WithStride(stride int) BufferOption {
	return func(o *bufferOptions) {
		o.stride = stride
	}
}

// WithPalette attaches an initial palette. It is validated like CommitPalette
// but the sink is not notified.
func WithPalette(p Palette) BufferOption {
	return func(o *bufferOptions) {
		o.palette = p
	}
}

// WithAccess restricts the buffer to reading or writing.
func WithAccess(a Access) BufferOption {
	return func(o *bufferOptions) {
		o.access = a
	}
}

// WithPaletteSink registers the owner that must be told about palette commits,
// for example a platform image handle holding its own copy of the palette.
func WithPaletteSink(s PaletteSink) BufferOption {
	return func(o *bufferOptions) {
		o.sink = s
	}
}

// PassOption configures ScanColors and Quantize.
//
// Example:
//
//	pal, err := src.Quantize(dst, quantizer.NewWu(), 256,
//	    quant.WithDitherer(dither.NewBayer(8)),
//	    quant.WithParallelism(runtime.NumCPU()))
type PassOption func(*passOptions)

// passOptions holds optional configuration for a pixel pass.
type passOptions struct {
	ditherer    Ditherer
	parallelism int
	path        PathProvider
}

// defaultPassOptions returns the default pass options: no ditherer,
// sequential execution, row-major path.
func defaultPassOptions() passOptions {
	return passOptions{
		parallelism: 1,
		path:        StandardPath{},
	}
}

func newPassOptions(opts []PassOption) passOptions {
	o := defaultPassOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDitherer routes the second pass through d.
func WithDitherer(d Ditherer) PassOption {
	return func(o *passOptions) {
		o.ditherer = d
	}
}

// WithParallelism sets the number of worker tasks for row-parallel passes.
// Values <= 0 select runtime.GOMAXPROCS(0). Parallelism only applies when the
// quantizer allows it and no sequential ditherer is attached.
func WithParallelism(n int) PassOption {
	return func(o *passOptions) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.parallelism = n
	}
}

// WithPath sets the traversal order of sequential passes.
// Row-parallel passes always walk their row ranges in row-major order.
func WithPath(p PathProvider) PassOption {
	return func(o *passOptions) {
		if p != nil {
			o.path = p
		}
	}
}
