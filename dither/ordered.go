package dither

import (
	"fmt"
	"math"

	"github.com/gogpu/quant"
	dm "github.com/makeworld-the-better-one/dither/v2"
)

// OrderedOption configures an Ordered ditherer.
type OrderedOption func(*Ordered)

// WithStrength sets the threshold amplitude in channel units. Values <= 0
// select the default of 256 / cbrt(palette size).
func WithStrength(s float64) OrderedOption {
	return func(o *Ordered) {
		o.strength = s
	}
}

// Ordered is a positional threshold ditherer.
type Ordered struct {
	name      string
	threshold [][]float64 // in (-0.5, 0.5)
	strength  float64

	q       quant.Quantizer
	palette quant.Palette
	indexed bool
	scale   float64
}

// NewOrdered creates an ordered ditherer from a threshold matrix.
// It panics if the matrix is empty or ragged.
func NewOrdered(m dm.OrderedDitherMatrix, opts ...OrderedOption) *Ordered {
	return newOrdered("ordered", m.Matrix, m.Max, opts)
}

// NewBayer creates an n x n Bayer ditherer. n must be 2, 4, 8 or 16.
func NewBayer(n int, opts ...OrderedOption) *Ordered {
	switch n {
	case 2, 4, 8, 16:
	default:
		panic(fmt.Sprintf("dither: unsupported Bayer size %d", n))
	}
	return newOrdered(fmt.Sprintf("bayer%dx%d", n, n), bayerMatrix(n), uint(n*n), opts)
}

// bayerMatrix builds the n x n recursive Bayer index matrix, n a power of
// two: each step replaces every cell v by the 2x2 block
// {4v, 4v+2; 4v+3, 4v+1}.
func bayerMatrix(n int) [][]uint {
	m := [][]uint{{0}}
	for size := 1; size < n; size *= 2 {
		next := make([][]uint, 2*size)
		for y := range next {
			next[y] = make([]uint, 2*size)
		}
		for y := range size {
			for x := range size {
				v := 4 * m[y][x]
				next[y][x] = v
				next[y][x+size] = v + 2
				next[y+size][x] = v + 3
				next[y+size][x+size] = v + 1
			}
		}
		m = next
	}
	return m
}

// NewClusteredDot creates a 4x4 clustered dot ditherer.
func NewClusteredDot(opts ...OrderedOption) *Ordered {
	return newOrdered("clustered-dot4x4", dm.ClusteredDot4x4.Matrix, dm.ClusteredDot4x4.Max, opts)
}

// NewClusteredDot8x8 creates an 8x8 clustered dot ditherer.
func NewClusteredDot8x8(opts ...OrderedOption) *Ordered {
	return newOrdered("clustered-dot8x8", dm.ClusteredDot8x8.Matrix, dm.ClusteredDot8x8.Max, opts)
}

// dotHalftone8x8 grows two interleaved dots per tile, the classic
// newspaper screen.
var dotHalftone8x8 = [][]uint{
	{24, 10, 12, 26, 35, 47, 49, 37},
	{8, 0, 2, 14, 45, 59, 61, 51},
	{22, 6, 4, 16, 43, 57, 63, 53},
	{30, 20, 18, 28, 33, 41, 55, 39},
	{34, 46, 48, 36, 25, 11, 13, 27},
	{44, 58, 60, 50, 9, 1, 3, 15},
	{42, 56, 62, 52, 23, 7, 5, 17},
	{32, 40, 54, 38, 31, 21, 19, 29},
}

// NewDotHalftone creates an 8x8 dot halftone ditherer.
func NewDotHalftone(opts ...OrderedOption) *Ordered {
	return newOrdered("dot-halftone8x8", dotHalftone8x8, 64, opts)
}

func newOrdered(name string, m [][]uint, maxValue uint, opts []OrderedOption) *Ordered {
	if len(m) == 0 || len(m[0]) == 0 {
		panic("dither: empty threshold matrix")
	}
	// Levels is the number of distinct thresholds; be lenient about
	// matrices whose Max is the largest value rather than the cell count.
	levels := float64(maxValue)
	for _, row := range m {
		if len(row) != len(m[0]) {
			panic("dither: ragged threshold matrix")
		}
		for _, v := range row {
			levels = max(levels, float64(v)+1)
		}
	}

	o := &Ordered{name: name, threshold: make([][]float64, len(m))}
	for y, row := range m {
		o.threshold[y] = make([]float64, len(row))
		for x, v := range row {
			o.threshold[y][x] = (float64(v)+0.5)/levels - 0.5
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// String returns the matrix name.
func (o *Ordered) String() string {
	return o.name
}

// Size returns the matrix width and height.
func (o *Ordered) Size() (w, h int) {
	return len(o.threshold[0]), len(o.threshold)
}

// Threshold returns the normalized threshold at (x, y), in (-0.5, 0.5).
func (o *Ordered) Threshold(x, y int) float64 {
	h := len(o.threshold)
	w := len(o.threshold[0])
	return o.threshold[y%h][x%w]
}

// Prepare binds the ditherer to a pass.
func (o *Ordered) Prepare(q quant.Quantizer, p quant.Palette, _, dst *quant.Buffer) error {
	if q == nil {
		return quant.ErrNilQuantizer
	}
	if len(p) == 0 {
		return quant.ErrEmptyPalette
	}
	o.q = q
	o.palette = p
	o.indexed = dst.Format().IsIndexed()
	o.scale = o.strength
	if o.scale <= 0 {
		o.scale = 256 / math.Cbrt(float64(len(p)))
	}
	quant.Logger().Debug("dither: ordered", "matrix", o.name, "strength", o.scale)
	return nil
}

// ProcessPixel writes the palette entry of the thresholded source pixel.
func (o *Ordered) ProcessPixel(src, dst *quant.Cursor) bool {
	x, y := src.X(), src.Y()
	c := src.Color().Flatten()
	t := o.Threshold(x, y) * o.scale
	c = quant.RGB(clamp(float64(c.R())+t), clamp(float64(c.G())+t), clamp(float64(c.B())+t))
	write(dst, o.q.PaletteIndex(c, x, y), o.palette, o.indexed)
	return true
}

// Finish releases the pass binding.
func (o *Ordered) Finish() {
	o.q = nil
	o.palette = nil
}

// Inplace reports true.
func (o *Ordered) Inplace() bool {
	return true
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

func write(dst *quant.Cursor, idx int, p quant.Palette, indexed bool) {
	if indexed {
		dst.SetIndex(idx)
		return
	}
	dst.SetColor(p[idx])
}
