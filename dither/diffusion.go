package dither

import (
	"github.com/gogpu/quant"
	dm "github.com/makeworld-the-better-one/dither/v2"
)

// tap is one kernel cell: the share of the error pushed dx columns and dy
// rows ahead of the current pixel in walking direction.
type tap struct {
	dx, dy int
	w      float32
}

// Diffusion is an error diffusion ditherer.
//
// The error of pixels not yet visited is kept in a ring of kernel-height
// rows rather than in the target, which may be indexed. The kernel is
// mirrored horizontally on rows walked right to left and vertically when
// rows are walked bottom to top, so every path provider works.
type Diffusion struct {
	name string
	taps []tap
	rows int // kernel height

	q       quant.Quantizer
	palette quant.Palette
	indexed bool
	width   int
	height  int

	ring  [][][3]float32
	ringY []int // row held by each ring slot, -1 when empty

	lastX, lastY int
	dirX, dirY   int
}

// NewDiffusion creates a ditherer from an error diffusion matrix. The
// current pixel sits in the top row just left of the first non-zero weight.
// It panics if there is no such weight.
func NewDiffusion(name string, m dm.ErrorDiffusionMatrix) *Diffusion {
	if len(m) == 0 {
		panic("dither: empty diffusion matrix")
	}
	cur := -1
	for i, v := range m[0] {
		if v != 0 {
			cur = i - 1
			break
		}
	}
	if cur < 0 {
		panic("dither: diffusion matrix has no weight right of the current pixel")
	}

	d := &Diffusion{name: name, rows: len(m)}
	for dy, row := range m {
		for x, v := range row {
			if v == 0 || (dy == 0 && x <= cur) {
				continue
			}
			d.taps = append(d.taps, tap{dx: x - cur, dy: dy, w: v})
		}
	}
	return d
}

// NewFloydSteinberg creates a Floyd-Steinberg ditherer.
func NewFloydSteinberg() *Diffusion { return NewDiffusion("floyd-steinberg", dm.FloydSteinberg) }

// NewJarvisJudiceNinke creates a Jarvis, Judice and Ninke ditherer.
func NewJarvisJudiceNinke() *Diffusion {
	return NewDiffusion("jarvis-judice-ninke", dm.JarvisJudiceNinke)
}

// NewStucki creates a Stucki ditherer.
func NewStucki() *Diffusion { return NewDiffusion("stucki", dm.Stucki) }

// NewBurkes creates a Burkes ditherer.
func NewBurkes() *Diffusion { return NewDiffusion("burkes", dm.Burkes) }

// NewSierra3 creates a three-row Sierra ditherer.
func NewSierra3() *Diffusion { return NewDiffusion("sierra3", dm.Sierra) }

// NewSierra2 creates a two-row Sierra ditherer.
func NewSierra2() *Diffusion { return NewDiffusion("sierra2", dm.TwoRowSierra) }

// NewSierraLite creates a Sierra Lite ditherer.
func NewSierraLite() *Diffusion { return NewDiffusion("sierra-lite", dm.SierraLite) }

// NewAtkinson creates an Atkinson ditherer. It diffuses only 3/4 of the
// error.
func NewAtkinson() *Diffusion { return NewDiffusion("atkinson", dm.Atkinson) }

// String returns the kernel name.
func (d *Diffusion) String() string {
	return d.name
}

// Prepare binds the ditherer to a pass.
func (d *Diffusion) Prepare(q quant.Quantizer, p quant.Palette, _, dst *quant.Buffer) error {
	if q == nil {
		return quant.ErrNilQuantizer
	}
	if len(p) == 0 {
		return quant.ErrEmptyPalette
	}
	d.q = q
	d.palette = p
	d.indexed = dst.Format().IsIndexed()
	d.width, d.height = dst.Width(), dst.Height()

	d.ring = make([][][3]float32, d.rows)
	d.ringY = make([]int, d.rows)
	for i := range d.ring {
		d.ring[i] = make([][3]float32, d.width)
		d.ringY[i] = -1
	}
	d.lastX, d.lastY = -1, -1
	quant.Logger().Debug("dither: diffusion", "kernel", d.name, "taps", len(d.taps))
	return nil
}

// row returns the error row for y, clearing a slot that held an older row.
func (d *Diffusion) row(y int) [][3]float32 {
	slot := y % d.rows
	if d.ringY[slot] != y {
		clear(d.ring[slot])
		d.ringY[slot] = y
	}
	return d.ring[slot]
}

// direction updates the walking direction from the previous pixel.
// The first pixel of a row walked right to left is its last column.
func (d *Diffusion) direction(x, y int) {
	if y != d.lastY {
		if d.lastY < 0 {
			d.dirY = 1
			if y == d.height-1 && d.height > 1 {
				d.dirY = -1
			}
		} else if y < d.lastY {
			d.dirY = -1
		} else {
			d.dirY = 1
		}
		d.dirX = 1
		if x == d.width-1 && d.width > 1 {
			d.dirX = -1
		}
	} else if x < d.lastX {
		d.dirX = -1
	} else if x > d.lastX {
		d.dirX = 1
	}
	d.lastX, d.lastY = x, y
}

// ProcessPixel maps the source pixel plus its accumulated error to the
// palette and spreads the remaining error to unvisited neighbors.
func (d *Diffusion) ProcessPixel(src, dst *quant.Cursor) bool {
	x, y := src.X(), src.Y()
	d.direction(x, y)

	c := src.Color().Flatten()
	e := d.row(y)[x]
	r := clamp(float64(float32(c.R()) + e[0]))
	g := clamp(float64(float32(c.G()) + e[1]))
	b := clamp(float64(float32(c.B()) + e[2]))

	idx := d.q.PaletteIndex(quant.RGB(r, g, b), x, y)
	write(dst, idx, d.palette, d.indexed)

	got := d.palette[idx].Flatten()
	er := float32(int(r) - int(got.R()))
	eg := float32(int(g) - int(got.G()))
	eb := float32(int(b) - int(got.B()))
	if er == 0 && eg == 0 && eb == 0 {
		return true
	}

	for _, t := range d.taps {
		nx := x + t.dx*d.dirX
		ny := y + t.dy*d.dirY
		if nx < 0 || nx >= d.width || ny < 0 || ny >= d.height {
			continue
		}
		cell := &d.row(ny)[nx]
		cell[0] += er * t.w
		cell[1] += eg * t.w
		cell[2] += eb * t.w
	}
	return true
}

// Finish releases the error rows.
func (d *Diffusion) Finish() {
	d.q = nil
	d.palette = nil
	d.ring = nil
	d.ringY = nil
}

// Inplace reports false: neighbors depend on the current pixel.
func (d *Diffusion) Inplace() bool {
	return false
}
