package quant

import (
	"image"
	"sync"
	"sync/atomic"
	"testing"
)

// gradient returns a w x h ARGB buffer whose pixels are all distinct for
// w, h <= 16.
func gradient(t testing.TB, w, h int) *Buffer {
	t.Helper()
	b, err := Allocate(w, h, Format32bppARGB)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	for y := range h {
		for x := range w {
			if err := b.WriteColor(x, y, RGB(uint8(x*16), uint8(y*16), uint8((x+y)*8))); err != nil {
				t.Fatalf("WriteColor() error = %v", err)
			}
		}
	}
	return b
}

// thresholdQuantizer maps colors to black or white by luminance.
type thresholdQuantizer struct {
	parallel bool

	mu       sync.Mutex
	seen     map[Color]struct{}
	scanned  []image.Point
	added    atomic.Int64
	prepared int
	finished int
}

func newThresholdQuantizer(parallel bool) *thresholdQuantizer {
	return &thresholdQuantizer{parallel: parallel}
}

func (q *thresholdQuantizer) Prepare(*Buffer) error {
	q.seen = make(map[Color]struct{})
	q.scanned = nil
	q.added.Store(0)
	q.prepared++
	return nil
}

func (q *thresholdQuantizer) AddColor(c Color, x, y int) {
	q.added.Add(1)
	q.mu.Lock()
	q.seen[c.Flatten()] = struct{}{}
	q.scanned = append(q.scanned, image.Pt(x, y))
	q.mu.Unlock()
}

func (q *thresholdQuantizer) ColorCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.seen)
}

func (q *thresholdQuantizer) Palette(n int) (Palette, error) {
	return Palette{Black, White}[:min(n, 2)], nil
}

func (q *thresholdQuantizer) PaletteIndex(c Color, _, _ int) int {
	if gray(c.Flatten()) >= 128 {
		return 1
	}
	return 0
}

func (q *thresholdQuantizer) Finish()             { q.finished++ }
func (q *thresholdQuantizer) AllowParallel() bool { return q.parallel }

// recordingDitherer records the visiting order. With own set it writes
// index 0 itself. A non-nil prepareErr fails Prepare.
type recordingDitherer struct {
	inplace    bool
	own        bool
	prepareErr error

	mu       sync.Mutex
	visited  []image.Point
	prepared int
	finished int
}

func (d *recordingDitherer) Prepare(Quantizer, Palette, *Buffer, *Buffer) error {
	if d.prepareErr != nil {
		return d.prepareErr
	}
	d.prepared++
	return nil
}

func (d *recordingDitherer) ProcessPixel(src, dst *Cursor) bool {
	d.mu.Lock()
	d.visited = append(d.visited, image.Pt(src.X(), src.Y()))
	d.mu.Unlock()
	if d.own {
		dst.SetIndex(0)
	}
	return d.own
}

func (d *recordingDitherer) Finish()       { d.finished++ }
func (d *recordingDitherer) Inplace() bool { return d.inplace }
