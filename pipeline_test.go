package quant

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestScanColors(t *testing.T) {
	for _, workers := range []int{1, 4} {
		for _, allow := range []bool{false, true} {
			src := gradient(t, 13, 9)
			q := newThresholdQuantizer(allow)
			if err := src.ScanColors(q, WithParallelism(workers)); err != nil {
				t.Fatalf("ScanColors() error = %v", err)
			}
			if got := q.added.Load(); got != 13*9 {
				t.Errorf("workers=%d allow=%v: AddColor called %d times", workers, allow, got)
			}
			if q.ColorCount() != 13*9 || q.prepared != 1 {
				t.Errorf("ColorCount() = %d, prepared %d", q.ColorCount(), q.prepared)
			}
		}
	}

	if err := gradient(t, 1, 1).ScanColors(nil); !errors.Is(err, ErrNilQuantizer) {
		t.Errorf("ScanColors(nil) error = %v", err)
	}
}

func TestQuantizeValidation(t *testing.T) {
	released, _ := Allocate(4, 4, Format8bppIndexed)
	released.Release()

	tests := []struct {
		name  string
		src   func() *Buffer
		dst   func() *Buffer
		q     Quantizer
		count int
		want  error
	}{
		{"zero colors", nil, nil, newThresholdQuantizer(true), 0, ErrUnsupportedColorCount},
		{"too many colors", nil, nil, newThresholdQuantizer(true), 257, ErrUnsupportedColorCount},
		{"nil quantizer", nil, nil, nil, 2, ErrNilQuantizer},
		{"size mismatch", nil, func() *Buffer { b, _ := Allocate(4, 3, Format8bppIndexed); return b },
			newThresholdQuantizer(true), 2, ErrSizeMismatch},
		{"read-only target", nil, func() *Buffer {
			b, _ := Allocate(4, 4, Format8bppIndexed, WithAccess(AccessRead))
			return b
		}, newThresholdQuantizer(true), 2, ErrNotWritable},
		{"palette too large for target", nil, func() *Buffer { b, _ := Allocate(4, 4, Format1bppIndexed); return b },
			newThresholdQuantizer(true), 4, ErrPaletteTooLarge},
		{"write-only source", func() *Buffer {
			b, _ := Allocate(4, 4, Format32bppARGB, WithAccess(AccessWrite))
			return b
		}, nil, newThresholdQuantizer(true), 2, ErrNotReadable},
		{"released target", nil, func() *Buffer { return released }, newThresholdQuantizer(true), 2, ErrReleased},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := gradient(t, 4, 4)
			if tt.src != nil {
				src = tt.src()
			}
			dst, _ := Allocate(4, 4, Format8bppIndexed)
			if tt.dst != nil {
				dst = tt.dst()
			}
			before := slices.Clone(dst.Data())

			_, err := src.Quantize(dst, tt.q, tt.count)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Quantize() error = %v, want %v", err, tt.want)
			}
			if !bytes.Equal(before, dst.Data()) {
				t.Error("target modified by a failed Quantize")
			}
			if q, ok := tt.q.(*thresholdQuantizer); ok && q.prepared != 0 {
				t.Error("quantizer prepared before validation finished")
			}
		})
	}
}

func TestQuantizeIndexedTarget(t *testing.T) {
	src := gradient(t, 16, 16)
	dst, _ := Allocate(16, 16, Format1bppIndexed)
	q := newThresholdQuantizer(true)

	pal, err := src.Quantize(dst, q, 2)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if !slices.Equal(pal, Palette{Black, White}) || !slices.Equal(dst.Palette(), pal) {
		t.Fatalf("palette = %v, committed %v", pal, dst.Palette())
	}
	if q.finished != 1 {
		t.Errorf("Finish called %d times", q.finished)
	}
	for y := range 16 {
		for x := range 16 {
			c, _ := src.ReadColor(x, y)
			got, _ := dst.ReadIndex(x, y)
			if want := q.PaletteIndex(c, x, y); got != want {
				t.Fatalf("index at (%d, %d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestQuantizeDirectTarget(t *testing.T) {
	src := gradient(t, 8, 8)
	dst, _ := Allocate(8, 8, Format24bppRGB)
	if _, err := src.Quantize(dst, newThresholdQuantizer(false), 2); err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	for y := range 8 {
		for x := range 8 {
			if c, _ := dst.ReadColor(x, y); c != Black && c != White {
				t.Fatalf("pixel (%d, %d) = %v", x, y, c)
			}
		}
	}
}

func TestQuantizeParallelMatchesSequential(t *testing.T) {
	src := gradient(t, 16, 15)
	run := func(workers int) []byte {
		dst, _ := Allocate(16, 15, Format4bppIndexed)
		if _, err := src.Quantize(dst, newThresholdQuantizer(true), 2, WithParallelism(workers)); err != nil {
			t.Fatalf("Quantize() error = %v", err)
		}
		return dst.Data()
	}
	if seq, par := run(1), run(8); !bytes.Equal(seq, par) {
		t.Error("parallel output differs from sequential output")
	}
}

func TestQuantizeSequentialDitherer(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	src := gradient(t, 5, 4)
	dst, _ := Allocate(5, 4, Format8bppIndexed)
	d := &recordingDitherer{}
	q := newThresholdQuantizer(true)

	_, err := src.Quantize(dst, q, 2,
		WithDitherer(d), WithParallelism(8), WithPath(SerpentinePath{}))
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	want := slices.Collect(SerpentinePath{}.Path(5, 4))
	if !slices.Equal(d.visited, want) {
		t.Errorf("visited %v, want serpentine order", d.visited)
	}
	if !slices.Equal(q.scanned, want) {
		t.Errorf("scanned %v, want serpentine order", q.scanned)
	}
	if d.prepared != 1 || d.finished != 1 {
		t.Errorf("ditherer prepared %d, finished %d", d.prepared, d.finished)
	}
	if !strings.Contains(buf.String(), "not in place") {
		t.Errorf("missing degrade warning in %q", buf.String())
	}
}

func TestQuantizeDithererPrepareFailureLeavesTarget(t *testing.T) {
	errPrepare := errors.New("prepare failed")
	notified := 0
	sink := sinkFunc(func(Palette) error {
		notified++
		return nil
	})
	src := gradient(t, 6, 5)
	dst, _ := Allocate(6, 5, Format8bppIndexed, WithPaletteSink(sink))
	for i := range dst.Data() {
		dst.Data()[i] = 7
	}
	before := dst.Palette()
	data := bytes.Clone(dst.Data())
	q := newThresholdQuantizer(true)

	_, err := src.Quantize(dst, q, 2, WithDitherer(&recordingDitherer{prepareErr: errPrepare}))
	if !errors.Is(err, errPrepare) {
		t.Fatalf("Quantize() error = %v, want %v", err, errPrepare)
	}
	if notified != 0 {
		t.Errorf("palette sink notified %d times", notified)
	}
	if !slices.Equal(dst.Palette(), before) {
		t.Errorf("target palette changed to %d entries", len(dst.Palette()))
	}
	if !bytes.Equal(dst.Data(), data) {
		t.Error("target pixels changed")
	}
	if q.finished != 1 {
		t.Errorf("quantizer finished %d times, want 1", q.finished)
	}
}

func TestQuantizeInplaceDithererRunsEverywhere(t *testing.T) {
	src := gradient(t, 9, 7)
	dst, _ := Allocate(9, 7, Format8bppIndexed)
	for i := range dst.Data() {
		dst.Data()[i] = 1
	}
	d := &recordingDitherer{inplace: true, own: true}

	if _, err := src.Quantize(dst, newThresholdQuantizer(true), 2, WithDitherer(d), WithParallelism(4)); err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	if len(d.visited) != 63 {
		t.Errorf("ditherer saw %d pixels", len(d.visited))
	}
	seen := make(map[image.Point]bool)
	for _, p := range d.visited {
		seen[p] = true
	}
	if len(seen) != 63 {
		t.Errorf("ditherer saw %d distinct pixels", len(seen))
	}
	for _, v := range dst.Data() {
		if v != 0 {
			t.Fatal("ditherer writes were overwritten")
		}
	}
}
