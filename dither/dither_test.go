package dither

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/gogpu/quant"
	"github.com/gogpu/quant/quantizer"
)

var blackWhite = quant.Palette{quant.Black, quant.White}

// gray returns a w x h 24bpp buffer filled with one gray level.
func gray(t testing.TB, w, h int, v uint8) *quant.Buffer {
	t.Helper()
	b, err := quant.Allocate(w, h, quant.Format24bppRGB)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	for y := range h {
		for x := range w {
			_ = b.WriteColor(x, y, quant.RGB(v, v, v))
		}
	}
	return b
}

// run dithers src onto black and white and returns the target.
func run(t testing.TB, src *quant.Buffer, d quant.Ditherer, opts ...quant.PassOption) *quant.Buffer {
	t.Helper()
	dst, err := quant.Allocate(src.Width(), src.Height(), quant.Format8bppIndexed)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	opts = append(opts, quant.WithDitherer(d))
	if _, err := src.Quantize(dst, quantizer.NewPredefined(blackWhite), 2, opts...); err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}
	return dst
}

func whiteShare(b *quant.Buffer) float64 {
	n := 0
	for y := range b.Height() {
		for x := range b.Width() {
			if i, _ := b.ReadIndex(x, y); i == 1 {
				n++
			}
		}
	}
	return float64(n) / float64(b.Width()*b.Height())
}

func TestDotHalftoneLevels(t *testing.T) {
	var seen []uint
	for _, row := range dotHalftone8x8 {
		seen = append(seen, row...)
	}
	slices.Sort(seen)
	for i, v := range seen {
		if v != uint(i) {
			t.Fatalf("dot halftone values = %v, want 0..63 once each", seen)
		}
	}
}

func TestBayerMatrix(t *testing.T) {
	want4 := [][]uint{
		{0, 8, 2, 10},
		{12, 4, 14, 6},
		{3, 11, 1, 9},
		{15, 7, 13, 5},
	}
	got := bayerMatrix(4)
	for y := range want4 {
		if !slices.Equal(got[y], want4[y]) {
			t.Fatalf("bayerMatrix(4) = %v, want %v", got, want4)
		}
	}

	for _, n := range []int{2, 4, 8, 16} {
		m := bayerMatrix(n)
		var seen []uint
		for _, row := range m {
			if len(row) != n {
				t.Fatalf("bayerMatrix(%d) row width = %d", n, len(row))
			}
			seen = append(seen, row...)
		}
		slices.Sort(seen)
		for i, v := range seen {
			if v != uint(i) {
				t.Fatalf("bayerMatrix(%d) does not hold 0..%d once each", n, n*n-1)
			}
		}
	}
}

func TestOrderedThresholds(t *testing.T) {
	for _, o := range []*Ordered{NewBayer(2), NewBayer(4), NewBayer(8), NewBayer(16), NewClusteredDot(), NewClusteredDot8x8(), NewDotHalftone()} {
		w, h := o.Size()
		for y := range h {
			for x := range w {
				if v := o.Threshold(x, y); v <= -0.5 || v >= 0.5 {
					t.Errorf("%v: Threshold(%d, %d) = %v", o, x, y, v)
				}
				if o.Threshold(x+w, y+h) != o.Threshold(x, y) {
					t.Errorf("%v: threshold does not tile", o)
				}
			}
		}
	}
}

func TestBayerSizes(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16} {
		if w, h := NewBayer(n).Size(); w != n || h != n {
			t.Errorf("NewBayer(%d).Size() = %d, %d", n, w, h)
		}
	}
	for _, n := range []int{0, 3, 32} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewBayer(%d) did not panic", n)
				}
			}()
			NewBayer(n)
		}()
	}
}

func TestOrderedMidGray(t *testing.T) {
	src := gray(t, 16, 16, 128)
	seq := run(t, src, NewBayer(4))
	if s := whiteShare(seq); s < 0.25 || s > 0.75 {
		t.Errorf("white share = %v", s)
	}
	par := run(t, src, NewBayer(4), quant.WithParallelism(8))
	if !slices.Equal(seq.Data(), par.Data()) {
		t.Error("parallel ordered dithering differs from sequential")
	}
}

func TestOrderedExtremes(t *testing.T) {
	for _, tt := range []struct {
		v    uint8
		want float64
	}{{0, 0}, {255, 1}} {
		dst := run(t, gray(t, 8, 8, tt.v), NewBayer(8, WithStrength(32)))
		if s := whiteShare(dst); s != tt.want {
			t.Errorf("white share of %d = %v, want %v", tt.v, s, tt.want)
		}
	}
}

func TestOrderedDirectTarget(t *testing.T) {
	src := gray(t, 8, 8, 128)
	dst, _ := quant.Allocate(8, 8, quant.Format24bppRGB)
	if _, err := src.Quantize(dst, quantizer.NewPredefined(blackWhite), 2, quant.WithDitherer(NewBayer(8))); err != nil {
		t.Fatal(err)
	}
	for y := range 8 {
		for x := range 8 {
			if c, _ := dst.ReadColor(x, y); c != quant.Black && c != quant.White {
				t.Fatalf("ReadColor(%d, %d) = %v", x, y, c)
			}
		}
	}
}

func TestFloydSteinbergTaps(t *testing.T) {
	want := []tap{
		{dx: 1, dy: 0, w: 7.0 / 16},
		{dx: -1, dy: 1, w: 3.0 / 16},
		{dx: 0, dy: 1, w: 5.0 / 16},
		{dx: 1, dy: 1, w: 1.0 / 16},
	}
	if got := NewFloydSteinberg().taps; !slices.Equal(got, want) {
		t.Errorf("taps = %v, want %v", got, want)
	}
}

func TestKernelWeights(t *testing.T) {
	for _, d := range []*Diffusion{
		NewFloydSteinberg(), NewJarvisJudiceNinke(), NewStucki(), NewBurkes(),
		NewSierra3(), NewSierra2(), NewSierraLite(),
	} {
		var sum float32
		for _, tp := range d.taps {
			if tp.dy == 0 && tp.dx <= 0 {
				t.Errorf("%v: tap %+v points at a visited pixel", d, tp)
			}
			sum += tp.w
		}
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("%v: weights sum to %v", d, sum)
		}
	}
	var sum float32
	for _, tp := range NewAtkinson().taps {
		sum += tp.w
	}
	if sum < 0.749 || sum > 0.751 {
		t.Errorf("atkinson: weights sum to %v, want 0.75", sum)
	}
}

func TestDiffusionMidGray(t *testing.T) {
	src := gray(t, 16, 16, 128)
	paths := []quant.PathProvider{quant.StandardPath{}, quant.SerpentinePath{}, quant.ReversedPath{}}
	for _, p := range paths {
		dst := run(t, src, NewFloydSteinberg(), quant.WithPath(p))
		if s := whiteShare(dst); s < 0.4 || s > 0.6 {
			t.Errorf("%T: white share = %v", p, s)
		}
	}
}

func TestDiffusionIgnoresParallelism(t *testing.T) {
	src := gray(t, 24, 24, 90)
	seq := run(t, src, NewStucki(), quant.WithParallelism(1))
	par := run(t, src, NewStucki(), quant.WithParallelism(8))
	if !slices.Equal(seq.Data(), par.Data()) {
		t.Error("diffusion result depends on parallelism")
	}
}

// bands returns a w x h image of six horizontal color bands shaded by x.
func bands(t testing.TB, w, h int) *quant.Buffer {
	t.Helper()
	base := []quant.Color{
		quant.RGB(255, 0, 0), quant.RGB(0, 255, 0), quant.RGB(0, 0, 255),
		quant.RGB(30, 30, 30), quant.RGB(0, 90, 90), quant.RGB(200, 200, 0),
	}
	b, err := quant.Allocate(w, h, quant.Format32bppARGB)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		c := base[y*len(base)/h]
		for x := range w {
			s := uint8(x * 3)
			_ = b.WriteColor(x, y, quant.RGB(c.R()|s, c.G()|s/2, c.B()))
		}
	}
	return b
}

func TestDiffusionPipelineIgnoresParallelism(t *testing.T) {
	flat := func(t testing.TB) *quant.Buffer { return bands(t, 1, 96) }
	shaded := func(t testing.TB) *quant.Buffer { return bands(t, 32, 96) }

	tests := []struct {
		name   string
		src    func(testing.TB) *quant.Buffer
		q      func() quant.Quantizer
		colors int
	}{
		{"octree early palette", flat, func() quant.Quantizer { return quantizer.NewOctree() }, 16},
		{"wu early palette", flat, func() quant.Quantizer { return quantizer.NewWu() }, 16},
		{"octree reduced", shaded, func() quant.Quantizer { return quantizer.NewOctree() }, 12},
		{"wu reduced", shaded, func() quant.Quantizer { return quantizer.NewWu() }, 12},
	}
	paths := []quant.PathProvider{quant.ReversedPath{}, quant.SerpentinePath{}}

	for _, tt := range tests {
		for _, p := range paths {
			t.Run(fmt.Sprintf("%s/%T", tt.name, p), func(t *testing.T) {
				src := tt.src(t)
				pass := func(workers int) (quant.Palette, []byte) {
					dst, _ := quant.Allocate(src.Width(), src.Height(), quant.Format8bppIndexed)
					pal, err := src.Quantize(dst, tt.q(), tt.colors,
						quant.WithDitherer(NewStucki()), quant.WithPath(p), quant.WithParallelism(workers))
					if err != nil {
						t.Fatalf("Quantize() error = %v", err)
					}
					return pal, dst.Data()
				}
				seqPal, seqData := pass(1)
				for range 5 {
					parPal, parData := pass(8)
					if !slices.Equal(parPal, seqPal) {
						t.Fatalf("palette = %v, sequential %v", parPal, seqPal)
					}
					if !slices.Equal(parData, seqData) {
						t.Fatal("indices differ from sequential run")
					}
				}
			})
		}
	}
}

func TestDiffusionExactColors(t *testing.T) {
	src := gray(t, 8, 8, 255)
	if s := whiteShare(run(t, src, NewAtkinson())); s != 1 {
		t.Errorf("white share = %v, want 1", s)
	}
}

func TestPrepareErrors(t *testing.T) {
	dst, _ := quant.Allocate(2, 2, quant.Format8bppIndexed)
	q := quantizer.NewPredefined(blackWhite)
	for _, d := range []quant.Ditherer{NewBayer(2), NewFloydSteinberg()} {
		if err := d.Prepare(nil, blackWhite, dst, dst); !errors.Is(err, quant.ErrNilQuantizer) {
			t.Errorf("%v: Prepare(nil quantizer) error = %v", d, err)
		}
		if err := d.Prepare(q, nil, dst, dst); !errors.Is(err, quant.ErrEmptyPalette) {
			t.Errorf("%v: Prepare(empty palette) error = %v", d, err)
		}
	}
}

func TestInplace(t *testing.T) {
	if !NewBayer(2).Inplace() {
		t.Error("ordered Inplace() = false")
	}
	if NewFloydSteinberg().Inplace() {
		t.Error("diffusion Inplace() = true")
	}
}

func TestRegistry(t *testing.T) {
	names := Names()
	if len(names) != 15 || !slices.IsSorted(names) {
		t.Fatalf("Names() = %v", names)
	}
	for _, n := range names {
		if d, ok := ByName(n); !ok || d == nil {
			t.Errorf("ByName(%q) = %v, %v", n, d, ok)
		}
	}
	if _, ok := ByName("unknown"); ok {
		t.Error("ByName(unknown) succeeded")
	}
}

func TestDrawer(t *testing.T) {
	src := image.NewUniform(color.Gray{Y: 128})
	pal := color.Palette{color.Black, color.White}

	tests := []struct {
		name      string
		d         Drawer
		wantMixed bool
	}{
		{"nearest", Drawer{}, false},
		{"floyd-steinberg", Drawer{Ditherer: NewFloydSteinberg()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := image.NewPaletted(image.Rect(0, 0, 12, 12), pal)
			for i := range dst.Pix {
				dst.Pix[i] = 0
			}
			tt.d.Draw(dst, image.Rect(2, 2, 10, 10), src, image.Point{})

			counts := [2]int{}
			for y := 2; y < 10; y++ {
				for x := 2; x < 10; x++ {
					counts[dst.ColorIndexAt(x, y)]++
				}
			}
			mixed := counts[0] > 0 && counts[1] > 0
			if mixed != tt.wantMixed {
				t.Errorf("counts = %v, mixed = %v, want %v", counts, mixed, tt.wantMixed)
			}
			if dst.ColorIndexAt(0, 0) != 0 || dst.ColorIndexAt(11, 11) != 0 {
				t.Error("pixels outside the rectangle were written")
			}
		})
	}
}

func TestDrawerFallback(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Drawer{}.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{})
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("RGBAAt() = %v", got)
	}
}
