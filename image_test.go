package quant

import (
	"image"
	"image/color"
	"testing"
)

func TestNewBufferFromImage(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	nrgba.SetNRGBA(10, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	nrgba.SetNRGBA(12, 21, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	rgba := image.NewRGBA(nrgba.Bounds())
	rgba.SetRGBA(10, 20, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	rgba.SetRGBA(12, 21, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	tests := []struct {
		name string
		img  image.Image
		at   map[image.Point]Color
	}{
		{"NRGBA", nrgba, map[image.Point]Color{
			{0, 0}: ARGB(4, 1, 2, 3),
			{2, 1}: RGB(200, 100, 50),
			{1, 0}: 0,
		}},
		{"RGBA", rgba, map[image.Point]Color{
			{0, 0}: RGB(1, 2, 3),
			{2, 1}: RGB(200, 100, 50),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBufferFromImage(tt.img)
			if err != nil {
				t.Fatalf("NewBufferFromImage() error = %v", err)
			}
			if b.Width() != 3 || b.Height() != 2 || b.Format() != Format32bppARGB {
				t.Fatalf("buffer = %dx%d %v", b.Width(), b.Height(), b.Format())
			}
			for p, want := range tt.at {
				if got, _ := b.ReadColor(p.X, p.Y); got != want {
					t.Errorf("ReadColor(%v) = %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestBufferImage(t *testing.T) {
	src := gradient(t, 4, 3)
	img, err := src.Image()
	if err != nil {
		t.Fatal(err)
	}
	n, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("Image() = %T, want *image.NRGBA", img)
	}
	if got := FromStdColor(n.At(3, 2)); got != RGB(48, 32, 40) {
		t.Errorf("At(3, 2) = %v", got)
	}

	ix, _ := Allocate(2, 1, Format4bppIndexed, WithPalette(Palette{Black, RGB(255, 0, 0)}))
	_ = ix.WriteIndex(1, 0, 1)
	img, err = ix.Image()
	if err != nil {
		t.Fatal(err)
	}
	p, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("Image() = %T, want *image.Paletted", img)
	}
	if len(p.Palette) != 2 || p.ColorIndexAt(0, 0) != 0 || p.ColorIndexAt(1, 0) != 1 {
		t.Errorf("paletted = %v %v", p.Palette, p.Pix)
	}
}

func TestQuantizeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	for y := 5; y < 7; y++ {
		for x := 5; x < 9; x++ {
			if x >= 7 {
				src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				src.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	out, err := QuantizeImage(src, newThresholdQuantizer(false), 2)
	if err != nil {
		t.Fatalf("QuantizeImage() error = %v", err)
	}
	if out.Bounds() != src.Bounds() || len(out.Palette) != 2 {
		t.Fatalf("out = %v, %d colors", out.Bounds(), len(out.Palette))
	}
	if out.ColorIndexAt(5, 5) != 0 || out.ColorIndexAt(8, 6) != 1 {
		t.Errorf("indices = %v", out.Pix)
	}

	if _, err := QuantizeImage(src, newThresholdQuantizer(false), 0); err == nil {
		t.Error("QuantizeImage(0 colors) succeeded")
	}
}

func TestDrawQuantizer(t *testing.T) {
	img, _ := gradient(t, 4, 4).Image()
	q := newThresholdQuantizer(false)

	base := make(color.Palette, 1, 8)
	base[0] = color.NRGBA{R: 9, A: 255}
	got := DrawQuantizer{Quantizer: q}.Quantize(base, img)
	if len(got) != 3 || got[0] != base[0] {
		t.Fatalf("Quantize() = %v", got)
	}
	if q.prepared != 1 || q.finished != 1 {
		t.Errorf("prepared = %d, finished = %d", q.prepared, q.finished)
	}

	full := make(color.Palette, 2)
	if got := (DrawQuantizer{Quantizer: q}).Quantize(full, img); len(got) != 2 {
		t.Errorf("Quantize(full) = %d colors, want 2", len(got))
	}
	if got := (DrawQuantizer{}).Quantize(base, img); len(got) != 1 {
		t.Errorf("Quantize(nil quantizer) = %d colors, want 1", len(got))
	}
}
