package imageio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/quant"
)

func gradient(t *testing.T, w, h int) *quant.Buffer {
	t.Helper()
	b, err := quant.Allocate(w, h, quant.Format32bppARGB)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		for x := range w {
			_ = b.WriteColor(x, y, quant.RGB(uint8(x*20), uint8(y*30), 77))
		}
	}
	return b
}

func indexed(t *testing.T) *quant.Buffer {
	t.Helper()
	pal := quant.Palette{quant.RGB(255, 0, 0), quant.RGB(0, 128, 0), quant.RGB(0, 0, 255)}
	b, err := quant.Allocate(5, 4, quant.Format8bppIndexed, quant.WithPalette(pal))
	if err != nil {
		t.Fatal(err)
	}
	for y := range 4 {
		for x := range 5 {
			_ = b.WriteIndex(x, y, (x+y)%3)
		}
	}
	return b
}

func sameColors(t *testing.T, got, want *quant.Buffer) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for y := range want.Height() {
		for x := range want.Width() {
			g, _ := got.ReadColor(x, y)
			w, _ := want.ReadColor(x, y)
			if g != w {
				t.Fatalf("ReadColor(%d, %d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		ext    string
		src    func(*testing.T) *quant.Buffer
		format string
	}{
		{".png", func(t *testing.T) *quant.Buffer { return gradient(t, 6, 5) }, "png"},
		{".PNG", indexed, "png"},
		{".gif", indexed, "gif"},
		{".bmp", func(t *testing.T) *quant.Buffer { return gradient(t, 6, 5) }, "bmp"},
		{".tiff", func(t *testing.T) *quant.Buffer { return gradient(t, 6, 5) }, "tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			src := tt.src(t)
			var buf bytes.Buffer
			if err := Encode(&buf, src, tt.ext); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			sameColors(t, got, src)
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, gradient(t, 2, 2), ".xyz"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Encode(.xyz) error = %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode(garbage) succeeded")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := indexed(t)
	if err := Save(path, src); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, format, err := Load(path)
	if err != nil || format != "png" {
		t.Fatalf("Load() = %q, %v", format, err)
	}
	sameColors(t, got, src)

	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestIndexPlaneRoundTrip(t *testing.T) {
	src := indexed(t)
	var buf bytes.Buffer
	if err := WriteIndexPlane(&buf, src); err != nil {
		t.Fatalf("WriteIndexPlane() error = %v", err)
	}
	got, err := ReadIndexPlane(&buf)
	if err != nil {
		t.Fatalf("ReadIndexPlane() error = %v", err)
	}
	if got.Format() != quant.Format8bppIndexed || len(got.Palette()) != 3 {
		t.Fatalf("got %v with %d entries", got.Format(), len(got.Palette()))
	}
	for y := range 4 {
		for x := range 5 {
			if i, _ := got.ReadIndex(x, y); i != (x+y)%3 {
				t.Fatalf("ReadIndex(%d, %d) = %d", x, y, i)
			}
		}
	}
	sameColors(t, got, src)
}

func TestIndexPlaneSubByte(t *testing.T) {
	src, _ := quant.Allocate(9, 3, quant.Format1bppIndexed)
	_ = src.CommitPalette(quant.Palette{quant.Black, quant.White})
	_ = src.WriteIndex(8, 2, 1)
	var buf bytes.Buffer
	if err := WriteIndexPlane(&buf, src); err != nil {
		t.Fatal(err)
	}
	got, err := ReadIndexPlane(&buf)
	if err != nil {
		t.Fatal(err)
	}
	sameColors(t, got, src)
}

func TestIndexPlaneErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIndexPlane(&buf, gradient(t, 2, 2)); !errors.Is(err, quant.ErrInvalidFormat) {
		t.Errorf("WriteIndexPlane(direct) error = %v", err)
	}

	enc, _ := zstd.NewWriter(&buf)
	_, _ = enc.Write([]byte("JUNKJUNKJUNKJUNK"))
	_ = enc.Close()
	if _, err := ReadIndexPlane(&buf); !errors.Is(err, ErrBadIndexPlane) {
		t.Errorf("ReadIndexPlane(junk) error = %v", err)
	}

	// Truncated index data.
	buf.Reset()
	_ = WriteIndexPlane(&buf, indexed(t))
	var short bytes.Buffer
	dec, _ := zstd.NewReader(&buf)
	raw := new(bytes.Buffer)
	_, _ = raw.ReadFrom(dec)
	dec.Close()
	enc, _ = zstd.NewWriter(&short)
	_, _ = enc.Write(raw.Bytes()[:raw.Len()-3])
	_ = enc.Close()
	if _, err := ReadIndexPlane(&short); !errors.Is(err, ErrBadIndexPlane) {
		t.Errorf("ReadIndexPlane(truncated) error = %v", err)
	}
}
