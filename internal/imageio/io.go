// Package imageio reads and writes image files for quant buffers.
//
// Decoding recognizes PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding picks
// PNG, GIF, BMP or TIFF from the file extension.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/quant"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the file extension has no encoder.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
)

// Decode decodes an image and copies it into a Format32bppARGB buffer.
// It returns the name of the detected format.
func Decode(r io.Reader) (*quant.Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	b, err := quant.NewBufferFromImage(img)
	if err != nil {
		return nil, format, err
	}
	return b, format, nil
}

// Load decodes the image file at path.
func Load(path string) (*quant.Buffer, string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Encode writes b in the format named by ext (".png", ".gif", ".bmp",
// ".tif" or ".tiff"). Indexed buffers are written as paletted images.
func Encode(w io.Writer, b *quant.Buffer, ext string) error {
	img, err := b.Image()
	if err != nil {
		return err
	}

	switch strings.ToLower(ext) {
	case ".png":
		err = png.Encode(w, img)
	case ".gif":
		opts := &gif.Options{NumColors: 256}
		if p, ok := img.(*image.Paletted); ok {
			opts.NumColors = len(p.Palette)
		}
		err = gif.Encode(w, img, opts)
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", ext, err)
	}
	return nil
}

// Save writes b to path, choosing the encoder from the extension.
func Save(path string, b *quant.Buffer) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := Encode(f, b, filepath.Ext(path)); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
