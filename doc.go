// Package quant provides color quantization and dithering for Go.
//
// # Overview
//
// quant reduces a true-color raster to a palette of at most 256 colors and
// remaps every pixel to a palette index, optionally dithering to preserve
// perceived quality. It is the core of indexed-format encoders such as GIF.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/quant"
//	    "github.com/gogpu/quant/dither"
//	    "github.com/gogpu/quant/quantizer"
//	)
//
//	src, _ := quant.NewBufferFromImage(img)
//	dst, _ := quant.Allocate(src.Width(), src.Height(), quant.Format8bppIndexed)
//
//	pal, err := src.Quantize(dst, quantizer.NewWu(), 256,
//	    quant.WithDitherer(dither.NewFloydSteinberg()))
//
// For image/gif use QuantizeImage or DrawQuantizer.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Buffer, Cursor, Color, Palette, Format, path providers
//   - Plug-ins: Quantizer (quantizer/), ColorCache (colorcache/), Ditherer (dither/)
//   - Internal: color math (internal/color), row-parallel workers (internal/parallel)
//
// # Pipeline
//
// Quantize runs two passes. The first feeds every source pixel to
// Quantizer.AddColor; the quantizer then reduces the colors it saw to a
// palette. The second pass asks the quantizer (or the ditherer) for the
// index of every pixel and writes it to the target. Both passes run over
// disjoint row ranges in parallel when the quantizer allows it and no error
// diffusion ditherer is attached.
//
// # Colors
//
// Colors are straight ARGB. Before a color is counted or matched it is
// flattened over an opaque white background, so every translucent variant
// of a solid color collapses to one key. Distances are squared Euclidean
// distances in a selectable ColorModel (RGB, HSV, Lab or XYZ).
//
// # Logging
//
// quant is silent by default. Use SetLogger to receive debug diagnostics.
package quant

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
