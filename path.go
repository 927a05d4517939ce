package quant

import (
	"image"
	"iter"
)

// PathProvider produces the order in which a pass visits pixels.
// Every coordinate of a width x height raster is yielded exactly once and
// the sequence can be iterated any number of times.
type PathProvider interface {
	Path(width, height int) iter.Seq[image.Point]
}

// StandardPath visits rows top to bottom, each left to right.
type StandardPath struct{}

// Path implements PathProvider.
func (StandardPath) Path(width, height int) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for y := range height {
			for x := range width {
				if !yield(image.Pt(x, y)) {
					return
				}
			}
		}
	}
}

// ReversedPath visits rows bottom to top, each right to left.
type ReversedPath struct{}

// Path implements PathProvider.
func (ReversedPath) Path(width, height int) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for y := height - 1; y >= 0; y-- {
			for x := width - 1; x >= 0; x-- {
				if !yield(image.Pt(x, y)) {
					return
				}
			}
		}
	}
}

// SerpentinePath visits rows top to bottom, alternating left to right and
// right to left. It reduces directional artifacts of error diffusion.
type SerpentinePath struct{}

// Path implements PathProvider.
func (SerpentinePath) Path(width, height int) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		for y := range height {
			if y&1 == 0 {
				for x := range width {
					if !yield(image.Pt(x, y)) {
						return
					}
				}
				continue
			}
			for x := width - 1; x >= 0; x-- {
				if !yield(image.Pt(x, y)) {
					return
				}
			}
		}
	}
}

// PathByName returns the provider named "standard", "reversed" or
// "serpentine".
func PathByName(name string) (PathProvider, bool) {
	switch name {
	case "standard", "":
		return StandardPath{}, true
	case "reversed":
		return ReversedPath{}, true
	case "serpentine":
		return SerpentinePath{}, true
	default:
		return nil, false
	}
}
