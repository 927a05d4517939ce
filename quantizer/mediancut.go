package quantizer

import (
	"cmp"
	"slices"

	"github.com/gogpu/quant"
)

// MedianCut splits the set of distinct colors recursively. The cube holding
// the most distinct colors is cut at the median of its widest channel until
// n cubes exist; each cube contributes the unweighted mean of its colors.
//
// The default color cache is colorcache.Euclidean.
type MedianCut struct {
	base
}

// NewMedianCut creates a median cut quantizer.
func NewMedianCut(opts ...Option) *MedianCut {
	return &MedianCut{base: newBase("median-cut", newConfig(opts), euclideanCache)}
}

// Palette returns at most n colors.
func (q *MedianCut) Palette(n int) (quant.Palette, error) {
	return q.reduce(n, reduceMedianCut)
}

// widest returns the channel (0 red, 1 green, 2 blue) with the largest
// extent in cube. Ties prefer red, then green.
func widest(cube []sample) int {
	lo := [3]int64{255, 255, 255}
	hi := [3]int64{}
	for _, s := range cube {
		r, g, b := s.rgb()
		for i, v := range [3]int64{r, g, b} {
			lo[i] = min(lo[i], v)
			hi[i] = max(hi[i], v)
		}
	}
	best := 0
	for i := 1; i < 3; i++ {
		if hi[i]-lo[i] > hi[best]-lo[best] {
			best = i
		}
	}
	return best
}

func channel(s sample, ch int) uint32 {
	return s.key >> (16 - 8*uint(ch)) & 0xFF
}

func reduceMedianCut(samples []sample, n int) (quant.Palette, error) {
	cubes := [][]sample{slices.Clone(samples)}
	for len(cubes) < n {
		pick := -1
		for i, c := range cubes {
			if len(c) > 1 && (pick < 0 || len(c) > len(cubes[pick])) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}
		cube := cubes[pick]
		ch := widest(cube)
		slices.SortStableFunc(cube, func(a, b sample) int {
			return cmp.Compare(channel(a, ch), channel(b, ch))
		})
		mid := len(cube) / 2
		cubes[pick] = cube[:mid:mid]
		cubes = append(cubes, cube[mid:])
	}

	pal := make(quant.Palette, len(cubes))
	for i, cube := range cubes {
		var r, g, b int64
		for _, s := range cube {
			sr, sg, sb := s.rgb()
			r += sr
			g += sg
			b += sb
		}
		k := int64(len(cube))
		pal[i] = quant.RGB(uint8((r+k/2)/k), uint8((g+k/2)/k), uint8((b+k/2)/k))
	}
	return pal, nil
}
