package quantizer

import (
	"cmp"
	"slices"

	"github.com/gogpu/quant"
)

// Popularity divides the RGB cube into 64x64x64 buckets (the top six bits
// of each channel) and keeps the n buckets holding the most pixels. Each
// bucket contributes the pixel weighted mean of its colors.
//
// The default color cache is colorcache.Octree.
type Popularity struct {
	base
}

// NewPopularity creates a popularity quantizer.
func NewPopularity(opts ...Option) *Popularity {
	return &Popularity{base: newBase("popularity", newConfig(opts), octreeCache)}
}

// Palette returns at most n colors.
func (q *Popularity) Palette(n int) (quant.Palette, error) {
	return q.reduce(n, reducePopularity)
}

type bucket struct {
	key     uint32
	pixels  int64
	samples []sample
}

func bucketKey(s sample) uint32 {
	r, g, b := s.key>>16&0xFF, s.key>>8&0xFF, s.key&0xFF
	return (r>>2)<<12 | (g>>2)<<6 | b>>2
}

func reducePopularity(samples []sample, n int) (quant.Palette, error) {
	index := make(map[uint32]int)
	var buckets []bucket
	for _, s := range samples {
		k := bucketKey(s)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, bucket{key: k})
		}
		buckets[i].pixels += s.count
		buckets[i].samples = append(buckets[i].samples, s)
	}

	slices.SortFunc(buckets, func(a, b bucket) int {
		if c := cmp.Compare(b.pixels, a.pixels); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	buckets = buckets[:min(n, len(buckets))]
	pal := make(quant.Palette, len(buckets))
	for i, b := range buckets {
		pal[i] = average(b.samples)
	}
	return pal, nil
}
