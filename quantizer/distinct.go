package quantizer

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/gogpu/quant"
)

// Distinct favors diversity over population. The most frequent color is
// taken first as the background. The remaining colors are grouped into
// classes of equal quantized hue, saturation and brightness, at the finest
// quantization whose class count still fits, and the most frequent color
// of each class is kept. Free slots are filled from a seeded shuffle of the
// colors left over.
//
// The default color cache is colorcache.Octree.
type Distinct struct {
	base
}

// NewDistinct creates a distinct selection quantizer.
func NewDistinct(opts ...Option) *Distinct {
	q := &Distinct{base: newBase("distinct", newConfig(opts), octreeCache)}
	return q
}

// Palette returns at most n colors.
func (q *Distinct) Palette(n int) (quant.Palette, error) {
	seed := q.cfg.seed
	return q.reduce(n, func(samples []sample, n int) (quant.Palette, error) {
		return reduceDistinct(samples, n, seed), nil
	})
}

// Quantization factors tried from finest to coarsest.
const (
	distinctMaxFactor = 1024
	distinctMinFactor = 1
)

type hsvClass struct {
	h, s, v int
}

type classGroup struct {
	class  hsvClass
	pixels int64
	best   sample
}

// byPopularity orders samples by count descending, then key ascending.
func byPopularity(a, b sample) int {
	if c := cmp.Compare(b.count, a.count); c != 0 {
		return c
	}
	return cmp.Compare(a.key, b.key)
}

func classify(samples []sample, factor float64) []classGroup {
	index := make(map[hsvClass]int)
	var groups []classGroup
	for _, s := range samples {
		h, sat, v := quant.ColorFromKey(s.key).HSV()
		k := hsvClass{int(h / 360 * factor), int(sat * factor), int(v * factor)}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, classGroup{class: k, best: s})
		}
		g := &groups[i]
		g.pixels += s.count
		if byPopularity(s, g.best) < 0 {
			g.best = s
		}
	}
	slices.SortFunc(groups, func(a, b classGroup) int {
		if c := cmp.Compare(b.pixels, a.pixels); c != 0 {
			return c
		}
		return cmp.Compare(a.best.key, b.best.key)
	})
	return groups
}

func reduceDistinct(samples []sample, n int, seed uint64) quant.Palette {
	ranked := slices.Clone(samples)
	slices.SortFunc(ranked, byPopularity)

	pal := make(quant.Palette, 0, n)
	pal = append(pal, quant.ColorFromKey(ranked[0].key))
	rest := ranked[1:]
	need := n - 1
	if need == 0 {
		return pal
	}

	var groups []classGroup
	for f := distinctMaxFactor; f >= distinctMinFactor; f /= 2 {
		groups = classify(rest, float64(f))
		if len(groups) <= need {
			break
		}
	}
	groups = groups[:min(len(groups), need)]

	taken := make(map[uint32]bool, len(groups))
	for _, g := range groups {
		pal = append(pal, quant.ColorFromKey(g.best.key))
		taken[g.best.key] = true
	}

	if free := n - len(pal); free > 0 {
		left := make([]sample, 0, len(rest)-len(taken))
		for _, s := range rest {
			if !taken[s.key] {
				left = append(left, s)
			}
		}
		r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
		r.Shuffle(len(left), func(i, j int) { left[i], left[j] = left[j], left[i] })
		for _, s := range left[:min(free, len(left))] {
			pal = append(pal, quant.ColorFromKey(s.key))
		}
	}
	return pal
}
