package colorcache

import (
	"github.com/gogpu/quant"
	"github.com/gogpu/quant/cache"
)

// memo is the result layer shared by all caches.
type memo struct {
	results *cache.Sharded[uint32, int]
}

func newMemo() memo {
	return memo{results: cache.NewSharded[uint32, int](cache.Uint32Hasher)}
}

func (m *memo) reset() {
	m.results.Clear()
	m.results.ResetStats()
}

func (m *memo) lookup(c quant.Color, resolve func(key uint32) int) int {
	return m.results.GetOrCompute(c.Key(), resolve)
}

// Stats returns memoization statistics since the last Prepare.
func (m *memo) Stats() cache.Stats {
	return m.results.Stats()
}

// nearest returns the candidate closest to target, in candidate order on
// ties. A zero distance ends the scan. candidates nil means every entry.
func nearest(model quant.ColorModel, comps []quant.Components, target quant.Components, candidates []int) int {
	best, bestDist := -1, 0.0
	visit := func(i int) bool {
		d := model.ComponentDistance(target, comps[i])
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
		return d != 0
	}
	if candidates == nil {
		for i := range comps {
			if !visit(i) {
				break
			}
		}
		return best
	}
	for _, i := range candidates {
		if !visit(i) {
			break
		}
	}
	return best
}

func components(model quant.ColorModel, p quant.Palette) []quant.Components {
	out := make([]quant.Components, len(p))
	for i, c := range p {
		out[i] = model.Components(c.Flatten())
	}
	return out
}

func validModel(m quant.ColorModel) quant.ColorModel {
	if !m.IsValid() {
		return quant.ModelRGB
	}
	return m
}
