package colorcache

import (
	"fmt"

	"github.com/gogpu/quant"
)

// Euclidean resolves colors by a linear scan of the palette for the
// smallest squared distance in its color model. Ties go to the lowest index.
type Euclidean struct {
	memo
	model quant.ColorModel
	comps []quant.Components
}

// NewEuclidean creates a linear scan cache comparing colors in model.
// An invalid model selects quant.ModelRGB.
func NewEuclidean(model quant.ColorModel) *Euclidean {
	return &Euclidean{memo: newMemo(), model: validModel(model)}
}

// Model returns the distance model.
func (e *Euclidean) Model() quant.ColorModel {
	return e.model
}

// Prepare clears memoized results.
func (e *Euclidean) Prepare() {
	e.reset()
}

// CachePalette stores the components of every entry of p.
func (e *Euclidean) CachePalette(p quant.Palette) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: euclidean cache", quant.ErrEmptyPalette)
	}
	e.comps = components(e.model, p)
	e.reset()
	return nil
}

// PaletteIndex returns the index of the entry nearest to c.
// It panics if no palette has been cached.
func (e *Euclidean) PaletteIndex(c quant.Color) int {
	if e.comps == nil {
		panic("colorcache: euclidean: PaletteIndex before CachePalette")
	}
	return e.lookup(c, func(key uint32) int {
		return nearest(e.model, e.comps, e.model.Components(quant.ColorFromKey(key)), nil)
	})
}
