package quantizer

import (
	"fmt"

	"github.com/gogpu/quant"
)

// Predefined maps colors to a fixed palette. The scan still counts distinct
// colors but does not influence the palette.
//
// The default color cache is colorcache.Euclidean.
type Predefined struct {
	base
	fixed quant.Palette
}

// NewPredefined creates a quantizer for the palette p, which is copied.
func NewPredefined(p quant.Palette, opts ...Option) *Predefined {
	return &Predefined{
		base:  newBase("predefined", newConfig(opts), euclideanCache),
		fixed: p.Clone(),
	}
}

// Palette returns the fixed palette. It fails with quant.ErrPaletteTooLarge
// if the palette has more than n entries.
func (q *Predefined) Palette(n int) (quant.Palette, error) {
	if n < 1 || n > quant.MaxPaletteSize {
		return nil, fmt.Errorf("%w: %d", quant.ErrUnsupportedColorCount, n)
	}
	if q.state != stateAccumulating && q.state != statePaletteReady {
		return nil, fmt.Errorf("%w: predefined: Palette in state %v", quant.ErrInvalidState, q.state)
	}
	if err := q.fixed.Validate(); err != nil {
		return nil, err
	}
	if len(q.fixed) > n {
		return nil, fmt.Errorf("%w: %d entries, %d requested", quant.ErrPaletteTooLarge, len(q.fixed), n)
	}
	if q.cache == nil {
		return nil, fmt.Errorf("%w: predefined", quant.ErrCacheNotConfigured)
	}
	if err := q.install(q.fixed.Clone()); err != nil {
		return nil, err
	}
	return q.fixed.Clone(), nil
}
