package quantizer

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/gogpu/quant"
	"github.com/gogpu/quant/cache"
	"github.com/gogpu/quant/colorcache"
)

type state uint8

const (
	stateIdle state = iota
	stateAccumulating
	statePaletteReady
	stateFinished
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateAccumulating:
		return "Accumulating"
	case statePaletteReady:
		return "PaletteReady"
	case stateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// entry is the accumulation record of one distinct color.
type entry struct {
	ordinal int64
	count   int64
}

// sample is a distinct color with its pixel count.
type sample struct {
	key     uint32
	ordinal int64
	count   int64
}

func (s sample) rgb() (r, g, b int64) {
	return int64(s.key >> 16 & 0xFF), int64(s.key >> 8 & 0xFF), int64(s.key & 0xFF)
}

// reducer synthesizes at most n colors from samples sorted by key.
// len(samples) > n always holds.
type reducer func(samples []sample, n int) (quant.Palette, error)

// base implements the parts of quant.Quantizer every algorithm shares: the
// state machine, the unique color table, the early palette and index
// resolution.
type base struct {
	name string
	cfg  config

	state   state
	table   *cache.Sharded[uint32, entry]
	ordinal atomic.Int64

	palette quant.Palette
	direct  map[uint32]int // exact palette entries, early palette only
	cache   quant.ColorCache
}

func newBase(name string, cfg config, defaultCache func(quant.ColorModel) quant.ColorCache) base {
	b := base{name: name, cfg: cfg}
	switch {
	case cfg.cacheSet:
		b.cache = cfg.cache
	case defaultCache != nil:
		b.cache = defaultCache(cfg.model)
	}
	return b
}

func octreeCache(m quant.ColorModel) quant.ColorCache    { return colorcache.NewOctree(m) }
func euclideanCache(m quant.ColorModel) quant.ColorCache { return colorcache.NewEuclidean(m) }

// Prepare resets the quantizer for a pass over src.
func (b *base) Prepare(*quant.Buffer) error {
	if b.table == nil {
		b.table = cache.NewSharded[uint32, entry](cache.Uint32Hasher)
	} else {
		b.table.Clear()
	}
	b.ordinal.Store(0)
	b.palette = nil
	b.direct = nil
	b.state = stateAccumulating
	return nil
}

// AddColor records one pixel. The first goroutine to insert a key assigns
// its ordinal. It panics if the quantizer is not accumulating.
func (b *base) AddColor(c quant.Color, _, _ int) {
	if b.state != stateAccumulating {
		panic(fmt.Sprintf("quantizer: %s: AddColor in state %v", b.name, b.state))
	}
	b.table.Update(c.Key(), func(cur entry, exists bool) entry {
		if !exists {
			return entry{ordinal: b.ordinal.Add(1) - 1, count: 1}
		}
		cur.count++
		return cur
	})
}

// ColorCount returns the number of distinct flattened colors seen so far.
func (b *base) ColorCount() int {
	if b.table == nil {
		return 0
	}
	return b.table.Len()
}

// AllowParallel reports whether passes may run concurrently.
func (b *base) AllowParallel() bool {
	return b.cfg.parallel
}

// Finish drops the table and the palette index.
func (b *base) Finish() {
	if b.table != nil {
		b.table.Clear()
	}
	b.direct = nil
	b.state = stateFinished
}

// samples returns the table content sorted by key.
func (b *base) samples() []sample {
	out := make([]sample, 0, b.table.Len())
	b.table.Range(func(k uint32, e entry) bool {
		out = append(out, sample{key: k, ordinal: e.ordinal, count: e.count})
		return true
	})
	slices.SortFunc(out, func(a, b sample) int { return cmp.Compare(a.key, b.key) })
	return out
}

// reduce validates n, takes the early path when possible, and otherwise
// runs fn and indexes its result in the color cache.
func (b *base) reduce(n int, fn reducer) (quant.Palette, error) {
	if n < 1 || n > quant.MaxPaletteSize {
		return nil, fmt.Errorf("%w: %d", quant.ErrUnsupportedColorCount, n)
	}
	if b.state != stateAccumulating && b.state != statePaletteReady {
		return nil, fmt.Errorf("%w: %s: Palette in state %v", quant.ErrInvalidState, b.name, b.state)
	}

	samples := b.samples()
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %s: no colors", quant.ErrEmptyPalette, b.name)
	}

	if len(samples) <= n {
		b.early(samples)
		quant.Logger().Debug("quantizer: early palette", "algorithm", b.name, "colors", len(samples))
		return b.palette.Clone(), nil
	}

	if b.cache == nil {
		return nil, fmt.Errorf("%w: %s", quant.ErrCacheNotConfigured, b.name)
	}
	pal, err := fn(samples, n)
	if err != nil {
		return nil, err
	}
	if len(pal) == 0 || len(pal) > n {
		return nil, fmt.Errorf("%w: %s produced %d colors for %d", quant.ErrReductionFailed, b.name, len(pal), n)
	}
	if err := b.install(pal); err != nil {
		return nil, err
	}
	quant.Logger().Debug("quantizer: reduced palette", "algorithm", b.name,
		"unique", len(samples), "colors", len(pal))
	return pal.Clone(), nil
}

// early builds the palette of all observed colors in first-seen order.
func (b *base) early(samples []sample) {
	byOrdinal := slices.Clone(samples)
	slices.SortFunc(byOrdinal, func(a, b sample) int { return cmp.Compare(a.ordinal, b.ordinal) })

	b.palette = make(quant.Palette, len(byOrdinal))
	b.direct = make(map[uint32]int, len(byOrdinal))
	for i, s := range byOrdinal {
		b.palette[i] = quant.ColorFromKey(s.key)
		b.direct[s.key] = i
	}
	if b.cache != nil {
		b.cache.Prepare()
		// The palette is never empty here.
		_ = b.cache.CachePalette(b.palette)
	}
	b.state = statePaletteReady
}

// install makes pal the palette resolved through the color cache.
func (b *base) install(pal quant.Palette) error {
	b.palette = pal
	b.direct = nil
	b.cache.Prepare()
	if err := b.cache.CachePalette(pal); err != nil {
		return err
	}
	b.state = statePaletteReady
	return nil
}

// PaletteIndex returns the index of the entry representing c.
// It panics if no palette has been produced.
func (b *base) PaletteIndex(c quant.Color, _, _ int) int {
	if b.state != statePaletteReady {
		panic(fmt.Sprintf("quantizer: %s: PaletteIndex in state %v", b.name, b.state))
	}
	if b.direct != nil {
		if i, ok := b.direct[c.Key()]; ok {
			return i
		}
	}
	if b.cache != nil {
		return b.cache.PaletteIndex(c)
	}
	return quant.NearestInPalette(c, b.cfg.model, b.palette)
}

// average returns the count weighted mean of samples, rounded to nearest.
func average(samples []sample) quant.Color {
	var r, g, bl, n int64
	for _, s := range samples {
		sr, sg, sb := s.rgb()
		r += sr * s.count
		g += sg * s.count
		bl += sb * s.count
		n += s.count
	}
	if n == 0 {
		return quant.Black
	}
	return quant.RGB(uint8((r+n/2)/n), uint8((g+n/2)/n), uint8((bl+n/2)/n))
}
