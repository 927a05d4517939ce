package quantizer

import "github.com/gogpu/quant"

// DefaultSeed seeds the shuffle of Distinct unless WithSeed is given.
const DefaultSeed uint64 = 0x5EED_C0DE

// Option configures a quantizer.
//
// Example:
//
//	q := quantizer.NewDistinct(
//	    quantizer.WithColorCache(colorcache.NewEuclidean(quant.ModelLab)),
//	    quantizer.WithSeed(42))
type Option func(*config)

type config struct {
	cache    quant.ColorCache
	cacheSet bool
	model    quant.ColorModel
	parallel bool
	seed     uint64
}

func newConfig(opts []Option) config {
	c := config{
		model:    quant.ModelRGB,
		parallel: true,
		seed:     DefaultSeed,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithColorCache sets the cache used to resolve colors that are not exact
// palette entries. Passing nil disables the default cache; Palette then
// fails with quant.ErrCacheNotConfigured whenever a reduction is needed.
func WithColorCache(c quant.ColorCache) Option {
	return func(cfg *config) {
		cfg.cache = c
		cfg.cacheSet = true
	}
}

// WithColorModel sets the distance model of the default color cache and of
// the nearest-entry fallback. It has no effect on an explicit cache.
func WithColorModel(m quant.ColorModel) Option {
	return func(cfg *config) {
		if m.IsValid() {
			cfg.model = m
		}
	}
}

// WithParallel controls AllowParallel. Quantizers allow parallel passes
// by default.
func WithParallel(allow bool) Option {
	return func(cfg *config) {
		cfg.parallel = allow
	}
}

// WithSeed sets the seed of randomized tie-breaking.
func WithSeed(seed uint64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}
