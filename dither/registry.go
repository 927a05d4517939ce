package dither

import (
	"slices"

	"github.com/gogpu/quant"
)

var constructors = map[string]func() quant.Ditherer{
	"bayer2":              func() quant.Ditherer { return NewBayer(2) },
	"bayer4":              func() quant.Ditherer { return NewBayer(4) },
	"bayer8":              func() quant.Ditherer { return NewBayer(8) },
	"bayer16":             func() quant.Ditherer { return NewBayer(16) },
	"clustered-dot":       func() quant.Ditherer { return NewClusteredDot() },
	"clustered-dot8x8":    func() quant.Ditherer { return NewClusteredDot8x8() },
	"dot-halftone":        func() quant.Ditherer { return NewDotHalftone() },
	"floyd-steinberg":     func() quant.Ditherer { return NewFloydSteinberg() },
	"jarvis-judice-ninke": func() quant.Ditherer { return NewJarvisJudiceNinke() },
	"stucki":              func() quant.Ditherer { return NewStucki() },
	"burkes":              func() quant.Ditherer { return NewBurkes() },
	"sierra3":             func() quant.Ditherer { return NewSierra3() },
	"sierra2":             func() quant.Ditherer { return NewSierra2() },
	"sierra-lite":         func() quant.Ditherer { return NewSierraLite() },
	"atkinson":            func() quant.Ditherer { return NewAtkinson() },
}

// ByName returns a new ditherer for one of Names.
func ByName(name string) (quant.Ditherer, bool) {
	f, ok := constructors[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns the names accepted by ByName, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
