package quant

import (
	"math"

	icolor "github.com/gogpu/quant/internal/color"
)

// ColorModel selects the components that distance functions compare.
// It carries no state.
type ColorModel uint8

const (
	// ModelRGB compares the raw red, green and blue channels.
	ModelRGB ColorModel = iota

	// ModelHSV compares hue (circular, normalized to [0,1)), saturation and value.
	ModelHSV

	// ModelLab compares CIE L*a*b* components (D65, sRGB gamma linearized).
	ModelLab

	// ModelXYZ compares CIE XYZ components scaled to [0,100].
	ModelXYZ

	modelCount
)

// String returns the model name.
func (m ColorModel) String() string {
	switch m {
	case ModelRGB:
		return "RGB"
	case ModelHSV:
		return "HSV"
	case ModelLab:
		return "Lab"
	case ModelXYZ:
		return "XYZ"
	default:
		return "Unknown"
	}
}

// IsValid returns true if m is a known model.
func (m ColorModel) IsValid() bool {
	return m < modelCount
}

// Components holds the three components of a color in one ColorModel.
type Components [3]float64

// Components converts c to the components compared by the model.
// Alpha is ignored; flatten translucent colors first.
func (m ColorModel) Components(c Color) Components {
	r, g, b := c.R(), c.G(), c.B()
	switch m {
	case ModelHSV:
		hsv := icolor.RGBToHSV(r, g, b)
		return Components{hsv.H / 360, hsv.S, hsv.V}
	case ModelLab:
		lab := icolor.RGBToLab(r, g, b)
		return Components{lab.L, lab.A, lab.B}
	case ModelXYZ:
		xyz := icolor.RGBToXYZ(r, g, b)
		return Components{xyz.X * 100, xyz.Y * 100, xyz.Z * 100}
	default:
		return Components{float64(r), float64(g), float64(b)}
	}
}

// ComponentDistance returns the squared Euclidean distance of two component
// triples. In ModelHSV the hue difference wraps around.
func (m ColorModel) ComponentDistance(a, b Components) float64 {
	d0 := a[0] - b[0]
	if m == ModelHSV {
		d0 = math.Abs(d0)
		if d0 > 0.5 {
			d0 = 1 - d0
		}
	}
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// Distance returns the squared Euclidean distance of a and b in model m.
// The result is not square-rooted; only relative magnitudes are meaningful.
func Distance(m ColorModel, a, b Color) float64 {
	return m.ComponentDistance(m.Components(a), m.Components(b))
}

// NearestInPalette returns the index of the palette entry closest to c in
// model m. c and the palette entries are flattened first. Ties go to the lowest index and an exact
// match stops the scan. Returns -1 for an empty palette.
func NearestInPalette(c Color, m ColorModel, palette Palette) int {
	if len(palette) == 0 {
		return -1
	}
	target := m.Components(c.Flatten())
	best := 0
	bestDist := math.Inf(1)
	for i, p := range palette {
		d := m.ComponentDistance(target, m.Components(p.Flatten()))
		if d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}
