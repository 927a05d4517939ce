package color

import "math"

// RGBToHSV converts 8-bit RGB to HSV.
// Achromatic colors (r == g == b) have H = 0 and S = 0.
func RGBToHSV(r, g, b uint8) HSV {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := max(rf, gf, bf)
	minC := min(rf, gf, bf)
	delta := maxC - minC

	hsv := HSV{V: maxC}
	if maxC == 0 || delta == 0 {
		return hsv
	}
	hsv.S = delta / maxC

	var h float64
	switch maxC {
	case rf:
		h = (gf - bf) / delta
		if h < 0 {
			h += 6
		}
	case gf:
		h = (bf-rf)/delta + 2
	default:
		h = (rf-gf)/delta + 4
	}
	hsv.H = h * 60
	if hsv.H >= 360 {
		hsv.H -= 360
	}
	return hsv
}

// RGBToXYZ converts 8-bit sRGB to CIE XYZ (D65) after gamma linearization.
func RGBToXYZ(r, g, b uint8) XYZ {
	rl := SRGBToLinear(r)
	gl := SRGBToLinear(g)
	bl := SRGBToLinear(b)

	return XYZ{
		X: rl*0.4124564 + gl*0.3575761 + bl*0.1804375,
		Y: rl*0.2126729 + gl*0.7151522 + bl*0.0721750,
		Z: rl*0.0193339 + gl*0.1191920 + bl*0.9503041,
	}
}

// labEpsilon is (6/29)^3, the linear/cube-root switch point of the Lab f(t).
const labEpsilon = 216.0 / 24389.0

// labKappa is (29/3)^3.
const labKappa = 24389.0 / 27.0

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

// XYZToLab converts CIE XYZ to L*a*b* relative to the D65 white point.
func XYZToLab(c XYZ) Lab {
	fx := labF(c.X / WhiteX)
	fy := labF(c.Y / WhiteY)
	fz := labF(c.Z / WhiteZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// RGBToLab converts 8-bit sRGB to CIE L*a*b* (D65).
func RGBToLab(r, g, b uint8) Lab {
	return XYZToLab(RGBToXYZ(r, g, b))
}
