// Package color provides the pure color-space math behind the distance metrics
// of the quantizers.
//
// The lookup table provides O(1) sRGB -> linear conversion, replacing a
// math.Pow call per channel. Lab and XYZ distances are evaluated for every
// palette candidate of every cache miss, so this matters.
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
package color

import "math"

// sRGBToLinearLUT maps an sRGB byte [0-255] to a linear value [0.0-1.0].
var sRGBToLinearLUT [256]float64

func init() {
	for i := range 256 {
		sRGBToLinearLUT[i] = srgbToLinear(float64(i) / 255.0)
	}
}

// srgbToLinear is the sRGB EOTF.
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// SRGBToLinear converts an sRGB byte to a linear value using the lookup table.
//
// Example:
//
//	r := SRGBToLinear(128) // ~0.2159 (not 0.5!)
func SRGBToLinear(s uint8) float64 {
	return sRGBToLinearLUT[s]
}

// SRGBToLinearSlow converts an sRGB byte to a linear value using math.Pow.
// Reference implementation for tests.
func SRGBToLinearSlow(s uint8) float64 {
	return srgbToLinear(float64(s) / 255.0)
}
