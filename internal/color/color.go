// Package color provides the pure color-space math behind the distance metrics
// of the quantizers: HSV for hue-based selection and CIE XYZ/Lab for
// perceptual distance.
package color

// HSV is a hue/saturation/value triple.
// H is in degrees [0,360); S and V are in [0,1].
type HSV struct {
	H, S, V float64
}

// XYZ is a CIE 1931 tristimulus value relative to the D65 white point.
// Y is in [0,1] for in-gamut sRGB colors.
type XYZ struct {
	X, Y, Z float64
}

// Lab is a CIE L*a*b* value. L is in [0,100].
type Lab struct {
	L, A, B float64
}

// D65 reference white.
const (
	WhiteX = 0.95047
	WhiteY = 1.00000
	WhiteZ = 1.08883
)
