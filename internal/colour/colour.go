package colour

// Color is one RGB triple with 8-bit channels. Colors compare by value.
type Color struct {
	R, G, B uint8
}

// Off is the all-channels-zero color.
var Off = Color{}

// Lerp interpolates each channel linearly from c1 to c2. t is clamped to
// [0,1] and the result is truncated to integer channel values, matching the
// arithmetic the effects are specified against.
func Lerp(c1, c2 Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: uint8(float64(c1.R) + (float64(c2.R)-float64(c1.R))*t),
		G: uint8(float64(c1.G) + (float64(c2.G)-float64(c1.G))*t),
		B: uint8(float64(c1.B) + (float64(c2.B)-float64(c1.B))*t),
	}
}

// Dim scales each channel by f, clamped to [0,1], truncating to integer.
func Dim(c Color, f float64) Color {
	f = clamp01(f)
	return Color{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Flatten packs src into dst as consecutive R,G,B bytes. len(dst) must be
// at least 3*len(src).
func Flatten(dst []byte, src []Color) {
	for i, c := range src {
		dst[i*3+0] = c.R
		dst[i*3+1] = c.G
		dst[i*3+2] = c.B
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
