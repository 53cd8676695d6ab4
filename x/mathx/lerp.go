package mathx

// Lerp returns a + (b-a)*t. t is not clamped.
func Lerp(a, b, t float32) float32 { return a + (b-a)*t }

// LerpU8 interpolates between a and b with t in [0,1], rounding to nearest.
// t outside [0,1] is clamped, so the result always lies between a and b.
func LerpU8(a, b uint8, t float32) uint8 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	v := Lerp(float32(a), float32(b), t) + 0.5
	return uint8(Clamp(v, 0, 255))
}

// ScaleU8 returns v*s/255 with rounding; used for brightness scaling.
func ScaleU8(v, s uint8) uint8 {
	return uint8(RoundDiv(uint16(v)*uint16(s), 255))
}
