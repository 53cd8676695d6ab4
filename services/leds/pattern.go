package leds

import (
	"image/color"
	"math"

	"costume-go/x/mathx"
)

const (
	// Base-mode wave.
	WavelengthPx = 12
	WavePeriodMs = 2000

	rainbowMsPerStep = 16
	boopMsPerStep    = 3
	spectrumMsPerHue = 24
)

// TargetState is what the strips should show once any crossfade completes.
type TargetState struct {
	ColorMode  uint8
	HueFront   uint8
	HueBack    uint8
	Brightness uint8
	Face       uint8
	Boop       bool
}

// reservedFace reports the solid color a face forces, if any.
func reservedFace(face uint8) (color.RGBA, bool) {
	switch face {
	case FaceAngry:
		return Red, true
	case FaceSad:
		return Blue, true
	}
	return color.RGBA{}, false
}

// IsContinuous reports whether s animates on its own and so needs a redraw
// every tick.
func IsContinuous(s TargetState) bool {
	if s.Boop {
		return true
	}
	if _, ok := reservedFace(s.Face); ok {
		return false
	}
	switch s.ColorMode {
	case ModeRainbow, ModeSpectrum:
		return true
	case ModeBase:
		return s.HueFront != s.HueBack
	}
	return false
}

// NeedsRedraw gates frame writes: static targets are drawn once per change.
func NeedsRedraw(s TargetState, transitioning, dirty bool) bool {
	return dirty || transitioning || IsContinuous(s)
}

// render draws s at nowMs into f, before brightness. The first matching rule
// wins: boop, reserved face, animated mode, base wave, named color.
func render(f *Frame, s TargetState, nowMs int64) {
	if s.Boop {
		sweep(f, nowMs, boopMsPerStep)
		return
	}
	if c, ok := reservedFace(s.Face); ok {
		fill(f, c)
		return
	}
	switch s.ColorMode {
	case ModeRainbow:
		sweep(f, nowMs, rainbowMsPerStep)
	case ModeSpectrum:
		spectrum(f, nowMs)
	case ModeBase:
		if s.HueFront == s.HueBack {
			fill(f, Wheel(s.HueFront))
			return
		}
		wave(f, Wheel(s.HueFront), Wheel(s.HueBack), nowMs)
	default:
		fill(f, Named(s.ColorMode))
	}
}

func fill(f *Frame, c color.RGBA) {
	for s := range f {
		for x := range f[s] {
			f[s][x] = c
		}
	}
}

// sweep spreads the wheel along each strip and scrolls it.
func sweep(f *Frame, nowMs int64, msPerStep int64) {
	shift := nowMs / msPerStep
	for s := range f {
		for x := range f[s] {
			h := int64(x*256/StripLen) + shift + int64(s*32)
			f[s][x] = Wheel(uint8(h))
		}
	}
}

// spectrum shows one hue per strip and walks it round the wheel.
func spectrum(f *Frame, nowMs int64) {
	for s := range f {
		fillStrip(f, s, Wheel(uint8(nowMs/spectrumMsPerHue+int64(s*85))))
	}
}

func fillStrip(f *Frame, s int, c color.RGBA) {
	for x := range f[s] {
		f[s][x] = c
	}
}

// wave blends a into b along a travelling sinusoid.
func wave(f *Frame, a, b color.RGBA, nowMs int64) {
	phase := float64(nowMs%WavePeriodMs) / WavePeriodMs
	for s := range f {
		for x := range f[s] {
			w := float64(x)/WavelengthPx - phase
			t := float32((1 + math.Sin(2*math.Pi*w)) / 2)
			f[s][x] = blend(a, b, t)
		}
	}
}

func blend(a, b color.RGBA, t float32) color.RGBA {
	return color.RGBA{
		R: mathx.LerpU8(a.R, b.R, t),
		G: mathx.LerpU8(a.G, b.G, t),
		B: mathx.LerpU8(a.B, b.B, t),
		A: 0xff,
	}
}

func scale(c color.RGBA, bright uint8) color.RGBA {
	return color.RGBA{
		R: mathx.ScaleU8(c.R, bright),
		G: mathx.ScaleU8(c.G, bright),
		B: mathx.ScaleU8(c.B, bright),
		A: 0xff,
	}
}
