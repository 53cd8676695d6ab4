package leds

import "image/color"

// Color modes as numbered by the menu.
const (
	ModeBase uint8 = iota
	ModeRainbow
	ModeSpectrum
	ModeRed
	ModeOrange
	ModeYellow
	ModeGreen
	ModeCyan
	ModeBlue
	ModePurple
	ModePink
	ModeWhite
	ModeOff
)

// Faces as numbered by the menu. Angry and Sad reserve the strips.
const (
	FaceDefault uint8 = iota
	FaceHappy
	FaceBlush
	FaceWink
	FaceAngry
	FaceSad
	FaceHeart
	FaceDizzy
)

var (
	Black = color.RGBA{A: 0xff}
	Red   = color.RGBA{R: 0xff, A: 0xff}
	Blue  = color.RGBA{B: 0xff, A: 0xff}
)

// named holds the solid colors for ModeRed..ModeWhite.
var named = [...]color.RGBA{
	{R: 0xff, A: 0xff},
	{R: 0xff, G: 0x60, A: 0xff},
	{R: 0xff, G: 0xd0, A: 0xff},
	{G: 0xff, A: 0xff},
	{G: 0xff, B: 0xff, A: 0xff},
	{B: 0xff, A: 0xff},
	{R: 0x90, B: 0xff, A: 0xff},
	{R: 0xff, G: 0x40, B: 0xa0, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// Named returns the solid color for a named mode; anything outside the table
// (including ModeOff) is black.
func Named(mode uint8) color.RGBA {
	if mode < ModeRed {
		return Black
	}
	i := int(mode - ModeRed)
	if i >= len(named) {
		return Black
	}
	return named[i]
}

// Wheel maps a hue byte onto the red-green-blue color wheel.
func Wheel(h uint8) color.RGBA {
	switch {
	case h < 85:
		return color.RGBA{R: 255 - h*3, G: h * 3, A: 0xff}
	case h < 170:
		h -= 85
		return color.RGBA{G: 255 - h*3, B: h * 3, A: 0xff}
	default:
		h -= 170
		return color.RGBA{R: h * 3, B: 255 - h*3, A: 0xff}
	}
}
