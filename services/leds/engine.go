// Package leds composites the strip pattern from the menu state and
// crossfades between patterns when the state changes.
package leds

import (
	"image/color"

	"costume-go/x/mathx"
	"costume-go/x/ramp"
)

const (
	StripCount = 3
	StripLen   = 24

	DefaultCrossfadeMs = 350
	DefaultBrightness  = 64
)

// Frame is one full image across every strip.
type Frame [StripCount][StripLen]color.RGBA

// Strip is an LED output; ws2812.Device satisfies it.
type Strip interface {
	WriteColors(buf []color.RGBA) error
}

type transition struct {
	active     bool
	fromBright uint8
	startMs    int64
	snapshot   Frame
}

// Engine holds the single live frame. Not safe for concurrent use.
type Engine struct {
	strips      []Strip
	crossfadeMs uint32

	target  TargetState
	changed bool
	dirty   bool
	ready   bool

	live        Frame // target pattern
	shown       Frame // last composited output, before brightness
	shownBright uint8
	tr          transition

	out       [StripLen]color.RGBA
	writeErrs uint32
}

// New builds an engine writing to strips in order. Extra strips beyond
// StripCount are ignored. crossfadeMs 0 selects DefaultCrossfadeMs.
func New(crossfadeMs uint32, strips ...Strip) *Engine {
	if crossfadeMs == 0 {
		crossfadeMs = DefaultCrossfadeMs
	}
	if len(strips) > StripCount {
		strips = strips[:StripCount]
	}
	return &Engine{
		strips:      strips,
		crossfadeMs: crossfadeMs,
		target:      TargetState{Brightness: DefaultBrightness, HueBack: 160},
		changed:     true,
	}
}

// MarkReady enables crossfades. Until then every change snaps, so the
// startup sync does not fade through stale values.
func (e *Engine) MarkReady() { e.ready = true }

func (e *Engine) Ready() bool { return e.ready }

// Apply replaces the whole target. Equal targets are ignored.
func (e *Engine) Apply(t TargetState) {
	if t == e.target {
		return
	}
	e.target = t
	e.changed = true
}

func (e *Engine) SetColorMode(m uint8) {
	t := e.target
	t.ColorMode = m
	e.Apply(t)
}

func (e *Engine) SetBrightness(b uint8) {
	t := e.target
	t.Brightness = b
	e.Apply(t)
}

func (e *Engine) SetFace(f uint8) {
	t := e.target
	t.Face = f
	e.Apply(t)
}

func (e *Engine) SetBoop(on bool) {
	t := e.target
	t.Boop = on
	e.Apply(t)
}

func (e *Engine) SetHues(front, back uint8) {
	t := e.target
	t.HueFront, t.HueBack = front, back
	e.Apply(t)
}

func (e *Engine) Target() TargetState { return e.target }
func (e *Engine) Transitioning() bool { return e.tr.active }

// WriteErrors counts failed strip writes.
func (e *Engine) WriteErrors() uint32 { return e.writeErrs }

// Tick advances the engine to nowMs and reports whether a frame was written.
func (e *Engine) Tick(nowMs int64) bool {
	if e.changed {
		e.begin(nowMs)
	}
	if !NeedsRedraw(e.target, e.tr.active, e.dirty) {
		return false
	}
	if IsContinuous(e.target) {
		render(&e.live, e.target, nowMs)
	}

	p := float32(1)
	if e.tr.active {
		p = ramp.EaseInOut(ramp.Progress(e.tr.startMs, nowMs, e.crossfadeMs))
		if p >= 1 {
			e.tr.active = false
		}
	}
	for s := range e.shown {
		for x := range e.shown[s] {
			if p >= 1 {
				e.shown[s][x] = e.live[s][x]
			} else {
				e.shown[s][x] = blend(e.tr.snapshot[s][x], e.live[s][x], p)
			}
		}
	}
	e.shownBright = e.Brightness(nowMs)
	e.flush()
	e.dirty = false
	return true
}

// Brightness is the output brightness at nowMs: the target once any
// crossfade has run its full duration, eased from the previous value before.
func (e *Engine) Brightness(nowMs int64) uint8 {
	if !e.tr.active {
		return e.target.Brightness
	}
	p := ramp.Progress(e.tr.startMs, nowMs, e.crossfadeMs)
	if p >= 1 {
		return e.target.Brightness
	}
	return mathx.LerpU8(e.tr.fromBright, e.target.Brightness, ramp.EaseInOut(p))
}

// Shown returns the last composited frame before brightness scaling.
func (e *Engine) Shown() Frame { return e.shown }

// begin starts a transition from what is on the strips now. The snapshot is
// always taken before the live frame is overwritten.
func (e *Engine) begin(nowMs int64) {
	e.changed = false
	e.dirty = true
	if e.ready {
		e.tr.snapshot = e.shown
		e.tr.fromBright = e.shownBright
		e.tr.startMs = nowMs
		e.tr.active = true
	} else {
		e.tr.active = false
	}
	render(&e.live, e.target, nowMs)
}

func (e *Engine) flush() {
	for s, strip := range e.strips {
		for x := range e.out {
			e.out[x] = scale(e.shown[s][x], e.shownBright)
		}
		if err := strip.WriteColors(e.out[:]); err != nil {
			if e.writeErrs == 0 {
				println("[leds] strip write failed:", err.Error())
			}
			e.writeErrs++
		}
	}
}
