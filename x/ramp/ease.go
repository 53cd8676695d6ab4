package ramp

import "math"

// Progress reports how far nowMs is through a window of durMs starting at
// startMs, in [0,1]. A zero duration is complete immediately.
func Progress(startMs, nowMs int64, durMs uint32) float32 {
	if durMs == 0 {
		return 1
	}
	el := nowMs - startMs
	if el <= 0 {
		return 0
	}
	if el >= int64(durMs) {
		return 1
	}
	return float32(el) / float32(durMs)
}

// EaseInOut is the cosine ease (1-cos(pπ))/2. It is monotonic on [0,1] and
// exact at both ends.
func EaseInOut(p float32) float32 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return float32((1 - math.Cos(float64(p)*math.Pi)) / 2)
}
