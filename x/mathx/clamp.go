package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// ClampU8 clamps a signed value into [0, hi] and narrows it.
func ClampU8[T constraints.Signed](v T, hi uint8) uint8 {
	if v < 0 {
		return 0
	}
	if v > T(hi) {
		return hi
	}
	return uint8(v)
}
