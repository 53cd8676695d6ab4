package ramp

import "testing"

func TestProgressBounds(t *testing.T) {
	cases := []struct {
		start, now int64
		dur        uint32
		want       float32
	}{
		{100, 50, 200, 0},
		{100, 100, 200, 0},
		{100, 200, 200, 0.5},
		{100, 300, 200, 1},
		{100, 900, 200, 1},
		{100, 100, 0, 1},
	}
	for _, c := range cases {
		if got := Progress(c.start, c.now, c.dur); got != c.want {
			t.Errorf("Progress(%d,%d,%d) = %v want %v", c.start, c.now, c.dur, got, c.want)
		}
	}
}

func TestEaseInOutMonotonic(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 1000; i++ {
		e := EaseInOut(float32(i) / 1000)
		if e < prev {
			t.Fatalf("not monotonic at %d: %v < %v", i, e, prev)
		}
		prev = e
	}
	if EaseInOut(0) != 0 || EaseInOut(1) != 1 {
		t.Fatal("endpoints not exact")
	}
}
