package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-1, 3, 0); got != 0 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := ClampU8(-4, 10); got != 0 {
		t.Fatalf("ClampU8 neg = %d", got)
	}
	if got := ClampU8(300, 255); got != 255 {
		t.Fatalf("ClampU8 high = %d", got)
	}
}

func TestLerpU8Endpoints(t *testing.T) {
	if LerpU8(10, 200, 0) != 10 || LerpU8(10, 200, 1) != 200 {
		t.Fatal("endpoints not exact")
	}
	if got := LerpU8(0, 100, 0.5); got != 50 {
		t.Fatalf("mid = %d", got)
	}
	if got := LerpU8(200, 10, 2); got != 10 {
		t.Fatalf("overshoot = %d", got)
	}
}

func TestScaleU8(t *testing.T) {
	cases := []struct{ v, s, want uint8 }{
		{255, 255, 255}, {255, 0, 0}, {200, 128, 100}, {0, 200, 0},
	}
	for _, c := range cases {
		if got := ScaleU8(c.v, c.s); got != c.want {
			t.Errorf("ScaleU8(%d,%d) = %d want %d", c.v, c.s, got, c.want)
		}
	}
}

func TestSegment(t *testing.T) {
	if got := Segment(5, 0, 0, 10, 100); got != 50 {
		t.Fatalf("mid = %v", got)
	}
	if got := Segment(-5, 0, 10, 10, 100); got != 10 {
		t.Fatalf("below = %v", got)
	}
	if got := Segment(50, 0, 10, 10, 100); got != 100 {
		t.Fatalf("above = %v", got)
	}
	if got := Segment(3, 2, 7, 2, 9); got != 7 {
		t.Fatalf("degenerate = %v", got)
	}
}

func TestRoundDiv(t *testing.T) {
	if RoundDiv(uint32(7), 2) != 4 || RoundDiv(uint32(5), 0) != 0 {
		t.Fatal("RoundDiv")
	}
}
