package mathx

// Segment maps x on the line through (x0,y0)-(x1,y1), clamping x to the
// segment. A degenerate segment (x0 == x1) yields y0.
func Segment(x, x0, y0, x1, y1 float32) float32 {
	if x1 == x0 {
		return y0
	}
	if x <= x0 {
		return y0
	}
	if x >= x1 {
		return y1
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
