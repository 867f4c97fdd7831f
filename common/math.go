package common

import "math"

const (
	Gravity    = 1800.0
	TickRate   = 60.0
	TickDelta  = 1.0 / TickRate
	BaseWidth  = 1280
	BaseHeight = 720
)

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func Lerp64(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Dist(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// ClosestPointOnRect returns the point on (or inside) an axis-aligned rect,
// given by its center and size, closest to (px, py).
func ClosestPointOnRect(px, py, cx, cy, w, h float64) (float64, float64) {
	return Clamp(px, cx-w/2, cx+w/2), Clamp(py, cy-h/2, cy+h/2)
}
