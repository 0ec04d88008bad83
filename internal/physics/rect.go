package physics

import "math"

// Rect is an axis-aligned bounding box with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects reports whether the two boxes overlap. Touching edges don't count.
func (r Rect) Intersects(o Rect) bool {
	if r.X >= o.Right() || o.X >= r.Right() {
		return false
	}
	if r.Y >= o.Bottom() || o.Y >= r.Bottom() {
		return false
	}
	return true
}

// Gap returns the axis-aligned separation between two boxes: the larger of the
// horizontal and vertical gaps. Overlapping boxes have a gap of 0.
func (r Rect) Gap(o Rect) float64 {
	gx := math.Max(0, math.Max(o.X-r.Right(), r.X-o.Right()))
	gy := math.Max(0, math.Max(o.Y-r.Bottom(), r.Y-o.Bottom()))
	return math.Max(gx, gy)
}

// Grow returns the rectangle enlarged by d on every side.
func (r Rect) Grow(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}
