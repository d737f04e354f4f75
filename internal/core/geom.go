// Package core provides the fundamental types shared by the compositor, the
// resource stores and the presenters: pixel colors, the framebuffer, geometry
// helpers, input frames and the engine error codes.
// It has no third-party dependencies so the render path stays easy to test.
package core

// Rect is an axis-aligned rectangle in pixel coordinates.
// X/Y is the top-left corner; the right and bottom edges are exclusive.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromEdges builds a rectangle from its left, top, right and bottom edges.
// Right and bottom are exclusive. Inverted edges produce an empty rectangle.
func RectFromEdges(x1, y1, x2, y2 int) Rect {
	return Rect{X: x1, Y: y1, W: Max(0, x2-x1), H: Max(0, y2-y1)}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	// No overlap if one rect is completely to the left, right, above, or below
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Intersect returns the overlapping area of two rectangles.
// The result is empty when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x1 := Max(r.X, other.X)
	y1 := Max(r.Y, other.Y)
	x2 := Min(r.Right(), other.Right())
	y2 := Min(r.Bottom(), other.Bottom())
	return RectFromEdges(x1, y1, x2, y2)
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRow reports whether scanline y crosses the rectangle.
func (r Rect) ContainsRow(y int) bool {
	return y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Wrap returns v modulo n in the range [0, n).
// Used for wrap-around scrolling where positions may be negative.
func Wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
