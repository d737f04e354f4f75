package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Affine is a rotation and scaling around a pivot point.
type Affine struct {
	Angle  float64 // Rotation in degrees
	DX, DY float64 // Pivot, relative to the screen
	SX, SY float64 // Scale factors, 1 is the original size
}

// IdentityAffine leaves the layer untransformed.
var IdentityAffine = Affine{SX: 1, SY: 1}

// screenToSource builds the matrix that maps a screen coordinate to layer
// space for a layer scrolled to (x, y).
func (a Affine) screenToSource(x, y int) mgl64.Mat3 {
	pivotX := float64(x) + a.DX
	pivotY := float64(y) + a.DY
	return mgl64.Translate2D(pivotX, pivotY).
		Mul3(mgl64.HomogRotate2D(mgl64.DegToRad(-a.Angle))).
		Mul3(mgl64.Scale2D(1/a.SX, 1/a.SY)).
		Mul3(mgl64.Translate2D(-a.DX, -a.DY))
}

// affineRows is the top two rows of a screen-to-source matrix, unpacked
// for the per-pixel loop.
type affineRows struct {
	a, b, c float64
	d, e, f float64
}

func newAffineRows(m mgl64.Mat3) affineRows {
	return affineRows{
		a: m.At(0, 0), b: m.At(0, 1), c: m.At(0, 2),
		d: m.At(1, 0), e: m.At(1, 1), f: m.At(1, 2),
	}
}

// apply maps the screen point (x, y) and floors the result.
func (r affineRows) apply(x, y int) (int, int) {
	fx, fy := float64(x), float64(y)
	sx := r.a*fx + r.b*fy + r.c
	sy := r.d*fx + r.e*fy + r.f
	return int(math.Floor(sx + 1e-9)), int(math.Floor(sy + 1e-9))
}
