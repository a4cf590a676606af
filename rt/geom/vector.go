// Package geom holds the shared geometric primitives used by every octree
// traversal backend: point and matrix algebra, epsilon-tolerant comparison
// and the axis-aligned face-intersection test.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Point3f is a position, direction or RGB triple.
type Point3f = mgl32.Vec3

// Color4f is an RGBA colour.
type Color4f struct {
	R, G, B, A float32
}

// RGB drops the alpha channel.
func (c Color4f) RGB() Point3f {
	return Point3f{c.R, c.G, c.B}
}

// VectMul returns the cross product a × b.
func VectMul(a, b Point3f) Point3f {
	return Point3f{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// VectMulScalar returns origin + k*dir. It is both the camera step and the
// parametric ray evaluation.
func VectMulScalar(origin, dir Point3f, k float32) Point3f {
	return Point3f{origin[0] + dir[0]*k, origin[1] + dir[1]*k, origin[2] + dir[2]*k}
}

func VectSum(a, b, c Point3f) Point3f {
	return Point3f{a[0] + b[0] + c[0], a[1] + b[1] + c[1], a[2] + b[2] + c[2]}
}

func VectDiv(a Point3f, c float32) Point3f {
	return Point3f{a[0] / c, a[1] / c, a[2] / c}
}

// VectScale is the per-component product.
func VectScale(a, b Point3f) Point3f {
	return Point3f{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// VectNormalize divides a by its length. a must be non-zero; a zero vector
// produces NaN components.
func VectNormalize(a Point3f) Point3f {
	return VectDiv(a, Length(a))
}

func Length(a Point3f) float32 {
	return float32(math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])))
}

func Dot(a, b Point3f) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Clamp restricts every component of p to [-radius, radius].
func Clamp(p *Point3f, radius float32) {
	for i := 0; i < 3; i++ {
		if p[i] < -radius {
			p[i] = -radius
		} else if p[i] > radius {
			p[i] = radius
		}
	}
}

// IsFinite reports whether no component is NaN or infinite.
func IsFinite(p Point3f) bool {
	for i := 0; i < 3; i++ {
		f := float64(p[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
