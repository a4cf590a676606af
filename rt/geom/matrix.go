package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Matrix3f is a 3x3 rotation. Elements are addressed with At(row, col).
type Matrix3f = mgl32.Mat3

// CreateRotationMatrix builds the rotation of angle radians around a unit axis
// (Rodrigues' formula).
func CreateRotationMatrix(axis Point3f, angle float32) Matrix3f {
	l, m, n := axis[0], axis[1], axis[2]
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	c1 := 1 - c

	var ret Matrix3f
	ret.Set(0, 0, l*l*c1+c)
	ret.Set(0, 1, m*l*c1-n*s)
	ret.Set(0, 2, n*l*c1+m*s)

	ret.Set(1, 0, l*m*c1+n*s)
	ret.Set(1, 1, m*m*c1+c)
	ret.Set(1, 2, n*m*c1-l*s)

	ret.Set(2, 0, l*n*c1-m*s)
	ret.Set(2, 1, m*n*c1+l*s)
	ret.Set(2, 2, n*n*c1+c)
	return ret
}

// MultiplyVectMatrix multiplies the row vector v by m.
func MultiplyVectMatrix(v Point3f, m Matrix3f) Point3f {
	return Point3f{
		v[0]*m.At(0, 0) + v[1]*m.At(1, 0) + v[2]*m.At(2, 0),
		v[0]*m.At(0, 1) + v[1]*m.At(1, 1) + v[2]*m.At(2, 1),
		v[0]*m.At(0, 2) + v[1]*m.At(1, 2) + v[2]*m.At(2, 2),
	}
}
