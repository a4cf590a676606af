package core

import (
	"math"

	"github.com/gekko3d/svo/rt/geom"
)

// View is an immutable per-frame camera snapshot. Target, Right and Up form
// an orthonormal basis.
type View struct {
	Position geom.Point3f
	Target   geom.Point3f
	Right    geom.Point3f
	Up       geom.Point3f

	Light    geom.Point3f
	HasLight bool

	// vertical field of view in radians
	FOV float32
}

// Ray returns the primary ray through the centre of pixel (px, py) of a
// w x h image. Row 0 is the top of the image.
func (v View) Ray(px, py, w, h int) (origin, dir geom.Point3f) {
	half := float32(math.Tan(float64(v.FOV) / 2))
	aspect := float32(w) / float32(h)
	u := (2*(float32(px)+0.5)/float32(w) - 1) * aspect * half
	s := (1 - 2*(float32(py)+0.5)/float32(h)) * half

	d := v.Target.Add(v.Right.Mul(u)).Add(v.Up.Mul(s))
	return v.Position, geom.VectNormalize(d)
}

// Shade applies a Lambert term from the captured light to a surface colour.
// Without a light the colour is returned unchanged.
func (v View) Shade(c geom.Color4f, hit, normal geom.Point3f) geom.Color4f {
	if !v.HasLight {
		return c
	}
	l := v.Light.Sub(hit)
	if geom.Length(l) == 0 {
		return c
	}
	k := geom.Dot(geom.VectNormalize(l), normal)
	if k < 0 {
		k = 0
	}
	// ambient floor so unlit faces stay readable
	k = 0.2 + 0.8*k
	return geom.Color4f{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}
