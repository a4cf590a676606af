package render

import (
	"context"
	"errors"
	"runtime"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/octree"
)

var ErrNotSealed = errors.New("render: arena is not sealed")

// Background is written for rays that leave the tree without a hit.
var Background = geom.Point3f{0, 0, 0}

// Backend fills a frame with one image of arena seen through view.
type Backend interface {
	Name() string
	Render(ctx context.Context, view core.View, arena *octree.Arena, frame *Frame) error
}

// Hit is the first solid voxel along a ray.
type Hit struct {
	Node   octree.Index
	Dist   float32
	Point  geom.Point3f
	Normal geom.Point3f
	Color  geom.Color4f
}

// Tracer finds the first solid voxel along one ray.
type Tracer interface {
	Trace(a *octree.Arena, origin, dir geom.Point3f) (Hit, bool)
}

type Options struct {
	// Workers is the number of goroutines sharing the pixel rows. Zero
	// means one per CPU.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// faceNormal is the outward normal of the face on axis plane that a ray
// moving along dir enters through. A negative plane means the ray started
// inside the voxel.
func faceNormal(plane int, dir geom.Point3f) geom.Point3f {
	if plane < 0 || plane > 2 {
		return dir.Mul(-1)
	}
	var n geom.Point3f
	if dir[plane] > 0 {
		n[plane] = -1
	} else {
		n[plane] = 1
	}
	return n
}

func solidHit(a *octree.Arena, idx octree.Index, origin, dir geom.Point3f, t float32, plane int) (Hit, bool) {
	n := a.Node(idx)
	c, ok := n.Color()
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Node:   idx,
		Dist:   t,
		Point:  geom.VectMulScalar(origin, dir, t),
		Normal: faceNormal(plane, dir),
		Color:  c,
	}, true
}

// enter returns where a ray enters the cube, or t=0 and plane -1 when the
// origin is already inside.
func enter(origin, dir, lo geom.Point3f, size float32) (float32, int, bool) {
	if geom.InsideBox(origin, lo, size) {
		return 0, -1, true
	}
	d, ok := geom.BoxEntry(origin, dir, lo, size)
	return d.Dist, d.Plane, ok
}
