package render

import (
	"context"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/octree"
)

// maxSteps bounds the leaf walk of one ray.
const maxSteps = 1 << 16

// Stackless marches from leaf to leaf. At each leaf it finds the exit face,
// moves to the face neighbour through the parent links and descends to the
// leaf at the exit point. No per-ray stack is kept.
type Stackless struct {
	Options
}

func NewStackless(opts Options) *Stackless {
	return &Stackless{Options: opts}
}

func (s *Stackless) Name() string { return "Stackless" }

func (s *Stackless) Render(ctx context.Context, view core.View, a *octree.Arena, f *Frame) error {
	return renderRows(ctx, s.workers(), view, a, f, s)
}

func (s *Stackless) Trace(a *octree.Arena, origin, dir geom.Point3f) (Hit, bool) {
	root := a.RootCell()
	t, plane, ok := enter(origin, dir, root.Min, root.Size)
	if !ok {
		return Hit{}, false
	}
	p := origin
	if plane >= 0 {
		p = geom.VectMulScalar(origin, dir, t)
		p[plane] = faceCoord(root, plane, dir[plane] < 0)
	}
	leaf := a.Descend(root, p)

	for step := 0; step < maxSteps; step++ {
		if a.Node(leaf.Index).Kind == octree.Solid {
			return solidHit(a, leaf.Index, origin, dir, t, plane)
		}

		exit, ok := geom.BoxExit(origin, dir, leaf.Min, leaf.Size)
		if !ok {
			return Hit{}, false
		}
		positive := dir[exit.Plane] > 0
		nb, ok := a.Neighbor(leaf.Index, exit.Plane, positive)
		if !ok {
			return Hit{}, false
		}

		t, plane = exit.Dist, exit.Plane
		p = geom.VectMulScalar(origin, dir, t)
		// snap onto the shared face so the descent picks the right side
		p[plane] = faceCoord(leaf, plane, positive)

		lo, size := a.Bounds(nb)
		leaf = a.Descend(octree.Cell{Index: nb, Min: lo, Size: size}, p)
	}
	return Hit{}, false
}

// faceCoord is the coordinate of the upper or lower face of c on axis.
func faceCoord(c octree.Cell, axis int, upper bool) float32 {
	if upper {
		return c.Min[axis] + c.Size
	}
	return c.Min[axis]
}
