package render

import (
	"context"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/octree"
)

// Stacking walks the tree recursively, visiting the children a ray crosses
// nearest first. The call stack holds the traversal state.
type Stacking struct {
	Options
}

func NewStacking(opts Options) *Stacking {
	return &Stacking{Options: opts}
}

func (s *Stacking) Name() string { return "Stacking" }

func (s *Stacking) Render(ctx context.Context, view core.View, a *octree.Arena, f *Frame) error {
	return renderRows(ctx, s.workers(), view, a, f, s)
}

func (s *Stacking) Trace(a *octree.Arena, origin, dir geom.Point3f) (Hit, bool) {
	root := a.RootCell()
	t, plane, ok := enter(origin, dir, root.Min, root.Size)
	if !ok {
		return Hit{}, false
	}
	return s.visit(a, root, origin, dir, t, plane)
}

type candidate struct {
	cell  octree.Cell
	t     float32
	plane int
}

func (s *Stacking) visit(a *octree.Arena, c octree.Cell, origin, dir geom.Point3f, t float32, plane int) (Hit, bool) {
	n := a.Node(c.Index)
	switch n.Kind {
	case octree.Solid:
		return solidHit(a, c.Index, origin, dir, t, plane)
	case octree.Partial:
	default:
		return Hit{}, false
	}

	half := c.Size / 2
	var buf [8]candidate
	list := buf[:0]
	for _, o := range octree.PartialOrder {
		idx, _ := n.Child(o)
		lo := geom.Point3f{
			c.Min[0] + float32(o.X)*half,
			c.Min[1] + float32(o.Y)*half,
			c.Min[2] + float32(o.Z)*half,
		}
		ct, cp, ok := enter(origin, dir, lo, half)
		if !ok {
			continue
		}
		// insertion keeps the list nearest first
		k := len(list)
		list = append(list, candidate{})
		for k > 0 && list[k-1].t > ct {
			list[k] = list[k-1]
			k--
		}
		list[k] = candidate{cell: octree.Cell{Index: idx, Min: lo, Size: half}, t: ct, plane: cp}
	}
	for _, cd := range list {
		if h, ok := s.visit(a, cd.cell, origin, dir, cd.t, cd.plane); ok {
			return h, true
		}
	}
	return Hit{}, false
}
