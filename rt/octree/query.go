package octree

import (
	"fmt"

	"github.com/gekko3d/svo/rt/geom"
)

// Bounds returns the min corner and edge length of node i's cube. It walks
// the parent links twice and does not allocate.
func (a *Arena) Bounds(i Index) (geom.Point3f, float32) {
	size := a.rootSize
	for d := a.Depth(i); d > 0; d-- {
		size /= 2
	}
	var off geom.Point3f
	s := size
	for n := i; a.nodes[n].Parent != NoParent; n = a.nodes[n].Parent {
		o := a.nodes[n].Octant
		off[0] += float32(o.X) * s
		off[1] += float32(o.Y) * s
		off[2] += float32(o.Z) * s
		s *= 2
	}
	return a.origin.Add(off), size
}

// Depth returns the number of edges between node i and the root.
func (a *Arena) Depth(i Index) int {
	d := 0
	for n := i; a.nodes[n].Parent != NoParent; n = a.nodes[n].Parent {
		d++
	}
	return d
}

// Cell is a node together with its cube.
type Cell struct {
	Index Index
	Min   geom.Point3f
	Size  float32
}

// RootCell returns the cube of the whole tree.
func (a *Arena) RootCell() Cell {
	return Cell{Index: 0, Min: a.origin, Size: a.rootSize}
}

// Locate returns the leaf cell containing p, or false when p is outside the
// root cube.
func (a *Arena) Locate(p geom.Point3f) (Cell, bool) {
	root := a.RootCell()
	if len(a.nodes) == 0 || !geom.InsideBox(p, root.Min, root.Size) {
		return Cell{}, false
	}
	return a.Descend(root, p), true
}

// Descend walks down from c to the leaf whose cube contains p. Points on a
// split plane go to the upper octant.
func (a *Arena) Descend(c Cell, p geom.Point3f) Cell {
	for a.nodes[c.Index].Kind == Partial {
		half := c.Size / 2
		var o Octant
		for axis := 0; axis < 3; axis++ {
			if p[axis] >= c.Min[axis]+half {
				o = o.WithAxis(axis, 1)
				c.Min[axis] += half
			}
		}
		c.Index = a.nodes[c.Index].children[o.X][o.Y][o.Z]
		c.Size = half
	}
	return c
}

// Neighbor returns the node sharing the given face of node i: the face on
// axis plane, on the positive side when positive is set. The result is at the
// same depth as i or coarser when that part of the tree is not subdivided.
// The root has no neighbours.
func (a *Arena) Neighbor(i Index, plane int, positive bool) (Index, bool) {
	n := &a.nodes[i]
	if n.Parent == NoParent || plane < 0 || plane > 2 {
		return 0, false
	}
	c := n.Octant.Axis(plane)
	mirrored := n.Octant.WithAxis(plane, 1-c)
	if (positive && c == 0) || (!positive && c == 1) {
		p := &a.nodes[n.Parent]
		return p.children[mirrored.X][mirrored.Y][mirrored.Z], true
	}
	pn, ok := a.Neighbor(n.Parent, plane, positive)
	if !ok {
		return 0, false
	}
	q := &a.nodes[pn]
	if q.Kind != Partial {
		return pn, true
	}
	return q.children[mirrored.X][mirrored.Y][mirrored.Z], true
}

// Validate checks the parent/child invariants of the whole arena.
func (a *Arena) Validate() error {
	if len(a.nodes) == 0 {
		return ErrEmpty
	}
	if a.nodes[0].Parent != NoParent {
		return fmt.Errorf("%w: root has parent %d", ErrCorrupt, a.nodes[0].Parent)
	}
	for i := range a.nodes {
		n := &a.nodes[i]
		idx := Index(i)
		if n.Kind == Partial {
			for x := uint8(0); x < 2; x++ {
				for y := uint8(0); y < 2; y++ {
					for z := uint8(0); z < 2; z++ {
						c := n.children[x][y][z]
						if !a.Valid(c) {
							return fmt.Errorf("%w: node %d child %d", ErrInvalidChild, idx, c)
						}
						ch := &a.nodes[c]
						if ch.Parent != idx || ch.Octant != (Octant{x, y, z}) {
							return fmt.Errorf("%w: node %d slot (%d,%d,%d) holds %d whose parent is %d at %v",
								ErrCorrupt, idx, x, y, z, c, ch.Parent, ch.Octant)
						}
					}
				}
			}
		}
		if idx == 0 {
			continue
		}
		if !a.Valid(n.Parent) {
			return fmt.Errorf("%w: node %d", ErrOrphan, idx)
		}
		p := &a.nodes[n.Parent]
		if got, ok := p.Child(n.Octant); !ok || got != idx {
			return fmt.Errorf("%w: node %d not found in parent %d at %v", ErrCorrupt, idx, n.Parent, n.Octant)
		}
	}
	return nil
}

// Stats summarises an arena.
type Stats struct {
	Nodes    int
	Empty    int
	Solid    int
	Partial  int
	MaxDepth int
}

func (a *Arena) Stats() Stats {
	s := Stats{Nodes: len(a.nodes)}
	if len(a.nodes) > 0 && a.nodes[0].Parent == NoParent {
		a.maxDepth(0, 0, &s)
	}
	for i := range a.nodes {
		switch a.nodes[i].Kind {
		case Empty:
			s.Empty++
		case Solid:
			s.Solid++
		case Partial:
			s.Partial++
		}
	}
	return s
}

func (a *Arena) maxDepth(i Index, d int, s *Stats) {
	if d > s.MaxDepth {
		s.MaxDepth = d
	}
	n := &a.nodes[i]
	if n.Kind != Partial {
		return
	}
	for _, o := range PartialOrder {
		a.maxDepth(n.children[o.X][o.Y][o.Z], d+1, s)
	}
}
