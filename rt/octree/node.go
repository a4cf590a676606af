// Package octree stores a sparse voxel octree in a flat arena of nodes
// referenced by index. Construction is bottom-up: children are pushed before
// the partial node that groups them, and Seal moves the final root to slot 0.
package octree

import (
	"fmt"

	"github.com/gekko3d/svo/rt/geom"
)

// Index addresses a node in an Arena.
type Index int32

// NoParent is the parent of the root.
const NoParent Index = -1

type Kind uint8

const (
	Empty Kind = iota
	Solid
	Partial
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Solid:
		return "solid"
	case Partial:
		return "partial"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Octant is the position of a child inside its parent, each coordinate 0 or 1.
type Octant struct {
	X, Y, Z uint8
}

// Bits packs the octant as x | y<<1 | z<<2.
func (o Octant) Bits() uint8 {
	return o.X | o.Y<<1 | o.Z<<2
}

// Axis returns the coordinate on axis 0, 1 or 2.
func (o Octant) Axis(a int) uint8 {
	switch a {
	case 0:
		return o.X
	case 1:
		return o.Y
	default:
		return o.Z
	}
}

// WithAxis returns a copy of o with coordinate a set to v.
func (o Octant) WithAxis(a int, v uint8) Octant {
	switch a {
	case 0:
		o.X = v
	case 1:
		o.Y = v
	default:
		o.Z = v
	}
	return o
}

// OctantFromBits is the inverse of Bits.
func OctantFromBits(b uint8) Octant {
	return Octant{X: b & 1, Y: (b >> 1) & 1, Z: (b >> 2) & 1}
}

// PartialOrder is the slot each argument of PushPartial is wired into:
// c0..c7 land in PartialOrder[0..7]. Backends derive opposite neighbours from
// this table so it must never change.
var PartialOrder = [8]Octant{
	{0, 1, 1},
	{1, 1, 1},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 0},
	{1, 0, 0},
}

// Node is one arena record. The payload is chosen by Kind and only reachable
// through Color and Children, which report whether it exists.
type Node struct {
	Kind   Kind
	Parent Index
	Octant Octant

	color    geom.Color4f
	children [2][2][2]Index
}

// Color returns the voxel colour of a Solid node.
func (n Node) Color() (geom.Color4f, bool) {
	if n.Kind != Solid {
		return geom.Color4f{}, false
	}
	return n.color, true
}

// Children returns the child table of a Partial node, indexed [x][y][z].
func (n Node) Children() ([2][2][2]Index, bool) {
	if n.Kind != Partial {
		return [2][2][2]Index{}, false
	}
	return n.children, true
}

// Child returns the child stored at octant o of a Partial node.
func (n Node) Child(o Octant) (Index, bool) {
	if n.Kind != Partial {
		return 0, false
	}
	return n.children[o.X][o.Y][o.Z], true
}

func (n Node) String() string {
	switch n.Kind {
	case Solid:
		return fmt.Sprintf("solid(%.3g,%.3g,%.3g) parent=%d at %v", n.color.R, n.color.G, n.color.B, n.Parent, n.Octant)
	case Partial:
		return fmt.Sprintf("partial%v parent=%d at %v", n.children, n.Parent, n.Octant)
	}
	return fmt.Sprintf("empty parent=%d at %v", n.Parent, n.Octant)
}
