package octree

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/svo/rt/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoLevelTree builds a root whose (0,0,0) octant is subdivided into eight
// solids; the other root octants are empty except (1,0,0) which is solid.
func twoLevelTree(t *testing.T) *Arena {
	t.Helper()
	opts := DefaultOptions()
	opts.RootSize = 2
	a := NewArena(opts)

	var inner [8]Index
	for i := range inner {
		inner[i] = mustPush(t)(a.PushSolid(0, 0, float32(i+1)/8))
	}
	sub := mustPush(t)(a.PushPartial(inner))

	var outer [8]Index
	for i, o := range PartialOrder {
		switch o {
		case Octant{0, 0, 0}:
			outer[i] = sub
		case Octant{1, 0, 0}:
			outer[i] = mustPush(t)(a.PushSolid(1, 0, 0))
		default:
			outer[i] = mustPush(t)(a.PushEmpty())
		}
	}
	mustPush(t)(a.PushPartial(outer))
	require.NoError(t, a.Seal())
	return a
}

func grandchild(t *testing.T, a *Arena, o Octant) Index {
	sub, ok := a.Child(a.Root(), 0, 0, 0)
	require.True(t, ok)
	idx, ok := a.Child(sub, o.X, o.Y, o.Z)
	require.True(t, ok)
	return idx
}

func TestBounds(t *testing.T) {
	a := twoLevelTree(t)

	lo, size := a.Bounds(a.Root())
	assert.Equal(t, geom.Point3f{}, lo)
	assert.Equal(t, float32(2), size)

	right, _ := a.Child(a.Root(), 1, 0, 0)
	lo, size = a.Bounds(right)
	assert.Equal(t, geom.Point3f{1, 0, 0}, lo)
	assert.Equal(t, float32(1), size)

	g := grandchild(t, a, Octant{1, 1, 0})
	lo, size = a.Bounds(g)
	assert.Equal(t, geom.Point3f{0.5, 0.5, 0}, lo)
	assert.Equal(t, float32(0.5), size)
	assert.Equal(t, 2, a.Depth(g))

	allocs := testing.AllocsPerRun(100, func() { a.Bounds(g) })
	assert.Zero(t, allocs)
}

func TestBoundsDeepChain(t *testing.T) {
	opts := DefaultOptions()
	opts.Origin = geom.Point3f{-1, 2, 0}
	a := NewArena(opts)

	// each level subdivides its (1,0,1) octant
	const depth = 20
	leaf := mustPush(t)(a.PushSolid(1, 1, 1))
	node := leaf
	for d := 0; d < depth; d++ {
		var c [8]Index
		for i, o := range PartialOrder {
			if o == (Octant{1, 0, 1}) {
				c[i] = node
			} else {
				c[i] = mustPush(t)(a.PushEmpty())
			}
		}
		node = mustPush(t)(a.PushPartial(c))
	}
	require.NoError(t, a.Seal())

	cell, ok := a.Locate(geom.Point3f{0, 2, 1})
	require.True(t, ok)
	lo, size := a.Bounds(cell.Index)
	assert.Equal(t, cell.Size, size)
	assert.Equal(t, cell.Min, lo)
	assert.Equal(t, depth, a.Depth(cell.Index))
	assert.Equal(t, Solid, a.Node(cell.Index).Kind)
}

func TestLocate(t *testing.T) {
	a := twoLevelTree(t)

	c, ok := a.Locate(geom.Point3f{0.75, 0.25, 0.75})
	require.True(t, ok)
	assert.Equal(t, grandchild(t, a, Octant{1, 0, 1}), c.Index)
	assert.Equal(t, geom.Point3f{0.5, 0, 0.5}, c.Min)
	assert.Equal(t, float32(0.5), c.Size)

	c, ok = a.Locate(geom.Point3f{1.5, 0.5, 0.5})
	require.True(t, ok)
	right, _ := a.Child(a.Root(), 1, 0, 0)
	assert.Equal(t, right, c.Index)

	_, ok = a.Locate(geom.Point3f{3, 0, 0})
	assert.False(t, ok)
}

func TestNeighbor(t *testing.T) {
	a := twoLevelTree(t)
	right, _ := a.Child(a.Root(), 1, 0, 0)
	sub, _ := a.Child(a.Root(), 0, 0, 0)

	// sibling inside the same parent
	n, ok := a.Neighbor(grandchild(t, a, Octant{0, 0, 0}), 0, true)
	require.True(t, ok)
	assert.Equal(t, grandchild(t, a, Octant{1, 0, 0}), n)

	// crossing into a coarser leaf
	n, ok = a.Neighbor(grandchild(t, a, Octant{1, 0, 0}), 0, true)
	require.True(t, ok)
	assert.Equal(t, right, n)

	// crossing into a subdivided neighbour at the same depth
	n, ok = a.Neighbor(right, 0, false)
	require.True(t, ok)
	assert.Equal(t, sub, n)

	// opposite neighbours are symmetric
	n, ok = a.Neighbor(grandchild(t, a, Octant{0, 1, 1}), 2, false)
	require.True(t, ok)
	assert.Equal(t, grandchild(t, a, Octant{0, 1, 0}), n)
	back, ok := a.Neighbor(n, 2, true)
	require.True(t, ok)
	assert.Equal(t, grandchild(t, a, Octant{0, 1, 1}), back)

	// leaving the root
	_, ok = a.Neighbor(grandchild(t, a, Octant{0, 0, 0}), 0, false)
	assert.False(t, ok)
	_, ok = a.Neighbor(a.Root(), 1, true)
	assert.False(t, ok)
}

func TestEncode(t *testing.T) {
	a := twoLevelTree(t)
	data := a.Encode()
	require.Len(t, data, a.Len()*NodeStride)

	// root
	assert.Equal(t, uint32(Partial), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(data[4:8])))
	right, _ := a.Child(a.Root(), 1, 0, 0)
	// octant bits 1 = (1,0,0)
	assert.Equal(t, uint32(right), binary.LittleEndian.Uint32(data[16+4:16+8]))

	off := int(right) * NodeStride
	assert.Equal(t, uint32(Solid), binary.LittleEndian.Uint32(data[off:off+4]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[off+8:off+12]))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data[off+16:off+20])))

	assert.Len(t, NewArena(DefaultOptions()).Encode(), NodeStride)
}

func TestOctantBits(t *testing.T) {
	for b := uint8(0); b < 8; b++ {
		assert.Equal(t, b, OctantFromBits(b).Bits())
	}
	assert.Equal(t, uint8(5), Octant{1, 0, 1}.Bits())
}
