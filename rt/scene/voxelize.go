package scene

import "github.com/gekko3d/svo/rt/octree"

type cellKey [3]int

type voxel struct {
	pos cellKey
	ci  byte
}

// Voxelize turns a dense vox model into a collapsed octree description. The
// root cube edge is the smallest power of two that holds the model; uniform
// regions become single leaves and unoccupied regions are cut off without
// visiting their cells.
func Voxelize(m *VoxModel, pal *VoxPalette) NodeSpec {
	size := 1
	for _, d := range []uint32{m.SizeX, m.SizeY, m.SizeZ} {
		for uint32(size) < d {
			size *= 2
		}
	}

	// later voxels overwrite earlier ones at the same position
	seen := make(map[cellKey]int, len(m.Voxels))
	occupied := make([]voxel, 0, len(m.Voxels))
	for _, v := range m.Voxels {
		k := cellKey{int(v.X), int(v.Y), int(v.Z)}
		// colour index 0 is a hole
		if v.ColorIndex == 0 || k[0] >= size || k[1] >= size || k[2] >= size {
			continue
		}
		if i, ok := seen[k]; ok {
			occupied[i].ci = v.ColorIndex
			continue
		}
		seen[k] = len(occupied)
		occupied = append(occupied, voxel{pos: k, ci: v.ColorIndex})
	}
	return voxelCell(occupied, pal, cellKey{}, size)
}

// voxelCell builds the cube of edge size at lo from the voxels inside it.
func voxelCell(vs []voxel, pal *VoxPalette, lo cellKey, size int) NodeSpec {
	if len(vs) == 0 {
		return Empty()
	}
	if size == 1 {
		c := pal[vs[0].ci]
		return Solid(float32(c[0])/255, float32(c[1])/255, float32(c[2])/255)
	}

	half := size / 2
	var buckets [8][]voxel
	for _, v := range vs {
		var o octree.Octant
		for axis := 0; axis < 3; axis++ {
			if v.pos[axis] >= lo[axis]+half {
				o = o.WithAxis(axis, 1)
			}
		}
		b := o.Bits()
		buckets[b] = append(buckets[b], v)
	}

	children := make([]NodeSpec, 8)
	for i, o := range octree.PartialOrder {
		sub := cellKey{lo[0] + int(o.X)*half, lo[1] + int(o.Y)*half, lo[2] + int(o.Z)*half}
		children[i] = voxelCell(buckets[o.Bits()], pal, sub, half)
	}
	return collapse(children)
}

// collapse merges eight identical leaves into one.
func collapse(children []NodeSpec) NodeSpec {
	first := children[0]
	if first.Kind == KindPartial {
		return Partial(children...)
	}
	for _, c := range children[1:] {
		if c.Kind != first.Kind {
			return Partial(children...)
		}
		if c.Kind == KindSolid {
			for k := range c.Color {
				if c.Color[k] != first.Color[k] {
					return Partial(children...)
				}
			}
		}
	}
	return first
}
