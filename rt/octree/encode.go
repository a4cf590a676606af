package octree

import (
	"encoding/binary"
	"math"
)

// Matches the WGSL OctNode
//
//	struct OctNode {
//	   kind : u32;          (4)
//	   parent : i32;        (4)
//	   octant : u32;        (4)  x | y<<1 | z<<2
//	   pad : u32;           (4)
//	   data : array<u32,8>; (32) children by octant bits, or rgba as f32 bits
//	}; -> 48 bytes
const NodeStride = 48

// ToBytes encodes one node in the GPU layout.
func (n *Node) ToBytes() []byte {
	buf := make([]byte, NodeStride)
	n.putBytes(buf)
	return buf
}

func (n *Node) putBytes(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n.Kind))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(n.Parent))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(n.Octant.Bits()))
	binary.LittleEndian.PutUint32(buf[12:16], 0)

	switch n.Kind {
	case Solid:
		binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(n.color.R))
		binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(n.color.G))
		binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(n.color.B))
		binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(n.color.A))
	case Partial:
		for b := uint8(0); b < 8; b++ {
			o := OctantFromBits(b)
			off := 16 + int(b)*4
			binary.LittleEndian.PutUint32(buf[off:off+4], uint32(n.children[o.X][o.Y][o.Z]))
		}
	}
}

// Encode packs the whole arena for upload. An empty arena still yields one
// zeroed (empty) node so the storage buffer is never zero-sized.
func (a *Arena) Encode() []byte {
	if len(a.nodes) == 0 {
		return make([]byte, NodeStride)
	}
	out := make([]byte, len(a.nodes)*NodeStride)
	for i := range a.nodes {
		a.nodes[i].putBytes(out[i*NodeStride : (i+1)*NodeStride])
	}
	return out
}
