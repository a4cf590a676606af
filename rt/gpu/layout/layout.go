// Package layout packs the host side of the octree trace kernel's buffers.
// It has no GPU dependency so the byte layouts can be checked in tests.
package layout

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/render"
)

const (
	// CameraSize matches the WGSL Camera uniform.
	//
	//	struct Camera {
	//	  pos      : vec4<f32>,  0
	//	  target   : vec4<f32>,  16
	//	  right    : vec4<f32>,  32
	//	  up       : vec4<f32>,  48
	//	  light    : vec4<f32>,  64  w = 1 when captured
	//	  origin   : vec4<f32>,  80  w = root edge length
	//	  width    : u32,        96
	//	  height   : u32,        100
	//	  tan_half : f32,        104
	//	  aspect   : f32,        108
	//	} -> 112 bytes
	CameraSize = 112

	// PixelStride is one vec4<f32> of the output buffer.
	PixelStride = 16

	WorkgroupSize = 8
)

func putVec4(buf []byte, v geom.Point3f, w float32) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(w))
}

// Camera packs one frame's camera for a w x h image of a tree whose root
// cube starts at origin with edge rootSize.
func Camera(v core.View, w, h int, origin geom.Point3f, rootSize float32) []byte {
	buf := make([]byte, CameraSize)
	putVec4(buf[0:], v.Position, 1)
	putVec4(buf[16:], v.Target, 0)
	putVec4(buf[32:], v.Right, 0)
	putVec4(buf[48:], v.Up, 0)
	lit := float32(0)
	if v.HasLight {
		lit = 1
	}
	putVec4(buf[64:], v.Light, lit)
	putVec4(buf[80:], origin, rootSize)

	binary.LittleEndian.PutUint32(buf[96:], uint32(w))
	binary.LittleEndian.PutUint32(buf[100:], uint32(h))
	binary.LittleEndian.PutUint32(buf[104:], math.Float32bits(float32(math.Tan(float64(v.FOV)/2))))
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	binary.LittleEndian.PutUint32(buf[108:], math.Float32bits(aspect))
	return buf
}

// Workgroups is the dispatch size covering a w x h image.
func Workgroups(w, h int) (uint32, uint32) {
	return uint32((w + WorkgroupSize - 1) / WorkgroupSize), uint32((h + WorkgroupSize - 1) / WorkgroupSize)
}

// OutputSize is the byte size of the output buffer for a w x h image.
func OutputSize(w, h int) uint64 {
	return uint64(w) * uint64(h) * PixelStride
}

// UnpackPixels copies the RGB part of the kernel output into f.
func UnpackPixels(data []byte, f *render.Frame) error {
	n := f.Width * f.Height
	if len(data) < n*PixelStride {
		return fmt.Errorf("layout: output has %d bytes, need %d", len(data), n*PixelStride)
	}
	for i := 0; i < n; i++ {
		off := i * PixelStride
		f.Pix[i*3] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		f.Pix[i*3+1] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))
		f.Pix[i*3+2] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))
	}
	return nil
}

// AwaitMap calls poll until done reports true. A pending buffer map cannot
// be abandoned, so cancellation of ctx does not stop the loop; it is
// reported once the map has resolved.
func AwaitMap(ctx context.Context, done func() bool, poll func()) error {
	for !done() {
		poll()
	}
	return ctx.Err()
}
