package layout

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestCamera(t *testing.T) {
	cam := core.NewCameraState()
	cam.Position = geom.Point3f{1, 2, 3}
	cam.CaptureLight()
	v := cam.View()

	buf := Camera(v, 640, 480, geom.Point3f{-1, 0, 0}, 2)
	require.Len(t, buf, CameraSize)

	assert.Equal(t, float32(1), f32(buf, 0))
	assert.Equal(t, float32(3), f32(buf, 8))
	assert.Equal(t, v.Target[0], f32(buf, 16))
	assert.Equal(t, v.Right[1], f32(buf, 36))
	assert.Equal(t, v.Up[2], f32(buf, 56))
	assert.Equal(t, float32(2), f32(buf, 64))
	assert.Equal(t, float32(1), f32(buf, 76), "light flag")
	assert.Equal(t, float32(-1), f32(buf, 80))
	assert.Equal(t, float32(2), f32(buf, 92), "root size")
	assert.Equal(t, uint32(640), binary.LittleEndian.Uint32(buf[96:]))
	assert.Equal(t, uint32(480), binary.LittleEndian.Uint32(buf[100:]))
	assert.InDelta(t, math.Tan(math.Pi/6), f32(buf, 104), 1e-6)
	assert.InDelta(t, 640.0/480.0, f32(buf, 108), 1e-6)
}

func TestWorkgroups(t *testing.T) {
	x, y := Workgroups(640, 480)
	assert.Equal(t, uint32(80), x)
	assert.Equal(t, uint32(60), y)
	x, y = Workgroups(9, 1)
	assert.Equal(t, uint32(2), x)
	assert.Equal(t, uint32(1), y)
	assert.Equal(t, uint64(9*16), OutputSize(9, 1))
}

func TestUnpackPixels(t *testing.T) {
	data := make([]byte, 2*PixelStride)
	for i, v := range []float32{0.1, 0.2, 0.3, 1, 0.4, 0.5, 0.6, 1} {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	f := render.NewFrame(2, 1)
	require.NoError(t, UnpackPixels(data, f))
	assert.Equal(t, geom.Point3f{0.1, 0.2, 0.3}, f.At(0, 0))
	assert.Equal(t, geom.Point3f{0.4, 0.5, 0.6}, f.At(1, 0))

	assert.Error(t, UnpackPixels(data[:16], f))
}

func TestAwaitMapPollsUntilResolved(t *testing.T) {
	polls := 0
	done := func() bool { return polls >= 3 }
	poll := func() { polls++ }
	require.NoError(t, AwaitMap(context.Background(), done, poll))
	assert.Equal(t, 3, polls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	polls = 0
	err := AwaitMap(ctx, done, poll)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, polls, "cancellation must not leave the map pending")
}
