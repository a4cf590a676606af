// Package gpu runs the octree trace kernel through WebGPU and reads the
// image back into a render.Frame.
package gpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/gpu/layout"
	"github.com/gekko3d/svo/rt/logging"
	"github.com/gekko3d/svo/rt/octree"
	"github.com/gekko3d/svo/rt/render"
	"github.com/gekko3d/svo/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

var ErrMapFailed = errors.New("gpu: readback mapping failed")

// Tracer is the TracerCL backend. It keeps the encoded arena on the device
// and uploads it again only when a new arena generation shows up.
type Tracer struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	Pipeline  *wgpu.ComputePipeline
	BindGroup *wgpu.BindGroup

	CameraBuf   *wgpu.Buffer
	NodesBuf    *wgpu.Buffer
	OutputBuf   *wgpu.Buffer
	ReadbackBuf *wgpu.Buffer

	generation uuid.UUID
	dirty      bool
	logger     logging.Logger

	// set when the tracer created the device itself
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
}

// NewHeadless creates its own instance, adapter and device without a
// surface.
func NewHeadless(l logging.Logger) (*Tracer, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	t, err := New(device, l)
	if err != nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, err
	}
	t.instance = instance
	t.adapter = adapter
	return t, nil
}

// New builds the trace pipeline on an existing device.
func New(device *wgpu.Device, l logging.Logger) (*Tracer, error) {
	t := &Tracer{
		Device: device,
		Queue:  device.GetQueue(),
		logger: logging.OrNop(l),
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Octree Trace CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.OctreeTraceWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: shader module: %w", err)
	}
	defer module.Release()

	// Layout auto
	t.Pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Octree Trace Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: compute pipeline: %w", err)
	}

	t.CameraBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CameraUB",
		Size:  layout.CameraSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: camera buffer: %w", err)
	}
	t.dirty = true
	return t, nil
}

func (t *Tracer) Name() string { return "TracerCL" }

// ensureBuffer grows buf to hold size bytes and writes data when given. It
// reports whether the buffer was recreated.
func (t *Tracer) ensureBuffer(name string, buf **wgpu.Buffer, size uint64, data []byte, usage wgpu.BufferUsage) (bool, error) {
	if size%4 != 0 {
		size += 4 - size%4
	}
	created := false
	if *buf == nil || (*buf).GetSize() < size {
		if *buf != nil {
			(*buf).Release()
		}
		nb, err := t.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			*buf = nil
			return false, fmt.Errorf("gpu: %s: %w", name, err)
		}
		*buf = nb
		created = true
	}
	if len(data) > 0 {
		t.Queue.WriteBuffer(*buf, 0, data)
	}
	return created, nil
}

func (t *Tracer) upload(a *octree.Arena, w, h int) error {
	if a.Generation() != t.generation || t.NodesBuf == nil {
		data := a.Encode()
		created, err := t.ensureBuffer("OctNodes", &t.NodesBuf, uint64(len(data)), data,
			wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		t.dirty = t.dirty || created
		t.generation = a.Generation()
		t.logger.Debugf("Uploaded arena %s: %d nodes, %d bytes", t.generation, a.Len(), len(data))
	}

	size := layout.OutputSize(w, h)
	created, err := t.ensureBuffer("OutputPixels", &t.OutputBuf, size, nil,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	t.dirty = t.dirty || created
	if _, err := t.ensureBuffer("Readback", &t.ReadbackBuf, size, nil,
		wgpu.BufferUsageMapRead|wgpu.BufferUsageCopyDst); err != nil {
		return err
	}

	if t.dirty {
		if t.BindGroup != nil {
			t.BindGroup.Release()
		}
		t.BindGroup, err = t.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: t.Pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: t.CameraBuf, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: t.NodesBuf, Size: wgpu.WholeSize},
				{Binding: 2, Buffer: t.OutputBuf, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			return fmt.Errorf("gpu: bind group: %w", err)
		}
		t.dirty = false
	}
	return nil
}

// Render traces one frame on the device and copies it into f. It blocks
// until the readback mapping resolves, even when ctx is cancelled, so the
// readback buffer is never left with a pending map.
func (t *Tracer) Render(ctx context.Context, view core.View, a *octree.Arena, f *render.Frame) error {
	if !a.Sealed() {
		return render.ErrNotSealed
	}
	if f.Width == 0 || f.Height == 0 {
		return nil
	}
	if err := t.upload(a, f.Width, f.Height); err != nil {
		return err
	}
	t.Queue.WriteBuffer(t.CameraBuf, 0, layout.Camera(view, f.Width, f.Height, a.Origin(), a.RootSize()))

	encoder, err := t.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: command encoder: %w", err)
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(t.Pipeline)
	pass.SetBindGroup(0, t.BindGroup, nil)
	wgX, wgY := layout.Workgroups(f.Width, f.Height)
	pass.DispatchWorkgroups(wgX, wgY, 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("gpu: trace pass: %w", err)
	}

	size := layout.OutputSize(f.Width, f.Height)
	encoder.CopyBufferToBuffer(t.OutputBuf, 0, t.ReadbackBuf, 0, size)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: encoder finish: %w", err)
	}
	t.Queue.Submit(cmd)

	return t.readback(ctx, size, f)
}

func (t *Tracer) readback(ctx context.Context, size uint64, f *render.Frame) error {
	done := false
	var status wgpu.BufferMapAsyncStatus
	t.ReadbackBuf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		done = true
	})
	ctxErr := layout.AwaitMap(ctx, func() bool { return done }, func() { t.Device.Poll(true, nil) })
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return fmt.Errorf("%w: status %d", ErrMapFailed, status)
	}
	defer t.ReadbackBuf.Unmap()
	if ctxErr != nil {
		return ctxErr
	}

	data := t.ReadbackBuf.GetMappedRange(0, uint(size))
	return layout.UnpackPixels(data, f)
}

func (t *Tracer) Release() {
	for _, b := range []*wgpu.Buffer{t.CameraBuf, t.NodesBuf, t.OutputBuf, t.ReadbackBuf} {
		if b != nil {
			b.Release()
		}
	}
	if t.BindGroup != nil {
		t.BindGroup.Release()
	}
	if t.Pipeline != nil {
		t.Pipeline.Release()
	}
	if t.instance != nil {
		t.Device.Release()
		t.adapter.Release()
		t.instance.Release()
	}
}
