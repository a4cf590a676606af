// Package app puts rendered frames on screen through a glfw window and a
// WebGPU surface.
package app

import (
	"fmt"

	"github.com/gekko3d/svo/rt/logging"
	"github.com/gekko3d/svo/rt/render"
	"github.com/gekko3d/svo/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Presenter uploads each frame into a texture and blits it to the window
// surface. Its device can be shared with the GPU tracer.
type Presenter struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Surface  *wgpu.Surface
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Pipeline   *wgpu.RenderPipeline
	Sampler    *wgpu.Sampler
	FrameTex   *wgpu.Texture
	FrameView  *wgpu.TextureView
	FrameBG    *wgpu.BindGroup
	texW, texH int
	pix        []byte
	logger     logging.Logger
}

func NewPresenter(window *glfw.Window, l logging.Logger) (*Presenter, error) {
	p := &Presenter{Window: window, logger: logging.OrNop(l)}
	p.Instance = wgpu.CreateInstance(nil)
	p.Surface = p.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	var err error
	p.Adapter, err = p.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: p.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("app: request adapter: %w", err)
	}
	p.Device, err = p.Adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("app: request device: %w", err)
	}
	p.Queue = p.Device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := p.Surface.GetCapabilities(p.Adapter)
	format := caps.Formats[0]
	p.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	p.Surface.Configure(p.Adapter, p.Device, p.Config)

	module, err := p.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Fullscreen VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("app: shader module: %w", err)
	}
	defer module.Release()

	p.Pipeline, err = p.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Blit Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("app: blit pipeline: %w", err)
	}

	p.Sampler, err = p.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("app: sampler: %w", err)
	}
	return p, nil
}

// Resize reconfigures the surface after a framebuffer change.
func (p *Presenter) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.Config.Width = uint32(width)
	p.Config.Height = uint32(height)
	p.Surface.Configure(p.Adapter, p.Device, p.Config)
}

func (p *Presenter) ensureTexture(w, h int) error {
	if p.FrameTex != nil && p.texW == w && p.texH == h {
		return nil
	}
	if p.FrameBG != nil {
		p.FrameBG.Release()
	}
	if p.FrameView != nil {
		p.FrameView.Release()
	}
	if p.FrameTex != nil {
		p.FrameTex.Release()
	}

	var err error
	p.FrameTex, err = p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Frame",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("app: frame texture: %w", err)
	}
	p.FrameView, err = p.FrameTex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("app: frame view: %w", err)
	}
	p.FrameBG, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.FrameView},
			{Binding: 1, Sampler: p.Sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("app: frame bind group: %w", err)
	}
	p.texW, p.texH = w, h
	return nil
}

// Present uploads f and draws it over the whole surface.
func (p *Presenter) Present(f *render.Frame) error {
	if f.Width == 0 || f.Height == 0 {
		return nil
	}
	if err := p.ensureTexture(f.Width, f.Height); err != nil {
		return err
	}
	p.pix = f.RGBA8(p.pix)
	p.Queue.WriteTexture(p.FrameTex.AsImageCopy(), p.pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(f.Width * 4),
		RowsPerImage: uint32(f.Height),
	}, &wgpu.Extent3D{Width: uint32(f.Width), Height: uint32(f.Height), DepthOrArrayLayers: 1})

	next, err := p.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("app: surface texture: %w", err)
	}
	defer next.Release()
	view, err := next.CreateView(nil)
	if err != nil {
		return fmt.Errorf("app: surface view: %w", err)
	}
	defer view.Release()

	encoder, err := p.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("app: command encoder: %w", err)
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{0, 0, 0, 1},
		}},
	})
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.FrameBG, nil)
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("app: blit pass: %w", err)
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("app: encoder finish: %w", err)
	}
	p.Queue.Submit(cmd)
	p.Surface.Present()
	return nil
}

func (p *Presenter) Release() {
	if p.FrameBG != nil {
		p.FrameBG.Release()
	}
	if p.FrameView != nil {
		p.FrameView.Release()
	}
	if p.FrameTex != nil {
		p.FrameTex.Release()
	}
	if p.Sampler != nil {
		p.Sampler.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
	p.Device.Release()
	p.Adapter.Release()
	p.Surface.Release()
	p.Instance.Release()
}
