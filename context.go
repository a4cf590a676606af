package svo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/logging"
	"github.com/gekko3d/svo/rt/octree"
	"github.com/gekko3d/svo/rt/render"
	"github.com/gekko3d/svo/rt/scene"
)

// Action is one user command, independent of the input device.
type Action int

const (
	ActionNone Action = iota
	MoveForward
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	LookUp
	LookDown
	TurnLeft
	TurnRight
	CaptureLight
	CycleMethod
	TakeSnapshot
	Quit
)

// Context owns everything one viewer needs between frames: the sealed
// arena, the camera, the method selector and the last frame.
type Context struct {
	cfg      *Config
	logger   logging.Logger
	arena    *octree.Arena
	frame    *render.Frame
	sceneSrc string

	Camera   *core.CameraState
	Selector *Selector
	Profiler *core.Profiler
}

// NewContext registers the CPU backends and selects the configured method.
// No scene is loaded yet.
func NewContext(cfg *Config, l logging.Logger) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l = logging.OrNop(l)
	c := &Context{
		cfg:      cfg,
		logger:   l,
		frame:    render.NewFrame(cfg.Window.Width, cfg.Window.Height),
		Camera:   cfg.NewCamera(),
		Selector: NewSelector(l),
		Profiler: core.NewProfiler(),
	}
	opts := render.Options{Workers: cfg.Render.Workers}
	if err := c.Selector.Register(Stacking, render.NewStacking(opts)); err != nil {
		return nil, err
	}
	if err := c.Selector.Register(Stackless, render.NewStackless(opts)); err != nil {
		return nil, err
	}
	return c, nil
}

// UseGPU registers the TracerCL backend and switches to it when the config
// asks for it.
func (c *Context) UseGPU(b render.Backend) error {
	if err := c.Selector.Register(TracerCL, b); err != nil {
		return err
	}
	return c.applyMethod()
}

// applyMethod selects the configured method, keeping the current one when
// its backend is missing.
func (c *Context) applyMethod() error {
	m, _ := ParseRenderMethod(c.cfg.Render.Method)
	if m == c.Selector.Current() {
		return nil
	}
	if err := c.Selector.Select(m); err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			c.logger.Warnf("Configured method %s unavailable, staying on %s", m, c.Selector.Current())
			return nil
		}
		return err
	}
	return nil
}

// Start loads the configured scene and applies the configured method.
func (c *Context) Start() error {
	if err := c.LoadScene(c.cfg.Scene.Path); err != nil {
		return err
	}
	return c.applyMethod()
}

// LoadScene builds a new arena from path, or the built-in demo when path
// is empty. The previous arena stays active if anything fails.
func (c *Context) LoadScene(path string) error {
	defer c.Profiler.Scope("load")()

	a := octree.NewArena(c.cfg.ArenaOptions(c.logger))
	var err error
	if path == "" {
		_, err = scene.Emit(scene.Demo(), a)
	} else {
		_, err = scene.Load(path, a)
	}
	if err == nil {
		err = a.Seal()
	}
	if err != nil {
		c.logger.Errorf("Scene load failed: %v", err)
		return fmt.Errorf("svo: load scene: %w", err)
	}

	c.arena = a
	c.sceneSrc = path
	s := a.Stats()
	c.Profiler.SetCount("nodes", s.Nodes)
	c.Profiler.SetCount("depth", s.MaxDepth)
	c.logger.Infof("Scene loaded: %d nodes (%d empty, %d solid, %d partial), depth %d",
		s.Nodes, s.Empty, s.Solid, s.Partial, s.MaxDepth)
	return nil
}

func (c *Context) Arena() *octree.Arena { return c.arena }
func (c *Context) Frame() *render.Frame { return c.frame }
func (c *Context) Config() *Config      { return c.cfg }

// Handle applies one action. It reports true for Quit.
func (c *Context) Handle(a Action) (bool, error) {
	cam := c.Camera
	switch a {
	case MoveForward:
		cam.Move(core.AxisForward, cam.Step)
	case MoveBack:
		cam.Move(core.AxisForward, -cam.Step)
	case MoveLeft:
		cam.Move(core.AxisRight, -cam.Step)
	case MoveRight:
		cam.Move(core.AxisRight, cam.Step)
	case MoveUp:
		cam.Move(core.AxisUp, cam.Step)
	case MoveDown:
		cam.Move(core.AxisUp, -cam.Step)
	case LookUp:
		cam.Rotate(0, cam.AngleStep)
	case LookDown:
		cam.Rotate(0, -cam.AngleStep)
	case TurnLeft:
		cam.Rotate(cam.AngleStep, 0)
	case TurnRight:
		cam.Rotate(-cam.AngleStep, 0)
	case CaptureLight:
		cam.CaptureLight()
		c.logger.Infof("Light captured at (%.3f, %.3f, %.3f)", cam.Light[0], cam.Light[1], cam.Light[2])
	case CycleMethod:
		_, err := c.Selector.Cycle()
		return false, err
	case TakeSnapshot:
		path, err := c.Snapshot("")
		if err == nil {
			c.logger.Infof("Snapshot written to %s", path)
		}
		return false, err
	case Quit:
		return true, nil
	default:
		return false, nil
	}
	c.logger.Debugf("%s", cam.Status())
	return false, nil
}

// Look applies a mouse drag delta.
func (c *Context) Look(dx, dy float64) {
	c.Camera.Look(dx, dy)
	c.logger.Debugf("%s", c.Camera.Status())
}

// RenderFrame draws the scene into a w x h frame with the current method.
// If the GPU backend fails the selector drops it and the frame is redrawn
// on the CPU.
func (c *Context) RenderFrame(ctx context.Context, w, h int) (*render.Frame, time.Duration, error) {
	if c.arena == nil {
		return nil, 0, fmt.Errorf("svo: %w", octree.ErrEmpty)
	}
	c.frame.Resize(w, h)
	view := c.Camera.View()

	c.Profiler.BeginScope("frame")
	err := c.Selector.Backend().Render(ctx, view, c.arena, c.frame)
	if err != nil && c.Selector.Current() == TracerCL && ctx.Err() == nil {
		c.logger.Errorf("%s failed: %v", TracerCL, err)
		c.Selector.Unregister(TracerCL)
		err = c.Selector.Backend().Render(ctx, view, c.arena, c.frame)
	}
	d := c.Profiler.EndScope("frame")
	if err != nil {
		return nil, d, err
	}
	return c.frame, d, nil
}

// Title is the window title for a frame that took d.
func (c *Context) Title(d time.Duration) string {
	return fmt.Sprintf("%d ms - %s", d.Milliseconds(), c.Selector.Current())
}
