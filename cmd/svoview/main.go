package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	svo "github.com/gekko3d/svo"
	"github.com/gekko3d/svo/rt/app"
	"github.com/gekko3d/svo/rt/gpu"
	"github.com/gekko3d/svo/rt/logging"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flags := svo.NewFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := svo.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	flags.Apply(cfg)

	logger := svo.NewLogger(cfg)
	defer logger.Sync()

	if flags.Snapshot != "" {
		err = snapshot(cfg, logger, flags.Snapshot)
	} else {
		err = view(cfg, logger)
	}
	if err != nil {
		logger.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// snapshot renders a single frame without a window.
func snapshot(cfg *svo.Config, logger logging.Logger, path string) error {
	c, err := svo.NewContext(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Render.GPU {
		t, err := gpu.NewHeadless(logger)
		if err != nil {
			logger.Warnf("GPU tracer unavailable: %v", err)
		} else {
			defer t.Release()
			if err := c.UseGPU(t); err != nil {
				return err
			}
		}
	}
	if err := c.Start(); err != nil {
		return err
	}
	if _, _, err := c.RenderFrame(context.Background(), cfg.Window.Width, cfg.Window.Height); err != nil {
		return err
	}
	out, err := c.Snapshot(path)
	if err != nil {
		return err
	}
	logger.Infof("Snapshot written to %s", out)
	return nil
}

func view(cfg *svo.Config, logger logging.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	presenter, err := app.NewPresenter(window, logger)
	if err != nil {
		return err
	}
	defer presenter.Release()

	c, err := svo.NewContext(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Render.GPU {
		t, err := gpu.New(presenter.Device, logger)
		if err != nil {
			logger.Warnf("GPU tracer unavailable: %v", err)
		} else {
			defer t.Release()
			if err := c.UseGPU(t); err != nil {
				return err
			}
		}
	}
	if err := c.Start(); err != nil {
		return err
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		presenter.Resize(width, height)
	})
	app.Bind(window, c, app.DefaultKeymap, func(err error) {
		logger.Warnf("%v", err)
	})

	ctx := context.Background()
	for !window.ShouldClose() {
		glfw.PollEvents()
		w, h := window.GetFramebufferSize()
		frame, d, err := c.RenderFrame(ctx, w, h)
		if err != nil {
			return err
		}
		if err := presenter.Present(frame); err != nil {
			logger.Errorf("Present failed: %v", err)
		}
		window.SetTitle(cfg.Window.Title + " - " + c.Title(d))
	}
	logger.Debugf("%s", c.Profiler.GetStatsString())
	return nil
}
