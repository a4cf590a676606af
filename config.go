package svo

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/geom"
	"github.com/gekko3d/svo/rt/logging"
	"github.com/gekko3d/svo/rt/octree"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("svo: invalid config")

// Config holds every viewer setting.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Scene    SceneConfig    `yaml:"scene"`
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// SceneConfig places the tree. An empty Path loads the built-in demo.
type SceneConfig struct {
	Path     string     `yaml:"path"`
	Origin   [3]float32 `yaml:"origin"`
	Size     float32    `yaml:"size"`
	MaxNodes int        `yaml:"max_nodes"` // 0 is unbounded
}

type RenderConfig struct {
	Method  string `yaml:"method"` // stacking, stackless or tracercl
	Workers int    `yaml:"workers"`
	GPU     bool   `yaml:"gpu"` // provision the TracerCL backend
}

type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Horizontal  float32    `yaml:"horizontal"`
	Vertical    float32    `yaml:"vertical"`
	FOVDegrees  float32    `yaml:"fov_degrees"`
	Step        float32    `yaml:"step"`
	AngleStep   float32    `yaml:"angle_step"`
	Sensitivity float32    `yaml:"sensitivity"`
}

type SnapshotConfig struct {
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"` // png, bmp or tiff
	Overlay bool   `yaml:"overlay"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func DefaultConfig() *Config {
	cam := core.NewCameraState()
	return &Config{
		Window: WindowConfig{Width: 640, Height: 480, Title: "svo"},
		Scene:  SceneConfig{Size: 1},
		Render: RenderConfig{Method: Stacking.String(), GPU: true},
		Camera: CameraConfig{
			Position:    cam.Position,
			FOVDegrees:  60,
			Step:        core.DefaultStep,
			AngleStep:   core.DefaultAngleStep,
			Sensitivity: core.DefaultSensitivity,
		},
		Snapshot: SnapshotConfig{Dir: ".", Format: "png", Overlay: true},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path. An
// empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty file keeps the defaults
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Scene.Size <= 0 {
		return fmt.Errorf("%w: scene size %v", ErrInvalidConfig, c.Scene.Size)
	}
	if c.Scene.MaxNodes < 0 {
		return fmt.Errorf("%w: max_nodes %d", ErrInvalidConfig, c.Scene.MaxNodes)
	}
	if _, err := ParseRenderMethod(c.Render.Method); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("%w: fov %v", ErrInvalidConfig, c.Camera.FOVDegrees)
	}
	if _, err := ParseSnapshotFormat(c.Snapshot.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ArenaOptions maps the scene section onto the octree builder.
func (c *Config) ArenaOptions(l logging.Logger) octree.Options {
	opts := octree.DefaultOptions()
	opts.MaxNodes = c.Scene.MaxNodes
	opts.Origin = geom.Point3f(c.Scene.Origin)
	opts.RootSize = c.Scene.Size
	opts.Logger = l
	return opts
}

// NewCamera builds the initial camera from the camera section.
func (c *Config) NewCamera() *core.CameraState {
	cam := core.NewCameraState()
	cam.Position = geom.Point3f(c.Camera.Position)
	cam.FOV = c.Camera.FOVDegrees * math.Pi / 180
	if c.Camera.Step > 0 {
		cam.Step = c.Camera.Step
	}
	if c.Camera.AngleStep > 0 {
		cam.AngleStep = c.Camera.AngleStep
	}
	if c.Camera.Sensitivity > 0 {
		cam.Sensitivity = c.Camera.Sensitivity
	}
	cam.SetAngles(c.Camera.Horizontal, c.Camera.Vertical)
	return cam
}

func (c *Config) LoggingOptions(prefix string) logging.Options {
	opts := logging.DefaultOptions()
	opts.Prefix = prefix
	opts.Level = c.Logging.Level
	opts.File = c.Logging.File
	opts.MaxSizeMB = c.Logging.MaxSizeMB
	opts.MaxBackups = c.Logging.MaxBackups
	opts.MaxAgeDays = c.Logging.MaxAgeDays
	return opts
}

// Flags are the command line overrides. Only flags given on the command
// line replace file values.
type Flags struct {
	fs *flag.FlagSet

	ConfigPath string
	Scene      string
	Method     string
	Width      int
	Height     int
	Workers    int
	NoGPU      bool
	Debug      bool
	Snapshot   string
}

func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&f.Scene, "scene", "", "scene file (.json, .yaml or .vox)")
	fs.StringVar(&f.Method, "method", "", "initial render method: stacking, stackless or tracercl")
	fs.IntVar(&f.Width, "width", 0, "window width")
	fs.IntVar(&f.Height, "height", 0, "window height")
	fs.IntVar(&f.Workers, "workers", 0, "CPU render workers (0 = one per CPU)")
	fs.BoolVar(&f.NoGPU, "nogpu", false, "do not provision the GPU tracer")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.Snapshot, "snapshot", "", "render one frame to this file and exit")
	return f
}

// Apply copies the flags that were set onto cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "scene":
			cfg.Scene.Path = f.Scene
		case "method":
			cfg.Render.Method = f.Method
		case "width":
			cfg.Window.Width = f.Width
		case "height":
			cfg.Window.Height = f.Height
		case "workers":
			cfg.Render.Workers = f.Workers
		case "nogpu":
			cfg.Render.GPU = !f.NoGPU
		case "debug":
			if f.Debug {
				cfg.Logging.Level = "debug"
			}
		}
	})
}
