package core

import (
	"fmt"
	"math"

	"github.com/gekko3d/svo/rt/geom"
)

const (
	DefaultStep        = 0.05
	DefaultAngleStep   = 0.05
	DefaultSensitivity = 0.001
	DefaultFOV         = math.Pi / 3

	// keeps target and up from becoming parallel
	maxVertical = math.Pi/2 - 0.01
)

// Axis selects the direction a camera Move happens along.
type Axis int

const (
	AxisForward Axis = iota // along the view target
	AxisRight               // along target x up
	AxisUp                  // along the fixed up vector
)

// CameraState is the free-fly camera: a position and two angles. Target is
// derived from the angles and is refreshed whenever they change.
type CameraState struct {
	Position   geom.Point3f
	Horizontal float32
	Vertical   float32
	Target     geom.Point3f
	Up         geom.Point3f

	Light    geom.Point3f
	HasLight bool

	FOV         float32
	Step        float32
	AngleStep   float32
	Sensitivity float32
}

func NewCameraState() *CameraState {
	c := &CameraState{
		Position:    geom.Point3f{-1.5, 0.5, 0.5},
		Up:          geom.Point3f{0, 0, 1},
		FOV:         DefaultFOV,
		Step:        DefaultStep,
		AngleStep:   DefaultAngleStep,
		Sensitivity: DefaultSensitivity,
	}
	c.updateTarget()
	return c
}

func (c *CameraState) updateTarget() {
	if c.Vertical > maxVertical {
		c.Vertical = maxVertical
	} else if c.Vertical < -maxVertical {
		c.Vertical = -maxVertical
	}
	h := float64(c.Horizontal)
	v := float64(c.Vertical)
	c.Target = geom.Point3f{
		float32(math.Cos(h) * math.Cos(v)),
		float32(math.Sin(h) * math.Cos(v)),
		float32(math.Sin(v)),
	}
}

// SetAngles replaces both angles and refreshes the target.
func (c *CameraState) SetAngles(horizontal, vertical float32) {
	c.Horizontal = horizontal
	c.Vertical = vertical
	c.updateTarget()
}

// Right is recomputed from the current target on every call.
func (c *CameraState) Right() geom.Point3f {
	return geom.VectMul(c.Target, c.Up)
}

// Move shifts the position by k units along axis.
func (c *CameraState) Move(axis Axis, k float32) {
	var dir geom.Point3f
	switch axis {
	case AxisForward:
		dir = c.Target
	case AxisRight:
		dir = c.Right()
	case AxisUp:
		dir = c.Up
	default:
		return
	}
	c.Position = geom.VectMulScalar(c.Position, dir, k)
}

// Rotate adds dh and dv radians to the horizontal and vertical angle.
func (c *CameraState) Rotate(dh, dv float32) {
	c.Horizontal += dh
	c.Vertical += dv
	c.updateTarget()
}

// Look applies a mouse delta in pixels.
func (c *CameraState) Look(dx, dy float64) {
	c.Rotate(float32(dx*float64(c.Sensitivity)), float32(dy*float64(c.Sensitivity)))
}

// CaptureLight places the light one unit in front of the camera.
func (c *CameraState) CaptureLight() {
	c.Light = geom.VectMulScalar(c.Position, c.Target, 1)
	c.HasLight = true
}

func (c *CameraState) Status() string {
	return fmt.Sprintf("camera (%.3f, %.3f, %.3f) angles h=%.3f v=%.3f target (%.3f, %.3f, %.3f)",
		c.Position[0], c.Position[1], c.Position[2],
		c.Horizontal, c.Vertical,
		c.Target[0], c.Target[1], c.Target[2])
}

// View freezes the camera for one frame.
func (c *CameraState) View() View {
	right := geom.VectNormalize(c.Right())
	return View{
		Position: c.Position,
		Target:   c.Target,
		Right:    right,
		Up:       geom.VectMul(right, c.Target),
		Light:    c.Light,
		HasLight: c.HasLight,
		FOV:      c.FOV,
	}
}
