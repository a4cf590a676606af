package app

import (
	svo "github.com/gekko3d/svo"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// DefaultKeymap binds the viewer keys.
var DefaultKeymap = map[glfw.Key]svo.Action{
	glfw.KeyW:      svo.MoveForward,
	glfw.KeyS:      svo.MoveBack,
	glfw.KeyA:      svo.MoveLeft,
	glfw.KeyD:      svo.MoveRight,
	glfw.KeyQ:      svo.MoveUp,
	glfw.KeyZ:      svo.MoveDown,
	glfw.KeyI:      svo.LookUp,
	glfw.KeyK:      svo.LookDown,
	glfw.KeyJ:      svo.TurnLeft,
	glfw.KeyL:      svo.TurnRight,
	glfw.KeyM:      svo.CaptureLight,
	glfw.KeyP:      svo.CycleMethod,
	glfw.KeyF12:    svo.TakeSnapshot,
	glfw.KeyEscape: svo.Quit,
}

// oneShot actions ignore key repeat.
func oneShot(a svo.Action) bool {
	switch a {
	case svo.CaptureLight, svo.CycleMethod, svo.TakeSnapshot, svo.Quit:
		return true
	}
	return false
}

// ActionFor maps a key event to an action, ActionNone when unbound.
func ActionFor(keymap map[glfw.Key]svo.Action, key glfw.Key, action glfw.Action) svo.Action {
	a, ok := keymap[key]
	if !ok || action == glfw.Release {
		return svo.ActionNone
	}
	if action == glfw.Repeat && oneShot(a) {
		return svo.ActionNone
	}
	return a
}

// Drag accumulates cursor movement while the left button is held.
type Drag struct {
	active     bool
	lastX      float64
	lastY      float64
	hasLastPos bool
}

func (d *Drag) Button(pressed bool) {
	d.active = pressed
	d.hasLastPos = false
}

// Move returns the delta since the previous position, or ok=false when
// no drag is in progress.
func (d *Drag) Move(x, y float64) (dx, dy float64, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	if !d.hasLastPos {
		d.lastX, d.lastY, d.hasLastPos = x, y, true
		return 0, 0, false
	}
	dx, dy = x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return dx, dy, true
}

// Bind wires the window callbacks to c. Errors from actions go to onErr.
func Bind(w *glfw.Window, c *svo.Context, keymap map[glfw.Key]svo.Action, onErr func(error)) {
	drag := &Drag{}
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		a := ActionFor(keymap, key, action)
		if a == svo.ActionNone {
			return
		}
		quit, err := c.Handle(a)
		if err != nil && onErr != nil {
			onErr(err)
		}
		if quit {
			w.SetShouldClose(true)
		}
	})
	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			drag.Button(action == glfw.Press)
		}
	})
	w.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if dx, dy, ok := drag.Move(xpos, ypos); ok {
			c.Look(dx, dy)
		}
	})
}
