package app

import (
	"testing"

	svo "github.com/gekko3d/svo"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestActionFor(t *testing.T) {
	assert.Equal(t, svo.MoveForward, ActionFor(DefaultKeymap, glfw.KeyW, glfw.Press))
	assert.Equal(t, svo.MoveForward, ActionFor(DefaultKeymap, glfw.KeyW, glfw.Repeat))
	assert.Equal(t, svo.ActionNone, ActionFor(DefaultKeymap, glfw.KeyW, glfw.Release))
	assert.Equal(t, svo.CycleMethod, ActionFor(DefaultKeymap, glfw.KeyP, glfw.Press))
	assert.Equal(t, svo.ActionNone, ActionFor(DefaultKeymap, glfw.KeyP, glfw.Repeat))
	assert.Equal(t, svo.ActionNone, ActionFor(DefaultKeymap, glfw.KeyX, glfw.Press))
}

func TestKeymapCoversControls(t *testing.T) {
	want := map[glfw.Key]svo.Action{
		glfw.KeyA: svo.MoveLeft, glfw.KeyD: svo.MoveRight,
		glfw.KeyQ: svo.MoveUp, glfw.KeyZ: svo.MoveDown,
		glfw.KeyI: svo.LookUp, glfw.KeyK: svo.LookDown,
		glfw.KeyJ: svo.TurnLeft, glfw.KeyL: svo.TurnRight,
		glfw.KeyM: svo.CaptureLight, glfw.KeyEscape: svo.Quit,
	}
	for k, a := range want {
		assert.Equal(t, a, DefaultKeymap[k], "key %d", k)
	}
}

func TestDrag(t *testing.T) {
	var d Drag
	_, _, ok := d.Move(10, 10)
	assert.False(t, ok)

	d.Button(true)
	_, _, ok = d.Move(10, 10)
	assert.False(t, ok, "first sample only records the position")
	dx, dy, ok := d.Move(13, 8)
	assert.True(t, ok)
	assert.Equal(t, 3.0, dx)
	assert.Equal(t, -2.0, dy)

	d.Button(false)
	_, _, ok = d.Move(20, 20)
	assert.False(t, ok)
}
