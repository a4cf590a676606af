package core

import (
	"math"
	"testing"

	"github.com/gekko3d/svo/rt/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertVec(t *testing.T, want, got geom.Point3f) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tol, "component %d of %v", i, got)
	}
}

func TestTargetFollowsAngles(t *testing.T) {
	c := NewCameraState()
	assertVec(t, geom.Point3f{1, 0, 0}, c.Target)

	c.SetAngles(math.Pi/2, 0)
	assertVec(t, geom.Point3f{0, 1, 0}, c.Target)

	c.SetAngles(0, math.Pi/4)
	s := float32(math.Sqrt2 / 2)
	assertVec(t, geom.Point3f{s, 0, s}, c.Target)
	assert.InDelta(t, 1, geom.Length(c.Target), tol)
}

func TestVerticalAngleIsClamped(t *testing.T) {
	c := NewCameraState()
	c.Rotate(0, 10)
	assert.Less(t, c.Vertical, float32(math.Pi/2))
	assert.Greater(t, geom.Length(c.Right()), float32(0))
	c.Rotate(0, -20)
	assert.Greater(t, c.Vertical, float32(-math.Pi/2))
}

func TestMove(t *testing.T) {
	c := NewCameraState()
	c.Position = geom.Point3f{}

	c.Move(AxisForward, c.Step)
	assertVec(t, geom.Point3f{0.05, 0, 0}, c.Position)

	// right = target x up = (1,0,0) x (0,0,1)
	c.Move(AxisRight, c.Step)
	assertVec(t, geom.Point3f{0.05, -0.05, 0}, c.Position)

	c.Move(AxisUp, -c.Step)
	assertVec(t, geom.Point3f{0.05, -0.05, -0.05}, c.Position)

	c.Move(Axis(42), 1)
	assertVec(t, geom.Point3f{0.05, -0.05, -0.05}, c.Position)
}

func TestLookUsesSensitivity(t *testing.T) {
	c := NewCameraState()
	c.Look(100, -50)
	assert.InDelta(t, 0.1, c.Horizontal, tol)
	assert.InDelta(t, -0.05, c.Vertical, tol)
}

func TestCaptureLight(t *testing.T) {
	c := NewCameraState()
	c.Position = geom.Point3f{1, 2, 3}
	c.CaptureLight()
	require.True(t, c.HasLight)
	assertVec(t, geom.Point3f{2, 2, 3}, c.Light)
	assert.True(t, c.View().HasLight)
}

func TestViewBasisIsOrthonormal(t *testing.T) {
	c := NewCameraState()
	c.SetAngles(0.7, -0.3)
	v := c.View()
	for _, b := range []geom.Point3f{v.Target, v.Right, v.Up} {
		assert.InDelta(t, 1, geom.Length(b), tol)
	}
	assert.InDelta(t, 0, geom.Dot(v.Target, v.Right), tol)
	assert.InDelta(t, 0, geom.Dot(v.Target, v.Up), tol)
	assert.InDelta(t, 0, geom.Dot(v.Right, v.Up), tol)
	assert.Greater(t, v.Up[2], float32(0))
}

func TestRay(t *testing.T) {
	v := NewCameraState().View()

	// centre pixel of an odd-sized image looks straight ahead
	o, d := v.Ray(2, 2, 5, 5)
	assertVec(t, v.Position, o)
	assertVec(t, v.Target, d)

	// top-left pixel leans up and to the left
	_, d = v.Ray(0, 0, 5, 5)
	assert.InDelta(t, 1, geom.Length(d), tol)
	assert.Greater(t, geom.Dot(d, v.Up), float32(0))
	assert.Less(t, geom.Dot(d, v.Right), float32(0))

	// mirrored pixels are symmetric
	_, a := v.Ray(0, 2, 5, 5)
	_, b := v.Ray(4, 2, 5, 5)
	assert.InDelta(t, geom.Dot(a, v.Right), -geom.Dot(b, v.Right), tol)
}

func TestShade(t *testing.T) {
	c := NewCameraState()
	red := geom.Color4f{R: 1}
	assert.Equal(t, red, c.View().Shade(red, geom.Point3f{}, geom.Point3f{0, 0, 1}))

	c.Position = geom.Point3f{0, 0, 1}
	c.SetAngles(0, 0)
	c.CaptureLight() // light at (1,0,1)
	v := c.View()

	lit := v.Shade(red, geom.Point3f{1, 0, 0}, geom.Point3f{0, 0, 1})
	assert.InDelta(t, 1, lit.R, tol)

	dark := v.Shade(red, geom.Point3f{1, 0, 0}, geom.Point3f{0, 0, -1})
	assert.InDelta(t, 0.2, dark.R, tol)
}
