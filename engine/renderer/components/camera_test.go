package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraViewMovesWorldOppositeToCamera(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{0, 0, 5})

	origin := c.GetView().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, origin.ApproxEqual(mgl32.Vec3{0, 0, -5}), "%v", origin)
	assert.False(t, c.IsDirty)
}

func TestCameraYawTurnsForward(t *testing.T) {
	c := NewCamera()
	assert.True(t, c.Forward().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5))

	c.Yaw(mgl32.DegToRad(90))
	assert.True(t, c.Forward().ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5), "%v", c.Forward())

	c.MoveForward(2)
	assert.True(t, c.GetPosition().ApproxEqualThreshold(mgl32.Vec3{-2, 0, 0}, 1e-5))
}

func TestCameraPitchIsClamped(t *testing.T) {
	c := NewCamera()
	c.Pitch(10)
	assert.InDelta(t, pitchLimit, c.GetEulerRotation().X(), 1e-6)
	c.Pitch(-20)
	assert.InDelta(t, -pitchLimit, c.GetEulerRotation().X(), 1e-6)
}

func TestCameraProjectionHandlesEmptyFramebuffer(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, c.GetProjection(1, 1), c.GetProjection(0, 0))
	assert.NotEqual(t, c.GetProjection(1, 1), c.GetProjection(1920, 1080))
}
