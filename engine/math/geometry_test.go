package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTriangleWinding(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{1, 0, 0}
	c := mgl32.Vec3{0, 1, 0}
	assert.InDelta(t, 1.0, TriangleWinding(a, b, c, mgl32.Vec3{0, 0, 1}), 1e-6)
	assert.InDelta(t, -1.0, TriangleWinding(a, b, c, mgl32.Vec3{0, 0, -1}), 1e-6)
	assert.InDelta(t, -1.0, TriangleWinding(a, c, b, mgl32.Vec3{0, 0, 1}), 1e-6)
}

func TestGeometryComputeExtents(t *testing.T) {
	verts := []Vertex3D{
		{Position: mgl32.Vec3{-1, 2, 0}},
		{Position: mgl32.Vec3{3, -2, 1}},
		{Position: mgl32.Vec3{0, 0, -5}},
	}
	ext, center := GeometryComputeExtents(verts)
	assert.Equal(t, mgl32.Vec3{-1, -2, -5}, ext.Min)
	assert.Equal(t, mgl32.Vec3{3, 2, 1}, ext.Max)
	assert.Equal(t, mgl32.Vec3{1, 0, -2}, center)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(5, -1, 1))
	assert.Equal(t, float32(-0.5), Clamp(float32(-2), -0.5, 0.5))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
}
