package metadata

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestVertex3DLayoutMatchesVertexStruct(t *testing.T) {
	l := Vertex3DLayout()
	assert.Len(t, l.Elements, 3)
	assert.Equal(t, uint32(math.Vertex3DSize), l.Stride)
	assert.Equal(t, uint32(0), l.Offset(0))
	assert.Equal(t, uint32(12), l.Offset(1))
	assert.Equal(t, uint32(24), l.Offset(2))
	assert.Equal(t, []uint32{3, 3, 2}, []uint32{l.Elements[0].Count, l.Elements[1].Count, l.Elements[2].Count})
}

func TestGeometryConfigBytes(t *testing.T) {
	cfg := &GeometryConfig{
		Vertices: []math.Vertex3D{
			math.NewVertex3D(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 1}, mgl32.Vec2{0.5, 1}),
			{},
		},
		Indices: []uint32{0, 1, 0},
	}
	assert.Len(t, cfg.VertexBytes(), 2*math.Vertex3DSize)
	assert.Len(t, cfg.IndexBytes(), 12)
	assert.Nil(t, (&GeometryConfig{}).VertexBytes())
}

func TestShaderStageNames(t *testing.T) {
	s, err := ShaderStageFromString("fragment")
	assert.NoError(t, err)
	assert.Equal(t, ShaderStageFragment, s)
	assert.Equal(t, "vertex", ShaderStageVertex.String())
	_, err = ShaderStageFromString("geometry")
	assert.Error(t, err)
}

func TestShaderConfigKeyIncludesLightCounts(t *testing.T) {
	a := ShaderConfig{Path: "lit.shader", PointLights: 1, SpotLights: 2}
	b := ShaderConfig{Path: "lit.shader", PointLights: 4, SpotLights: 2}
	assert.NotEqual(t, a.Key(), b.Key())
}
