package systems

import (
	stdmath "math"
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/math"
	"github.com/spaghettifunk/primitives/engine/renderer"
	"github.com/spaghettifunk/primitives/engine/renderer/headless"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func assertIndicesInRange(t *testing.T, config *metadata.GeometryConfig) {
	t.Helper()
	require.Zero(t, len(config.Indices)%3)
	for _, idx := range config.Indices {
		require.Less(t, idx, config.VertexCount())
	}
}

// assertOutwardWinding checks that every non-degenerate triangle turns
// counter-clockwise when seen from the side its vertex normals point to.
func assertOutwardWinding(t *testing.T, config *metadata.GeometryConfig) {
	t.Helper()
	for k := 0; k < len(config.Indices); k += 3 {
		a := config.Vertices[config.Indices[k]]
		b := config.Vertices[config.Indices[k+1]]
		c := config.Vertices[config.Indices[k+2]]
		if math.TriangleNormal(a.Position, b.Position, c.Position).Len() < 1e-6 {
			continue
		}
		reference := a.Normal.Add(b.Normal).Add(c.Normal)
		w := math.TriangleWinding(a.Position, b.Position, c.Position, reference)
		require.Greater(t, w, float32(0), "%s triangle %d is clockwise", config.Name, k/3)
	}
}

func TestCreatePlane(t *testing.T) {
	for _, d := range []uint32{2, 3, 10} {
		config, err := CreatePlane(d)
		require.NoError(t, err)
		assert.Equal(t, "plane-"+strconv.Itoa(int(d)), config.Name)
		assert.Equal(t, d*d, config.VertexCount())
		assert.Equal(t, 6*(d-1)*(d-1), config.IndexCount())
		assertIndicesInRange(t, config)
		assertOutwardWinding(t, config)

		for _, v := range config.Vertices {
			assert.Zero(t, v.Position.Z())
			assert.Equal(t, mgl32.Vec3{0, 0, -1}, v.Normal)
			assert.InDelta(t, v.Position.X()+0.5, v.Texcoord.X(), tolerance)
			assert.InDelta(t, v.Position.Y()+0.5, v.Texcoord.Y(), tolerance)
		}
		assert.True(t, config.Extents.Min.ApproxEqualThreshold(mgl32.Vec3{-0.5, -0.5, 0}, tolerance))
		assert.True(t, config.Extents.Max.ApproxEqualThreshold(mgl32.Vec3{0.5, 0.5, 0}, tolerance))
	}
}

func TestCreatePlaneSmallest(t *testing.T) {
	config, err := CreatePlane(2)
	require.NoError(t, err)

	corners := []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {-0.5, 0.5, 0}, {0.5, 0.5, 0}}
	for i, c := range corners {
		assert.True(t, c.ApproxEqual(config.Vertices[i].Position), "vertex %d: %v", i, config.Vertices[i].Position)
	}
	assert.Equal(t, []uint32{0, 2, 3, 0, 3, 1}, config.Indices)
}

func TestCreateSphere(t *testing.T) {
	for _, n := range []uint32{3, 4, 7, 32} {
		config, err := CreateSphere(n)
		require.NoError(t, err)
		parallels := n / 2
		assert.Equal(t, (parallels+1)*(n+1), config.VertexCount())
		assert.Equal(t, 6*parallels*n, config.IndexCount())
		assertIndicesInRange(t, config)
		assertOutwardWinding(t, config)

		for _, v := range config.Vertices {
			assert.InDelta(t, 1.0, v.Position.Len(), tolerance)
			assert.True(t, v.Position.ApproxEqualThreshold(v.Normal, tolerance))
			assert.GreaterOrEqual(t, v.Texcoord.X(), float32(0))
			assert.LessOrEqual(t, v.Texcoord.X(), float32(1))
			assert.GreaterOrEqual(t, v.Texcoord.Y(), float32(0))
			assert.LessOrEqual(t, v.Texcoord.Y(), float32(1))
		}
		// both poles are reached for odd slice counts too
		assert.InDelta(t, 1.0, config.Vertices[0].Position.Y(), tolerance)
		assert.InDelta(t, -1.0, config.Vertices[len(config.Vertices)-1].Position.Y(), tolerance)
	}
}

func TestCreateSphereCenterAndExtents(t *testing.T) {
	config, err := CreateSphere(32)
	require.NoError(t, err)
	assert.True(t, config.Center.ApproxEqualThreshold(mgl32.Vec3{}, tolerance))
	assert.InDelta(t, -1.0, config.Extents.Min.Y(), tolerance)
	assert.InDelta(t, 1.0, config.Extents.Max.Y(), tolerance)
}

func TestCreateCone(t *testing.T) {
	for _, n := range []uint32{3, 8, 24} {
		config, err := CreateCone(n)
		require.NoError(t, err)
		assert.Equal(t, (n+1)*(n+1)+1, config.VertexCount())
		assert.Equal(t, 6*n*n, config.IndexCount())
		assertIndicesInRange(t, config)
		assertOutwardWinding(t, config)

		for _, v := range config.Vertices {
			assert.InDelta(t, 1.0, v.Normal.Len(), tolerance)
			assert.False(t, stdmath.IsNaN(float64(v.Normal.X())))
			r := mgl32.Vec2{v.Position.X(), v.Position.Z()}.Len()
			assert.LessOrEqual(t, r, float32(0.5+tolerance))
		}

		apex := config.Vertices[0]
		assert.True(t, apex.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0.5, 0}, tolerance))
		capCentre := config.Vertices[config.VertexCount()-1]
		assert.Equal(t, mgl32.Vec3{0, -0.5, 0}, capCentre.Position)
		assert.Equal(t, mgl32.Vec3{0, -1, 0}, capCentre.Normal)
	}
}

func TestCreateCube(t *testing.T) {
	config := CreateCube()
	assert.Equal(t, uint32(24), config.VertexCount())
	assert.Equal(t, uint32(36), config.IndexCount())
	assertIndicesInRange(t, config)
	assertOutwardWinding(t, config)

	normals := map[mgl32.Vec3]int{}
	for _, v := range config.Vertices {
		normals[v.Normal]++
		// flat faces: each vertex lies on the face its normal names
		assert.InDelta(t, 0.5, v.Position.Dot(v.Normal), tolerance)
	}
	assert.Len(t, normals, 6)
	for n, count := range normals {
		assert.Equal(t, 4, count, "normal %v", n)
	}
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, config.Extents.Min)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, config.Extents.Max)
}

func TestGeneratorsRejectInvalidParameters(t *testing.T) {
	_, err := CreatePlane(1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = CreateSphere(2)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = CreateCone(0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestGeneratorsUseVertex3DLayout(t *testing.T) {
	plane, err := CreatePlane(4)
	require.NoError(t, err)
	sphere, err := CreateSphere(8)
	require.NoError(t, err)
	cone, err := CreateCone(8)
	require.NoError(t, err)

	for _, config := range []*metadata.GeometryConfig{plane, sphere, cone, CreateCube()} {
		assert.Equal(t, metadata.Vertex3DLayout(), config.Layout, config.Name)
		assert.Len(t, config.VertexBytes(), len(config.Vertices)*math.Vertex3DSize)
	}
}

func newTestGeometrySystem(t *testing.T, max uint32) (*GeometrySystem, *headless.Backend) {
	t.Helper()
	b := headless.New()
	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: max}, renderer.NewWithBackend(b))
	require.NoError(t, err)
	return gs, b
}

func TestGeometrySystemSharesShapesByName(t *testing.T) {
	gs, b := newTestGeometrySystem(t, 4)

	first, err := gs.AcquireFromConfig(CreateCube(), true)
	require.NoError(t, err)
	second, err := gs.AcquireFromConfig(CreateCube(), true)
	require.NoError(t, err)
	third, err := gs.Acquire(CubeGeometryName)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, third)
	assert.Equal(t, uint64(3), gs.ReferenceCount(CubeGeometryName))
	assert.Equal(t, 3, b.LiveObjects())

	gs.Release(CubeGeometryName)
	gs.Release(CubeGeometryName)
	assert.Equal(t, 3, b.LiveObjects())
	gs.Release(CubeGeometryName)
	assert.Equal(t, 0, b.LiveObjects())
	assert.Zero(t, gs.ReferenceCount(CubeGeometryName))

	_, err = gs.Acquire(CubeGeometryName)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestGeometrySystemSeparatesResolutions(t *testing.T) {
	gs, b := newTestGeometrySystem(t, 4)

	coarse, err := CreateSphere(8)
	require.NoError(t, err)
	fine, err := CreateSphere(32)
	require.NoError(t, err)
	assert.Equal(t, "sphere-8", coarse.Name)
	assert.Equal(t, "sphere-32", fine.Name)

	first, err := gs.AcquireFromConfig(coarse, true)
	require.NoError(t, err)
	second, err := gs.AcquireFromConfig(fine, true)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, fine.IndexCount(), second.IndexCount())
	assert.Equal(t, 6, b.LiveObjects())
}

func TestGeometrySystemRejectsMismatchedConfig(t *testing.T) {
	gs, b := newTestGeometrySystem(t, 4)

	coarse, err := CreateSphere(8)
	require.NoError(t, err)
	fine, err := CreateSphere(32)
	require.NoError(t, err)
	fine.Name = coarse.Name

	_, err = gs.AcquireFromConfig(coarse, true)
	require.NoError(t, err)
	_, err = gs.AcquireFromConfig(fine, true)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.Equal(t, uint64(1), gs.ReferenceCount(coarse.Name))
	assert.Equal(t, 3, b.LiveObjects())
}

func TestGeometrySystemKeepsManualShapes(t *testing.T) {
	gs, b := newTestGeometrySystem(t, 4)
	config, err := CreateSphere(16)
	require.NoError(t, err)

	_, err = gs.AcquireFromConfig(config, false)
	require.NoError(t, err)
	gs.Release(config.Name)
	assert.Equal(t, 3, b.LiveObjects())

	require.NoError(t, gs.Shutdown())
	assert.Equal(t, 0, b.LiveObjects())
}

func TestGeometrySystemLimits(t *testing.T) {
	_, err := NewGeometrySystem(&GeometrySystemConfig{}, renderer.NewWithBackend(headless.New()))
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	gs, b := newTestGeometrySystem(t, 1)
	_, err = gs.AcquireFromConfig(CreateCube(), true)
	require.NoError(t, err)
	plane, err := CreatePlane(2)
	require.NoError(t, err)
	_, err = gs.AcquireFromConfig(plane, true)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	require.NoError(t, gs.Shutdown())
	assert.Equal(t, 0, b.LiveObjects())
}

func TestGeometrySystemDriverRefusal(t *testing.T) {
	gs, b := newTestGeometrySystem(t, 2)
	b.RefuseCreate["index buffer"] = true

	_, err := gs.AcquireFromConfig(CreateCube(), true)
	assert.ErrorIs(t, err, core.ErrResourceCreation)
	assert.Zero(t, gs.ReferenceCount(CubeGeometryName))
	assert.Equal(t, 0, b.LiveObjects())
}
