package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/**
 * @brief Represents the configuration for a geometry: the generated mesh
 * (vertex sequence + index sequence) and the layout describing the vertices.
 * It is consumed by shape creation and not retained afterwards.
 */
type GeometryConfig struct {
	/** @brief An array of Vertices. */
	Vertices []math.Vertex3D
	/** @brief An array of Indices. Consecutive triples form counter-clockwise triangles. */
	Indices []uint32
	/** @brief Attribute layout of Vertices. */
	Layout *VertexBufferLayout

	Center  mgl32.Vec3
	Extents math.Extents3D

	/** @brief The Name of the geometry. */
	Name string
}

func (c *GeometryConfig) VertexCount() uint32 {
	return uint32(len(c.Vertices))
}

func (c *GeometryConfig) IndexCount() uint32 {
	return uint32(len(c.Indices))
}

// VertexBytes returns the interleaved vertex payload without copying.
func (c *GeometryConfig) VertexBytes() []byte {
	if len(c.Vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.Vertices[0])), len(c.Vertices)*math.Vertex3DSize)
}

// IndexBytes returns the index payload without copying.
func (c *GeometryConfig) IndexBytes() []byte {
	if len(c.Indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.Indices[0])), len(c.Indices)*4)
}
