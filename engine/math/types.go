package math

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min mgl32.Vec3
	/** @brief The maximum extents of the object. */
	Max mgl32.Vec3
}

/**
 * @brief Represents a single vertex in 3D space.
 * The field order is the interleaved attribute order uploaded to the GPU
 * (position, normal, texcoord), with no padding between fields.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position mgl32.Vec3
	/** @brief The normal of the vertex. */
	Normal mgl32.Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord mgl32.Vec2
}

// Vertex3DSize is the byte size of one interleaved Vertex3D.
const Vertex3DSize = 8 * 4

func NewVertex3D(position, normal mgl32.Vec3, texcoord mgl32.Vec2) Vertex3D {
	return Vertex3D{Position: position, Normal: normal, Texcoord: texcoord}
}
