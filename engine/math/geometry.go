package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TriangleNormal returns the unnormalized face normal (b-a)x(c-a). Its
// length is twice the triangle area.
func TriangleNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// TriangleWinding returns the signed doubled area of the triangle projected
// along reference. Positive means counter-clockwise seen from the side the
// reference points to.
func TriangleWinding(a, b, c, reference mgl32.Vec3) float32 {
	return TriangleNormal(a, b, c).Dot(reference)
}

// GeometryComputeExtents returns the axis-aligned bounds and their center.
func GeometryComputeExtents(vertices []Vertex3D) (Extents3D, mgl32.Vec3) {
	if len(vertices) == 0 {
		return Extents3D{}, mgl32.Vec3{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			ext.Min[axis] = min(ext.Min[axis], v.Position[axis])
			ext.Max[axis] = max(ext.Max[axis], v.Position[axis])
		}
	}
	center := ext.Min.Add(ext.Max).Mul(0.5)
	return ext, center
}
