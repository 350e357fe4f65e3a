package renderer

import (
	"sync"

	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/math"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

// Shape owns the GPU-resident copy of one generated mesh: a vertex buffer, an
// index buffer and the vertex array tying the vertex buffer to its layout.
// The geometry is fixed at construction, so a Shape can be drawn by any
// number of scene objects.
type Shape struct {
	ID      core.Identifier
	Name    string
	Extents math.Extents3D

	vertexArray  *VertexArray
	vertexBuffer *VertexBuffer
	indexBuffer  *IndexBuffer

	destroyOnce sync.Once
}

// NewShape uploads config to the GPU. Either every object is created or none
// survives: a driver refusal destroys what was already created and returns a
// *core.ResourceCreationError.
func NewShape(backend RendererBackend, config *metadata.GeometryConfig) (*Shape, error) {
	layout := config.Layout
	if layout == nil {
		layout = metadata.Vertex3DLayout()
	}

	shape := &Shape{
		ID:      core.NewIdentifier(),
		Name:    config.Name,
		Extents: config.Extents,
	}

	shape.vertexArray = newVertexArray(backend)
	if shape.vertexArray == nil {
		return nil, shape.fail("vertex array")
	}

	shape.vertexBuffer = newVertexBuffer(backend, config.VertexBytes())
	if shape.vertexBuffer == nil {
		return nil, shape.fail(metadata.BufferTargetVertex.String())
	}
	shape.vertexArray.AddBuffer(shape.vertexBuffer, layout)

	shape.indexBuffer = newIndexBuffer(backend, config.IndexBytes(), config.IndexCount())
	if shape.indexBuffer == nil {
		return nil, shape.fail(metadata.BufferTargetIndex.String())
	}

	// Leave the context with nothing bound so later buffer binds cannot
	// modify this shape's vertex array state.
	shape.vertexArray.Unbind()
	shape.indexBuffer.Unbind()
	shape.vertexBuffer.Unbind()

	core.LogDebug("shape '%s' (%s) created: %d vertices, %d indices", shape.Name, shape.ID.Short(), config.VertexCount(), config.IndexCount())
	return shape, nil
}

func (s *Shape) fail(resource string) error {
	err := &core.ResourceCreationError{Resource: resource, Owner: s.Name}
	core.LogError(err.Error())
	s.Destroy()
	return err
}

func (s *Shape) VertexArray() *VertexArray {
	return s.vertexArray
}

func (s *Shape) VertexBuffer() *VertexBuffer {
	return s.vertexBuffer
}

func (s *Shape) IndexBuffer() *IndexBuffer {
	return s.indexBuffer
}

func (s *Shape) IndexCount() uint32 {
	if s.indexBuffer == nil {
		return 0
	}
	return s.indexBuffer.Count
}

// Bind makes this shape's vertex array and index buffer current. Like a
// program bind, it holds until the next vertex array bind.
func (s *Shape) Bind() {
	s.vertexArray.Bind()
	s.indexBuffer.Bind()
}

func (s *Shape) Unbind() {
	s.vertexArray.Unbind()
}

// Destroy releases the GPU objects. Calling it again is a no-op.
func (s *Shape) Destroy() {
	s.destroyOnce.Do(func() {
		if s.indexBuffer != nil {
			s.indexBuffer.destroy()
		}
		if s.vertexBuffer != nil {
			s.vertexBuffer.destroy()
		}
		if s.vertexArray != nil {
			s.vertexArray.destroy()
		}
	})
}
