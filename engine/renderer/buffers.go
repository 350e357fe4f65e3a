package renderer

import (
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

// VertexBuffer is a GPU copy of an interleaved vertex payload.
type VertexBuffer struct {
	backend RendererBackend
	ID      uint32
	Size    uint32
}

func newVertexBuffer(backend RendererBackend, data []byte) *VertexBuffer {
	id := backend.BufferCreate(metadata.BufferTargetVertex, data)
	if id == 0 {
		return nil
	}
	return &VertexBuffer{backend: backend, ID: id, Size: uint32(len(data))}
}

func (vb *VertexBuffer) Bind() {
	vb.backend.BufferBind(metadata.BufferTargetVertex, vb.ID)
}

func (vb *VertexBuffer) Unbind() {
	vb.backend.BufferBind(metadata.BufferTargetVertex, 0)
}

func (vb *VertexBuffer) destroy() {
	vb.backend.BufferDestroy(vb.ID)
	vb.ID = 0
}

// IndexBuffer is a GPU copy of a uint32 index sequence.
type IndexBuffer struct {
	backend RendererBackend
	ID      uint32
	Count   uint32
}

func newIndexBuffer(backend RendererBackend, data []byte, count uint32) *IndexBuffer {
	id := backend.BufferCreate(metadata.BufferTargetIndex, data)
	if id == 0 {
		return nil
	}
	return &IndexBuffer{backend: backend, ID: id, Count: count}
}

func (ib *IndexBuffer) Bind() {
	ib.backend.BufferBind(metadata.BufferTargetIndex, ib.ID)
}

func (ib *IndexBuffer) Unbind() {
	ib.backend.BufferBind(metadata.BufferTargetIndex, 0)
}

func (ib *IndexBuffer) destroy() {
	ib.backend.BufferDestroy(ib.ID)
	ib.ID = 0
}

// VertexArray binds vertex buffers to their attribute layouts.
type VertexArray struct {
	backend RendererBackend
	ID      uint32
}

func newVertexArray(backend RendererBackend) *VertexArray {
	id := backend.VertexArrayCreate()
	if id == 0 {
		return nil
	}
	return &VertexArray{backend: backend, ID: id}
}

func (va *VertexArray) AddBuffer(vb *VertexBuffer, layout *metadata.VertexBufferLayout) {
	va.backend.VertexArrayAddBuffer(va.ID, vb.ID, layout)
}

func (va *VertexArray) Bind() {
	va.backend.VertexArrayBind(va.ID)
}

func (va *VertexArray) Unbind() {
	va.backend.VertexArrayBind(0)
}

func (va *VertexArray) destroy() {
	va.backend.VertexArrayDestroy(va.ID)
	va.ID = 0
}
