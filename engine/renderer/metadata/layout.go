package metadata

/** @brief Element types an attribute can be declared with. */
type ElementType uint32

const (
	ElementTypeFloat32 ElementType = iota
)

func (t ElementType) Size() uint32 {
	if t == ElementTypeFloat32 {
		return 4
	}
	return 0
}

/** @brief One interleaved attribute. */
type VertexBufferElement struct {
	Type  ElementType
	Count uint32
}

/**
 * @brief Describes how raw vertex bytes map to attributes: attributes are
 * interleaved in declaration order and Stride is the byte size of one vertex.
 */
type VertexBufferLayout struct {
	Elements []VertexBufferElement
	Stride   uint32
}

func NewVertexBufferLayout() *VertexBufferLayout {
	return &VertexBufferLayout{}
}

// PushFloat32 declares the next attribute as count float32 components.
func (l *VertexBufferLayout) PushFloat32(count uint32) *VertexBufferLayout {
	return l.push(ElementTypeFloat32, count)
}

func (l *VertexBufferLayout) push(t ElementType, count uint32) *VertexBufferLayout {
	l.Elements = append(l.Elements, VertexBufferElement{Type: t, Count: count})
	l.Stride += count * t.Size()
	return l
}

// Offset returns the byte offset of attribute i inside one vertex.
func (l *VertexBufferLayout) Offset(i int) uint32 {
	offset := uint32(0)
	for _, e := range l.Elements[:i] {
		offset += e.Count * e.Type.Size()
	}
	return offset
}

// Vertex3DLayout is the position(3) normal(3) texcoord(2) float layout that
// matches math.Vertex3D.
func Vertex3DLayout() *VertexBufferLayout {
	return NewVertexBufferLayout().PushFloat32(3).PushFloat32(3).PushFloat32(2)
}
