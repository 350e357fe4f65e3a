package metadata

/** @brief Buffer binding points used by the backend. */
type BufferTarget int

const (
	BufferTargetVertex BufferTarget = iota
	BufferTargetIndex
)

func (t BufferTarget) String() string {
	if t == BufferTargetIndex {
		return "index buffer"
	}
	return "vertex buffer"
}
