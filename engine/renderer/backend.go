package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

// RendererBackend is the boundary to the graphics driver. Every call mutates
// or queries the one process-wide graphics context and must happen on the
// render thread. Handles are driver object names; 0 is never a valid handle
// and is what the Create functions return when the driver refuses.
type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32)
	BeginFrame(clearColour mgl32.Vec4)
	EndFrame()

	ShaderStageCreate(stage metadata.ShaderStage) uint32
	ShaderStageCompile(handle uint32, source string) bool
	ShaderStageInfoLog(handle uint32) string
	ShaderStageDestroy(handle uint32)

	ProgramCreate() uint32
	ProgramLink(program uint32, stages ...uint32) bool
	ProgramInfoLog(program uint32) string
	ProgramDestroy(program uint32)
	// ProgramUse makes program the active one; 0 clears it. The active program
	// is context state: it stays active until the next ProgramUse call.
	ProgramUse(program uint32)
	BoundProgram() uint32
	ProgramUniformLocation(program uint32, name string) int32

	// Uniform writes target the active program.
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix2f(location int32, m mgl32.Mat2)
	UniformMatrix3f(location int32, m mgl32.Mat3)
	UniformMatrix4f(location int32, m mgl32.Mat4)

	BufferCreate(target metadata.BufferTarget, data []byte) uint32
	BufferBind(target metadata.BufferTarget, buffer uint32)
	BufferDestroy(buffer uint32)

	VertexArrayCreate() uint32
	VertexArrayBind(vertexArray uint32)
	VertexArrayAddBuffer(vertexArray, buffer uint32, layout *metadata.VertexBufferLayout)
	VertexArrayDestroy(vertexArray uint32)

	// DrawIndexed draws indexCount uint32 indices from the bound index buffer
	// using the bound vertex array and active program.
	DrawIndexed(indexCount uint32)
}
