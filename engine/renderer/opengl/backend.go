// Package opengl implements the renderer backend on an OpenGL 4.1 core
// context. All functions must be called from the thread owning the context.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

const maxPendingErrors = 32

type Backend struct {
	width  uint32
	height uint32
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	core.LogInfo("OpenGL %s (%s) for '%s'", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)), appName)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	b.Resized(appWidth, appHeight)
	return nil
}

func (b *Backend) Shutdown() error {
	gl.UseProgram(0)
	gl.BindVertexArray(0)
	return nil
}

func (b *Backend) Resized(width, height uint32) {
	b.width, b.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *Backend) BeginFrame(clearColour mgl32.Vec4) {
	gl.ClearColor(clearColour[0], clearColour[1], clearColour[2], clearColour[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) EndFrame() {
	if n := drainErrors(gl.GetError); n > 0 {
		core.LogWarn("%d OpenGL errors during frame", n)
	}
}

func shaderType(stage metadata.ShaderStage) uint32 {
	switch stage {
	case metadata.ShaderStageVertex:
		return gl.VERTEX_SHADER
	case metadata.ShaderStageFragment:
		return gl.FRAGMENT_SHADER
	}
	return 0
}

func (b *Backend) ShaderStageCreate(stage metadata.ShaderStage) uint32 {
	t := shaderType(stage)
	if t == 0 {
		return 0
	}
	return gl.CreateShader(t)
}

func (b *Backend) ShaderStageCompile(handle uint32, source string) bool {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (b *Backend) ShaderStageInfoLog(handle uint32) string {
	var logLength int32
	gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (b *Backend) ShaderStageDestroy(handle uint32) {
	if handle != 0 {
		gl.DeleteShader(handle)
	}
}

func (b *Backend) ProgramCreate() uint32 {
	return gl.CreateProgram()
}

func (b *Backend) ProgramLink(program uint32, stages ...uint32) bool {
	for _, s := range stages {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range stages {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (b *Backend) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (b *Backend) ProgramDestroy(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}

func (b *Backend) ProgramUse(program uint32) {
	gl.UseProgram(program)
}

func (b *Backend) BoundProgram() uint32 {
	var program int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &program)
	return uint32(program)
}

func (b *Backend) ProgramUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (b *Backend) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *Backend) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *Backend) Uniform2f(location int32, v0, v1 float32) {
	gl.Uniform2f(location, v0, v1)
}

func (b *Backend) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

func (b *Backend) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

// mgl32 matrices are column-major like GLSL, so no transpose.
func (b *Backend) UniformMatrix2f(location int32, m mgl32.Mat2) {
	gl.UniformMatrix2fv(location, 1, false, &m[0])
}

func (b *Backend) UniformMatrix3f(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (b *Backend) UniformMatrix4f(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func bufferTarget(target metadata.BufferTarget) uint32 {
	if target == metadata.BufferTargetIndex {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (b *Backend) BufferCreate(target metadata.BufferTarget, data []byte) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0
	}
	t := bufferTarget(target)
	gl.BindBuffer(t, id)
	// errors left by earlier calls must not be taken for a failed upload
	if n := drainErrors(gl.GetError); n > 0 {
		core.LogWarn("discarded %d pending OpenGL errors before uploading a %s", n, target)
	}
	if len(data) > 0 {
		gl.BufferData(t, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(t, 0, nil, gl.STATIC_DRAW)
	}
	if code := gl.GetError(); code == gl.OUT_OF_MEMORY {
		gl.DeleteBuffers(1, &id)
		return 0
	}
	return id
}

// drainErrors empties the error queue and returns how many errors it held.
// A lost context reports errors forever, so draining stops at maxPendingErrors.
func drainErrors(next func() uint32) int {
	n := 0
	for n < maxPendingErrors && next() != gl.NO_ERROR {
		n++
	}
	return n
}

func (b *Backend) BufferBind(target metadata.BufferTarget, buffer uint32) {
	gl.BindBuffer(bufferTarget(target), buffer)
}

func (b *Backend) BufferDestroy(buffer uint32) {
	if buffer != 0 {
		gl.DeleteBuffers(1, &buffer)
	}
}

func (b *Backend) VertexArrayCreate() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id != 0 {
		gl.BindVertexArray(id)
	}
	return id
}

func (b *Backend) VertexArrayBind(vertexArray uint32) {
	gl.BindVertexArray(vertexArray)
}

func elementType(t metadata.ElementType) uint32 {
	switch t {
	case metadata.ElementTypeFloat32:
		return gl.FLOAT
	}
	return 0
}

func (b *Backend) VertexArrayAddBuffer(vertexArray, buffer uint32, layout *metadata.VertexBufferLayout) {
	gl.BindVertexArray(vertexArray)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	for i, e := range layout.Elements {
		index := uint32(i)
		gl.EnableVertexAttribArray(index)
		gl.VertexAttribPointerWithOffset(index, int32(e.Count), elementType(e.Type), false, int32(layout.Stride), uintptr(layout.Offset(i)))
	}
}

func (b *Backend) VertexArrayDestroy(vertexArray uint32) {
	if vertexArray != 0 {
		gl.DeleteVertexArrays(1, &vertexArray)
	}
}

func (b *Backend) DrawIndexed(indexCount uint32) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, 0)
}
