// Package headless is a renderer backend without a GPU. It keeps every driver
// object in memory, "compiles" GLSL by checking for an entry point, resolves
// uniform locations from the uniform declarations in the linked sources and
// records uniform writes and draw calls. The engine uses it for windowless
// runs; tests use it as the driver double.
package headless

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

type shaderStage struct {
	stage    metadata.ShaderStage
	source   string
	compiled bool
	infoLog  string
}

type program struct {
	linked   bool
	infoLog  string
	uniforms map[string]int32
}

type vertexArray struct {
	buffer      uint32
	layout      *metadata.VertexBufferLayout
	indexBuffer uint32
}

// UniformWrite is one recorded uniform upload.
type UniformWrite struct {
	Program  uint32
	Location int32
	Values   []float32
}

// DrawCall is one recorded indexed draw.
type DrawCall struct {
	Program     uint32
	VertexArray uint32
	IndexBuffer uint32
	IndexCount  uint32
}

type Backend struct {
	nextHandle uint32

	stages       map[uint32]*shaderStage
	programs     map[uint32]*program
	buffers      map[uint32][]byte
	vertexArrays map[uint32]*vertexArray

	boundProgram     uint32
	boundVertexArray uint32
	boundVertex      uint32
	boundIndex       uint32

	// CompileErrors injects a compile failure with the given log per stage.
	CompileErrors map[metadata.ShaderStage]string
	// LinkError, when set, makes every link fail with this log.
	LinkError string
	// RefuseCreate makes the matching Create call return 0. Keys: "shader",
	// "program", "vertex buffer", "index buffer", "vertex array".
	RefuseCreate map[string]bool

	UniformQueries map[string]int
	UniformWrites  []UniformWrite
	DrawCalls      []DrawCall
	Frames         uint64
	Width, Height  uint32
}

func New() *Backend {
	return &Backend{
		stages:         make(map[uint32]*shaderStage),
		programs:       make(map[uint32]*program),
		buffers:        make(map[uint32][]byte),
		vertexArrays:   make(map[uint32]*vertexArray),
		CompileErrors:  make(map[metadata.ShaderStage]string),
		RefuseCreate:   make(map[string]bool),
		UniformQueries: make(map[string]int),
	}
}

func (b *Backend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	core.LogInfo("headless renderer for '%s' (%dx%d)", appName, appWidth, appHeight)
	b.Resized(appWidth, appHeight)
	return nil
}

func (b *Backend) Shutdown() error {
	if n := b.LiveObjects(); n > 0 {
		core.LogWarn("headless renderer shut down with %d live driver objects", n)
	}
	return nil
}

func (b *Backend) Resized(width, height uint32) {
	b.Width, b.Height = width, height
}

func (b *Backend) BeginFrame(clearColour mgl32.Vec4) {}

func (b *Backend) EndFrame() {
	b.Frames++
}

func (b *Backend) ShaderStageCreate(stage metadata.ShaderStage) uint32 {
	if b.RefuseCreate["shader"] {
		return 0
	}
	if stage != metadata.ShaderStageVertex && stage != metadata.ShaderStageFragment {
		return 0
	}
	h := b.handle()
	b.stages[h] = &shaderStage{stage: stage}
	return h
}

var entryPoint = regexp.MustCompile(`\bvoid\s+main\s*\(`)

func (b *Backend) ShaderStageCompile(handle uint32, source string) bool {
	s, ok := b.stages[handle]
	if !ok {
		return false
	}
	s.source = source
	switch {
	case b.CompileErrors[s.stage] != "":
		s.infoLog = b.CompileErrors[s.stage]
	case !entryPoint.MatchString(source):
		s.infoLog = "0:0: error: missing entry point 'main'"
	default:
		s.compiled = true
		s.infoLog = ""
	}
	return s.compiled
}

func (b *Backend) ShaderStageInfoLog(handle uint32) string {
	if s, ok := b.stages[handle]; ok {
		return s.infoLog
	}
	return ""
}

func (b *Backend) ShaderStageDestroy(handle uint32) {
	delete(b.stages, handle)
}

func (b *Backend) ProgramCreate() uint32 {
	if b.RefuseCreate["program"] {
		return 0
	}
	h := b.handle()
	b.programs[h] = &program{uniforms: make(map[string]int32)}
	return h
}

func (b *Backend) ProgramLink(handle uint32, stages ...uint32) bool {
	p, ok := b.programs[handle]
	if !ok {
		return false
	}
	if b.LinkError != "" {
		p.infoLog = b.LinkError
		return false
	}

	seen := map[metadata.ShaderStage]bool{}
	sources := make([]string, 0, len(stages))
	for _, h := range stages {
		s, ok := b.stages[h]
		if !ok || !s.compiled {
			p.infoLog = fmt.Sprintf("error: shader %d is not compiled", h)
			return false
		}
		seen[s.stage] = true
		sources = append(sources, s.source)
	}
	if !seen[metadata.ShaderStageVertex] || !seen[metadata.ShaderStageFragment] {
		p.infoLog = "error: program needs a vertex and a fragment shader"
		return false
	}

	next := int32(0)
	for _, name := range uniformNames(strings.Join(sources, "\n")) {
		if _, dup := p.uniforms[name]; !dup {
			p.uniforms[name] = next
			next++
		}
	}
	p.linked = true
	p.infoLog = ""
	return true
}

func (b *Backend) ProgramInfoLog(handle uint32) string {
	if p, ok := b.programs[handle]; ok {
		return p.infoLog
	}
	return ""
}

func (b *Backend) ProgramDestroy(handle uint32) {
	delete(b.programs, handle)
	if b.boundProgram == handle {
		b.boundProgram = 0
	}
}

func (b *Backend) ProgramUse(handle uint32) {
	b.boundProgram = handle
}

// BoundProgram reports the program currently holding the context.
func (b *Backend) BoundProgram() uint32 {
	return b.boundProgram
}

func (b *Backend) ProgramUniformLocation(handle uint32, name string) int32 {
	b.UniformQueries[name]++
	p, ok := b.programs[handle]
	if !ok || !p.linked {
		return -1
	}
	if location, ok := p.uniforms[name]; ok {
		return location
	}
	return -1
}

func (b *Backend) write(location int32, values ...float32) {
	b.UniformWrites = append(b.UniformWrites, UniformWrite{Program: b.boundProgram, Location: location, Values: values})
}

func (b *Backend) Uniform1i(location int32, v int32) {
	b.write(location, float32(v))
}

func (b *Backend) Uniform1f(location int32, v float32) {
	b.write(location, v)
}

func (b *Backend) Uniform2f(location int32, v0, v1 float32) {
	b.write(location, v0, v1)
}

func (b *Backend) Uniform3f(location int32, v0, v1, v2 float32) {
	b.write(location, v0, v1, v2)
}

func (b *Backend) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	b.write(location, v0, v1, v2, v3)
}

func (b *Backend) UniformMatrix2f(location int32, m mgl32.Mat2) {
	b.write(location, m[:]...)
}

func (b *Backend) UniformMatrix3f(location int32, m mgl32.Mat3) {
	b.write(location, m[:]...)
}

func (b *Backend) UniformMatrix4f(location int32, m mgl32.Mat4) {
	b.write(location, m[:]...)
}

func (b *Backend) BufferCreate(target metadata.BufferTarget, data []byte) uint32 {
	if b.RefuseCreate[target.String()] {
		return 0
	}
	h := b.handle()
	b.buffers[h] = append([]byte(nil), data...)
	b.BufferBind(target, h)
	return h
}

func (b *Backend) BufferBind(target metadata.BufferTarget, buffer uint32) {
	if target == metadata.BufferTargetIndex {
		b.boundIndex = buffer
		if va, ok := b.vertexArrays[b.boundVertexArray]; ok && buffer != 0 {
			va.indexBuffer = buffer
		}
		return
	}
	b.boundVertex = buffer
}

func (b *Backend) BufferDestroy(buffer uint32) {
	delete(b.buffers, buffer)
}

// BufferData returns a copy of what was uploaded to buffer.
func (b *Backend) BufferData(buffer uint32) ([]byte, bool) {
	data, ok := b.buffers[buffer]
	return append([]byte(nil), data...), ok
}

func (b *Backend) VertexArrayCreate() uint32 {
	if b.RefuseCreate["vertex array"] {
		return 0
	}
	h := b.handle()
	b.vertexArrays[h] = &vertexArray{}
	b.boundVertexArray = h
	return h
}

func (b *Backend) VertexArrayBind(handle uint32) {
	b.boundVertexArray = handle
	if va, ok := b.vertexArrays[handle]; ok {
		b.boundIndex = va.indexBuffer
	}
}

func (b *Backend) VertexArrayAddBuffer(handle, buffer uint32, layout *metadata.VertexBufferLayout) {
	b.VertexArrayBind(handle)
	b.BufferBind(metadata.BufferTargetVertex, buffer)
	if va, ok := b.vertexArrays[handle]; ok {
		va.buffer = buffer
		va.layout = layout
	}
}

// VertexArrayLayout returns the buffer and layout attached to a vertex array.
func (b *Backend) VertexArrayLayout(handle uint32) (uint32, *metadata.VertexBufferLayout, bool) {
	va, ok := b.vertexArrays[handle]
	if !ok {
		return 0, nil, false
	}
	return va.buffer, va.layout, true
}

func (b *Backend) VertexArrayDestroy(handle uint32) {
	delete(b.vertexArrays, handle)
	if b.boundVertexArray == handle {
		b.boundVertexArray = 0
	}
}

func (b *Backend) DrawIndexed(indexCount uint32) {
	b.DrawCalls = append(b.DrawCalls, DrawCall{
		Program:     b.boundProgram,
		VertexArray: b.boundVertexArray,
		IndexBuffer: b.boundIndex,
		IndexCount:  indexCount,
	})
}

// LiveObjects counts driver objects that were created and not destroyed.
func (b *Backend) LiveObjects() int {
	return len(b.stages) + len(b.programs) + len(b.buffers) + len(b.vertexArrays)
}

var (
	structDecl  = regexp.MustCompile(`(?s)\bstruct\s+(\w+)\s*\{(.*?)\}\s*;`)
	fieldDecl   = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	uniformDecl = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
)

// uniformNames expands the uniform declarations of GLSL source into the
// names a driver accepts for location queries: plain names, name[i] for
// arrays and name.field / name[i].field for struct members.
func uniformNames(source string) []string {
	structs := map[string][][3]string{}
	for _, m := range structDecl.FindAllStringSubmatch(source, -1) {
		for _, f := range fieldDecl.FindAllStringSubmatch(m[2], -1) {
			structs[m[1]] = append(structs[m[1]], [3]string{f[1], f[2], f[3]})
		}
	}

	var names []string
	var expand func(typ, name, size string)
	expand = func(typ, name, size string) {
		fields, isStruct := structs[typ]
		bases := []string{name}
		if size != "" {
			n, _ := strconv.Atoi(size)
			bases = make([]string, 0, n+1)
			// "name" aliases "name[0]" for arrays of basic types only.
			if !isStruct {
				bases = append(bases, name)
			}
			for i := 0; i < n; i++ {
				bases = append(bases, fmt.Sprintf("%s[%d]", name, i))
			}
		}
		for _, base := range bases {
			if !isStruct {
				names = append(names, base)
				continue
			}
			for _, f := range fields {
				expand(f[0], base+"."+f[1], f[2])
			}
		}
	}
	for _, m := range uniformDecl.FindAllStringSubmatch(source, -1) {
		expand(m[1], m[2], m[3])
	}
	return names
}
