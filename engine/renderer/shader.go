package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

// ShaderStageHandle is a compiled, not yet linked, stage. The caller owns it
// until LinkShaderProgram consumes it.
type ShaderStageHandle struct {
	Stage  metadata.ShaderStage
	Handle uint32
}

// CompileShaderStage compiles one stage. On failure the driver diagnostic is
// returned verbatim inside a *core.CompileError.
func CompileShaderStage(backend RendererBackend, stage metadata.ShaderStage, source string) (ShaderStageHandle, error) {
	handle := backend.ShaderStageCreate(stage)
	if handle == 0 {
		err := &core.ResourceCreationError{Resource: stage.String() + " shader", Owner: stage.String()}
		core.LogError(err.Error())
		return ShaderStageHandle{}, err
	}

	if !backend.ShaderStageCompile(handle, source) {
		err := &core.CompileError{Stage: stage.String(), Log: backend.ShaderStageInfoLog(handle)}
		backend.ShaderStageDestroy(handle)
		core.LogError(err.Error())
		return ShaderStageHandle{}, err
	}
	return ShaderStageHandle{Stage: stage, Handle: handle}, nil
}

// LinkShaderProgram links the two stages into a program. Both stage handles
// are destroyed before returning, whatever the outcome.
func LinkShaderProgram(backend RendererBackend, name string, vertex, fragment ShaderStageHandle) (uint32, error) {
	defer backend.ShaderStageDestroy(vertex.Handle)
	defer backend.ShaderStageDestroy(fragment.Handle)

	program := backend.ProgramCreate()
	if program == 0 {
		err := &core.ResourceCreationError{Resource: "shader program", Owner: name}
		core.LogError(err.Error())
		return 0, err
	}

	if !backend.ProgramLink(program, vertex.Handle, fragment.Handle) {
		err := &core.LinkError{Name: name, Log: backend.ProgramInfoLog(program)}
		backend.ProgramDestroy(program)
		core.LogError(err.Error())
		return 0, err
	}
	return program, nil
}

// Shader is a linked program plus the locations of the uniforms looked up on
// it so far.
//
// Binding is global context state: Bind claims the context for this program
// until the next Bind (of any Shader) or Unbind. SetUniform* calls write to
// whichever program currently holds the context, so callers Bind first.
type Shader struct {
	ID   core.Identifier
	Name string

	backend RendererBackend
	program uint32
	// uniform name -> location, metadata.UniformNotFound for names the
	// driver does not know.
	uniformLocationCache map[string]int32
}

// NewShader compiles both stages of source and links them. No program
// survives a failed build.
func NewShader(backend RendererBackend, name string, source *metadata.ShaderProgramSource) (*Shader, error) {
	vertex, err := CompileShaderStage(backend, metadata.ShaderStageVertex, source.VertexSource)
	if err != nil {
		return nil, err
	}
	fragment, err := CompileShaderStage(backend, metadata.ShaderStageFragment, source.FragmentSource)
	if err != nil {
		backend.ShaderStageDestroy(vertex.Handle)
		return nil, err
	}
	program, err := LinkShaderProgram(backend, name, vertex, fragment)
	if err != nil {
		return nil, err
	}

	shader := &Shader{
		ID:                   core.NewIdentifier(),
		Name:                 name,
		backend:              backend,
		program:              program,
		uniformLocationCache: make(map[string]int32),
	}
	core.LogDebug("shader '%s' (%s) linked as program %d", name, shader.ID.Short(), program)
	return shader, nil
}

// Rebuild compiles and links source and, only if that succeeds, swaps it in
// for the current program. Cached uniform locations are dropped with the old
// program. A program holding the context keeps holding it.
func (s *Shader) Rebuild(source *metadata.ShaderProgramSource) error {
	next, err := NewShader(s.backend, s.Name, source)
	if err != nil {
		return err
	}

	wasBound := s.program != 0 && s.backend.BoundProgram() == s.program
	s.Destroy()
	s.program = next.program
	s.uniformLocationCache = make(map[string]int32)
	if wasBound {
		s.Bind()
	}
	core.LogInfo("shader '%s' (%s) rebuilt as program %d", s.Name, s.ID.Short(), s.program)
	return nil
}

func (s *Shader) Program() uint32 {
	return s.program
}

func (s *Shader) Bind() {
	s.backend.ProgramUse(s.program)
}

func (s *Shader) Unbind() {
	s.backend.ProgramUse(0)
}

func (s *Shader) Destroy() {
	if s.program != 0 {
		s.backend.ProgramDestroy(s.program)
		s.program = 0
	}
}

// GetUniformLocation returns the location of name, asking the driver only
// the first time a name is seen.
func (s *Shader) GetUniformLocation(name string) int32 {
	if location, ok := s.uniformLocationCache[name]; ok {
		return location
	}

	location := s.backend.ProgramUniformLocation(s.program, name)
	if location < 0 {
		core.LogWarn("uniform '%s' not found in shader '%s'", name, s.Name)
		location = metadata.UniformNotFound
	}
	s.uniformLocationCache[name] = location
	return location
}

func (s *Shader) SetUniform1b(name string, value bool) {
	v := int32(0)
	if value {
		v = 1
	}
	s.SetUniform1i(name, v)
}

func (s *Shader) SetUniform1i(name string, value int32) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.Uniform1i(location, value)
	}
}

func (s *Shader) SetUniform1f(name string, value float32) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.Uniform1f(location, value)
	}
}

func (s *Shader) SetUniform2f(name string, v0, v1 float32) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.Uniform2f(location, v0, v1)
	}
}

func (s *Shader) SetUniform3f(name string, v0, v1, v2 float32) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.Uniform3f(location, v0, v1, v2)
	}
}

func (s *Shader) SetUniform4f(name string, v0, v1, v2, v3 float32) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.Uniform4f(location, v0, v1, v2, v3)
	}
}

func (s *Shader) SetUniformVec2f(name string, v mgl32.Vec2) {
	s.SetUniform2f(name, v[0], v[1])
}

func (s *Shader) SetUniformVec3f(name string, v mgl32.Vec3) {
	s.SetUniform3f(name, v[0], v[1], v[2])
}

func (s *Shader) SetUniformVec4f(name string, v mgl32.Vec4) {
	s.SetUniform4f(name, v[0], v[1], v[2], v[3])
}

func (s *Shader) SetUniformMat2f(name string, m mgl32.Mat2) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.UniformMatrix2f(location, m)
	}
}

func (s *Shader) SetUniformMat3f(name string, m mgl32.Mat3) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.UniformMatrix3f(location, m)
	}
}

func (s *Shader) SetUniformMat4f(name string, m mgl32.Mat4) {
	if location := s.GetUniformLocation(name); location != metadata.UniformNotFound {
		s.backend.UniformMatrix4f(location, m)
	}
}
