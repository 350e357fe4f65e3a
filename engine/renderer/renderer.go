package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/headless"
	"github.com/spaghettifunk/primitives/engine/renderer/opengl"
)

var (
	_ RendererBackend = (*opengl.Backend)(nil)
	_ RendererBackend = (*headless.Backend)(nil)
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	Headless
)

func RendererTypeFromString(s string) (RendererType, error) {
	switch s {
	case "", "opengl":
		return OpenGL, nil
	case "headless":
		return Headless, nil
	}
	return 0, fmt.Errorf("unknown renderer backend '%s': %w", s, core.ErrInvalidParameter)
}

// Renderer drives frames on one backend. It is owned by the render thread.
type Renderer struct {
	backend     RendererBackend
	clearColour mgl32.Vec4
	frameNumber uint64
}

// New creates and initializes the backend. For OpenGL a context must already
// be current on the calling thread.
func New(rendererType RendererType, appName string, appWidth, appHeight uint32) (*Renderer, error) {
	var backend RendererBackend
	switch rendererType {
	case OpenGL:
		backend = opengl.New()
	case Headless:
		backend = headless.New()
	default:
		return nil, fmt.Errorf("renderer type %d: %w", rendererType, core.ErrInvalidParameter)
	}
	if err := backend.Initialize(appName, appWidth, appHeight); err != nil {
		core.LogError("failed to initialize renderer backend: %s", err)
		return nil, err
	}
	return NewWithBackend(backend), nil
}

// NewWithBackend wraps an already initialized backend.
func NewWithBackend(backend RendererBackend) *Renderer {
	return &Renderer{
		backend:     backend,
		clearColour: mgl32.Vec4{0.1, 0.1, 0.12, 1.0},
	}
}

func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

func (r *Renderer) SetClearColour(c mgl32.Vec4) {
	r.clearColour = c
}

func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

func (r *Renderer) BeginFrame() {
	r.backend.BeginFrame(r.clearColour)
}

func (r *Renderer) EndFrame() {
	r.backend.EndFrame()
	r.frameNumber++
}

func (r *Renderer) OnResize(width, height uint32) {
	r.backend.Resized(width, height)
}

// DrawShape issues one indexed draw of shape with the currently bound
// program.
func (r *Renderer) DrawShape(shape *Shape) {
	shape.Bind()
	r.backend.DrawIndexed(shape.IndexCount())
	shape.Unbind()
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}
