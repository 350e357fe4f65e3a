package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/headless"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
	"github.com/spaghettifunk/primitives/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShader = `#shader vertex
uniform mat4 u_MVP;
void main() {}
#shader fragment
uniform vec3 u_Lights[{{POINT_LIGHTS}}];
void main() {}
`

type recordingGame struct {
	*Game
	updates, renders int
	resized          [2]uint32
	shutdown         bool
}

func newHeadlessGame(t *testing.T, frames uint64) *recordingGame {
	t.Helper()
	dir := t.TempDir()
	shaderPath := filepath.Join(dir, "shaders", "test.shader")
	require.NoError(t, os.MkdirAll(filepath.Dir(shaderPath), 0o755))
	require.NoError(t, os.WriteFile(shaderPath, []byte(testShader), 0o644))

	config := DefaultApplicationConfig()
	config.Backend = "headless"
	config.HeadlessFrames = frames
	config.TargetFPS = 0
	config.AssetsDir = dir
	config.LogLevel = "warn"
	config.Shader.Path = shaderPath
	config.Shader.HotReload = false

	g := &recordingGame{Game: &Game{ApplicationConfig: config}}
	g.FnInitialize = func() error {
		if _, err := g.SystemManager.GeometrySystem().AcquireFromConfig(systems.CreateCube(), true); err != nil {
			return err
		}
		_, err := g.SystemManager.ShaderSystem().Acquire(&metadata.ShaderConfig{Name: "test", Path: config.Shader.Path})
		return err
	}
	g.FnUpdate = func(deltaTime float64) error {
		g.updates++
		return nil
	}
	g.FnRender = func(deltaTime float64) error {
		g.renders++
		g.SystemManager.ShaderSystem().Use("test")
		shape, err := g.SystemManager.GeometrySystem().Acquire(systems.CubeGeometryName)
		if err != nil {
			return err
		}
		defer g.SystemManager.GeometrySystem().Release(systems.CubeGeometryName)
		g.Renderer.DrawShape(shape)
		return nil
	}
	g.FnOnResize = func(width, height uint32) error {
		g.resized = [2]uint32{width, height}
		return nil
	}
	g.FnShutdown = func() error {
		g.shutdown = true
		return nil
	}
	return g
}

func TestHeadlessRunStopsAfterConfiguredFrames(t *testing.T) {
	g := newHeadlessGame(t, 3)
	e, err := New(g.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	assert.Equal(t, [2]uint32{1280, 720}, g.resized)

	require.NoError(t, e.Run())
	assert.Equal(t, 3, g.updates)
	assert.Equal(t, 3, g.renders)
	assert.Equal(t, uint64(3), e.Renderer().FrameNumber())

	b := e.Renderer().Backend().(*headless.Backend)
	require.Len(t, b.DrawCalls, 3)
	assert.NotZero(t, b.DrawCalls[0].Program)
	assert.Equal(t, uint32(36), b.DrawCalls[0].IndexCount)

	require.NoError(t, e.Shutdown())
	assert.True(t, g.shutdown)
	assert.Equal(t, 0, b.LiveObjects())
}

func TestResizeEventReachesGame(t *testing.T) {
	g := newHeadlessGame(t, 1)
	e, err := New(g.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	ctx := core.EventContext{}
	ctx.Data.U32[0], ctx.Data.U32[1] = 640, 480
	assert.True(t, core.EventFire(core.EVENT_CODE_RESIZED, nil, ctx))
	assert.Equal(t, [2]uint32{640, 480}, g.resized)
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)

	b := e.Renderer().Backend().(*headless.Backend)
	assert.Equal(t, uint32(640), b.Width)
}

func TestQuitEventStopsRun(t *testing.T) {
	g := newHeadlessGame(t, 0)
	g.FnUpdate = func(deltaTime float64) error {
		g.updates++
		if g.updates == 2 {
			core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
		}
		return nil
	}
	e, err := New(g.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	require.NoError(t, e.Run())
	assert.Equal(t, 2, g.updates)
}

func TestRunReturnsGameErrors(t *testing.T) {
	g := newHeadlessGame(t, 0)
	boom := errors.New("boom")
	g.FnRender = func(deltaTime float64) error { return boom }
	e, err := New(g.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	assert.ErrorIs(t, e.Run(), boom)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := DefaultApplicationConfig()
	config.Backend = "metal"
	_, err := New(&Game{ApplicationConfig: config})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
