package testbed

import (
	"fmt"
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/math"
	"github.com/spaghettifunk/primitives/engine/renderer"
	"github.com/spaghettifunk/primitives/engine/renderer/components"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
	"github.com/spaghettifunk/primitives/engine/systems"
)

const litShaderName = "lit"

type sceneObject struct {
	shape     *renderer.Shape
	transform *math.Transform
	color     mgl32.Vec4
	spin      float32
}

type pointLight struct {
	position  mgl32.Vec3
	color     mgl32.Vec3
	constant  float32
	linear    float32
	quadratic float32
}

// cutOff and outerCutOff hold the cosines of the cone angles.
type spotLight struct {
	position    mgl32.Vec3
	direction   mgl32.Vec3
	color       mgl32.Vec3
	cutOff      float32
	outerCutOff float32
}

type gameState struct {
	WorldCamera *components.Camera

	width  uint32
	height uint32

	root    *math.Transform
	objects []*sceneObject
	points  []pointLight
	spots   []spotLight
	elapsed float64
}

type TestGame struct {
	*engine.Game
}

// NewTestGame lays out the four primitives around a rotating root and lights
// them with the configured number of point and spot lights.
func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.State.(*gameState)
	config := g.ApplicationConfig

	state.WorldCamera = components.NewCamera()
	state.WorldCamera.SetPosition(mgl32.Vec3{0, 1.5, 6})
	state.WorldCamera.Pitch(mgl32.DegToRad(-12))

	if _, err := g.SystemManager.ShaderSystem().Acquire(&metadata.ShaderConfig{
		Name:        litShaderName,
		Path:        config.Shader.Path,
		PointLights: config.Shader.PointLights,
		SpotLights:  config.Shader.SpotLights,
	}); err != nil {
		return err
	}

	plane, err := systems.CreatePlane(config.Shapes.PlaneDimensions)
	if err != nil {
		return err
	}
	sphere, err := systems.CreateSphere(config.Shapes.SphereSlices)
	if err != nil {
		return err
	}
	cone, err := systems.CreateCone(config.Shapes.ConeSlices)
	if err != nil {
		return err
	}

	state.root = math.TransformCreate()
	layout := []struct {
		config   *metadata.GeometryConfig
		position mgl32.Vec3
		rotation mgl32.Quat
		scale    mgl32.Vec3
		color    mgl32.Vec4
		spin     float32
	}{
		// the plane faces -z; turn it to face up
		{plane, mgl32.Vec3{0, -0.75, 0}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}), mgl32.Vec3{8, 8, 1}, mgl32.Vec4{0.6, 0.6, 0.6, 1}, 0},
		{sphere, mgl32.Vec3{-2.25, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{0.6, 0.6, 0.6}, mgl32.Vec4{0.9, 0.3, 0.3, 1}, 0.4},
		{cone, mgl32.Vec3{-0.75, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}, mgl32.Vec4{0.3, 0.9, 0.3, 1}, 0.8},
		{systems.CreateCube(), mgl32.Vec3{0.75, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}, mgl32.Vec4{0.3, 0.3, 0.9, 1}, 1.2},
		{systems.CreateCube(), mgl32.Vec3{2.25, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec4{0.9, 0.8, 0.2, 1}, -1.2},
	}
	for _, l := range layout {
		// both cubes share one shape
		shape, err := g.SystemManager.GeometrySystem().AcquireFromConfig(l.config, true)
		if err != nil {
			return err
		}
		t := math.TransformFromPositionRotationScale(l.position, l.rotation, l.scale)
		t.Parent = state.root
		state.objects = append(state.objects, &sceneObject{shape: shape, transform: t, color: l.color, spin: l.spin})
	}

	for i := 0; i < config.Shader.PointLights; i++ {
		x := -3 + 6*float32(i)/float32(max(config.Shader.PointLights-1, 1))
		state.points = append(state.points, pointLight{
			position:  mgl32.Vec3{x, 2, 2},
			color:     mgl32.Vec3{0.8, 0.8, 0.75},
			constant:  1,
			linear:    0.09,
			quadratic: 0.032,
		})
	}
	for i := 0; i < config.Shader.SpotLights; i++ {
		side := float32(1 - 2*(i%2))
		state.spots = append(state.spots, spotLight{
			position:    mgl32.Vec3{side * 3, 4, 3},
			direction:   mgl32.Vec3{-side * 3, -4, -3}.Normalize(),
			color:       mgl32.Vec3{0.5, 0.5, 0.6},
			cutOff:      float32(stdmath.Cos(float64(mgl32.DegToRad(12.5)))),
			outerCutOff: float32(stdmath.Cos(float64(mgl32.DegToRad(17.5)))),
		})
	}

	core.EventRegister(core.EVENT_CODE_SHADER_RELOADED, g, g.onShaderReloaded)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	// a stalled frame (debugger, window drag) must not teleport the scene
	dt := float32(math.Clamp(deltaTime, 0, 0.1))
	state.elapsed += float64(dt)

	state.root.Rotate(mgl32.QuatRotate(0.15*dt, mgl32.Vec3{0, 1, 0}))
	for _, o := range state.objects {
		if o.spin != 0 {
			o.transform.Rotate(mgl32.QuatRotate(o.spin*dt, mgl32.Vec3{0, 1, 0}))
		}
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	shaders := g.SystemManager.ShaderSystem()
	if !shaders.Use(litShaderName) {
		return fmt.Errorf("shader '%s' is not available", litShaderName)
	}
	shader, err := shaders.Get(litShaderName)
	if err != nil {
		return err
	}

	view := state.WorldCamera.GetView()
	projection := state.WorldCamera.GetProjection(state.width, state.height)
	shader.SetUniformMat4f("u_View", view)
	shader.SetUniformMat4f("u_Projection", projection)
	shader.SetUniformVec3f("u_ViewPos", state.WorldCamera.GetPosition())
	shader.SetUniformVec3f("u_AmbientColor", mgl32.Vec3{0.12, 0.12, 0.14})
	shader.SetUniform1f("u_Shininess", 32)
	shader.SetUniform1b("u_UseLighting", true)

	for i, l := range state.points {
		prefix := fmt.Sprintf("u_PointLights[%d].", i)
		shader.SetUniformVec3f(prefix+"position", l.position)
		shader.SetUniformVec3f(prefix+"color", l.color)
		shader.SetUniform1f(prefix+"constant", l.constant)
		shader.SetUniform1f(prefix+"linear", l.linear)
		shader.SetUniform1f(prefix+"quadratic", l.quadratic)
	}
	for i, l := range state.spots {
		prefix := fmt.Sprintf("u_SpotLights[%d].", i)
		shader.SetUniformVec3f(prefix+"position", l.position)
		shader.SetUniformVec3f(prefix+"direction", l.direction)
		shader.SetUniformVec3f(prefix+"color", l.color)
		shader.SetUniform1f(prefix+"cutOff", l.cutOff)
		shader.SetUniform1f(prefix+"outerCutOff", l.outerCutOff)
	}

	for _, o := range state.objects {
		shader.SetUniformMat4f("u_Model", o.transform.GetWorld())
		shader.SetUniformMat3f("u_NormalMatrix", o.transform.NormalMatrix())
		shader.SetUniformVec4f("u_Color", o.color)
		g.Renderer.DrawShape(o.shape)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	core.EventUnregister(core.EVENT_CODE_SHADER_RELOADED, g)
	for _, o := range state.objects {
		g.SystemManager.GeometrySystem().Release(o.shape.Name)
	}
	state.objects = nil
	return nil
}

func (g *TestGame) onShaderReloaded(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("shader '%s' reloaded after %.1fs", data.Data.S, g.State.(*gameState).elapsed)
	return false
}
