package systems

import (
	"github.com/spaghettifunk/primitives/engine/assets"
	"github.com/spaghettifunk/primitives/engine/renderer"
)

type SystemManager struct {
	geometrySystem *GeometrySystem
	shaderSystem   *ShaderSystem
}

func NewSystemManager(r *renderer.Renderer, am *assets.AssetManager) (*SystemManager, error) {
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: 64,
	}, r)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount:    32,
		MaxPendingReloads: 16,
	}, am, r)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		geometrySystem: gs,
		shaderSystem:   ss,
	}, nil
}

func (sm *SystemManager) GeometrySystem() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) ShaderSystem() *ShaderSystem {
	return sm.shaderSystem
}

// Update runs the per-frame work of the systems on the render thread.
func (sm *SystemManager) Update() {
	sm.shaderSystem.ProcessReloads()
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.shaderSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
