package systems

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spaghettifunk/primitives/engine/assets"
	"github.com/spaghettifunk/primitives/engine/assets/loaders"
	"github.com/spaghettifunk/primitives/engine/containers"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shader programs held in the system. */
	MaxShaderCount uint16
	/** @brief The number of pending reload requests kept between frames. */
	MaxPendingReloads int
}

type shaderEntry struct {
	config metadata.ShaderConfig
	shader *renderer.Shader
}

// ShaderSystem builds shader programs from shader files and keeps one program
// per (file, light counts) pair. Everything but QueueReload must be called on
// the render thread.
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for shader name -> program key
	Lookup map[string]string
	// The name of the shader currently holding the context.
	CurrentShader string

	shaders map[string]*shaderEntry

	backend      renderer.RendererBackend
	assetManager *assets.AssetManager

	reloadMutex sync.Mutex
	reloads     *containers.RingQueue[string]
}

func NewShaderSystem(config *ShaderSystemConfig, am *assets.AssetManager, r *renderer.Renderer) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0: %w", core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}
	if config.MaxPendingReloads <= 0 {
		config.MaxPendingReloads = 16
	}

	ss := &ShaderSystem{
		Config:       config,
		Lookup:       make(map[string]string),
		shaders:      make(map[string]*shaderEntry),
		backend:      r.Backend(),
		assetManager: am,
		reloads:      containers.NewRingQueue[string](config.MaxPendingReloads),
	}
	if am != nil {
		am.OnChange(func(path string, assetType metadata.ResourceType) {
			if assetType == metadata.ResourceTypeShader {
				ss.QueueReload(path)
			}
		})
	}
	return ss, nil
}

/**
 * @brief Returns the program built from config, creating it on first use.
 * A missing name defaults to the file name without extension and missing
 * light counts to the loader defaults.
 *
 * @param config The configuration to be used when creating the shader.
 */
func (ss *ShaderSystem) Acquire(config *metadata.ShaderConfig) (*renderer.Shader, error) {
	cfg := *config
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(cfg.Path), filepath.Ext(cfg.Path))
	}
	if cfg.PointLights == 0 {
		cfg.PointLights = loaders.DefaultPointLights
	}
	if cfg.SpotLights == 0 {
		cfg.SpotLights = loaders.DefaultSpotLights
	}

	key := cfg.Key()
	if entry, ok := ss.shaders[key]; ok {
		return entry.shader, nil
	}
	if existing, ok := ss.Lookup[cfg.Name]; ok {
		err := fmt.Errorf("shader name '%s' already used by %s: %w", cfg.Name, existing, core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}
	if len(ss.shaders) >= int(ss.Config.MaxShaderCount) {
		err := fmt.Errorf("unable to create shader '%s', all %d slots in use: %w", cfg.Name, ss.Config.MaxShaderCount, core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}

	source, err := ss.load(&cfg)
	if err != nil {
		return nil, err
	}
	shader, err := renderer.NewShader(ss.backend, cfg.Name, source)
	if err != nil {
		return nil, err
	}

	ss.shaders[key] = &shaderEntry{config: cfg, shader: shader}
	ss.Lookup[cfg.Name] = key
	core.LogInfo("shader '%s' created from '%s' (%d point, %d spot lights)", cfg.Name, cfg.Path, cfg.PointLights, cfg.SpotLights)
	return shader, nil
}

func (ss *ShaderSystem) load(cfg *metadata.ShaderConfig) (*metadata.ShaderProgramSource, error) {
	params := &loaders.ShaderLoadParams{PointLights: cfg.PointLights, SpotLights: cfg.SpotLights}
	if ss.assetManager == nil {
		return loaders.ParseShader(cfg.Path, params.PointLights, params.SpotLights)
	}
	res, err := ss.assetManager.LoadAsset(cfg.Path, metadata.ResourceTypeShader, params)
	if err != nil {
		return nil, err
	}
	source, ok := res.Data.(*metadata.ShaderProgramSource)
	if !ok {
		return nil, fmt.Errorf("shader loader returned %T for '%s': %w", res.Data, cfg.Path, core.ErrUnknown)
	}
	return source, nil
}

/**
 * @brief Returns the shader with the given name.
 *
 * @param shaderName The name to search for. Case sensitive.
 */
func (ss *ShaderSystem) Get(shaderName string) (*renderer.Shader, error) {
	if key, ok := ss.Lookup[shaderName]; ok {
		return ss.shaders[key].shader, nil
	}
	return nil, fmt.Errorf("shader with name `%s` not found: %w", shaderName, core.ErrInvalidParameter)
}

/**
 * @brief Uses the shader with the given name. Binding the shader already in
 * use is skipped.
 *
 * @param shaderName The name of the shader to use. Case sensitive.
 * @return True on success; otherwise false.
 */
func (ss *ShaderSystem) Use(shaderName string) bool {
	shader, err := ss.Get(shaderName)
	if err != nil {
		core.LogError(err.Error())
		return false
	}
	if ss.CurrentShader == shaderName && ss.backend.BoundProgram() == shader.Program() {
		return true
	}
	shader.Bind()
	ss.CurrentShader = shaderName
	return true
}

// QueueReload asks for every program built from path to be rebuilt on the
// next ProcessReloads. Safe to call from any goroutine.
func (ss *ShaderSystem) QueueReload(path string) {
	ss.reloadMutex.Lock()
	defer ss.reloadMutex.Unlock()
	if err := ss.reloads.Enqueue(canonicalPath(path)); err != nil {
		core.LogWarn("dropping shader reload for '%s': %s", path, err)
	}
}

// ProcessReloads rebuilds the programs of every queued file. A program whose
// file no longer parses or compiles keeps running the last good build.
// Returns the number of programs rebuilt.
func (ss *ShaderSystem) ProcessReloads() int {
	ss.reloadMutex.Lock()
	pending := map[string]bool{}
	for !ss.reloads.IsEmpty() {
		path, err := ss.reloads.Dequeue()
		if err != nil {
			break
		}
		pending[path] = true
	}
	ss.reloadMutex.Unlock()

	rebuilt := 0
	for _, entry := range ss.shaders {
		if !pending[canonicalPath(entry.config.Path)] {
			continue
		}
		source, err := ss.load(&entry.config)
		if err != nil {
			core.LogWarn("keeping previous build of shader '%s': %s", entry.config.Name, err)
			continue
		}
		if err := entry.shader.Rebuild(source); err != nil {
			core.LogWarn("keeping previous build of shader '%s': %s", entry.config.Name, err)
			continue
		}
		rebuilt++

		ctx := core.EventContext{}
		ctx.Data.S = entry.config.Name
		core.EventFire(core.EVENT_CODE_SHADER_RELOADED, ss, ctx)
	}
	return rebuilt
}

/**
 * @brief Shuts down the shader system, destroying every program.
 */
func (ss *ShaderSystem) Shutdown() error {
	if ss.CurrentShader != "" {
		ss.backend.ProgramUse(0)
		ss.CurrentShader = ""
	}
	for key, entry := range ss.shaders {
		entry.shader.Destroy()
		delete(ss.shaders, key)
	}
	ss.Lookup = make(map[string]string)
	return nil
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
