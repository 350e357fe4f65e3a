package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/primitives/engine/assets/loaders"
	"github.com/spaghettifunk/primitives/engine/core"
)

type ShaderConfig struct {
	// Combined vertex/fragment source file.
	Path        string `toml:"path"`
	PointLights int    `toml:"point_lights"`
	SpotLights  int    `toml:"spot_lights"`
	// Rebuild the program when the file changes on disk.
	HotReload bool `toml:"hot_reload"`
}

type ShapesConfig struct {
	PlaneDimensions uint32 `toml:"plane_dimensions"`
	SphereSlices    uint32 `toml:"sphere_slices"`
	ConeSlices      uint32 `toml:"cone_slices"`
}

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// "opengl" or "headless"
	Backend string `toml:"backend"`
	// Frames rendered by the headless backend before the engine stops. 0 runs
	// until interrupted.
	HeadlessFrames uint64 `toml:"headless_frames"`
	// Directory indexed and watched by the asset manager.
	AssetsDir string `toml:"assets_dir"`
	// Upper bound on frames per second; 0 disables the limiter.
	TargetFPS float64 `toml:"target_fps"`

	Shader ShaderConfig `toml:"shader"`
	Shapes ShapesConfig `toml:"shapes"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Primitives",
		LogLevel:    "info",
		Backend:     "opengl",
		AssetsDir:   "assets",
		TargetFPS:   60,
		Shader: ShaderConfig{
			Path:        "assets/shaders/lit.shader",
			PointLights: loaders.DefaultPointLights,
			SpotLights:  loaders.DefaultSpotLights,
			HotReload:   true,
		},
		Shapes: ShapesConfig{
			PlaneDimensions: 10,
			SphereSlices:    32,
			ConeSlices:      32,
		},
	}
}

// LoadApplicationConfig reads a TOML file over the defaults: keys missing from
// the file keep their default value.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config '%s': %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects values the engine cannot start with.
func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window size %dx%d: %w", c.StartWidth, c.StartHeight, core.ErrInvalidParameter)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level '%s': %w", c.LogLevel, core.ErrInvalidParameter)
	}
	if c.Backend != "opengl" && c.Backend != "headless" {
		return fmt.Errorf("backend '%s': %w", c.Backend, core.ErrInvalidParameter)
	}
	if c.Shader.PointLights < 1 || c.Shader.SpotLights < 1 {
		return fmt.Errorf("shader light counts must be at least 1: %w", core.ErrInvalidParameter)
	}
	if c.Shapes.PlaneDimensions < 2 || c.Shapes.SphereSlices < 3 || c.Shapes.ConeSlices < 3 {
		return fmt.Errorf("shape resolution too low (plane >= 2, sphere and cone >= 3): %w", core.ErrInvalidParameter)
	}
	if c.TargetFPS < 0 {
		return fmt.Errorf("target_fps %f: %w", c.TargetFPS, core.ErrInvalidParameter)
	}
	return nil
}
