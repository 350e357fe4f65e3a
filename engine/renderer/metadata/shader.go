package metadata

import "fmt"

/** @brief Shader stages available in the system. */
type ShaderStage int

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageFragment ShaderStage = 0x00000004
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStage(%d)", int(s))
}

// ShaderStageFromString maps a stage marker name to its stage.
func ShaderStageFromString(s string) (ShaderStage, error) {
	switch s {
	case "vertex":
		return ShaderStageVertex, nil
	case "fragment":
		return ShaderStageFragment, nil
	}
	return 0, fmt.Errorf("string %s is not a valid ShaderStage", s)
}

// UniformNotFound is cached for names the driver reported as absent from the
// program, so a missing uniform is queried once and then ignored.
const UniformNotFound int32 = -1

/**
 * @brief The per-stage sources extracted from one shader file. Transient:
 * consumed by compilation.
 */
type ShaderProgramSource struct {
	VertexSource   string
	FragmentSource string
}

/**
 * @brief Configuration for a shader program built from a single source file.
 */
type ShaderConfig struct {
	/** @brief The name of the shader to be created. */
	Name string
	/** @brief Path to the combined vertex/fragment source file. */
	Path string
	/** @brief Size of the point light uniform array. */
	PointLights int
	/** @brief Size of the spot light uniform array. */
	SpotLights int
}

// Key identifies a program: light counts change the generated array
// uniforms, so the same file yields one program per light configuration.
func (c *ShaderConfig) Key() string {
	return fmt.Sprintf("%s#p%d#s%d", c.Path, c.PointLights, c.SpotLights)
}
