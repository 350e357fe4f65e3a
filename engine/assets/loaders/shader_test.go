package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShader(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.shader")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const twoStages = `// header comment is ignored
#shader vertex
#version 410 core
void main() { gl_Position = vec4(0.0); }
#shader fragment
#version 410 core
uniform vec3 u_Point[{{POINT_LIGHTS}}];
uniform vec3 u_Spot[{{SPOT_LIGHTS}}];
out vec4 color;
void main() { color = vec4(1.0); }
`

func TestParseShaderSplitsStagesAndSubstitutesCounts(t *testing.T) {
	path := writeShader(t, twoStages)

	src, err := ParseShader(path, 4, 2)
	require.NoError(t, err)

	assert.NotEmpty(t, src.VertexSource)
	assert.NotEmpty(t, src.FragmentSource)
	assert.NotContains(t, src.VertexSource, "#shader")
	assert.NotContains(t, src.VertexSource, "header comment")
	assert.NotContains(t, src.VertexSource, "u_Point")
	assert.Contains(t, src.FragmentSource, "uniform vec3 u_Point[4];")
	assert.Contains(t, src.FragmentSource, "uniform vec3 u_Spot[2];")
	assert.NotContains(t, src.FragmentSource, "{{")
	assert.True(t, strings.HasPrefix(src.VertexSource, "#version 410 core\n"))
}

func TestParseShaderStageOrderDoesNotMatter(t *testing.T) {
	path := writeShader(t, "#shader fragment\nvoid main() {}\n  #shader   vertex  \nvoid main() { }\n")
	src, err := ParseShader(path, DefaultPointLights, DefaultSpotLights)
	require.NoError(t, err)
	assert.Equal(t, "void main() { }\n", src.VertexSource)
	assert.Equal(t, "void main() {}\n", src.FragmentSource)
}

func TestParseShaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		msg     string
	}{
		{"no markers", "void main() {}\n", 0, "no stage markers"},
		{"unknown stage", "#shader vertex\nvoid main(){}\n#shader geometry\n", 3, "unknown stage 'geometry'"},
		{"malformed marker", "#shader\n", 1, "malformed stage marker"},
		{"missing fragment", "#shader vertex\nvoid main(){}\n", 0, "missing fragment stage"},
		{"missing vertex", "#shader fragment\nvoid main(){}\n", 0, "missing vertex stage"},
		{"empty vertex", "#shader vertex\n#shader fragment\nvoid main(){}\n", 1, "empty vertex stage"},
		{"blank fragment", "#shader vertex\nvoid main(){}\n#shader fragment\n  \n\t\n", 3, "empty fragment stage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShader(writeShader(t, tt.content), 1, 2)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrShaderParse)

			var perr *core.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, perr.Msg, tt.msg)
		})
	}
}

func TestParseShaderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.shader")
	_, err := ParseShader(path, 1, 2)
	assert.ErrorIs(t, err, core.ErrShaderFile)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var ferr *core.FileError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, path, ferr.Path)
}

func TestParseShaderRejectsEmptyLightArrays(t *testing.T) {
	_, err := ParseShader(writeShader(t, twoStages), 0, 2)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestShaderLoaderDefaults(t *testing.T) {
	path := writeShader(t, twoStages)
	loader := &ShaderLoader{}

	res, err := loader.Load(path, metadata.ResourceTypeShader, nil)
	require.NoError(t, err)
	src, ok := res.Data.(*metadata.ShaderProgramSource)
	require.True(t, ok)
	assert.Contains(t, src.FragmentSource, "u_Point[1]")
	assert.Contains(t, src.FragmentSource, "u_Spot[2]")

	res, err = loader.Load(path, metadata.ResourceTypeShader, &ShaderLoadParams{PointLights: 3, SpotLights: 1})
	require.NoError(t, err)
	assert.Contains(t, res.Data.(*metadata.ShaderProgramSource).FragmentSource, "u_Point[3]")

	_, err = loader.Load(path, metadata.ResourceTypeShader, "bogus")
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestParseBundledLitShader(t *testing.T) {
	src, err := ParseShader(filepath.Join("..", "..", "..", "assets", "shaders", "lit.shader"), 4, 2)
	require.NoError(t, err)
	assert.Contains(t, src.FragmentSource, "uniform PointLight u_PointLights[4];")
	assert.Contains(t, src.FragmentSource, "uniform SpotLight u_SpotLights[2];")
	assert.Contains(t, src.FragmentSource, "#define NR_POINT_LIGHTS 4")
	assert.Contains(t, src.VertexSource, "uniform mat4 u_Model;")
}
