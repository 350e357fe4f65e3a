package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

const (
	DefaultPointLights = 1
	DefaultSpotLights  = 2

	// StageMarker starts a line naming the stage the following lines belong
	// to, e.g. "#shader vertex".
	StageMarker = "#shader"

	PointLightsPlaceholder = "{{POINT_LIGHTS}}"
	SpotLightsPlaceholder  = "{{SPOT_LIGHTS}}"
)

// ShaderLoadParams sizes the light arrays of a shader file.
type ShaderLoadParams struct {
	PointLights int
	SpotLights  int
}

type ShaderLoader struct{}

// Load parses a combined shader file. params may be nil, a ShaderLoadParams
// or a *ShaderLoadParams; nil uses the default light counts.
func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	p := ShaderLoadParams{PointLights: DefaultPointLights, SpotLights: DefaultSpotLights}
	switch v := params.(type) {
	case nil:
	case ShaderLoadParams:
		p = v
	case *ShaderLoadParams:
		p = *v
	default:
		return nil, fmt.Errorf("failed to cast params in shader loader: %w", core.ErrInvalidParameter)
	}

	source, err := ParseShader(path, p.PointLights, p.SpotLights)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(len(source.VertexSource) + len(source.FragmentSource)),
		Data:     source,
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}

// ParseShader splits the file at path into its vertex and fragment sources.
// Each "#shader <stage>" line starts a stage; lines before the first marker
// are dropped. The light placeholders are replaced by the given counts so the
// stage sources declare concretely sized arrays.
func ParseShader(path string, pointLights, spotLights int) (*metadata.ShaderProgramSource, error) {
	if pointLights < 1 || spotLights < 1 {
		err := fmt.Errorf("shader '%s': light counts must be at least 1 (point=%d, spot=%d): %w", path, pointLights, spotLights, core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		ferr := &core.FileError{Path: path, Err: err}
		core.LogError(ferr.Error())
		return nil, ferr
	}
	defer file.Close()

	replacer := strings.NewReplacer(
		PointLightsPlaceholder, strconv.Itoa(pointLights),
		SpotLightsPlaceholder, strconv.Itoa(spotLights),
	)

	var builders [2]strings.Builder
	seen := [2]bool{}
	markerLines := [2]int{}
	current := -1

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == StageMarker {
			if len(fields) != 2 {
				return nil, parseError(path, lineNumber, fmt.Sprintf("malformed stage marker '%s'", strings.TrimSpace(line)))
			}
			stage, err := metadata.ShaderStageFromString(fields[1])
			if err != nil {
				return nil, parseError(path, lineNumber, fmt.Sprintf("unknown stage '%s'", fields[1]))
			}
			current = stageSlot(stage)
			seen[current] = true
			markerLines[current] = lineNumber
			continue
		}

		if current < 0 {
			continue
		}
		builders[current].WriteString(replacer.Replace(line))
		builders[current].WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		ferr := &core.FileError{Path: path, Err: err}
		core.LogError(ferr.Error())
		return nil, ferr
	}

	if !seen[0] && !seen[1] {
		return nil, parseError(path, 0, "no stage markers found")
	}
	if !seen[0] {
		return nil, parseError(path, 0, "missing vertex stage")
	}
	if !seen[1] {
		return nil, parseError(path, 0, "missing fragment stage")
	}

	for slot, name := range [2]string{"vertex", "fragment"} {
		if strings.TrimSpace(builders[slot].String()) == "" {
			return nil, parseError(path, markerLines[slot], fmt.Sprintf("empty %s stage", name))
		}
	}

	return &metadata.ShaderProgramSource{
		VertexSource:   builders[0].String(),
		FragmentSource: builders[1].String(),
	}, nil
}

func stageSlot(stage metadata.ShaderStage) int {
	if stage == metadata.ShaderStageFragment {
		return 1
	}
	return 0
}

func parseError(path string, line int, msg string) error {
	err := &core.ParseError{Path: path, Line: line, Msg: msg}
	core.LogError(err.Error())
	return err
}
