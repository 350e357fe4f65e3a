package systems

import (
	"fmt"
	stdmath "math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/primitives/engine/core"
	"github.com/spaghettifunk/primitives/engine/math"
	"github.com/spaghettifunk/primitives/engine/renderer"
	"github.com/spaghettifunk/primitives/engine/renderer/metadata"
)

const (
	PlaneGeometryName  = "plane"
	SphereGeometryName = "sphere"
	ConeGeometryName   = "cone"
	CubeGeometryName   = "cube"
)

/** @brief Configuration for the geometry system. */
type GeometrySystemConfig struct {
	/** @brief The maximum number of shapes that can be registered at once. */
	MaxGeometryCount uint32
}

/** @brief A registered shape and the number of holders sharing it. */
type GeometryReference struct {
	ReferenceCount uint64
	Shape          *renderer.Shape
	AutoRelease    bool
	// vertex and index counts of the config the shape was built from
	vertexCount uint32
	indexCount  uint32
}

// GeometryName names a generated shape by its kind and resolution, so
// shapes of different resolutions never share a registry slot.
func GeometryName(kind string, resolution uint32) string {
	return fmt.Sprintf("%s-%d", kind, resolution)
}

// GeometrySystem shares GPU shapes by name. It must only be used from the
// render thread, like the shapes it owns.
type GeometrySystem struct {
	Config   *GeometrySystemConfig
	backend  renderer.RendererBackend
	registry map[string]*GeometryReference
	mutex    sync.Mutex
}

func NewGeometrySystem(config *GeometrySystemConfig, r *renderer.Renderer) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0: %w", core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}
	return &GeometrySystem{
		Config:   config,
		backend:  r.Backend(),
		registry: make(map[string]*GeometryReference, config.MaxGeometryCount),
	}, nil
}

/**
 * @brief Registers and acquires a new shape using the given config. When a
 * shape with the same name is already registered it is shared instead. A
 * config whose vertex or index count differs from the registered shape is
 * rejected.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the shape should be destroyed when its reference count reaches 0.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig, autoRelease bool) (*renderer.Shape, error) {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()

	if config.Name == "" {
		config.Name = metadata.DefaultGeometryName
	}
	if ref, ok := gs.registry[config.Name]; ok {
		if ref.vertexCount != config.VertexCount() || ref.indexCount != config.IndexCount() {
			err := fmt.Errorf("geometry '%s' is registered with %d vertices/%d indices, got %d/%d: %w",
				config.Name, ref.vertexCount, ref.indexCount, config.VertexCount(), config.IndexCount(), core.ErrInvalidParameter)
			core.LogError(err.Error())
			return nil, err
		}
		ref.ReferenceCount++
		return ref.Shape, nil
	}
	if uint32(len(gs.registry)) >= gs.Config.MaxGeometryCount {
		err := fmt.Errorf("unable to register geometry '%s', all %d slots in use: %w", config.Name, gs.Config.MaxGeometryCount, core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}

	shape, err := renderer.NewShape(gs.backend, config)
	if err != nil {
		return nil, err
	}
	gs.registry[config.Name] = &GeometryReference{
		ReferenceCount: 1,
		Shape:          shape,
		AutoRelease:    autoRelease,
		vertexCount:    config.VertexCount(),
		indexCount:     config.IndexCount(),
	}
	return shape, nil
}

// Acquire takes another reference to an already registered shape.
func (gs *GeometrySystem) Acquire(name string) (*renderer.Shape, error) {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()

	ref, ok := gs.registry[name]
	if !ok {
		err := fmt.Errorf("geometry '%s' is not registered: %w", name, core.ErrInvalidParameter)
		core.LogError(err.Error())
		return nil, err
	}
	ref.ReferenceCount++
	return ref.Shape, nil
}

// Release drops one reference. The shape is destroyed at zero references if
// it was acquired with autoRelease.
func (gs *GeometrySystem) Release(name string) {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()

	ref, ok := gs.registry[name]
	if !ok {
		core.LogWarn("geometry_system_release called for unknown geometry '%s'", name)
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount == 0 && ref.AutoRelease {
		ref.Shape.Destroy()
		delete(gs.registry, name)
	}
}

// ReferenceCount reports the holders of name, 0 when it is not registered.
func (gs *GeometrySystem) ReferenceCount(name string) uint64 {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()
	if ref, ok := gs.registry[name]; ok {
		return ref.ReferenceCount
	}
	return 0
}

func (gs *GeometrySystem) Shutdown() error {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()
	for name, ref := range gs.registry {
		ref.Shape.Destroy()
		delete(gs.registry, name)
	}
	return nil
}

func invalidGeometry(kind, param string, value, minimum uint32) error {
	err := fmt.Errorf("%s: %s must be at least %d, got %d: %w", kind, param, minimum, value, core.ErrInvalidParameter)
	core.LogError(err.Error())
	return err
}

func finishGeometry(name string, vertices []math.Vertex3D, indices []uint32) *metadata.GeometryConfig {
	extents, center := math.GeometryComputeExtents(vertices)
	return &metadata.GeometryConfig{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Layout:   metadata.Vertex3DLayout(),
		Center:   center,
		Extents:  extents,
	}
}

/**
 * @brief Creates a flat square grid of dimensions x dimensions vertices on
 * z = 0, spanning [-0.5, 0.5] on x and y and facing -z.
 * Vertex (row, col) is stored at row*dimensions + col.
 */
func CreatePlane(dimensions uint32) (*metadata.GeometryConfig, error) {
	if dimensions < 2 {
		return nil, invalidGeometry("CreatePlane", "dimensions", dimensions, 2)
	}

	d := dimensions
	size := 1.0 / float32(d-1)
	normal := mgl32.Vec3{0, 0, -1}

	vertices := make([]math.Vertex3D, 0, d*d)
	for row := uint32(0); row < d; row++ {
		for col := uint32(0); col < d; col++ {
			u, v := float32(col)*size, float32(row)*size
			vertices = append(vertices, math.NewVertex3D(
				mgl32.Vec3{u - 0.5, v - 0.5, 0},
				normal,
				mgl32.Vec2{u, v},
			))
		}
	}

	indices := make([]uint32, 0, 6*(d-1)*(d-1))
	for row := uint32(0); row < d-1; row++ {
		for col := uint32(0); col < d-1; col++ {
			i0 := row*d + col
			i1 := (row+1)*d + col
			i2 := (row+1)*d + col + 1
			i3 := row*d + col + 1
			indices = append(indices, i0, i1, i2, i0, i2, i3)
		}
	}

	return finishGeometry(GeometryName(PlaneGeometryName, dimensions), vertices, indices), nil
}

/**
 * @brief Creates a UV sphere of radius 1 centred on the origin with
 * numberSlices meridians and numberSlices/2 parallels.
 * Row 0 is the north pole (y = +1). The seam column is duplicated so the
 * texture coordinates wrap cleanly; the pole rows collapse to one point and
 * their triangles are degenerate.
 */
func CreateSphere(numberSlices uint32) (*metadata.GeometryConfig, error) {
	if numberSlices < 3 {
		return nil, invalidGeometry("CreateSphere", "numberSlices", numberSlices, 3)
	}

	n := numberSlices
	parallels := n / 2
	azimuthStep := 2 * stdmath.Pi / float64(n)
	polarStep := stdmath.Pi / float64(parallels)

	vertices := make([]math.Vertex3D, 0, (parallels+1)*(n+1))
	for i := uint32(0); i <= parallels; i++ {
		theta := float64(i) * polarStep
		sinTheta, cosTheta := stdmath.Sincos(theta)
		for j := uint32(0); j <= n; j++ {
			phi := float64(j) * azimuthStep
			sinPhi, cosPhi := stdmath.Sincos(phi)
			p := mgl32.Vec3{
				float32(sinTheta * sinPhi),
				float32(cosTheta),
				float32(sinTheta * cosPhi),
			}
			vertices = append(vertices, math.NewVertex3D(
				p,
				p,
				mgl32.Vec2{float32(j) / float32(n), float32(i) / float32(parallels)},
			))
		}
	}

	indices := make([]uint32, 0, 6*parallels*n)
	for i := uint32(0); i < parallels; i++ {
		for j := uint32(0); j < n; j++ {
			i0 := i*(n+1) + j
			i1 := (i+1)*(n+1) + j
			i2 := (i+1)*(n+1) + j + 1
			i3 := i*(n+1) + j + 1
			indices = append(indices, i0, i1, i2, i0, i2, i3)
		}
	}

	return finishGeometry(GeometryName(SphereGeometryName, numberSlices), vertices, indices), nil
}

/**
 * @brief Creates a closed cone of height 1 with its apex at y = +0.5 and a
 * base of radius 0.5 at y = -0.5. The lateral surface is a grid of
 * (numberSlices+1)^2 vertices from the apex ring (radius 0) to the base ring;
 * the last vertex is the centre of the base cap, which is a triangle fan.
 * Every lateral vertex, the apex ring included, carries the slope normal of
 * its meridian.
 */
func CreateCone(numberSlices uint32) (*metadata.GeometryConfig, error) {
	if numberSlices < 3 {
		return nil, invalidGeometry("CreateCone", "numberSlices", numberSlices, 3)
	}

	const (
		height     = 1.0
		baseRadius = 0.5
	)
	n := numberSlices
	azimuthStep := 2 * stdmath.Pi / float64(n)

	vertices := make([]math.Vertex3D, 0, (n+1)*(n+1)+1)
	for i := uint32(0); i <= n; i++ {
		t := float64(i) / float64(n)
		r := t * baseRadius
		y := height/2 - t*height
		for j := uint32(0); j <= n; j++ {
			sinPhi, cosPhi := stdmath.Sincos(float64(j) * azimuthStep)
			normal := mgl32.Vec3{
				float32(cosPhi * height),
				float32(baseRadius),
				float32(sinPhi * height),
			}.Normalize()
			vertices = append(vertices, math.NewVertex3D(
				mgl32.Vec3{float32(r * cosPhi), float32(y), float32(r * sinPhi)},
				normal,
				mgl32.Vec2{float32(j) / float32(n), float32(1 - t)},
			))
		}
	}
	capIndex := uint32(len(vertices))
	vertices = append(vertices, math.NewVertex3D(
		mgl32.Vec3{0, -height / 2, 0},
		mgl32.Vec3{0, -1, 0},
		mgl32.Vec2{1, 1},
	))

	indices := make([]uint32, 0, 6*n*n)
	for i := uint32(0); i < n; i++ {
		for j := uint32(0); j < n; j++ {
			i0 := i*(n+1) + j
			i1 := (i+1)*(n+1) + j
			i2 := (i+1)*(n+1) + j + 1
			i3 := i*(n+1) + j + 1
			indices = append(indices, i0, i2, i1)
			// the apex ring has zero radius
			if i > 0 {
				indices = append(indices, i0, i3, i2)
			}
		}
	}
	base := n * (n + 1)
	for j := uint32(0); j < n; j++ {
		indices = append(indices, base+j+1, capIndex, base+j)
	}

	return finishGeometry(GeometryName(ConeGeometryName, numberSlices), vertices, indices), nil
}

/**
 * @brief Creates a unit cube centred on the origin. Each face has its own
 * four vertices so the normals stay flat.
 */
func CreateCube() *metadata.GeometryConfig {
	type face struct {
		normal    mgl32.Vec3
		positions [4]mgl32.Vec3
		texcoords [4]mgl32.Vec2
		indices   [6]uint32
	}
	faces := []face{
		{
			normal:    mgl32.Vec3{0, 0, -1},
			positions: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},
			texcoords: [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			indices:   [6]uint32{0, 2, 1, 0, 3, 2},
		},
		{
			normal:    mgl32.Vec3{0, 0, 1},
			positions: [4]mgl32.Vec3{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
			texcoords: [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			indices:   [6]uint32{0, 1, 2, 0, 2, 3},
		},
		{
			normal:    mgl32.Vec3{-1, 0, 0},
			positions: [4]mgl32.Vec3{{-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}},
			texcoords: [4]mgl32.Vec2{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
			indices:   [6]uint32{0, 1, 2, 0, 2, 3},
		},
		{
			normal:    mgl32.Vec3{1, 0, 0},
			positions: [4]mgl32.Vec3{{0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}},
			texcoords: [4]mgl32.Vec2{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
			indices:   [6]uint32{0, 3, 2, 0, 2, 1},
		},
		{
			normal:    mgl32.Vec3{0, -1, 0},
			positions: [4]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
			texcoords: [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
			indices:   [6]uint32{0, 1, 2, 0, 2, 3},
		},
		{
			normal:    mgl32.Vec3{0, 1, 0},
			positions: [4]mgl32.Vec3{{-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
			texcoords: [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
			indices:   [6]uint32{0, 3, 2, 0, 2, 1},
		},
	}

	vertices := make([]math.Vertex3D, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		offset := uint32(len(vertices))
		for k := range f.positions {
			vertices = append(vertices, math.NewVertex3D(f.positions[k], f.normal, f.texcoords[k]))
		}
		for _, idx := range f.indices {
			indices = append(indices, offset+idx)
		}
	}
	return finishGeometry(CubeGeometryName, vertices, indices)
}
