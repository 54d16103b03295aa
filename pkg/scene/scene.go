package scene

import (
	"fmt"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/lights"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Materials  []material.Material // Indexed by material.ID
	Spheres    []geometry.Sphere
	Triangles  []geometry.Triangle
	Lights     []lights.Light
	Camera     geometry.Camera
	Background core.Vec3
	Octree     *geometry.Octree // Index over Triangles; rebuild after any geometry change
	Settings   RenderSettings
	Logger     core.Logger
}

// RenderSettings are the render parameters a scene recommends
type RenderSettings struct {
	Width        int
	Height       int
	DepthLimit   int
	EnableOctree bool
	// OctreeHalfSize overrides the octree root half size, 0 keeps the default.
	// The root still grows to hold every triangle.
	OctreeHalfSize float64
}

// DefaultRenderSettings returns the settings used when a scene does not override them
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Width:        640,
		Height:       480,
		DepthLimit:   2,
		EnableOctree: true,
	}
}

// New creates an empty scene with a black background and a camera at z=3
func New(name string) *Scene {
	settings := DefaultRenderSettings()
	return &Scene{
		Name: name,
		Camera: geometry.NewCamera(
			core.NewVec3(0, 0, 3),
			core.NewVec3(0, 0, 0),
			core.NewVec3(0, 1, 0),
			60,
			float64(settings.Width)/float64(settings.Height),
		),
		Octree:   geometry.NewOctree(geometry.DefaultOctreeConfig()),
		Settings: settings,
	}
}

func (s *Scene) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// AddMaterial stores m in the material table and returns its handle
func (s *Scene) AddMaterial(m material.Material) material.ID {
	s.Materials = append(s.Materials, m)
	return material.ID(len(s.Materials) - 1)
}

// Material returns the table entry for id. The pointer must be treated as read-only.
func (s *Scene) Material(id material.ID) *material.Material {
	return &s.Materials[id]
}

// HasMaterial reports whether id refers to a table entry
func (s *Scene) HasMaterial(id material.ID) bool {
	return id >= 0 && int(id) < len(s.Materials)
}

func (s *Scene) mustHaveMaterial(id material.ID) {
	if !s.HasMaterial(id) {
		panic(fmt.Sprintf("scene %q: unknown material id %d", s.Name, id))
	}
}

// AddSphere appends a sphere and returns its index
func (s *Scene) AddSphere(center core.Vec3, radius float64, id material.ID) int {
	s.mustHaveMaterial(id)
	s.Spheres = append(s.Spheres, geometry.NewSphere(center, radius, id))
	return len(s.Spheres) - 1
}

// AddTriangles appends triangles. Their material IDs must already exist.
func (s *Scene) AddTriangles(triangles ...geometry.Triangle) {
	for i := range triangles {
		s.mustHaveMaterial(triangles[i].Material)
	}
	s.Triangles = append(s.Triangles, triangles...)
}

// Corner is a vertex with its texture coordinate
type Corner struct {
	Position core.Vec3
	UV       core.Vec2
}

// AddPlane appends a quad as two textured triangles. The corners are given
// counter-clockwise as seen from the front: left-top, left-bottom,
// right-bottom, right-top.
func (s *Scene) AddPlane(leftTop, leftBottom, rightBottom, rightTop Corner, id material.ID) {
	s.AddTriangles(
		geometry.NewTexturedTriangle(
			leftTop.Position, leftBottom.Position, rightTop.Position,
			leftTop.UV, leftBottom.UV, rightTop.UV, id),
		geometry.NewTexturedTriangle(
			rightTop.Position, leftBottom.Position, rightBottom.Position,
			rightTop.UV, leftBottom.UV, rightBottom.UV, id),
	)
}

// AddCube appends an axis-aligned box with front, back, top, left and right
// faces. The bottom face is omitted since boxes rest on a floor.
func (s *Scene) AddCube(center, size core.Vec3, id material.ID) {
	h := size.Multiply(0.5)
	x0, x1 := center.X-h.X, center.X+h.X
	y0, y1 := center.Y-h.Y, center.Y+h.Y
	z0, z1 := center.Z-h.Z, center.Z+h.Z

	quad := func(lt, lb, rb, rt core.Vec3) {
		s.AddPlane(
			Corner{lt, core.NewVec2(0, 0)},
			Corner{lb, core.NewVec2(0, 1)},
			Corner{rb, core.NewVec2(1, 1)},
			Corner{rt, core.NewVec2(1, 0)},
			id,
		)
	}

	// front
	quad(core.NewVec3(x0, y1, z1), core.NewVec3(x0, y0, z1), core.NewVec3(x1, y0, z1), core.NewVec3(x1, y1, z1))
	// back
	quad(core.NewVec3(x1, y1, z0), core.NewVec3(x1, y0, z0), core.NewVec3(x0, y0, z0), core.NewVec3(x0, y1, z0))
	// top
	quad(core.NewVec3(x0, y1, z0), core.NewVec3(x0, y1, z1), core.NewVec3(x1, y1, z1), core.NewVec3(x1, y1, z0))
	// left
	quad(core.NewVec3(x0, y1, z0), core.NewVec3(x0, y0, z0), core.NewVec3(x0, y0, z1), core.NewVec3(x0, y1, z1))
	// right
	quad(core.NewVec3(x1, y1, z1), core.NewVec3(x1, y0, z1), core.NewVec3(x1, y0, z0), core.NewVec3(x1, y1, z0))
}

// AddLight appends a light
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// ClearGeometry removes every sphere and triangle and destroys the octree.
// Materials, lights and the camera are kept.
func (s *Scene) ClearGeometry() {
	s.Spheres = s.Spheres[:0]
	s.Triangles = s.Triangles[:0]
	s.DestroyOctree()
}

// BuildOctree indexes the current triangles. Any previous tree is replaced.
func (s *Scene) BuildOctree(config geometry.OctreeConfig) geometry.OctreeStats {
	if s.Octree == nil || s.Octree.Config() != config {
		s.Octree = geometry.NewOctree(config)
	}
	stats := s.Octree.Build(s.Triangles)
	s.logf("built octree: empty=%d overDepth=%d underMax=%d nodes=%d depth=%d\n",
		stats.EmptyPruned, stats.StoppedByDepth, stats.StoppedByCount, stats.Nodes, stats.Depth)
	if stats.Outside > 0 {
		s.logf("Warning: %d triangles lie outside the octree bounds (half size %.1f)\n",
			stats.Outside, config.HalfSize)
	}
	return stats
}

// DestroyOctree drops the octree's nodes. Safe to call repeatedly.
func (s *Scene) DestroyOctree() {
	if s.Octree != nil {
		s.Octree.Destroy()
	}
}

// OctreeConfig returns the settings the next octree build should use: the
// current tree's config (or the default), with the root cube widened by
// RenderSettings.OctreeHalfSize and then grown to contain every triangle
func (s *Scene) OctreeConfig() geometry.OctreeConfig {
	config := geometry.DefaultOctreeConfig()
	if s.Octree != nil {
		config = s.Octree.Config()
	}
	if s.Settings.OctreeHalfSize > 0 {
		config.HalfSize = s.Settings.OctreeHalfSize
	}
	if fit := geometry.FitHalfSize(s.Triangles) + config.Padding; fit > config.HalfSize {
		config.HalfSize = fit
	}
	return config
}

// RebuildOctree destroys then builds the octree
func (s *Scene) RebuildOctree(config geometry.OctreeConfig) geometry.OctreeStats {
	s.DestroyOctree()
	return s.BuildOctree(config)
}

// PrimitiveCount returns the number of spheres plus triangles
func (s *Scene) PrimitiveCount() int {
	return len(s.Spheres) + len(s.Triangles)
}

// SetAspect updates the camera aspect ratio to match an output size
func (s *Scene) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		s.Camera.Aspect = float64(width) / float64(height)
	}
}
