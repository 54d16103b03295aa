package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/lights"
	"github.com/df07/go-octree-raytracer/pkg/material"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// Vec3JSON is a vector written as a three-element array
type Vec3JSON [3]float64

func (v Vec3JSON) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// Vec2JSON is a texture coordinate written as a two-element array
type Vec2JSON [2]float64

func (v Vec2JSON) vec() core.Vec2 { return core.NewVec2(v[0], v[1]) }

// SceneFile is the JSON scene description
type SceneFile struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Group       string                  `json:"group,omitempty"`
	Variant     string                  `json:"variant,omitempty"`
	Background  Vec3JSON                `json:"background"`
	Camera      *CameraJSON             `json:"camera,omitempty"`
	Render      *RenderJSON             `json:"render,omitempty"`
	Materials   map[string]MaterialJSON `json:"materials"`
	Spheres     []SphereJSON            `json:"spheres,omitempty"`
	Planes      []PlaneJSON             `json:"planes,omitempty"`
	Cubes       []CubeJSON              `json:"cubes,omitempty"`
	Models      []ModelJSON             `json:"models,omitempty"`
	Lights      []LightJSON             `json:"lights"`
}

// CameraJSON describes the view. FovY is in degrees.
type CameraJSON struct {
	Position Vec3JSON  `json:"position"`
	LookAt   Vec3JSON  `json:"lookAt"`
	Up       *Vec3JSON `json:"up,omitempty"`
	FovY     float64   `json:"fovy,omitempty"`
	ZNear    float64   `json:"zNear,omitempty"`
	ZFar     float64   `json:"zFar,omitempty"`
}

// RenderJSON holds the render settings a scene file recommends
type RenderJSON struct {
	Width  int   `json:"width,omitempty"`
	Height int   `json:"height,omitempty"`
	Depth  *int  `json:"depth,omitempty"`
	Octree *bool `json:"octree,omitempty"`

	OctreeHalfSize float64 `json:"octreeHalfSize,omitempty"` // Root cube half size, grown to fit the geometry
}

// MaterialJSON starts from an optional preset and overrides any given factor
type MaterialJSON struct {
	Preset     string       `json:"preset,omitempty"`
	Ambient    *Vec3JSON    `json:"ambient,omitempty"`
	Diffuse    *Vec3JSON    `json:"diffuse,omitempty"`
	Specular   *Vec3JSON    `json:"specular,omitempty"`
	Shininess  *float64     `json:"shininess,omitempty"`
	Reflection *float64     `json:"reflection,omitempty"`
	Refraction *RefractJSON `json:"refraction,omitempty"`
	Texture    *TextureJSON `json:"texture,omitempty"`
}

// RefractJSON makes a material refractive
type RefractJSON struct {
	Index  float64 `json:"index"`
	Factor float64 `json:"factor"`
}

// TextureJSON selects a surface shader: checker, uv, gradient or image
type TextureJSON struct {
	Type    string    `json:"type"`
	Cells   float64   `json:"cells,omitempty"`   // checker
	Color1  *Vec3JSON `json:"color1,omitempty"`  // checker
	Color2  *Vec3JSON `json:"color2,omitempty"`  // checker
	Base    Vec3JSON  `json:"base,omitempty"`    // gradient
	Channel int       `json:"channel,omitempty"` // gradient
	Path    string    `json:"path,omitempty"`    // image, relative to the scene file
}

// SphereJSON places a sphere
type SphereJSON struct {
	Center   Vec3JSON `json:"center"`
	Radius   float64  `json:"radius"`
	Material string   `json:"material"`
}

// PlaneJSON places a quad given as left-top, left-bottom, right-bottom, right-top
type PlaneJSON struct {
	Corners  [4]Vec3JSON  `json:"corners"`
	UVs      *[4]Vec2JSON `json:"uvs,omitempty"`
	Material string       `json:"material"`
}

// CubeJSON places a five-sided box
type CubeJSON struct {
	Center   Vec3JSON `json:"center"`
	Size     Vec3JSON `json:"size"`
	Material string   `json:"material"`
}

// ModelJSON places an OBJ or PLY mesh: rotate about Y, translate, then scale
type ModelJSON struct {
	Path      string   `json:"path"`
	Scale     float64  `json:"scale,omitempty"`
	RotateY   float64  `json:"rotateY,omitempty"` // Degrees
	Translate Vec3JSON `json:"translate,omitempty"`
	Material  string   `json:"material"`
}

// LightJSON describes a point, directional or spot light
type LightJSON struct {
	Type      string   `json:"type"`
	Position  Vec3JSON `json:"position,omitempty"`
	Direction Vec3JSON `json:"direction,omitempty"`
	Angle     float64  `json:"angle,omitempty"` // Spot cone half-angle in degrees
	Intensity float64  `json:"intensity"`
	Color     Vec3JSON `json:"color"`
}

// LoadSceneJSON reads a JSON scene file. Model and image paths are resolved
// relative to the file's directory.
func LoadSceneJSON(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseSceneJSON(file, filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParseSceneJSON decodes a scene description and builds the scene.
// The octree is not built.
func ParseSceneJSON(r io.Reader, baseDir string) (*scene.Scene, error) {
	var file SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scene JSON: %w", err)
	}
	return file.Build(baseDir)
}

// Build converts the description into a scene
func (f *SceneFile) Build(baseDir string) (*scene.Scene, error) {
	name := f.Name
	if name == "" {
		name = "untitled"
	}
	s := scene.New(name)
	s.Background = f.Background.vec()

	if f.Render != nil {
		if f.Render.Width > 0 {
			s.Settings.Width = f.Render.Width
		}
		if f.Render.Height > 0 {
			s.Settings.Height = f.Render.Height
		}
		if f.Render.Depth != nil {
			if *f.Render.Depth < 0 {
				return nil, fmt.Errorf("render depth must be >= 0, got %d", *f.Render.Depth)
			}
			s.Settings.DepthLimit = *f.Render.Depth
		}
		if f.Render.OctreeHalfSize < 0 {
			return nil, fmt.Errorf("render octreeHalfSize must be >= 0, got %g", f.Render.OctreeHalfSize)
		}
		s.Settings.OctreeHalfSize = f.Render.OctreeHalfSize
		if f.Render.Octree != nil {
			s.Settings.EnableOctree = *f.Render.Octree
		}
	}

	if f.Camera != nil {
		up := core.NewVec3(0, 1, 0)
		if f.Camera.Up != nil {
			up = f.Camera.Up.vec()
		}
		fovY := f.Camera.FovY
		if fovY == 0 {
			fovY = 60
		}
		s.Camera = geometry.NewCamera(f.Camera.Position.vec(), f.Camera.LookAt.vec(), up, fovY, 1)
		if f.Camera.ZNear > 0 {
			s.Camera.ZNear = f.Camera.ZNear
		}
		if f.Camera.ZFar > 0 {
			s.Camera.ZFar = f.Camera.ZFar
		}
	}
	s.SetAspect(s.Settings.Width, s.Settings.Height)

	// Sorted so material IDs are stable across loads
	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]material.ID, len(names))
	for _, name := range names {
		m, err := f.Materials[name].build(name, baseDir)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		ids[name] = s.AddMaterial(m)
	}
	lookup := func(kind string, i int, name string) (material.ID, error) {
		id, ok := ids[name]
		if !ok {
			return 0, fmt.Errorf("%s %d: unknown material %q", kind, i, name)
		}
		return id, nil
	}

	for i, sp := range f.Spheres {
		id, err := lookup("sphere", i, sp.Material)
		if err != nil {
			return nil, err
		}
		if sp.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, sp.Radius)
		}
		s.AddSphere(sp.Center.vec(), sp.Radius, id)
	}

	for i, p := range f.Planes {
		id, err := lookup("plane", i, p.Material)
		if err != nil {
			return nil, err
		}
		uvs := [4]Vec2JSON{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
		if p.UVs != nil {
			uvs = *p.UVs
		}
		var corners [4]scene.Corner
		for k := range corners {
			corners[k] = scene.Corner{Position: p.Corners[k].vec(), UV: uvs[k].vec()}
		}
		s.AddPlane(corners[0], corners[1], corners[2], corners[3], id)
	}

	for i, c := range f.Cubes {
		id, err := lookup("cube", i, c.Material)
		if err != nil {
			return nil, err
		}
		s.AddCube(c.Center.vec(), c.Size.vec(), id)
	}

	for i, m := range f.Models {
		id, err := lookup("model", i, m.Material)
		if err != nil {
			return nil, err
		}
		placement := core.Translate(m.Translate.vec()).Mul(core.RotateY(m.RotateY * math.Pi / 180))
		triangles, _, err := LoadMesh(resolvePath(baseDir, m.Path), MeshOptions{
			Scale:     m.Scale,
			Transform: &placement,
			Material:  id,
		})
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		s.AddTriangles(triangles...)
	}

	for i, l := range f.Lights {
		light, err := l.build()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	return s, nil
}

func (m MaterialJSON) build(name, baseDir string) (material.Material, error) {
	var mat material.Material
	if m.Preset != "" {
		preset, err := material.Preset(m.Preset)
		if err != nil {
			return mat, err
		}
		mat = preset
	}
	mat.Name = name

	if m.Ambient != nil {
		mat.Ambient = m.Ambient.vec()
	}
	if m.Diffuse != nil {
		mat.Diffuse = m.Diffuse.vec()
	}
	if m.Specular != nil {
		mat.Specular = m.Specular.vec()
	}
	if m.Shininess != nil {
		if *m.Shininess < 0 {
			return mat, fmt.Errorf("shininess must be >= 0, got %g", *m.Shininess)
		}
		mat.Shininess = *m.Shininess
	}
	if m.Reflection != nil {
		mat.Reflection = *m.Reflection
	}
	if m.Refraction != nil {
		if m.Refraction.Index <= 0 {
			return mat, fmt.Errorf("refraction index must be positive, got %g", m.Refraction.Index)
		}
		mat.Refract = true
		mat.RefractionIndex = m.Refraction.Index
		mat.RefractionFactor = m.Refraction.Factor
	}
	if m.Texture != nil {
		shader, err := m.Texture.build(baseDir)
		if err != nil {
			return mat, err
		}
		mat.Shader = shader
	}
	return mat, nil
}

func (t TextureJSON) build(baseDir string) (material.SurfaceShader, error) {
	switch t.Type {
	case "checker":
		checker := material.NewCheckerboard()
		if t.Cells > 0 {
			checker.Cells = t.Cells
		}
		if t.Color1 != nil {
			checker.Color1 = t.Color1.vec()
		}
		if t.Color2 != nil {
			checker.Color2 = t.Color2.vec()
		}
		return checker, nil
	case "uv":
		return material.NewUVDebugShader(), nil
	case "gradient":
		if t.Channel < 0 || t.Channel > 2 {
			return nil, fmt.Errorf("gradient channel must be 0, 1 or 2, got %d", t.Channel)
		}
		return material.NewWallGradient(t.Base.vec(), t.Channel), nil
	case "image":
		return LoadImageTexture(resolvePath(baseDir, t.Path))
	default:
		return nil, fmt.Errorf("unknown texture type %q", t.Type)
	}
}

func (l LightJSON) build() (lights.Light, error) {
	color := l.Color.vec()
	switch l.Type {
	case "point":
		return lights.NewPointLight(l.Position.vec(), l.Intensity, color), nil
	case "directional":
		if l.Direction.vec().LengthSquared() == 0 {
			return lights.Light{}, fmt.Errorf("directional light needs a direction")
		}
		return lights.NewDirectionalLight(l.Direction.vec(), l.Intensity, color), nil
	case "spot":
		if l.Direction.vec().LengthSquared() == 0 {
			return lights.Light{}, fmt.Errorf("spot light needs a direction")
		}
		return lights.NewSpotLight(l.Position.vec(), l.Direction.vec(), l.Angle, l.Intensity, color), nil
	default:
		return lights.Light{}, fmt.Errorf("unknown light type %q", l.Type)
	}
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
