package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/lights"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

var builtins = map[string]struct {
	description string
	build       func() *Scene
}{
	"spheres": {"A single diffuse sphere lit by one point light", NewSpheresScene},
	"gallery": {"Textured room with copper and glass spheres under point, directional and spot lights", NewGalleryScene},
	"bars":    {"A row of sixteen chrome bars on a checker floor", NewBarsScene},
}

// BuiltinNames lists the built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSceneByName creates a built-in scene
func NewSceneByName(name string) (*Scene, error) {
	entry, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return entry.build(), nil
}

// NewSpheresScene creates one unit diffuse sphere at the origin lit from the camera side
func NewSpheresScene() *Scene {
	s := New("spheres")
	s.Settings = RenderSettings{Width: 320, Height: 240, DepthLimit: 2, EnableOctree: true}
	s.Camera = geometry.NewCamera(
		core.NewVec3(0, 0, 4),
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		60,
		320.0/240.0,
	)

	red := s.AddMaterial(material.Diffuse(core.NewVec3(0.8, 0.2, 0.2)))
	s.AddSphere(core.NewVec3(0, 0, 0), 1, red)
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 0, 5), 1, core.NewVec3(1, 1, 1)))
	return s
}

// NewGalleryScene creates a small room: a gradient floor and side walls, a
// checker back wall, copper and glass spheres and a chrome box.
func NewGalleryScene() *Scene {
	s := New("gallery")
	s.Settings = RenderSettings{Width: 640, Height: 480, DepthLimit: 3, EnableOctree: true}
	s.Camera = geometry.NewCamera(
		core.NewVec3(0, 0.5, 1.8),
		core.NewVec3(0, 0.2, 0),
		core.NewVec3(0, 1, 0),
		60,
		640.0/480.0,
	)

	copper := s.AddMaterial(material.Copper())
	glass := s.AddMaterial(material.Glass())
	chrome := s.AddMaterial(material.Chrome())
	checker := s.AddMaterial(material.CheckerFloor())
	leftWall := s.AddMaterial(material.Wall().WithShader(material.NewWallGradient(core.NewVec3(1, 0, 0), 1)))
	floor := s.AddMaterial(material.Wall().WithShader(material.NewWallGradient(core.NewVec3(0, 0, 1), 1)))
	rightWall := s.AddMaterial(material.Wall().WithShader(material.NewWallGradient(core.NewVec3(0, 0, 1), 0)))

	s.AddSphere(core.NewVec3(0.25, 0.1, 0), 0.1, copper)
	s.AddSphere(core.NewVec3(-0.4, 0.2, 0), 0.2, glass)
	s.AddCube(core.NewVec3(0.05, 0.075, -0.6), core.NewVec3(0.15, 0.15, 0.15), chrome)

	const w, front, back, h, y = 5.0, 2.0, -2.0, 5.0, -0.01
	corner := func(x, y, z, u, v float64) Corner {
		return Corner{core.NewVec3(x, y, z), core.NewVec2(u, v)}
	}
	s.AddPlane(corner(-w, y, back, 0, 0), corner(-w, y, front, 0, 1), corner(w, y, front, 1, 1), corner(w, y, back, 1, 0), floor)
	s.AddPlane(corner(-w, h, back, 0, 0), corner(-w, y, back, 0, 1), corner(w, y, back, 1, 1), corner(w, h, back, 1, 0), checker)
	s.AddPlane(corner(-w, h, front, 0, 0), corner(-w, y, front, 0, 1), corner(-w, y, back, 1, 1), corner(-w, h, back, 1, 0), leftWall)
	s.AddPlane(corner(w, h, back, 0, 0), corner(w, y, back, 0, 1), corner(w, y, front, 1, 1), corner(w, h, front, 1, 0), rightWall)

	white := core.NewVec3(1, 1, 1)
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 0.5, 0), 1, white))
	s.AddLight(lights.NewDirectionalLight(core.NewVec3(0.5, -0.5, -1), 1, white))
	s.AddLight(lights.NewSpotLight(core.NewVec3(-0.05, 0.2, 1), core.NewVec3(0.1, 0, -1), 3, 3, core.NewVec3(0, 0, 1)))
	return s
}

// BarCount is the number of bars in the bars scene
const BarCount = 16

// NewBarsScene creates a checker floor with a row of box bars whose
// heights follow a fixed envelope and whose color ramps from red to yellow.
func NewBarsScene() *Scene {
	s := New("bars")
	s.Settings = RenderSettings{Width: 1280, Height: 720, DepthLimit: 2, EnableOctree: true}
	s.Camera = geometry.NewCamera(
		core.NewVec3(0, 1.3, 3.5),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, 1, 0),
		70,
		1280.0/720.0,
	)

	checker := s.AddMaterial(material.CheckerFloor())
	const w, front, back, y = 5.0, 5.0, -5.0, -0.01
	s.AddPlane(
		Corner{core.NewVec3(-w, y, back), core.NewVec2(0, 0)},
		Corner{core.NewVec3(-w, y, front), core.NewVec2(0, 1)},
		Corner{core.NewVec3(w, y, front), core.NewVec2(1, 1)},
		Corner{core.NewVec3(w, y, back), core.NewVec2(1, 0)},
		checker,
	)

	const span = 2.5
	const gap = 0.025
	dw := span * 2 / BarCount
	for j := 0; j < BarCount; j++ {
		bar := material.Chrome().WithDiffuse(core.NewVec3(0.6, 0.6*float64(j)/8, 0))
		bar.Name = fmt.Sprintf("bar%02d", j)
		id := s.AddMaterial(bar)

		height := BarHeight(j)
		x0 := (dw+gap)*float64(j-BarCount/2) - (dw+gap)/2
		s.AddCube(core.NewVec3(x0+dw/2, height/2, 0), core.NewVec3(dw, height, dw), id)
	}

	s.AddLight(lights.NewPointLight(core.NewVec3(-2, 1, 3), 2, core.NewVec3(0.9, 0.9, 1)))
	return s
}

// BarHeight returns the height of bar j in the bars scene
func BarHeight(j int) float64 {
	return 0.3 + 1.2*math.Sin(float64(j+1)/float64(BarCount+1)*math.Pi)
}
