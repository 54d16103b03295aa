package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/lights"
	"github.com/df07/go-octree-raytracer/pkg/material"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// newSphereScene builds one unit sphere at the origin with the given material
// and a white point light at (0,0,5) over a background
func newSphereScene(m material.Material, background core.Vec3, intensity float64) *scene.Scene {
	s := scene.New("sphere")
	s.Background = background
	id := s.AddMaterial(m)
	s.AddSphere(core.NewVec3(0, 0, 0), 1, id)
	s.AddLight(lights.NewPointLight(core.NewVec3(0, 0, 5), intensity, core.NewVec3(1, 1, 1)))
	return s
}

func TestTrace_ApexColorIsIntensityTimesDiffuse(t *testing.T) {
	tests := []struct {
		name      string
		diffuse   core.Vec3
		intensity float64
		expected  core.Vec3
	}{
		{"Unit light", core.NewVec3(0.8, 0.2, 0.2), 1.0, core.NewVec3(0.8, 0.2, 0.2)},
		{"Dim light", core.NewVec3(0.5, 1.0, 0.25), 0.5, core.NewVec3(0.25, 0.5, 0.125)},
		{"Clamped", core.NewVec3(0.9, 0.3, 0.1), 2.0, core.NewVec3(1.0, 0.6, 0.2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSphereScene(material.Diffuse(tt.diffuse), core.Vec3{}, tt.intensity)
			tr := newTracer(s, 2, false)

			ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
			got := tr.trace(ray, geometry.NoObject, 0, 1.0)

			if !got.Equals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTrace_MissReturnsBackground(t *testing.T) {
	background := core.NewVec3(0.1, 0.2, 0.3)
	s := newSphereScene(material.Chrome(), background, 1)
	tr := newTracer(s, 3, false)

	ray := core.NewRay(core.NewVec3(0, 5, 3), core.NewVec3(0, 0, -1))
	if got := tr.trace(ray, geometry.NoObject, 0, 1.0); got != background {
		t.Errorf("Expected exactly the background %v, got %v", background, got)
	}
}

func TestTrace_UnlitSideIsBlack(t *testing.T) {
	s := newSphereScene(material.Diffuse(core.NewVec3(1, 1, 1)), core.Vec3{}, 1)
	s.Lights[0] = lights.NewPointLight(core.NewVec3(0, 0, -5), 1, core.NewVec3(1, 1, 1))
	tr := newTracer(s, 2, false)

	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	if got := tr.trace(ray, geometry.NoObject, 0, 1.0); got != (core.Vec3{}) {
		t.Errorf("Sphere lit from behind should be black at the apex, got %v", got)
	}
	if tr.stats.ShadowRays != 0 {
		t.Errorf("Back-facing light should cast no shadow rays, cast %d", tr.stats.ShadowRays)
	}
}

func TestTrace_DepthLimitZeroSkipsRecursion(t *testing.T) {
	background := core.NewVec3(0.3, 0.3, 0.3)
	mirror := material.Diffuse(core.NewVec3(0.2, 0.2, 0.2))
	mirror.Reflection = 0.5
	mirror.Refract = true
	mirror.RefractionIndex = 1.5
	mirror.RefractionFactor = 0.5

	local := mirror
	local.Reflection = 0
	local.Refract = false

	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	tr := newTracer(newSphereScene(mirror, background, 1), 0, false)
	got := tr.trace(ray, geometry.NoObject, 0, 1.0)
	expected := newTracer(newSphereScene(local, background, 1), 0, false).trace(ray, geometry.NoObject, 0, 1.0)

	if got != expected {
		t.Errorf("Depth 0 should give local shading only: expected %v, got %v", expected, got)
	}
	if tr.stats.ReflectionRays != 0 || tr.stats.RefractionRays != 0 {
		t.Errorf("Depth 0 traced %d reflection and %d refraction rays", tr.stats.ReflectionRays, tr.stats.RefractionRays)
	}

	// One level deeper the mirror picks up the background behind the camera
	deeper := newTracer(newSphereScene(mirror, background, 1), 1, false)
	if reflected := deeper.trace(ray, geometry.NoObject, 0, 1.0); reflected == expected {
		t.Error("Depth 1 should add a reflection contribution")
	}
	if deeper.stats.ReflectionRays != 1 {
		t.Errorf("Expected 1 reflection ray at depth 1, got %d", deeper.stats.ReflectionRays)
	}
}

func TestTrace_TotalInternalReflection(t *testing.T) {
	glass := material.Diffuse(core.NewVec3(0.4, 0.4, 0.4))
	glass.Refract = true
	glass.RefractionIndex = 1.5
	glass.RefractionFactor = 0.7

	opaque := glass
	opaque.Refract = false

	// Grazing hit: sin²(incidence) = 0.81, relative index 3.0/1.5 = 2
	ray := core.NewRay(core.NewVec3(0.9, 0, 5), core.NewVec3(0, 0, -1))
	background := core.NewVec3(0.2, 0.2, 0.2)

	tr := newTracer(newSphereScene(glass, background, 1), 3, false)
	got := tr.trace(ray, geometry.NoObject, 0, 3.0)
	expected := newTracer(newSphereScene(opaque, background, 1), 3, false).trace(ray, geometry.NoObject, 0, 3.0)

	if got != expected {
		t.Errorf("Total internal reflection should add nothing: expected %v, got %v", expected, got)
	}
	if tr.stats.RefractionRays != 0 {
		t.Errorf("No transmitted ray should be traced, got %d", tr.stats.RefractionRays)
	}
}

func TestTrace_RefractionBlendsTransmittedColor(t *testing.T) {
	glass := material.Diffuse(core.Vec3{})
	glass.Refract = true
	glass.RefractionIndex = 1.5
	glass.RefractionFactor = 0.5
	background := core.NewVec3(0.4, 0.6, 0.8)

	s := newSphereScene(glass, background, 0)
	tr := newTracer(s, 4, false)

	// Straight through the center: no bending, exits into the background
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	got := tr.trace(ray, geometry.NoObject, 0, 1.0)

	// Entry blends black with the inner trace, which blends black with the background
	expected := background.Multiply(0.25)
	if !got.Equals(expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if tr.stats.RefractionRays != 2 {
		t.Errorf("Expected entry and exit refraction rays, got %d", tr.stats.RefractionRays)
	}
}

func TestRefract(t *testing.T) {
	normal := core.NewVec3(0, 1, 0)
	grazing := core.NewVec3(math.Sin(math.Pi/3), -math.Cos(math.Pi/3), 0)

	tests := []struct {
		name     string
		d        core.Vec3
		eta      float64
		inside   bool
		ok       bool
		expected core.Vec3
	}{
		{"Normal incidence passes straight", core.NewVec3(0, -1, 0), 1 / 1.5, false, true, core.NewVec3(0, -1, 0)},
		{"Equal indices do not bend", grazing, 1.0, false, true, grazing},
		{"Dense to thin at 60 degrees reflects totally", grazing, 1.5, false, false, core.Vec3{}},
		{"Inside flips the normal", core.NewVec3(0, 1, 0), 1.0, true, true, core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := refract(tt.d, normal, tt.eta, tt.inside)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !got.Equals(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	// Snell: n1 sin(i) = n2 sin(t)
	eta := 1 / 1.5
	got, ok := refract(grazing, normal, eta, false)
	if !ok {
		t.Fatal("Thin to dense refraction should never reflect totally")
	}
	if math.Abs(got.Length()-1) > 1e-12 {
		t.Errorf("Transmitted direction should be unit length, got %f", got.Length())
	}
	if sinT := math.Abs(got.X); math.Abs(sinT-eta*grazing.X) > 1e-12 {
		t.Errorf("Snell's law violated: sin(t) = %f, expected %f", sinT, eta*grazing.X)
	}
}

func TestFindNearest_ShadowSkipsTransparent(t *testing.T) {
	s := scene.New("shadow")
	glass := s.AddMaterial(material.Glass())
	matte := s.AddMaterial(material.Diffuse(core.NewVec3(1, 1, 1)))
	s.AddSphere(core.NewVec3(0, 0, -2), 0.5, glass)
	s.AddTriangles(geometry.NewTriangle(
		core.NewVec3(-1, -1, -4), core.NewVec3(1, -1, -4), core.NewVec3(0, 1, -4), matte))
	s.AddTriangles(geometry.NewTriangle(
		core.NewVec3(-1, -1, -3), core.NewVec3(1, -1, -3), core.NewVec3(0, 1, -3), glass))
	s.BuildOctree(geometry.DefaultOctreeConfig())

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for _, useOctree := range []bool{false, true} {
		tr := newTracer(s, 2, useOctree)

		hit, ok := tr.findNearest(ray, geometry.NoObject, false)
		if !ok || hit.Object != geometry.SphereID(0) || math.Abs(hit.T-1.5) > 1e-9 {
			t.Errorf("octree=%v: expected the glass sphere at t=1.5, got %v at %f", useOctree, hit.Object, hit.T)
		}

		hit, ok = tr.findNearest(ray, geometry.NoObject, true)
		if !ok || hit.Object != geometry.TriangleID(0) || math.Abs(hit.T-4) > 1e-9 {
			t.Errorf("octree=%v: shadow query should see only the opaque triangle, got %v at %f", useOctree, hit.Object, hit.T)
		}

		hit, _ = tr.findNearest(ray, geometry.SphereID(0), false)
		if hit.Object != geometry.TriangleID(1) {
			t.Errorf("octree=%v: excluding the sphere should reveal the glass triangle, got %v", useOctree, hit.Object)
		}
	}
}

func TestFindNearest_HitDetails(t *testing.T) {
	s := scene.New("details")
	id := s.AddMaterial(material.Diffuse(core.NewVec3(1, 1, 1)))
	s.AddSphere(core.NewVec3(0, 0, 0), 1, id)
	s.AddTriangles(geometry.NewTexturedTriangle(
		core.NewVec3(-1, -1, -5), core.NewVec3(1, -1, -5), core.NewVec3(-1, 1, -5),
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1), id))
	tr := newTracer(s, 2, false)

	// From inside the sphere the hit is the exit point with an outward normal
	hit, ok := tr.findNearest(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), geometry.NoObject, false)
	if !ok || !hit.Inside || !hit.Normal.Equals(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected an inside hit with normal +Y, got %+v", hit)
	}

	// Starting on the surface and heading out finds nothing
	if _, ok := tr.findNearest(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), geometry.NoObject, false); ok {
		t.Error("A ray leaving the sphere surface outward should miss")
	}

	// Starting on the surface and heading in finds the far side, not the origin point
	hit, ok = tr.findNearest(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), geometry.NoObject, false)
	if !ok || hit.Inside || math.Abs(hit.T-2) > 1e-12 {
		t.Errorf("Expected the far side at t=2, got %+v", hit)
	}

	// Triangle hits carry interpolated UVs
	hit, ok = tr.findNearest(core.NewRay(core.NewVec3(-0.5, -0.5, 2), core.NewVec3(0, 0, -1)), geometry.SphereID(0), false)
	if !ok || hit.Object != geometry.TriangleID(0) || !hit.Textured {
		t.Fatalf("Expected a textured triangle hit, got %+v", hit)
	}
	if math.Abs(hit.UV.U-0.25) > 1e-12 || math.Abs(hit.UV.V-0.25) > 1e-12 {
		t.Errorf("Expected UV (0.25, 0.25), got %v", hit.UV)
	}
}

func TestTrace_TextureModulatesDiffuse(t *testing.T) {
	s := scene.New("texture")
	green := material.Diffuse(core.NewVec3(1, 1, 1)).WithShader(material.NewSolidColor(core.NewVec3(0, 1, 0)))
	id := s.AddMaterial(green)
	s.AddTriangles(geometry.NewTexturedTriangle(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(-1, 1, 0),
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1), id))
	s.AddLight(lights.NewPointLight(core.NewVec3(-0.5, -0.5, 1), 1, core.NewVec3(1, 1, 1)))
	tr := newTracer(s, 0, false)

	got := tr.trace(core.NewRay(core.NewVec3(-0.5, -0.5, 2), core.NewVec3(0, 0, -1)), geometry.NoObject, 0, 1.0)
	if !got.Equals(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected pure green, got %v", got)
	}
}

func TestTrace_SpotLightCone(t *testing.T) {
	s := newSphereScene(material.Diffuse(core.NewVec3(1, 1, 1)), core.Vec3{}, 1)
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	s.Lights[0] = lights.NewSpotLight(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 10, 1, core.NewVec3(1, 1, 1))
	if got := newTracer(s, 0, false).trace(ray, geometry.NoObject, 0, 1.0); got.X <= 0 {
		t.Errorf("Apex inside the cone should be lit, got %v", got)
	}

	s.Lights[0] = lights.NewSpotLight(core.NewVec3(0, 0, 5), core.NewVec3(0, 1, 0), 10, 1, core.NewVec3(1, 1, 1))
	if got := newTracer(s, 0, false).trace(ray, geometry.NoObject, 0, 1.0); got != (core.Vec3{}) {
		t.Errorf("Apex outside the cone should be black, got %v", got)
	}
}

func TestTrace_OccluderCastsShadow(t *testing.T) {
	s := newSphereScene(material.Diffuse(core.NewVec3(1, 1, 1)), core.Vec3{}, 1)
	blocker := s.AddMaterial(material.Diffuse(core.NewVec3(1, 1, 1)))
	s.AddSphere(core.NewVec3(0, 0, 3.5), 0.2, blocker)

	ray := core.NewRay(core.NewVec3(0, 0.5, 3), core.NewVec3(0, -0.5, -2).Normalize())

	// The camera ray passes below the blocker, the apex shadow ray runs into it
	got := newTracer(s, 0, false).trace(ray, geometry.NoObject, 0, 1.0)
	if got != (core.Vec3{}) {
		t.Errorf("Apex behind an opaque blocker should be black, got %v", got)
	}
}

func TestTrace_SpecularShadowFollowsMirrorDirection(t *testing.T) {
	shiny := material.Material{Specular: core.NewVec3(1, 1, 1), Shininess: 1}

	// Viewed from below the axis the mirror direction at the apex is
	// (0, 1, 1)/sqrt2 while the light sits straight up at (0, 0, 5)
	ray := core.NewRay(core.NewVec3(0, -2, 3), core.NewVec3(0, 2, -2).Normalize())
	highlight := core.NewVec3(1, 1, 1).Multiply(math.Sqrt2 / 2)

	tests := []struct {
		name     string
		blocker  *core.Vec3
		expected core.Vec3
	}{
		{"Unobstructed", nil, highlight},
		{"Blocker on the mirror ray", &core.Vec3{X: 0, Y: math.Sqrt2, Z: 1 + math.Sqrt2}, core.Vec3{}},
		{"Blocker toward the light", &core.Vec3{X: 0, Y: 0, Z: 3.5}, highlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSphereScene(shiny, core.Vec3{}, 1)
			if tt.blocker != nil {
				id := s.AddMaterial(material.Diffuse(core.NewVec3(1, 1, 1)))
				s.AddSphere(*tt.blocker, 0.2, id)
			}

			got := newTracer(s, 0, false).trace(ray, geometry.NoObject, 0, 1.0)
			if !got.Equals(tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
