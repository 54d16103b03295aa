package renderer

import (
	"math"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

// refractionOffset moves a transmitted ray's origin off the surface it crosses
const refractionOffset = 1e-5

// trace returns the clamped color seen along ray. prev is the surface the
// ray leaves, depth counts recursive bounces so far, and rIndex is the
// refractive index of the medium the ray travels through.
func (t *tracer) trace(ray core.Ray, prev geometry.ObjectID, depth int, rIndex float64) core.Vec3 {
	s := t.scene
	hit, ok := t.findNearest(ray, prev, false)
	if !ok {
		return s.Background
	}
	m := hit.Material

	texture := material.White
	if hit.Textured {
		texture = m.SampleTexture(hit.UV)
	}
	color := s.Background.MultiplyVec(m.Ambient).MultiplyVec(texture)

	reflected := ray.Direction.Reflect(hit.Normal)
	color = color.Add(t.direct(hit, reflected, texture))

	if depth < t.depthLimit && m.Reflection > 0 {
		t.stats.ReflectionRays++
		mirror := t.trace(core.NewRay(hit.Point, reflected), hit.Object, depth+1, rIndex)
		color = color.Add(mirror.Multiply(m.Reflection))
	}

	if m.Refract && depth < t.depthLimit {
		if dir, ok := refract(ray.Direction, hit.Normal, rIndex/m.RefractionIndex, hit.Inside); ok {
			t.stats.RefractionRays++
			origin := hit.Point.Add(dir.Multiply(refractionOffset))
			transmitted := t.trace(core.NewRay(origin, dir), geometry.NoObject, depth+1, m.RefractionIndex)
			f := m.RefractionFactor
			color = color.Multiply(1 - f).Add(transmitted.Multiply(f))
		}
	}

	return color.Clamp(0.0, 1.0)
}

// direct sums the diffuse and specular terms of every light at the hit.
// Each term casts its own shadow ray: the diffuse one toward the light and
// the specular one along the mirror direction.
func (t *tracer) direct(hit Hit, reflected, texture core.Vec3) core.Vec3 {
	m := hit.Material
	hasSpecular := m.Specular != (core.Vec3{})
	var sum core.Vec3

	for _, light := range t.scene.Lights {
		toLight, lit := light.Illuminate(hit.Point)
		if !lit {
			continue
		}
		radiance := light.Color.Multiply(light.Intensity)

		if cos := hit.Normal.Dot(toLight); cos > 0 && !t.shaded(hit.Point, toLight, hit.Object) {
			sum = sum.Add(texture.MultiplyVec(radiance).MultiplyVec(m.Diffuse).Multiply(cos))
		}

		if !hasSpecular {
			continue
		}
		if cos := toLight.Dot(reflected); cos > 0 && !t.shaded(hit.Point, reflected, hit.Object) {
			sum = sum.Add(radiance.MultiplyVec(m.Specular).Multiply(math.Pow(cos, m.Shininess)))
		}
	}
	return sum
}

// refract bends the unit direction d through a surface with outward normal n
// using relative index eta = n1/n2. The normal is flipped when the ray starts
// inside the surface. ok is false on total internal reflection.
func refract(d, n core.Vec3, eta float64, inside bool) (core.Vec3, bool) {
	if inside {
		n = n.Negate()
	}
	cosI := -n.Dot(d)
	cosT2 := 1 - eta*eta*(1-cosI*cosI)
	if cosT2 <= 0 {
		return core.Vec3{}, false
	}
	return d.Multiply(eta).Add(n.Multiply(eta*cosI - math.Sqrt(cosT2))), true
}
