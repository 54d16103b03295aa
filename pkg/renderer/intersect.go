package renderer

import (
	"math"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/material"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// Hit describes the nearest surface along a ray
type Hit struct {
	Object   geometry.ObjectID
	T        float64
	Point    core.Vec3
	Normal   core.Vec3 // Outward unit normal
	Material *material.Material
	Inside   bool      // Ray origin is strictly inside the hit sphere
	UV       core.Vec2 // Interpolated texture coordinate, valid when Textured
	Textured bool
}

// tracer resolves and shades rays against one scene. Each worker owns one,
// so its counters need no synchronization.
type tracer struct {
	scene      *scene.Scene
	depthLimit int
	useOctree  bool
	stats      RenderStats
	opaque     func(triangle int) bool
}

func newTracer(s *scene.Scene, depthLimit int, useOctree bool) *tracer {
	t := &tracer{
		scene:      s,
		depthLimit: depthLimit,
		useOctree:  useOctree,
	}
	t.opaque = func(i int) bool {
		return !s.Material(s.Triangles[i].Material).IsTransparent()
	}
	return t
}

// findNearest returns the closest hit across spheres and triangles, skipping
// exclude. With skipTransparent, refractive surfaces are ignored on both the
// octree and brute-force triangle paths.
func (t *tracer) findNearest(ray core.Ray, exclude geometry.ObjectID, skipTransparent bool) (Hit, bool) {
	s := t.scene
	best := Hit{Object: geometry.NoObject, T: math.Inf(1)}

	for i := range s.Spheres {
		if exclude.Kind == geometry.KindSphere && exclude.Index == i {
			continue
		}
		sphere := &s.Spheres[i]
		if skipTransparent && s.Material(sphere.Material).IsTransparent() {
			continue
		}
		if d, ok := sphere.Intersect(ray); ok && d < best.T {
			best.T = d
			best.Object = geometry.SphereID(i)
		}
	}

	var accept func(int) bool
	if skipTransparent {
		accept = t.opaque
	}

	var (
		triHit geometry.TriangleHit
		found  bool
	)
	if t.useOctree {
		triHit, found = s.Octree.Nearest(ray, s.Triangles, exclude.TriangleIndex(), best.T, accept)
	} else {
		triHit, found = geometry.NearestTriangle(ray, s.Triangles, exclude.TriangleIndex(), best.T, accept)
	}
	if found {
		best.T = triHit.T
		best.Object = geometry.TriangleID(triHit.Index)
	}

	switch best.Object.Kind {
	case geometry.KindSphere:
		sphere := &s.Spheres[best.Object.Index]
		best.Point = ray.At(best.T)
		best.Normal = sphere.NormalAt(best.Point)
		best.Material = s.Material(sphere.Material)
		best.Inside = sphere.Contains(ray.Origin)
	case geometry.KindTriangle:
		tri := &s.Triangles[best.Object.Index]
		best.Point = ray.At(best.T)
		best.Normal = tri.Normal
		best.Material = s.Material(tri.Material)
		if tri.HasUV {
			best.UV = tri.InterpolateUV(triHit.U, triHit.V)
			best.Textured = true
		}
	default:
		return best, false
	}
	return best, true
}

// shaded reports whether an opaque surface lies anywhere along dir from point.
// The test is not bounded by the light distance.
func (t *tracer) shaded(point, dir core.Vec3, exclude geometry.ObjectID) bool {
	t.stats.ShadowRays++
	_, blocked := t.findNearest(core.NewRay(point, dir), exclude, true)
	return blocked
}
