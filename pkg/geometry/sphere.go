package geometry

import (
	"math"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

// hitEpsilon is the smallest ray parameter counted as a hit
const hitEpsilon = 1e-6

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.ID
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.ID) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect returns the distance to the first surface crossing along a
// unit-direction ray. From inside the sphere that is the exit point.
// A sphere with non-positive radius is never hit.
func (s Sphere) Intersect(ray core.Ray) (float64, bool) {
	if s.Radius <= 0 {
		return 0, false
	}

	toCenter := s.Center.Subtract(ray.Origin)
	projection := ray.Direction.Dot(toCenter)
	inside := s.Contains(ray.Origin)

	// Entirely behind the origin
	if !inside && projection < 0 {
		return 0, false
	}

	closest := toCenter.Subtract(ray.Direction.Multiply(projection))
	dist2 := closest.LengthSquared()
	r2 := s.Radius * s.Radius
	if dist2 > r2 {
		return 0, false
	}

	halfChord := math.Sqrt(r2 - dist2)
	if !inside {
		if t := projection - halfChord; t > hitEpsilon {
			return t, true
		}
		// Origin sits on the surface: fall through to the far side
	}
	if t := projection + halfChord; t > hitEpsilon {
		return t, true
	}
	return 0, false
}

// Contains reports whether p lies strictly inside the sphere
func (s Sphere) Contains(p core.Vec3) bool {
	return p.Subtract(s.Center).LengthSquared() < s.Radius*s.Radius
}

// NormalAt returns the outward unit normal for a point on the surface
func (s Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Multiply(1.0 / s.Radius)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
