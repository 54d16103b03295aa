package geometry

import (
	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V        [3]core.Vec3 // The three vertices
	Normal   core.Vec3    // Unit face normal
	UV       [3]core.Vec2 // Per-vertex texture coordinates, valid when HasUV is set
	HasUV    bool
	Material material.ID
}

// NewTriangle creates a new triangle from three vertices.
// The normal follows the winding: cross(v1-v0, v2-v0).
func NewTriangle(v0, v1, v2 core.Vec3, mat material.ID) Triangle {
	return Triangle{
		V:        [3]core.Vec3{v0, v1, v2},
		Normal:   v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		Material: mat,
	}
}

// NewTexturedTriangle creates a triangle carrying per-vertex UVs
func NewTexturedTriangle(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, mat material.ID) Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.UV = [3]core.Vec2{uv0, uv1, uv2}
	t.HasUV = true
	return t
}

// Intersect tests the ray against both faces using the Möller-Trumbore algorithm.
// It returns the ray parameter and the barycentric weights of V[1] and V[2].
func (t *Triangle) Intersect(ray core.Ray) (dist, u, v float64, ok bool) {
	const epsilon = 1e-8

	edge1 := t.V[1].Subtract(t.V[0])
	edge2 := t.V[2].Subtract(t.V[0])

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Ray lies in the triangle's plane, or the triangle has no area
	if det > -epsilon && det < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(t.V[0])
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	dist = f * edge2.Dot(q)
	if dist <= hitEpsilon {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

// InterpolateUV blends the vertex UVs with barycentric weights (u, v)
func (t *Triangle) InterpolateUV(u, v float64) core.Vec2 {
	w := 1 - u - v
	return t.UV[0].Multiply(w).Add(t.UV[1].Multiply(u)).Add(t.UV[2].Multiply(v))
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V[0], t.V[1], t.V[2])
}
