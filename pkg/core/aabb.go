package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return AABB{Min: min, Max: max}
}

// NewCube creates an AABB centered on the origin with the given half extent
func NewCube(halfSize float64) AABB {
	return AABB{
		Min: NewVec3(-halfSize, -halfSize, -halfSize),
		Max: NewVec3(halfSize, halfSize, halfSize),
	}
}

// HitInv reports whether the ray enters the box anywhere at t >= 0.
// It uses the ray's precomputed inverse direction. An infinite inverse
// component makes that slab either always or never overlap; a NaN product
// (origin exactly on a slab plane of a parallel ray) leaves the interval unchanged.
func (aabb AABB) HitInv(ray Ray) bool {
	tEnter := math.Inf(-1)
	tExit := math.Inf(1)

	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	inv := [3]float64{ray.InvDirection.X, ray.InvDirection.Y, ray.InvDirection.Z}
	lo := [3]float64{aabb.Min.X, aabb.Min.Y, aabb.Min.Z}
	hi := [3]float64{aabb.Max.X, aabb.Max.Y, aabb.Max.Z}

	for axis := 0; axis < 3; axis++ {
		t1 := (lo[axis] - origin[axis]) * inv[axis]
		t2 := (hi[axis] - origin[axis]) * inv[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
	}

	return !(tExit < 0 || tEnter > tExit)
}

// Overlaps reports whether two boxes share any point, boundaries included
func (aabb AABB) Overlaps(other AABB) bool {
	return !(other.Max.X < aabb.Min.X ||
		other.Max.Y < aabb.Min.Y ||
		other.Max.Z < aabb.Min.Z ||
		other.Min.X > aabb.Max.X ||
		other.Min.Y > aabb.Max.Y ||
		other.Min.Z > aabb.Max.Z)
}

// Contains reports whether the point lies inside the box, boundaries included
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Octant returns one of the eight equal sub-boxes split at the center.
// Bit 0 of index selects the upper X half, bit 1 upper Y, bit 2 upper Z.
func (aabb AABB) Octant(index int) AABB {
	c := aabb.Center()
	out := AABB{Min: aabb.Min, Max: c}
	if index&1 != 0 {
		out.Min.X, out.Max.X = c.X, aabb.Max.X
	}
	if index&2 != 0 {
		out.Min.Y, out.Max.Y = c.Y, aabb.Max.Y
	}
	if index&4 != 0 {
		out.Min.Z, out.Max.Z = c.Z, aabb.Max.Z
	}
	return out
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
