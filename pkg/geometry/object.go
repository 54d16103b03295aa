package geometry

import "fmt"

// ObjectKind tags which primitive list an ObjectID indexes
type ObjectKind uint8

const (
	KindNone ObjectKind = iota
	KindSphere
	KindTriangle
)

// ObjectID identifies a primitive within a scene
type ObjectID struct {
	Kind  ObjectKind
	Index int
}

// NoObject excludes nothing
var NoObject = ObjectID{}

// SphereID returns the identifier of the i-th sphere
func SphereID(i int) ObjectID { return ObjectID{Kind: KindSphere, Index: i} }

// TriangleID returns the identifier of the i-th triangle
func TriangleID(i int) ObjectID { return ObjectID{Kind: KindTriangle, Index: i} }

// TriangleIndex returns the triangle index or -1 when the ID is not a triangle
func (id ObjectID) TriangleIndex() int {
	if id.Kind != KindTriangle {
		return -1
	}
	return id.Index
}

func (id ObjectID) String() string {
	switch id.Kind {
	case KindSphere:
		return fmt.Sprintf("sphere[%d]", id.Index)
	case KindTriangle:
		return fmt.Sprintf("triangle[%d]", id.Index)
	default:
		return "none"
	}
}
