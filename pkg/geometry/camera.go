package geometry

import (
	"math"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

// Camera is a pinhole camera described by a look-at pose and a perspective frustum
type Camera struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	ZNear    float64
	ZFar     float64
	FovY     float64 // Vertical field of view in degrees
	Aspect   float64 // Width / height
}

// NewCamera creates a camera with the default frustum depth range
func NewCamera(position, lookAt, up core.Vec3, fovY, aspect float64) Camera {
	return Camera{
		Position: position,
		LookAt:   lookAt,
		Up:       up,
		ZNear:    0.01,
		ZFar:     10.0,
		FovY:     fovY,
		Aspect:   aspect,
	}
}

// ViewProjection returns projection × view
func (c Camera) ViewProjection() core.Mat4 {
	proj := core.Perspective(c.FovY*math.Pi/180.0, c.Aspect, c.ZNear, c.ZFar)
	view := core.LookAt(c.Position, c.LookAt, c.Up)
	return proj.Mul(view)
}

// Orbit rotates the camera position around the Y axis through the origin
func (c Camera) Orbit(angleDegrees float64) Camera {
	c.Position = c.Position.RotateY(angleDegrees * math.Pi / 180.0)
	return c
}
