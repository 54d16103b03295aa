package material

import (
	"github.com/df07/go-octree-raytracer/pkg/core"
)

// White is the identity color multiplier
var White = core.NewVec3(1, 1, 1)

// SurfaceShader maps a surface texture coordinate to a color multiplier
type SurfaceShader interface {
	Sample(uv core.Vec2) core.Vec3
}

// ShaderFunc adapts a plain function to SurfaceShader
type ShaderFunc func(uv core.Vec2) core.Vec3

// Sample calls f(uv)
func (f ShaderFunc) Sample(uv core.Vec2) core.Vec3 {
	return f(uv)
}

// IdentityShader always returns white
type IdentityShader struct{}

// Sample returns white regardless of uv
func (IdentityShader) Sample(uv core.Vec2) core.Vec3 {
	return White
}

// SolidColor provides a uniform multiplier
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Sample returns the solid color regardless of uv
func (s *SolidColor) Sample(uv core.Vec2) core.Vec3 {
	return s.Color
}
