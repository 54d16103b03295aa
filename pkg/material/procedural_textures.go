package material

import (
	"github.com/df07/go-octree-raytracer/pkg/core"
)

// Checker alternates two colors on a square grid in UV space
type Checker struct {
	Cells  float64 // Cells per unit of UV
	Color1 core.Vec3
	Color2 core.Vec3
}

// NewCheckerboard creates the black and white 20-cell checker used on floors
func NewCheckerboard() *Checker {
	return &Checker{Cells: 20, Color1: core.NewVec3(0, 0, 0), Color2: White}
}

// Sample returns Color1 when exactly one of the cell parities is even
func (c *Checker) Sample(uv core.Vec2) core.Vec3 {
	evenU := int(uv.U*c.Cells)%2 == 0
	evenV := int(uv.V*c.Cells)%2 == 0
	if evenU != evenV {
		return c.Color1
	}
	return c.Color2
}

// NewUVDebugShader shows the texture coordinate as color: U in red, V in green
func NewUVDebugShader() SurfaceShader {
	return ShaderFunc(func(uv core.Vec2) core.Vec3 {
		return core.NewVec3(uv.U, uv.V, 0)
	})
}

// NewWallGradient ramps one channel of base with V². The channel is 0, 1 or 2
// for red, green or blue; the other two channels keep base's value.
func NewWallGradient(base core.Vec3, channel int) SurfaceShader {
	return ShaderFunc(func(uv core.Vec2) core.Vec3 {
		ramp := uv.V * uv.V
		c := base
		switch channel {
		case 0:
			c.X = ramp
		case 1:
			c.Y = ramp
		default:
			c.Z = ramp
		}
		return c
	})
}
