package material

import (
	"github.com/df07/go-octree-raytracer/pkg/core"
)

// ID is a handle into a scene's material table
type ID int

// Material holds the Phong-style reflectance factors of a surface
// plus its mirror and refraction behavior. Materials are read-only
// while a frame renders and are shared by ID across many primitives.
type Material struct {
	Name string

	Ambient   core.Vec3 // Multiplied with the background color
	Diffuse   core.Vec3 // Lambert term per light
	Specular  core.Vec3 // Highlight term per light
	Shininess float64   // Highlight exponent, >= 0

	Reflection float64 // Mirror contribution in [0, 1]

	Refract          bool    // Whether transmitted rays are traced
	RefractionIndex  float64 // Index of refraction, > 0
	RefractionFactor float64 // Blend between surface color and transmitted color in [0, 1]

	Shader SurfaceShader // Optional texture; nil samples as identity
}

// IsTransparent reports whether the material lets shadow rays through
func (m *Material) IsTransparent() bool {
	return m.Refract
}

// SampleTexture returns the shader's multiplier at uv, or white without a shader
func (m *Material) SampleTexture(uv core.Vec2) core.Vec3 {
	if m.Shader == nil {
		return White
	}
	return m.Shader.Sample(uv)
}

// WithShader returns a copy of the material using the given shader
func (m Material) WithShader(shader SurfaceShader) Material {
	m.Shader = shader
	return m
}

// WithDiffuse returns a copy of the material with a different diffuse factor
func (m Material) WithDiffuse(diffuse core.Vec3) Material {
	m.Diffuse = diffuse
	return m
}
