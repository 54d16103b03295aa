package lights

import (
	"math"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

// LightType identifies how a light's direction is derived
type LightType int

const (
	Point LightType = iota
	Directional
	Spot
)

// String returns the lowercase name of the light type
func (t LightType) String() string {
	switch t {
	case Point:
		return "point"
	case Directional:
		return "directional"
	case Spot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is a point, directional or spot light.
// For directional lights Position holds the unit direction the light travels;
// the direction toward the source is its negation.
type Light struct {
	Type      LightType
	Position  core.Vec3
	Intensity float64
	Color     core.Vec3

	Cutoff        float64   // Spot only: cosine of the cone half-angle
	SpotDirection core.Vec3 // Spot only: unit axis pointing away from the light
}

// NewPointLight creates a light radiating from a point
func NewPointLight(position core.Vec3, intensity float64, color core.Vec3) Light {
	return Light{Type: Point, Position: position, Intensity: intensity, Color: color}
}

// NewDirectionalLight creates a light infinitely far away shining along direction
func NewDirectionalLight(direction core.Vec3, intensity float64, color core.Vec3) Light {
	return Light{Type: Directional, Position: direction.Normalize(), Intensity: intensity, Color: color}
}

// NewSpotLight creates a cone light at position aimed along direction.
// angleDegrees is the cone half-angle.
func NewSpotLight(position, direction core.Vec3, angleDegrees, intensity float64, color core.Vec3) Light {
	return Light{
		Type:          Spot,
		Position:      position,
		Intensity:     intensity,
		Color:         color,
		Cutoff:        math.Cos(angleDegrees * math.Pi / 180),
		SpotDirection: direction.Normalize(),
	}
}

// Illuminate returns the unit direction from point toward the light.
// ok is false when the point lies outside a spot light's cone.
func (l Light) Illuminate(point core.Vec3) (dir core.Vec3, ok bool) {
	switch l.Type {
	case Directional:
		return l.Position.Negate().Normalize(), true
	case Spot:
		dir = l.Position.Subtract(point).Normalize()
		if dir.Negate().Dot(l.SpotDirection) < l.Cutoff {
			return dir, false
		}
		return dir, true
	default:
		return l.Position.Subtract(point).Normalize(), true
	}
}
