package material

import (
	"fmt"
	"sort"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

// Diffuse returns a matte material with only a diffuse term
func Diffuse(color core.Vec3) Material {
	return Material{Name: "diffuse", Diffuse: color}
}

// Copper is a warm metal with a faint mirror
func Copper() Material {
	return Material{
		Name:       "copper",
		Ambient:    core.NewVec3(0.329412, 0.223529, 0.027451),
		Diffuse:    core.NewVec3(0.780392, 0.568627, 0.113725),
		Specular:   core.NewVec3(0.992157, 0.941176, 0.807843),
		Shininess:  27.8974,
		Reflection: 0.2,
	}
}

// Chrome is a grey metal with a strong mirror
func Chrome() Material {
	return Material{
		Name:       "chrome",
		Ambient:    core.NewVec3(0.25, 0.25, 0.25),
		Diffuse:    core.NewVec3(0.4, 0.4, 0.4),
		Specular:   core.NewVec3(0.774597, 0.774597, 0.774597),
		Shininess:  76.8,
		Reflection: 0.4,
	}
}

// Glass is a green-tinted refractive material
func Glass() Material {
	return Material{
		Name:             "glass",
		Diffuse:          core.NewVec3(0, 0.5, 0),
		Specular:         core.NewVec3(0.774597, 0.774597, 0.774597),
		Shininess:        1,
		Reflection:       0.2,
		Refract:          true,
		RefractionIndex:  1.5,
		RefractionFactor: 0.5,
	}
}

// Obsidian is a dark, slightly blue stone
func Obsidian() Material {
	return Material{
		Name:      "obsidian",
		Ambient:   core.NewVec3(0.05375, 0.05, 0.06625),
		Diffuse:   core.NewVec3(0.18275, 0.17, 0.22525),
		Specular:  core.NewVec3(0.332741, 0.328634, 0.346435),
		Shininess: 38.4,
	}
}

// Plastic is near-black with a bright highlight
func Plastic() Material {
	return Material{
		Name:       "plastic",
		Diffuse:    core.NewVec3(0.01, 0.01, 0.01),
		Specular:   core.NewVec3(0.5, 0.5, 0.5),
		Shininess:  32,
		Reflection: 0.1,
	}
}

// Gold is a yellow metal with a faint mirror
func Gold() Material {
	return Material{
		Name:       "gold",
		Ambient:    core.NewVec3(0.24725, 0.1995, 0.0745),
		Diffuse:    core.NewVec3(0.75164, 0.60648, 0.22648),
		Specular:   core.NewVec3(0.628281, 0.555802, 0.366065),
		Shininess:  51.2,
		Reflection: 0.1,
	}
}

// Jade is a soft green stone
func Jade() Material {
	return Material{
		Name:      "jade",
		Ambient:   core.NewVec3(0.135, 0.2225, 0.1575),
		Diffuse:   core.NewVec3(0.54, 0.89, 0.63),
		Specular:  core.NewVec3(0.316228, 0.316228, 0.316228),
		Shininess: 12.8,
	}
}

// CheckerFloor is a light stone carrying the checkerboard texture
func CheckerFloor() Material {
	return Material{
		Name:      "checker",
		Ambient:   core.NewVec3(0.2, 0.2, 0.2),
		Diffuse:   core.NewVec3(0.8, 0.8, 0.8),
		Specular:  core.NewVec3(0.332741, 0.328634, 0.346435),
		Shininess: 38.4,
		Shader:    NewCheckerboard(),
	}
}

// Wall is a fully diffuse white surface, usually paired with a gradient shader
func Wall() Material {
	return Material{
		Name:      "wall",
		Diffuse:   core.NewVec3(1, 1, 1),
		Specular:  core.NewVec3(0.332741, 0.328634, 0.346435),
		Shininess: 38.4,
	}
}

var presets = map[string]func() Material{
	"copper":   Copper,
	"chrome":   Chrome,
	"glass":    Glass,
	"obsidian": Obsidian,
	"plastic":  Plastic,
	"gold":     Gold,
	"jade":     Jade,
	"checker":  CheckerFloor,
	"wall":     Wall,
}

// Preset looks up a named material
func Preset(name string) (Material, error) {
	factory, ok := presets[name]
	if !ok {
		return Material{}, fmt.Errorf("unknown material preset: %s", name)
	}
	return factory(), nil
}

// PresetNames lists the available presets in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
