package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

// MeshOptions controls how model vertices are placed in the scene
type MeshOptions struct {
	Scale     float64    // Applied after Transform; 0 means 1
	Transform *core.Mat4 // Optional placement applied to every vertex
	Material  material.ID
}

// place maps a model-space vertex into the scene
func (o MeshOptions) place(v core.Vec3) core.Vec3 {
	if o.Transform != nil {
		v = o.Transform.TransformPoint(v)
	}
	if o.Scale == 0 {
		return v
	}
	return v.Multiply(o.Scale)
}

// MeshStats summarizes a parsed model file
type MeshStats struct {
	Vertices  int
	TexCoords int
	Faces     int
	Triangles int
}

// LoadMesh loads an OBJ or PLY model, chosen by file extension
func LoadMesh(filename string, opts MeshOptions) ([]geometry.Triangle, MeshStats, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".obj":
		return LoadOBJ(filename, opts)
	case ".ply":
		return LoadPLY(filename, opts)
	default:
		return nil, MeshStats{}, fmt.Errorf("unsupported model format %q", ext)
	}
}
