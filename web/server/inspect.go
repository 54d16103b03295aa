package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/material"
	"github.com/df07/go-octree-raytracer/pkg/renderer"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// InspectResponse describes the surface seen through one pixel
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Object       string                 `json:"object,omitempty"` // e.g. "sphere[0]"
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        *[3]float64            `json:"point,omitempty"`
	Normal       *[3]float64            `json:"normal,omitempty"`
	Distance     float64                `json:"distance,omitempty"`
	Inside       bool                   `json:"inside,omitempty"`
	UV           *[2]float64            `json:"uv,omitempty"`
	Material     string                 `json:"material,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func vecRef(v core.Vec3) *[3]float64 {
	a := vec(v)
	return &a
}

func colorHex(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo lists the shading coefficients of a material
func extractMaterialInfo(m *material.Material) map[string]interface{} {
	properties := map[string]interface{}{
		"ambient":    vec(m.Ambient),
		"diffuse":    vec(m.Diffuse),
		"color":      colorHex(m.Diffuse),
		"specular":   vec(m.Specular),
		"shininess":  m.Shininess,
		"reflection": m.Reflection,
		"textured":   m.Shader != nil,
	}
	if m.Refract {
		properties["refractionIndex"] = m.RefractionIndex
		properties["refractionFactor"] = m.RefractionFactor
	}
	return properties
}

// extractGeometryInfo describes the primitive an object ID refers to
func extractGeometryInfo(s *scene.Scene, id geometry.ObjectID) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch id.Kind {
	case geometry.KindSphere:
		sphere := s.Spheres[id.Index]
		properties["center"] = vec(sphere.Center)
		properties["radius"] = sphere.Radius
		return "sphere", properties

	case geometry.KindTriangle:
		tri := s.Triangles[id.Index]
		properties["vertices"] = [3][3]float64{vec(tri.V[0]), vec(tri.V[1]), vec(tri.V[2])}
		properties["normal"] = vec(tri.Normal)
		return "triangle", properties

	default:
		return "unknown", properties
	}
}

// handleInspect casts the primary ray through one pixel of a scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	hit, ok, err := renderer.InspectPixel(sceneObj, req.params(), pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	geometryType, geometryProps := extractGeometryInfo(sceneObj, hit.Object)
	response := InspectResponse{
		Hit:          true,
		Object:       hit.Object.String(),
		GeometryType: geometryType,
		Point:        vecRef(hit.Point),
		Normal:       vecRef(hit.Normal),
		Distance:     hit.T,
		Inside:       hit.Inside,
		Material:     hit.Material.Name,
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(hit.Material),
			"geometry": geometryProps,
		},
	}
	if hit.Textured {
		response.UV = &[2]float64{hit.UV.U, hit.UV.V}
	}
	writeJSON(w, http.StatusOK, response)
}
