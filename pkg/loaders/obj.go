package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
)

// LoadOBJ reads a Wavefront OBJ file and returns its faces as triangles
func LoadOBJ(filename string, opts MeshOptions) ([]geometry.Triangle, MeshStats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, MeshStats{}, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	triangles, stats, err := ParseOBJ(file, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", filename, err)
	}
	return triangles, stats, nil
}

// ParseOBJ reads v, vt and f records. Polygons are fan-triangulated from
// their first vertex. Face indices are 1-based; negative indices count back
// from the most recent vertex. Normals come from the winding order, so vn
// records are ignored along with every other record type.
func ParseOBJ(r io.Reader, opts MeshOptions) ([]geometry.Triangle, MeshStats, error) {
	var (
		stats     MeshStats
		vertices  []core.Vec3
		texCoords []core.Vec2
		triangles []geometry.Triangle
	)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			values, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, stats, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			vertices = append(vertices, opts.place(core.NewVec3(values[0], values[1], values[2])))

		case "vt":
			values, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, stats, fmt.Errorf("line %d: invalid texture coordinate: %w", lineNum, err)
			}
			texCoords = append(texCoords, core.NewVec2(values[0], values[1]))

		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, stats, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNum, len(corners))
			}

			vIdx := make([]int, len(corners))
			tIdx := make([]int, len(corners))
			textured := true
			for i, corner := range corners {
				var err error
				vIdx[i], tIdx[i], err = parseFaceCorner(corner, len(vertices), len(texCoords))
				if err != nil {
					return nil, stats, fmt.Errorf("line %d: %w", lineNum, err)
				}
				if tIdx[i] < 0 {
					textured = false
				}
			}

			for i := 1; i+1 < len(corners); i++ {
				a, b, c := 0, i, i+1
				if textured {
					triangles = append(triangles, geometry.NewTexturedTriangle(
						vertices[vIdx[a]], vertices[vIdx[b]], vertices[vIdx[c]],
						texCoords[tIdx[a]], texCoords[tIdx[b]], texCoords[tIdx[c]],
						opts.Material))
				} else {
					triangles = append(triangles, geometry.NewTriangle(
						vertices[vIdx[a]], vertices[vIdx[b]], vertices[vIdx[c]],
						opts.Material))
				}
			}
			stats.Faces++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read OBJ data: %w", err)
	}

	stats.Vertices = len(vertices)
	stats.TexCoords = len(texCoords)
	stats.Triangles = len(triangles)
	return triangles, stats, nil
}

// parseFaceCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// vertex and texture indices. The texture index is -1 when absent.
func parseFaceCorner(token string, vertexCount, texCount int) (int, int, error) {
	parts := strings.Split(token, "/")

	v, err := resolveIndex(parts[0], vertexCount)
	if err != nil {
		return 0, 0, fmt.Errorf("vertex index %q: %w", token, err)
	}

	t := -1
	if len(parts) > 1 && parts[1] != "" {
		t, err = resolveIndex(parts[1], texCount)
		if err != nil {
			return 0, 0, fmt.Errorf("texture index %q: %w", token, err)
		}
	}
	return v, t, nil
}

// resolveIndex converts a 1-based or negative relative OBJ index into a slice index
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}

	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %d out of range (%d defined)", n, count)
	}
	return idx, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
