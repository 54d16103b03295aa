package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
)

// plyProperty is one property line of a PLY element
type plyProperty struct {
	Name     string
	Type     string // Scalar type; empty for lists
	IsList   bool
	ListType string // Type of the list count
	DataType string // Type of the list entries
}

// plyElement is an element declaration with its properties in file order
type plyElement struct {
	Name  string
	Count int
	Props []plyProperty
}

// maxPLYPrealloc caps slice capacity taken from counts in the file; longer
// elements grow by append
const maxPLYPrealloc = 1 << 16

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Elements []plyElement
}

// LoadPLY reads a PLY mesh and returns its faces as triangles
func LoadPLY(filename string, opts MeshOptions) ([]geometry.Triangle, MeshStats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, MeshStats{}, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	triangles, stats, err := ParsePLY(file, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", filename, err)
	}
	return triangles, stats, nil
}

// ParsePLY reads ASCII and binary PLY data. Vertex x, y, z and optional
// u, v (or s, t) are used; faces come from the vertex_indices list and are
// fan-triangulated. Other elements and properties are skipped.
func ParsePLY(r io.Reader, opts MeshOptions) ([]geometry.Triangle, MeshStats, error) {
	reader := bufio.NewReader(r)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, MeshStats{}, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValues{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValues{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{r: reader, order: binary.BigEndian}
	default:
		return nil, MeshStats{}, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	var (
		stats     MeshStats
		vertices  []core.Vec3
		texCoords []core.Vec2
		triangles []geometry.Triangle
	)

	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			vertices, texCoords, err = readPLYVertices(values, element, opts)
		case "face":
			triangles, stats.Faces, err = readPLYFaces(values, element, vertices, texCoords, opts)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, stats, err
		}
	}

	stats.Vertices = len(vertices)
	stats.TexCoords = len(texCoords)
	stats.Triangles = len(triangles)
	return triangles, stats, nil
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(reader *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}
	var current *plyElement

	for lineNum := 1; ; lineNum++ {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, fmt.Errorf("missing end_header")
			}
			return nil, fmt.Errorf("error reading header: %w", err)
		}
		line = strings.TrimSpace(line)

		if lineNum == 1 {
			if line != "ply" {
				return nil, fmt.Errorf("not a PLY file")
			}
			continue
		}
		if line == "end_header" {
			return header, nil
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: invalid format line", lineNum)
			}
			header.Format = parts[1]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: invalid element line", lineNum)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("line %d: invalid element count: %s", lineNum, parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, fmt.Errorf("line %d: property before any element", lineNum)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("line %d: unknown header keyword %q", lineNum, parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop := plyProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}
		if plyTypeSize(prop.ListType) == 0 || plyTypeSize(prop.DataType) == 0 {
			return plyProperty{}, fmt.Errorf("unsupported list types %s %s", prop.ListType, prop.DataType)
		}
		return prop, nil
	}

	if plyTypeSize(parts[0]) == 0 {
		return plyProperty{}, fmt.Errorf("unsupported data type: %s", parts[0])
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

// plyTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

func readPLYVertices(values plyValueReader, element plyElement, opts MeshOptions) ([]core.Vec3, []core.Vec2, error) {
	hasUV := false
	for _, prop := range element.Props {
		if isPLYTexU(prop.Name) {
			hasUV = true
		}
	}

	capacity := min(element.Count, maxPLYPrealloc)
	vertices := make([]core.Vec3, 0, capacity)
	var texCoords []core.Vec2
	if hasUV {
		texCoords = make([]core.Vec2, 0, capacity)
	}

	for i := 0; i < element.Count; i++ {
		var p [3]float64
		var uv core.Vec2
		for _, prop := range element.Props {
			if prop.IsList {
				if err := skipPLYProperty(values, prop); err != nil {
					return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			switch {
			case prop.Name == "x":
				p[0] = value
			case prop.Name == "y":
				p[1] = value
			case prop.Name == "z":
				p[2] = value
			case isPLYTexU(prop.Name):
				uv.U = value
			case isPLYTexV(prop.Name):
				uv.V = value
			}
		}
		vertices = append(vertices, opts.place(core.NewVec3(p[0], p[1], p[2])))
		if hasUV {
			texCoords = append(texCoords, uv)
		}
	}
	return vertices, texCoords, nil
}

func isPLYTexU(name string) bool {
	return name == "u" || name == "s" || name == "texture_u"
}

func isPLYTexV(name string) bool {
	return name == "v" || name == "t" || name == "texture_v"
}

func readPLYFaces(values plyValueReader, element plyElement, vertices []core.Vec3, texCoords []core.Vec2, opts MeshOptions) ([]geometry.Triangle, int, error) {
	var triangles []geometry.Triangle
	textured := len(texCoords) == len(vertices) && len(texCoords) > 0

	for i := 0; i < element.Count; i++ {
		var indices []int
		for _, prop := range element.Props {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipPLYProperty(values, prop); err != nil {
					return nil, i, fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return nil, i, fmt.Errorf("face %d: failed to read vertex count: %w", i, err)
			}
			if count < 3 {
				return nil, i, fmt.Errorf("face %d: needs at least 3 vertices, got %d", i, int(count))
			}
			if count != math.Trunc(count) || math.IsInf(count, 0) {
				return nil, i, fmt.Errorf("face %d: invalid vertex count %g", i, count)
			}
			n := int(count)
			indices = make([]int, 0, min(n, 16))
			for j := 0; j < n; j++ {
				value, err := values.read(prop.DataType)
				if err != nil {
					return nil, i, fmt.Errorf("face %d: failed to read index: %w", i, err)
				}
				idx := int(value)
				if idx < 0 || idx >= len(vertices) {
					return nil, i, fmt.Errorf("face %d: index %d out of range (%d vertices)", i, idx, len(vertices))
				}
				indices = append(indices, idx)
			}
		}
		if indices == nil {
			return nil, i, fmt.Errorf("face %d: no vertex_indices property", i)
		}

		for k := 1; k+1 < len(indices); k++ {
			a, b, c := indices[0], indices[k], indices[k+1]
			if textured {
				triangles = append(triangles, geometry.NewTexturedTriangle(
					vertices[a], vertices[b], vertices[c],
					texCoords[a], texCoords[b], texCoords[c],
					opts.Material))
			} else {
				triangles = append(triangles, geometry.NewTriangle(vertices[a], vertices[b], vertices[c], opts.Material))
			}
		}
	}
	return triangles, element.Count, nil
}

func skipPLYElement(values plyValueReader, element plyElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if err := skipPLYProperty(values, prop); err != nil {
				return fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop plyProperty) error {
	if !prop.IsList {
		_, err := values.read(prop.Type)
		return err
	}
	count, err := values.read(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// plyValueReader yields successive scalar values from the element data
type plyValueReader interface {
	read(dataType string) (float64, error)
}

// asciiValues reads whitespace-separated values
type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, a.scanner.Text())
	}
	return value, nil
}

// binaryValues decodes fixed-size values in the file's byte order
type binaryValues struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValues) read(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
