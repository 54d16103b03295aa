package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/lights"
	"github.com/df07/go-octree-raytracer/pkg/material"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// recordingLogger captures log lines for assertions
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func smallParams(width, height int) RenderParams {
	params := DefaultRenderParams()
	params.Width = width
	params.Height = height
	return params
}

func TestRender_EmptySceneIsBackground(t *testing.T) {
	s := scene.New("empty")
	s.Background = core.NewVec3(0.2, 0.4, 0.6)

	params := smallParams(16, 9)
	pixels := make([]uint32, params.Width*params.Height)
	if err := Render(s, pixels, params); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := PackColor(s.Background)
	for i, p := range pixels {
		if p != expected {
			t.Fatalf("Pixel %d = %06x, expected background %06x", i, p, expected)
		}
	}
}

func TestRender_SphereCenterLitFromCameraSide(t *testing.T) {
	tests := []struct {
		name    string
		lightZ  float64
		wantLit bool
	}{
		{"Light behind camera", 5, true},
		{"Light behind sphere", -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewSpheresScene()
			s.Lights[0].Position = core.NewVec3(0, 0, tt.lightZ)

			params := smallParams(33, 33)
			s.SetAspect(params.Width, params.Height)
			pixels := make([]uint32, params.Width*params.Height)
			if err := Render(s, pixels, params); err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			center := pixels[16*params.Width+16]
			if lit := center != 0; lit != tt.wantLit {
				t.Errorf("Center pixel %06x, expected lit=%v", center, tt.wantLit)
			}
			if corner := pixels[0]; corner != PackColor(s.Background) {
				t.Errorf("Corner pixel should be background, got %06x", corner)
			}
		})
	}
}

func TestRender_OctreeMatchesBruteForce(t *testing.T) {
	for _, name := range scene.BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := scene.NewSceneByName(name)
			if err != nil {
				t.Fatal(err)
			}
			params := ParamsFromSettings(s.Settings)
			params.Width, params.Height = 64, 48
			s.SetAspect(params.Width, params.Height)

			params.EnableOctree = true
			withOctree := make([]uint32, params.Width*params.Height)
			if err := Render(s, withOctree, params); err != nil {
				t.Fatalf("Octree render failed: %v", err)
			}

			params.EnableOctree = false
			bruteForce := make([]uint32, params.Width*params.Height)
			if err := Render(s, bruteForce, params); err != nil {
				t.Fatalf("Brute-force render failed: %v", err)
			}

			for i := range withOctree {
				if withOctree[i] != bruteForce[i] {
					t.Fatalf("Pixel (%d, %d) differs: octree %06x, brute force %06x",
						i%params.Width, i/params.Width, withOctree[i], bruteForce[i])
				}
			}
		})
	}
}

func TestRender_BuildsMissingOctree(t *testing.T) {
	s := scene.NewBarsScene()
	logger := &recordingLogger{}
	s.Logger = logger

	if !s.Octree.Empty() {
		t.Fatal("A fresh scene should start without an octree")
	}

	params := smallParams(8, 8)
	if _, err := NewRenderer(s, params, logger).Render(make([]uint32, 64)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if s.Octree.Empty() {
		t.Error("Render with the octree enabled should build it first")
	}

	built := false
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "built octree:") {
			built = true
		}
	}
	if !built {
		t.Errorf("Expected the octree build to be logged, got %v", logger.lines)
	}
}

func TestRender_OctreeCoversGeometryBeyondDefaultBounds(t *testing.T) {
	newFarWall := func() *scene.Scene {
		s := scene.New("far wall")
		id := s.AddMaterial(material.Diffuse(core.NewVec3(1, 1, 1)))
		s.AddTriangles(geometry.NewTriangle(
			core.NewVec3(-20, -20, -15), core.NewVec3(20, -20, -15), core.NewVec3(0, 20, -15), id))
		s.AddLight(lights.NewPointLight(core.NewVec3(0, 0, 5), 1, core.NewVec3(1, 1, 1)))
		return s
	}

	tests := []struct {
		name     string
		prebuild bool
	}{
		{"Unbuilt", false},
		{"Prebuilt with the default cube", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFarWall()
			if tt.prebuild {
				if stats := s.BuildOctree(geometry.DefaultOctreeConfig()); stats.Outside != 1 {
					t.Fatalf("Expected the wall outside the default cube, got %d outside", stats.Outside)
				}
			}
			params := smallParams(8, 8)
			s.SetAspect(params.Width, params.Height)

			withOctree := make([]uint32, 64)
			if err := Render(s, withOctree, params); err != nil {
				t.Fatalf("Octree render failed: %v", err)
			}
			if got := s.Octree.Config().HalfSize; got < 20 {
				t.Errorf("Expected the root to hold the wall, half size %g", got)
			}
			if outside := s.Octree.Stats().Outside; outside != 0 {
				t.Errorf("Expected no triangles outside the root, got %d", outside)
			}

			params.EnableOctree = false
			bruteForce := make([]uint32, 64)
			if err := Render(s, bruteForce, params); err != nil {
				t.Fatalf("Brute-force render failed: %v", err)
			}

			if center := bruteForce[4*8+4]; center == 0 {
				t.Fatal("Expected the wall to be lit at the centre pixel")
			}
			for i := range withOctree {
				if withOctree[i] != bruteForce[i] {
					t.Fatalf("Pixel (%d, %d) differs: octree %06x, brute force %06x",
						i%8, i/8, withOctree[i], bruteForce[i])
				}
			}
		})
	}
}

func TestRender_ThreadCountDoesNotChangeImage(t *testing.T) {
	s := scene.NewGalleryScene()
	params := ParamsFromSettings(s.Settings)
	params.Width, params.Height = 40, 30
	s.SetAspect(params.Width, params.Height)

	var reference []uint32
	for _, threads := range []int{1, 3, 7, 64} {
		params.Threads = threads
		pixels := make([]uint32, params.Width*params.Height)
		if err := Render(s, pixels, params); err != nil {
			t.Fatalf("Render with %d threads failed: %v", threads, err)
		}
		if reference == nil {
			reference = pixels
			continue
		}
		for i := range pixels {
			if pixels[i] != reference[i] {
				t.Fatalf("%d threads: pixel %d differs from single-threaded render", threads, i)
			}
		}
	}
}

func TestRender_EveryRowWrittenOnce(t *testing.T) {
	s := scene.New("rows")
	s.Background = core.NewVec3(1, 1, 1)

	tests := []struct {
		threads, height int
		expectedWorkers int
	}{
		{1, 7, 1},
		{3, 7, 3},
		{4, 8, 4},
		{16, 5, 5}, // No more workers than rows
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d threads %d rows", tt.threads, tt.height), func(t *testing.T) {
			params := smallParams(3, tt.height)
			params.Threads = tt.threads

			pixels := make([]uint32, params.Width*params.Height)
			for i := range pixels {
				pixels[i] = 0xFFFFFFFF // Never produced by PackColor
			}

			stats, err := NewRenderer(s, params, nil).Render(pixels)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if stats.Workers != tt.expectedWorkers {
				t.Errorf("Expected %d workers, got %d", tt.expectedWorkers, stats.Workers)
			}
			if stats.Pixels != params.Width*params.Height || stats.PrimaryRays != int64(stats.Pixels) {
				t.Errorf("Expected %d pixels and primary rays, got %d and %d",
					params.Width*params.Height, stats.Pixels, stats.PrimaryRays)
			}
			for i, p := range pixels {
				if p != 0xFFFFFF {
					t.Fatalf("Pixel %d not written: %08x", i, p)
				}
			}
		})
	}
}

func TestWorkerPool_RowInterleave(t *testing.T) {
	f := &frame{width: 2, height: 10, inverseViewProj: core.Identity(), pixels: make([]uint32, 20)}
	pool := NewWorkerPool(f, 3, func() *tracer { return newTracer(scene.New("pool"), 0, false) })
	pool.Start()
	results := pool.Wait()

	if len(results) != 3 {
		t.Fatalf("Expected one result per worker, got %d", len(results))
	}

	rows := map[int]int{}
	for _, result := range results {
		rows[result.WorkerID] = result.Rows
	}
	// Rows 0,3,6,9 / 1,4,7 / 2,5,8
	expected := map[int]int{0: 4, 1: 3, 2: 3}
	for id, n := range expected {
		if rows[id] != n {
			t.Errorf("Worker %d rendered %d rows, expected %d", id, rows[id], n)
		}
	}
}

func TestRender_Errors(t *testing.T) {
	valid := scene.NewSpheresScene()
	singular := scene.NewSpheresScene()
	singular.Camera.LookAt = singular.Camera.Position

	tests := []struct {
		name     string
		scene    *scene.Scene
		params   RenderParams
		buffer   int
		contains string
	}{
		{"Nil scene", nil, smallParams(4, 4), 16, "no scene"},
		{"Zero width", valid, smallParams(0, 4), 16, "invalid image size"},
		{"Negative height", valid, smallParams(4, -1), 16, "invalid image size"},
		{"Negative depth", valid, RenderParams{Width: 4, Height: 4, DepthLimit: -1}, 16, "depth limit"},
		{"Negative threads", valid, RenderParams{Width: 4, Height: 4, Threads: -2}, 16, "thread count"},
		{"Short buffer", valid, smallParams(4, 4), 15, "pixel buffer"},
		{"Degenerate camera", singular, smallParams(4, 4), 16, "singular"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Render(tt.scene, make([]uint32, tt.buffer), tt.params)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestRender_LogsPass(t *testing.T) {
	s := scene.New("logged")
	id := s.AddMaterial(material.Diffuse(core.NewVec3(1, 1, 1)))
	s.AddSphere(core.NewVec3(0, 0, 0), 1, id)
	logger := &recordingLogger{}

	params := smallParams(4, 4)
	params.EnableOctree = false
	if _, err := NewRenderer(s, params, logger).Render(make([]uint32, 16)); err != nil {
		t.Fatal(err)
	}

	if len(logger.lines) != 2 {
		t.Fatalf("Expected start and finish lines, got %v", logger.lines)
	}
	if !strings.Contains(logger.lines[0], "Rendering logged at 4x4") {
		t.Errorf("Unexpected start line %q", logger.lines[0])
	}
	if !strings.HasPrefix(logger.lines[1], "Rendered 16 pixels") {
		t.Errorf("Unexpected finish line %q", logger.lines[1])
	}
}

func TestPrimaryRay_PixelCenters(t *testing.T) {
	camera := geometry.NewCamera(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 90, 1)
	inverse, ok := camera.ViewProjection().Inverse()
	if !ok {
		t.Fatal("Camera matrix should be invertible")
	}
	f := &frame{width: 2, height: 2, origin: camera.Position, inverseViewProj: inverse}

	// Row 0 is the top of the image, so its rays point up
	topLeft := f.primaryRay(0, 0)
	bottomRight := f.primaryRay(1, 1)

	if topLeft.Direction.Y <= 0 || topLeft.Direction.X >= 0 {
		t.Errorf("Top-left ray should point up and left, got %v", topLeft.Direction)
	}
	if bottomRight.Direction.Y >= 0 || bottomRight.Direction.X <= 0 {
		t.Errorf("Bottom-right ray should point down and right, got %v", bottomRight.Direction)
	}
	if topLeft.Origin != camera.Position {
		t.Errorf("Primary rays start at the camera, got %v", topLeft.Origin)
	}
	if l := topLeft.Direction.Length(); l < 1-1e-12 || l > 1+1e-12 {
		t.Errorf("Primary ray direction should be unit length, got %f", l)
	}
}

func TestParams(t *testing.T) {
	settings := scene.RenderSettings{Width: 100, Height: 50, DepthLimit: 5, EnableOctree: false}
	params := ParamsFromSettings(settings)
	if params.Width != 100 || params.Height != 50 || params.DepthLimit != 5 || params.EnableOctree || params.Threads != 0 {
		t.Errorf("Unexpected params %+v", params)
	}

	if err := DefaultRenderParams().Validate(); err != nil {
		t.Errorf("Default params should be valid: %v", err)
	}
	if n := (RenderParams{Width: 1, Height: 2, Threads: 0}).workerCount(); n < 1 || n > 2 {
		t.Errorf("Auto worker count should be clamped to the row count, got %d", n)
	}
}
