package renderer

import (
	"fmt"
	"time"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Renderer draws frames of one scene into packed pixel buffers
type Renderer struct {
	scene  *scene.Scene
	params RenderParams
	logger core.Logger
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(s *scene.Scene, params RenderParams, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{scene: s, params: params, logger: logger}
}

// Params returns the render parameters
func (r *Renderer) Params() RenderParams {
	return r.params
}

// Render traces every pixel and writes 0x00RRGGBB values row-major into
// pixels, row 0 at the top. It blocks until all workers finish. The scene
// must not be mutated while a pass runs.
func (r *Renderer) Render(pixels []uint32) (RenderStats, error) {
	s := r.scene
	p := r.params
	if s == nil {
		return RenderStats{}, fmt.Errorf("no scene to render")
	}
	if err := p.Validate(); err != nil {
		return RenderStats{}, err
	}
	if len(pixels) < p.Width*p.Height {
		return RenderStats{}, fmt.Errorf("pixel buffer holds %d pixels, need %d", len(pixels), p.Width*p.Height)
	}

	useOctree := prepareOctree(s, p.EnableOctree)
	f, err := newFrame(s, p, pixels)
	if err != nil {
		return RenderStats{}, err
	}

	start := time.Now()
	pool := NewWorkerPool(f, p.workerCount(), func() *tracer {
		return newTracer(s, p.DepthLimit, useOctree)
	})
	r.logger.Printf("Rendering %s at %dx%d (depth %d, octree %v, %d workers)...\n",
		s.Name, p.Width, p.Height, p.DepthLimit, useOctree, pool.GetNumWorkers())

	pool.Start()
	results := pool.Wait()

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	for _, result := range results {
		stats.merge(result.Stats)
	}
	stats.Duration = time.Since(start)

	r.logger.Printf("Rendered %d pixels in %v (%d rays)\n",
		stats.Pixels, stats.Duration.Round(time.Millisecond), stats.TotalRays())
	return stats, nil
}

// prepareOctree builds the scene's octree when it is enabled and either
// missing or too small to hold every triangle, and reports whether
// triangle queries should use it.
func prepareOctree(s *scene.Scene, enable bool) bool {
	useOctree := enable && len(s.Triangles) > 0
	if !useOctree {
		return false
	}
	config := s.OctreeConfig()
	if s.Octree == nil || s.Octree.Empty() || s.Octree.Config().HalfSize < config.HalfSize {
		s.BuildOctree(config)
	}
	return true
}

// newFrame unprojects through the inverse of the camera's view-projection
func newFrame(s *scene.Scene, p RenderParams, pixels []uint32) (*frame, error) {
	inverse, ok := s.Camera.ViewProjection().Inverse()
	if !ok {
		return nil, fmt.Errorf("camera view-projection matrix is singular")
	}
	return &frame{
		width:           p.Width,
		height:          p.Height,
		origin:          s.Camera.Position,
		inverseViewProj: inverse,
		pixels:          pixels,
	}, nil
}

// Render draws one frame of s into pixels without logging
func Render(s *scene.Scene, pixels []uint32, params RenderParams) error {
	_, err := NewRenderer(s, params, nil).Render(pixels)
	return err
}
