package renderer

import (
	"fmt"
	"runtime"

	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// RenderParams contains the per-frame render configuration
type RenderParams struct {
	Width        int  // Output width in pixels
	Height       int  // Output height in pixels
	DepthLimit   int  // Maximum reflection/refraction recursion depth
	EnableOctree bool // Query triangles through the scene octree
	Threads      int  // Number of row workers (0 = use CPU count)
}

// DefaultRenderParams returns sensible default values
func DefaultRenderParams() RenderParams {
	return RenderParams{
		Width:        640,
		Height:       480,
		DepthLimit:   2,
		EnableOctree: true,
		Threads:      0, // Auto-detect CPU count
	}
}

// ParamsFromSettings converts the settings a scene recommends into render params
func ParamsFromSettings(settings scene.RenderSettings) RenderParams {
	return RenderParams{
		Width:        settings.Width,
		Height:       settings.Height,
		DepthLimit:   settings.DepthLimit,
		EnableOctree: settings.EnableOctree,
	}
}

// Validate checks the params describe a renderable frame
func (p RenderParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", p.Width, p.Height)
	}
	if p.DepthLimit < 0 {
		return fmt.Errorf("depth limit must be >= 0, got %d", p.DepthLimit)
	}
	if p.Threads < 0 {
		return fmt.Errorf("thread count must be >= 0, got %d", p.Threads)
	}
	return nil
}

// workerCount resolves Threads to the number of workers actually started.
// There is never more than one worker per row.
func (p RenderParams) workerCount() int {
	n := p.Threads
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return min(n, p.Height)
}
