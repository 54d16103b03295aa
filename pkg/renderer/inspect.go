package renderer

import (
	"fmt"

	"github.com/df07/go-octree-raytracer/pkg/geometry"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// InspectPixel casts the primary ray through the center of pixel (x, y) and
// returns the nearest surface it meets. The bool is false when the ray only
// sees background.
func InspectPixel(s *scene.Scene, params RenderParams, x, y int) (Hit, bool, error) {
	if s == nil {
		return Hit{}, false, fmt.Errorf("no scene to inspect")
	}
	if err := params.Validate(); err != nil {
		return Hit{}, false, err
	}
	if x < 0 || x >= params.Width || y < 0 || y >= params.Height {
		return Hit{}, false, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, params.Width, params.Height)
	}

	useOctree := prepareOctree(s, params.EnableOctree)
	f, err := newFrame(s, params, nil)
	if err != nil {
		return Hit{}, false, err
	}

	t := newTracer(s, params.DepthLimit, useOctree)
	hit, ok := t.findNearest(f.primaryRay(x, y), geometry.NoObject, false)
	return hit, ok, nil
}
