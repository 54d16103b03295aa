package material

import (
	"github.com/df07/go-octree-raytracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample returns the nearest texel at uv, wrapping coordinates into [0, 1).
// V=0 is the bottom row of the image.
func (t *ImageTexture) Sample(uv core.Vec2) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return White
	}

	u := uv.U - float64(int(uv.U))
	v := uv.V - float64(int(uv.V))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	x := min(max(int(u*float64(t.Width)), 0), t.Width-1)
	y := min(max(int((1.0-v)*float64(t.Height)), 0), t.Height-1)

	return t.Pixels[y*t.Width+x]
}
