package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

// PackColor converts a color to 0x00RRGGBB. Channels are clamped to [0, 1].
func PackColor(c core.Vec3) uint32 {
	c = c.Clamp(0.0, 1.0)
	r := uint32(255 * c.X)
	g := uint32(255 * c.Y)
	b := uint32(255 * c.Z)
	return r<<16 | g<<8 | b
}

// UnpackColor converts a packed pixel back to a color with [0, 1] channels
func UnpackColor(p uint32) core.Vec3 {
	return core.NewVec3(
		float64((p>>16)&0xff)/255.0,
		float64((p>>8)&0xff)/255.0,
		float64(p&0xff)/255.0,
	)
}

// ToImage converts a packed row-major buffer into an opaque RGBA image.
// Buffer row 0 is the top row of the image.
func ToImage(pixels []uint32, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pixels) < width*height {
		return nil, fmt.Errorf("pixel buffer holds %d pixels, need %d", len(pixels), width*height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
				A: 255,
			})
		}
	}
	return img, nil
}
