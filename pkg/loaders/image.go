package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/df07/go-octree-raytracer/pkg/core"
	"github.com/df07/go-octree-raytracer/pkg/material"
)

// LoadImageTexture decodes a PNG or JPEG file into an image texture
func LoadImageTexture(filename string) (*material.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	texture, err := DecodeImageTexture(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return texture, nil
}

// DecodeImageTexture decodes any registered image format
func DecodeImageTexture(r io.Reader) (*material.ImageTexture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts an image to a texture with [0, 1] channels,
// top row first. Alpha is dropped after un-premultiplying.
func TextureFromImage(img image.Image) *material.ImageTexture {
	b := img.Bounds()
	pixels := make([]core.Vec3, 0, b.Dx()*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			pixels = append(pixels, core.NewVec3(float64(c.R), float64(c.G), float64(c.B)).Multiply(1.0/0xffff))
		}
	}
	return material.NewImageTexture(b.Dx(), b.Dy(), pixels)
}
