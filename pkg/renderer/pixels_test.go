package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

func TestPackColor(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		expected uint32
	}{
		{"Black", core.NewVec3(0, 0, 0), 0x000000},
		{"White", core.NewVec3(1, 1, 1), 0xFFFFFF},
		{"Red in bits 16-23", core.NewVec3(1, 0, 0), 0xFF0000},
		{"Green in bits 8-15", core.NewVec3(0, 1, 0), 0x00FF00},
		{"Blue in bits 0-7", core.NewVec3(0, 0, 1), 0x0000FF},
		{"Half", core.NewVec3(0.5, 0.5, 0.5), 0x7F7F7F},
		{"Clamped", core.NewVec3(2, -1, 1.5), 0xFF00FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackColor(tt.color); got != tt.expected {
				t.Errorf("Expected %06x, got %06x", tt.expected, got)
			}
		})
	}
}

func TestUnpackColor(t *testing.T) {
	got := UnpackColor(0x33CC00)
	expected := core.NewVec3(0.2, 0.8, 0)
	if !got.Equals(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if PackColor(UnpackColor(0xFF00FF)) != 0xFF00FF {
		t.Errorf("Saturated channels should survive a round trip")
	}
}

func TestToImage(t *testing.T) {
	pixels := []uint32{
		0xFF0000, 0x00FF00, 0x0000FF,
		0x000000, 0xFFFFFF, 0x808080,
	}
	img, err := ToImage(pixels, 3, 2)
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("Expected 3x2 image, got %v", b)
	}
	// Buffer row 0 stays the top row
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Top-left should be red, got %v", got)
	}
	if got := img.RGBAAt(2, 1); got != (color.RGBA{128, 128, 128, 255}) {
		t.Errorf("Bottom-right should be grey, got %v", got)
	}

	if _, err := ToImage(pixels, 3, 3); err == nil {
		t.Error("Expected an error for a short buffer")
	}
	if _, err := ToImage(pixels, 0, 2); err == nil {
		t.Error("Expected an error for a zero width")
	}
}
