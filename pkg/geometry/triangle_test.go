package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-octree-raytracer/pkg/core"
)

func TestTriangle_Intersect(t *testing.T) {
	// Triangle in the XY plane
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), 0)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
		expectedU float64
		expectedV float64
	}{
		{
			name:      "Ray hits triangle interior",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
			expectedU: 0.25,
			expectedV: 0.25,
		},
		{
			name:      "Ray hits triangle edge",
			ray:       core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1)),
			shouldHit: true,
			expectedT: 1.0,
			expectedU: 0.5,
			expectedV: 0,
		},
		{
			name:      "Ray hits from behind",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)),
			shouldHit: true,
			expectedT: 1.0,
			expectedU: 0.25,
			expectedV: 0.25,
		},
		{
			name:      "Ray misses triangle",
			ray:       core.NewRay(core.NewVec3(1, 1, -1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to triangle",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Triangle behind ray",
			ray:       core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, u, v, ok := triangle.Intersect(tt.ray)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, ok)
			}
			if !tt.shouldHit {
				return
			}
			if math.Abs(dist-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, dist)
			}
			if math.Abs(u-tt.expectedU) > 1e-9 || math.Abs(v-tt.expectedV) > 1e-9 {
				t.Errorf("Expected barycentrics (%f, %f), got (%f, %f)", tt.expectedU, tt.expectedV, u, v)
			}
		})
	}
}

func TestTriangle_DegenerateNeverHits(t *testing.T) {
	// Collinear vertices
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), 0)
	ray := core.NewRay(core.NewVec3(0.5, 0, -1), core.NewVec3(0, 0, 1))

	if _, _, _, ok := triangle.Intersect(ray); ok {
		t.Error("Zero-area triangle should never be hit")
	}
}

func TestTriangle_Normal(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), 0)

	expected := core.NewVec3(0, 0, 1)
	if !triangle.Normal.Equals(expected, 1e-12) {
		t.Errorf("Expected normal %v, got %v", expected, triangle.Normal)
	}
}

func TestTriangle_InterpolateUV(t *testing.T) {
	triangle := NewTexturedTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1),
		0,
	)

	tests := []struct {
		u, v     float64
		expected core.Vec2
	}{
		{0, 0, core.NewVec2(0, 0)},
		{1, 0, core.NewVec2(1, 0)},
		{0, 1, core.NewVec2(0, 1)},
		{0.25, 0.5, core.NewVec2(0.25, 0.5)},
	}

	for _, tt := range tests {
		got := triangle.InterpolateUV(tt.u, tt.v)
		if math.Abs(got.U-tt.expected.U) > 1e-12 || math.Abs(got.V-tt.expected.V) > 1e-12 {
			t.Errorf("InterpolateUV(%f, %f) = %v, expected %v", tt.u, tt.v, got, tt.expected)
		}
	}
	if !triangle.HasUV {
		t.Error("Textured triangle should report HasUV")
	}
}

func TestTriangle_BoundingBox(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(1, 3, 0), 0)

	bbox := triangle.BoundingBox()

	expectedMin := core.NewVec3(0, 0, 0)
	expectedMax := core.NewVec3(2, 3, 0)

	const tolerance = 1e-9
	if bbox.Min.Subtract(expectedMin).Length() > tolerance {
		t.Errorf("Expected min %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max.Subtract(expectedMax).Length() > tolerance {
		t.Errorf("Expected max %v, got %v", expectedMax, bbox.Max)
	}
}
