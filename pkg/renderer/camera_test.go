package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 2.5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       101,
		AspectRatio: 1.0,
		VFov:        45.0,
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)

	if forward.Subtract(expected).Length() > 1e-6 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraCenterPixelLooksForward(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	// The center pixel of an odd-sized image looks along the view axis
	ray := camera.GetRay(50, 50)
	expected := core.NewVec3(0, 0, -1)
	if ray.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected center ray direction %v, got %v", expected, ray.Direction)
	}
	if ray.Origin != camera.config.Center {
		t.Errorf("Expected ray origin at camera center, got %v", ray.Origin)
	}
}

func TestCameraRaysAreNormalized(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	for _, px := range [][2]int{{0, 0}, {100, 0}, {0, 100}, {100, 100}, {50, 50}} {
		ray := camera.GetRay(px[0], px[1])
		if math.Abs(ray.Direction.Length()-1.0) > 1e-9 {
			t.Errorf("Pixel %v: direction length %f, expected 1", px, ray.Direction.Length())
		}
	}
}

func TestCameraRayBatchOrder(t *testing.T) {
	camera := NewCamera(testCameraConfig())
	batch := camera.RayBatch()

	if batch.Len() != 101*101 {
		t.Fatalf("Expected %d rays, got %d", 101*101, batch.Len())
	}

	// Row-major order: batch index j*width+i matches GetRay(i, j)
	expected := camera.GetRay(7, 3)
	got := batch.At(3*101 + 7)
	if got.Direction.Subtract(expected.Direction).Length() > 1e-12 {
		t.Errorf("Batch ray order mismatch: expected %v, got %v", expected.Direction, got.Direction)
	}

	// Image y increases downward, so the top row looks above the bottom row
	top := batch.Direction(50)
	bottom := batch.Direction(100*101 + 50)
	if top.Y <= bottom.Y {
		t.Errorf("Expected top row to look upward relative to bottom row: %f <= %f", top.Y, bottom.Y)
	}
}
