package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-nerf-renderer/pkg/core"
	"github.com/df07/go-nerf-renderer/pkg/field"
	"github.com/df07/go-nerf-renderer/pkg/model"
)

func TestRenderImageProducesSphereSilhouette(t *testing.T) {
	bounds := core.NewCubeAABB(1.0)
	geometry, err := field.NewSphereGeometry(bounds, core.NewVec3(0, 0, 0), 0.6, 40.0)
	if err != nil {
		t.Fatalf("NewSphereGeometry failed: %v", err)
	}
	m, err := model.NewModel(model.SceneConfig{
		Radius:           1.0,
		NumSamplesPerRay: 128,
	}, geometry, field.NewConstantTexture(core.NewVec3(0, 0, 0)), core.NewVec3(1, 1, 1))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}

	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 2.5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       21,
		AspectRatio: 1.0,
		VFov:        40.0,
	})

	img, err := RenderImage(m, camera, 21)
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	// Black sphere on white background: center pixel dark, corner white
	center := img.RGBAAt(10, 10)
	corner := img.RGBAAt(0, 0)
	if center.R > 50 {
		t.Errorf("Expected dark center pixel, got %v", center)
	}
	if corner.R < 250 || corner.G < 250 || corner.B < 250 {
		t.Errorf("Expected white corner pixel, got %v", corner)
	}
}

func TestVec3ToColorClampsAndGammaCorrects(t *testing.T) {
	white := vec3ToColor(core.NewVec3(2, 2, 2))
	if white != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected clamped white, got %v", white)
	}

	black := vec3ToColor(core.NewVec3(0, 0, 0))
	if black != (color.RGBA{A: 255}) {
		t.Errorf("Expected black, got %v", black)
	}

	// Gamma 2.0 lifts midtones: 0.25 -> 0.5
	mid := vec3ToColor(core.NewVec3(0.25, 0.25, 0.25))
	if mid.R < 126 || mid.R > 128 {
		t.Errorf("Expected gamma-corrected midtone near 127, got %v", mid)
	}
}
