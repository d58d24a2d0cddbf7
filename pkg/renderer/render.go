package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-nerf-renderer/pkg/core"
	"github.com/df07/go-nerf-renderer/pkg/model"
)

// RenderImage renders one frame through the camera: a full-screen ray batch
// forwarded through the model, assembled into an image. The model's chunked
// inference path bounds memory, so the batch covers every pixel at once.
func RenderImage(m *model.Model, camera *Camera, width int) (*image.RGBA, error) {
	height := camera.Height()
	out, err := m.Forward(camera.RayBatch())
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			img.SetRGBA(i, j, vec3ToColor(out.CompRGB[j*width+i]))
		}
	}
	return img, nil
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
