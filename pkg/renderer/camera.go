// Package renderer turns a radiance field model into images: a pinhole
// camera generating ray batches and an assembly step writing per-ray colors
// into pixels.
package renderer

import (
	"math"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

// CameraConfig holds camera placement and projection settings
type CameraConfig struct {
	Center      core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	Width       int
	AspectRatio float64
	VFov        float64 // Vertical field of view in degrees
}

// Camera generates rays for rendering
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	height          int
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		config:          config,
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
		height:          int(float64(config.Width) / config.AspectRatio),
	}
}

// Height returns the image height implied by width and aspect ratio
func (c *Camera) Height() int {
	return c.height
}

// GetCameraForward returns the camera's forward direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.config.LookAt.Subtract(c.config.Center).Normalize()
}

// GetRay generates the ray through the center of pixel (i, j), with (0, 0)
// at the top-left of the image
func (c *Camera) GetRay(i, j int) core.Ray {
	s := (float64(i) + 0.5) / float64(c.config.Width)
	t := (float64(c.height-1-j) + 0.5) / float64(c.height)

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Normalize()

	return core.NewRay(c.origin, direction)
}

// RayBatch generates one ray per pixel in row-major order, top-left first
func (c *Camera) RayBatch() core.RayBatch {
	batch := core.NewRayBatch(c.config.Width * c.height)
	for j := 0; j < c.height; j++ {
		for i := 0; i < c.config.Width; i++ {
			ray := c.GetRay(i, j)
			batch.Set(j*c.config.Width+i, ray.Origin, ray.Direction)
		}
	}
	return batch
}
