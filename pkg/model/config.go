package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-nerf-renderer/pkg/field"
)

// Validation errors surfaced at setup time instead of as downstream numeric
// faults
var (
	ErrInvalidRadius      = errors.New("model: scene radius must be positive")
	ErrInvalidSampleCount = errors.New("model: samples per ray must be positive")
	ErrNilField           = errors.New("model: geometry and texture must be set")
)

const defaultRayChunk = 4096

// SceneConfig is the user-facing scene description. Immutable after setup.
type SceneConfig struct {
	// Radius defines the scene bounding cube [-radius, radius]^3
	Radius float64 `yaml:"radius"`
	// LearnedBackground switches to the unbounded scene mode where the
	// background is part of the field instead of a fixed color
	LearnedBackground bool `yaml:"learned_background"`
	// NumSamplesPerRay sets the nominal sample budget along each ray
	NumSamplesPerRay int `yaml:"num_samples_per_ray"`
	// GridPrune enables occupancy grid refresh; disabled grids stay fully
	// occupied forever
	GridPrune bool `yaml:"grid_prune"`
	// Randomized enables stratified sampling while in training mode
	Randomized bool `yaml:"randomized"`
	// RayChunk bounds inference-time memory by splitting ray batches
	RayChunk int `yaml:"ray_chunk"`
}

// RenderParams are the rendering parameters derived from a SceneConfig
type RenderParams struct {
	GridResolution int
	NearPlane      float64
	FarPlane       float64
	ConeAngle      float64
	RenderStepSize float64
	Contraction    field.ContractionMode
	RayChunk       int
}

// Resolve derives the rendering parameters for the scene. Pure; called once
// at model setup.
//
// Bounded scenes sample a fixed step sized so NumSamplesPerRay steps cover
// the cube diagonal (sqrt(3) * side). Unbounded scenes use a small fixed
// step near the camera that grows geometrically with distance via the cone
// angle, reaching the far plane in roughly NumSamplesPerRay steps.
func (c SceneConfig) Resolve() (RenderParams, error) {
	if c.Radius <= 0 || math.IsNaN(c.Radius) {
		return RenderParams{}, fmt.Errorf("%w: got %g", ErrInvalidRadius, c.Radius)
	}
	if c.NumSamplesPerRay <= 0 {
		return RenderParams{}, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, c.NumSamplesPerRay)
	}

	rayChunk := c.RayChunk
	if rayChunk <= 0 {
		rayChunk = defaultRayChunk
	}

	if c.LearnedBackground {
		farPlane := 1e10
		return RenderParams{
			GridResolution: 256,
			NearPlane:      0.0,
			FarPlane:       farPlane,
			ConeAngle:      math.Pow(10, math.Log10(farPlane)/float64(c.NumSamplesPerRay)) - 1.0,
			RenderStepSize: 0.01,
			Contraction:    field.ContractUnboundedSphere,
			RayChunk:       rayChunk,
		}, nil
	}

	return RenderParams{
		GridResolution: 128,
		NearPlane:      0.0,
		FarPlane:       10.0 * c.Radius,
		ConeAngle:      0.0,
		RenderStepSize: 1.732 * 2.0 * c.Radius / float64(c.NumSamplesPerRay),
		Contraction:    field.ContractAABB,
		RayChunk:       rayChunk,
	}, nil
}
