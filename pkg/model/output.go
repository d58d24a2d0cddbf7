package model

import (
	"github.com/df07/go-nerf-renderer/pkg/core"
)

// RenderOutput holds per-ray rendering results, plus per-sample fields
// retained only in training mode for external loss computation. Transient:
// each forward call returns a fresh output owned by the caller.
type RenderOutput struct {
	CompRGB    []core.Vec3
	Opacity    []float64
	Depth      []float64
	RaysValid  []bool
	NumSamples int

	// Training-only per-sample fields, nil during inference
	Weights    []float64
	Points     []float64 // interval midpoints along each ray
	Intervals  []float64
	RayIndices []int
}

// NumRays returns the number of rays this output covers
func (o *RenderOutput) NumRays() int {
	return len(o.Opacity)
}

// append concatenates another chunk's per-ray fields onto this output.
// Training-only fields are dropped, matching the chunked inference contract.
func (o *RenderOutput) append(chunk *RenderOutput) {
	o.CompRGB = append(o.CompRGB, chunk.CompRGB...)
	o.Opacity = append(o.Opacity, chunk.Opacity...)
	o.Depth = append(o.Depth, chunk.Depth...)
	o.RaysValid = append(o.RaysValid, chunk.RaysValid...)
	o.NumSamples += chunk.NumSamples
}
