// Package field defines the density and color fields that make up a radiance
// field model: a geometry side mapping positions to density plus a feature
// vector, and a texture side mapping features and view directions to RGB.
package field

import (
	"github.com/df07/go-nerf-renderer/pkg/core"
)

// ContractionMode selects the coordinate remapping applied before indexing
// spatial structures, supporting scenes that extend to infinity.
type ContractionMode int

const (
	// ContractAABB maps the scene bounding box linearly to the unit cube
	ContractAABB ContractionMode = iota
	// ContractUnboundedSphere maps all of space into the unit cube through
	// an inverse-distance sphere contraction
	ContractUnboundedSphere
)

// String returns a human-readable name for the contraction mode
func (m ContractionMode) String() string {
	switch m {
	case ContractAABB:
		return "aabb"
	case ContractUnboundedSphere:
		return "unbounded_sphere"
	default:
		return "unknown"
	}
}

// Geometry is the density side of a radiance field
type Geometry interface {
	// EvalDensity returns the non-negative density at p together with a
	// feature vector consumed by the texture side. Every call evaluates
	// fresh; implementations must not cache by position.
	EvalDensity(p core.Vec3) (density float64, feature []float64)

	// SetContraction configures the coordinate remapping used by the field
	SetContraction(mode ContractionMode)

	// Contraction returns the currently configured remapping
	Contraction() ContractionMode

	// Isosurface extracts a triangle mesh at the field's surface level set
	Isosurface() (*Mesh, error)

	// Regularizations adds this field's named regularization losses to out
	Regularizations(out map[string]float64)

	// UpdateStep advances per-step field state (schedules, annealing)
	UpdateStep(epoch, globalStep int)
}

// Texture is the view-dependent color side of a radiance field
type Texture interface {
	// EvalColor maps a geometry feature and a view direction to RGB.
	// Values are not clamped here; clamping happens only at export.
	EvalColor(feature []float64, viewDir core.Vec3) core.Vec3

	// Regularizations adds this field's named regularization losses to out
	Regularizations(out map[string]float64)

	// UpdateStep advances per-step field state
	UpdateStep(epoch, globalStep int)
}
