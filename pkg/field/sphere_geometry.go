package field

import (
	"fmt"
	"math"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

const (
	defaultIsoLevel      = 0.5
	defaultIsoResolution = 64
)

// SphereGeometry is an analytic density field: a soft sphere whose density
// falls off quadratically from a peak at the center to zero at the radius.
// Cheap and fully predictable, used for demos and tests.
type SphereGeometry struct {
	bounds      core.AABB
	center      core.Vec3
	radius      float64
	peak        float64
	contraction ContractionMode
}

// NewSphereGeometry creates a soft-sphere density field inside the scene
// bounds
func NewSphereGeometry(bounds core.AABB, center core.Vec3, radius, peak float64) (*SphereGeometry, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("field: sphere radius must be positive, got %g", radius)
	}
	if peak < 0 {
		return nil, fmt.Errorf("field: sphere peak density must be non-negative, got %g", peak)
	}
	return &SphereGeometry{
		bounds: bounds,
		center: center,
		radius: radius,
		peak:   peak,
	}, nil
}

// EvalDensity returns the soft-sphere density at p and a feature vector
// derived from the contracted position
func (s *SphereGeometry) EvalDensity(p core.Vec3) (float64, []float64) {
	feature := encodeFeature(Contract(p, s.bounds, s.contraction))
	d := p.Subtract(s.center).Length() / s.radius
	if d >= 1 {
		return 0, feature
	}
	falloff := 1 - d*d
	return s.peak * falloff * falloff, feature
}

// SetContraction configures the coordinate remapping
func (s *SphereGeometry) SetContraction(mode ContractionMode) {
	s.contraction = mode
}

// Contraction returns the configured remapping
func (s *SphereGeometry) Contraction() ContractionMode {
	return s.contraction
}

// Isosurface extracts the sphere's half-peak level set
func (s *SphereGeometry) Isosurface() (*Mesh, error) {
	level := s.peak / 2
	if level <= 0 {
		return nil, fmt.Errorf("field: zero-density sphere has no surface")
	}
	extent := core.NewVec3(s.radius, s.radius, s.radius).Multiply(1.1)
	bounds := core.NewAABB(s.center.Subtract(extent), s.center.Add(extent))
	mesh := ExtractSurfaceNets(func(p core.Vec3) float64 {
		d, _ := s.EvalDensity(p)
		return d
	}, bounds, defaultIsoResolution, level)
	if mesh.VertexCount() == 0 {
		return nil, fmt.Errorf("field: surface extraction produced no vertices")
	}
	return mesh, nil
}

// Regularizations has nothing to add for an analytic field
func (s *SphereGeometry) Regularizations(out map[string]float64) {}

// UpdateStep is a no-op for an analytic field
func (s *SphereGeometry) UpdateStep(epoch, globalStep int) {}

// sigmoid squashes x into (0, 1)
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
