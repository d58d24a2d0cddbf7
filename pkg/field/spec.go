package field

import (
	"fmt"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

// GeometryKind selects a concrete geometry variant. The set is closed: new
// variants are added here, not registered at runtime.
type GeometryKind string

const (
	// GeometryGrid bakes a soft-sphere density into a trilinear voxel grid
	GeometryGrid GeometryKind = "grid"
	// GeometrySphere evaluates the soft-sphere density analytically
	GeometrySphere GeometryKind = "sphere"
)

// TextureKind selects a concrete texture variant
type TextureKind string

const (
	// TextureView shades from features with view-dependent modulation
	TextureView TextureKind = "view"
	// TextureConstant returns a flat color
	TextureConstant TextureKind = "constant"
)

// GeometrySpec configures a geometry variant
type GeometrySpec struct {
	Kind GeometryKind `yaml:"kind"`
	// Resolution is the voxel grid resolution for the grid variant
	Resolution int `yaml:"resolution"`
	// Radius and Peak shape the soft-sphere density used by both variants
	Radius float64 `yaml:"radius"`
	Peak   float64 `yaml:"peak"`
}

// TextureSpec configures a texture variant
type TextureSpec struct {
	Kind         TextureKind `yaml:"kind"`
	Color        [3]float64  `yaml:"color"`
	ViewStrength float64     `yaml:"view_strength"`
}

// BuildGeometry constructs the geometry variant named by the spec, bounded by
// the scene AABB
func BuildGeometry(spec GeometrySpec, bounds core.AABB) (Geometry, error) {
	switch spec.Kind {
	case GeometrySphere:
		return NewSphereGeometry(bounds, bounds.Center(), spec.Radius, spec.Peak)
	case GeometryGrid:
		sphere, err := NewSphereGeometry(bounds, bounds.Center(), spec.Radius, spec.Peak)
		if err != nil {
			return nil, err
		}
		resolution := spec.Resolution
		if resolution == 0 {
			resolution = 64
		}
		return NewGridGeometryFromFunc(bounds, resolution, func(p core.Vec3) float64 {
			d, _ := sphere.EvalDensity(p)
			return d
		})
	default:
		return nil, fmt.Errorf("field: unknown geometry kind %q", spec.Kind)
	}
}

// BuildTexture constructs the texture variant named by the spec
func BuildTexture(spec TextureSpec) (Texture, error) {
	color := core.NewVec3(spec.Color[0], spec.Color[1], spec.Color[2])
	switch spec.Kind {
	case TextureView:
		return NewViewTexture(color, spec.ViewStrength), nil
	case TextureConstant:
		return NewConstantTexture(color), nil
	default:
		return nil, fmt.Errorf("field: unknown texture kind %q", spec.Kind)
	}
}
