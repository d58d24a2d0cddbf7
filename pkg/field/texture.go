package field

import (
	"github.com/df07/go-nerf-renderer/pkg/core"
)

// ViewTexture shades samples from the positional-encoding feature with a
// view-dependent brightening toward grazing angles, a stand-in for a learned
// view-dependent color head.
type ViewTexture struct {
	// Base tints the color derived from the feature vector
	Base core.Vec3
	// ViewStrength scales the view-dependent term, 0 disables it
	ViewStrength float64
}

// NewViewTexture creates a view-dependent texture with the given base tint
func NewViewTexture(base core.Vec3, viewStrength float64) *ViewTexture {
	return &ViewTexture{Base: base, ViewStrength: viewStrength}
}

// EvalColor maps the feature's encoded position through a sigmoid palette and
// modulates it by the view direction
func (t *ViewTexture) EvalColor(feature []float64, viewDir core.Vec3) core.Vec3 {
	if len(feature) < 3 {
		return t.Base
	}
	rgb := core.NewVec3(
		sigmoid(4*feature[0]-2),
		sigmoid(4*feature[1]-2),
		sigmoid(4*feature[2]-2),
	).MultiplyVec(t.Base)

	if t.ViewStrength != 0 {
		d := viewDir.Normalize()
		// Brighten toward grazing view angles on the encoded axes
		facing := (d.X*feature[0] + d.Y*feature[1] + d.Z*feature[2])
		rgb = rgb.Multiply(1 + t.ViewStrength*facing)
	}
	return rgb
}

// Regularizations has nothing to add for this texture
func (t *ViewTexture) Regularizations(out map[string]float64) {}

// UpdateStep is a no-op for this texture
func (t *ViewTexture) UpdateStep(epoch, globalStep int) {}

// ConstantTexture returns the same color for every sample regardless of
// feature or view direction
type ConstantTexture struct {
	Color core.Vec3
}

// NewConstantTexture creates a flat-color texture
func NewConstantTexture(color core.Vec3) *ConstantTexture {
	return &ConstantTexture{Color: color}
}

// EvalColor returns the constant color
func (t *ConstantTexture) EvalColor(feature []float64, viewDir core.Vec3) core.Vec3 {
	return t.Color
}

// Regularizations has nothing to add for this texture
func (t *ConstantTexture) Regularizations(out map[string]float64) {}

// UpdateStep is a no-op for this texture
func (t *ConstantTexture) UpdateStep(epoch, globalStep int) {}

var _ Texture = (*ViewTexture)(nil)
var _ Texture = (*ConstantTexture)(nil)
var _ Geometry = (*GridGeometry)(nil)
var _ Geometry = (*SphereGeometry)(nil)
