package field

import (
	"math"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

// FeatureSize is the length of the feature vector produced by the geometry
// variants in this package: the contracted position followed by one octave of
// sinusoidal positional encoding per axis.
const FeatureSize = 9

// encodeFeature builds the feature vector for a contracted position
func encodeFeature(c core.Vec3) []float64 {
	return []float64{
		c.X, c.Y, c.Z,
		math.Sin(2 * math.Pi * c.X), math.Cos(2 * math.Pi * c.X),
		math.Sin(2 * math.Pi * c.Y), math.Cos(2 * math.Pi * c.Y),
		math.Sin(2 * math.Pi * c.Z), math.Cos(2 * math.Pi * c.Z),
	}
}
