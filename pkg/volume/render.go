// Package volume implements the volume rendering integral: converting
// per-sample densities into alpha-blend weights and accumulating weighted
// quantities per ray.
package volume

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

// ErrNegativeDensity reports a density below zero reaching the compositor,
// which would produce transmittance above 1
var ErrNegativeDensity = errors.New("volume: negative density")

// RenderWeightFromDensity converts per-sample densities into alpha-blend
// weights via the transmittance formula
//
//	weight_i = T_i * (1 - exp(-density_i * (tEnd_i - tStart_i)))
//
// where T_i is the transmittance accumulated over the preceding samples of
// the same ray. Samples must be grouped by ray index and ordered by
// increasing t along each ray; the sampler supplies both.
func RenderWeightFromDensity(tStarts, tEnds, densities []float64, rayIndices []int, nRays int) (weights, trans []float64, err error) {
	n := len(rayIndices)
	if len(tStarts) != n || len(tEnds) != n || len(densities) != n {
		return nil, nil, fmt.Errorf("volume: mismatched sample arrays (%d indices, %d starts, %d ends, %d densities)",
			n, len(tStarts), len(tEnds), len(densities))
	}

	weights = make([]float64, n)
	trans = make([]float64, n)

	currentRay := -1
	transmittance := 1.0
	for i := 0; i < n; i++ {
		if densities[i] < 0 {
			return nil, nil, fmt.Errorf("%w: %g at sample %d", ErrNegativeDensity, densities[i], i)
		}
		if rayIndices[i] != currentRay {
			currentRay = rayIndices[i]
			transmittance = 1.0
		}
		alpha := 1.0 - math.Exp(-densities[i]*(tEnds[i]-tStarts[i]))
		trans[i] = transmittance
		weights[i] = transmittance * alpha
		transmittance *= 1.0 - alpha
	}

	return weights, trans, nil
}

// AccumulateAlongRays scatter-accumulates weighted scalar values per ray.
// A nil values slice accumulates the weights themselves, yielding opacity.
func AccumulateAlongRays(weights, values []float64, rayIndices []int, nRays int) []float64 {
	out := make([]float64, nRays)
	for i, ray := range rayIndices {
		w := weights[i]
		if values != nil {
			w *= values[i]
		}
		out[ray] += w
	}
	return out
}

// AccumulateColorsAlongRays scatter-accumulates weighted colors per ray
func AccumulateColorsAlongRays(weights []float64, values []core.Vec3, rayIndices []int, nRays int) []core.Vec3 {
	out := make([]core.Vec3, nRays)
	for i, ray := range rayIndices {
		out[ray] = out[ray].Add(values[i].Multiply(weights[i]))
	}
	return out
}
