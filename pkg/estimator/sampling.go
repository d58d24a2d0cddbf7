package estimator

import (
	"math"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

// SamplingConfig controls one sampling pass over a ray batch
type SamplingConfig struct {
	// SigmaFn, when set, additionally culls intervals whose density proxy
	// falls at or below AlphaThre. It is called outside the differentiable
	// evaluation path; sampling decisions are discrete.
	SigmaFn OccEvalFn

	// NearPlane and FarPlane bound sampling when no per-ray interval is given
	NearPlane float64
	FarPlane  float64

	// TMin and TMax are optional per-ray sampling bounds, typically from a
	// scene AABB intersection. Nil for unbounded scenes.
	TMin []float64
	TMax []float64

	// StepSize is the base marching step along each ray
	StepSize float64

	// Stratified jitters the march start per ray (training mode)
	Stratified bool

	// ConeAngle grows the step with distance for unbounded scenes; 0 keeps
	// the step constant
	ConeAngle float64

	// AlphaThre is the density-proxy culling threshold used with SigmaFn
	AlphaThre float64
}

// Sampling marches every ray through the occupancy grid and returns the
// sparse intervals worth evaluating, grouped by ray and ordered by t. The
// sampler consults the grid per interval midpoint; empty cells produce no
// samples. Rays may contribute zero samples.
func (e *OccGridEstimator) Sampling(rays core.RayBatch, cfg SamplingConfig, sampler core.Sampler) core.SampleSet {
	n := rays.Len()
	set := core.NewSampleSet(n * 8)

	for i := 0; i < n; i++ {
		t0 := cfg.NearPlane
		t1 := cfg.FarPlane
		if cfg.TMin != nil {
			t0 = math.Max(t0, cfg.TMin[i])
		}
		if cfg.TMax != nil {
			t1 = math.Min(t1, cfg.TMax[i])
		}
		if t1 <= t0 {
			continue
		}

		origin := rays.Origin(i)
		direction := rays.Direction(i)

		t := t0
		if cfg.Stratified && sampler != nil {
			t += sampler.Get1D() * stepAt(t0, cfg)
		}
		for t < t1 {
			tEnd := math.Min(t+stepAt(t, cfg), t1)
			mid := origin.Add(direction.Multiply((t + tEnd) / 2))
			if e.OccupiedAt(mid) {
				set.Append(i, t, tEnd)
			}
			t = tEnd
		}
	}

	if cfg.SigmaFn != nil && set.Len() > 0 {
		set = e.cullBySigma(rays, set, cfg)
	}

	return set
}

// stepAt returns the marching step at distance t, growing with the cone
// angle for unbounded scenes
func stepAt(t float64, cfg SamplingConfig) float64 {
	return math.Max(cfg.StepSize, t*cfg.ConeAngle)
}

// cullBySigma drops intervals whose density proxy is at or below the alpha
// threshold. A single batched probe keeps the order of surviving samples.
func (e *OccGridEstimator) cullBySigma(rays core.RayBatch, set core.SampleSet, cfg SamplingConfig) core.SampleSet {
	proxies := cfg.SigmaFn(set.Positions(rays))

	kept := core.NewSampleSet(set.Len())
	for i := range proxies {
		if proxies[i] > cfg.AlphaThre {
			kept.Append(set.RayIndices[i], set.TStarts[i], set.TEnds[i])
		}
	}
	return kept
}

// ValidateEmptyRays guards the degenerate case of a batch producing no
// samples at all. Downstream accumulation indexes by ray, so an entirely
// empty set is replaced with a single zero-length interval on ray 0, which
// contributes zero weight everywhere but keeps every array well-shaped.
func ValidateEmptyRays(set core.SampleSet) core.SampleSet {
	if set.Len() > 0 {
		return set
	}
	set.Append(0, 0, 0)
	return set
}
