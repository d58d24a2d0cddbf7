package estimator

import (
	"math"
	"testing"

	"github.com/df07/go-nerf-renderer/pkg/core"
	"github.com/df07/go-nerf-renderer/pkg/field"
)

func fullGrid(resolution int) *OccGridEstimator {
	e := New(core.NewCubeAABB(1.0), resolution, field.ContractAABB)
	e.ForceFull()
	return e
}

func TestSamplingCoversRayInterval(t *testing.T) {
	e := fullGrid(8)
	rays := core.RayBatchFrom(
		[]core.Vec3{core.NewVec3(0, 0, 5)},
		[]core.Vec3{core.NewVec3(0, 0, -1)},
	)
	tMins, tMaxs, _ := core.RayAABBIntersect(rays, core.NewCubeAABB(1.0), 0, 10)

	set := e.Sampling(rays, SamplingConfig{
		NearPlane: 0,
		FarPlane:  10,
		TMin:      tMins,
		TMax:      tMaxs,
		StepSize:  0.1,
	}, nil)

	// The cube spans t in [4, 6], so ~20 samples at step 0.1
	if set.Len() < 18 || set.Len() > 22 {
		t.Errorf("Expected around 20 samples, got %d", set.Len())
	}
	for i := 0; i < set.Len(); i++ {
		if set.TStarts[i] < 4.0-1e-9 || set.TEnds[i] > 6.0+1e-9 {
			t.Errorf("Sample %d interval [%f, %f] outside ray bounds [4, 6]",
				i, set.TStarts[i], set.TEnds[i])
		}
		if i > 0 && set.TStarts[i] < set.TStarts[i-1] {
			t.Errorf("Samples out of order at %d: %f < %f", i, set.TStarts[i], set.TStarts[i-1])
		}
	}
}

func TestSamplingSkipsMissingRays(t *testing.T) {
	e := fullGrid(8)
	rays := core.RayBatchFrom(
		[]core.Vec3{core.NewVec3(0, 5, 0), core.NewVec3(0, 0, 5)},
		[]core.Vec3{core.NewVec3(1, 0, 0), core.NewVec3(0, 0, -1)},
	)
	tMins, tMaxs, _ := core.RayAABBIntersect(rays, core.NewCubeAABB(1.0), 0, 10)

	set := e.Sampling(rays, SamplingConfig{
		NearPlane: 0,
		FarPlane:  10,
		TMin:      tMins,
		TMax:      tMaxs,
		StepSize:  0.1,
	}, nil)

	for i := 0; i < set.Len(); i++ {
		if set.RayIndices[i] != 1 {
			t.Fatalf("Expected samples only on ray 1, found sample on ray %d", set.RayIndices[i])
		}
	}
	if set.Len() == 0 {
		t.Error("Expected the hitting ray to produce samples")
	}
}

func TestSamplingSkipsUnoccupiedCells(t *testing.T) {
	aabb := core.NewCubeAABB(1.0)
	e := New(aabb, 8, field.ContractAABB)
	// Occupy only the +x half
	e.UpdateEveryNSteps(0, func(positions []core.Vec3) []float64 {
		out := make([]float64, len(positions))
		for i, p := range positions {
			if p.X > 0 {
				out[i] = 1.0
			}
		}
		return out
	})

	rays := core.RayBatchFrom(
		[]core.Vec3{core.NewVec3(-5, 0.01, 0.01)},
		[]core.Vec3{core.NewVec3(1, 0, 0)},
	)
	tMins, tMaxs, _ := core.RayAABBIntersect(rays, aabb, 0, 20)

	set := e.Sampling(rays, SamplingConfig{
		NearPlane: 0,
		FarPlane:  20,
		TMin:      tMins,
		TMax:      tMaxs,
		StepSize:  0.05,
	}, nil)

	if set.Len() == 0 {
		t.Fatal("Expected samples in the occupied half")
	}
	for i := 0; i < set.Len(); i++ {
		mid := rays.Origin(0).Add(rays.Direction(0).Multiply(set.Midpoint(i)))
		if mid.X < -0.2 {
			t.Errorf("Sample %d at x=%f lies deep in the empty half", i, mid.X)
		}
	}
}

func TestSamplingSigmaCulling(t *testing.T) {
	e := fullGrid(8)
	rays := core.RayBatchFrom(
		[]core.Vec3{core.NewVec3(0, 0, 5)},
		[]core.Vec3{core.NewVec3(0, 0, -1)},
	)
	tMins, tMaxs, _ := core.RayAABBIntersect(rays, core.NewCubeAABB(1.0), 0, 10)

	// Zero density proxy everywhere: every interval is culled
	set := e.Sampling(rays, SamplingConfig{
		SigmaFn: func(positions []core.Vec3) []float64 {
			return make([]float64, len(positions))
		},
		NearPlane: 0,
		FarPlane:  10,
		TMin:      tMins,
		TMax:      tMaxs,
		StepSize:  0.1,
	}, nil)

	if set.Len() != 0 {
		t.Errorf("Expected all samples culled at zero density, got %d", set.Len())
	}
}

func TestSamplingStratifiedJitterIsDeterministicPerSampler(t *testing.T) {
	e := fullGrid(8)
	rays := core.RayBatchFrom(
		[]core.Vec3{core.NewVec3(0, 0, 5)},
		[]core.Vec3{core.NewVec3(0, 0, -1)},
	)
	tMins, tMaxs, _ := core.RayAABBIntersect(rays, core.NewCubeAABB(1.0), 0, 10)
	cfg := SamplingConfig{
		NearPlane:  0,
		FarPlane:   10,
		TMin:       tMins,
		TMax:       tMaxs,
		StepSize:   0.1,
		Stratified: true,
	}

	a := e.Sampling(rays, cfg, core.FixedSampler{Value: 0.5})
	b := e.Sampling(rays, cfg, core.FixedSampler{Value: 0.5})
	if a.Len() != b.Len() {
		t.Fatalf("Expected identical sample counts, got %d and %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if a.TStarts[i] != b.TStarts[i] {
			t.Fatalf("Expected identical jitter with a fixed sampler at sample %d", i)
		}
	}

	// Jitter shifts the first sample off the interval start
	if math.Abs(a.TStarts[0]-4.0) < 1e-12 {
		t.Error("Expected stratified sampling to offset the march start")
	}
}

func TestValidateEmptyRays(t *testing.T) {
	empty := core.NewSampleSet(0)
	repaired := ValidateEmptyRays(empty)
	if repaired.Len() != 1 {
		t.Fatalf("Expected one placeholder sample, got %d", repaired.Len())
	}
	if repaired.RayIndices[0] != 0 || repaired.TStarts[0] != 0 || repaired.TEnds[0] != 0 {
		t.Errorf("Expected zero-length interval on ray 0, got ray %d [%f, %f]",
			repaired.RayIndices[0], repaired.TStarts[0], repaired.TEnds[0])
	}

	// Non-empty sets pass through untouched
	set := core.NewSampleSet(1)
	set.Append(3, 1.0, 1.5)
	passed := ValidateEmptyRays(set)
	if passed.Len() != 1 || passed.RayIndices[0] != 3 {
		t.Error("Expected non-empty set to pass through unchanged")
	}
}
