package volume

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

func TestRenderWeightSingleSample(t *testing.T) {
	density := 2.0
	weights, trans, err := RenderWeightFromDensity(
		[]float64{1.0}, []float64{1.5}, []float64{density}, []int{0}, 1)
	if err != nil {
		t.Fatalf("RenderWeightFromDensity failed: %v", err)
	}

	expected := 1.0 - math.Exp(-density*0.5)
	if math.Abs(weights[0]-expected) > 1e-12 {
		t.Errorf("Expected weight %f, got %f", expected, weights[0])
	}
	if trans[0] != 1.0 {
		t.Errorf("Expected full transmittance at the first sample, got %f", trans[0])
	}
}

func TestRenderWeightTransmittanceChain(t *testing.T) {
	// Two samples on one ray: the second sees the first's transmittance
	weights, trans, err := RenderWeightFromDensity(
		[]float64{0.0, 0.5}, []float64{0.5, 1.0},
		[]float64{1.0, 2.0}, []int{0, 0}, 1)
	if err != nil {
		t.Fatalf("RenderWeightFromDensity failed: %v", err)
	}

	alpha0 := 1.0 - math.Exp(-1.0*0.5)
	alpha1 := 1.0 - math.Exp(-2.0*0.5)
	if math.Abs(weights[0]-alpha0) > 1e-12 {
		t.Errorf("First weight: expected %f, got %f", alpha0, weights[0])
	}
	expected1 := (1.0 - alpha0) * alpha1
	if math.Abs(weights[1]-expected1) > 1e-12 {
		t.Errorf("Second weight: expected %f, got %f", expected1, weights[1])
	}
	if math.Abs(trans[1]-(1.0-alpha0)) > 1e-12 {
		t.Errorf("Second transmittance: expected %f, got %f", 1.0-alpha0, trans[1])
	}
}

func TestRenderWeightResetsPerRay(t *testing.T) {
	// A dense sample on ray 0 must not dim ray 1
	weights, _, err := RenderWeightFromDensity(
		[]float64{0, 0}, []float64{1, 1},
		[]float64{100.0, 1.0}, []int{0, 1}, 2)
	if err != nil {
		t.Fatalf("RenderWeightFromDensity failed: %v", err)
	}

	expected := 1.0 - math.Exp(-1.0)
	if math.Abs(weights[1]-expected) > 1e-12 {
		t.Errorf("Expected ray 1 weight %f, got %f", expected, weights[1])
	}
}

func TestWeightSumNeverExceedsOne(t *testing.T) {
	random := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		n := 1 + random.Intn(30)
		tStarts := make([]float64, n)
		tEnds := make([]float64, n)
		densities := make([]float64, n)
		rayIndices := make([]int, n)
		t0 := 0.0
		for i := 0; i < n; i++ {
			dt := random.Float64() * 0.5
			tStarts[i] = t0
			tEnds[i] = t0 + dt
			t0 += dt
			densities[i] = random.Float64() * 20
		}

		weights, _, err := RenderWeightFromDensity(tStarts, tEnds, densities, rayIndices, 1)
		if err != nil {
			t.Fatalf("RenderWeightFromDensity failed: %v", err)
		}
		var sum float64
		for _, w := range weights {
			if w < 0 {
				t.Fatalf("Trial %d: negative weight %f", trial, w)
			}
			sum += w
		}
		if sum > 1.0+1e-9 {
			t.Fatalf("Trial %d: weight sum %f exceeds 1", trial, sum)
		}
	}
}

func TestRenderWeightRejectsNegativeDensity(t *testing.T) {
	_, _, err := RenderWeightFromDensity(
		[]float64{0}, []float64{1}, []float64{-0.5}, []int{0}, 1)
	if !errors.Is(err, ErrNegativeDensity) {
		t.Errorf("Expected ErrNegativeDensity, got %v", err)
	}
}

func TestRenderWeightRejectsMismatchedArrays(t *testing.T) {
	_, _, err := RenderWeightFromDensity(
		[]float64{0, 1}, []float64{1}, []float64{1}, []int{0}, 1)
	if err == nil {
		t.Error("Expected error for mismatched array lengths")
	}
}

func TestAccumulateAlongRays(t *testing.T) {
	weights := []float64{0.25, 0.25, 0.5}
	rayIndices := []int{0, 0, 2}

	opacity := AccumulateAlongRays(weights, nil, rayIndices, 3)
	if opacity[0] != 0.5 || opacity[1] != 0 || opacity[2] != 0.5 {
		t.Errorf("Unexpected opacity %v", opacity)
	}

	depths := AccumulateAlongRays(weights, []float64{1, 3, 2}, rayIndices, 3)
	if depths[0] != 1.0 || depths[2] != 1.0 {
		t.Errorf("Unexpected depths %v", depths)
	}
}

func TestAccumulateColorsAlongRays(t *testing.T) {
	weights := []float64{0.5, 0.5}
	colors := []core.Vec3{core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	out := AccumulateColorsAlongRays(weights, colors, []int{0, 0}, 2)
	expected := core.NewVec3(0.5, 0.5, 0)
	if out[0].Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, out[0])
	}
	if out[1] != (core.Vec3{}) {
		t.Errorf("Expected zero color on empty ray, got %v", out[1])
	}
}
