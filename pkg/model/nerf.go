// Package model wires the occupancy-grid estimator, the geometry and texture
// fields, and the volume compositor into a complete radiance field renderer.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-nerf-renderer/internal/logger"
	"github.com/df07/go-nerf-renderer/pkg/core"
	"github.com/df07/go-nerf-renderer/pkg/estimator"
	"github.com/df07/go-nerf-renderer/pkg/field"
	"github.com/df07/go-nerf-renderer/pkg/volume"
)

// ErrInvalidBackground reports a non-finite or negative background color
var ErrInvalidBackground = errors.New("model: background color must be finite and non-negative")

// Model is a neural-radiance-field style volumetric renderer: a density
// field and a view-dependent color field queried by occupancy-grid
// accelerated ray marching.
//
// Not safe for concurrent use. The occupancy grid is mutated only by the
// owning training step; concurrent forward calls are unsupported.
type Model struct {
	cfg    SceneConfig
	params RenderParams

	geometry  field.Geometry
	texture   field.Texture
	estimator *estimator.OccGridEstimator
	sceneAABB core.AABB

	// background is required at construction so compositing can never run
	// against an unset value
	background core.Vec3

	sampler    core.Sampler
	training   bool
	randomized bool
}

// NewModel creates a model for the given scene. The background color is a
// required constructor parameter; it is composited behind every ray in
// bounded mode.
func NewModel(cfg SceneConfig, geometry field.Geometry, texture field.Texture, background core.Vec3) (*Model, error) {
	if geometry == nil || texture == nil {
		return nil, ErrNilField
	}
	if !validColor(background) {
		return nil, fmt.Errorf("%w: got %+v", ErrInvalidBackground, background)
	}
	params, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	sceneAABB := core.NewCubeAABB(cfg.Radius)
	geometry.SetContraction(params.Contraction)

	est := estimator.New(sceneAABB, params.GridResolution, params.Contraction)
	if !cfg.GridPrune {
		est.ForceFull()
	}

	logger.Sugar.Debugw("model setup",
		"radius", cfg.Radius,
		"contraction", params.Contraction.String(),
		"grid_resolution", params.GridResolution,
		"step_size", params.RenderStepSize,
		"far_plane", params.FarPlane,
	)

	return &Model{
		cfg:        cfg,
		params:     params,
		geometry:   geometry,
		texture:    texture,
		estimator:  est,
		sceneAABB:  sceneAABB,
		background: background,
		sampler:    core.NewRandomSampler(rand.New(rand.NewSource(42))), // Deterministic for testing
		randomized: cfg.Randomized,
	}, nil
}

// Params returns the derived rendering parameters
func (m *Model) Params() RenderParams {
	return m.params
}

// Train toggles training mode. Stratified sampling follows training mode
// when the scene config enables randomization.
func (m *Model) Train(mode bool) {
	m.training = mode
	m.randomized = mode && m.cfg.Randomized
}

// Eval switches to evaluation mode, disabling stratified sampling
func (m *Model) Eval() {
	m.Train(false)
}

// IsTraining reports whether the model is in training mode
func (m *Model) IsTraining() bool {
	return m.training
}

// UpdateStep advances per-step state: the sub-fields first, then the
// occupancy grid when training with pruning enabled. The grid refresh probes
// density through a Taylor proxy for opacity, density * stepSize, which
// approximates 1 - exp(-density * stepSize) for small steps.
func (m *Model) UpdateStep(epoch, globalStep int) {
	m.geometry.UpdateStep(epoch, globalStep)
	m.texture.UpdateStep(epoch, globalStep)

	if !m.training || !m.cfg.GridPrune {
		return
	}

	occEval := func(positions []core.Vec3) []float64 {
		out := make([]float64, len(positions))
		for i, p := range positions {
			density, _ := m.geometry.EvalDensity(p)
			out[i] = density * m.params.RenderStepSize
		}
		return out
	}
	m.estimator.UpdateEveryNSteps(globalStep, occEval)
}

// Forward renders a ray batch. Training mode runs a single unchunked pass
// and retains per-sample fields for loss computation; evaluation mode chunks
// the batch to bound memory and drops the training-only fields.
func (m *Model) Forward(rays core.RayBatch) (*RenderOutput, error) {
	if m.training {
		return m.forward(rays)
	}
	return m.forwardChunked(rays)
}

// forwardChunked partitions the batch, renders each chunk, and reassembles
// per-ray outputs in the original order
func (m *Model) forwardChunked(rays core.RayBatch) (*RenderOutput, error) {
	n := rays.Len()
	out := &RenderOutput{}
	for lo := 0; lo < n; lo += m.params.RayChunk {
		hi := min(lo+m.params.RayChunk, n)
		chunk, err := m.forward(rays.Slice(lo, hi))
		if err != nil {
			return nil, fmt.Errorf("rendering rays [%d,%d): %w", lo, hi, err)
		}
		out.append(chunk)
	}
	return out, nil
}

// forward runs the full pipeline on one batch: sample, evaluate, composite
func (m *Model) forward(rays core.RayBatch) (*RenderOutput, error) {
	nRays := rays.Len()

	samplingCfg := estimator.SamplingConfig{
		NearPlane:  m.params.NearPlane,
		FarPlane:   m.params.FarPlane,
		StepSize:   m.params.RenderStepSize,
		Stratified: m.randomized,
		ConeAngle:  m.params.ConeAngle,
		AlphaThre:  0.0,
	}

	// Bounded scenes clip sampling to the scene box up front; unbounded
	// scenes rely on the contraction and far plane instead
	if !m.cfg.LearnedBackground {
		tMins, tMaxs, _ := core.RayAABBIntersect(rays, m.sceneAABB, m.params.NearPlane, m.params.FarPlane)
		samplingCfg.TMin = tMins
		samplingCfg.TMax = tMaxs
	}

	// The sampler's density probe is separate from the differentiable
	// evaluation below; sampling decisions are discrete and not traced
	if m.cfg.GridPrune {
		samplingCfg.SigmaFn = func(positions []core.Vec3) []float64 {
			out := make([]float64, len(positions))
			for i, p := range positions {
				density, _ := m.geometry.EvalDensity(p)
				out[i] = density * m.params.RenderStepSize
			}
			return out
		}
	}

	set := m.estimator.Sampling(rays, samplingCfg, m.sampler)
	set = estimator.ValidateEmptyRays(set)

	// Final evaluation at the interval midpoints
	numSamples := set.Len()
	densities := make([]float64, numSamples)
	rgbs := make([]core.Vec3, numSamples)
	midpoints := make([]float64, numSamples)
	intervals := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		position := set.Position(rays, i)
		viewDir := rays.Direction(set.RayIndices[i])
		density, feature := m.geometry.EvalDensity(position)
		densities[i] = density
		rgbs[i] = m.texture.EvalColor(feature, viewDir)
		midpoints[i] = set.Midpoint(i)
		intervals[i] = set.Interval(i)
	}

	weights, _, err := volume.RenderWeightFromDensity(set.TStarts, set.TEnds, densities, set.RayIndices, nRays)
	if err != nil {
		return nil, err
	}

	opacity := volume.AccumulateAlongRays(weights, nil, set.RayIndices, nRays)
	depth := volume.AccumulateAlongRays(weights, midpoints, set.RayIndices, nRays)
	compRGB := volume.AccumulateColorsAlongRays(weights, rgbs, set.RayIndices, nRays)

	raysValid := make([]bool, nRays)
	for r := 0; r < nRays; r++ {
		compRGB[r] = compRGB[r].Add(m.background.Multiply(1.0 - opacity[r]))
		raysValid[r] = opacity[r] > 0
	}

	out := &RenderOutput{
		CompRGB:    compRGB,
		Opacity:    opacity,
		Depth:      depth,
		RaysValid:  raysValid,
		NumSamples: numSamples,
	}
	if m.training {
		out.Weights = weights
		out.Points = midpoints
		out.Intervals = intervals
		out.RayIndices = set.RayIndices
	}
	return out, nil
}

// Regularizations collects named regularization losses from the sub-fields
func (m *Model) Regularizations(out *RenderOutput) map[string]float64 {
	losses := make(map[string]float64)
	m.geometry.Regularizations(losses)
	m.texture.Regularizations(losses)
	return losses
}

// Isosurface extracts the geometry's surface mesh
func (m *Model) Isosurface() (*field.Mesh, error) {
	return m.geometry.Isosurface()
}

// ExportConfig controls mesh export
type ExportConfig struct {
	// ExportVertexColor bakes texture colors onto mesh vertices
	ExportVertexColor bool
	// ChunkSize bounds how many vertices are evaluated per pass
	ChunkSize int
}

// Export extracts the surface mesh, optionally baking per-vertex color by
// evaluating the texture with a fixed downward view direction. Colors are
// clamped to [0,1] here and nowhere earlier.
func (m *Model) Export(cfg ExportConfig) (*field.Mesh, error) {
	mesh, err := m.Isosurface()
	if err != nil {
		return nil, err
	}
	if !cfg.ExportVertexColor {
		return mesh, nil
	}

	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultRayChunk
	}
	viewDir := core.NewVec3(0, 0, -1) // looking down -z

	mesh.Colors = make([]core.Vec3, len(mesh.Vertices))
	for lo := 0; lo < len(mesh.Vertices); lo += chunkSize {
		hi := min(lo+chunkSize, len(mesh.Vertices))
		for i := lo; i < hi; i++ {
			_, feature := m.geometry.EvalDensity(mesh.Vertices[i])
			mesh.Colors[i] = m.texture.EvalColor(feature, viewDir).Clamp(0, 1)
		}
	}

	logger.Sugar.Debugw("mesh exported",
		"vertices", mesh.VertexCount(),
		"faces", mesh.FaceCount(),
		"vertex_color", cfg.ExportVertexColor,
	)
	return mesh, nil
}

// validColor reports whether every component is finite and non-negative
func validColor(c core.Vec3) bool {
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
