// Package estimator maintains a voxel occupancy grid over the scene bounds
// and uses it to produce sparse ray samples that skip empty space.
package estimator

import (
	"math/rand"

	"github.com/df07/go-nerf-renderer/pkg/core"
	"github.com/df07/go-nerf-renderer/pkg/field"
)

const (
	// updateInterval is how many training steps pass between grid refreshes
	updateInterval = 16
	// warmupSteps is the early-training window during which every scheduled
	// refresh samples all cells rather than a random subset
	warmupSteps = 256
	// emaDecay blends old occupancy estimates with fresh ones
	emaDecay = 0.95
	// occThreshold caps the binarization threshold
	occThreshold = 1e-2
)

// OccEvalFn estimates an occupancy proxy at each queried position. The proxy
// must be monotonic in density; callers typically supply density multiplied
// by the render step size. It is a probe: implementations must not carry
// state that the differentiable evaluation path depends on.
type OccEvalFn func(positions []core.Vec3) []float64

// OccGridEstimator owns the occupancy grid for one scene. Not safe for
// concurrent use; the training step that owns the model is the single writer.
type OccGridEstimator struct {
	aabb        core.AABB
	resolution  int
	contraction field.ContractionMode

	occs       []float64 // EMA occupancy estimate per cell
	binaries   []bool    // thresholded occupancy
	forcedFull bool

	random *rand.Rand
}

// New creates an estimator over the given bounds with resolution cells per
// axis. Cells are indexed in contracted coordinates, so one grid covers both
// bounded and unbounded scenes.
func New(aabb core.AABB, resolution int, contraction field.ContractionMode) *OccGridEstimator {
	n := resolution * resolution * resolution
	return &OccGridEstimator{
		aabb:        aabb,
		resolution:  resolution,
		contraction: contraction,
		occs:        make([]float64, n),
		binaries:    make([]bool, n),
		random:      rand.New(rand.NewSource(42)), // Deterministic for testing
	}
}

// Resolution returns the cells-per-axis resolution
func (e *OccGridEstimator) Resolution() int {
	return e.resolution
}

// ForceFull marks every cell permanently occupied, turning the grid into a
// pass-through that never culls samples. Used when pruning is disabled.
// Idempotent; once forced, refreshes become no-ops.
func (e *OccGridEstimator) ForceFull() {
	for i := range e.binaries {
		e.occs[i] = 1.0
		e.binaries[i] = true
	}
	e.forcedFull = true
}

// UpdateEveryNSteps refreshes the occupancy grid on the estimator's own
// schedule: every updateInterval steps, with full-grid sweeps during warmup.
// Calling it every training step is expected; off-schedule calls do nothing.
func (e *OccGridEstimator) UpdateEveryNSteps(step int, occEval OccEvalFn) {
	if e.forcedFull {
		return
	}
	if step%updateInterval != 0 {
		return
	}
	e.update(step, occEval)
}

// update recomputes occupancy estimates. During warmup every cell is probed;
// afterwards all occupied cells plus a random quarter of the unoccupied ones
// are, so vacated space can be reclaimed without probing everything.
func (e *OccGridEstimator) update(step int, occEval OccEvalFn) {
	var cells []int
	if step < warmupSteps {
		cells = make([]int, len(e.occs))
		for i := range cells {
			cells[i] = i
		}
	} else {
		for i := range e.occs {
			if e.binaries[i] || e.random.Float64() < 0.25 {
				cells = append(cells, i)
			}
		}
	}
	if len(cells) == 0 {
		return
	}

	positions := make([]core.Vec3, len(cells))
	for i, cell := range cells {
		positions[i] = e.cellSamplePosition(cell)
	}
	values := occEval(positions)

	for i, cell := range cells {
		e.occs[cell] = max(e.occs[cell]*emaDecay, values[i])
	}

	// Binarize against min(mean occupancy, fixed threshold)
	var sum float64
	for _, o := range e.occs {
		sum += o
	}
	threshold := min(sum/float64(len(e.occs)), occThreshold)
	for i, o := range e.occs {
		e.binaries[i] = o > threshold
	}
}

// OccupiedAt reports whether the cell containing the world-space point is
// occupied. Points contracting outside the unit cube are unoccupied.
func (e *OccGridEstimator) OccupiedAt(p core.Vec3) bool {
	cell, ok := e.cellAt(p)
	if !ok {
		return false
	}
	return e.binaries[cell]
}

// cellAt maps a world-space point to its cell index via contraction
func (e *OccGridEstimator) cellAt(p core.Vec3) (int, bool) {
	c := field.Contract(p, e.aabb, e.contraction)
	if !field.InUnitCube(c) {
		return 0, false
	}
	ix := min(int(c.X*float64(e.resolution)), e.resolution-1)
	iy := min(int(c.Y*float64(e.resolution)), e.resolution-1)
	iz := min(int(c.Z*float64(e.resolution)), e.resolution-1)
	return ix + e.resolution*(iy+e.resolution*iz), true
}

// cellSamplePosition returns a jittered world-space position inside the cell.
// Jitter decorrelates successive refreshes of the same cell.
func (e *OccGridEstimator) cellSamplePosition(cell int) core.Vec3 {
	res := e.resolution
	ix := cell % res
	iy := (cell / res) % res
	iz := cell / (res * res)

	c := core.NewVec3(
		(float64(ix)+e.random.Float64())/float64(res),
		(float64(iy)+e.random.Float64())/float64(res),
		(float64(iz)+e.random.Float64())/float64(res),
	)
	return e.uncontract(c)
}

// uncontract maps unit-cube coordinates back to world space. For the
// unbounded sphere mode only the inner region inverts exactly; probe
// positions in the contracted shell land on its inner boundary, which is
// where grid refresh accuracy matters most anyway.
func (e *OccGridEstimator) uncontract(c core.Vec3) core.Vec3 {
	center := e.aabb.Center()
	halfSize := e.aabb.Size().Multiply(0.5)

	switch e.contraction {
	case field.ContractUnboundedSphere:
		// [0,1]^3 -> [-2,2]^3
		n := core.NewVec3(c.X*4-2, c.Y*4-2, c.Z*4-2)
		length := n.Length()
		if length > 1 {
			// Invert n = (2 - 1/L) * x/L  =>  |x| = 1/(2 - |n|)
			if length >= 2 {
				length = 2 - 1e-6
			}
			n = n.Multiply(1.0 / (length * (2.0 - length)))
		}
		return core.NewVec3(
			center.X+n.X*halfSize.X,
			center.Y+n.Y*halfSize.Y,
			center.Z+n.Z*halfSize.Z,
		)
	default:
		return core.NewVec3(
			e.aabb.Min.X+c.X*halfSize.X*2,
			e.aabb.Min.Y+c.Y*halfSize.Y*2,
			e.aabb.Min.Z+c.Z*halfSize.Z*2,
		)
	}
}

// OccupiedCount returns the number of occupied cells, used for refresh logging
func (e *OccGridEstimator) OccupiedCount() int {
	count := 0
	for _, b := range e.binaries {
		if b {
			count++
		}
	}
	return count
}
