package field

import (
	"fmt"
	"math"

	"github.com/df07/go-nerf-renderer/pkg/core"
)

// GridGeometry is a density field stored as a voxel grid of node values over
// the scene bounds, trilinearly interpolated between nodes. Positions are
// contracted before lookup, so the same grid serves bounded and unbounded
// scenes.
type GridGeometry struct {
	bounds      core.AABB
	resolution  int // nodes per axis
	densities   []float64
	contraction ContractionMode
	isoLevel    float64
	isoRes      int
}

// NewGridGeometry creates a grid geometry from node density values. The
// densities slice must hold resolution^3 non-negative values in x-fastest
// order.
func NewGridGeometry(bounds core.AABB, resolution int, densities []float64) (*GridGeometry, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("field: grid resolution must be >= 2, got %d", resolution)
	}
	want := resolution * resolution * resolution
	if len(densities) != want {
		return nil, fmt.Errorf("field: expected %d density values, got %d", want, len(densities))
	}
	for i, d := range densities {
		if d < 0 || math.IsNaN(d) {
			return nil, fmt.Errorf("field: invalid density %g at node %d", d, i)
		}
	}
	return &GridGeometry{
		bounds:     bounds,
		resolution: resolution,
		densities:  densities,
		isoLevel:   defaultIsoLevel,
		isoRes:     defaultIsoResolution,
	}, nil
}

// NewGridGeometryFromFunc creates a grid geometry by sampling a density
// function at every grid node
func NewGridGeometryFromFunc(bounds core.AABB, resolution int, fn DensityFn) (*GridGeometry, error) {
	densities := make([]float64, resolution*resolution*resolution)
	size := bounds.Size()
	for iz := 0; iz < resolution; iz++ {
		for iy := 0; iy < resolution; iy++ {
			for ix := 0; ix < resolution; ix++ {
				p := core.NewVec3(
					bounds.Min.X+size.X*float64(ix)/float64(resolution-1),
					bounds.Min.Y+size.Y*float64(iy)/float64(resolution-1),
					bounds.Min.Z+size.Z*float64(iz)/float64(resolution-1),
				)
				densities[ix+resolution*(iy+resolution*iz)] = math.Max(0, fn(p))
			}
		}
	}
	return NewGridGeometry(bounds, resolution, densities)
}

// EvalDensity returns the trilinearly interpolated density at p and a feature
// vector derived from the contracted position
func (g *GridGeometry) EvalDensity(p core.Vec3) (float64, []float64) {
	c := Contract(p, g.bounds, g.contraction)
	feature := encodeFeature(c)
	if !InUnitCube(c) {
		return 0, feature
	}

	// Map [0,1] to node coordinates and interpolate
	fx := c.X * float64(g.resolution-1)
	fy := c.Y * float64(g.resolution-1)
	fz := c.Z * float64(g.resolution-1)
	ix := min(int(fx), g.resolution-2)
	iy := min(int(fy), g.resolution-2)
	iz := min(int(fz), g.resolution-2)
	tx, ty, tz := fx-float64(ix), fy-float64(iy), fz-float64(iz)

	node := func(dx, dy, dz int) float64 {
		return g.densities[(ix+dx)+g.resolution*((iy+dy)+g.resolution*(iz+dz))]
	}

	c00 := node(0, 0, 0)*(1-tx) + node(1, 0, 0)*tx
	c10 := node(0, 1, 0)*(1-tx) + node(1, 1, 0)*tx
	c01 := node(0, 0, 1)*(1-tx) + node(1, 0, 1)*tx
	c11 := node(0, 1, 1)*(1-tx) + node(1, 1, 1)*tx
	c0 := c00*(1-ty) + c10*ty
	c1 := c01*(1-ty) + c11*ty
	return c0*(1-tz) + c1*tz, feature
}

// SetContraction configures the coordinate remapping
func (g *GridGeometry) SetContraction(mode ContractionMode) {
	g.contraction = mode
}

// Contraction returns the configured remapping
func (g *GridGeometry) Contraction() ContractionMode {
	return g.contraction
}

// SetIsosurfaceParams overrides the level and resolution used by Isosurface
func (g *GridGeometry) SetIsosurfaceParams(level float64, resolution int) {
	g.isoLevel = level
	g.isoRes = resolution
}

// Isosurface extracts the density level set as a triangle mesh
func (g *GridGeometry) Isosurface() (*Mesh, error) {
	mesh := ExtractSurfaceNets(func(p core.Vec3) float64 {
		d, _ := g.EvalDensity(p)
		return d
	}, g.bounds, g.isoRes, g.isoLevel)
	if mesh.VertexCount() == 0 {
		return nil, fmt.Errorf("field: density never crosses level %g, no surface to extract", g.isoLevel)
	}
	return mesh, nil
}

// Regularizations adds the mean grid density as a sparsity loss term
func (g *GridGeometry) Regularizations(out map[string]float64) {
	var sum float64
	for _, d := range g.densities {
		sum += d
	}
	out["density_sparsity"] = sum / float64(len(g.densities))
}

// UpdateStep is a no-op for a static grid
func (g *GridGeometry) UpdateStep(epoch, globalStep int) {}
