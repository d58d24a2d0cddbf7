package field

import (
	"github.com/df07/go-nerf-renderer/pkg/core"
)

// DensityFn evaluates scalar density at a world-space position
type DensityFn func(p core.Vec3) float64

// ExtractSurfaceNets extracts a level-set triangle mesh from a density
// function over the given bounds using the surface nets method: one vertex
// per sign-change cell placed at the mean of its edge crossings, quads
// stitched across lattice edges that cross the level.
//
// Resolution is the number of cells per axis. Normals are estimated from the
// density gradient by central differences and point away from the surface
// (toward decreasing density).
func ExtractSurfaceNets(density DensityFn, bounds core.AABB, resolution int, level float64) *Mesh {
	n := resolution
	size := bounds.Size()
	step := core.NewVec3(size.X/float64(n), size.Y/float64(n), size.Z/float64(n))

	corner := func(ix, iy, iz int) core.Vec3 {
		return core.NewVec3(
			bounds.Min.X+float64(ix)*step.X,
			bounds.Min.Y+float64(iy)*step.Y,
			bounds.Min.Z+float64(iz)*step.Z,
		)
	}

	// Sample the (n+1)^3 corner lattice once up front
	lat := n + 1
	values := make([]float64, lat*lat*lat)
	latIdx := func(ix, iy, iz int) int { return ix + lat*(iy+lat*iz) }
	for iz := 0; iz <= n; iz++ {
		for iy := 0; iy <= n; iy++ {
			for ix := 0; ix <= n; ix++ {
				values[latIdx(ix, iy, iz)] = density(corner(ix, iy, iz))
			}
		}
	}

	mesh := &Mesh{}

	// Place one vertex per cell whose corners straddle the level
	cellVertex := make([]int, n*n*n)
	for i := range cellVertex {
		cellVertex[i] = -1
	}
	cellIdx := func(ix, iy, iz int) int { return ix + n*(iy+n*iz) }

	// Cell corner offsets and the 12 edges connecting them
	corners := [8][3]int{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	}
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}

	for iz := 0; iz < n; iz++ {
		for iy := 0; iy < n; iy++ {
			for ix := 0; ix < n; ix++ {
				var inside, crossings int
				var sum core.Vec3
				var vals [8]float64
				var pts [8]core.Vec3
				for c, off := range corners {
					pts[c] = corner(ix+off[0], iy+off[1], iz+off[2])
					vals[c] = values[latIdx(ix+off[0], iy+off[1], iz+off[2])]
					if vals[c] > level {
						inside++
					}
				}
				if inside == 0 || inside == 8 {
					continue
				}
				for _, e := range edges {
					a, b := e[0], e[1]
					if (vals[a] > level) == (vals[b] > level) {
						continue
					}
					// Linear interpolation along the crossing edge
					t := (level - vals[a]) / (vals[b] - vals[a])
					sum = sum.Add(pts[a].Add(pts[b].Subtract(pts[a]).Multiply(t)))
					crossings++
				}
				if crossings == 0 {
					continue
				}
				v := sum.Multiply(1.0 / float64(crossings))
				cellVertex[cellIdx(ix, iy, iz)] = len(mesh.Vertices)
				mesh.Vertices = append(mesh.Vertices, v)
				mesh.Normals = append(mesh.Normals, gradientNormal(density, v, step))
			}
		}
	}

	// Stitch quads across lattice edges that cross the level. An interior
	// edge along one axis is shared by four cells in the other two axes;
	// their vertices form the quad.
	addQuad := func(v0, v1, v2, v3 int, flip bool) {
		if v0 < 0 || v1 < 0 || v2 < 0 || v3 < 0 {
			return
		}
		if flip {
			v1, v3 = v3, v1
		}
		mesh.Faces = append(mesh.Faces, [3]int{v0, v1, v2}, [3]int{v0, v2, v3})
	}

	for iz := 0; iz < n; iz++ {
		for iy := 0; iy < n; iy++ {
			for ix := 0; ix < n; ix++ {
				v0 := values[latIdx(ix, iy, iz)]

				// Edge along X, shared by cells varying in Y and Z
				if ix < n && iy > 0 && iz > 0 {
					v1 := values[latIdx(ix+1, iy, iz)]
					if (v0 > level) != (v1 > level) {
						addQuad(
							cellVertex[cellIdx(ix, iy-1, iz-1)],
							cellVertex[cellIdx(ix, iy, iz-1)],
							cellVertex[cellIdx(ix, iy, iz)],
							cellVertex[cellIdx(ix, iy-1, iz)],
							v0 > level,
						)
					}
				}
				// Edge along Y, shared by cells varying in X and Z
				if iy < n && ix > 0 && iz > 0 {
					v1 := values[latIdx(ix, iy+1, iz)]
					if (v0 > level) != (v1 > level) {
						addQuad(
							cellVertex[cellIdx(ix-1, iy, iz-1)],
							cellVertex[cellIdx(ix-1, iy, iz)],
							cellVertex[cellIdx(ix, iy, iz)],
							cellVertex[cellIdx(ix, iy, iz-1)],
							v0 > level,
						)
					}
				}
				// Edge along Z, shared by cells varying in X and Y
				if iz < n && ix > 0 && iy > 0 {
					v1 := values[latIdx(ix, iy, iz+1)]
					if (v0 > level) != (v1 > level) {
						addQuad(
							cellVertex[cellIdx(ix-1, iy-1, iz)],
							cellVertex[cellIdx(ix, iy-1, iz)],
							cellVertex[cellIdx(ix, iy, iz)],
							cellVertex[cellIdx(ix-1, iy, iz)],
							v0 > level,
						)
					}
				}
			}
		}
	}

	return mesh
}

// gradientNormal estimates the outward surface normal at p by central
// differences of the density field
func gradientNormal(density DensityFn, p core.Vec3, step core.Vec3) core.Vec3 {
	grad := core.NewVec3(
		density(p.Add(core.NewVec3(step.X, 0, 0)))-density(p.Subtract(core.NewVec3(step.X, 0, 0))),
		density(p.Add(core.NewVec3(0, step.Y, 0)))-density(p.Subtract(core.NewVec3(0, step.Y, 0))),
		density(p.Add(core.NewVec3(0, 0, step.Z)))-density(p.Subtract(core.NewVec3(0, 0, step.Z))),
	)
	// Density decreases toward the outside, so the normal is -gradient
	return grad.Negate().Normalize()
}
