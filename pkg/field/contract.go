package field

import (
	"github.com/df07/go-nerf-renderer/pkg/core"
)

// Contract remaps a world-space point into the unit cube [0,1]^3 according to
// the contraction mode. Points outside the representable region come back
// outside the unit cube, which callers treat as unoccupied space.
//
// ContractAABB maps the bounding box linearly onto the unit cube. The
// unbounded sphere contraction keeps |x| <= 1 (in box-normalized coordinates)
// untouched and squashes everything beyond into the shell between radius 1
// and 2, so the whole of space lands in [-2,2]^3 before the final shift to
// the unit cube.
func Contract(p core.Vec3, aabb core.AABB, mode ContractionMode) core.Vec3 {
	switch mode {
	case ContractUnboundedSphere:
		center := aabb.Center()
		halfSize := aabb.Size().Multiply(0.5)
		normalized := core.NewVec3(
			(p.X-center.X)/halfSize.X,
			(p.Y-center.Y)/halfSize.Y,
			(p.Z-center.Z)/halfSize.Z,
		)
		length := normalized.Length()
		if length > 1 {
			normalized = normalized.Multiply((2.0 - 1.0/length) / length)
		}
		// [-2,2]^3 -> [0,1]^3
		return core.NewVec3(
			(normalized.X+2.0)/4.0,
			(normalized.Y+2.0)/4.0,
			(normalized.Z+2.0)/4.0,
		)
	default: // ContractAABB
		size := aabb.Size()
		return core.NewVec3(
			(p.X-aabb.Min.X)/size.X,
			(p.Y-aabb.Min.Y)/size.Y,
			(p.Z-aabb.Min.Z)/size.Z,
		)
	}
}

// InUnitCube reports whether a contracted point landed inside [0,1]^3
func InUnitCube(p core.Vec3) bool {
	return p.X >= 0 && p.X <= 1 &&
		p.Y >= 0 && p.Y <= 1 &&
		p.Z >= 0 && p.Z <= 1
}
