package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewCubeAABB creates an AABB spanning [-radius, radius] on every axis
func NewCubeAABB(radius float64) AABB {
	return AABB{
		Min: NewVec3(-radius, -radius, -radius),
		Max: NewVec3(radius, radius, radius),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Contains reports whether the point lies inside the AABB (inclusive)
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Intersect computes the parametric entry/exit interval of a ray against the
// AABB using the slab method. The returned interval is clipped to [tMin, tMax].
// When the ray misses the box, hit is false and the interval is undefined.
func (aabb AABB) Intersect(ray Ray, tMin, tMax float64) (float64, float64, bool) {
	for axis := 0; axis < 3; axis++ {
		var min, max, origin, direction float64

		switch axis {
		case 0: // X axis
			min = aabb.Min.X
			max = aabb.Max.X
			origin = ray.Origin.X
			direction = ray.Direction.X
		case 1: // Y axis
			min = aabb.Min.Y
			max = aabb.Max.Y
			origin = ray.Origin.Y
			direction = ray.Direction.Y
		case 2: // Z axis
			min = aabb.Min.Z
			max = aabb.Max.Z
			origin = ray.Origin.Z
			direction = ray.Direction.Z
		}

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-8 {
			// Ray is parallel to this axis
			if origin < min || origin > max {
				return 0, 0, false // Ray origin outside slab
			}
			continue
		}

		// Calculate intersection distances for this axis
		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection

		// Ensure t1 <= t2 (swap if needed)
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		// Update overall intersection interval
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		// No intersection if tMin > tMax
		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, true
}

// RayAABBIntersect intersects every ray in the batch against the AABB,
// returning per-ray entry/exit distances clipped to [near, far] and a hit
// mask. Rays that miss get tMin > tMax so that downstream sampling skips them.
func RayAABBIntersect(rays RayBatch, aabb AABB, near, far float64) (tMins, tMaxs []float64, hits []bool) {
	n := rays.Len()
	tMins = make([]float64, n)
	tMaxs = make([]float64, n)
	hits = make([]bool, n)

	for i := 0; i < n; i++ {
		tMin, tMax, hit := aabb.Intersect(rays.At(i), near, far)
		if hit {
			tMins[i] = tMin
			tMaxs[i] = tMax
			hits[i] = true
		} else {
			tMins[i] = far
			tMaxs[i] = near
		}
	}

	return tMins, tMaxs, hits
}
