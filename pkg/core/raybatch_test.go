package core

import "testing"

func TestRayBatchPacking(t *testing.T) {
	origins := []Vec3{NewVec3(1, 2, 3), NewVec3(4, 5, 6)}
	directions := []Vec3{NewVec3(0, 0, -1), NewVec3(0, 1, 0)}
	batch := RayBatchFrom(origins, directions)

	if batch.Len() != 2 {
		t.Fatalf("Expected 2 rays, got %d", batch.Len())
	}
	for i := range origins {
		if batch.Origin(i) != origins[i] {
			t.Errorf("Ray %d: expected origin %v, got %v", i, origins[i], batch.Origin(i))
		}
		if batch.Direction(i) != directions[i] {
			t.Errorf("Ray %d: expected direction %v, got %v", i, directions[i], batch.Direction(i))
		}
	}
}

func TestRayBatchSliceSharesBuffer(t *testing.T) {
	batch := NewRayBatch(4)
	batch.Set(2, NewVec3(1, 1, 1), NewVec3(0, 0, -1))

	sub := batch.Slice(2, 4)
	if sub.Len() != 2 {
		t.Fatalf("Expected sub-batch of 2 rays, got %d", sub.Len())
	}
	if sub.Origin(0) != NewVec3(1, 1, 1) {
		t.Errorf("Expected slice to see parent data, got origin %v", sub.Origin(0))
	}

	sub.Set(0, NewVec3(9, 9, 9), NewVec3(0, 1, 0))
	if batch.Origin(2) != NewVec3(9, 9, 9) {
		t.Error("Expected writes through the slice to be visible in the parent")
	}
}

func TestRayBatchFromMismatchedLengthsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for mismatched origin/direction lengths")
		}
	}()
	RayBatchFrom([]Vec3{{}}, []Vec3{{}, {}})
}
