package core

// RayBatch stores an ordered sequence of rays packed as 6 contiguous floats
// per ray (origin xyz followed by direction xyz). The packed layout lets
// batches be sliced for chunked rendering without copying.
type RayBatch struct {
	data []float64
}

// NewRayBatch allocates a batch of n zero-valued rays
func NewRayBatch(n int) RayBatch {
	return RayBatch{data: make([]float64, 6*n)}
}

// RayBatchFrom builds a batch from parallel origin/direction slices.
// Panics if the slices have different lengths.
func RayBatchFrom(origins, directions []Vec3) RayBatch {
	if len(origins) != len(directions) {
		panic("core: origins and directions must have equal length")
	}
	batch := NewRayBatch(len(origins))
	for i := range origins {
		batch.Set(i, origins[i], directions[i])
	}
	return batch
}

// Len returns the number of rays in the batch
func (b RayBatch) Len() int {
	return len(b.data) / 6
}

// Origin returns the origin of ray i
func (b RayBatch) Origin(i int) Vec3 {
	return Vec3{X: b.data[6*i], Y: b.data[6*i+1], Z: b.data[6*i+2]}
}

// Direction returns the direction of ray i
func (b RayBatch) Direction(i int) Vec3 {
	return Vec3{X: b.data[6*i+3], Y: b.data[6*i+4], Z: b.data[6*i+5]}
}

// At returns ray i as a Ray value
func (b RayBatch) At(i int) Ray {
	return Ray{Origin: b.Origin(i), Direction: b.Direction(i)}
}

// Set stores origin and direction for ray i
func (b RayBatch) Set(i int, origin, direction Vec3) {
	b.data[6*i] = origin.X
	b.data[6*i+1] = origin.Y
	b.data[6*i+2] = origin.Z
	b.data[6*i+3] = direction.X
	b.data[6*i+4] = direction.Y
	b.data[6*i+5] = direction.Z
}

// Slice returns the sub-batch of rays [lo, hi). The sub-batch shares the
// underlying buffer with the parent.
func (b RayBatch) Slice(lo, hi int) RayBatch {
	return RayBatch{data: b.data[6*lo : 6*hi]}
}
