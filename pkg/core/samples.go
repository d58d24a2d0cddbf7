package core

// SampleSet holds the sparse samples produced for a ray batch as parallel
// arrays. Samples are grouped by ray index and ordered by increasing t along
// each ray; a ray may contribute zero or many samples. This ordering is a
// precondition for the transmittance computation in the compositor.
type SampleSet struct {
	RayIndices []int
	TStarts    []float64
	TEnds      []float64
}

// NewSampleSet allocates an empty sample set with the given capacity
func NewSampleSet(capacity int) SampleSet {
	return SampleSet{
		RayIndices: make([]int, 0, capacity),
		TStarts:    make([]float64, 0, capacity),
		TEnds:      make([]float64, 0, capacity),
	}
}

// Len returns the number of samples
func (s SampleSet) Len() int {
	return len(s.RayIndices)
}

// Append adds one sample interval for the given ray
func (s *SampleSet) Append(rayIndex int, tStart, tEnd float64) {
	s.RayIndices = append(s.RayIndices, rayIndex)
	s.TStarts = append(s.TStarts, tStart)
	s.TEnds = append(s.TEnds, tEnd)
}

// Midpoint returns the evaluation distance of sample i along its ray
func (s SampleSet) Midpoint(i int) float64 {
	return (s.TStarts[i] + s.TEnds[i]) / 2.0
}

// Interval returns the length of sample i's interval
func (s SampleSet) Interval(i int) float64 {
	return s.TEnds[i] - s.TStarts[i]
}

// Position returns the world-space evaluation position of sample i: the ray
// origin advanced to the interval midpoint.
func (s SampleSet) Position(rays RayBatch, i int) Vec3 {
	ray := s.RayIndices[i]
	return rays.Origin(ray).Add(rays.Direction(ray).Multiply(s.Midpoint(i)))
}

// Positions returns the evaluation positions of all samples
func (s SampleSet) Positions(rays RayBatch) []Vec3 {
	positions := make([]Vec3, s.Len())
	for i := range positions {
		positions[i] = s.Position(rays, i)
	}
	return positions
}
