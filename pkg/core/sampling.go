package core

import "math/rand"

// Sampler provides random sampling for stratified ray marching
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// FixedSampler always returns the same value, useful for deterministic tests
type FixedSampler struct {
	Value float64
}

// Get1D returns the fixed value
func (f FixedSampler) Get1D() float64 {
	return f.Value
}
