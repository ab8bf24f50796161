// Package testutil provides deterministic random point generation and a
// shared property suite for exercising index implementations.
package testutil

import (
	"math/rand"

	"github.com/hupe1980/mdsearch/point"
)

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// UniformPoints generates random points with coordinates in [0, 1).
func (r *RNG) UniformPoints(num, dimensions int) []point.Point[float32] {
	points := make([]point.Point[float32], num)
	for i := range points {
		points[i] = make(point.Point[float32], dimensions)
		for d := range points[i] {
			points[i][d] = r.rand.Float32()
		}
	}
	return points
}

// UniformRangePoints generates random points with coordinates in
// [minVal, maxVal).
func (r *RNG) UniformRangePoints(num, dimensions int, minVal, maxVal float32) []point.Point[float32] {
	span := maxVal - minVal
	points := make([]point.Point[float32], num)
	for i := range points {
		points[i] = make(point.Point[float32], dimensions)
		for d := range points[i] {
			points[i][d] = minVal + r.rand.Float32()*span
		}
	}
	return points
}

// DistinctPoints generates random points that are pairwise distinct under
// the comparison tolerance, so property tests can assume unique inputs.
func (r *RNG) DistinctPoints(num, dimensions int) []point.Point[float32] {
	points := make([]point.Point[float32], 0, num)
	for len(points) < num {
		candidate := make(point.Point[float32], dimensions)
		for d := range candidate {
			candidate[d] = r.rand.Float32()
		}
		duplicate := false
		for _, p := range points {
			if p.Equal(candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			points = append(points, candidate)
		}
	}
	return points
}
