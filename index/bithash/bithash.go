// Package bithash provides a hash-based index that hashes points on the
// raw bit patterns of their coordinates.
//
// Insertions, deletions and point queries are generally very fast, but the
// structure is exact only when two logically-equal points have identical
// bit patterns. Floating-point drift can make a point appear stored when
// it should not be (and vice versa). Use it only for workloads where
// coordinates are bit-deterministic; the tolerant indexes are the general
// tools.
package bithash

import (
	"math"

	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/internal/hashstore"
	"github.com/hupe1980/mdsearch/point"
)

// Compile-time check to ensure BitHash satisfies the index contract.
var _ index.Index[float32] = (*BitHash[float32])(nil)

// BitHash is a hash-indexed point store keyed by coordinate bit patterns.
type BitHash[E point.Float] struct {
	dimension int
	store     *hashstore.Store[E]
}

// New creates an empty bit-hash index for points of the given
// dimensionality.
func New[E point.Float](dimension int) (*BitHash[E], error) {
	if err := index.ValidateDimension(dimension); err != nil {
		return nil, err
	}
	b := &BitHash[E]{dimension: dimension}
	b.store = hashstore.New(hashPoint[E])
	return b, nil
}

// Clear removes all points from the index.
func (b *BitHash[E]) Clear() {
	b.store.Clear()
}

// Insert adds a point to the index. It returns false if the point is
// already stored.
func (b *BitHash[E]) Insert(p point.Point[E]) bool {
	return b.store.Insert(p)
}

// Remove deletes a point from the index. It returns false if the point
// was not being stored.
func (b *BitHash[E]) Remove(p point.Point[E]) bool {
	return b.store.Remove(p)
}

// Query reports whether the point is stored in the index.
func (b *BitHash[E]) Query(p point.Point[E]) bool {
	return b.store.Query(p)
}

// Len returns the number of points stored in the index.
func (b *BitHash[E]) Len() int {
	return b.store.NumPoints()
}

// NumBuckets returns the number of hash buckets in use.
func (b *BitHash[E]) NumBuckets() int {
	return b.store.NumBuckets()
}

// AveragePointsPerBucket returns the mean bucket size, or 0 when empty.
func (b *BitHash[E]) AveragePointsPerBucket() float64 {
	return b.store.AveragePointsPerBucket()
}

// hashPoint folds the coordinates' bit representations into a single seed.
// Widening to float64 is exact for both element types, so the bit pattern
// is a deterministic function of the coordinate's own bits.
func hashPoint[E point.Float](p point.Point[E]) hashstore.Key {
	var seed uint64
	for _, coord := range p {
		seed = hashCombine(seed, math.Float64bits(float64(coord)))
	}
	return hashstore.Key(seed)
}

// hashCombine mixes a value into a running seed, 64-bit variant of the
// classic golden-ratio combine.
func hashCombine(seed, v uint64) uint64 {
	return seed ^ (v + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}
