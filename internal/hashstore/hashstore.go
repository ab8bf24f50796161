// Package hashstore provides the hash-indexed bucket store shared by the
// pyramid tree and bit-hash indexes. Points are hashed to a one-dimensional
// key; all points with the same key live in one bucket.
package hashstore

import "github.com/hupe1980/mdsearch/point"

// Key is the one-dimensional hash value of a point. All hash-based index
// structures use this unless there is a very good reason not to.
type Key = int64

// HashFunc hashes a point to a one-dimensional key.
type HashFunc[E point.Float] func(p point.Point[E]) Key

// bucket stores all points with the same hash key. pointSums runs parallel
// to points and caches each point's coordinate sum, so bucket scans can
// skip most mismatches without touching every coordinate.
type bucket[E point.Float] struct {
	points    []point.Point[E]
	pointSums []E
}

// Store maps one-dimensional hash keys to buckets of points.
type Store[E point.Float] struct {
	hash    HashFunc[E]
	buckets map[Key]*bucket[E]
}

// New creates an empty store using the given hash function.
func New[E point.Float](hash HashFunc[E]) *Store[E] {
	return &Store[E]{
		hash:    hash,
		buckets: make(map[Key]*bucket[E]),
	}
}

// Clear removes all points from the store.
func (s *Store[E]) Clear() {
	s.buckets = make(map[Key]*bucket[E])
}

// Insert adds a point to the store. It returns false if the point is
// already stored.
func (s *Store[E]) Insert(p point.Point[E]) bool {
	key := s.hash(p)

	b, ok := s.buckets[key]
	if !ok {
		s.buckets[key] = &bucket[E]{
			points:    []point.Point[E]{p.Clone()},
			pointSums: []E{p.Sum()},
		}
		return true
	}

	if b.indexOf(p) != -1 {
		return false
	}
	b.points = append(b.points, p.Clone())
	b.pointSums = append(b.pointSums, p.Sum())
	return true
}

// Remove deletes a point from the store. It returns false if the point was
// not being stored. Removal swaps the target with the last element of the
// bucket; order within a bucket is not preserved. A bucket left empty is
// dropped.
func (s *Store[E]) Remove(p point.Point[E]) bool {
	key := s.hash(p)

	b, ok := s.buckets[key]
	if !ok {
		return false
	}
	i := b.indexOf(p)
	if i == -1 {
		return false
	}

	last := len(b.points) - 1
	b.points[i] = b.points[last]
	b.points = b.points[:last]
	b.pointSums[i] = b.pointSums[last]
	b.pointSums = b.pointSums[:last]
	if last == 0 {
		delete(s.buckets, key)
	}
	return true
}

// Query reports whether the point is stored.
func (s *Store[E]) Query(p point.Point[E]) bool {
	b, ok := s.buckets[s.hash(p)]
	return ok && b.indexOf(p) != -1
}

// NumPoints returns the total number of points stored.
func (s *Store[E]) NumPoints() int {
	total := 0
	for _, b := range s.buckets {
		total += len(b.points)
	}
	return total
}

// NumBuckets returns the number of buckets.
func (s *Store[E]) NumBuckets() int {
	return len(s.buckets)
}

// AveragePointsPerBucket returns the mean bucket size, or 0 if the store
// is empty.
func (s *Store[E]) AveragePointsPerBucket() float64 {
	if len(s.buckets) == 0 {
		return 0
	}
	return float64(s.NumPoints()) / float64(len(s.buckets))
}

// MinPointsPerBucket returns the size of the smallest bucket, or 0 if the
// store is empty.
func (s *Store[E]) MinPointsPerBucket() int {
	minCount := 0
	first := true
	for _, b := range s.buckets {
		if first || len(b.points) < minCount {
			minCount = len(b.points)
			first = false
		}
	}
	return minCount
}

// MaxPointsPerBucket returns the size of the largest bucket.
func (s *Store[E]) MaxPointsPerBucket() int {
	maxCount := 0
	for _, b := range s.buckets {
		if len(b.points) > maxCount {
			maxCount = len(b.points)
		}
	}
	return maxCount
}

// indexOf returns the index of p in the bucket, or -1. The cached sum is
// compared first, under the same tolerance as point equality, so that a
// tolerant duplicate is never rejected by the pre-filter.
func (b *bucket[E]) indexOf(p point.Point[E]) int {
	sum := p.Sum()
	for i := range b.points {
		if point.Compare(sum, b.pointSums[i]) == 0 && p.Equal(b.points[i]) {
			return i
		}
	}
	return -1
}
