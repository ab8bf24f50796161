// Package pyramid provides a Pyramid Tree index. Points are hashed to a
// scalar pyramid value using the Pyramid-Technique (Berchtold, Boehm and
// Kriegel, 1998) and stored in hash buckets keyed by a discretised version
// of that value.
package pyramid

import (
	"math"

	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/internal/hashstore"
	"github.com/hupe1980/mdsearch/point"
)

// Compile-time check to ensure Tree satisfies the index contract.
var _ index.Index[float32] = (*Tree[float32])(nil)

// maxBucketNumber is the total number of distinguishable buckets across
// all pyramids.
const maxBucketNumber = 30000000000

// Tree is a Pyramid Tree over points of a fixed dimensionality. Points
// outside the boundary produce undefined bucket assignment; callers must
// supply a boundary enclosing every point they will insert.
type Tree[E point.Float] struct {
	dimension      int
	boundary       point.Boundary[E]
	bucketInterval E
	store          *hashstore.Store[E]
}

// New creates an empty Pyramid Tree covering the given boundary.
func New[E point.Float](dimension int, boundary point.Boundary[E]) (*Tree[E], error) {
	if err := index.ValidateDimension(dimension); err != nil {
		return nil, err
	}
	if err := index.ValidateBoundary(dimension, boundary); err != nil {
		return nil, err
	}

	t := &Tree[E]{
		dimension:      dimension,
		boundary:       boundary,
		bucketInterval: E(math.Floor(maxBucketNumber / float64(dimension*2))),
	}
	t.store = hashstore.New(t.hashPoint)
	return t, nil
}

// Clear removes all points, keeping the current boundary.
func (t *Tree[E]) Clear() {
	t.store.Clear()
}

// Reset removes all points and replaces the boundary.
func (t *Tree[E]) Reset(boundary point.Boundary[E]) error {
	if err := index.ValidateBoundary(t.dimension, boundary); err != nil {
		return err
	}
	t.store.Clear()
	t.boundary = boundary
	return nil
}

// Insert adds a point to the tree. It returns false if the point is
// already stored.
func (t *Tree[E]) Insert(p point.Point[E]) bool {
	return t.store.Insert(p)
}

// Remove deletes a point from the tree. It returns false if the point was
// not being stored.
func (t *Tree[E]) Remove(p point.Point[E]) bool {
	return t.store.Remove(p)
}

// Query reports whether the point is stored in the tree.
func (t *Tree[E]) Query(p point.Point[E]) bool {
	return t.store.Query(p)
}

// Len returns the number of points stored in the tree.
func (t *Tree[E]) Len() int {
	return t.store.NumPoints()
}

// NumBuckets returns the number of hash buckets in use.
func (t *Tree[E]) NumBuckets() int {
	return t.store.NumBuckets()
}

// AveragePointsPerBucket returns the mean bucket size, or 0 when empty.
func (t *Tree[E]) AveragePointsPerBucket() float64 {
	return t.store.AveragePointsPerBucket()
}

// MinPointsPerBucket returns the size of the smallest bucket, or 0 when
// empty.
func (t *Tree[E]) MinPointsPerBucket() int {
	return t.store.MinPointsPerBucket()
}

// MaxPointsPerBucket returns the size of the largest bucket.
func (t *Tree[E]) MaxPointsPerBucket() int {
	return t.store.MaxPointsPerBucket()
}

// pyramidHeight is the unsigned distance from a coordinate to the centre
// of its normalised dimension.
func pyramidHeight[E point.Float](coord E, iv point.Interval[E]) E {
	h := E(0.5) - iv.Normalize(coord)
	if h < 0 {
		return -h
	}
	return h
}

// hashPoint computes the discretised pyramid value of p.
//
// The point's dominant dimension is the one it is furthest from the centre
// in; its two pyramids (below and above the centre) are distinguished by
// offsetting the index by the dimensionality. Dimensions other than 0 where
// the point sits exactly on the boundary are skipped, so that boundary
// values do not monopolise the dominant dimension; dimension 0 always seeds
// the scan.
func (t *Tree[E]) hashPoint(p point.Point[E]) hashstore.Key {
	dMax := 0
	dMaxHeight := pyramidHeight(p[0], t.boundary[0])

	for d := 1; d < t.dimension; d++ {
		currentHeight := pyramidHeight(p[d], t.boundary[d])
		if point.Compare(currentHeight, 0.5) == 0 {
			continue
		}
		if dMaxHeight < currentHeight {
			dMax = d
			dMaxHeight = currentHeight
		}
	}

	var idx int
	if t.boundary[dMax].Normalize(p[dMax]) < 0.5 {
		idx = dMax // pyramid lower than the central point
	} else {
		idx = dMax + t.dimension // pyramid higher than the central point
	}

	return hashstore.Key((E(idx) + dMaxHeight) * t.bucketInterval)
}
