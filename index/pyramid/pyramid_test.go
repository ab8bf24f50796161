package pyramid

import (
	"testing"

	"github.com/hupe1980/mdsearch/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBoundary(dimension int) point.Boundary[float32] {
	return point.UniformBoundary(dimension, point.Interval[float32]{Min: 0, Max: 1})
}

func TestNew(t *testing.T) {
	_, err := New[float32](0, nil)
	assert.Error(t, err)

	_, err = New[float32](3, unitBoundary(2))
	assert.Error(t, err)

	tree, err := New[float32](3, unitBoundary(3))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())

	// bucketInterval = floor(3e10 / 2D)
	assert.Equal(t, float32(5e9), tree.bucketInterval)
}

func TestHashPoint(t *testing.T) {
	tree, err := New[float32](3, unitBoundary(3))
	require.NoError(t, err)

	t.Run("Centre", func(t *testing.T) {
		// All heights are zero; the dominant dimension stays 0 and the
		// normalised coordinate 0.5 selects the upper pyramid.
		key := tree.hashPoint(point.Point[float32]{0.5, 0.5, 0.5})
		assert.Equal(t, int64(float32(3)*tree.bucketInterval), key)
	})

	t.Run("UpperPyramidOfDimensionZero", func(t *testing.T) {
		// Height along dimension 0 is ~0.4; the other dimensions sit at
		// the centre. Upper pyramid of dimension 0 has index 3.
		key := tree.hashPoint(point.Point[float32]{0.9, 0.5, 0.5})
		h := pyramidHeight(float32(0.9), tree.boundary[0])
		assert.InDelta(t, 0.4, h, point.Epsilon)
		assert.Equal(t, int64((float32(3)+h)*tree.bucketInterval), key)
	})

	t.Run("LowerPyramid", func(t *testing.T) {
		// Dimension 1 dominates and the coordinate is below the centre.
		key := tree.hashPoint(point.Point[float32]{0.5, 0.2, 0.5})
		h := pyramidHeight(float32(0.2), tree.boundary[1])
		assert.Equal(t, int64((float32(1)+h)*tree.bucketInterval), key)
	})

	t.Run("BoundaryValueHack", func(t *testing.T) {
		// Dimension 1 sits exactly on the boundary (height 0.5) and is
		// skipped; dimension 2 dominates instead.
		key := tree.hashPoint(point.Point[float32]{0.5, 1.0, 0.1})
		h := pyramidHeight(float32(0.1), tree.boundary[2])
		assert.Equal(t, int64((float32(2)+h)*tree.bucketInterval), key)

		// Dimension 0 is checked unconditionally: a boundary value
		// there still seeds the scan.
		key = tree.hashPoint(point.Point[float32]{1.0, 0.5, 0.5})
		assert.Equal(t, int64((float32(3)+0.5)*tree.bucketInterval), key)
	})
}

func TestTree(t *testing.T) {
	t.Run("InsertQueryRemove", func(t *testing.T) {
		tree, err := New[float32](3, unitBoundary(3))
		require.NoError(t, err)

		points := []point.Point[float32]{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
		}
		for _, p := range points {
			assert.True(t, tree.Insert(p))
		}
		for _, p := range points {
			assert.True(t, tree.Query(p))
		}
		assert.False(t, tree.Query(point.Point[float32]{1, 1, 0}))

		assert.True(t, tree.Remove(point.Point[float32]{1, 0, 0}))
		assert.False(t, tree.Query(point.Point[float32]{1, 0, 0}))
		assert.False(t, tree.Remove(point.Point[float32]{1, 0, 0}))
	})

	t.Run("TolerantDuplicate", func(t *testing.T) {
		tree, err := New[float32](3, unitBoundary(3))
		require.NoError(t, err)

		// The perturbed dimension is not the dominant one, so both
		// points hash to the same bucket and the tolerant scan must
		// reject the duplicate.
		eps := float32(point.Epsilon)
		require.True(t, tree.Insert(point.Point[float32]{0.25, 0.5, 0.5}))
		assert.False(t, tree.Insert(point.Point[float32]{0.25, 0.5 + eps/2, 0.5}))
	})

	t.Run("FullRoundTrip", func(t *testing.T) {
		tree, err := New[float32](2, unitBoundary(2))
		require.NoError(t, err)

		var points []point.Point[float32]
		for i := range 30 {
			points = append(points, point.Point[float32]{
				float32(i) / 30,
				float32((i*7)%30) / 30,
			})
		}
		for _, p := range points {
			require.True(t, tree.Insert(p))
		}
		assert.Equal(t, len(points), tree.Len())
		assert.Positive(t, tree.NumBuckets())
		assert.Positive(t, tree.MinPointsPerBucket())
		assert.GreaterOrEqual(t, tree.MaxPointsPerBucket(), tree.MinPointsPerBucket())
		assert.InDelta(t, float64(tree.Len())/float64(tree.NumBuckets()), tree.AveragePointsPerBucket(), 1e-9)

		for i := len(points) - 1; i >= 0; i-- {
			require.True(t, tree.Remove(points[i]))
		}
		for _, p := range points {
			assert.False(t, tree.Query(p))
		}
		assert.Equal(t, 0, tree.Len())
	})

	t.Run("Reset", func(t *testing.T) {
		tree, err := New[float32](2, unitBoundary(2))
		require.NoError(t, err)

		tree.Insert(point.Point[float32]{0.5, 0.5})
		require.NoError(t, tree.Reset(point.UniformBoundary(2, point.Interval[float32]{Min: -1, Max: 1})))
		assert.Equal(t, 0, tree.Len())

		assert.Error(t, tree.Reset(unitBoundary(3)))
	})
}
