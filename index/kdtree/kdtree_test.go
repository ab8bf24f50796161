package kdtree

import (
	"testing"

	"github.com/hupe1980/mdsearch/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New[float32](0)
	assert.Error(t, err)

	tree, err := New[float32](3)
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestKDTree(t *testing.T) {
	t.Run("InsertAndQuery", func(t *testing.T) {
		tree, err := New[float32](3)
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
		assert.Equal(t, 3, tree.Len())
	})

	t.Run("DuplicateInsert", func(t *testing.T) {
		tree, err := New[float32](3)
		require.NoError(t, err)

		require.True(t, tree.Insert(point.Point[float32]{0, 0, 0}))
		assert.False(t, tree.Insert(point.Point[float32]{0, 0, 0}))
		assert.Equal(t, 1, tree.Len())
	})

	t.Run("TolerantDuplicate", func(t *testing.T) {
		tree, err := New[float32](3)
		require.NoError(t, err)

		eps := float32(point.Epsilon)
		require.True(t, tree.Insert(point.Point[float32]{0, 0, 0}))
		assert.False(t, tree.Insert(point.Point[float32]{eps / 2, -eps / 2, 0}))
		assert.True(t, tree.Query(point.Point[float32]{eps / 2, -eps / 2, 0}))
	})

	t.Run("Remove", func(t *testing.T) {
		tree, err := New[float32](3)
		require.NoError(t, err)

		tree.Insert(point.Point[float32]{0, 0, 0})
		tree.Insert(point.Point[float32]{1, 0, 0})
		tree.Insert(point.Point[float32]{0, 1, 0})

		assert.True(t, tree.Remove(point.Point[float32]{1, 0, 0}))
		assert.False(t, tree.Query(point.Point[float32]{1, 0, 0}))
		assert.False(t, tree.Remove(point.Point[float32]{1, 0, 0}))

		assert.True(t, tree.Query(point.Point[float32]{0, 0, 0}))
		assert.True(t, tree.Query(point.Point[float32]{0, 1, 0}))
		assert.Equal(t, 2, tree.Len())
	})

	t.Run("RemoveAbsentOnEmpty", func(t *testing.T) {
		tree, err := New[float32](3)
		require.NoError(t, err)

		assert.False(t, tree.Remove(point.Point[float32]{1, 2, 3}))
	})

	t.Run("RemoveRoot", func(t *testing.T) {
		tree, err := New[float32](2)
		require.NoError(t, err)

		// Root has children on both sides; removing it promotes the
		// minimum of the right subtree for dimension 0.
		tree.Insert(point.Point[float32]{5, 5})
		tree.Insert(point.Point[float32]{3, 8})
		tree.Insert(point.Point[float32]{7, 2})
		tree.Insert(point.Point[float32]{6, 1})

		require.True(t, tree.Remove(point.Point[float32]{5, 5}))
		assert.False(t, tree.Query(point.Point[float32]{5, 5}))
		for _, p := range []point.Point[float32]{{3, 8}, {7, 2}, {6, 1}} {
			assert.True(t, tree.Query(p))
		}
		assert.Equal(t, 3, tree.Len())
	})

	t.Run("RemoveNodeWithOnlyLeftSubtree", func(t *testing.T) {
		tree, err := New[float32](2)
		require.NoError(t, err)

		// (4, 9) only has a left child; removal must promote it and
		// swap the remaining subtree to the right.
		tree.Insert(point.Point[float32]{5, 5})
		tree.Insert(point.Point[float32]{4, 9})
		tree.Insert(point.Point[float32]{3, 2})

		require.True(t, tree.Remove(point.Point[float32]{4, 9}))
		assert.False(t, tree.Query(point.Point[float32]{4, 9}))
		assert.True(t, tree.Query(point.Point[float32]{5, 5}))
		assert.True(t, tree.Query(point.Point[float32]{3, 2}))
	})

	t.Run("MatchingCoordinateDifferentPoint", func(t *testing.T) {
		tree, err := New[float32](2)
		require.NoError(t, err)

		// Both points share coordinate 0. Removing one must not
		// disturb the other, even though the cutting-dimension
		// comparison alone cannot tell them apart at the root.
		tree.Insert(point.Point[float32]{5, 5})
		tree.Insert(point.Point[float32]{5, 9})

		require.True(t, tree.Remove(point.Point[float32]{5, 9}))
		assert.True(t, tree.Query(point.Point[float32]{5, 5}))
		assert.False(t, tree.Query(point.Point[float32]{5, 9}))
	})

	t.Run("Clear", func(t *testing.T) {
		tree, err := New[float32](2)
		require.NoError(t, err)

		tree.Insert(point.Point[float32]{1, 2})
		tree.Clear()
		assert.Equal(t, 0, tree.Len())
		assert.False(t, tree.Query(point.Point[float32]{1, 2}))
		assert.True(t, tree.Insert(point.Point[float32]{1, 2}))
	})

	t.Run("FullRoundTrip", func(t *testing.T) {
		tree, err := New[float32](3)
		require.NoError(t, err)

		points := []point.Point[float32]{
			{0.1, 0.2, 0.3},
			{0.9, 0.1, 0.5},
			{0.4, 0.8, 0.2},
			{0.3, 0.3, 0.9},
			{0.7, 0.6, 0.1},
			{0.2, 0.5, 0.7},
		}
		for _, p := range points {
			require.True(t, tree.Insert(p))
		}
		// Remove in an order different from insertion.
		for i := len(points) - 1; i >= 0; i-- {
			require.True(t, tree.Remove(points[i]), "point %v", points[i])
		}
		for _, p := range points {
			assert.False(t, tree.Query(p))
		}
		assert.Equal(t, 0, tree.Len())
	})
}
