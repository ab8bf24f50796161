package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/point"
)

// RunIndexSuite exercises the operational contract every index must
// satisfy, over a set of pairwise-distinct points. tolerant controls
// whether the epsilon-duplicate property is checked; the bit-hash index
// is the one implementation exempt from it.
func RunIndexSuite(t *testing.T, newIndex func(t *testing.T) index.Index[float32], points []point.Point[float32], tolerant bool) {
	t.Helper()

	t.Run("EmptyIndexHasNoMembers", func(t *testing.T) {
		idx := newIndex(t)
		for _, p := range points {
			assert.False(t, idx.Query(p))
			assert.False(t, idx.Remove(p))
		}
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("InsertImpliesMember", func(t *testing.T) {
		idx := newIndex(t)
		for _, p := range points {
			require.True(t, idx.Insert(p))
			assert.True(t, idx.Query(p))
		}
		assert.Equal(t, len(points), idx.Len())
	})

	t.Run("SecondInsertRejects", func(t *testing.T) {
		idx := newIndex(t)
		for _, p := range points {
			require.True(t, idx.Insert(p))
		}
		for _, p := range points {
			assert.False(t, idx.Insert(p))
			assert.True(t, idx.Query(p))
		}
		assert.Equal(t, len(points), idx.Len())
	})

	t.Run("RemoveOfPresentThenAbsent", func(t *testing.T) {
		idx := newIndex(t)
		for _, p := range points {
			require.True(t, idx.Insert(p))
		}
		for _, p := range points {
			require.True(t, idx.Remove(p))
			assert.False(t, idx.Query(p))
			assert.False(t, idx.Remove(p))
		}
	})

	t.Run("FullRoundTripReverseOrder", func(t *testing.T) {
		idx := newIndex(t)
		for _, p := range points {
			require.True(t, idx.Insert(p))
		}
		for i := len(points) - 1; i >= 0; i-- {
			require.True(t, idx.Remove(points[i]))
		}
		for _, p := range points {
			assert.False(t, idx.Query(p))
		}
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("ClearEmptiesIndex", func(t *testing.T) {
		idx := newIndex(t)
		for _, p := range points {
			require.True(t, idx.Insert(p))
		}
		idx.Clear()
		assert.Equal(t, 0, idx.Len())
		for _, p := range points {
			assert.False(t, idx.Query(p))
		}
		// The index must remain usable after clearing.
		require.True(t, idx.Insert(points[0]))
		assert.True(t, idx.Query(points[0]))
	})

	if tolerant {
		t.Run("TolerantDuplicate", func(t *testing.T) {
			idx := newIndex(t)
			eps := float32(point.Epsilon)

			// Perturb the last dimension only: the hash-based indexes
			// key primarily on earlier or dominant dimensions, so the
			// duplicate lands in the same bucket and must be caught by
			// the tolerant equality scan. Requires dimensionality >= 2.
			p := point.New[float32](len(points[0]), 0.25)
			q := p.Clone()
			q[len(q)-1] += eps / 2

			require.True(t, idx.Insert(p))
			assert.False(t, idx.Insert(q))
			assert.True(t, idx.Query(q))
			assert.True(t, idx.Remove(q))
			assert.False(t, idx.Query(p))
		})
	}
}
