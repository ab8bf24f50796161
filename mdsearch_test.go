package mdsearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mdsearch"
	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/index/multigrid"
	"github.com/hupe1980/mdsearch/point"
	"github.com/hupe1980/mdsearch/testutil"
)

func TestNew(t *testing.T) {
	t.Run("KindsWithoutBoundary", func(t *testing.T) {
		for _, kind := range []mdsearch.Kind{
			mdsearch.KindKDTree,
			mdsearch.KindBucketKDTree,
			mdsearch.KindBitHash,
		} {
			idx, err := mdsearch.New[float32](kind, 3)
			require.NoError(t, err, kind.String())
			assert.Equal(t, 0, idx.Len())
		}
	})

	t.Run("BoundaryRequired", func(t *testing.T) {
		_, err := mdsearch.New[float32](mdsearch.KindPyramidTree, 3)
		assert.ErrorIs(t, err, mdsearch.ErrMissingBoundary)

		_, err = mdsearch.New[float32](mdsearch.KindMultigrid, 3)
		assert.ErrorIs(t, err, mdsearch.ErrMissingBoundary)
	})

	t.Run("InvalidKind", func(t *testing.T) {
		_, err := mdsearch.New[float32](mdsearch.Kind(99), 3)
		var ik *mdsearch.ErrInvalidKind
		assert.ErrorAs(t, err, &ik)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := mdsearch.New[float32](mdsearch.KindKDTree, 0)
		var id *index.ErrInvalidDimension
		assert.ErrorAs(t, err, &id)
	})

	t.Run("MultigridOptions", func(t *testing.T) {
		b := point.UniformBoundary(2, point.Interval[float32]{Min: 0, Max: 1})
		idx, err := mdsearch.New(mdsearch.KindMultigrid, 2,
			mdsearch.WithBoundary(b),
			mdsearch.WithMultigridOptions[float32](func(o *multigrid.Options) {
				o.BucketSize = 4
			}),
		)
		require.NoError(t, err)
		assert.True(t, idx.Insert(point.Point[float32]{0.5, 0.5}))
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "KDTree", mdsearch.KindKDTree.String())
	assert.Equal(t, "BucketKDTree", mdsearch.KindBucketKDTree.String())
	assert.Equal(t, "PyramidTree", mdsearch.KindPyramidTree.String())
	assert.Equal(t, "Multigrid", mdsearch.KindMultigrid.String())
	assert.Equal(t, "BitHash", mdsearch.KindBitHash.String())
	assert.Equal(t, "Unknown", mdsearch.Kind(99).String())
}

// TestAllKindsSatisfyContract runs the shared property suite over every
// index structure with the same dataset.
func TestAllKindsSatisfyContract(t *testing.T) {
	const dimensions = 3

	rng := testutil.NewRNG(42)
	points := rng.DistinctPoints(200, dimensions)
	boundary := point.UniformBoundary(dimensions, point.Interval[float32]{Min: 0, Max: 1})

	kinds := []struct {
		kind     mdsearch.Kind
		tolerant bool
	}{
		{mdsearch.KindKDTree, true},
		{mdsearch.KindBucketKDTree, true},
		{mdsearch.KindPyramidTree, true},
		{mdsearch.KindMultigrid, true},
		{mdsearch.KindBitHash, false},
	}

	for _, tc := range kinds {
		t.Run(tc.kind.String(), func(t *testing.T) {
			testutil.RunIndexSuite(t, func(t *testing.T) index.Index[float32] {
				idx, err := mdsearch.New(tc.kind, dimensions, mdsearch.WithBoundary[float32](boundary))
				require.NoError(t, err)
				return idx
			}, points, tc.tolerant)
		})
	}
}
