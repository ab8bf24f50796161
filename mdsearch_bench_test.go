package mdsearch_test

import (
	"testing"

	"github.com/hupe1980/mdsearch"
	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/point"
	"github.com/hupe1980/mdsearch/testutil"
)

const (
	benchDimensions = 10
	benchPoints     = 10000
)

func benchKinds(b *testing.B) map[string]func() index.Index[float32] {
	b.Helper()

	boundary := point.UniformBoundary(benchDimensions, point.Interval[float32]{Min: 0, Max: 1})

	return map[string]func() index.Index[float32]{
		"KDTree": func() index.Index[float32] {
			idx, _ := mdsearch.New[float32](mdsearch.KindKDTree, benchDimensions)
			return idx
		},
		"BucketKDTree": func() index.Index[float32] {
			idx, _ := mdsearch.New[float32](mdsearch.KindBucketKDTree, benchDimensions)
			return idx
		},
		"PyramidTree": func() index.Index[float32] {
			idx, _ := mdsearch.New(mdsearch.KindPyramidTree, benchDimensions, mdsearch.WithBoundary[float32](boundary))
			return idx
		},
		"Multigrid": func() index.Index[float32] {
			idx, _ := mdsearch.New(mdsearch.KindMultigrid, benchDimensions, mdsearch.WithBoundary[float32](boundary))
			return idx
		},
		"BitHash": func() index.Index[float32] {
			idx, _ := mdsearch.New[float32](mdsearch.KindBitHash, benchDimensions)
			return idx
		},
	}
}

func BenchmarkInsert(b *testing.B) {
	points := testutil.NewRNG(42).UniformPoints(benchPoints, benchDimensions)

	for name, newIndex := range benchKinds(b) {
		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				idx := newIndex()
				for _, p := range points {
					idx.Insert(p)
				}
			}
		})
	}
}

func BenchmarkQuery(b *testing.B) {
	points := testutil.NewRNG(42).UniformPoints(benchPoints, benchDimensions)

	for name, newIndex := range benchKinds(b) {
		b.Run(name, func(b *testing.B) {
			idx := newIndex()
			for _, p := range points {
				idx.Insert(p)
			}

			i := 0
			b.ResetTimer()
			for b.Loop() {
				idx.Query(points[i%len(points)])
				i++
			}
		})
	}
}

func BenchmarkRemove(b *testing.B) {
	points := testutil.NewRNG(42).UniformPoints(benchPoints, benchDimensions)

	for name, newIndex := range benchKinds(b) {
		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				b.StopTimer()
				idx := newIndex()
				for _, p := range points {
					idx.Insert(p)
				}
				b.StartTimer()

				for _, p := range points {
					idx.Remove(p)
				}
			}
		})
	}
}
