// Package mdsearch provides a family of in-memory exact-match
// multi-dimensional point indexes.
//
// Each index stores a set of d-dimensional points and supports three
// operations: insert a point (rejecting duplicates), remove a point
// (reporting whether it was present), and test membership of a point.
// Coordinate equality is tolerant: two points within a fixed epsilon in
// every coordinate are the same point.
//
// # Index Structures
//
//   - Point kd-tree (index/kdtree): one point per node, cutting dimension
//     cycles with depth.
//   - Bucket kd-tree (index/bucketkd): points only in leaves, split on
//     the dimension with the highest range, bottom-up merging.
//   - Pyramid Tree (index/pyramid): Pyramid-Technique scalar hashing into
//     buckets, needs a covering boundary.
//   - Multigrid (index/multigrid): grid cells refined dimension by
//     dimension, arena-backed with tombstone reuse, needs a covering
//     boundary.
//   - Bit hash (index/bithash): hashes raw coordinate bit patterns; fast
//     but exact only for bit-deterministic workloads.
//
// # Quick Start
//
//	tree, _ := mdsearch.New[float32](mdsearch.KindKDTree, 3)
//	tree.Insert(point.Point[float32]{0.1, 0.2, 0.3})
//	tree.Query(point.Point[float32]{0.1, 0.2, 0.3})  // true
//	tree.Remove(point.Point[float32]{0.1, 0.2, 0.3}) // true
//
// The boundary-based indexes take their covering region through options:
//
//	b := point.UniformBoundary(3, point.Interval[float32]{Min: 0, Max: 1})
//	grid, _ := mdsearch.New[float32](mdsearch.KindMultigrid, 3, mdsearch.WithBoundary(b))
//
// The bench package drives any index against a dataset with per-phase
// wall-clock budgets, mirroring how the structures are compared.
package mdsearch
