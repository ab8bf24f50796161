// Package kdtree provides a point kd-tree index, as described in Bentley's
// 1975 paper "Multidimensional binary search trees used for associative
// searching". Each node stores a single point; the cutting dimension cycles
// with depth.
package kdtree

import (
	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/point"
)

// Compile-time check to ensure KDTree satisfies the index contract.
var _ index.Index[float32] = (*KDTree[float32])(nil)

// node is a single node of the tree. Children are nil for leaves.
type node[E point.Float] struct {
	point point.Point[E]
	left  *node[E]
	right *node[E]
}

// KDTree is a point kd-tree over points of a fixed dimensionality.
type KDTree[E point.Float] struct {
	dimension int
	root      *node[E]
	size      int
}

// New creates an empty point kd-tree for points of the given dimensionality.
func New[E point.Float](dimension int) (*KDTree[E], error) {
	if err := index.ValidateDimension(dimension); err != nil {
		return nil, err
	}
	return &KDTree[E]{dimension: dimension}, nil
}

// Clear removes all points from the tree.
func (t *KDTree[E]) Clear() {
	t.root = nil
	t.size = 0
}

// Len returns the number of points stored in the tree.
func (t *KDTree[E]) Len() int {
	return t.size
}

// Insert adds a point to the tree. It returns false if the point is
// already stored.
func (t *KDTree[E]) Insert(p point.Point[E]) bool {
	var (
		previous     *node[E]
		leftOfParent bool
	)
	current := t.root
	cuttingDim := 0

	for {
		if current == nil {
			current = &node[E]{point: p.Clone()}
			if previous != nil {
				if leftOfParent {
					previous.left = current
				} else {
					previous.right = current
				}
			} else {
				t.root = current
			}
			t.size++
			return true
		}

		switch {
		case p.Equal(current.point):
			// Duplicate point, cannot insert.
			return false
		case p[cuttingDim] < current.point[cuttingDim]:
			previous = current
			current = current.left
			leftOfParent = true
		default:
			previous = current
			current = current.right
			leftOfParent = false
		}

		cuttingDim = t.nextCuttingDimension(cuttingDim)
	}
}

// Query reports whether the point is stored in the tree.
func (t *KDTree[E]) Query(p point.Point[E]) bool {
	current := t.root
	cuttingDim := 0

	for current != nil {
		if p.Equal(current.point) {
			return true
		}
		if p[cuttingDim] < current.point[cuttingDim] {
			current = current.left
		} else {
			current = current.right
		}
		cuttingDim = t.nextCuttingDimension(cuttingDim)
	}

	return false
}

// Remove deletes a point from the tree. It returns false if the point was
// not being stored.
func (t *KDTree[E]) Remove(p point.Point[E]) bool {
	var removed bool
	t.root = t.recursiveRemove(t.root, p, 0, &removed)
	if removed {
		t.size--
	}
	return removed
}

func (t *KDTree[E]) nextCuttingDimension(cuttingDim int) int {
	return (cuttingDim + 1) % t.dimension
}

func (t *KDTree[E]) recursiveRemove(n *node[E], p point.Point[E], cuttingDim int, removed *bool) *node[E] {
	if n == nil {
		return nil
	}

	// The delete candidate must match the full point, not just the
	// cutting dimension. A point whose coordinate ties with the pivot
	// under the tolerance, but is not the pivot point, descends right.
	// Insert and Query compare the coordinate exactly, so they agree
	// with this only on exact ties.
	switch c := point.Compare(p[cuttingDim], n.point[cuttingDim]); {
	case c < 0:
		n.left = t.recursiveRemove(n.left, p, t.nextCuttingDimension(cuttingDim), removed)
	case c > 0 || !p.Equal(n.point):
		n.right = t.recursiveRemove(n.right, p, t.nextCuttingDimension(cuttingDim), removed)
	default:
		if n.left == nil && n.right == nil {
			*removed = true
			return nil
		}

		// Replace the node's point with the minimum of a subtree for the
		// cutting dimension, then remove that point from the subtree.
		if n.right != nil {
			n.point = t.findMinimum(n.right, cuttingDim, t.nextCuttingDimension(cuttingDim)).Clone()
			n.right = t.recursiveRemove(n.right, n.point, t.nextCuttingDimension(cuttingDim), removed)
		} else {
			n.point = t.findMinimum(n.left, cuttingDim, t.nextCuttingDimension(cuttingDim)).Clone()
			n.left = t.recursiveRemove(n.left, n.point, t.nextCuttingDimension(cuttingDim), removed)
			// The remaining subtree must become the right child: points
			// equal to the promoted pivot in the cutting dimension always
			// descend right.
			n.right = n.left
			n.left = nil
		}
	}

	return n
}

// findMinimum returns the point with the lowest value in the given
// dimension within the subtree rooted at n. Returns nil for an empty
// subtree.
func (t *KDTree[E]) findMinimum(n *node[E], dimension, cuttingDim int) point.Point[E] {
	if n == nil {
		return nil
	}

	// If the node cuts on the dimension we minimise over, the minimum
	// lies in the left subtree (or at the node itself if there is none).
	if dimension == cuttingDim {
		if n.left == nil {
			return n.point
		}
		return t.findMinimum(n.left, dimension, t.nextCuttingDimension(cuttingDim))
	}

	// Otherwise both children must be searched.
	a := t.findMinimum(n.left, dimension, t.nextCuttingDimension(cuttingDim))
	b := t.findMinimum(n.right, dimension, t.nextCuttingDimension(cuttingDim))

	minimum := n.point
	if a != nil && a[dimension] < minimum[dimension] {
		minimum = a
	}
	if b != nil && b[dimension] < minimum[dimension] {
		minimum = b
	}
	return minimum
}
