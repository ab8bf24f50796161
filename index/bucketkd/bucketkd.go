// Package bucketkd provides a bucket kd-tree index. Points are only stored
// in the leaves; a leaf that outgrows its capacity is split into two
// children along the dimension with the highest range of values.
package bucketkd

import (
	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/point"
)

// Compile-time check to ensure Tree satisfies the index contract.
var _ index.Index[float32] = (*Tree[float32])(nil)

const (
	// MaxPointsPerBucket is the maximum number of points allowed in a leaf.
	MaxPointsPerBucket = 8

	// MinPointsBeforeMerge is the subtree size below which removing a
	// point forces a node to merge its children.
	MinPointsBeforeMerge = MaxPointsPerBucket / 2
)

// node is a single node of the bucket kd-tree. Leaves carry points;
// internal nodes carry the cutting plane and exactly two children. The
// parent back-pointer exists for upward propagation of subtree counts and
// merge attempts.
type node[E point.Float] struct {
	parent      *node[E]
	totalPoints int
	leaf        bool
	points      []point.Point[E]
	left        *node[E]
	right       *node[E]
	cuttingDim  int
	cuttingVal  E
}

func newNode[E point.Float](parent *node[E], points []point.Point[E]) *node[E] {
	return &node[E]{
		parent:      parent,
		totalPoints: len(points),
		leaf:        true,
		points:      points,
	}
}

func (n *node[E]) incrementTotalPoints() {
	n.totalPoints++
	if n.parent != nil {
		n.parent.incrementTotalPoints()
	}
}

func (n *node[E]) decrementTotalPoints() {
	n.totalPoints--
	if n.parent != nil {
		n.parent.decrementTotalPoints()
	}
}

func (n *node[E]) contains(p point.Point[E]) bool {
	return n.indexOf(p) != -1
}

func (n *node[E]) indexOf(p point.Point[E]) int {
	for i := range n.points {
		if p.Equal(n.points[i]) {
			return i
		}
	}
	return -1
}

// addPoint inserts into a leaf, splitting it first if full. Must only be
// called on leaves.
func (n *node[E]) addPoint(p point.Point[E]) bool {
	if n.contains(p) {
		return false
	}
	if len(n.points) >= MaxPointsPerBucket {
		n.splitAndInsert(p)
	} else {
		n.points = append(n.points, p.Clone())
		n.incrementTotalPoints()
	}
	return true
}

// removePoint removes from a leaf and asks the parent to merge if the
// surrounding subtree has become small enough. Must only be called on
// leaves.
func (n *node[E]) removePoint(p point.Point[E]) bool {
	i := n.indexOf(p)
	if i == -1 {
		return false
	}
	n.points = append(n.points[:i], n.points[i+1:]...)
	n.decrementTotalPoints()
	if n.parent != nil {
		n.parent.attemptMerge()
	}
	return true
}

// splitAndInsert turns a full leaf into an internal node with two leaf
// children and routes p into one of them. The cutting dimension is the one
// with the highest range over the current points (ties toward the lowest
// index); the cutting value is the mean of that dimension.
func (n *node[E]) splitAndInsert(p point.Point[E]) {
	cuttingDim := dimensionWithHighestRange(n.points)
	cuttingVal := averageOfDimension(cuttingDim, n.points)

	// Stable partition: points below the cutting plane keep their order
	// on the left, the rest on the right.
	var leftPoints, rightPoints []point.Point[E]
	for _, q := range n.points {
		if q[cuttingDim] < cuttingVal {
			leftPoints = append(leftPoints, q)
		} else {
			rightPoints = append(rightPoints, q)
		}
	}

	n.left = newNode(n, leftPoints)
	n.right = newNode(n, rightPoints)
	n.leaf = false
	n.points = nil
	n.cuttingDim = cuttingDim
	n.cuttingVal = cuttingVal

	if p[cuttingDim] < cuttingVal {
		n.left.addPoint(p)
	} else {
		n.right.addPoint(p)
	}
}

// attemptMerge collapses this node back into a leaf when its subtree has
// shrunk below the merge threshold. Both children are then leaves by
// construction; their points are concatenated left then right. The merge
// propagates upward.
func (n *node[E]) attemptMerge() {
	if n.leaf || n.totalPoints >= MinPointsBeforeMerge {
		return
	}

	n.points = append(n.left.points, n.right.points...)
	n.leaf = true
	n.left = nil
	n.right = nil

	if n.parent != nil {
		n.parent.attemptMerge()
	}
}

// Tree is a bucket kd-tree over points of a fixed dimensionality.
type Tree[E point.Float] struct {
	dimension int
	root      *node[E]
}

// New creates an empty bucket kd-tree for points of the given
// dimensionality.
func New[E point.Float](dimension int) (*Tree[E], error) {
	if err := index.ValidateDimension(dimension); err != nil {
		return nil, err
	}
	return &Tree[E]{
		dimension: dimension,
		root:      newNode[E](nil, nil),
	}, nil
}

// Clear removes all points from the tree.
func (t *Tree[E]) Clear() {
	t.root = newNode[E](nil, nil)
}

// Len returns the number of points stored in the tree.
func (t *Tree[E]) Len() int {
	return t.root.totalPoints
}

// Insert adds a point to the tree. It returns false if the point is
// already stored.
func (t *Tree[E]) Insert(p point.Point[E]) bool {
	return t.findLeafFor(p).addPoint(p)
}

// Remove deletes a point from the tree. It returns false if the point was
// not being stored.
func (t *Tree[E]) Remove(p point.Point[E]) bool {
	return t.findLeafFor(p).removePoint(p)
}

// Query reports whether the point is stored in the tree.
func (t *Tree[E]) Query(p point.Point[E]) bool {
	return t.findLeafFor(p).contains(p)
}

// findLeafFor descends to the leaf whose region contains p.
func (t *Tree[E]) findLeafFor(p point.Point[E]) *node[E] {
	current := t.root
	for !current.leaf {
		if p[current.cuttingDim] < current.cuttingVal {
			current = current.left
		} else {
			current = current.right
		}
	}
	return current
}

func rangeOfDimension[E point.Float](d int, points []point.Point[E]) E {
	if len(points) == 0 {
		return 0
	}
	minVal, maxVal := points[0][d], points[0][d]
	for _, p := range points {
		if p[d] < minVal {
			minVal = p[d]
		} else if p[d] > maxVal {
			maxVal = p[d]
		}
	}
	return maxVal - minVal
}

func dimensionWithHighestRange[E point.Float](points []point.Point[E]) int {
	chosenDim := 0
	maxRange := rangeOfDimension(0, points)
	for d := 1; d < len(points[0]); d++ {
		if r := rangeOfDimension(d, points); r > maxRange {
			chosenDim = d
			maxRange = r
		}
	}
	return chosenDim
}

func averageOfDimension[E point.Float](d int, points []point.Point[E]) E {
	var sum E
	for _, p := range points {
		sum += p[d]
	}
	return sum / E(len(points))
}
