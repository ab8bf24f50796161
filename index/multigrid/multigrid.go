// Package multigrid provides a grid-then-refine point index. The boundary
// is divided into a fixed number of equal-width cells per dimension; a
// cell that overflows its bucket is subdivided dimension by dimension, one
// dimension per tree level. Points live in a tree-global arena; removals
// leave tombstoned slots that later insertions reuse.
package multigrid

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/internal/hashstore"
	"github.com/hupe1980/mdsearch/point"
)

// Compile-time check to ensure Multigrid satisfies the index contract.
var _ index.Index[float32] = (*Multigrid[float32])(nil)

// DefaultIntervalsPerDimension is the default number of equal-width cells
// each dimension is divided into.
const DefaultIntervalsPerDimension = 1000000000

// DefaultBucketSize is the default leaf capacity.
const DefaultBucketSize = 8

// Options contains configuration options for the multigrid index.
type Options struct {
	// IntervalsPerDimension is the number of equal-width cells each
	// dimension is divided into.
	IntervalsPerDimension float64

	// BucketSize is the leaf capacity before subdivision.
	BucketSize int
}

// DefaultOptions contains the default configuration options for the
// multigrid index.
var DefaultOptions = Options{
	IntervalsPerDimension: DefaultIntervalsPerDimension,
	BucketSize:            DefaultBucketSize,
}

// node is either a leaf holding indices into the arena, or an internal
// node owning a map from hash key to children.
type node[E point.Float] struct {
	leaf         bool
	pointIndices []uint32
	children     map[hashstore.Key]*node[E]
}

func newLeaf[E point.Float](pointIndex uint32) *node[E] {
	return &node[E]{
		leaf:         true,
		pointIndices: []uint32{pointIndex},
	}
}

// Multigrid is a grid-then-refine index over points of a fixed
// dimensionality. Points outside the boundary produce undefined cell
// assignment; callers must supply a boundary enclosing every point they
// will insert.
type Multigrid[E point.Float] struct {
	dimension int
	boundary  point.Boundary[E]
	intervals E
	bucket    int

	rootBuckets map[hashstore.Key]*node[E]

	// Arena of all points ever inserted. Slots freed by removals are
	// recorded in unusedIndices and reused by later insertions; live
	// tracks which slots are currently reachable from the tree.
	points        []point.Point[E]
	unusedIndices []uint32
	live          *roaring.Bitmap
}

// New creates an empty multigrid covering the given boundary.
func New[E point.Float](dimension int, boundary point.Boundary[E], optFns ...func(o *Options)) (*Multigrid[E], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateDimension(dimension); err != nil {
		return nil, err
	}
	if err := index.ValidateBoundary(dimension, boundary); err != nil {
		return nil, err
	}

	return &Multigrid[E]{
		dimension:   dimension,
		boundary:    boundary,
		intervals:   E(opts.IntervalsPerDimension),
		bucket:      opts.BucketSize,
		rootBuckets: make(map[hashstore.Key]*node[E]),
		live:        roaring.New(),
	}, nil
}

// Clear removes all points, keeping the current boundary.
func (m *Multigrid[E]) Clear() {
	m.rootBuckets = make(map[hashstore.Key]*node[E])
	m.points = nil
	m.unusedIndices = nil
	m.live.Clear()
}

// Reset removes all points and replaces the boundary.
func (m *Multigrid[E]) Reset(boundary point.Boundary[E]) error {
	if err := index.ValidateBoundary(m.dimension, boundary); err != nil {
		return err
	}
	m.Clear()
	m.boundary = boundary
	return nil
}

// Len returns the number of live points, i.e. the arena size minus the
// tombstoned slots.
func (m *Multigrid[E]) Len() int {
	return int(m.live.GetCardinality())
}

// ArenaSize returns the size of the backing point arena, including
// tombstoned slots.
func (m *Multigrid[E]) ArenaSize() int {
	return len(m.points)
}

// NumBuckets returns the number of leaf cells.
func (m *Multigrid[E]) NumBuckets() int {
	return countLeaves(m.rootBuckets)
}

// AverageBucketSize returns the mean number of live points per leaf cell,
// or 0 if there are no cells.
func (m *Multigrid[E]) AverageBucketSize() float64 {
	buckets := m.NumBuckets()
	if buckets == 0 {
		return 0
	}
	return float64(m.Len()) / float64(buckets)
}

func countLeaves[E point.Float](buckets map[hashstore.Key]*node[E]) int {
	total := 0
	for _, n := range buckets {
		if n.leaf {
			total++
		} else {
			total += countLeaves(n.children)
		}
	}
	return total
}

// Insert adds a point to the index. It returns false if the point is
// already stored.
func (m *Multigrid[E]) Insert(p point.Point[E]) bool {
	key := m.hashCoord(p, 0)

	next, ok := m.rootBuckets[key]
	if !ok {
		m.rootBuckets[key] = newLeaf[E](m.allocSlot(p))
		return true
	}
	return m.insertIntoBucket(p, 1, next)
}

// Query reports whether the point is stored in the index.
func (m *Multigrid[E]) Query(p point.Point[E]) bool {
	current, currentDim := m.rootBuckets[m.hashCoord(p, 0)], 1

	for current != nil {
		if current.leaf {
			return m.indexInLeaf(current, p) != -1
		}
		current = current.children[m.hashCoord(p, currentDim)]
		currentDim++
	}
	return false
}

// Remove deletes a point from the index. It returns false if the point
// was not being stored. The freed arena slot is tombstoned, not
// reclaimed; no cell merging is performed.
func (m *Multigrid[E]) Remove(p point.Point[E]) bool {
	current, currentDim := m.rootBuckets[m.hashCoord(p, 0)], 1

	for current != nil {
		if current.leaf {
			i := m.indexInLeaf(current, p)
			if i == -1 {
				return false
			}
			pointIndex := current.pointIndices[i]
			last := len(current.pointIndices) - 1
			current.pointIndices[i] = current.pointIndices[last]
			current.pointIndices = current.pointIndices[:last]

			m.unusedIndices = append(m.unusedIndices, pointIndex)
			m.live.Remove(pointIndex)
			return true
		}
		current = current.children[m.hashCoord(p, currentDim)]
		currentDim++
	}
	return false
}

// insertIntoBucket inserts p into the subtree rooted at n, which was
// reached by hashing dimensions 0..currentDim-1.
func (m *Multigrid[E]) insertIntoBucket(p point.Point[E], currentDim int, n *node[E]) bool {
	if n.leaf {
		if m.indexInLeaf(n, p) != -1 {
			return false
		}

		// Split only when the leaf is full and a further dimension
		// remains to discriminate on; past the last dimension the leaf
		// grows without bound.
		if len(n.pointIndices) < m.bucket || currentDim >= m.dimension {
			n.pointIndices = append(n.pointIndices, m.allocSlot(p))
			return true
		}

		m.split(n, currentDim)
		// Fall through: n is an internal node now.
	}

	key := m.hashCoord(p, currentDim)
	next, ok := n.children[key]
	if !ok {
		n.children[key] = newLeaf[E](m.allocSlot(p))
		return true
	}
	return m.insertIntoBucket(p, currentDim+1, next)
}

// split converts a full leaf into an internal node, redistributing the
// held arena indices into fresh children by their hash for currentDim.
func (m *Multigrid[E]) split(n *node[E], currentDim int) {
	indices := n.pointIndices
	n.leaf = false
	n.pointIndices = nil
	n.children = make(map[hashstore.Key]*node[E])

	for _, idx := range indices {
		m.placeIndex(idx, currentDim, n)
	}
}

// placeIndex routes an existing arena index into the subtree rooted at the
// internal node n, splitting recursively if a child leaf overflows.
func (m *Multigrid[E]) placeIndex(idx uint32, currentDim int, n *node[E]) {
	key := m.hashCoord(m.points[idx], currentDim)

	child, ok := n.children[key]
	if !ok {
		n.children[key] = newLeaf[E](idx)
		return
	}

	childDim := currentDim + 1
	for !child.leaf {
		key = m.hashCoord(m.points[idx], childDim)
		next, ok := child.children[key]
		if !ok {
			child.children[key] = newLeaf[E](idx)
			return
		}
		child = next
		childDim++
	}

	if len(child.pointIndices) < m.bucket || childDim >= m.dimension {
		child.pointIndices = append(child.pointIndices, idx)
		return
	}
	m.split(child, childDim)
	m.placeIndex(idx, childDim, child)
}

// allocSlot stores p in the arena, reusing a tombstoned slot if one is
// available, and returns its index.
func (m *Multigrid[E]) allocSlot(p point.Point[E]) uint32 {
	var idx uint32
	if n := len(m.unusedIndices); n > 0 {
		idx = m.unusedIndices[n-1]
		m.unusedIndices = m.unusedIndices[:n-1]
		m.points[idx] = p.Clone()
	} else {
		idx = uint32(len(m.points))
		m.points = append(m.points, p.Clone())
	}
	m.live.Add(idx)
	return idx
}

func (m *Multigrid[E]) indexInLeaf(n *node[E], p point.Point[E]) int {
	for i, idx := range n.pointIndices {
		if p.Equal(m.points[idx]) {
			return i
		}
	}
	return -1
}

// hashCoord maps the point's coordinate in dimension d to its cell index
// along that dimension.
func (m *Multigrid[E]) hashCoord(p point.Point[E], d int) hashstore.Key {
	return hashstore.Key(m.boundary[d].Normalize(p[d]) * m.intervals)
}
