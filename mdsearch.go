package mdsearch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/mdsearch/index"
	"github.com/hupe1980/mdsearch/index/bithash"
	"github.com/hupe1980/mdsearch/index/bucketkd"
	"github.com/hupe1980/mdsearch/index/kdtree"
	"github.com/hupe1980/mdsearch/index/multigrid"
	"github.com/hupe1980/mdsearch/index/pyramid"
	"github.com/hupe1980/mdsearch/point"
)

var (
	// ErrMissingBoundary is returned when an index kind that needs a
	// covering boundary is constructed without one.
	ErrMissingBoundary = errors.New("index kind requires a boundary")
)

// ErrInvalidKind indicates an unknown index kind.
type ErrInvalidKind struct {
	Kind Kind
}

// Error returns the error message for an invalid kind.
func (e *ErrInvalidKind) Error() string {
	return fmt.Sprintf("invalid index kind: %d", e.Kind)
}

// Kind selects one of the index structures.
type Kind int

// Constants representing the available index structures.
const (
	KindKDTree Kind = iota
	KindBucketKDTree
	KindPyramidTree
	KindMultigrid
	KindBitHash
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindKDTree:
		return "KDTree"
	case KindBucketKDTree:
		return "BucketKDTree"
	case KindPyramidTree:
		return "PyramidTree"
	case KindMultigrid:
		return "Multigrid"
	case KindBitHash:
		return "BitHash"
	default:
		return "Unknown"
	}
}

// Options contains configuration options shared by the index factory.
type Options[E point.Float] struct {
	// Boundary is the covering region required by the pyramid tree and
	// multigrid indexes.
	Boundary point.Boundary[E]

	// MultigridOptions configure the multigrid index.
	MultigridOptions []func(o *multigrid.Options)
}

// WithBoundary sets the covering boundary for the boundary-based indexes.
func WithBoundary[E point.Float](b point.Boundary[E]) func(o *Options[E]) {
	return func(o *Options[E]) {
		o.Boundary = b
	}
}

// WithMultigridOptions forwards options to the multigrid index.
func WithMultigridOptions[E point.Float](optFns ...func(o *multigrid.Options)) func(o *Options[E]) {
	return func(o *Options[E]) {
		o.MultigridOptions = append(o.MultigridOptions, optFns...)
	}
}

// New creates an empty index of the given kind for points of the given
// dimensionality. KindPyramidTree and KindMultigrid require WithBoundary.
func New[E point.Float](kind Kind, dimension int, optFns ...func(o *Options[E])) (index.Index[E], error) {
	var opts Options[E]

	for _, fn := range optFns {
		fn(&opts)
	}

	switch kind {
	case KindKDTree:
		return kdtree.New[E](dimension)
	case KindBucketKDTree:
		return bucketkd.New[E](dimension)
	case KindPyramidTree:
		if opts.Boundary == nil {
			return nil, ErrMissingBoundary
		}
		return pyramid.New(dimension, opts.Boundary)
	case KindMultigrid:
		if opts.Boundary == nil {
			return nil, ErrMissingBoundary
		}
		return multigrid.New(dimension, opts.Boundary, opts.MultigridOptions...)
	case KindBitHash:
		return bithash.New[E](dimension)
	default:
		return nil, &ErrInvalidKind{Kind: kind}
	}
}
