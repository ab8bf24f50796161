// Package index provides the common contract shared by all point index
// structures.
package index

import (
	"fmt"

	"github.com/hupe1980/mdsearch/point"
)

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int // Configured dimension
}

// Error returns the error message for an invalid dimension.
func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrBoundaryMismatch indicates a boundary whose dimensionality does not
// match the index.
type ErrBoundaryMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for a boundary mismatch.
func (e *ErrBoundaryMismatch) Error() string {
	return fmt.Sprintf("boundary dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Index represents an exact-match point index. Duplicate inserts and
// removals of absent points are reported through the boolean results,
// never as errors.
type Index[E point.Float] interface {
	// Insert adds a point to the index. It returns true iff the point
	// was newly added.
	Insert(p point.Point[E]) bool

	// Remove deletes a point from the index. It returns true iff the
	// point was present.
	Remove(p point.Point[E]) bool

	// Query reports whether the point is present.
	Query(p point.Point[E]) bool

	// Clear removes all points from the index.
	Clear()

	// Len returns the number of points currently stored.
	Len() int
}

// ValidateDimension checks a configured dimension shared by all index
// constructors.
func ValidateDimension(dimension int) error {
	if dimension < 1 {
		return &ErrInvalidDimension{Dimension: dimension}
	}
	return nil
}

// ValidateBoundary checks that a boundary matches the configured dimension.
func ValidateBoundary[E point.Float](dimension int, b point.Boundary[E]) error {
	if len(b) != dimension {
		return &ErrBoundaryMismatch{Expected: dimension, Actual: len(b)}
	}
	return nil
}
