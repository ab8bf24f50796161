// Package dataset loads collections of points with the same
// dimensionality from memory, text files or blob storage, and computes
// their bounding boundary.
//
// The text format is whitespace-separated:
//
//	d n
//	p1_1 p1_2 ... p1_d
//	...
//	pn_1 pn_2 ... pn_d
//
// where d is the dimensionality and n the number of points. Missing input
// or an invalid header is a silent no-op: the dataset is left unchanged.
// After a valid header, reading stops without error at the end of input or
// at the first token that is not a number, keeping the points read in
// full before it.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/mdsearch/blobstore"
	"github.com/hupe1980/mdsearch/point"
)

// Dataset stores a collection of points with the same dimensionality.
// Repeated loads append to the current point list.
type Dataset[E point.Float] struct {
	dimension int
	points    []point.Point[E]
}

// New creates an empty dataset for points of the given dimensionality.
func New[E point.Float](dimension int) *Dataset[E] {
	return &Dataset[E]{dimension: dimension}
}

// Dimension returns the dataset's dimensionality.
func (d *Dataset[E]) Dimension() int {
	return d.dimension
}

// Points returns all points currently stored.
func (d *Dataset[E]) Points() []point.Point[E] {
	return d.points
}

// Len returns the number of points currently stored.
func (d *Dataset[E]) Len() int {
	return len(d.points)
}

// LoadPoints appends the given points to the dataset.
func (d *Dataset[E]) LoadPoints(points []point.Point[E]) {
	d.points = append(d.points, points...)
}

// LoadFile appends all points in the named text file to the dataset.
// Files ending in ".gz" or ".lz4" are decompressed transparently. A
// missing file, an unreadable gzip header or an invalid header leaves the
// dataset unchanged; otherwise the points are read as by Read.
func (d *Dataset[E]) LoadFile(name string) {
	f, err := os.Open(name)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	r, err := decompress(name, f)
	if err != nil {
		return
	}
	d.Read(r)
}

// LoadBlob appends all points in the named blob to the dataset. The same
// extension-based decompression as LoadFile applies. A missing blob, an
// unreadable gzip header or an invalid header leaves the dataset
// unchanged; otherwise the points are read as by Read.
func (d *Dataset[E]) LoadBlob(ctx context.Context, store blobstore.BlobStore, name string) {
	data, err := blobstore.Fetch(ctx, store, name)
	if err != nil {
		return
	}

	r, err := decompress(name, bytes.NewReader(data))
	if err != nil {
		return
	}
	d.Read(r)
}

// Read appends all points in the stream to the dataset. An invalid header
// leaves the dataset unchanged; EOF or a non-numeric token before the
// advertised point count stops reading without error.
func (d *Dataset[E]) Read(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	numDimensions, ok := scanInt(sc)
	if !ok {
		return
	}
	numPoints, ok := scanInt(sc)
	if !ok {
		return
	}

	// Only continue if the header is plausible and matches the
	// dataset's own dimensionality.
	if numDimensions < 1 || numPoints < 1 || numDimensions != d.dimension {
		return
	}

	loaded := make([]point.Point[E], 0, numPoints)
	for range numPoints {
		p := make(point.Point[E], d.dimension)
		complete := true
		for j := range d.dimension {
			v, ok := scanFloat(sc)
			if !ok {
				complete = false
				break
			}
			p[j] = E(v)
		}
		if !complete {
			break
		}
		loaded = append(loaded, p)
	}

	d.points = append(d.points, loaded...)
}

// ComputeBoundary returns the minimum bounding hyper-rectangle that
// contains all points in the dataset, or an all-zero boundary when the
// dataset is empty.
func (d *Dataset[E]) ComputeBoundary() point.Boundary[E] {
	boundary := point.UniformBoundary(d.dimension, point.Interval[E]{})

	if len(d.points) == 0 {
		return boundary
	}

	first := d.points[0]
	for dim := range boundary {
		boundary[dim] = point.Interval[E]{Min: first[dim], Max: first[dim]}
	}
	for _, p := range d.points[1:] {
		for dim := range boundary {
			if p[dim] < boundary[dim].Min {
				boundary[dim].Min = p[dim]
			} else if p[dim] > boundary[dim].Max {
				boundary[dim].Max = p[dim]
			}
		}
	}
	return boundary
}

func decompress(name string, r io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(r)
	case strings.HasSuffix(name, ".lz4"):
		return lz4.NewReader(r), nil
	default:
		return r, nil
	}
}

func scanInt(sc *bufio.Scanner) (int, bool) {
	if !sc.Scan() {
		return 0, false
	}
	v, err := strconv.Atoi(sc.Text())
	if err != nil {
		return 0, false
	}
	return v, true
}

func scanFloat(sc *bufio.Scanner) (float64, bool) {
	if !sc.Scan() {
		return 0, false
	}
	v, err := strconv.ParseFloat(sc.Text(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
