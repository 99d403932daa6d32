// Package buffer implements the immutable flat buffers geometry arrays are
// built from: interleaved coordinates, run offsets and validity bitmaps.
// Buffers are never written after construction so views created by Slice
// may share a backing array freely.
package buffer

import (
	"fmt"

	"github.com/brimdata/geovec"
)

// Coords is an interleaved coordinate buffer: x0, y0[, z0], x1, ...
type Coords struct {
	dim    geovec.Dimension
	values []float64
}

// NewCoords wraps values without copying them.  Ownership of values passes
// to the buffer and the caller must not modify them afterwards.
func NewCoords(values []float64, dim geovec.Dimension) (*Coords, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("%w: unsupported dimension %d", geovec.ErrDimensionMismatch, int(dim))
	}
	if len(values)%dim.Size() != 0 {
		return nil, fmt.Errorf("%w: %d values is not a multiple of %d", geovec.ErrDimensionMismatch, len(values), dim.Size())
	}
	return &Coords{dim: dim, values: values}, nil
}

// NewSeparatedCoords interleaves separate coordinate columns into a new
// buffer.  A nil zs yields an XY buffer.
func NewSeparatedCoords(xs, ys, zs []float64) (*Coords, error) {
	if len(xs) != len(ys) || (zs != nil && len(zs) != len(xs)) {
		return nil, fmt.Errorf("%w: coordinate columns have different lengths", geovec.ErrDimensionMismatch)
	}
	dim := geovec.XY
	if zs != nil {
		dim = geovec.XYZ
	}
	values := make([]float64, 0, len(xs)*dim.Size())
	for k := range xs {
		values = append(values, xs[k], ys[k])
		if zs != nil {
			values = append(values, zs[k])
		}
	}
	return &Coords{dim: dim, values: values}, nil
}

func (c *Coords) Dimension() geovec.Dimension {
	return c.dim
}

// Len returns the number of coordinate tuples.
func (c *Coords) Len() int {
	return len(c.values) / c.dim.Size()
}

// Values returns the interleaved values of the view.  The caller must not
// modify them.
func (c *Coords) Values() []float64 {
	return c.values
}

func (c *Coords) XY(i int) ([2]float64, error) {
	if c.dim != geovec.XY {
		return [2]float64{}, fmt.Errorf("%w: reading xy from %s buffer", geovec.ErrDimensionMismatch, c.dim)
	}
	off := i * 2
	return [2]float64{c.values[off], c.values[off+1]}, nil
}

func (c *Coords) XYZ(i int) ([3]float64, error) {
	if c.dim != geovec.XYZ {
		return [3]float64{}, fmt.Errorf("%w: reading xyz from %s buffer", geovec.ErrDimensionMismatch, c.dim)
	}
	off := i * 3
	return [3]float64{c.values[off], c.values[off+1], c.values[off+2]}, nil
}

// At returns coordinate i.  Z is zero for XY buffers.
func (c *Coords) At(i int) geovec.Coord {
	if c.dim == geovec.XYZ {
		off := i * 3
		return geovec.Coord{X: c.values[off], Y: c.values[off+1], Z: c.values[off+2]}
	}
	off := i * 2
	return geovec.Coord{X: c.values[off], Y: c.values[off+1]}
}

// Flat returns the interleaved values of coordinates [start, end) without
// copying.  The result has no spare capacity so appending to it reallocates.
// The caller must not modify it.
func (c *Coords) Flat(start, end int) []float64 {
	size := c.dim.Size()
	return c.values[start*size : end*size : end*size]
}

// Slice returns a view of n coordinates beginning at start.  The view shares
// the receiver's storage.
func (c *Coords) Slice(start, n int) *Coords {
	size := c.dim.Size()
	return &Coords{dim: c.dim, values: c.values[start*size : (start+n)*size]}
}

// CoordBuilder accumulates coordinates into newly allocated storage.
type CoordBuilder struct {
	dim    geovec.Dimension
	values []float64
}

func NewCoordBuilder(dim geovec.Dimension, capacity int) *CoordBuilder {
	return &CoordBuilder{
		dim:    dim,
		values: make([]float64, 0, capacity*dim.Size()),
	}
}

func (b *CoordBuilder) Dimension() geovec.Dimension {
	return b.dim
}

func (b *CoordBuilder) Len() int {
	return len(b.values) / b.dim.Size()
}

func (b *CoordBuilder) Append(c geovec.Coord) {
	b.values = append(b.values, c.X, c.Y)
	if b.dim == geovec.XYZ {
		b.values = append(b.values, c.Z)
	}
}

// AppendValues appends interleaved values, whose length must be a multiple
// of the builder's coordinate size.
func (b *CoordBuilder) AppendValues(values []float64) {
	if len(values)%b.dim.Size() != 0 {
		panic(fmt.Sprintf("buffer.CoordBuilder: %d values is not a multiple of %d", len(values), b.dim.Size()))
	}
	b.values = append(b.values, values...)
}

// AppendRun appends every coordinate of run, which must have the builder's
// dimension.
func (b *CoordBuilder) AppendRun(run *Coords) {
	if run.dim != b.dim {
		panic(fmt.Sprintf("buffer.CoordBuilder: appending %s run to %s builder", run.dim, b.dim))
	}
	b.values = append(b.values, run.values...)
}

// Build returns the accumulated coordinates.  The builder must not be used
// afterwards.
func (b *CoordBuilder) Build() *Coords {
	c := &Coords{dim: b.dim, values: b.values}
	b.values = nil
	return c
}
