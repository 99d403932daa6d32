// Package algorithm implements geometry transforms over the array
// capability interface.  Each transform works on a single array and is
// lifted to chunked arrays one chunk at a time.
package algorithm

import (
	"fmt"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/buffer"
	"github.com/brimdata/geovec/chunked"
	"github.com/twpayne/go-geom"
)

// ChaikinSmoothing returns a new array of the same variant where every
// line and ring of a has been smoothed by n rounds of corner cutting.
// Point and MultiPoint arrays are rejected with geovec.ErrUnsupportedVariant.
func ChaikinSmoothing(a array.Array, n uint32) (array.Array, error) {
	if a.Kind() != array.Lines {
		return nil, fmt.Errorf("%w: chaikin smoothing of %s", geovec.ErrUnsupportedVariant, a.Type())
	}
	layout := a.Dimension().Layout()
	return a.Map(func(b *buffer.CoordBuilder, seq *buffer.Coords) {
		line := geom.NewLineStringFlat(layout, seq.Values())
		for k := uint32(0); k < n; k++ {
			next, ok := chaikin(line)
			if !ok {
				break
			}
			line = next
		}
		b.AppendValues(line.FlatCoords())
	})
}

// Chaikin returns a chunk transform for use with chunked.Array.Map and
// chunked.Array.ParallelMap.
func Chaikin(n uint32) chunked.Func {
	return func(a array.Array) (array.Array, error) {
		return ChaikinSmoothing(a, n)
	}
}

// ChaikinSmoothingChunked smooths every chunk of c.  The variant is checked
// before any chunk is processed.
func ChaikinSmoothingChunked(c *chunked.Array, n uint32) (*chunked.Array, error) {
	if err := CheckChaikin(c.Type()); err != nil {
		return nil, err
	}
	return c.Map(Chaikin(n))
}

// CheckChaikin returns geovec.ErrUnsupportedVariant if arrays of type typ
// cannot be smoothed.  Untyped empty collections pass.
func CheckChaikin(typ geovec.Type) error {
	switch typ {
	case geovec.PointType, geovec.MultiPointType:
		return fmt.Errorf("%w: chaikin smoothing of %s", geovec.ErrUnsupportedVariant, typ)
	}
	return nil
}

// chaikin performs one round of corner cutting.  It returns false when the
// line is too short to have an interior corner: fewer than three vertices
// for an open line or fewer than four for a closed ring.  Open lines keep
// their first and last vertex.  A closed ring is re-closed by repeating its
// first cut point.
func chaikin(line *geom.LineString) (*geom.LineString, bool) {
	n := line.NumCoords()
	closed := n > 1 && line.Coord(0).Equal(line.Layout(), line.Coord(n-1))
	if (!closed && n < 3) || (closed && n < 4) {
		return line, false
	}
	stride := line.Stride()
	flat := line.FlatCoords()
	out := make([]float64, 0, 2*n*stride)
	if !closed {
		out = append(out, flat[:stride]...)
	}
	for k := 0; k+1 < n; k++ {
		p, q := line.Coord(k), line.Coord(k+1)
		out = blend(out, p, q, 0.75)
		out = blend(out, p, q, 0.25)
	}
	if closed {
		out = append(out, out[:stride]...)
	} else {
		out = append(out, flat[len(flat)-stride:]...)
	}
	return geom.NewLineStringFlat(line.Layout(), out), true
}

// blend appends w*p + (1-w)*q to dst.
func blend(dst []float64, p, q geom.Coord, w float64) []float64 {
	for k := range p {
		dst = append(dst, w*p[k]+(1-w)*q[k])
	}
	return dst
}
