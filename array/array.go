// Package array implements the six columnar geometry array variants.
//
// Each variant owns an interleaved coordinate buffer plus zero to three
// levels of run offsets (outermost first), an optional validity bitmap and
// array-level metadata.  All variants satisfy the sealed Array interface so
// algorithms are written once against Array and only construction and
// downcasts branch on the concrete variant.
package array

import (
	"fmt"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

// SeqKind classifies the coordinate sequences an array hands to Map.
type SeqKind int

const (
	// Points sequences are single points (Point) or point sets (MultiPoint).
	Points SeqKind = iota
	// Lines sequences are linestrings and polygon rings.
	Lines
)

func (k SeqKind) String() string {
	if k == Lines {
		return "lines"
	}
	return "points"
}

// SeqFunc appends the replacement for the coordinate sequence seq to b.
// seq is a view of the source array's coordinate buffer and must not be
// retained.
type SeqFunc func(b *buffer.CoordBuilder, seq *buffer.Coords)

type Array interface {
	Type() geovec.Type
	Dimension() geovec.Dimension
	// Len returns the number of geometries including nulls.
	Len() int
	IsNull(int) bool
	NullCount() int
	Validity() *buffer.Validity
	Metadata() *geovec.Metadata
	Coords() *buffer.Coords
	// Levels returns the offsets from the outermost level inward.
	Levels() []*buffer.Offsets
	// Value returns geometry i or nil when it is null.  The geometry shares
	// the array's coordinate storage and must not be modified.
	Value(int) geom.T
	// Slice returns a view of geometries [start, start+n) that shares the
	// receiver's buffers.  It panics if the range is out of bounds.
	Slice(start, n int) Array
	// WithMetadata returns the same buffers wrapped with different metadata.
	WithMetadata(*geovec.Metadata) Array
	Kind() SeqKind
	// Map rebuilds the array by passing every coordinate sequence of every
	// valid geometry to fn.  The result is a new array of the same variant
	// whose offsets are freshly allocated and zero based.  Null geometries
	// keep their slot and become empty at every level.
	Map(SeqFunc) (Array, error)

	geometryArray()
}

type base struct {
	coords   *buffer.Coords
	validity *buffer.Validity
	meta     *geovec.Metadata
}

func newBase(coords *buffer.Coords, validity *buffer.Validity, meta *geovec.Metadata) base {
	if meta == nil {
		meta = geovec.NewMetadata()
	}
	return base{coords: coords, validity: validity, meta: meta}
}

func (b *base) Dimension() geovec.Dimension { return b.coords.Dimension() }
func (b *base) Coords() *buffer.Coords      { return b.coords }
func (b *base) Validity() *buffer.Validity  { return b.validity }
func (b *base) Metadata() *geovec.Metadata  { return b.meta }
func (b *base) IsNull(i int) bool           { return !b.validity.IsValid(i) }
func (b *base) NullCount() int              { return b.validity.NullCount() }
func (b *base) geometryArray()              {}

// New constructs the variant typ from coords and one offsets buffer per
// nesting level, outermost first.
func New(typ geovec.Type, coords *buffer.Coords, offsets []*buffer.Offsets, validity *buffer.Validity, meta *geovec.Metadata) (Array, error) {
	if len(offsets) != typ.Depth() {
		return nil, fmt.Errorf("%w: %s requires %d offset levels, got %d", geovec.ErrStructuralMismatch, typ, typ.Depth(), len(offsets))
	}
	switch typ {
	case geovec.PointType:
		return NewPoint(coords, validity, meta)
	case geovec.LineStringType:
		return NewLineString(coords, offsets[0], validity, meta)
	case geovec.PolygonType:
		return NewPolygon(coords, offsets[0], offsets[1], validity, meta)
	case geovec.MultiPointType:
		return NewMultiPoint(coords, offsets[0], validity, meta)
	case geovec.MultiLineStringType:
		return NewMultiLineString(coords, offsets[0], offsets[1], validity, meta)
	case geovec.MultiPolygonType:
		return NewMultiPolygon(coords, offsets[0], offsets[1], offsets[2], validity, meta)
	}
	return nil, fmt.Errorf("%w: %s", geovec.ErrUnsupportedVariant, typ)
}

func AsPoint(a Array) (*Point, bool) {
	p, ok := a.(*Point)
	return p, ok
}

func AsLineString(a Array) (*LineString, bool) {
	l, ok := a.(*LineString)
	return l, ok
}

func AsPolygon(a Array) (*Polygon, bool) {
	p, ok := a.(*Polygon)
	return p, ok
}

func AsMultiPoint(a Array) (*MultiPoint, bool) {
	m, ok := a.(*MultiPoint)
	return m, ok
}

func AsMultiLineString(a Array) (*MultiLineString, bool) {
	m, ok := a.(*MultiLineString)
	return m, ok
}

func AsMultiPolygon(a Array) (*MultiPolygon, bool) {
	m, ok := a.(*MultiPolygon)
	return m, ok
}
