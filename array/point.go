package array

import (
	"fmt"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

// Point stores one coordinate per geometry.
type Point struct {
	base
}

var _ Array = (*Point)(nil)

func NewPoint(coords *buffer.Coords, validity *buffer.Validity, meta *geovec.Metadata) (*Point, error) {
	if err := validate(geovec.PointType, coords, nil, validity); err != nil {
		return nil, err
	}
	return &Point{newBase(coords, validity, meta)}, nil
}

func (*Point) Type() geovec.Type         { return geovec.PointType }
func (*Point) Kind() SeqKind             { return Points }
func (*Point) Levels() []*buffer.Offsets { return nil }
func (p *Point) Len() int                { return p.coords.Len() }

func (p *Point) Value(i int) geom.T {
	if p.IsNull(i) {
		return nil
	}
	return geom.NewPointFlat(p.Dimension().Layout(), p.coords.Flat(i, i+1))
}

func (p *Point) Slice(start, n int) Array {
	return &Point{base{p.coords.Slice(start, n), p.validity.Slice(start, n), p.meta}}
}

func (p *Point) WithMetadata(meta *geovec.Metadata) Array {
	return &Point{newBase(p.coords, p.validity, meta)}
}

// Map calls fn once per valid point with a one-coordinate sequence.  fn must
// append exactly one coordinate.  Null points are filled with the origin so
// slots stay aligned.
func (p *Point) Map(fn SeqFunc) (Array, error) {
	n := p.Len()
	cb := buffer.NewCoordBuilder(p.Dimension(), n)
	for i := 0; i < n; i++ {
		if p.IsNull(i) {
			cb.Append(geovec.Coord{})
			continue
		}
		before := cb.Len()
		fn(cb, p.coords.Slice(i, 1))
		if got := cb.Len() - before; got != 1 {
			return nil, fmt.Errorf("%w: point transform produced %d coordinates", geovec.ErrStructuralMismatch, got)
		}
	}
	return &Point{base{cb.Build(), p.validity, p.meta}}, nil
}
