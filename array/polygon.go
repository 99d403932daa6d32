package array

import (
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

// Polygon stores each geometry as a run of rings, the first being the
// exterior ring.
type Polygon struct {
	base
	geoms *buffer.Offsets
	rings *buffer.Offsets
}

var _ Array = (*Polygon)(nil)

func NewPolygon(coords *buffer.Coords, geoms, rings *buffer.Offsets, validity *buffer.Validity, meta *geovec.Metadata) (*Polygon, error) {
	if err := validate(geovec.PolygonType, coords, []*buffer.Offsets{geoms, rings}, validity); err != nil {
		return nil, err
	}
	return &Polygon{newBase(coords, validity, meta), geoms, rings}, nil
}

func (*Polygon) Type() geovec.Type              { return geovec.PolygonType }
func (*Polygon) Kind() SeqKind                  { return Lines }
func (p *Polygon) Len() int                     { return p.geoms.Len() }
func (p *Polygon) GeomOffsets() *buffer.Offsets { return p.geoms }
func (p *Polygon) RingOffsets() *buffer.Offsets { return p.rings }

func (p *Polygon) Levels() []*buffer.Offsets {
	return []*buffer.Offsets{p.geoms, p.rings}
}

func (p *Polygon) Value(i int) geom.T {
	if p.IsNull(i) {
		return nil
	}
	start, end := p.geoms.Bounds(i)
	return polygon(p.coords, p.rings, start, end)
}

func (p *Polygon) Slice(start, n int) Array {
	return &Polygon{base{p.coords, p.validity.Slice(start, n), p.meta}, p.geoms.Slice(start, n), p.rings}
}

func (p *Polygon) WithMetadata(meta *geovec.Metadata) Array {
	return &Polygon{newBase(p.coords, p.validity, meta), p.geoms, p.rings}
}

func (p *Polygon) Map(fn SeqFunc) (Array, error) {
	coords, levels := rebuild(p.coords, p.Levels(), p.validity, fn)
	return &Polygon{base{coords, p.validity, p.meta}, levels[0], levels[1]}, nil
}
