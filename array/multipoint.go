package array

import (
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

type MultiPoint struct {
	base
	geoms *buffer.Offsets
}

var _ Array = (*MultiPoint)(nil)

func NewMultiPoint(coords *buffer.Coords, geoms *buffer.Offsets, validity *buffer.Validity, meta *geovec.Metadata) (*MultiPoint, error) {
	if err := validate(geovec.MultiPointType, coords, []*buffer.Offsets{geoms}, validity); err != nil {
		return nil, err
	}
	return &MultiPoint{newBase(coords, validity, meta), geoms}, nil
}

func (*MultiPoint) Type() geovec.Type              { return geovec.MultiPointType }
func (*MultiPoint) Kind() SeqKind                  { return Points }
func (m *MultiPoint) Len() int                     { return m.geoms.Len() }
func (m *MultiPoint) GeomOffsets() *buffer.Offsets { return m.geoms }

func (m *MultiPoint) Levels() []*buffer.Offsets {
	return []*buffer.Offsets{m.geoms}
}

func (m *MultiPoint) Value(i int) geom.T {
	if m.IsNull(i) {
		return nil
	}
	start, end := m.geoms.Bounds(i)
	return geom.NewMultiPointFlat(m.Dimension().Layout(), m.coords.Flat(start, end))
}

func (m *MultiPoint) Slice(start, n int) Array {
	return &MultiPoint{base{m.coords, m.validity.Slice(start, n), m.meta}, m.geoms.Slice(start, n)}
}

func (m *MultiPoint) WithMetadata(meta *geovec.Metadata) Array {
	return &MultiPoint{newBase(m.coords, m.validity, meta), m.geoms}
}

// Map hands fn the whole point set of each geometry.
func (m *MultiPoint) Map(fn SeqFunc) (Array, error) {
	coords, levels := rebuild(m.coords, m.Levels(), m.validity, fn)
	return &MultiPoint{base{coords, m.validity, m.meta}, levels[0]}, nil
}
