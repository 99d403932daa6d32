package array

import (
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

type MultiPolygon struct {
	base
	geoms    *buffer.Offsets
	polygons *buffer.Offsets
	rings    *buffer.Offsets
}

var _ Array = (*MultiPolygon)(nil)

func NewMultiPolygon(coords *buffer.Coords, geoms, polygons, rings *buffer.Offsets, validity *buffer.Validity, meta *geovec.Metadata) (*MultiPolygon, error) {
	if err := validate(geovec.MultiPolygonType, coords, []*buffer.Offsets{geoms, polygons, rings}, validity); err != nil {
		return nil, err
	}
	return &MultiPolygon{newBase(coords, validity, meta), geoms, polygons, rings}, nil
}

func (*MultiPolygon) Type() geovec.Type                 { return geovec.MultiPolygonType }
func (*MultiPolygon) Kind() SeqKind                     { return Lines }
func (m *MultiPolygon) Len() int                        { return m.geoms.Len() }
func (m *MultiPolygon) GeomOffsets() *buffer.Offsets    { return m.geoms }
func (m *MultiPolygon) PolygonOffsets() *buffer.Offsets { return m.polygons }
func (m *MultiPolygon) RingOffsets() *buffer.Offsets    { return m.rings }

func (m *MultiPolygon) Levels() []*buffer.Offsets {
	return []*buffer.Offsets{m.geoms, m.polygons, m.rings}
}

// Value returns geometry i as a go-geom multipolygon whose endss count flat
// values from the geometry's first coordinate.
func (m *MultiPolygon) Value(i int) geom.T {
	if m.IsNull(i) {
		return nil
	}
	start, end := m.geoms.Bounds(i)
	polygons := m.polygons.Values()
	rings := m.rings.Values()
	first := rings[polygons[start]]
	stride := m.Dimension().Size()
	endss := make([][]int, 0, end-start)
	for k := start; k < end; k++ {
		ends := make([]int, 0, polygons[k+1]-polygons[k])
		for r := polygons[k] + 1; r <= polygons[k+1]; r++ {
			ends = append(ends, int(rings[r]-first)*stride)
		}
		endss = append(endss, ends)
	}
	flat := m.coords.Flat(int(first), int(rings[polygons[end]]))
	return geom.NewMultiPolygonFlat(m.Dimension().Layout(), flat, endss)
}

func (m *MultiPolygon) Slice(start, n int) Array {
	return &MultiPolygon{base{m.coords, m.validity.Slice(start, n), m.meta}, m.geoms.Slice(start, n), m.polygons, m.rings}
}

func (m *MultiPolygon) WithMetadata(meta *geovec.Metadata) Array {
	return &MultiPolygon{newBase(m.coords, m.validity, meta), m.geoms, m.polygons, m.rings}
}

func (m *MultiPolygon) Map(fn SeqFunc) (Array, error) {
	coords, levels := rebuild(m.coords, m.Levels(), m.validity, fn)
	return &MultiPolygon{base{coords, m.validity, m.meta}, levels[0], levels[1], levels[2]}, nil
}
