package array

import (
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

type MultiLineString struct {
	base
	geoms *buffer.Offsets
	lines *buffer.Offsets
}

var _ Array = (*MultiLineString)(nil)

func NewMultiLineString(coords *buffer.Coords, geoms, lines *buffer.Offsets, validity *buffer.Validity, meta *geovec.Metadata) (*MultiLineString, error) {
	if err := validate(geovec.MultiLineStringType, coords, []*buffer.Offsets{geoms, lines}, validity); err != nil {
		return nil, err
	}
	return &MultiLineString{newBase(coords, validity, meta), geoms, lines}, nil
}

func (*MultiLineString) Type() geovec.Type              { return geovec.MultiLineStringType }
func (*MultiLineString) Kind() SeqKind                  { return Lines }
func (m *MultiLineString) Len() int                     { return m.geoms.Len() }
func (m *MultiLineString) GeomOffsets() *buffer.Offsets { return m.geoms }
func (m *MultiLineString) LineOffsets() *buffer.Offsets { return m.lines }

func (m *MultiLineString) Levels() []*buffer.Offsets {
	return []*buffer.Offsets{m.geoms, m.lines}
}

func (m *MultiLineString) Value(i int) geom.T {
	if m.IsNull(i) {
		return nil
	}
	start, end := m.geoms.Bounds(i)
	flat, ends := runs(m.coords, m.lines, start, end)
	return geom.NewMultiLineStringFlat(m.Dimension().Layout(), flat, ends)
}

func (m *MultiLineString) Slice(start, n int) Array {
	return &MultiLineString{base{m.coords, m.validity.Slice(start, n), m.meta}, m.geoms.Slice(start, n), m.lines}
}

func (m *MultiLineString) WithMetadata(meta *geovec.Metadata) Array {
	return &MultiLineString{newBase(m.coords, m.validity, meta), m.geoms, m.lines}
}

func (m *MultiLineString) Map(fn SeqFunc) (Array, error) {
	coords, levels := rebuild(m.coords, m.Levels(), m.validity, fn)
	return &MultiLineString{base{coords, m.validity, m.meta}, levels[0], levels[1]}, nil
}
