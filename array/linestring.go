package array

import (
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

type LineString struct {
	base
	geoms *buffer.Offsets
}

var _ Array = (*LineString)(nil)

func NewLineString(coords *buffer.Coords, geoms *buffer.Offsets, validity *buffer.Validity, meta *geovec.Metadata) (*LineString, error) {
	if err := validate(geovec.LineStringType, coords, []*buffer.Offsets{geoms}, validity); err != nil {
		return nil, err
	}
	return &LineString{newBase(coords, validity, meta), geoms}, nil
}

func (*LineString) Type() geovec.Type              { return geovec.LineStringType }
func (*LineString) Kind() SeqKind                  { return Lines }
func (l *LineString) Len() int                     { return l.geoms.Len() }
func (l *LineString) GeomOffsets() *buffer.Offsets { return l.geoms }

func (l *LineString) Levels() []*buffer.Offsets {
	return []*buffer.Offsets{l.geoms}
}

func (l *LineString) Value(i int) geom.T {
	if l.IsNull(i) {
		return nil
	}
	return lineString(l.coords, l.geoms, i)
}

func (l *LineString) Slice(start, n int) Array {
	return &LineString{base{l.coords, l.validity.Slice(start, n), l.meta}, l.geoms.Slice(start, n)}
}

func (l *LineString) WithMetadata(meta *geovec.Metadata) Array {
	return &LineString{newBase(l.coords, l.validity, meta), l.geoms}
}

func (l *LineString) Map(fn SeqFunc) (Array, error) {
	coords, levels := rebuild(l.coords, l.Levels(), l.validity, fn)
	return &LineString{base{coords, l.validity, l.meta}, levels[0]}, nil
}
