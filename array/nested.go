package array

import (
	"fmt"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/buffer"
	"github.com/twpayne/go-geom"
)

// validate checks that each offsets level addresses exactly the runs of the
// level below it, that the innermost level addresses the coordinate buffer
// and that the validity bitmap has one bit per geometry.
func validate(typ geovec.Type, coords *buffer.Coords, levels []*buffer.Offsets, validity *buffer.Validity) error {
	if coords == nil {
		return fmt.Errorf("%w: %s: missing coordinate buffer", geovec.ErrStructuralMismatch, typ)
	}
	for k, o := range levels {
		if o == nil {
			return fmt.Errorf("%w: %s: missing offsets at level %d", geovec.ErrStructuralMismatch, typ, k)
		}
	}
	childLen := coords.Len()
	for k := len(levels) - 1; k >= 0; k-- {
		if end := levels[k].End(); end != childLen {
			return fmt.Errorf("%w: %s: offsets at level %d end at %d but address %d children", geovec.ErrStructuralMismatch, typ, k, end, childLen)
		}
		childLen = levels[k].Len()
	}
	if validity != nil && validity.Len() != childLen {
		return fmt.Errorf("%w: %s: validity has %d entries for %d geometries", geovec.ErrStructuralMismatch, typ, validity.Len(), childLen)
	}
	return nil
}

// rebuild walks levels from the outermost inward, handing each innermost
// run of a valid geometry to fn, and returns fresh coordinates and zero-based
// offsets for every level.
func rebuild(coords *buffer.Coords, levels []*buffer.Offsets, validity *buffer.Validity, fn SeqFunc) (*buffer.Coords, []*buffer.Offsets) {
	cb := buffer.NewCoordBuilder(coords.Dimension(), coords.Len())
	builders := make([]*buffer.OffsetsBuilder, len(levels))
	for k, o := range levels {
		builders[k] = buffer.NewOffsetsBuilder(o.Len())
	}
	inner := len(levels) - 1
	var walk func(level, i int, valid bool)
	walk = func(level, i int, valid bool) {
		start, end := levels[level].Bounds(i)
		if level == inner {
			if valid {
				fn(cb, coords.Slice(start, end-start))
			}
			builders[level].Close(cb.Len())
			return
		}
		if valid {
			for j := start; j < end; j++ {
				walk(level+1, j, true)
			}
		}
		builders[level].Close(builders[level+1].Len())
	}
	for i, n := 0, levels[0].Len(); i < n; i++ {
		walk(0, i, validity.IsValid(i))
	}
	offsets := make([]*buffer.Offsets, len(builders))
	for k, b := range builders {
		offsets[k] = b.Build()
	}
	return cb.Build(), offsets
}

func lineString(coords *buffer.Coords, o *buffer.Offsets, i int) *geom.LineString {
	start, end := o.Bounds(i)
	return geom.NewLineStringFlat(coords.Dimension().Layout(), coords.Flat(start, end))
}

// runs returns the coordinates addressed by runs [start, end) of o together
// with go-geom ends for them, which count flat values from the first
// coordinate of run start.
func runs(coords *buffer.Coords, o *buffer.Offsets, start, end int) ([]float64, []int) {
	values := o.Values()
	first := values[start]
	stride := coords.Dimension().Size()
	ends := make([]int, 0, end-start)
	for k := start + 1; k <= end; k++ {
		ends = append(ends, int(values[k]-first)*stride)
	}
	return coords.Flat(int(first), int(values[end])), ends
}

func polygon(coords *buffer.Coords, rings *buffer.Offsets, start, end int) *geom.Polygon {
	flat, ends := runs(coords, rings, start, end)
	return geom.NewPolygonFlat(coords.Dimension().Layout(), flat, ends)
}
