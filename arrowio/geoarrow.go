// Package arrowio converts geometry arrays to and from Apache Arrow arrays in
// the GeoArrow native encoding and reads and writes them as Arrow IPC
// streams.
package arrowio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v11/arrow"
	arrowarray "github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/buffer"
)

var (
	ErrUnsupportedType = errors.New("arrowio: unsupported type")
	ErrNoGeometry      = errors.New("arrowio: no geometry column")
)

const (
	extensionNameKey     = "ARROW:extension:name"
	extensionMetadataKey = "ARROW:extension:metadata"
	extensionPrefix      = "geoarrow."

	// ColumnName is the name of the geometry column written by Writer.
	ColumnName = "geometry"
)

// ToArrow returns a as an Arrow array together with the field describing it.
// Coordinates are a FixedSizeList<float64> per tuple and each offsets level
// becomes a List with int32 offsets.  The Arrow buffers alias the buffers of
// a.
func ToArrow(a array.Array) (arrow.Array, arrow.Field, error) {
	meta, err := a.Metadata().Serialize()
	if err != nil {
		return nil, arrow.Field{}, err
	}
	levels := a.Levels()
	var validity *buffer.Validity
	if len(levels) == 0 {
		validity = a.Validity()
	}
	data := coordsData(a.Coords(), validity)
	for k := len(levels) - 1; k >= 0; k-- {
		var v *buffer.Validity
		if k == 0 {
			v = a.Validity()
		}
		child := data
		data = listData(levels[k], child, v)
		child.Release()
	}
	field := arrow.Field{
		Name:     ColumnName,
		Type:     data.DataType(),
		Nullable: true,
		Metadata: arrow.NewMetadata(
			[]string{extensionNameKey, extensionMetadataKey},
			[]string{extensionPrefix + a.Type().String(), meta},
		),
	}
	arr := arrowarray.MakeFromData(data)
	data.Release()
	return arr, field, nil
}

func coordsData(c *buffer.Coords, validity *buffer.Validity) *arrowarray.Data {
	dim := c.Dimension().Size()
	values := arrowarray.NewData(
		arrow.PrimitiveTypes.Float64,
		c.Len()*dim,
		[]*memory.Buffer{nil, memory.NewBufferBytes(arrow.Float64Traits.CastToBytes(c.Values()))},
		nil, 0, 0)
	defer values.Release()
	return arrowarray.NewData(
		arrow.FixedSizeListOf(int32(dim), arrow.PrimitiveTypes.Float64),
		c.Len(),
		[]*memory.Buffer{validityBuffer(validity)},
		[]arrow.ArrayData{values},
		validity.NullCount(), 0)
}

func listData(o *buffer.Offsets, child *arrowarray.Data, validity *buffer.Validity) *arrowarray.Data {
	return arrowarray.NewData(
		arrow.ListOf(child.DataType()),
		o.Len(),
		[]*memory.Buffer{
			validityBuffer(validity),
			memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(o.Values())),
		},
		[]arrow.ArrayData{child},
		validity.NullCount(), 0)
}

func validityBuffer(v *buffer.Validity) *memory.Buffer {
	if v.NullCount() == 0 {
		return nil
	}
	return memory.NewBufferBytes(v.Bytes())
}

// TypeOf returns the geometry type named by the extension metadata of field.
func TypeOf(field arrow.Field) (geovec.Type, error) {
	name, ok := lookup(field.Metadata, extensionNameKey)
	if !ok {
		return geovec.Unknown, fmt.Errorf("%w: field %q has no extension name", ErrUnsupportedType, field.Name)
	}
	if strings.HasPrefix(name, extensionPrefix) {
		if typ, ok := geovec.LookupType(strings.TrimPrefix(name, extensionPrefix)); ok {
			return typ, nil
		}
	}
	return geovec.Unknown, fmt.Errorf("%w: extension %q", ErrUnsupportedType, name)
}

func lookup(md arrow.Metadata, key string) (string, bool) {
	if k := md.FindKey(key); k >= 0 {
		return md.Values()[k], true
	}
	return "", false
}

func metadataOf(field arrow.Field) (*geovec.Metadata, error) {
	s, ok := lookup(field.Metadata, extensionMetadataKey)
	if !ok {
		return geovec.NewMetadata(), nil
	}
	return geovec.DeserializeMetadata(s)
}

// Describe returns the geometry type, dimension and metadata of a GeoArrow
// column from its field alone, so a column with no data keeps its type.
func Describe(field arrow.Field) (geovec.Type, geovec.Dimension, *geovec.Metadata, error) {
	typ, err := TypeOf(field)
	if err != nil {
		return geovec.Unknown, 0, nil, err
	}
	dt := field.Type
	for k := 0; k < typ.Depth(); k++ {
		list, ok := dt.(*arrow.ListType)
		if !ok {
			return geovec.Unknown, 0, nil, fmt.Errorf("%w: %s level %d is %s, not a list", ErrUnsupportedType, typ, k, dt)
		}
		dt = list.Elem()
	}
	var dim geovec.Dimension
	switch dt := dt.(type) {
	case *arrow.FixedSizeListType:
		dim = geovec.Dimension(dt.Len())
	case *arrow.StructType:
		dim = geovec.Dimension(len(dt.Fields()))
	default:
		return geovec.Unknown, 0, nil, fmt.Errorf("%w: coordinates are %s", ErrUnsupportedType, dt)
	}
	if !dim.Valid() {
		return geovec.Unknown, 0, nil, fmt.Errorf("%w: %d values per coordinate", geovec.ErrDimensionMismatch, int(dim))
	}
	meta, err := metadataOf(field)
	if err != nil {
		return geovec.Unknown, 0, nil, err
	}
	return typ, dim, meta, nil
}

// FromArrow converts arr, described by field, into a geometry array.
// Interleaved coordinates are used in place.  Separated coordinates
// (Struct<x, y[, z]>) are interleaved into a new buffer.  Sliced Arrow arrays
// are accepted and offsets that do not start at zero are rebased.
func FromArrow(arr arrow.Array, field arrow.Field) (array.Array, error) {
	typ, err := TypeOf(field)
	if err != nil {
		return nil, err
	}
	meta, err := metadataOf(field)
	if err != nil {
		return nil, err
	}
	validity, err := validityOf(arr)
	if err != nil {
		return nil, err
	}
	var levels []*buffer.Offsets
	for k := 0; k < typ.Depth(); k++ {
		list, ok := arr.(*arrowarray.List)
		if !ok {
			return nil, fmt.Errorf("%w: %s level %d is %s, not a list", ErrUnsupportedType, typ, k, arr.DataType())
		}
		o, child, err := rebase(list)
		if err != nil {
			return nil, err
		}
		levels = append(levels, o)
		arr = child
	}
	coords, err := coordsOf(arr)
	if err != nil {
		return nil, err
	}
	return array.New(typ, coords, levels, validity, meta)
}

// rebase returns zero-based offsets for list and the slice of its child
// they address.
func rebase(list *arrowarray.List) (*buffer.Offsets, arrow.Array, error) {
	n := list.Len()
	values := make([]int32, n+1)
	var base int64
	if n > 0 {
		base, _ = list.ValueOffsets(0)
	}
	for i := 0; i < n; i++ {
		start, end := list.ValueOffsets(i)
		values[i] = int32(start - base)
		values[i+1] = int32(end - base)
	}
	end := base + int64(values[n])
	child := list.ListValues()
	if base != 0 || end != int64(child.Len()) {
		child = arrowarray.NewSlice(child, base, end)
	}
	o, err := buffer.NewOffsets(values, child.Len())
	if err != nil {
		return nil, nil, err
	}
	return o, child, nil
}

func coordsOf(arr arrow.Array) (*buffer.Coords, error) {
	switch arr := arr.(type) {
	case *arrowarray.FixedSizeList:
		floats, ok := arr.ListValues().(*arrowarray.Float64)
		if !ok {
			return nil, fmt.Errorf("%w: coordinate values are %s", ErrUnsupportedType, arr.ListValues().DataType())
		}
		dim := geovec.Dimension(arr.DataType().(*arrow.FixedSizeListType).Len())
		if !dim.Valid() {
			return nil, fmt.Errorf("%w: %d values per coordinate", geovec.ErrDimensionMismatch, int(dim))
		}
		values := floats.Float64Values()
		if n := arr.Len() * dim.Size(); len(values) != n {
			off := arr.Data().Offset() * dim.Size()
			values = values[off : off+n]
		}
		return buffer.NewCoords(values, dim)
	case *arrowarray.Struct:
		var cols [][]float64
		for k := 0; k < arr.NumField(); k++ {
			f, ok := arr.Field(k).(*arrowarray.Float64)
			if !ok {
				return nil, fmt.Errorf("%w: coordinate field %d is %s", ErrUnsupportedType, k, arr.Field(k).DataType())
			}
			values := f.Float64Values()
			if len(values) != arr.Len() {
				off := arr.Data().Offset()
				values = values[off : off+arr.Len()]
			}
			cols = append(cols, values)
		}
		switch len(cols) {
		case 2:
			return buffer.NewSeparatedCoords(cols[0], cols[1], nil)
		case 3:
			return buffer.NewSeparatedCoords(cols[0], cols[1], cols[2])
		}
		return nil, fmt.Errorf("%w: %d coordinate fields", geovec.ErrDimensionMismatch, len(cols))
	}
	return nil, fmt.Errorf("%w: coordinates are %s", ErrUnsupportedType, arr.DataType())
}

func validityOf(arr arrow.Array) (*buffer.Validity, error) {
	if arr.NullN() == 0 {
		return nil, nil
	}
	off := arr.Data().Offset()
	v, err := buffer.NewValidity(arr.NullBitmapBytes(), off+arr.Len())
	if err != nil {
		return nil, err
	}
	return v.Slice(off, arr.Len()), nil
}
