package arrowio_test

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v11/arrow"
	arrowarray "github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/arrowio"
	"github.com/brimdata/geovec/buffer"
	"github.com/brimdata/geovec/chunked"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func coords(t *testing.T, dim geovec.Dimension, values ...float64) *buffer.Coords {
	c, err := buffer.NewCoords(values, dim)
	require.NoError(t, err)
	return c
}

func offsets(t *testing.T, childLen int, values ...int32) *buffer.Offsets {
	o, err := buffer.NewOffsets(values, childLen)
	require.NoError(t, err)
	return o
}

// fixtures returns one array of every variant, each with a null and a CRS.
func fixtures(t *testing.T) []array.Array {
	meta := geovec.NewMetadataWithCRS(geovec.CRS(`{"id":{"authority":"EPSG","code":4326}}`))
	nulls := func(n, null int) *buffer.Validity {
		valid := make([]bool, n)
		for k := range valid {
			valid[k] = k != null
		}
		return buffer.ValidityFromBools(valid)
	}
	square := []float64{0, 0, 2, 0, 2, 2, 0, 2, 0, 0}
	c := coords(t, geovec.XY, square...)
	var out []array.Array
	add := func(a array.Array, err error) {
		require.NoError(t, err)
		out = append(out, a)
	}
	add(array.NewPoint(coords(t, geovec.XYZ, 1, 2, 3, 4, 5, 6, 7, 8, 9), nulls(3, 1), meta))
	add(array.NewLineString(c, offsets(t, 5, 0, 2, 2, 5), nulls(3, 1), meta))
	add(array.NewPolygon(c, offsets(t, 1, 0, 0, 1), offsets(t, 5, 0, 5), nulls(2, 0), meta))
	add(array.NewMultiPoint(c, offsets(t, 5, 0, 3, 5, 5), nulls(3, 2), meta))
	add(array.NewMultiLineString(c, offsets(t, 2, 0, 2, 2), offsets(t, 5, 0, 2, 5), nulls(2, 1), meta))
	add(array.NewMultiPolygon(c, offsets(t, 1, 0, 1, 1), offsets(t, 1, 0, 1), offsets(t, 5, 0, 5), nulls(2, 1), meta))
	return out
}

func requireSameValues(t *testing.T, expected, actual array.Array) {
	require.Equal(t, expected.Type(), actual.Type())
	require.Equal(t, expected.Dimension(), actual.Dimension())
	require.Equal(t, expected.Len(), actual.Len())
	for i := 0; i < expected.Len(); i++ {
		require.Equal(t, expected.Value(i), actual.Value(i), "geometry %d", i)
	}
	require.True(t, expected.Metadata().Equal(actual.Metadata()))
}

func TestRoundTrip(t *testing.T) {
	for _, a := range fixtures(t) {
		t.Run(a.Type().String(), func(t *testing.T) {
			arr, field, err := arrowio.ToArrow(a)
			require.NoError(t, err)
			defer arr.Release()
			require.Equal(t, a.Len(), arr.Len())
			require.Equal(t, a.NullCount(), arr.NullN())
			typ, err := arrowio.TypeOf(field)
			require.NoError(t, err)
			require.Equal(t, a.Type(), typ)

			b, err := arrowio.FromArrow(arr, field)
			require.NoError(t, err)
			requireSameValues(t, a, b)
			require.Equal(t, a.Coords().Values(), b.Coords().Values())
		})
	}
}

func TestToArrowLayout(t *testing.T) {
	a := fixtures(t)[2]
	arr, field, err := arrowio.ToArrow(a)
	require.NoError(t, err)
	defer arr.Release()
	expected := arrow.ListOf(arrow.ListOf(arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Float64)))
	require.True(t, arrow.TypeEqual(expected, arr.DataType()))
	require.Equal(t, arrowio.ColumnName, field.Name)
	k := field.Metadata.FindKey("ARROW:extension:name")
	require.GreaterOrEqual(t, k, 0)
	require.Equal(t, "geoarrow.polygon", field.Metadata.Values()[k])

	// Egress aliases the coordinate buffer.
	rings := arr.(*arrowarray.List).ListValues().(*arrowarray.List)
	floats := rings.ListValues().(*arrowarray.FixedSizeList).ListValues().(*arrowarray.Float64)
	require.Same(t, &a.Coords().Values()[0], &floats.Float64Values()[0])
}

func TestFromSlicedArrow(t *testing.T) {
	for _, a := range fixtures(t) {
		t.Run(a.Type().String(), func(t *testing.T) {
			arr, field, err := arrowio.ToArrow(a)
			require.NoError(t, err)
			defer arr.Release()
			sliced := arrowarray.NewSlice(arr, 1, int64(arr.Len()))
			defer sliced.Release()
			b, err := arrowio.FromArrow(sliced, field)
			require.NoError(t, err)
			requireSameValues(t, a.Slice(1, a.Len()-1), b)
			for _, o := range b.Levels() {
				require.Zero(t, o.Start())
			}
		})
	}
}

func TestFromSlicedGeometryArray(t *testing.T) {
	a := fixtures(t)[1].Slice(1, 2)
	arr, field, err := arrowio.ToArrow(a)
	require.NoError(t, err)
	defer arr.Release()
	b, err := arrowio.FromArrow(arr, field)
	require.NoError(t, err)
	requireSameValues(t, a, b)
}

func TestSeparatedCoords(t *testing.T) {
	mem := memory.NewGoAllocator()
	column := func(values ...float64) arrow.ArrayData {
		b := arrowarray.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(values, nil)
		return b.NewFloat64Array().Data()
	}
	structType := arrow.StructOf(
		arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Float64},
		arrow.Field{Name: "y", Type: arrow.PrimitiveTypes.Float64},
	)
	points := arrowarray.NewData(structType, 3, []*memory.Buffer{nil},
		[]arrow.ArrayData{column(0, 1, 5), column(10, 11, 15)}, 0, 0)
	lines := arrowarray.NewData(arrow.ListOf(structType), 2,
		[]*memory.Buffer{nil, memory.NewBufferBytes(arrow.Int32Traits.CastToBytes([]int32{0, 2, 3}))},
		[]arrow.ArrayData{points}, 0, 0)
	arr := arrowarray.MakeFromData(lines)
	defer arr.Release()
	field := arrow.Field{
		Name:     "geom",
		Type:     arr.DataType(),
		Metadata: arrow.NewMetadata([]string{"ARROW:extension:name"}, []string{"geoarrow.linestring"}),
	}
	a, err := arrowio.FromArrow(arr, field)
	require.NoError(t, err)
	require.Equal(t, geovec.LineStringType, a.Type())
	require.Equal(t, []float64{0, 10, 1, 11, 5, 15}, a.Coords().Values())
	require.Equal(t, geom.NewLineStringFlat(geom.XY, []float64{5, 15}), a.Value(1))
	require.True(t, a.Metadata().Equal(geovec.NewMetadata()))
}

func TestUnsupported(t *testing.T) {
	a := fixtures(t)[1]
	arr, field, err := arrowio.ToArrow(a)
	require.NoError(t, err)
	defer arr.Release()

	field.Metadata = arrow.NewMetadata([]string{"ARROW:extension:name"}, []string{"geoarrow.wkb"})
	_, err = arrowio.FromArrow(arr, field)
	require.ErrorIs(t, err, arrowio.ErrUnsupportedType)

	field.Metadata = arrow.Metadata{}
	_, err = arrowio.FromArrow(arr, field)
	require.ErrorIs(t, err, arrowio.ErrUnsupportedType)

	// A linestring column claiming to be a polygon column is one list
	// level short.
	field.Metadata = arrow.NewMetadata([]string{"ARROW:extension:name"}, []string{"geoarrow.polygon"})
	_, err = arrowio.FromArrow(arr, field)
	require.ErrorIs(t, err, arrowio.ErrUnsupportedType)
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

func TestIPCRoundTrip(t *testing.T) {
	for _, compression := range []arrowio.Compression{arrowio.CompressionNone, arrowio.CompressionLZ4, arrowio.CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			line := fixtures(t)[1]
			c, err := chunked.New(line, line.Slice(0, 0), line.Slice(1, 2), line)
			require.NoError(t, err)

			var buf bytes.Buffer
			w := arrowio.NewWriter(nopCloser{&buf}, arrowio.WriterOpts{Compression: compression})
			require.NoError(t, w.WriteChunked(c))
			require.NoError(t, w.Close())

			out, err := arrowio.ReadAll(&buf)
			require.NoError(t, err)
			require.Equal(t, c.ChunkLens(), out.ChunkLens())
			require.Equal(t, c.NullCount(), out.NullCount())
			require.True(t, c.Metadata().Equal(out.Metadata()))
			for i := 0; i < c.Len(); i++ {
				require.Equal(t, c.Value(i), out.Value(i))
			}
		})
	}
}

func TestWriterRejectsMixedChunks(t *testing.T) {
	fx := fixtures(t)
	var buf bytes.Buffer
	w := arrowio.NewWriter(nopCloser{&buf}, arrowio.WriterOpts{})
	require.NoError(t, w.Write(fx[1]))
	require.ErrorIs(t, w.Write(fx[2]), geovec.ErrChunkVariantMismatch)
	require.ErrorIs(t, w.Write(fx[1].WithMetadata(nil)), geovec.ErrChunkMetadataMismatch)
	require.NoError(t, w.Close())
}

func TestEmptyStreamKeepsSchema(t *testing.T) {
	meta := geovec.NewMetadataWithCRS(geovec.CRS(`"EPSG:4326"`))
	var buf bytes.Buffer
	w := arrowio.NewWriter(nopCloser{&buf}, arrowio.WriterOpts{})
	require.NoError(t, w.WriteChunked(chunked.NewEmpty(geovec.PolygonType, geovec.XYZ, meta)))
	require.NoError(t, w.Close())
	require.NotZero(t, buf.Len())

	out, err := arrowio.ReadAll(&buf)
	require.NoError(t, err)
	require.Zero(t, out.NumChunks())
	require.Equal(t, geovec.PolygonType, out.Type())
	require.Equal(t, geovec.XYZ, out.Dimension())
	require.True(t, meta.Equal(out.Metadata()))
}

func TestDescribe(t *testing.T) {
	for _, a := range fixtures(t) {
		arr, field, err := arrowio.ToArrow(a)
		require.NoError(t, err)
		arr.Release()
		typ, dim, meta, err := arrowio.Describe(field)
		require.NoError(t, err)
		require.Equal(t, a.Type(), typ)
		require.Equal(t, a.Dimension(), dim)
		require.True(t, a.Metadata().Equal(meta))
	}
	field := arrow.Field{
		Name:     "geom",
		Type:     arrow.ListOf(arrow.PrimitiveTypes.Float64),
		Metadata: arrow.NewMetadata([]string{"ARROW:extension:name"}, []string{"geoarrow.linestring"}),
	}
	_, _, _, err := arrowio.Describe(field)
	require.ErrorIs(t, err, arrowio.ErrUnsupportedType)
}

func TestCompressionText(t *testing.T) {
	var c arrowio.Compression
	require.NoError(t, c.UnmarshalText([]byte("zstd")))
	require.Equal(t, arrowio.CompressionZstd, c)
	require.NoError(t, c.UnmarshalText([]byte("none")))
	require.Equal(t, arrowio.CompressionNone, c)
	require.Error(t, c.UnmarshalText([]byte("gzip")))
}
