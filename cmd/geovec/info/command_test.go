package info

import (
	"strings"
	"testing"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/buffer"
	"github.com/brimdata/geovec/chunked"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	coords, err := buffer.NewCoords([]float64{0, 0, 1, 0, 1, 1, 5, 5, 6, 6}, geovec.XY)
	require.NoError(t, err)
	geoms, err := buffer.NewOffsets([]int32{0, 3, 3, 5}, 5)
	require.NoError(t, err)
	meta := geovec.NewMetadataWithCRS(geovec.CRS(`"EPSG:4326"`))
	a, err := array.NewLineString(coords, geoms, buffer.ValidityFromBools([]bool{true, false, true}), meta)
	require.NoError(t, err)
	c, err := chunked.New(a, a.Slice(2, 1))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, Write(&b, c, true))
	expected := `type:        linestring
dimension:   xy
crs:         "EPSG:4326"
edges:       planar
geometries:  4
nulls:       1
chunks:      2
coordinates: 10 (160B)
chunk 0: 3 geometries, 1 nulls, 5 coordinates
chunk 1: 1 geometries, 0 nulls, 5 coordinates
`
	require.Equal(t, expected, b.String())

	b.Reset()
	require.NoError(t, Write(&b, c, false))
	require.NotContains(t, b.String(), "chunk 0")
}
