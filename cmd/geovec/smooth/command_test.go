package smooth

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/arrowio"
	"github.com/brimdata/geovec/buffer"
	"github.com/brimdata/geovec/chunked"
	"github.com/brimdata/geovec/cmd/geovec/root"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func parseCommand(t *testing.T, args ...string) *Command {
	fs := flag.NewFlagSet("smooth", flag.ContinueOnError)
	cmd, err := newCommand(&root.Command{}, fs)
	require.NoError(t, err)
	require.NoError(t, fs.Parse(args))
	return cmd.(*Command)
}

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "smooth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestConfigPrecedence(t *testing.T) {
	conf, err := parseCommand(t).config()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), conf)

	path := writeConfig(t, "iterations: 4\nworkers: 2\ncompression: lz4\n")
	conf, err = parseCommand(t, "-config", path).config()
	require.NoError(t, err)
	require.Equal(t, Config{Iterations: 4, Workers: 2, Compression: arrowio.CompressionLZ4}, conf)

	conf, err = parseCommand(t, "-n", "7", "-config", path, "-compress", "zstd").config()
	require.NoError(t, err)
	require.Equal(t, Config{Iterations: 7, Workers: 2, Compression: arrowio.CompressionZstd}, conf)

	_, err = parseCommand(t, "-n", "4294967296").config()
	require.Error(t, err)
	conf, err = parseCommand(t, "-n", "4294967295").config()
	require.NoError(t, err)
	require.Equal(t, uint32(4294967295), conf.Iterations)
}

func TestLoadConfigErrors(t *testing.T) {
	conf := DefaultConfig()
	require.Error(t, LoadConfig(writeConfig(t, "iterashuns: 3\n"), &conf))
	require.Error(t, LoadConfig(writeConfig(t, "compression: gzip\n"), &conf))
	require.NoError(t, LoadConfig(writeConfig(t, ""), &conf))
	require.Equal(t, DefaultConfig(), conf)
}

func TestSmoothFile(t *testing.T) {
	dir := t.TempDir()
	coords, err := buffer.NewCoords([]float64{0, 0, 1, 0, 1, 1, 0, 0, 2, 0, 2, 2, 0, 2, 0, 0}, geovec.XY)
	require.NoError(t, err)
	geoms, err := buffer.NewOffsets([]int32{0, 3, 3, 8}, 8)
	require.NoError(t, err)
	meta := geovec.NewMetadataWithCRS(geovec.CRS(`"EPSG:3857"`))
	a, err := array.NewLineString(coords, geoms, buffer.ValidityFromBools([]bool{true, false, true}), meta)
	require.NoError(t, err)
	in, err := chunked.New(a, a.Slice(2, 1), a.Slice(0, 2))
	require.NoError(t, err)

	inPath := filepath.Join(dir, "in.arrow")
	f, err := os.Create(inPath)
	require.NoError(t, err)
	w := arrowio.NewWriter(f, arrowio.WriterOpts{})
	require.NoError(t, w.WriteChunked(in))
	require.NoError(t, w.Close())

	outPath := filepath.Join(dir, "out.arrow")
	err = root.Geovec.ExecRoot([]string{"-log.path", "/dev/null", "smooth", "-n", "2", "-workers", "2", "-compress", "zstd", "-o", outPath, inPath})
	require.NoError(t, err)

	r, err := os.Open(outPath)
	require.NoError(t, err)
	defer r.Close()
	out, err := arrowio.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, in.ChunkLens(), out.ChunkLens())
	require.True(t, meta.Equal(out.Metadata()))
	require.Equal(t, 12, out.Value(0).(*geom.LineString).NumCoords())
	require.Nil(t, out.Value(1))
	require.Equal(t, 17, out.Value(2).(*geom.LineString).NumCoords())
	require.Equal(t, out.Value(2), out.Value(3))
	require.Equal(t, out.Value(0), out.Value(4))
}

func TestSmoothRejectsPoints(t *testing.T) {
	dir := t.TempDir()
	coords, err := buffer.NewCoords([]float64{0, 0, 1, 1}, geovec.XY)
	require.NoError(t, err)
	p, err := array.NewPoint(coords, nil, nil)
	require.NoError(t, err)
	in, err := chunked.New(p)
	require.NoError(t, err)
	inPath := filepath.Join(dir, "points.arrow")
	f, err := os.Create(inPath)
	require.NoError(t, err)
	w := arrowio.NewWriter(f, arrowio.WriterOpts{})
	require.NoError(t, w.WriteChunked(in))
	require.NoError(t, w.Close())

	err = root.Geovec.ExecRoot([]string{"-log.path", "/dev/null", "smooth", "-o", filepath.Join(dir, "out.arrow"), inPath})
	require.ErrorIs(t, err, geovec.ErrUnsupportedVariant)
}

func writeStream(t *testing.T, path string, c *chunked.Array) {
	f, err := os.Create(path)
	require.NoError(t, err)
	w := arrowio.NewWriter(f, arrowio.WriterOpts{})
	require.NoError(t, w.WriteChunked(c))
	require.NoError(t, w.Close())
}

func TestSmoothEmptyStream(t *testing.T) {
	dir := t.TempDir()
	meta := geovec.NewMetadataWithCRS(geovec.CRS(`"EPSG:4326"`))
	inPath := filepath.Join(dir, "empty.arrow")
	writeStream(t, inPath, chunked.NewEmpty(geovec.PolygonType, geovec.XY, meta))

	outPath := filepath.Join(dir, "out.arrow")
	err := root.Geovec.ExecRoot([]string{"-log.path", "/dev/null", "smooth", "-o", outPath, inPath})
	require.NoError(t, err)
	r, err := os.Open(outPath)
	require.NoError(t, err)
	defer r.Close()
	out, err := arrowio.ReadAll(r)
	require.NoError(t, err)
	require.Zero(t, out.Len())
	require.Equal(t, geovec.PolygonType, out.Type())
	require.True(t, meta.Equal(out.Metadata()))

	pointsPath := filepath.Join(dir, "points.arrow")
	writeStream(t, pointsPath, chunked.NewEmpty(geovec.PointType, geovec.XY, nil))
	err = root.Geovec.ExecRoot([]string{"-log.path", "/dev/null", "smooth", "-o", filepath.Join(dir, "points-out.arrow"), pointsPath})
	require.ErrorIs(t, err, geovec.ErrUnsupportedVariant)
}
