package info

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/units"
	"github.com/brimdata/geovec/arrowio"
	"github.com/brimdata/geovec/chunked"
	"github.com/brimdata/geovec/cli"
	"github.com/brimdata/geovec/cmd/geovec/root"
	"github.com/brimdata/geovec/pkg/charm"
	"go.uber.org/zap"
)

var Info = &charm.Spec{
	Name:  "info",
	Usage: "info [flags] file",
	Short: "describe the geometry column of an Arrow IPC stream",
	Long: `
The info command reads an Arrow IPC stream holding a GeoArrow geometry column
and prints its geometry type, coordinate dimension, metadata and the size of
each chunk.  Use "-" to read standard input.`,
	New: newCommand,
}

func init() {
	root.Geovec.Add(Info)
}

type Command struct {
	*root.Command
	chunks bool
}

func newCommand(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.chunks, "chunks", true, "list each chunk")
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("info: must be run with a single file argument")
	}
	r, err := cli.OpenInput(args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	a, err := arrowio.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	c.Logger.Debug("read stream", zap.String("path", args[0]), zap.Int("chunks", a.NumChunks()))
	return Write(os.Stdout, a, c.chunks)
}

// Write prints a summary of a to w and, if chunks is true, one line per
// chunk.
func Write(w io.Writer, a *chunked.Array, chunks bool) error {
	crs := "(none)"
	if len(a.Metadata().CRS) > 0 {
		crs = string(a.Metadata().CRS)
	}
	var ncoords int
	var size int64
	for k := 0; k < a.NumChunks(); k++ {
		coords := a.Chunk(k).Coords()
		ncoords += coords.Len()
		size += int64(len(coords.Values()) * 8)
	}
	_, err := fmt.Fprintf(w, "type:        %s\ndimension:   %s\ncrs:         %s\nedges:       %s\ngeometries:  %d\nnulls:       %d\nchunks:      %d\ncoordinates: %d (%s)\n",
		a.Type(), a.Dimension(), crs, a.Metadata().Edges, a.Len(), a.NullCount(), a.NumChunks(), ncoords, units.Base2Bytes(size))
	if err != nil || !chunks {
		return err
	}
	for k := 0; k < a.NumChunks(); k++ {
		chunk := a.Chunk(k)
		_, err := fmt.Fprintf(w, "chunk %d: %d geometries, %d nulls, %d coordinates\n", k, chunk.Len(), chunk.NullCount(), chunk.Coords().Len())
		if err != nil {
			return err
		}
	}
	return nil
}
