package smooth

import (
	"errors"
	"flag"
	"fmt"
	"math"

	"github.com/brimdata/geovec/algorithm"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/arrowio"
	"github.com/brimdata/geovec/cli"
	"github.com/brimdata/geovec/cli/outputflags"
	"github.com/brimdata/geovec/cmd/geovec/root"
	"github.com/brimdata/geovec/pkg/charm"
	"go.uber.org/zap"
)

var Smooth = &charm.Spec{
	Name:  "smooth",
	Usage: "smooth [flags] file",
	Short: "smooth lines and rings with Chaikin's algorithm",
	Long: `
The smooth command reads an Arrow IPC stream holding a GeoArrow geometry column
of linestrings, polygons, multilinestrings or multipolygons, applies -n rounds
of Chaikin corner cutting to every line and ring, and writes the result as an
Arrow IPC stream with the same chunk boundaries.  Chunks are smoothed in
parallel by up to -workers goroutines.

Settings may also be read from a YAML file given with -config, e.g.,

    iterations: 3
    workers: 8
    compression: zstd

Flags given explicitly on the command line override the file.`,
	New: newCommand,
}

func init() {
	root.Geovec.Add(Smooth)
}

type Command struct {
	*root.Command
	flags       *flag.FlagSet
	outputFlags outputflags.Flags
	configPath  string
	iterations  uint
	workers     int
}

func newCommand(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command), flags: f}
	def := DefaultConfig()
	f.StringVar(&c.configPath, "config", "", "path of smooth yaml config file")
	f.UintVar(&c.iterations, "n", uint(def.Iterations), "number of smoothing rounds")
	f.IntVar(&c.workers, "workers", def.Workers, "maximum number of chunks smoothed concurrently")
	c.outputFlags.SetFlags(f)
	return c, nil
}

// config merges the defaults, the -config file and explicitly set flags.
func (c *Command) config() (Config, error) {
	conf := DefaultConfig()
	if c.configPath != "" {
		if err := LoadConfig(c.configPath, &conf); err != nil {
			return Config{}, err
		}
	}
	if c.iterations > math.MaxUint32 {
		return Config{}, fmt.Errorf("smooth: -n %d exceeds %d", c.iterations, uint32(math.MaxUint32))
	}
	c.flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			conf.Iterations = uint32(c.iterations)
		case "workers":
			conf.Workers = c.workers
		case "compress":
			conf.Compression = c.outputFlags.Compression
		}
	})
	return conf, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("smooth: must be run with a single file argument")
	}
	conf, err := c.config()
	if err != nil {
		return err
	}
	logger := c.Logger.Named("smooth")
	r, err := cli.OpenInput(args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	in, err := arrowio.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if err := algorithm.CheckChaikin(in.Type()); err != nil {
		return err
	}
	logger.Info("smoothing",
		zap.Stringer("type", in.Type()),
		zap.Int("chunks", in.NumChunks()),
		zap.Int("geometries", in.Len()),
		zap.Uint32("iterations", conf.Iterations),
		zap.Int("workers", conf.Workers))
	smooth := algorithm.Chaikin(conf.Iterations)
	out, err := in.ParallelMap(ctx, conf.Workers, func(a array.Array) (array.Array, error) {
		b, err := smooth(a)
		if err != nil {
			return nil, err
		}
		logger.Debug("smoothed chunk",
			zap.Int("geometries", a.Len()),
			zap.Int("coords_in", a.Coords().Len()),
			zap.Int("coords_out", b.Coords().Len()))
		return b, nil
	})
	if err != nil {
		return err
	}
	return c.outputFlags.Write(arrowio.WriterOpts{Compression: conf.Compression}, func(w *arrowio.Writer) error {
		return w.WriteChunked(out)
	})
}
