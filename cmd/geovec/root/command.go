package root

import (
	"flag"

	"github.com/brimdata/geovec/cli"
	"github.com/brimdata/geovec/pkg/charm"
)

var Geovec = &charm.Spec{
	Name:  "geovec",
	Usage: "geovec <command> [options] [arguments...]",
	Short: "inspect and transform columnar geometry files",
	Long: `
geovec reads and writes geometry columns stored as Arrow IPC streams in the
GeoArrow native encoding.  Each record batch of a stream is one chunk of a
chunked geometry array and commands that transform geometries keep the chunk
boundaries of their input.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}
