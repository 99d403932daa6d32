package main

import (
	"fmt"
	"os"

	_ "github.com/brimdata/geovec/cmd/geovec/info"
	"github.com/brimdata/geovec/cmd/geovec/root"
	_ "github.com/brimdata/geovec/cmd/geovec/smooth"
	"github.com/brimdata/geovec/pkg/charm"
)

func main() {
	root.Geovec.Add(charm.Help)
	if err := root.Geovec.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
