package charm

import (
	"errors"
	"flag"
	"io"
	"strings"
)

// parse walks args down the command tree from spec, instantiating each
// command and parsing its flags.  The walk stops at the first argument that
// does not name a subcommand and the remaining arguments are returned.
func parse(spec *Spec, args []string) (path, []string, error) {
	var p path
	var parent Command
	for {
		inst, err := newInstance(parent, spec)
		if err != nil {
			return nil, nil, err
		}
		p = append(p, inst)
		rest, err := parseFlags(inst.flags, args)
		if err != nil {
			return nil, nil, err
		}
		if len(rest) == 0 {
			return p, rest, nil
		}
		child := spec.lookupSub(rest[0])
		if child == nil {
			return p, rest, nil
		}
		spec, parent, args = child, inst.command, rest[1:]
	}
}

// parseHelp finds the command that help was requested for by following the
// subcommand names in args and ignoring everything else.
func parseHelp(spec *Spec, args []string) (path, error) {
	inst, err := newInstance(nil, spec)
	if err != nil {
		return nil, err
	}
	p := path{inst}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		child := p.last().spec.lookupSub(arg)
		if child == nil {
			continue
		}
		inst, err := newInstance(p.last().command, child)
		if err != nil {
			return nil, err
		}
		p = append(p, inst)
	}
	return p, nil
}

func parseFlags(flags *flag.FlagSet, args []string) ([]string, error) {
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, NeedHelp
		}
		return nil, err
	}
	return flags.Args(), nil
}
