// Package charm is a minimalist CLI framework inspired by cobra and urfave/cli.
package charm

import (
	"errors"
	"flag"
	"os"
)

var (
	NeedHelp = errors.New("help")
	ErrNoRun = errors.New("no run method")
)

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden bool
	// Hidden flags (comma-separated) marks these flags as hidden.
	HiddenFlags string
	// Redacted flags (comma-separated) marks these flags as redacted,
	// where a flag is shown (if not hidden) but its default value is hidden.
	RedactedFlags string
	children      []*Spec
	parent        *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

// Root returns the top of the command tree containing s.
func (s *Spec) Root() *Spec {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

func (s *Spec) lookupSub(name string) *Spec {
	for _, child := range s.children {
		if name == child.Name {
			return child
		}
	}
	return nil
}

// ExecRoot parses args against the command tree rooted at s and runs the
// last command named.  A command returning NeedHelp, or a -h flag, prints
// help for that command to stderr.
func (s *Spec) ExecRoot(args []string) error {
	path, rest, err := parse(s, args)
	if err == nil {
		err = path.run(rest)
	}
	if errors.Is(err, NeedHelp) {
		path, err := parseHelp(s, args)
		if err != nil {
			return err
		}
		displayHelp(os.Stderr, path, false)
		return nil
	}
	return err
}
