package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brimdata/geovec/pkg/terminal"
	"github.com/kr/text"
)

var Help = &Spec{
	Name:  "help",
	Usage: "help [command]",
	Short: "display help for a command",
	Long: `
For help on the top-level command just type "help".
For help on a subcommand, type "help command" where command is the name of
the command.  For help on command nested further, type "help cmd1 cmd2" and
so forth.`,
	HiddenFlags: "v",
	New: func(parent Command, f *flag.FlagSet) (Command, error) {
		c := &HelpCommand{}
		f.BoolVar(&c.vflag, "v", false, "show hidden commands and flags")
		return c, nil
	},
}

type HelpCommand struct {
	vflag bool
}

func (c *HelpCommand) Run(args []string) error {
	p, err := search(Help.Root(), args)
	if err != nil {
		return err
	}
	displayHelp(os.Stderr, p, c.vflag)
	return nil
}

// search instantiates the commands named by args starting from root.
func search(root *Spec, args []string) (path, error) {
	parent, err := newInstance(nil, root)
	if err != nil {
		return nil, err
	}
	p := path{parent}
	for k, arg := range args {
		spec := parent.spec.lookupSub(arg)
		if spec == nil {
			return nil, fmt.Errorf("no such command: %s", strings.Join(args[:k+1], " "))
		}
		child, err := newInstance(parent.command, spec)
		if err != nil {
			return nil, err
		}
		p = append(p, child)
		parent = child
	}
	return p, nil
}

// splitFlags is like strings.Split with a comma and also trims whitespace.
func splitFlags(flags string) []string {
	var out []string
	for _, flag := range strings.Split(flags, ",") {
		out = append(out, strings.TrimSpace(flag))
	}
	return out
}

// flagMap returns a set of the names in the comma-separated list flags.
func flagMap(flags string) map[string]bool {
	set := make(map[string]bool)
	for _, flag := range splitFlags(flags) {
		set[flag] = true
	}
	return set
}

const tab = "    "

func formatParagraph(body string, lineWidth int) string {
	var chunks []string
	for _, paragraph := range strings.Split(strings.TrimSpace(body), "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) >= lineWidth {
			paragraph = text.Wrap(paragraph, lineWidth)
		}
		chunks = append(chunks, text.Indent(paragraph, tab))
	}
	return strings.Join(chunks, "\n\n") + "\n\n"
}

type helpWriter struct {
	w     io.Writer
	bold  bool
	width int
}

func (h *helpWriter) header(heading string) string {
	if h.bold {
		return "\033[1m" + heading + "\033[0m"
	}
	return heading
}

func (h *helpWriter) item(heading, body string) {
	fmt.Fprint(h.w, h.header(heading)+"\n"+tab+body+"\n\n")
}

func (h *helpWriter) desc(heading, body string) {
	lineWidth := h.width - len(tab) - 5
	fmt.Fprint(h.w, h.header(heading)+"\n"+formatParagraph(body, lineWidth))
}

func (h *helpWriter) list(heading string, lines []string) {
	fmt.Fprint(h.w, h.header(heading)+"\n"+tab+strings.Join(lines, "\n"+tab)+"\n\n")
}

func commandLines(spec *Spec, vflag bool) []string {
	var lines []string
	for _, cmd := range spec.children {
		name := cmd.Name
		if cmd.Hidden {
			if !vflag {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+cmd.Short)
	}
	return lines
}

// optionLines lists the flags of the last command in p followed by the
// flags of each ancestor under its own heading.
func optionLines(p path, vflag bool) []string {
	lines := p.last().options(vflag)
	if len(lines) == 0 {
		lines = []string{"no flags for this command"}
	}
	for k := len(p) - 2; k >= 0; k-- {
		options := p[k].options(vflag)
		if len(options) == 0 {
			continue
		}
		lines = append(lines, "", "["+p[:k+1].pathname()+" flags]")
		lines = append(lines, options...)
	}
	return lines
}

func displayHelp(w io.Writer, p path, vflag bool) {
	h := &helpWriter{w: w, width: terminal.Width()}
	if f, ok := w.(*os.File); ok {
		h.bold = terminal.IsTerminalFile(f)
	}
	spec := p.last().spec
	h.item("NAME", spec.Name+" - "+spec.Short)
	h.desc("USAGE", spec.Usage)
	h.list("OPTIONS", optionLines(p, vflag))
	if len(spec.children) > 0 {
		h.list("COMMANDS", commandLines(spec, vflag))
	}
	h.desc("DESCRIPTION", spec.Long)
}
