package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kr/text"
	"golang.org/x/term"
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
	w     io.Writer
}

// flagMap creates a map that maps a name to a boolean based on the existence
// of that name in the comma-separated string of flags.  Whitespace is removed
// from each name.
func flagMap(flags string) map[string]bool {
	m := make(map[string]bool)
	for _, flag := range strings.Split(flags, ",") {
		if flag = strings.TrimSpace(flag); flag != "" {
			m[flag] = true
		}
	}
	return m
}

func (c *HelpCommand) search(args []string) (path, error) {
	parent, err := newInstance(nil, Help.Root())
	if err != nil {
		return nil, err
	}
	p := path{parent}
	for k, arg := range args {
		subcmd := parent.spec.lookupSub(arg)
		if subcmd == nil {
			return nil, fmt.Errorf("no such command: %s", strings.Join(args[:k+1], " "))
		}
		child, err := newInstance(parent.command, subcmd)
		if err != nil {
			return nil, err
		}
		p = append(p, child)
		parent = child
	}
	return p, nil
}

func (c *HelpCommand) Run(args []string) error {
	p, err := c.search(args)
	if err != nil {
		return err
	}
	c.help(p)
	return nil
}

func formatParagraph(body, tab string, lineWidth int) string {
	var chunks []string
	for _, paragraph := range strings.Split(body, "\n\n") {
		var chunk string
		if len(paragraph) < lineWidth {
			chunk = strings.TrimRight(paragraph, " \t\n")
		} else {
			paragraph = text.Wrap(strings.TrimSpace(paragraph), lineWidth)
			chunk = strings.ReplaceAll(paragraph, "\n", "\n"+tab)
		}
		chunks = append(chunks, chunk)
	}
	body = strings.Join(chunks, "\n\n"+tab)
	return tab + strings.TrimRight(body, " \t\n") + "\n\n"
}

const tab = "    "

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func header(heading string) string {
	return "\033[1m" + heading + "\033[0m"
}

func (c *HelpCommand) out() io.Writer {
	if c.w != nil {
		return c.w
	}
	return os.Stderr
}

func (c *HelpCommand) item(heading, body string) {
	fmt.Fprint(c.out(), header(heading)+"\n"+tab+body+"\n\n")
}

func (c *HelpCommand) desc(heading, body string) {
	body = strings.TrimLeft(body, "\n")
	lineWidth := terminalWidth() - len(tab) - 5
	if len(body) > lineWidth {
		body = formatParagraph(body, tab, lineWidth)
	} else {
		body = tab + body + "\n\n"
	}
	fmt.Fprint(c.out(), header(heading)+"\n"+body)
}

func (c *HelpCommand) list(heading string, lines []string) {
	fmt.Fprint(c.out(), header(heading)+"\n"+tab+strings.Join(lines, "\n"+tab)+"\n\n")
}

func (c *HelpCommand) commands(target *Spec) []string {
	var lines []string
	for _, cmd := range target.children {
		name := cmd.Name
		if cmd.Hidden {
			if !c.vflag {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+cmd.Short)
	}
	return lines
}

// options lists the flags of the last command in p followed by those of
// each enclosing command, which also apply.
func (c *HelpCommand) options(p path) []string {
	lines := p.last().options(c.vflag)
	if len(lines) == 0 {
		lines = []string{"no flags for this command"}
	}
	for k := len(p) - 2; k >= 0; k-- {
		opts := p[k].options(c.vflag)
		if len(opts) == 0 {
			continue
		}
		lines = append(lines, "", "["+p[:k+1].pathname()+" flags]")
		lines = append(lines, opts...)
	}
	return lines
}

func (c *HelpCommand) help(p path) {
	spec := p.last().spec
	c.item("NAME", spec.Name+" - "+spec.Short)
	c.desc("USAGE", spec.Usage)
	c.list("OPTIONS", c.options(p))
	if len(spec.children) > 0 {
		c.list("COMMANDS", c.commands(spec))
	}
	c.desc("DESCRIPTION", spec.Long)
}
