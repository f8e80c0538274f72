package charm

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootCommand struct {
	verbose bool
}

func (*rootCommand) Run(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}

type leafCommand struct {
	parent *rootCommand
	n      int
	args   []string
}

func (c *leafCommand) Run(args []string) error {
	c.args = args
	return nil
}

func newTree() (*Spec, *leafCommand) {
	var leaf *leafCommand
	root := &Spec{
		Name:  "tool",
		Usage: "tool <command>",
		Short: "a tool",
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			c := &rootCommand{}
			f.BoolVar(&c.verbose, "verbose", false, "be chatty")
			return c, nil
		},
	}
	root.Add(&Spec{
		Name:  "leaf",
		Usage: "leaf [-n count] args...",
		Short: "a leaf",
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			leaf = &leafCommand{parent: parent.(*rootCommand)}
			f.IntVar(&leaf.n, "n", 1, "count")
			return leaf, nil
		},
	})
	root.Add(&Spec{
		Name:   "secret",
		Short:  "hidden",
		Hidden: true,
		New: func(Command, *flag.FlagSet) (Command, error) {
			return &leafCommand{}, nil
		},
	})
	root.Add(Help)
	return root, leaf
}

func TestExecRoot(t *testing.T) {
	root, _ := newTree()
	require.NoError(t, root.ExecRoot([]string{"-verbose", "leaf", "-n", "3", "a", "b"}))
	// The constructor ran again; find the last leaf through a fresh parse.
	p, rest, err := parse(root, []string{"-verbose", "leaf", "-n", "3", "a", "b"}, nil)
	require.NoError(t, err)
	require.Len(t, p, 2)
	leaf := p.last().command.(*leafCommand)
	assert.Equal(t, 3, leaf.n)
	assert.True(t, leaf.parent.verbose)
	require.NoError(t, p.run(rest))
	assert.Equal(t, []string{"a", "b"}, leaf.args)
}

func TestNoSuchSubcommand(t *testing.T) {
	root, _ := newTree()
	err := root.ExecRoot([]string{"bogus"})
	assert.EqualError(t, err, `"tool": no such sub-command "bogus": options are: leaf help`)
}

func TestBadFlag(t *testing.T) {
	root, _ := newTree()
	err := root.ExecRoot([]string{"leaf", "-n", "x"})
	assert.ErrorContains(t, err, "leaf: invalid value")
}

func TestHelp(t *testing.T) {
	root, _ := newTree()
	var buf bytes.Buffer
	h := &HelpCommand{w: &buf}
	p, err := h.search([]string{"leaf"})
	require.NoError(t, err)
	h.help(p)
	out := buf.String()
	assert.Contains(t, out, "leaf - a leaf")
	assert.Contains(t, out, `-n count (default "1")`)
	assert.Contains(t, out, "[tool flags]")
	assert.Contains(t, out, "-verbose be chatty")

	buf.Reset()
	p, err = h.search(nil)
	require.NoError(t, err)
	h.help(p)
	assert.Contains(t, buf.String(), "leaf - a leaf")
	assert.NotContains(t, buf.String(), "secret")

	_, err = h.search([]string{"leaf", "nope"})
	assert.EqualError(t, err, "no such command: leaf nope")
	_ = root
}

func TestFormatParagraph(t *testing.T) {
	s := formatParagraph("one two three four five six", "  ", 10)
	assert.Equal(t, "  one two\n  three four\n  five six\n\n", s)
}
