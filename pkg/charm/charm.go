// Package charm is minimilast CLI framework inspired by cobra and urfave/cli.
package charm

import (
	"errors"
	"flag"
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
	// where a flag is shown (if not hidden) but its default value is hidden,
	// e.g., as is useful for a password flag.
	RedactedFlags string
	children      []*Spec
	parent        *Spec
}

func (s *Spec) Add(child *Spec) {
	s.children = append(s.children, child)
	child.parent = s
}

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

// Exec runs the command tree at s beneath parent.
func (s *Spec) Exec(parent Command, args []string) error {
	p, rest, err := parse(s, args, parent)
	if err != nil {
		return err
	}
	return p.run(rest)
}

// ExecRoot runs the command tree at s with the process arguments.  A command
// returning NeedHelp, or a -h or -help flag anywhere in the command path,
// displays help for that command.
func (s *Spec) ExecRoot(args []string) error {
	p, rest, err := parse(s, args, nil)
	if err == nil {
		err = p.run(rest)
	}
	if err == NeedHelp {
		h := &HelpCommand{}
		path, err := h.search(p.names()[1:])
		if err != nil {
			return err
		}
		h.help(path)
		return nil
	}
	return err
}

// parse instantiates each command along the path named by args and parses
// its flags.  It returns the path so far even on error.
func parse(spec *Spec, args []string, parent Command) (path, []string, error) {
	var p path
	for {
		inst, err := newInstance(parent, spec)
		if err != nil {
			return p, nil, err
		}
		p = append(p, inst)
		rest, err := inst.parseFlags(args)
		if err != nil || len(rest) == 0 {
			return p, rest, err
		}
		child := spec.lookupSub(rest[0])
		if child == nil {
			return p, rest, nil
		}
		spec, parent, args = child, inst.command, rest[1:]
	}
}
