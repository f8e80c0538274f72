package procflags

import (
	"errors"
	"flag"
	"runtime"
)

type Flags struct {
	Parallel int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&f.Parallel, "P", runtime.GOMAXPROCS(0), "number of files to convert concurrently")
}

func (f *Flags) Init() error {
	if f.Parallel <= 0 {
		return errors.New("-P value must be greater than zero")
	}
	return nil
}
