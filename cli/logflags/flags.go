// Package logflags holds the -log.* flags shared by the long-running
// pq2json commands, route and serve.
package logflags

import (
	"errors"
	"flag"

	"github.com/brimdata/pqjson/service/logger"
	"go.uber.org/zap"
)

type Flags struct {
	Config logger.Config
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.Config.DevMode, "log.devmode", false, "panic on dpanic-level pq2json log entries")
	f.Config.Level = zap.InfoLevel
	fs.Var(&f.Config.Level, "log.level", "minimum level of pq2json log entries (debug,info,warn,error,...)")
	fs.StringVar(&f.Config.Path, "log.path", "stderr", "where pq2json writes its log: stderr, stdout, or a file")
	f.Config.Mode = logger.FileModeAppend
	fs.Var(&f.Config.Mode, "log.filemode", "how to open a -log.path file [append,truncate,rotate]")
}

// Init rejects a file mode other than the default when logs do not go to a
// file, where it would be silently ignored.
func (f *Flags) Init() error {
	switch f.Config.Path {
	case "", "stderr", "stdout":
		if f.Config.Mode != logger.FileModeAppend {
			return errors.New("-log.filemode requires -log.path to name a file")
		}
	}
	return nil
}

// Open returns the logger the flags describe.  Its caller must Sync it.
func (f *Flags) Open() (*zap.Logger, error) {
	return logger.New(f.Config)
}
