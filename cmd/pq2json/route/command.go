package route

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/brimdata/pqjson/cli/inputflags"
	"github.com/brimdata/pqjson/cli/logflags"
	"github.com/brimdata/pqjson/cli/procflags"
	"github.com/brimdata/pqjson/cmd/pq2json/root"
	"github.com/brimdata/pqjson/convert"
	"github.com/brimdata/pqjson/pkg/charm"
	"github.com/brimdata/pqjson/pkg/rlimit"
	"github.com/brimdata/pqjson/route"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "route",
	Usage: "route -success dir -failure dir [options] dir",
	Short: "convert files in a directory and route them by outcome",
	Long: `
The route command converts each file in dir whose name matches -pattern.
The JSON output of a successful conversion is written to the -success
directory and the input is removed.  An input that fails to convert is moved
unmodified to the -failure directory and leaves no output behind.

With -attrs, a JSON attributes file is written next to each routed file:
row and byte counts for a success and the error for a failure.

With -watch, the command keeps running and converts new files as they
appear in dir, once they have been idle for -settle.  Progress and
failures are logged as configured by the -log flags.`,
	New: New,
}

type Command struct {
	*root.Command
	conf       route.Config
	inputFlags inputflags.Flags
	logFlags   logflags.Flags
	procFlags  procflags.Flags
	watch      bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	c.logFlags.SetFlags(f)
	c.procFlags.SetFlags(f)
	f.StringVar(&c.conf.SuccessDir, "success", "", "directory for JSON output of converted files")
	f.StringVar(&c.conf.FailureDir, "failure", "", "directory for files that failed to convert")
	f.StringVar(&c.conf.Pattern, "pattern", route.DefaultPattern, "convert only files whose names match this glob")
	f.BoolVar(&c.conf.Attributes, "attrs", false, "write a JSON attributes file next to each routed file")
	f.Var(&c.conf.Compression, "z", "compress output [none,gz,lz4,zst]")
	f.DurationVar(&c.conf.Settle, "settle", route.DefaultSettle, "with -watch, how long an input file must be idle before it is converted")
	f.BoolVar(&c.watch, "watch", false, "keep watching dir for new files")
	f.BoolVar(&c.conf.Convert.JSON.NDJSON, "ndjson", false, "write one object per line instead of a JSON array")
	f.Var(&c.conf.Convert.JSON.NonFinite, "nonfinite", "how to write NaN and Infinity [literal,null,string,error] (default literal)")
	f.BoolVar(&c.conf.Convert.JSON.Strict, "strict", false, "fail on a required field with no value instead of writing null")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags, &c.logFlags, &c.procFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("pq2json route: a single input directory must be specified")
	}
	logger, err := c.logFlags.Open()
	if err != nil {
		return err
	}
	defer logger.Sync()
	c.conf.Workers = c.procFlags.Parallel
	c.conf.Convert = convert.Config{
		Decoder:      c.inputFlags.Decoder,
		JSON:         c.conf.Convert.JSON,
		MaxInputSize: c.inputFlags.MaxInput(),
	}
	r, err := route.New(c.conf, logger.Named("route"))
	if err != nil {
		return err
	}
	if c.watch {
		if _, err := rlimit.RaiseOpenFilesLimit(); err != nil {
			logger.Warn("Raising open files limit failed", zap.Error(err))
		}
		logger.Info("Watching", zap.String("dir", args[0]), zap.Duration("settle", c.conf.Settle))
		err := r.Watch(ctx, args[0])
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	start := time.Now()
	results, err := r.RunOnce(ctx, args[0])
	if err != nil {
		return err
	}
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Info("Routed",
		zap.Int("files", len(results)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", failed, len(results))
	}
	return nil
}
